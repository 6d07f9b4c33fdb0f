package deeprole

import (
	"math"
	"testing"

	"github.com/timpalpant/deeprole/gamestate"
	"github.com/timpalpant/deeprole/roles"
)

func TestResponsibility(t *testing.T) {
	for _, p := range []float64{0, 0.1, 0.3, 0.5, 0.9, 1} {
		for _, q := range []float64{0.05, 0.25, 0.5, 0.75, 0.99} {
			u := p*(1-q) + (1-p)*q
			product := responsibility(p, q) * responsibility(q, p)
			if math.Abs(product-u) > 1e-12 {
				t.Errorf("pass probabilities %v, %v: responsibilities multiply to %v, expected %v",
					p, q, product, u)
			}
		}
	}
}

// firstMission returns the mission for the first proposal of the root
// when everybody approves.
func firstMission(t *testing.T, root *Node) *Node {
	mission := root.GetChild(0).GetChild(1<<roles.NumPlayers - 1)
	if mission.Type != Mission {
		t.Fatalf("expected mission node, got %v", mission)
	}

	return mission
}

func TestMissionReachProbabilities(t *testing.T) {
	root := mustNewLookahead(t, gamestate.GameState{}, 0)
	mission := firstMission(t, root)
	if mission.Proposal != roles.NewTeam(0, 1) {
		t.Fatalf("unexpected first proposal: %v", mission.Proposal)
	}

	paired := roles.AssignmentIndex(roles.Assignment{Merlin: 2, Assassin: 0, Minion: 1})
	vp0 := roles.Perspective(0, paired)
	vp1 := roles.Perspective(1, paired)
	alone := roles.AssignmentIndex(roles.Assignment{Merlin: 1, Assassin: 0, Minion: 3})
	vpAlone := roles.Perspective(0, alone)

	strategy := &mission.mission.strategy
	strategy[0][vp0] = [2]float64{0.3, 0.7}
	strategy[1][vp1] = [2]float64{0.6, 0.4}
	strategy[0][vpAlone] = [2]float64{0.2, 0.8}
	mission.fillMissionReachProbabilities()

	passed, oneFail, twoFails := mission.GetChild(0), mission.GetChild(1), mission.GetChild(2)
	if passed.ReachProbs[0][vp0] != 0.3 || twoFails.ReachProbs[0][vp0] != 0.7 {
		t.Errorf("unexpected reach for unambiguous outcomes: %v, %v",
			passed.ReachProbs[0][vp0], twoFails.ReachProbs[0][vp0])
	}

	u := 0.3*0.4 + 0.7*0.6
	product := oneFail.ReachProbs[0][vp0] * oneFail.ReachProbs[1][vp1]
	if math.Abs(product-u) > 1e-12 {
		t.Errorf("single fail reach multiplies to %v, expected %v", product, u)
	}

	if oneFail.ReachProbs[0][vpAlone] != 0.8 || passed.ReachProbs[0][vpAlone] != 0.2 {
		t.Errorf("unexpected reach without partner on mission: %v, %v",
			passed.ReachProbs[0][vpAlone], oneFail.ReachProbs[0][vpAlone])
	}

	for i := 0; i < mission.NumChildren(); i++ {
		child := mission.GetChild(i)
		for vp := 0; vp < roles.NumGoodViewpoints; vp++ {
			if child.ReachProbs[0][vp] != 1 {
				t.Errorf("good viewpoint %d changed reach to %v", vp, child.ReachProbs[0][vp])
			}
		}

		for player := 2; player < roles.NumPlayers; player++ {
			if child.ReachProbs[player] != mission.ReachProbs[player] {
				t.Errorf("player %d is not on the mission but reach changed", player)
			}
		}
	}
}

func TestFullReachProbabilities(t *testing.T) {
	root := mustNewLookahead(t, gamestate.GameState{}, 0)
	mission := firstMission(t, root)
	strategy := &mission.mission.strategy
	for player := 0; player < roles.NumPlayers; player++ {
		for vp := range strategy[player] {
			p := float64(player+vp+1) / 25.0
			strategy[player][vp] = [2]float64{p, 1 - p}
		}
	}
	mission.fillMissionReachProbabilities()

	oneFail := mission.GetChild(1)
	oneFail.fillReachProbabilities()
	fullReach := oneFail.FullReachProbabilities()
	for a, reach := range fullReach {
		evil := roles.EvilPlayers(a)
		if evil.Intersect(mission.Proposal).Len() == 0 {
			if reach != 0 {
				t.Errorf("assignment %v could not fail %v but has reach %v",
					roles.GetAssignment(a), mission.Proposal, reach)
			}
			continue
		}

		expected := 1.0
		for player := 0; player < roles.NumPlayers; player++ {
			expected *= oneFail.ReachProbs[player][roles.Perspective(player, a)]
		}

		if reach != expected || reach <= 0 {
			t.Errorf("assignment %v has reach %v, expected %v", roles.GetAssignment(a), reach, expected)
		}
	}
}

func TestBelief(t *testing.T) {
	root := mustNewLookahead(t, gamestate.GameState{}, 0)
	mission := firstMission(t, root)
	mission.calculateStrategy(false)
	mission.fillMissionReachProbabilities()
	oneFail := mission.GetChild(1)
	oneFail.fillReachProbabilities()

	prior := UniformAssignmentVector()
	belief, total := oneFail.Belief(&prior)
	if total <= 0 {
		t.Fatalf("expected node to be reachable")
	}

	sum := 0.0
	for a, p := range belief {
		if roles.EvilPlayers(a).Intersect(mission.Proposal).Len() == 0 && p != 0 {
			t.Errorf("impossible assignment %v has belief %v", roles.GetAssignment(a), p)
		}
		sum += p
	}

	if math.Abs(sum-1.0) > 1e-12 {
		t.Errorf("belief sums to %v", sum)
	}

	var zero AssignmentVector
	belief, total = oneFail.Belief(&zero)
	if total != 0 {
		t.Errorf("expected zero total for zero prior, got %v", total)
	}
	if belief != zero {
		t.Errorf("expected zero belief for zero prior, got %v", belief)
	}
}
