package deeprole

import (
	"math"
	"testing"

	"github.com/timpalpant/deeprole/gamestate"
	"github.com/timpalpant/deeprole/roles"
)

// viewpointMass returns the prior probability that the player holds the viewpoint.
func viewpointMass(prior *AssignmentVector, player, vp int) float64 {
	total := 0.0
	for _, a := range roles.ViewpointAssignments(player, vp) {
		total += prior[a]
	}

	return total
}

func sumValues(values *[roles.NumPlayers]ViewpointVector) float64 {
	total := 0.0
	for player := range values {
		for _, v := range values[player] {
			total += v
		}
	}

	return total
}

func TestNoConsensusValues(t *testing.T) {
	state := gamestate.GameState{NumSucceeds: 1, NumFails: 2, Proposer: 2, ProposeCount: 4}
	root := mustNewLookahead(t, state, 0)
	leaf := root.GetChild(3).GetChild(0)
	if leaf.Type != TerminalNoConsensus {
		t.Fatalf("expected no consensus, got %v", leaf)
	}

	prior := UniformAssignmentVector()
	leaf.fillReachProbabilities()
	leaf.calculateCounterfactualValues(&prior, nil)
	for player := 0; player < roles.NumPlayers; player++ {
		for vp := 0; vp < roles.NumViewpoints; vp++ {
			expected := roles.Payoff(roles.IsEvilViewpoint(vp), true)
			value := leaf.Values[player][vp] / viewpointMass(&prior, player, vp)
			if math.Abs(value-expected) > 1e-12 {
				t.Errorf("player %d viewpoint %d: value %v, expected %v", player, vp, value, expected)
			}
		}
	}
}

func TestTooManyFailsValuesExcludeImpossible(t *testing.T) {
	state := gamestate.GameState{NumSucceeds: 0, NumFails: 2, Proposer: 0, ProposeCount: 0}
	root := mustNewLookahead(t, state, 0)
	mission := firstMission(t, root)
	prior := UniformAssignmentVector()
	mission.calculateStrategy(false)
	mission.fillMissionReachProbabilities()

	leaf := mission.GetChild(2)
	if leaf.Type != TerminalTooManyFails {
		t.Fatalf("expected too many fails, got %v", leaf)
	}

	leaf.fillReachProbabilities()
	leaf.calculateCounterfactualValues(&prior, nil)
	// Two fails on {0, 1} means they are both evil, so player 2 must be good.
	for vp := roles.NumGoodViewpoints; vp < roles.NumViewpoints; vp++ {
		if leaf.Values[2][vp] != 0 {
			t.Errorf("player 2 evil viewpoint %d has value %v", vp, leaf.Values[2][vp])
		}
	}

	if leaf.Values[2][0] >= 0 {
		t.Errorf("expected servant to lose, got %v", leaf.Values[2][0])
	}
}

func TestMerlinGuess(t *testing.T) {
	node := &Node{
		Type:      TerminalMerlin,
		GameState: gamestate.GameState{NumSucceeds: roles.NumMissionsToWin},
	}
	node.allocate()

	prior := UniformAssignmentVector()
	for iter := 0; iter < 10; iter++ {
		Iterate(node, &prior, nil, true)
	}

	a := roles.AssignmentIndex(roles.Assignment{Merlin: 2, Assassin: 0, Minion: 1})
	vp := roles.Perspective(0, a)
	strategy := node.MerlinStrategy(0, vp)
	// Without any information, the Assassin should never guess an evil
	// player and be indifferent between the rest.
	for guess, p := range strategy {
		if guess == 0 || guess == 1 {
			if p > 1e-12 {
				t.Errorf("assassin guesses evil player %d with probability %v", guess, p)
			}
		} else if math.Abs(p-1.0/3) > 1e-6 {
			t.Errorf("assassin guesses %d with probability %v, expected 1/3", guess, p)
		}
	}

	if math.Abs(sumValues(&node.Values)) > 1e-12 {
		t.Errorf("values are not zero-sum: %v", node.Values)
	}
}

func TestRootValuesAreZeroSum(t *testing.T) {
	for proposer := 0; proposer < roles.NumPlayers; proposer += 2 {
		s := gamestate.GameState{NumSucceeds: 2, NumFails: 2, Proposer: proposer, ProposeCount: 4}
		root := mustNewLookahead(t, s, 0)
		prior := UniformAssignmentVector()
		for iter := 0; iter < 20; iter++ {
			Iterate(root, &prior, nil, iter >= 5)
			if total := sumValues(&root.Values); math.Abs(total) > 1e-9 {
				t.Fatalf("%v: iteration %d: values sum to %v", s, iter, total)
			}
		}
	}
}

// evilWinsEstimator pretends evil always wins from a cutoff.
func evilWinsEstimator(calls *int, t *testing.T) LeafEstimatorFunc {
	return func(state gamestate.GameState, belief *AssignmentVector, out *[roles.NumPlayers]ViewpointVector) {
		*calls++
		if err := state.Validate(); err != nil {
			t.Errorf("estimator called with invalid state: %v", err)
		}

		total := 0.0
		for _, p := range belief {
			total += p
		}
		if math.Abs(total-1.0) > 1e-9 {
			t.Errorf("belief sums to %v", total)
		}

		*out = [roles.NumPlayers]ViewpointVector{}
		for a, p := range belief {
			evil := roles.EvilPlayers(a)
			for player := range out {
				vp := roles.Perspective(player, a)
				out[player][vp] += p * roles.Payoff(evil.Contains(player), true)
			}
		}
	}
}

func TestCutoffValues(t *testing.T) {
	root := mustNewLookahead(t, gamestate.GameState{}, 0)
	prior := UniformAssignmentVector()
	calls := 0
	estimator := evilWinsEstimator(&calls, t)
	for iter := 0; iter < 3; iter++ {
		Iterate(root, &prior, estimator, true)
		if total := sumValues(&root.Values); math.Abs(total) > 1e-9 {
			t.Errorf("iteration %d: values sum to %v", iter, total)
		}
	}

	if expected := 3 * CountNodesOfType(root, TerminalCutoff); calls != expected {
		t.Errorf("estimator called %d times, expected %d", calls, expected)
	}

	// Every leaf is an evil win, so nothing anybody does matters.
	for player := 0; player < roles.NumPlayers; player++ {
		for vp := 0; vp < roles.NumViewpoints; vp++ {
			expected := roles.Payoff(roles.IsEvilViewpoint(vp), true)
			value := root.Values[player][vp] / viewpointMass(&prior, player, vp)
			if math.Abs(value-expected) > 1e-9 {
				t.Errorf("player %d viewpoint %d: value %v, expected %v", player, vp, value, expected)
			}
		}
	}
}

func TestCutoffWithoutEstimatorPanics(t *testing.T) {
	root := mustNewLookahead(t, gamestate.GameState{}, 0)
	prior := UniformAssignmentVector()
	defer func() {
		if r := recover(); r == nil {
			t.Errorf("expected panic without leaf estimator")
		}
	}()

	Iterate(root, &prior, nil, false)
}
