package deeprole

import (
	"fmt"

	"github.com/timpalpant/deeprole/roles"
)

// calculateCounterfactualValues computes the counterfactual values of the
// subtree from the leaves up, and updates regrets at each decision.
// Strategies and reach probabilities must already be set for this iteration.
func (n *Node) calculateCounterfactualValues(prior *AssignmentVector, estimator LeafEstimator) {
	for i := range n.children {
		n.children[i].calculateCounterfactualValues(prior, estimator)
	}

	for player := range n.Values {
		n.Values[player] = ViewpointVector{}
	}

	switch n.Type {
	case Propose:
		n.calculateProposeValues()
	case Vote:
		n.calculateVoteValues()
	case Mission:
		n.calculateMissionValues()
	case TerminalMerlin:
		n.calculateMerlinValues(prior)
	case TerminalNoConsensus, TerminalTooManyFails:
		n.calculateEvilWinsValues(prior)
	case TerminalCutoff:
		n.calculateCutoffValues(prior, estimator)
	default:
		panic(fmt.Errorf("unimplemented node type: %v", n.Type))
	}
}

func (n *Node) calculateProposeValues() {
	proposer := n.Proposer
	strategy := &n.propose.strategy
	for player := range n.Values {
		for i := range n.children {
			childValues := &n.children[i].Values[player]
			for vp, v := range childValues {
				if player == proposer {
					n.Values[player][vp] += strategy[vp][i] * v
				} else {
					n.Values[player][vp] += v
				}
			}
		}
	}

	regrets := &n.propose.regrets
	for i := range n.children {
		childValues := &n.children[i].Values[proposer]
		for vp := range regrets {
			regrets[vp][i] = floorRegret(regrets[vp][i] + childValues[vp] - n.Values[proposer][vp])
		}
	}
}

func (n *Node) calculateVoteValues() {
	for player := range n.Values {
		strategy := &n.vote.strategy[player]
		var actionValues binaryTable
		for votes := range n.children {
			vote := (votes >> uint(player)) & 1
			for vp, v := range n.children[votes].Values[player] {
				actionValues[vp][vote] += v
			}
		}

		regrets := &n.vote.regrets[player]
		for vp := range actionValues {
			value := strategy[vp][VoteReject]*actionValues[vp][VoteReject] +
				strategy[vp][VoteApprove]*actionValues[vp][VoteApprove]
			n.Values[player][vp] = value
			for vote := range regrets[vp] {
				regrets[vp][vote] = floorRegret(regrets[vp][vote] + actionValues[vp][vote] - value)
			}
		}
	}
}

func (n *Node) calculateMissionValues() {
	for player := range n.Values {
		if !n.Proposal.Contains(player) {
			// Not on the mission: made no decision.
			for i := range n.children {
				for vp, v := range n.children[i].Values[player] {
					n.Values[player][vp] += v
				}
			}
			continue
		}

		// Good players have no real choice on the mission.
		for vp := 0; vp < roles.NumGoodViewpoints; vp++ {
			for i := range n.children {
				n.Values[player][vp] += n.children[i].Values[player][vp]
			}
		}

		strategy := &n.mission.strategy[player]
		regrets := &n.mission.regrets[player]
		for vp := roles.NumGoodViewpoints; vp < roles.NumViewpoints; vp++ {
			passValue, failValue := n.missionActionValues(player, vp)
			value := strategy[vp][MissionPass]*passValue + strategy[vp][MissionFail]*failValue
			n.Values[player][vp] = value
			regrets[vp][MissionPass] = floorRegret(regrets[vp][MissionPass] + passValue - value)
			regrets[vp][MissionFail] = floorRegret(regrets[vp][MissionFail] + failValue - value)
		}
	}
}

// missionActionValues returns the counterfactual value of passing and of
// failing for an evil player on the mission.
func (n *Node) missionActionValues(player, vp int) (passValue, failValue float64) {
	partner := roles.Partner(player, vp)
	if !n.Proposal.Contains(partner) {
		// The only evil player on the mission: the number of fails
		// reveals exactly what we did.
		return n.children[0].Values[player][vp], n.children[1].Values[player][vp]
	}

	// Both partners are on the mission. If we both pass (fail) there are 0 (2)
	// fails. The single-fail branch is reached if we pass and our partner
	// fails, or vice versa. Its value for us was weighted by our partner's
	// share of responsibility for that outcome, so divide it out to recover
	// the value independent of our partner's mission strategy, then split it
	// by what our partner actually does.
	partnerVP := roles.PartnerViewpoint(player, vp)
	partnerPass := n.mission.strategy[partner][partnerVP][MissionPass]
	partnerResponsibility := n.singleFailResponsibility(partner, partnerVP)
	middleValue := n.children[1].Values[player][vp] / partnerResponsibility

	passValue = n.children[0].Values[player][vp] + (1.0-partnerPass)*middleValue
	failValue = n.children[roles.NumEvil].Values[player][vp] + partnerPass*middleValue
	return passValue, failValue
}

// calculateMerlinValues evaluates the Assassin's guess at Merlin.
func (n *Node) calculateMerlinValues(prior *AssignmentVector) {
	var regretDeltas [roles.NumPlayers]guessTable
	for a, reach := range n.fullReachProbs {
		if reach == 0 {
			continue
		}

		assignment := roles.GetAssignment(a)
		assassin := assignment.Assassin
		assassinVP := roles.Perspective(assassin, a)
		correctProb := n.merlin.strategy[assassin][assassinVP][assignment.Merlin]
		evilPayoff := correctProb*roles.EvilWinPayoff + (1.0-correctProb)*roles.EvilLosePayoff
		goodPayoff := correctProb*roles.GoodLosePayoff + (1.0-correctProb)*roles.GoodWinPayoff

		evil := roles.EvilPlayers(a)
		for player := range n.Values {
			vp := roles.Perspective(player, a)
			payoff := goodPayoff
			if evil.Contains(player) {
				payoff = evilPayoff
			}

			n.Values[player][vp] += n.counterfactualReach(reach, player, vp) * prior[a] * payoff
		}

		weight := n.counterfactualReach(reach, assassin, assassinVP) * prior[a]
		for guess := range regretDeltas[assassin][assassinVP] {
			payoff := roles.EvilLosePayoff
			if guess == assignment.Merlin {
				payoff = roles.EvilWinPayoff
			}

			regretDeltas[assassin][assassinVP][guess] += weight * (payoff - evilPayoff)
		}
	}

	for player := range regretDeltas {
		for vp := range regretDeltas[player] {
			for guess, delta := range regretDeltas[player][vp] {
				r := &n.merlin.regrets[player][vp][guess]
				*r = floorRegret(*r + delta)
			}
		}
	}
}

// calculateEvilWinsValues evaluates terminal nodes where evil wins outright.
func (n *Node) calculateEvilWinsValues(prior *AssignmentVector) {
	for a, reach := range n.fullReachProbs {
		if reach == 0 {
			continue
		}

		evil := roles.EvilPlayers(a)
		for player := range n.Values {
			vp := roles.Perspective(player, a)
			payoff := roles.Payoff(evil.Contains(player), true)
			n.Values[player][vp] += n.counterfactualReach(reach, player, vp) * prior[a] * payoff
		}
	}
}

// calculateCutoffValues asks the leaf estimator for the value of
// continuing play from the node.
func (n *Node) calculateCutoffValues(prior *AssignmentVector, estimator LeafEstimator) {
	if estimator == nil {
		panic(fmt.Errorf("reached %v without a leaf estimator", n))
	}

	belief, total := n.Belief(prior)
	if total == 0 {
		return
	}

	leafEvaluations.Add(1)
	estimator.Estimate(n.GameState, &belief, &n.Values)
	// The estimate is weighted by the normalized belief; rescale it to the
	// actual probability of reaching the node, excluding each player's
	// own contribution.
	for player := range n.Values {
		for vp, own := range n.ReachProbs[player] {
			if own == 0 {
				n.Values[player][vp] = 0
			} else {
				n.Values[player][vp] *= total / own
			}
		}
	}
}

// counterfactualReach removes the player's own contribution from the
// probability of reaching the node under an assignment.
func (n *Node) counterfactualReach(reach float64, player, vp int) float64 {
	return reach / n.ReachProbs[player][vp]
}

// floorRegret clamps negative regret to zero (CFR+).
func floorRegret(r float64) float64 {
	if r < 0 {
		return 0
	}
	return r
}
