package deeprole

import (
	"fmt"
	"math"

	"github.com/timpalpant/deeprole/roles"
)

// fillReachProbabilities sets the reach probabilities of the node's children
// from its own reach probabilities and current strategy.
func (n *Node) fillReachProbabilities() {
	switch n.Type {
	case Propose:
		n.fillProposeReachProbabilities()
	case Vote:
		n.fillVoteReachProbabilities()
	case Mission:
		n.fillMissionReachProbabilities()
	case TerminalMerlin, TerminalNoConsensus, TerminalTooManyFails, TerminalCutoff:
		n.fillFullReachProbabilities(n.fullReachProbs)
	default:
		panic(fmt.Errorf("unimplemented node type: %v", n.Type))
	}
}

// Proposals are public, so only the proposer's reach changes.
func (n *Node) fillProposeReachProbabilities() {
	proposer := n.Proposer
	for i := range n.children {
		child := &n.children[i]
		child.ReachProbs = n.ReachProbs
		for vp := range child.ReachProbs[proposer] {
			child.ReachProbs[proposer][vp] *= n.propose.strategy[vp][i]
		}
	}
}

// Votes are simultaneous, but every player's vote is revealed, so each
// player's reach is scaled by the probability of their own vote.
func (n *Node) fillVoteReachProbabilities() {
	for votes := range n.children {
		child := &n.children[votes]
		for player := 0; player < roles.NumPlayers; player++ {
			vote := (votes >> uint(player)) & 1
			for vp := range child.ReachProbs[player] {
				child.ReachProbs[player][vp] = n.ReachProbs[player][vp] * n.vote.strategy[player][vp][vote]
			}
		}
	}
}

// Mission actions are private and only the number of fails is revealed.
//
// Players not on the mission, and good viewpoints of players on the mission,
// pass through unchanged: good players always pass, and any assignment
// that would require a good player to fail is removed at the leaves by
// checking the history of fails.
func (n *Node) fillMissionReachProbabilities() {
	strategy := &n.mission.strategy
	for numFails := range n.children {
		child := &n.children[numFails]
		child.ReachProbs = n.ReachProbs

		n.Proposal.Iter(func(player int) {
			for vp := roles.NumGoodViewpoints; vp < roles.NumViewpoints; vp++ {
				switch numFails {
				case 0:
					child.ReachProbs[player][vp] *= strategy[player][vp][MissionPass]
				case 1:
					partner := roles.Partner(player, vp)
					if n.Proposal.Contains(partner) {
						// Exactly one of the pair failed, but we don't know which.
						child.ReachProbs[player][vp] *= n.singleFailResponsibility(player, vp)
					} else {
						child.ReachProbs[player][vp] *= strategy[player][vp][MissionFail]
					}
				case roles.NumEvil:
					child.ReachProbs[player][vp] *= strategy[player][vp][MissionFail]
				default:
					panic(fmt.Errorf("mission on %v cannot have %d fails", n.Proposal, numFails))
				}
			}
		})
	}
}

// singleFailResponsibility returns the reach multiplier for an evil player
// whose partner is on the same mission when exactly one fail is observed.
//
// The probability u that exactly one of the pair fails is split between
// the two partners as u^e and u^(1-e), with e weighted toward the player
// whose own strategy is closer to deterministic. The product of both
// partners' multipliers is u.
func (n *Node) singleFailResponsibility(me, myVP int) float64 {
	partner := roles.Partner(me, myVP)
	partnerVP := roles.PartnerViewpoint(me, myVP)
	if !n.Proposal.Contains(me) || !n.Proposal.Contains(partner) {
		panic(fmt.Errorf("players %d and %d are not both on mission %v", me, partner, n.Proposal))
	}

	myPass := n.mission.strategy[me][myVP][MissionPass]
	partnerPass := n.mission.strategy[partner][partnerVP][MissionPass]
	return responsibility(myPass, partnerPass)
}

func responsibility(myPass, partnerPass float64) float64 {
	outcomeProb := myPass*(1.0-partnerPass) + (1.0-myPass)*partnerPass
	myPortion := myPass*myPass + (1.0-myPass)*(1.0-myPass)
	partnerPortion := partnerPass*partnerPass + (1.0-partnerPass)*(1.0-partnerPass)
	exponent := myPortion / (myPortion + partnerPortion)
	return math.Pow(outcomeProb, exponent)
}

// fillFullReachProbabilities computes, for every assignment, the probability
// that all players play to reach this node. Assignments that could not
// have produced the observed mission fails have probability zero.
func (n *Node) fillFullReachProbabilities(out *AssignmentVector) {
	for a := range out {
		if !n.Fails.IsPossible(roles.EvilPlayers(a)) {
			out[a] = 0
			continue
		}

		p := 1.0
		for player := 0; player < roles.NumPlayers; player++ {
			p *= n.ReachProbs[player][roles.Perspective(player, a)]
		}
		out[a] = p
	}
}
