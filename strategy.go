package deeprole

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/timpalpant/deeprole/roles"
)

// trembleValue is the probability mass mixed uniformly into every strategy
// so that all actions have positive probability. The mission value pass
// divides by reach multipliers built from these probabilities.
const trembleValue = 1e-25

// regretMatch sets strategy proportional to the positive regrets for each
// action, falling back to uniform if there are none.
func regretMatch(regrets, strategy []float64) {
	n := float64(len(regrets))
	total := floats.Sum(regrets)
	uniform := total <= 0 || math.IsNaN(total) || math.IsInf(total, 0)
	for i, r := range regrets {
		p := 1.0 / n
		if !uniform {
			p = r / total
		}

		strategy[i] = (1.0-trembleValue)*p + trembleValue/n
	}
}

// accumulateStrategy adds the current strategy for each viewpoint to the
// running strategy sum, weighted by the acting player's reach probability.
func accumulateStrategy(reach *ViewpointVector, strategy, strategySum [][]float64) {
	for vp, row := range strategy {
		floats.AddScaled(strategySum[vp], reach[vp], row)
	}
}

// averageStrategy normalizes the running strategy sum for a viewpoint.
// If no strategy has been accumulated the result is uniform.
func averageStrategy(strategySum []float64) []float64 {
	result := make([]float64, len(strategySum))
	total := floats.Sum(strategySum)
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		for i := range result {
			result[i] = 1.0 / float64(len(result))
		}
		return result
	}

	for i, v := range strategySum {
		result[i] = v / total
	}

	return result
}

// calculateStrategy updates the current strategy at the node from its
// accumulated regrets. If accumulate is true, the new strategy is also added
// to the node's average strategy.
func (n *Node) calculateStrategy(accumulate bool) {
	switch n.Type {
	case Propose:
		d := n.propose
		for vp := range d.regrets {
			regretMatch(d.regrets[vp][:], d.strategy[vp][:])
		}
		if accumulate {
			accumulateStrategy(&n.ReachProbs[n.Proposer],
				proposeRows(&d.strategy), proposeRows(&d.strategySum))
		}
	case Vote:
		n.calculateBinaryStrategy(n.vote, roles.AllPlayers, accumulate)
	case Mission:
		n.calculateBinaryStrategy(n.mission, n.Proposal, accumulate)
	case TerminalMerlin:
		d := n.merlin
		for player := range d.regrets {
			for vp := range d.regrets[player] {
				regretMatch(d.regrets[player][vp][:], d.strategy[player][vp][:])
			}
			if accumulate {
				accumulateStrategy(&n.ReachProbs[player],
					guessRows(&d.strategy[player]), guessRows(&d.strategySum[player]))
			}
		}
	}
}

func (n *Node) calculateBinaryStrategy(d *binaryData, players roles.Team, accumulate bool) {
	players.Iter(func(player int) {
		for vp := range d.regrets[player] {
			regretMatch(d.regrets[player][vp][:], d.strategy[player][vp][:])
		}
		if accumulate {
			accumulateStrategy(&n.ReachProbs[player],
				binaryRows(&d.strategy[player]), binaryRows(&d.strategySum[player]))
		}
	})
}

func proposeRows(t *proposeTable) [][]float64 {
	rows := make([][]float64, len(t))
	for i := range t {
		rows[i] = t[i][:]
	}
	return rows
}

func binaryRows(t *binaryTable) [][]float64 {
	rows := make([][]float64, len(t))
	for i := range t {
		rows[i] = t[i][:]
	}
	return rows
}

func guessRows(t *guessTable) [][]float64 {
	rows := make([][]float64, len(t))
	for i := range t {
		rows[i] = t[i][:]
	}
	return rows
}

// ProposeStrategy returns the proposer's current probability of making each
// proposal (ordered as roles.Proposals) when holding the given viewpoint.
func (n *Node) ProposeStrategy(vp int) []float64 {
	n.assertType(Propose)
	return append([]float64(nil), n.propose.strategy[vp][:]...)
}

// AverageProposeStrategy is like ProposeStrategy but returns the average
// strategy over all accumulated iterations.
func (n *Node) AverageProposeStrategy(vp int) []float64 {
	n.assertType(Propose)
	return averageStrategy(n.propose.strategySum[vp][:])
}

// VoteStrategy returns the player's current probability of
// [VoteReject, VoteApprove] when holding the given viewpoint.
func (n *Node) VoteStrategy(player, vp int) []float64 {
	n.assertType(Vote)
	return append([]float64(nil), n.vote.strategy[player][vp][:]...)
}

// AverageVoteStrategy is like VoteStrategy but returns the average strategy.
func (n *Node) AverageVoteStrategy(player, vp int) []float64 {
	n.assertType(Vote)
	return averageStrategy(n.vote.strategySum[player][vp][:])
}

// MissionStrategy returns the player's current probability of
// [MissionPass, MissionFail] when holding the given viewpoint.
func (n *Node) MissionStrategy(player, vp int) []float64 {
	n.assertType(Mission)
	return append([]float64(nil), n.mission.strategy[player][vp][:]...)
}

// AverageMissionStrategy is like MissionStrategy but returns the average strategy.
func (n *Node) AverageMissionStrategy(player, vp int) []float64 {
	n.assertType(Mission)
	return averageStrategy(n.mission.strategySum[player][vp][:])
}

// MerlinStrategy returns the player's current probability of guessing each
// player to be Merlin when holding the given viewpoint.
func (n *Node) MerlinStrategy(player, vp int) []float64 {
	n.assertType(TerminalMerlin)
	return append([]float64(nil), n.merlin.strategy[player][vp][:]...)
}

// AverageMerlinStrategy is like MerlinStrategy but returns the average strategy.
func (n *Node) AverageMerlinStrategy(player, vp int) []float64 {
	n.assertType(TerminalMerlin)
	return averageStrategy(n.merlin.strategySum[player][vp][:])
}

func (n *Node) assertType(t NodeType) {
	if n.Type != t {
		panic(fmt.Errorf("%v node does not have a %v strategy", n.Type, t))
	}
}
