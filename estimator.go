package deeprole

import (
	"github.com/timpalpant/deeprole/gamestate"
	"github.com/timpalpant/deeprole/roles"
)

// LeafEstimator predicts the value of the game beyond the lookahead.
//
// Given the public state at a cutoff (including the next proposer) and a
// normalized belief over assignments, Estimate sets out[player][viewpoint]
// to the expected payoff of each player holding each viewpoint, weighted by
// the belief mass of that viewpoint. This is the same quantity that Solve
// returns for a root with the belief as its prior, so solutions can be used
// to train estimators.
type LeafEstimator interface {
	Estimate(state gamestate.GameState, belief *AssignmentVector, out *[roles.NumPlayers]ViewpointVector)
}

// LeafEstimatorFunc adapts a function to the LeafEstimator interface.
type LeafEstimatorFunc func(state gamestate.GameState, belief *AssignmentVector, out *[roles.NumPlayers]ViewpointVector)

// Estimate implements LeafEstimator.
func (f LeafEstimatorFunc) Estimate(state gamestate.GameState, belief *AssignmentVector, out *[roles.NumPlayers]ViewpointVector) {
	f(state, belief, out)
}
