package model

import (
	"sync"

	"github.com/timpalpant/deeprole"
	"github.com/timpalpant/deeprole/roles"
)

const (
	// The number of features the network input is encoded into.
	NumInputFeatures = roles.NumPlayers + roles.NumAssignments
	// The number of values predicted by the network.
	NumOutputs = roles.NumPlayers * roles.NumViewpoints
)

var inputPool = sync.Pool{
	New: func() interface{} {
		return make([]float64, NumInputFeatures)
	},
}

// The network input is encoded as:
//   - One hot encoded proposer (5)
//   - Probability of each assignment (60)
func EncodeInput(proposer int, belief *deeprole.AssignmentVector, result []float64) {
	clear(result)
	result[proposer] = 1.0
	copy(result[roles.NumPlayers:], belief[:])
}

// EncodeValues flattens values player-major into result.
func EncodeValues(values *[roles.NumPlayers]deeprole.ViewpointVector, result []float64) {
	for player := range values {
		copy(result[player*roles.NumViewpoints:], values[player][:])
	}
}

// DecodeValues is the inverse of EncodeValues.
func DecodeValues(v []float64, out *[roles.NumPlayers]deeprole.ViewpointVector) {
	for player := range out {
		copy(out[player][:], v[player*roles.NumViewpoints:(player+1)*roles.NumViewpoints])
	}
}
