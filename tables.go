package deeprole

import (
	"github.com/timpalpant/deeprole/roles"
)

// ViewpointVector holds one value per viewpoint of a single player.
type ViewpointVector [roles.NumViewpoints]float64

// AssignmentVector holds one value per hidden role assignment.
type AssignmentVector [roles.NumAssignments]float64

// UniformAssignmentVector returns a probability distribution that assigns
// equal mass to every assignment.
func UniformAssignmentVector() AssignmentVector {
	var result AssignmentVector
	for i := range result {
		result[i] = 1.0 / roles.NumAssignments
	}
	return result
}

// Actions available at each decision.
const (
	VoteReject  = 0
	VoteApprove = 1

	MissionPass = 0
	MissionFail = 1
)

// Strategy tables are indexed by [viewpoint][action]. Regrets, the current
// strategy and the running strategy sum share a layout.
type (
	proposeTable [roles.NumViewpoints][roles.NumProposalOptions]float64
	binaryTable  [roles.NumViewpoints][2]float64
	guessTable   [roles.NumViewpoints][roles.NumPlayers]float64
)

// Only the proposer acts at a propose node, so a single table is kept.
type proposeData struct {
	regrets     proposeTable
	strategy    proposeTable
	strategySum proposeTable
}

// Vote and mission tables are kept for every player; at mission nodes only
// the players on the team are read.
type binaryData struct {
	regrets     [roles.NumPlayers]binaryTable
	strategy    [roles.NumPlayers]binaryTable
	strategySum [roles.NumPlayers]binaryTable
}

// At the end of the game the Assassin guesses which player is Merlin.
// Tables are kept for every player; only the Assassin's viewpoints are read.
type guessData struct {
	regrets     [roles.NumPlayers]guessTable
	strategy    [roles.NumPlayers]guessTable
	strategySum [roles.NumPlayers]guessTable
}
