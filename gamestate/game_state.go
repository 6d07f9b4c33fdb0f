package gamestate

import (
	"fmt"

	"github.com/timpalpant/deeprole/roles"
)

// GameState is the public state of play at the start of a proposal.
type GameState struct {
	NumSucceeds int
	NumFails    int
	Proposer    int
	// ProposeCount is the number of consecutive proposals that
	// have been rejected in the current round.
	ProposeCount int
}

// Round returns the index of the current mission.
func (s GameState) Round() int {
	return s.NumSucceeds + s.NumFails
}

// Validate verifies that the GameState can occur before a proposal,
// i.e. that the game has not already ended.
func (s GameState) Validate() error {
	if s.NumSucceeds < 0 || s.NumSucceeds >= roles.NumMissionsToWin {
		return fmt.Errorf("invalid number of successful missions: %d", s.NumSucceeds)
	}

	if s.NumFails < 0 || s.NumFails >= roles.NumMissionsToWin {
		return fmt.Errorf("invalid number of failed missions: %d", s.NumFails)
	}

	if s.Proposer < 0 || s.Proposer >= roles.NumPlayers {
		return fmt.Errorf("invalid proposer: %d", s.Proposer)
	}

	if s.ProposeCount < 0 || s.ProposeCount >= roles.MaxProposeCount {
		return fmt.Errorf("invalid propose count: %d", s.ProposeCount)
	}

	return nil
}

// String implements fmt.Stringer.
func (s GameState) String() string {
	return fmt.Sprintf("%d succeeds, %d fails, proposer %d (%d rejected)",
		s.NumSucceeds, s.NumFails, s.Proposer, s.ProposeCount)
}
