package gamestate

import (
	"fmt"
	"strings"

	"github.com/timpalpant/deeprole/roles"
)

// MissionResult records a mission that had at least one fail.
type MissionResult struct {
	Proposal roles.Team
	NumFails int
}

func (r MissionResult) String() string {
	return fmt.Sprintf("%v:%d", r.Proposal, r.NumFails)
}

// MaxNumFailedMissions is the most failed missions that can be recorded
// before the game ends.
const MaxNumFailedMissions = roles.NumMissionsToWin

// History records the failed missions on the path to a node. It is used to
// rule out assignments that could not have produced the observed fails.
// History is presized, rather than a slice, so that copying a node
// does not share or allocate.
type History struct {
	missions [MaxNumFailedMissions]MissionResult
	n        int
}

func (h *History) String() string {
	result := make([]string, h.n)
	for i, m := range h.missions[:h.n] {
		result[i] = m.String()
	}

	return "[" + strings.Join(result, ", ") + "]"
}

// Len returns the number of failed missions in the History.
func (h *History) Len() int {
	return h.n
}

// Get returns the i'th failed mission.
func (h *History) Get(i int) MissionResult {
	if i >= h.n {
		panic(fmt.Errorf("index out of range: %d (length %d)", i, h.n))
	}

	return h.missions[i]
}

// Append records a mission with the given team and number of fails.
func (h *History) Append(proposal roles.Team, numFails int) {
	if numFails < 1 || numFails > roles.NumEvil || numFails > proposal.Len() {
		panic(fmt.Errorf("cannot record %d fails on mission %v", numFails, proposal))
	}

	if h.n >= MaxNumFailedMissions {
		panic(fmt.Errorf("history already has %d failed missions", h.n))
	}

	h.missions[h.n] = MissionResult{Proposal: proposal, NumFails: numFails}
	h.n++
}

// IsPossible returns whether the given set of evil players could have
// produced every recorded mission: only evil players may fail,
// so each mission must have had at least as many evil players as fails.
func (h *History) IsPossible(evil roles.Team) bool {
	for _, m := range h.missions[:h.n] {
		if m.Proposal.Intersect(evil).Len() < m.NumFails {
			return false
		}
	}

	return true
}

// AsSlice returns a copy of the recorded missions.
func (h *History) AsSlice() []MissionResult {
	result := make([]MissionResult, h.n)
	copy(result, h.missions[:h.n])
	return result
}
