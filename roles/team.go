package roles

import (
	"fmt"
	"math/bits"
	"strings"
)

// Team represents a set of players as a bitmask.
// Bit i is set if player i is a member of the Team.
type Team uint32

// NewTeam creates a new Team from the given players.
func NewTeam(players ...int) Team {
	result := Team(0)
	for _, p := range players {
		result.Add(p)
	}

	return result
}

// Contains returns whether the given player is a member of the Team.
func (t Team) Contains(player int) bool {
	return t&(1<<uint(player)) != 0
}

// Len gets the number of players in the Team.
func (t Team) Len() int {
	return bits.OnesCount32(uint32(t))
}

// Add includes the given player in the Team.
func (t *Team) Add(player int) {
	assertValidPlayer(player)
	*t |= 1 << uint(player)
}

// Intersect returns the players that are members of both Teams.
func (t Team) Intersect(other Team) Team {
	return t & other
}

// Iter calls cb with each member of the Team in ascending order.
func (t Team) Iter(cb func(player int)) {
	for player := 0; t > 0; player++ {
		if t&1 != 0 {
			cb(player)
		}
		t >>= 1
	}
}

// AsSlice returns the members of the Team in ascending order.
func (t Team) AsSlice() []int {
	result := make([]int, 0, t.Len())
	t.Iter(func(player int) {
		result = append(result, player)
	})
	return result
}

// String implements Stringer.
func (t Team) String() string {
	result := make([]string, 0, t.Len())
	t.Iter(func(player int) {
		result = append(result, fmt.Sprintf("%d", player))
	})

	return "{" + strings.Join(result, ", ") + "}"
}

func assertValidPlayer(player int) {
	if player < 0 || player >= NumPlayers {
		panic(fmt.Errorf("player %d out of range [0, %d)", player, NumPlayers))
	}
}

// AllPlayers is the Team containing every player.
const AllPlayers = Team(1<<NumPlayers - 1)
