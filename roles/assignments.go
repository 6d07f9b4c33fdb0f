package roles

import (
	"fmt"
)

// Assignment is one complete configuration of the hidden roles.
// Every player not named is a Servant.
type Assignment struct {
	Merlin   int
	Assassin int
	Minion   int
}

// Evil returns the set of evil players.
func (a Assignment) Evil() Team {
	return NewTeam(a.Assassin, a.Minion)
}

// Role returns the role dealt to the given player.
func (a Assignment) Role(player int) Role {
	switch player {
	case a.Merlin:
		return Merlin
	case a.Assassin:
		return Assassin
	case a.Minion:
		return Minion
	default:
		return Servant
	}
}

// Viewpoint returns the viewpoint the given player holds under this Assignment.
func (a Assignment) Viewpoint(player int) int {
	switch a.Role(player) {
	case Merlin:
		evil := a.Evil()
		for vp := firstMerlinViewpoint; vp < firstAssassinViewpoint; vp++ {
			if viewpointToKnownEvil[player][vp] == evil {
				return vp
			}
		}
		panic(fmt.Errorf("no Merlin viewpoint for player %d seeing %v", player, evil))
	case Assassin:
		return partnerViewpoint(player, Assassin, a.Minion)
	case Minion:
		return partnerViewpoint(player, Minion, a.Assassin)
	default:
		return 0
	}
}

func (a Assignment) String() string {
	return fmt.Sprintf("Merlin:%d Assassin:%d Minion:%d", a.Merlin, a.Assassin, a.Minion)
}

// NumAssignments is the number of ordered (Merlin, Assassin, Minion)
// triples of distinct players: 5 * 4 * 3.
const NumAssignments = NumPlayers * (NumPlayers - 1) * (NumPlayers - 2)

var (
	assignments            [NumAssignments]Assignment
	assignmentToViewpoint  [NumAssignments][NumPlayers]int
	assignmentToEvil       [NumAssignments]Team
	assignmentIndex        = make(map[Assignment]int, NumAssignments)
	viewpointToAssignments [NumPlayers][NumViewpoints][]int
)

func buildAssignmentTables() {
	i := 0
	for merlin := 0; merlin < NumPlayers; merlin++ {
		for assassin := 0; assassin < NumPlayers; assassin++ {
			for minion := 0; minion < NumPlayers; minion++ {
				if merlin == assassin || merlin == minion || assassin == minion {
					continue
				}

				a := Assignment{Merlin: merlin, Assassin: assassin, Minion: minion}
				assignments[i] = a
				assignmentToEvil[i] = a.Evil()
				assignmentIndex[a] = i
				for player := 0; player < NumPlayers; player++ {
					vp := a.Viewpoint(player)
					assignmentToViewpoint[i][player] = vp
					viewpointToAssignments[player][vp] = append(viewpointToAssignments[player][vp], i)
				}
				i++
			}
		}
	}

	if i != NumAssignments {
		panic(fmt.Errorf("enumerated %d assignments, expected %d", i, NumAssignments))
	}
}

// GetAssignment returns the i'th Assignment.
func GetAssignment(i int) Assignment {
	return assignments[i]
}

// AssignmentIndex returns the index of the given Assignment.
func AssignmentIndex(a Assignment) int {
	i, ok := assignmentIndex[a]
	if !ok {
		panic(fmt.Errorf("invalid assignment: %v", a))
	}

	return i
}

// Perspective returns the viewpoint of the player under the i'th Assignment.
func Perspective(player, assignment int) int {
	return assignmentToViewpoint[assignment][player]
}

// EvilPlayers returns the evil players under the i'th Assignment.
func EvilPlayers(assignment int) Team {
	return assignmentToEvil[assignment]
}

// ViewpointAssignments returns the indices of all Assignments under which
// the player holds the given viewpoint. The returned slice must not be modified.
func ViewpointAssignments(player, vp int) []int {
	return viewpointToAssignments[player][vp]
}
