package roles

import (
	"fmt"
)

// A viewpoint is everything a player privately knows about the hidden
// roles. For each player the viewpoints are laid out as:
//
//	0       Servant (knows nothing).
//	1..6    Merlin, knowing each possible pair of evil players among the
//	        other four (lexicographic order).
//	7..10   Assassin, whose partner is each other player (ascending).
//	11..14  Minion, whose partner is each other player (ascending).
//
// Viewpoints in [0, NumGoodViewpoints) are only held by good players
// and the remainder only by evil players.
const (
	numMerlinViewpoints    = 6
	numPartnerViewpoints   = NumPlayers - 1
	firstMerlinViewpoint   = 1
	firstAssassinViewpoint = firstMerlinViewpoint + numMerlinViewpoints
	firstMinionViewpoint   = firstAssassinViewpoint + numPartnerViewpoints

	NumGoodViewpoints = firstAssassinViewpoint
	NumViewpoints     = firstMinionViewpoint + numPartnerViewpoints
)

var (
	// For Merlin viewpoints, the pair of evil players that Merlin sees.
	viewpointToKnownEvil [NumPlayers][NumViewpoints]Team
	// For evil viewpoints, the other evil player.
	viewpointToPartner [NumPlayers][NumViewpoints]int
	// For evil viewpoints, the viewpoint held by the partner.
	viewpointToPartnerViewpoint [NumPlayers][NumViewpoints]int
)

func buildViewpointTables() {
	for player := 0; player < NumPlayers; player++ {
		others := otherPlayers(player)
		for vp := 0; vp < NumViewpoints; vp++ {
			viewpointToPartner[player][vp] = -1
			viewpointToPartnerViewpoint[player][vp] = -1
		}

		pairs := enumerateTeams(0, NumEvil, Team(0), nil)
		vp := firstMerlinViewpoint
		for _, pair := range pairs {
			if pair.Contains(player) {
				continue
			}
			viewpointToKnownEvil[player][vp] = pair
			vp++
		}

		if vp != firstAssassinViewpoint {
			panic(fmt.Errorf("player %d has %d Merlin viewpoints, expected %d",
				player, vp-firstMerlinViewpoint, numMerlinViewpoints))
		}

		for i, partner := range others {
			viewpointToPartner[player][firstAssassinViewpoint+i] = partner
			viewpointToPartner[player][firstMinionViewpoint+i] = partner
		}
	}

	// Partner viewpoints can only be filled in once every player's
	// partners are known: an Assassin's partner holds the Minion viewpoint
	// pointing back at them, and vice versa.
	for player := 0; player < NumPlayers; player++ {
		for vp := NumGoodViewpoints; vp < NumViewpoints; vp++ {
			partner := viewpointToPartner[player][vp]
			if ViewpointRole(vp) == Assassin {
				viewpointToPartnerViewpoint[player][vp] = partnerViewpoint(partner, Minion, player)
			} else {
				viewpointToPartnerViewpoint[player][vp] = partnerViewpoint(partner, Assassin, player)
			}
		}
	}
}

func otherPlayers(player int) []int {
	result := make([]int, 0, NumPlayers-1)
	for p := 0; p < NumPlayers; p++ {
		if p != player {
			result = append(result, p)
		}
	}
	return result
}

// partnerViewpoint returns the viewpoint of the given player holding
// an evil role whose partner is the given partner.
func partnerViewpoint(player int, role Role, partner int) int {
	first := firstAssassinViewpoint
	if role == Minion {
		first = firstMinionViewpoint
	}

	for vp := first; vp < first+numPartnerViewpoints; vp++ {
		if viewpointToPartner[player][vp] == partner {
			return vp
		}
	}

	panic(fmt.Errorf("no %v viewpoint for player %d with partner %d", role, player, partner))
}

// IsEvilViewpoint returns whether the viewpoint is only held by evil players.
func IsEvilViewpoint(vp int) bool {
	return vp >= NumGoodViewpoints
}

// ViewpointRole returns the role of any player holding the given viewpoint.
func ViewpointRole(vp int) Role {
	switch {
	case vp < 0 || vp >= NumViewpoints:
		panic(fmt.Errorf("viewpoint %d out of range [0, %d)", vp, NumViewpoints))
	case vp == 0:
		return Servant
	case vp < firstAssassinViewpoint:
		return Merlin
	case vp < firstMinionViewpoint:
		return Assassin
	default:
		return Minion
	}
}

// Partner returns the other evil player known to a player holding
// the given evil viewpoint.
func Partner(player, vp int) int {
	partner := viewpointToPartner[player][vp]
	if partner < 0 {
		panic(fmt.Errorf("viewpoint %d of player %d is not evil", vp, player))
	}

	return partner
}

// PartnerViewpoint returns the viewpoint held by the partner of a
// player holding the given evil viewpoint.
func PartnerViewpoint(player, vp int) int {
	partnerVP := viewpointToPartnerViewpoint[player][vp]
	if partnerVP < 0 {
		panic(fmt.Errorf("viewpoint %d of player %d is not evil", vp, player))
	}

	return partnerVP
}

// KnownEvil returns the pair of evil players seen by a player
// holding the given Merlin viewpoint.
func KnownEvil(player, vp int) Team {
	if ViewpointRole(vp) != Merlin {
		panic(fmt.Errorf("viewpoint %d of player %d is not Merlin", vp, player))
	}

	return viewpointToKnownEvil[player][vp]
}
