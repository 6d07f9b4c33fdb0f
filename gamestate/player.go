package gamestate

import (
	"fmt"

	"github.com/timpalpant/deeprole/roles"
)

// NextPlayer returns the player seated after p, who will make the next proposal.
func NextPlayer(p int) int {
	if p < 0 || p >= roles.NumPlayers {
		panic(fmt.Sprintf("cannot call NextPlayer with player %d", p))
	}

	return (p + 1) % roles.NumPlayers
}
