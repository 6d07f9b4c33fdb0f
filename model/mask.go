package model

import (
	"github.com/timpalpant/deeprole"
	"github.com/timpalpant/deeprole/roles"
)

// touchedViewpoints returns, for each flattened (player, viewpoint),
// whether it is held under some assignment with positive belief.
func touchedViewpoints(belief *deeprole.AssignmentVector) [NumOutputs]bool {
	var mask [NumOutputs]bool
	for a, p := range belief {
		if p <= 0 {
			continue
		}

		for player := 0; player < roles.NumPlayers; player++ {
			mask[player*roles.NumViewpoints+roles.Perspective(player, a)] = true
		}
	}

	return mask
}

// maskAndAdjust zeroes the values of viewpoints that cannot occur under the
// belief, and shifts the remaining values by a constant so that they sum
// to zero. The game is zero-sum, so the values of a solved subgame
// always satisfy both.
func maskAndAdjust(belief *deeprole.AssignmentVector, values []float64) {
	mask := touchedViewpoints(belief)
	numLeft := 0
	maskedSum := 0.0
	for i, touched := range mask {
		if touched {
			numLeft++
			maskedSum += values[i]
		}
	}

	if numLeft == 0 {
		clear(values)
		return
	}

	adjustment := maskedSum / float64(numLeft)
	for i, touched := range mask {
		if touched {
			values[i] -= adjustment
		} else {
			values[i] = 0
		}
	}
}
