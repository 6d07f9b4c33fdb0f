package roles

// Role is the secret identity dealt to a player.
type Role uint8

const (
	Servant Role = iota
	Merlin
	Assassin
	Minion
)

var roleStr = [...]string{
	"Servant",
	"Merlin",
	"Assassin",
	"Minion",
}

// String implements Stringer.
func (r Role) String() string {
	return roleStr[r]
}

// IsEvil returns whether the Role belongs to the adversarial team.
func (r Role) IsEvil() bool {
	return r == Assassin || r == Minion
}

// The number of distinct Roles.
const NumRoles = len(roleStr)

const (
	NumPlayers = 5
	NumEvil    = 2
	// A mission with this many fails ends the game in favor of evil,
	// and this many successes sends the game to the Merlin guess.
	NumMissionsToWin = 3
	// The number of consecutive rejected proposals that ends the game.
	MaxProposeCount = 5
)

// Fixed payoffs. Evil payoffs are larger in magnitude so that the
// game is zero-sum: 2 * 1.5 == 3 * 1.0.
const (
	EvilWinPayoff  = 1.5
	EvilLosePayoff = -1.5
	GoodWinPayoff  = 1.0
	GoodLosePayoff = -1.0
)

// Payoff returns the payoff to a player on the given team when evil wins
// (evilWins == true) or loses.
func Payoff(evil, evilWins bool) float64 {
	switch {
	case evil && evilWins:
		return EvilWinPayoff
	case evil:
		return EvilLosePayoff
	case evilWins:
		return GoodLosePayoff
	default:
		return GoodWinPayoff
	}
}
