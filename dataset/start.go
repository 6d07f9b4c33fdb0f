package dataset

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distmv"

	"github.com/timpalpant/deeprole"
	"github.com/timpalpant/deeprole/roles"
)

// StartTechnique is the way the belief a lookahead is solved from is drawn.
type StartTechnique uint8

const (
	// Uniform over all assignments.
	Uniform StartTechnique = iota
	// Drawn from a symmetric Dirichlet distribution.
	Dirichlet
	// Uniform over a random non-empty subset of assignments.
	Sparse
)

var startTechniqueStr = [...]string{
	"uniform",
	"dirichlet",
	"sparse",
}

func (t StartTechnique) String() string {
	return startTechniqueStr[t]
}

// ParseStartTechnique returns the StartTechnique with the given name.
func ParseStartTechnique(s string) (StartTechnique, error) {
	for i, name := range startTechniqueStr {
		if name == s {
			return StartTechnique(i), nil
		}
	}

	return 0, fmt.Errorf("unknown start technique: %q", s)
}

// PriorGenerator draws starting beliefs. It is not safe for concurrent use.
type PriorGenerator struct {
	technique StartTechnique
	rng       *rand.Rand
	dirichlet *distmv.Dirichlet
}

// NewPriorGenerator returns a generator for the given technique.
// Concentration is the parameter of the Dirichlet distribution
// and is ignored by the other techniques.
func NewPriorGenerator(technique StartTechnique, concentration float64, rng *rand.Rand) (*PriorGenerator, error) {
	g := &PriorGenerator{
		technique: technique,
		rng:       rng,
	}

	switch technique {
	case Uniform, Sparse:
	case Dirichlet:
		if concentration <= 0 {
			return nil, fmt.Errorf("invalid dirichlet concentration: %v", concentration)
		}

		alpha := make([]float64, roles.NumAssignments)
		for i := range alpha {
			alpha[i] = concentration
		}
		g.dirichlet = distmv.NewDirichlet(alpha, rng)
	default:
		return nil, fmt.Errorf("invalid start technique: %d", technique)
	}

	return g, nil
}

// Technique returns the technique beliefs are drawn with.
func (g *PriorGenerator) Technique() StartTechnique {
	return g.technique
}

// Next draws a new belief.
func (g *PriorGenerator) Next() deeprole.AssignmentVector {
	switch g.technique {
	case Dirichlet:
		var result deeprole.AssignmentVector
		g.dirichlet.Rand(result[:])
		return result
	case Sparse:
		var result deeprole.AssignmentVector
		k := 1 + g.rng.Intn(roles.NumAssignments)
		for _, a := range g.rng.Perm(roles.NumAssignments)[:k] {
			result[a] = 1.0 / float64(k)
		}
		return result
	default:
		return deeprole.UniformAssignmentVector()
	}
}

// NextProposer draws the player to propose first.
func (g *PriorGenerator) NextProposer() int {
	return g.rng.Intn(roles.NumPlayers)
}
