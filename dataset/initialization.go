// Package dataset generates training data for the value networks by
// solving lookaheads from randomly drawn beliefs.
package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/timpalpant/deeprole"
	"github.com/timpalpant/deeprole/gamestate"
	"github.com/timpalpant/deeprole/roles"
)

// The number of significant digits probabilities and values are written with.
const precision = 10

const numHeaderFields = 8

// NumFields is the number of comma-separated fields in an Initialization.
const NumFields = numHeaderFields + roles.NumAssignments + roles.NumPlayers*roles.NumViewpoints

// Initialization is one solved lookahead: where it started, how it was
// solved, and the resulting values at the root.
type Initialization struct {
	Depth int
	gamestate.GameState
	Iterations     int
	WaitIterations int
	Technique      StartTechnique

	StartingProbs  deeprole.AssignmentVector
	SolutionValues [roles.NumPlayers]deeprole.ViewpointVector
}

// Solve builds the lookahead for the Initialization and fills in
// SolutionValues.
func (in *Initialization) Solve(estimator deeprole.LeafEstimator, aggregation deeprole.Aggregation) error {
	root, err := deeprole.NewLookahead(in.GameState, in.Depth)
	if err != nil {
		return errors.Wrapf(err, "cannot build lookahead for %v", in.GameState)
	}

	params := deeprole.SolveParams{
		Iterations:     in.Iterations,
		WaitIterations: in.WaitIterations,
		Aggregation:    aggregation,
	}
	if err := params.Validate(); err != nil {
		return err
	}

	in.SolutionValues = deeprole.Solve(root, &in.StartingProbs, estimator, params)
	return nil
}

// String renders the Initialization as one comma-separated line:
// depth, succeeds, fails, propose count, proposer, iterations,
// wait iterations, start technique, the 60 starting probabilities and the
// 5 x 15 solution values.
func (in *Initialization) String() string {
	fields := make([]string, 0, NumFields)
	for _, n := range []int{
		in.Depth, in.NumSucceeds, in.NumFails, in.ProposeCount,
		in.Proposer, in.Iterations, in.WaitIterations,
	} {
		fields = append(fields, strconv.Itoa(n))
	}
	fields = append(fields, in.Technique.String())

	fields = appendFloats(fields, in.StartingProbs[:])
	for player := range in.SolutionValues {
		fields = appendFloats(fields, in.SolutionValues[player][:])
	}

	return strings.Join(fields, ",")
}

func appendFloats(fields []string, values []float64) []string {
	for _, v := range values {
		fields = append(fields, strconv.FormatFloat(v, 'g', precision, 64))
	}

	return fields
}

// ParseInitialization is the inverse of Initialization.String.
func ParseInitialization(line string) (*Initialization, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) != NumFields {
		return nil, fmt.Errorf("expected %d fields, got %d", NumFields, len(fields))
	}

	var ints [numHeaderFields - 1]int
	for i := range ints {
		n, err := strconv.Atoi(fields[i])
		if err != nil {
			return nil, errors.Wrapf(err, "invalid field %d", i)
		}
		ints[i] = n
	}

	technique, err := ParseStartTechnique(fields[numHeaderFields-1])
	if err != nil {
		return nil, err
	}

	in := &Initialization{
		Depth: ints[0],
		GameState: gamestate.GameState{
			NumSucceeds:  ints[1],
			NumFails:     ints[2],
			ProposeCount: ints[3],
			Proposer:     ints[4],
		},
		Iterations:     ints[5],
		WaitIterations: ints[6],
		Technique:      technique,
	}

	if err := in.GameState.Validate(); err != nil {
		return nil, err
	}

	rest := fields[numHeaderFields:]
	if err := parseFloats(rest[:roles.NumAssignments], in.StartingProbs[:]); err != nil {
		return nil, errors.Wrap(err, "invalid starting probabilities")
	}

	rest = rest[roles.NumAssignments:]
	for player := range in.SolutionValues {
		values := rest[player*roles.NumViewpoints : (player+1)*roles.NumViewpoints]
		if err := parseFloats(values, in.SolutionValues[player][:]); err != nil {
			return nil, errors.Wrapf(err, "invalid values for player %d", player)
		}
	}

	return in, nil
}

func parseFloats(fields []string, result []float64) error {
	for i, field := range fields {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return err
		}
		result[i] = v
	}

	return nil
}
