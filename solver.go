package deeprole

import (
	"expvar"
	"fmt"
	"time"

	"github.com/golang/glog"
	"gonum.org/v1/gonum/floats"

	"github.com/timpalpant/deeprole/roles"
)

var (
	iterationsRun   = expvar.NewInt("cfr/iterations")
	solvesCompleted = expvar.NewInt("cfr/solves")
	leafEvaluations = expvar.NewInt("cfr/leaf_evaluations")
)

// Aggregation determines how the root values of each iteration after the
// wait window are combined into the solution.
type Aggregation uint8

const (
	// MeanAfterWait averages values uniformly over post-wait iterations.
	MeanAfterWait Aggregation = iota
	// LastIteration returns the values of the final iteration.
	LastIteration
	// LinearWeighted weights the k'th post-wait iteration by k.
	LinearWeighted
)

var aggregationStr = [...]string{
	"mean",
	"last",
	"linear",
}

func (a Aggregation) String() string {
	return aggregationStr[a]
}

// ParseAggregation returns the Aggregation with the given name.
func ParseAggregation(s string) (Aggregation, error) {
	for i, name := range aggregationStr {
		if name == s {
			return Aggregation(i), nil
		}
	}

	return 0, fmt.Errorf("unknown aggregation: %q", s)
}

// SolveParams configures a run of CFR+.
type SolveParams struct {
	Iterations int
	// Iterations before WaitIterations are discarded from the solution
	// and the average strategy.
	WaitIterations int
	Aggregation    Aggregation
}

// Validate checks that the parameters describe a possible run.
func (p SolveParams) Validate() error {
	if p.Iterations < 0 {
		return fmt.Errorf("invalid number of iterations: %d", p.Iterations)
	}

	if p.WaitIterations < 0 {
		return fmt.Errorf("invalid number of wait iterations: %d", p.WaitIterations)
	}

	if int(p.Aggregation) >= len(aggregationStr) {
		return fmt.Errorf("invalid aggregation: %d", p.Aggregation)
	}

	return nil
}

// Aggregator combines per-iteration values into a solution.
// Iterations before the wait window are ignored.
type Aggregator struct {
	rule           Aggregation
	waitIterations int

	sum         [roles.NumPlayers]ViewpointVector
	totalWeight float64
}

// NewAggregator returns an Aggregator that ignores the first
// waitIterations observations.
func NewAggregator(rule Aggregation, waitIterations int) *Aggregator {
	return &Aggregator{
		rule:           rule,
		waitIterations: waitIterations,
	}
}

// Observe adds the values of the given (0-based) iteration.
func (a *Aggregator) Observe(iter int, values *[roles.NumPlayers]ViewpointVector) {
	if iter < a.waitIterations {
		return
	}

	weight := 1.0
	switch a.rule {
	case LastIteration:
		a.sum = [roles.NumPlayers]ViewpointVector{}
		a.totalWeight = 0
	case LinearWeighted:
		weight = float64(iter - a.waitIterations + 1)
	}

	for player := range a.sum {
		floats.AddScaled(a.sum[player][:], weight, values[player][:])
	}
	a.totalWeight += weight
}

// Result returns the aggregated values, or all zeros if no iterations
// have been observed after the wait window.
func (a *Aggregator) Result() [roles.NumPlayers]ViewpointVector {
	var result [roles.NumPlayers]ViewpointVector
	if a.totalWeight == 0 {
		return result
	}

	for player := range result {
		for vp, v := range a.sum[player] {
			result[player][vp] = v / a.totalWeight
		}
	}

	return result
}

// Iterate performs one iteration of CFR+ on the tree: strategies and reach
// probabilities are computed from the root down, then counterfactual values
// and regrets from the leaves up. If accumulate is true, the new strategies
// are added to the average strategy.
func Iterate(root *Node, prior *AssignmentVector, estimator LeafEstimator, accumulate bool) {
	root.calculateStrategyAndReach(accumulate)
	root.calculateCounterfactualValues(prior, estimator)
	iterationsRun.Add(1)
}

func (n *Node) calculateStrategyAndReach(accumulate bool) {
	n.calculateStrategy(accumulate)
	n.fillReachProbabilities()
	for i := range n.children {
		n.children[i].calculateStrategyAndReach(accumulate)
	}
}

// Solve runs CFR+ on the lookahead tree rooted at root, with the given
// prior over assignments, and returns the aggregated counterfactual values
// at the root for each player and viewpoint.
//
// The estimator is called at every TerminalCutoff node; it may be nil
// if the tree has none.
func Solve(root *Node, prior *AssignmentVector, estimator LeafEstimator, params SolveParams) [roles.NumPlayers]ViewpointVector {
	if err := params.Validate(); err != nil {
		panic(err)
	}

	start := time.Now()
	agg := NewAggregator(params.Aggregation, params.WaitIterations)
	for iter := 0; iter < params.Iterations; iter++ {
		accumulate := iter >= params.WaitIterations
		Iterate(root, prior, estimator, accumulate)
		agg.Observe(iter, &root.Values)
		if glog.V(2) {
			glog.Infof("Iteration %d: root values %v", iter, root.Values)
		}
	}

	solvesCompleted.Add(1)
	glog.V(1).Infof("Solved %v with %d iterations (%d wait) in %v",
		root, params.Iterations, params.WaitIterations, time.Since(start))
	return agg.Result()
}
