package dataset

import (
	"expvar"
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"
	"github.com/hashicorp/go-multierror"

	"github.com/timpalpant/deeprole"
	"github.com/timpalpant/deeprole/gamestate"
)

var (
	samplesGenerated = expvar.NewInt("dataset/samples_generated")
	samplesFailed    = expvar.NewInt("dataset/samples_failed")
)

// GenerateParams configures a run of Generate.
type GenerateParams struct {
	NumSamples int
	NumWorkers int

	Depth        int
	NumSucceeds  int
	NumFails     int
	ProposeCount int

	Solve deeprole.SolveParams
}

// Validate checks that the parameters describe a possible run.
func (p GenerateParams) Validate() error {
	if p.NumSamples < 0 {
		return fmt.Errorf("invalid number of samples: %d", p.NumSamples)
	}

	if p.NumWorkers <= 0 {
		return fmt.Errorf("invalid number of workers: %d", p.NumWorkers)
	}

	if p.Depth < 0 {
		return fmt.Errorf("invalid depth: %d", p.Depth)
	}

	state := gamestate.GameState{
		NumSucceeds:  p.NumSucceeds,
		NumFails:     p.NumFails,
		ProposeCount: p.ProposeCount,
	}
	if err := state.Validate(); err != nil {
		return err
	}

	return p.Solve.Validate()
}

// Generate solves NumSamples lookaheads, each from a random proposer and
// a belief drawn from priors, on NumWorkers goroutines. Completed
// Initializations are passed to output from a single goroutine, in no
// particular order. The estimator must be safe for concurrent use.
//
// Errors from individual samples do not stop generation; they are all
// returned together.
func Generate(params GenerateParams, priors *PriorGenerator, estimator deeprole.LeafEstimator, output func(*Initialization) error) error {
	if err := params.Validate(); err != nil {
		return err
	}

	jobs := make(chan *Initialization, params.NumWorkers)
	go func() {
		defer close(jobs)
		for i := 0; i < params.NumSamples; i++ {
			jobs <- &Initialization{
				Depth: params.Depth,
				GameState: gamestate.GameState{
					NumSucceeds:  params.NumSucceeds,
					NumFails:     params.NumFails,
					ProposeCount: params.ProposeCount,
					Proposer:     priors.NextProposer(),
				},
				Iterations:     params.Solve.Iterations,
				WaitIterations: params.Solve.WaitIterations,
				Technique:      priors.Technique(),
				StartingProbs:  priors.Next(),
			}
		}
	}()

	type result struct {
		sample *Initialization
		err    error
	}

	results := make(chan result, params.NumWorkers)
	var wg sync.WaitGroup
	for worker := 0; worker < params.NumWorkers; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for in := range jobs {
				start := time.Now()
				err := in.Solve(estimator, params.Solve.Aggregation)
				glog.V(2).Infof("Solved %v (depth %d) in %v", in.GameState, in.Depth, time.Since(start))
				results <- result{in, err}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	var retErr error
	start := time.Now()
	n := 0
	for r := range results {
		if r.err == nil {
			r.err = output(r.sample)
		}

		if r.err != nil {
			samplesFailed.Add(1)
			retErr = multierror.Append(retErr, r.err)
			continue
		}

		samplesGenerated.Add(1)
		n++
		if n%100 == 0 {
			glog.Infof("Generated %d/%d samples (%.1f samples/sec)",
				n, params.NumSamples, float64(n)/time.Since(start).Seconds())
		}
	}

	glog.V(1).Infof("Finished generating %d samples in %v", n, time.Since(start))
	return retErr
}
