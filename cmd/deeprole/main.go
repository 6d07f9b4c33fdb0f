// Solve Avalon lookaheads with depth-limited CFR+.
//
// By default, generates training data for the value networks: lookaheads
// are solved from randomly drawn beliefs and saved as gzipped CSV.
// With --play, solves a single lookahead from a belief read from stdin and
// prints the resulting strategies as JSON. With --convert, the CSV files
// given as arguments are converted to .npz training batches.
package main

import (
	"encoding/json"
	"flag"
	"net/http"
	_ "net/http/pprof"
	"os"
	"runtime"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/exp/rand"

	"github.com/timpalpant/deeprole"
	"github.com/timpalpant/deeprole/dataset"
	"github.com/timpalpant/deeprole/gamestate"
	"github.com/timpalpant/deeprole/model"
	"github.com/timpalpant/deeprole/roles"
)

type RunParams struct {
	Seed      int64
	DebugAddr string

	Depth        int
	NumSucceeds  int
	NumFails     int
	ProposeCount int
	Proposer     int

	Iterations     int
	WaitIterations int
	Aggregation    string

	ModelDir       string
	ModelCacheSize int

	NumSamples    int
	NumWorkers    int
	Start         string
	Concentration float64
	OutputDir     string

	Play    bool
	Convert bool

	BatchSize int
}

func main() {
	var params RunParams
	flag.Int64Var(&params.Seed, "seed", 123, "Random seed")
	flag.StringVar(&params.DebugAddr, "debug_addr", "localhost:4123",
		"Address to serve pprof and expvar on")
	flag.IntVar(&params.Depth, "depth", 1, "Number of further proposals to expand before cutting off")
	flag.IntVar(&params.NumSucceeds, "num_succeeds", 0, "Number of missions that have succeeded")
	flag.IntVar(&params.NumFails, "num_fails", 0, "Number of missions that have failed")
	flag.IntVar(&params.ProposeCount, "propose_count", 0, "Number of rejected proposals this round")
	flag.IntVar(&params.Proposer, "proposer", 0, "Player making the next proposal (--play only)")
	flag.IntVar(&params.Iterations, "iterations", 3000, "Number of CFR+ iterations per solve")
	flag.IntVar(&params.WaitIterations, "wait_iterations", 1000,
		"Number of initial iterations excluded from the solution")
	flag.StringVar(&params.Aggregation, "aggregation", "mean",
		"How post-wait iterations are combined: mean, last or linear")
	flag.StringVar(&params.ModelDir, "model_dir", "",
		"Directory of <succeeds>_<fails>_<propose_count>.json value networks used at cutoffs")
	flag.IntVar(&params.ModelCacheSize, "model_cache_size", 16, "Number of value networks to keep loaded")
	flag.IntVar(&params.NumSamples, "num_samples", 1000, "Number of samples to generate")
	flag.IntVar(&params.NumWorkers, "workers", runtime.NumCPU(), "Number of concurrent solves")
	flag.StringVar(&params.Start, "start", "uniform",
		"How starting beliefs are drawn: uniform, dirichlet or sparse")
	flag.Float64Var(&params.Concentration, "dirichlet_concentration", 1.0,
		"Concentration of the Dirichlet distribution starting beliefs are drawn from")
	flag.StringVar(&params.OutputDir, "output", "", "Output directory")
	flag.BoolVar(&params.Play, "play", false,
		"Solve one lookahead from a JSON belief on stdin and print it as JSON")
	flag.BoolVar(&params.Convert, "convert", false,
		"Convert the CSV files given as arguments to .npz training batches")
	flag.IntVar(&params.BatchSize, "batch_size", 100000, "Number of samples per .npz batch")
	flag.Parse()

	go http.ListenAndServe(params.DebugAddr, nil)

	var err error
	switch {
	case params.Convert:
		err = convert(params, flag.Args())
	case params.Play:
		err = play(params)
	default:
		err = generate(params)
	}

	if err != nil {
		glog.Fatal(err)
	}
}

func solveParams(params RunParams) (deeprole.SolveParams, error) {
	aggregation, err := deeprole.ParseAggregation(params.Aggregation)
	if err != nil {
		return deeprole.SolveParams{}, err
	}

	result := deeprole.SolveParams{
		Iterations:     params.Iterations,
		WaitIterations: params.WaitIterations,
		Aggregation:    aggregation,
	}
	return result, result.Validate()
}

func loadEstimator(params RunParams) (deeprole.LeafEstimator, error) {
	if params.ModelDir == "" {
		glog.Warning("No --model_dir given, lookaheads must not reach a cutoff")
		return nil, nil
	}

	return model.NewLibrary(params.ModelDir, params.ModelCacheSize)
}

func generate(params RunParams) error {
	if params.OutputDir == "" {
		return errors.New("--output is required")
	}

	if err := os.MkdirAll(params.OutputDir, 0777); err != nil {
		return err
	}

	solve, err := solveParams(params)
	if err != nil {
		return err
	}

	technique, err := dataset.ParseStartTechnique(params.Start)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(uint64(params.Seed)))
	priors, err := dataset.NewPriorGenerator(technique, params.Concentration, rng)
	if err != nil {
		return err
	}

	estimator, err := loadEstimator(params)
	if err != nil {
		return err
	}

	state := gamestate.GameState{
		NumSucceeds:  params.NumSucceeds,
		NumFails:     params.NumFails,
		ProposeCount: params.ProposeCount,
	}
	filename := dataset.OutputFilename(params.OutputDir, state)
	glog.Infof("Saving %d samples to %v", params.NumSamples, filename)
	w, err := dataset.NewWriter(filename)
	if err != nil {
		return err
	}

	genParams := dataset.GenerateParams{
		NumSamples:   params.NumSamples,
		NumWorkers:   params.NumWorkers,
		Depth:        params.Depth,
		NumSucceeds:  params.NumSucceeds,
		NumFails:     params.NumFails,
		ProposeCount: params.ProposeCount,
		Solve:        solve,
	}

	if err := dataset.Generate(genParams, priors, estimator, w.Write); err != nil {
		w.Close()
		return err
	}

	return w.Close()
}

func play(params RunParams) error {
	solve, err := solveParams(params)
	if err != nil {
		return err
	}

	var belief deeprole.AssignmentVector
	if err := json.NewDecoder(os.Stdin).Decode(&belief); err != nil {
		return errors.Wrap(err, "error reading belief from stdin")
	}

	estimator, err := loadEstimator(params)
	if err != nil {
		return err
	}

	state := gamestate.GameState{
		NumSucceeds:  params.NumSucceeds,
		NumFails:     params.NumFails,
		Proposer:     params.Proposer,
		ProposeCount: params.ProposeCount,
	}
	root, err := deeprole.NewLookahead(state, params.Depth)
	if err != nil {
		return err
	}

	glog.Infof("Solving lookahead with %d nodes", deeprole.CountNodes(root))
	values := deeprole.Solve(root, &belief, estimator, solve)
	for player := 0; player < roles.NumPlayers; player++ {
		glog.V(1).Infof("Player %d values: %v", player, values[player])
	}

	enc := json.NewEncoder(os.Stdout)
	return enc.Encode(deeprole.NewSnapshot(root, &belief))
}

func convert(params RunParams, inputs []string) error {
	if params.OutputDir == "" {
		return errors.New("--output is required")
	}

	if err := os.MkdirAll(params.OutputDir, 0777); err != nil {
		return err
	}

	var samples []model.Sample
	for _, input := range inputs {
		records, err := dataset.ReadFile(input)
		if err != nil {
			return err
		}

		glog.Infof("Loaded %d samples from %v", len(records), input)
		for _, in := range records {
			samples = append(samples, model.Sample{
				Proposer: in.Proposer,
				Belief:   in.StartingProbs,
				Values:   in.SolutionValues,
			})
		}
	}

	return model.SaveTrainingData(samples, params.OutputDir, params.BatchSize, params.NumWorkers)
}
