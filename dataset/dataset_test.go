package dataset

import (
	"math"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/timpalpant/deeprole"
	"github.com/timpalpant/deeprole/gamestate"
	"github.com/timpalpant/deeprole/roles"
)

func testInitialization() *Initialization {
	in := &Initialization{
		Depth: 1,
		GameState: gamestate.GameState{
			NumSucceeds:  2,
			NumFails:     1,
			ProposeCount: 3,
			Proposer:     4,
		},
		Iterations:     100,
		WaitIterations: 10,
		Technique:      Dirichlet,
		StartingProbs:  deeprole.UniformAssignmentVector(),
	}
	in.SolutionValues[1][7] = 1.5
	in.SolutionValues[4][0] = -2.0 / 3

	return in
}

func TestInitializationString(t *testing.T) {
	line := testInitialization().String()
	fields := strings.Split(line, ",")
	require.Len(t, fields, NumFields)
	assert.Equal(t, []string{"1", "2", "1", "3", "4", "100", "10", "dirichlet"}, fields[:8])
	assert.Equal(t, "0.01666666667", fields[8])
	assert.Equal(t, "1.5", fields[8+roles.NumAssignments+roles.NumViewpoints+7])
	assert.Equal(t, "-0.6666666667", fields[8+roles.NumAssignments+4*roles.NumViewpoints])
	assert.Equal(t, "0", fields[NumFields-1])
}

func TestParseInitialization(t *testing.T) {
	expected := testInitialization()
	in, err := ParseInitialization(expected.String())
	require.NoError(t, err)

	assert.Equal(t, expected.Depth, in.Depth)
	assert.Equal(t, expected.GameState, in.GameState)
	assert.Equal(t, expected.Iterations, in.Iterations)
	assert.Equal(t, expected.WaitIterations, in.WaitIterations)
	assert.Equal(t, expected.Technique, in.Technique)
	assert.InDeltaSlice(t, expected.StartingProbs[:], in.StartingProbs[:], 1e-10)
	for player := range expected.SolutionValues {
		assert.InDeltaSlice(t, expected.SolutionValues[player][:], in.SolutionValues[player][:], 1e-9)
	}
}

func TestParseInitialization_Invalid(t *testing.T) {
	valid := testInitialization().String()
	for _, line := range []string{
		"",
		"1,2,3",
		strings.Replace(valid, "dirichlet", "gaussian", 1),
		strings.Replace(valid, "1,2,1,3,4", "1,3,1,3,4", 1),
		strings.Replace(valid, "0.01666666667", "abc", 1),
	} {
		_, err := ParseInitialization(line)
		assert.Error(t, err, line)
	}
}

func TestStartTechniques(t *testing.T) {
	for _, technique := range []StartTechnique{Uniform, Dirichlet, Sparse} {
		parsed, err := ParseStartTechnique(technique.String())
		require.NoError(t, err)
		assert.Equal(t, technique, parsed)

		g, err := NewPriorGenerator(technique, 1.0, rand.New(rand.NewSource(123)))
		require.NoError(t, err)
		for i := 0; i < 20; i++ {
			prior := g.Next()
			total := 0.0
			numNonZero := 0
			for _, p := range prior {
				assert.True(t, p >= 0, "negative probability %v", p)
				if p > 0 {
					numNonZero++
				}
				total += p
			}
			assert.InDelta(t, 1.0, total, 1e-9)

			if technique == Sparse {
				for _, p := range prior {
					if p > 0 {
						assert.InDelta(t, 1.0/float64(numNonZero), p, 1e-12)
					}
				}
			}

			proposer := g.NextProposer()
			assert.True(t, proposer >= 0 && proposer < roles.NumPlayers)
		}
	}

	_, err := ParseStartTechnique("gaussian")
	assert.Error(t, err)
	_, err = NewPriorGenerator(Dirichlet, 0, rand.New(rand.NewSource(1)))
	assert.Error(t, err)
}

func TestPriorGenerator_Deterministic(t *testing.T) {
	g1, err := NewPriorGenerator(Dirichlet, 0.5, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	g2, err := NewPriorGenerator(Dirichlet, 0.5, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		assert.Equal(t, g1.Next(), g2.Next())
	}
}

func TestWriteAndReadFile(t *testing.T) {
	state := gamestate.GameState{NumSucceeds: 2, NumFails: 1, ProposeCount: 3}
	filename := OutputFilename(t.TempDir(), state)
	assert.True(t, strings.HasPrefix(filepath.Base(filename), "2_1_3_"))
	assert.True(t, strings.HasSuffix(filename, ".csv.gz"))

	w, err := NewWriter(filename)
	require.NoError(t, err)
	expected := testInitialization()
	for i := 0; i < 3; i++ {
		require.NoError(t, w.Write(expected))
	}
	require.NoError(t, w.Close())

	records, err := ReadFile(filename)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, in := range records {
		assert.Equal(t, expected.String(), in.String())
	}
}

func TestGenerate(t *testing.T) {
	params := GenerateParams{
		NumSamples:   6,
		NumWorkers:   2,
		Depth:        0,
		NumSucceeds:  2,
		NumFails:     2,
		ProposeCount: 4,
		Solve: deeprole.SolveParams{
			Iterations:     10,
			WaitIterations: 2,
		},
	}

	priors, err := NewPriorGenerator(Sparse, 0, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	var mu sync.Mutex
	var results []*Initialization
	err = Generate(params, priors, nil, func(in *Initialization) error {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, in)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, results, params.NumSamples)

	for _, in := range results {
		assert.Equal(t, Sparse, in.Technique)
		assert.Equal(t, 10, in.Iterations)
		assert.NoError(t, in.GameState.Validate())

		total := 0.0
		for player := range in.SolutionValues {
			for _, v := range in.SolutionValues[player] {
				assert.False(t, math.IsNaN(v))
				total += v
			}
		}
		assert.InDelta(t, 0.0, total, 1e-9)
	}
}

func TestGenerate_Errors(t *testing.T) {
	params := GenerateParams{
		NumSamples:   3,
		NumWorkers:   1,
		NumSucceeds:  2,
		NumFails:     2,
		ProposeCount: 4,
		Solve:        deeprole.SolveParams{Iterations: 1},
	}

	priors, err := NewPriorGenerator(Uniform, 0, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	err = Generate(params, priors, nil, func(in *Initialization) error {
		return assert.AnError
	})
	require.Error(t, err)
	assert.Equal(t, 3, strings.Count(err.Error(), assert.AnError.Error()))

	params.NumWorkers = 0
	assert.Error(t, Generate(params, priors, nil, nil))
}
