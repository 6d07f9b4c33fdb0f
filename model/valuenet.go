package model

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/timpalpant/deeprole"
	"github.com/timpalpant/deeprole/roles"
)

// Activation is the nonlinearity applied to the output of a layer.
type Activation string

const (
	ReLU   Activation = "relu"
	Linear Activation = "linear"
)

// LayerConfig holds the parameters of one dense layer.
type LayerConfig struct {
	// Weights is indexed by [output][input].
	Weights    [][]float64 `json:"weights"`
	Biases     []float64   `json:"biases"`
	Activation Activation  `json:"activation"`
}

// Config is the serialized form of a ValueNet.
type Config struct {
	InputSize  int           `json:"input_size"`
	OutputSize int           `json:"output_size"`
	Layers     []LayerConfig `json:"layers"`
}

type denseLayer struct {
	weights    *mat.Dense
	biases     *mat.VecDense
	activation Activation
}

// ValueNet is a feed-forward network predicting the values of every
// viewpoint from the proposer and the belief over assignments.
// Its output is passed through a mask-and-adjust layer so that predictions
// are zero-sum and zero for impossible viewpoints.
//
// ValueNet is immutable and safe for concurrent use.
type ValueNet struct {
	layers []denseLayer
}

// NewValueNet constructs the network described by config.
func NewValueNet(config Config) (*ValueNet, error) {
	if config.InputSize != NumInputFeatures {
		return nil, fmt.Errorf("invalid input size: %d (expected %d)", config.InputSize, NumInputFeatures)
	}

	if config.OutputSize != NumOutputs {
		return nil, fmt.Errorf("invalid output size: %d (expected %d)", config.OutputSize, NumOutputs)
	}

	if len(config.Layers) == 0 {
		return nil, fmt.Errorf("network has no layers")
	}

	nn := &ValueNet{}
	inputSize := config.InputSize
	for i, layer := range config.Layers {
		outputSize := len(layer.Weights)
		if outputSize == 0 || len(layer.Biases) != outputSize {
			return nil, fmt.Errorf("layer %d: %d weight rows but %d biases", i, outputSize, len(layer.Biases))
		}

		weights := mat.NewDense(outputSize, inputSize, nil)
		for j, row := range layer.Weights {
			if len(row) != inputSize {
				return nil, fmt.Errorf("layer %d: row %d has %d weights, expected %d", i, j, len(row), inputSize)
			}
			weights.SetRow(j, row)
		}

		switch layer.Activation {
		case ReLU, Linear:
		case "":
			layer.Activation = Linear
		default:
			return nil, fmt.Errorf("layer %d: unknown activation %q", i, layer.Activation)
		}

		nn.layers = append(nn.layers, denseLayer{
			weights:    weights,
			biases:     mat.NewVecDense(outputSize, append([]float64(nil), layer.Biases...)),
			activation: layer.Activation,
		})
		inputSize = outputSize
	}

	if inputSize != config.OutputSize {
		return nil, fmt.Errorf("final layer has %d outputs, expected %d", inputSize, config.OutputSize)
	}

	return nn, nil
}

// LoadValueNet reads a JSON-encoded Config from r.
func LoadValueNet(r io.Reader) (*ValueNet, error) {
	var config Config
	if err := json.NewDecoder(r).Decode(&config); err != nil {
		return nil, errors.Wrap(err, "error decoding value network")
	}

	return NewValueNet(config)
}

// LoadValueNetFile reads a JSON-encoded Config from the given file.
func LoadValueNetFile(filename string) (*ValueNet, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	nn, err := LoadValueNet(f)
	if err != nil {
		return nil, errors.Wrapf(err, "error loading %v", filename)
	}

	return nn, nil
}

// Predict sets out to the predicted values of each player's viewpoints
// when the given player proposes next and the assignment is distributed
// as belief.
func (nn *ValueNet) Predict(proposer int, belief *deeprole.AssignmentVector, out *[roles.NumPlayers]deeprole.ViewpointVector) {
	input := inputPool.Get().([]float64)
	EncodeInput(proposer, belief, input)
	x := mat.NewVecDense(NumInputFeatures, nil)
	x.CopyVec(mat.NewVecDense(NumInputFeatures, input))
	inputPool.Put(input)

	for _, layer := range nn.layers {
		rows, _ := layer.weights.Dims()
		y := mat.NewVecDense(rows, nil)
		y.MulVec(layer.weights, x)
		y.AddVec(y, layer.biases)
		if layer.activation == ReLU {
			for i := 0; i < rows; i++ {
				if y.AtVec(i) < 0 {
					y.SetVec(i, 0)
				}
			}
		}
		x = y
	}

	values := x.RawVector().Data
	maskAndAdjust(belief, values)
	DecodeValues(values, out)
}
