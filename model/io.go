package model

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/timpalpant/deeprole"
	"github.com/timpalpant/deeprole/model/npyio"
	"github.com/timpalpant/deeprole/roles"
)

// Sample is one training example: the solved values of a lookahead
// started from the given belief.
type Sample struct {
	Proposer int
	Belief   deeprole.AssignmentVector
	Values   [roles.NumPlayers]deeprole.ViewpointVector
}

// SaveTrainingData writes the samples to directory as numbered .npz batches,
// each containing "X" (n x 65 inputs) and "Y" (n x 75 values).
func SaveTrainingData(samples []Sample, directory string, batchSize int, maxNumWorkers int) error {
	glog.V(1).Infof("Writing batches to %v", directory)
	var wg sync.WaitGroup
	var mu sync.Mutex
	sem := make(chan struct{}, maxNumWorkers)
	start := time.Now()
	var retErr error
	for batchNum := 0; batchNum*batchSize < len(samples); batchNum++ {
		sem <- struct{}{}
		wg.Add(1)
		go func(batchNum int) {
			defer func() { <-sem }()
			defer wg.Done()

			batchStart := batchNum * batchSize
			batchEnd := min(batchStart+batchSize, len(samples))
			batch := samples[batchStart:batchEnd]
			batchName := fmt.Sprintf("batch_%08d.npz", batchNum)
			batchFilename := filepath.Join(directory, batchName)
			glog.V(2).Infof("Saving batch %d (%d samples) to %v",
				batchNum, len(batch), batchFilename)
			if err := saveBatch(batch, batchFilename); err != nil {
				mu.Lock()
				defer mu.Unlock()
				if retErr == nil {
					retErr = err
				}
			}
		}(batchNum)
	}

	wg.Wait()

	elapsed := time.Since(start)
	sps := float64(len(samples)) / elapsed.Seconds()
	glog.V(1).Infof("Finished saving training data (took: %v, %.1f samples/sec)", elapsed, sps)
	return retErr
}

var batchPool slicePool[float32]

func saveBatch(batch []Sample, filename string) error {
	nSamples := len(batch)
	x := batchPool.alloc()
	y := batchPool.alloc()
	defer func() {
		batchPool.free(x)
		batchPool.free(y)
	}()

	input := make([]float64, NumInputFeatures)
	output := make([]float64, NumOutputs)
	for i := range batch {
		sample := &batch[i]
		EncodeInput(sample.Proposer, &sample.Belief, input)
		x = appendFloat32s(x, input)
		EncodeValues(&sample.Values, output)
		y = appendFloat32s(y, output)
	}

	return npyio.MakeNPZ(filename, map[string]npyio.Array{
		"X": npyio.NewArray(x, nSamples, NumInputFeatures),
		"Y": npyio.NewArray(y, nSamples, NumOutputs),
	})
}

func appendFloat32s(dst []float32, src []float64) []float32 {
	for _, v := range src {
		dst = append(dst, float32(v))
	}

	return dst
}
