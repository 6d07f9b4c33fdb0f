package model

import (
	"expvar"
	"fmt"
	"path/filepath"

	"github.com/golang/glog"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"

	"github.com/timpalpant/deeprole"
	"github.com/timpalpant/deeprole/gamestate"
	"github.com/timpalpant/deeprole/roles"
)

var (
	cacheHits   = expvar.NewInt("models/cache_hits")
	cacheMisses = expvar.NewInt("models/cache_misses")
	cacheSize   = expvar.NewInt("models/cache_size")
)

// A separate network is trained for each (succeeds, fails, propose count).
type modelKey struct {
	numSucceeds  int
	numFails     int
	proposeCount int
}

func newModelKey(state gamestate.GameState) modelKey {
	return modelKey{state.NumSucceeds, state.NumFails, state.ProposeCount}
}

// ModelFilename returns the file the network for the given state is stored in.
func ModelFilename(dir string, state gamestate.GameState) string {
	name := fmt.Sprintf("%d_%d_%d.json", state.NumSucceeds, state.NumFails, state.ProposeCount)
	return filepath.Join(dir, name)
}

// Library lazily loads the value network for each game state from
// a directory, and evaluates cutoffs with it.
//
// Library implements deeprole.LeafEstimator and is safe for concurrent use.
type Library struct {
	dir   string
	cache *lru.Cache
}

// NewLibrary returns a Library of the networks in dir that keeps at most
// maxModels of them in memory.
func NewLibrary(dir string, maxModels int) (*Library, error) {
	cache, err := lru.New(maxModels)
	if err != nil {
		return nil, errors.Wrap(err, "error creating model cache")
	}

	return &Library{
		dir:   dir,
		cache: cache,
	}, nil
}

// Get returns the network for the given state, loading it if necessary.
func (l *Library) Get(state gamestate.GameState) (*ValueNet, error) {
	key := newModelKey(state)
	if cached, ok := l.cache.Get(key); ok {
		cacheHits.Add(1)
		return cached.(*ValueNet), nil
	}

	cacheMisses.Add(1)
	filename := ModelFilename(l.dir, state)
	glog.V(1).Infof("Loading value network from %v", filename)
	nn, err := LoadValueNetFile(filename)
	if err != nil {
		return nil, err
	}

	l.cache.Add(key, nn)
	cacheSize.Set(int64(l.cache.Len()))
	return nn, nil
}

// Estimate implements deeprole.LeafEstimator.
// It panics if there is no usable network for the state.
func (l *Library) Estimate(state gamestate.GameState, belief *deeprole.AssignmentVector, out *[roles.NumPlayers]deeprole.ViewpointVector) {
	nn, err := l.Get(state)
	if err != nil {
		panic(errors.Wrapf(err, "no value network for %v", state))
	}

	nn.Predict(state.Proposer, belief, out)
}
