package model

import (
	"sync"
)

// slicePool recycles the buffers training batches are encoded into.
// Slices are returned with zero length and whatever capacity they grew to.
type slicePool[T any] struct {
	mx   sync.Mutex
	pool [][]T
}

func (p *slicePool[T]) alloc() []T {
	p.mx.Lock()
	defer p.mx.Unlock()

	if m := len(p.pool); m > 0 {
		next := p.pool[m-1]
		p.pool = p.pool[:m-1]
		return next
	}

	return nil
}

func (p *slicePool[T]) free(s []T) {
	if cap(s) == 0 {
		return
	}

	p.mx.Lock()
	p.pool = append(p.pool, s[:0])
	p.mx.Unlock()
}
