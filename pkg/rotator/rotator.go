package rotator

import (
	"errors"
	"sync"
)

// DwellLength is the number of consecutive selections served by one model
// before rotating to the next.
const DwellLength = 20

var ErrNoModels = errors.New("rotator needs at least one model id")

// Rotator cycles through model ids in fixed round-robin order for A/B comparison.
type Rotator struct {
	mu       sync.Mutex
	modelIDs []string
	index    int
	useCount int
}

func New(modelIDs []string) (*Rotator, error) {
	if len(modelIDs) == 0 {
		return nil, ErrNoModels
	}

	ids := make([]string, len(modelIDs))
	copy(ids, modelIDs)

	return &Rotator{modelIDs: ids}, nil
}

// Select returns the active model id and records one use of it. Call it exactly
// once per inference request.
func (r *Rotator) Select() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.modelIDs[r.index]

	r.useCount++
	if r.useCount%DwellLength == 0 {
		r.index = (r.index + 1) % len(r.modelIDs)
	}

	return id
}

// Current returns the id the next Select will return.
func (r *Rotator) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.modelIDs[r.index]
}

func (r *Rotator) UseCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.useCount
}
