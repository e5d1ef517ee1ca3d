package pipeline

import (
	"sync"
	"time"
)

// Refresher serializes load cycles against a Store. Refresh is not
// re-entrant: a trigger arriving while a load is in flight is coalesced
// into the running one rather than starting a second concurrent load.
type Refresher struct {
	Paths Paths
	Store *Store
	// Now is the clock used for date-derived flags; defaults to time.Now.
	Now func() time.Time
	// OnComplete, if set, is called after every finished refresh with the
	// new snapshot (nil on failure) and the load error (nil on success).
	OnComplete func(sn *Snapshot, err error)

	mu       sync.Mutex
	inFlight bool
}

// Refresh runs one load cycle and swaps the result into the store.
// Returns false immediately when a refresh is already in flight.
func (r *Refresher) Refresh() (ran bool, err error) {
	r.mu.Lock()
	if r.inFlight {
		r.mu.Unlock()
		return false, nil
	}
	r.inFlight = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.inFlight = false
		r.mu.Unlock()
	}()

	now := time.Now
	if r.Now != nil {
		now = r.Now
	}

	sn, err := Run(r.Paths, now())
	if err != nil {
		r.Store.MarkFailed(err)
		if r.OnComplete != nil {
			r.OnComplete(nil, err)
		}
		return true, err
	}

	r.Store.Replace(sn)
	if r.OnComplete != nil {
		r.OnComplete(sn, nil)
	}
	return true, nil
}
