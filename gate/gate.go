// Package gate bounds how many conversions, paints and cache round trips run
// at once.
package gate

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrTooBusy = errors.New("gate: too many waiters")
)

// Gate admits up to maxInflight holders and queues up to maxWait more.
type Gate struct {
	maxInflight int
	maxWait     int

	mu     sync.Mutex
	num    int
	queue  []*Reservation
	served uint64
	denied uint64
}

// New creates a Gate.
func New(maxInflight, maxWait int) *Gate {
	if maxInflight < 1 {
		maxInflight = 1
	}
	if maxWait < 0 {
		maxWait = 0
	}
	return &Gate{
		maxInflight: maxInflight,
		maxWait:     maxWait,
	}
}

// Reserve attempts to obtain a reservation. If the wait queue is full, it
// returns false.
func (g *Gate) Reserve() (*Reservation, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.num >= g.maxInflight+g.maxWait {
		g.denied++
		return nil, false
	}
	g.num++
	g.served++

	// Grant immediately.
	if g.num <= g.maxInflight {
		return &Reservation{
			g: g,
		}, true
	}

	// Grant later.
	r := &Reservation{
		g:       g,
		granted: make(chan struct{}),
	}
	g.queue = append(g.queue, r)
	return r, true
}

// Do reserves, waits for its turn and runs fn. It fails with ErrTooBusy
// when the queue is full, or with ctx's error if ctx ends while waiting.
func (g *Gate) Do(ctx context.Context, fn func() error) error {
	r, ok := g.Reserve()
	if !ok {
		return ErrTooBusy
	}
	defer r.Release()
	if err := r.Wait(ctx); err != nil {
		return err
	}
	return fn()
}

func (g *Gate) release(r *Reservation) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.num--

	// Abandoned before being granted: just leave the queue.
	for i, q := range g.queue {
		if q == r {
			g.queue = append(g.queue[:i], g.queue[i+1:]...)
			return
		}
	}

	if len(g.queue) > 0 {
		next := g.queue[0]
		g.queue = g.queue[1:]
		next.grant()
	}
}

// Stats is a snapshot of a Gate.
type Stats struct {
	Inflight int
	Waiting  int
	Served   uint64
	Denied   uint64
}

func (g *Gate) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()

	waiting := len(g.queue)
	return Stats{
		Inflight: g.num - waiting,
		Waiting:  waiting,
		Served:   g.served,
		Denied:   g.denied,
	}
}

// Reservation represents a reservation.
type Reservation struct {
	g        *Gate
	granted  chan struct{}
	released bool
}

// Wait blocks until the reservation is granted or ctx is done.
func (r *Reservation) Wait(ctx context.Context) error {
	if r.granted == nil {
		return nil
	}
	select {
	case <-r.granted:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns the reservation. It must be called exactly once when the
// reservation is no longer needed, whether or not Wait was called or
// succeeded.
func (r *Reservation) Release() {
	if r.released {
		return
	}
	r.released = true
	r.g.release(r)
}

func (r *Reservation) grant() {
	close(r.granted)
}

func (r *Reservation) isGranted() bool {
	if r.granted == nil {
		return true
	}
	select {
	case <-r.granted:
		return true
	default:
		return false
	}
}
