// Package queue runs redirect visit bookkeeping off the request path.
package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/shortlink/shortener-service/internal/api/metrics"
	"github.com/shortlink/shortener-service/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes visits to a fixed set of workers using consistent hashing
// on the short code, so updates for one link are applied in order.
type Dispatcher struct {
	workers []chan ports.VisitInput
	service ports.VisitService
	log     zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.VisitService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.VisitInput, numWorkers),
		service: service,
		log:     log.With().Str("component", "visit_dispatcher").Logger(),
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.VisitInput, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. ctx is passed to every Process call.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands a visit to the worker responsible for its code. It never
// blocks: when that worker's buffer is full, or the dispatcher is stopped,
// the visit is dropped and false is returned.
func (d *Dispatcher) Enqueue(visit ports.VisitInput) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return false
	}

	idx := d.shardIndex(visit.Code)
	select {
	case d.workers[idx] <- visit:
		metrics.VisitQueueDepth.WithLabelValues(strconv.Itoa(idx)).Inc()
		return true
	default:
		return false
	}
}

// Stop rejects new visits, lets the workers drain what is queued, and waits
// for them until ctx is done.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a code deterministically to a worker index.
func (d *Dispatcher) shardIndex(code string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(code))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.VisitInput) {
	defer d.wg.Done()
	depth := metrics.VisitQueueDepth.WithLabelValues(strconv.Itoa(id))

	for visit := range ch {
		depth.Dec()
		if err := d.service.Process(ctx, visit); err != nil {
			d.log.Error().Err(err).
				Str("code", visit.Code).
				Int("worker_id", id).
				Msg("visit processing failed")
		}
	}
}

var _ ports.VisitRecorder = (*Dispatcher)(nil)
