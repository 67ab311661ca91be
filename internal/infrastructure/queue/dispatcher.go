package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/grical/overlay-service/internal/core/ports"
	"github.com/grical/overlay-service/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 128
)

// Dispatcher writes skipped-record batches to the audit repository from a
// fixed set of workers. Batches are sharded on their source so the entries
// of one viewport are written in the order they were built.
type Dispatcher struct {
	workers []chan ports.SkipBatch
	repo    ports.SkipRepository
	log     zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.SkipRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan ports.SkipBatch, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.SkipBatch, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue hands batch to the worker responsible for its source. It never
// blocks an overlay request: when that worker is full the batch is dropped.
func (d *Dispatcher) Enqueue(batch ports.SkipBatch) {
	idx := d.shardIndex(batch.Source)
	select {
	case d.workers[idx] <- batch:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditBatchesTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().
			Str("source", batch.Source).
			Int("entries", len(batch.Entries)).
			Int("worker_id", idx).
			Msg("audit queue full, batch dropped")
	}
}

// shardIndex maps a source deterministically to a worker index.
func (d *Dispatcher) shardIndex(source string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(source))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.SkipBatch) {
	depth := metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case batch, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))
			if err := d.repo.InsertSkips(ctx, batch.Entries); err != nil {
				metrics.AuditBatchesTotal.WithLabelValues("failed").Inc()
				d.log.Error().Err(err).
					Str("source", batch.Source).
					Int("entries", len(batch.Entries)).
					Int("worker_id", id).
					Msg("audit write failed")
				continue
			}
			metrics.AuditBatchesTotal.WithLabelValues("written").Inc()
		}
	}
}
