package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/profitum/platform-api/internal/api/metrics"
	"github.com/profitum/platform-api/internal/core/domain"
	"github.com/profitum/platform-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

var _ ports.AccessLogger = (*Dispatcher)(nil)

// Dispatcher routes access log entries to a fixed set of workers using
// consistent hashing on the identity id, so entries for one identity are
// written in order.
type Dispatcher struct {
	workers []chan domain.AccessLogEntry
	writer  ports.AccessLogWriter
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, writer ports.AccessLogWriter, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AccessLogEntry, numWorkers),
		writer:  writer,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AccessLogEntry, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled,
// after writing whatever is already queued.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has stopped.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Log hands an entry to the worker responsible for its identity. It never
// blocks: when that worker's queue is full the entry is dropped.
func (d *Dispatcher) Log(entry domain.AccessLogEntry) {
	idx := d.shardIndex(entry.IdentityID)
	select {
	case d.workers[idx] <- entry:
		metrics.AccessLogQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AccessLogDroppedTotal.Inc()
		d.log.Warn().
			Str("identity_id", entry.IdentityID).
			Str("resource", entry.Resource).
			Int("worker_id", idx).
			Msg("access log queue full, entry dropped")
	}
}

// shardIndex maps an identity id deterministically to a worker index.
func (d *Dispatcher) shardIndex(identityID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(identityID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AccessLogEntry) {
	defer d.wg.Done()
	depth := metrics.AccessLogQueueDepth.WithLabelValues(strconv.Itoa(id))
	// Cancelling ctx stops the loop, not writes already accepted.
	writeCtx := context.WithoutCancel(ctx)
	for {
		select {
		case <-ctx.Done():
			for {
				select {
				case entry, ok := <-ch:
					if !ok {
						return
					}
					d.write(writeCtx, id, entry)
				default:
					depth.Set(0)
					return
				}
			}
		case entry, ok := <-ch:
			if !ok {
				return
			}
			depth.Set(float64(len(ch)))
			d.write(writeCtx, id, entry)
		}
	}
}

func (d *Dispatcher) write(ctx context.Context, id int, entry domain.AccessLogEntry) {
	if err := d.writer.Write(ctx, entry); err != nil {
		d.log.Error().Err(err).
			Str("identity_id", entry.IdentityID).
			Int("worker_id", id).
			Msg("access log write failed")
	}
}
