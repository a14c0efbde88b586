package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/pressbox/blog-api/internal/api/metrics"
	"github.com/pressbox/blog-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// AuditDispatcher routes audit events to a fixed set of workers using
// consistent hashing on the object id, preserving per-object ordering
// in the audit trail. Recording is fire-and-forget: a full worker
// channel drops the event rather than blocking a request.
type AuditDispatcher struct {
	workers []chan ports.AuditEvent
	repo    ports.AuditRepository
	log     zerolog.Logger
}

// NewAuditDispatcher creates an AuditDispatcher with numWorkers sharded
// workers. If numWorkers <= 0, defaultWorkers is used.
func NewAuditDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *AuditDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &AuditDispatcher{
		workers: make([]chan ports.AuditEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan ports.AuditEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is
// cancelled.
func (d *AuditDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Record enqueues an audit event on the worker responsible for its
// object. Never blocks; overload drops the event with a warning.
func (d *AuditDispatcher) Record(event ports.AuditEvent) {
	switch event.Decision {
	case "deny":
		metrics.AuthzDenialsTotal.WithLabelValues(string(event.Resource), string(event.Action)).Inc()
	case "grant":
		metrics.GrantsIssuedTotal.WithLabelValues(string(event.Resource)).Inc()
	}

	idx := d.shardIndex(event.ObjectID)
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.log.Warn().
			Str("resource", string(event.Resource)).
			Str("object_id", event.ObjectID).
			Msg("audit queue full, event dropped")
	}
}

// shardIndex maps an object id deterministically to a worker index.
func (d *AuditDispatcher) shardIndex(objectID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(objectID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *AuditDispatcher) runWorker(ctx context.Context, id int, ch <-chan ports.AuditEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-ch:
			if !ok {
				return
			}
			metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(id)).Set(float64(len(ch)))
			if err := d.repo.Insert(ctx, &event); err != nil {
				d.log.Error().Err(err).
					Str("resource", string(event.Resource)).
					Str("object_id", event.ObjectID).
					Int("worker_id", id).
					Msg("audit event persistence failed")
			}
		}
	}
}
