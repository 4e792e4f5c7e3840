// Package history buffers generation records and flushes them to a store in
// batches, off the request path.
package history

import (
	"context"
	"sync"
	"time"

	"namegen-api/internal/metrics"
	"namegen-api/internal/shared"

	"go.uber.org/zap"
)

type Store interface {
	SaveGenerations(ctx context.Context, records []shared.GenerationRecord) error
}

type Recorder struct {
	store Store
	log   *zap.SugaredLogger

	interval   time.Duration
	batchSize  int
	retryDelay time.Duration

	mu      sync.Mutex
	buf     []shared.GenerationRecord
	stopped bool

	flushCh chan struct{}
	stop    chan struct{}
	done    chan struct{}
}

type Option func(*Recorder)

func WithFlushInterval(d time.Duration) Option {
	return func(r *Recorder) { r.interval = d }
}

func WithBatchSize(n int) Option {
	return func(r *Recorder) { r.batchSize = n }
}

func WithRetryDelay(d time.Duration) Option {
	return func(r *Recorder) { r.retryDelay = d }
}

// NewRecorder starts the flush loop. Call Shutdown to stop it.
func NewRecorder(store Store, log *zap.SugaredLogger, opts ...Option) *Recorder {
	r := &Recorder{
		store:      store,
		log:        log,
		interval:   shared.HistoryFlushInterval,
		batchSize:  shared.HistoryBatchSize,
		retryDelay: shared.HistoryRetryDelay,
		flushCh:    make(chan struct{}, 1),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	go r.loop()
	return r
}

// Record never blocks on the store.
func (r *Recorder) Record(rec shared.GenerationRecord) {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		r.log.Warnw("Recorder stopped, dropping generation record", "request_id", rec.RequestID)
		return
	}
	r.buf = append(r.buf, rec)
	full := len(r.buf) >= r.batchSize
	r.mu.Unlock()

	if full {
		select {
		case r.flushCh <- struct{}{}:
		default:
		}
	}
}

// Shutdown stops the loop and flushes whatever is still buffered.
func (r *Recorder) Shutdown() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()

	r.log.Info("Shutting down history recorder")
	close(r.stop)
	<-r.done
	r.Flush()
}

func (r *Recorder) loop() {
	defer close(r.done)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
			r.Flush()
		case <-r.flushCh:
			r.Flush()
		}
	}
}

// Flush writes the current buffer, retrying up to MaxFlushRetries times.
// Records from a flush that keeps failing are dropped.
func (r *Recorder) Flush() {
	r.mu.Lock()
	records := r.buf
	r.buf = nil
	r.mu.Unlock()
	if len(records) == 0 {
		return
	}

	var err error
	for attempt := range shared.MaxFlushRetries {
		if attempt > 0 {
			time.Sleep(r.retryDelay)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err = r.store.SaveGenerations(ctx, records)
		cancel()
		if err == nil {
			metrics.HistoryFlushes.WithLabelValues("success").Inc()
			r.log.Infow("Flushed generation history", "records", len(records))
			return
		}
		r.log.Errorw("Failed to save generation history", "error", err, "attempt", attempt+1)
	}
	metrics.HistoryFlushes.WithLabelValues("failed").Inc()
	metrics.ErrorCount.WithLabelValues("unknown", "save_history").Inc()
	r.log.Errorw("Dropping generation history after retries", "error", err, "records", len(records))
}
