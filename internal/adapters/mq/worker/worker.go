// Package worker recomputes persisted film scores off a queue.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/arthouse/internal/adapters/mq/queue"
	"github.com/okian/arthouse/internal/domain/model"
	"github.com/okian/arthouse/pkg/logger"
	"github.com/okian/arthouse/pkg/metrics"
)

const poolShutdownTimeout = 30 * time.Second

// Job is what workers read off the queue.
type Job = queue.Job

// Scorer computes the arthouse score of a film.
type Scorer interface {
	Score(f model.Film) int
}

// Updater persists a film.
type Updater interface {
	Upsert(ctx context.Context, f model.Film) (bool, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Result is the outcome of recomputing one film.
type Result struct {
	Film     model.Film // film with the new score applied
	OldScore int
	NewScore int
	Err      error
}

// Delta returns NewScore - OldScore.
func (r Result) Delta() int { return r.NewScore - r.OldScore }

// Handler receives job results.
type Handler func(ctx context.Context, r Result)

// Worker processes jobs until its queue closes.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue closes.
	Run(ctx context.Context)

	// Shutdown stops the worker after the job in flight.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for recompute jobs.
type InMemoryWorker struct {
	queue   Queue
	scorer  Scorer
	updater Updater
	handle  Handler
	name    string

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, scorer Scorer, updater Updater, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		scorer:   scorer,
		updater:  updater,
		handle:   func(context.Context, Result) {},
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.handle(ctx, w.process(ctx, job))
		}
	}
}

// Shutdown stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

// process scores a film and persists it when the score moved.
func (w *InMemoryWorker) process(ctx context.Context, job Job) Result { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	res := Result{OldScore: job.BaseCanonScore}
	res.NewScore = w.scorer.Score(job)
	metrics.RecordScore(res.NewScore)

	job.BaseCanonScore = res.NewScore
	res.Film = job
	if res.NewScore == res.OldScore {
		return res
	}

	job.UpdatedAt = time.Now().UTC()
	res.Film = job
	if _, err := w.updater.Upsert(ctx, job); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "upsert_error")
		w.logger.Error(ctx, "persisting recomputed score failed",
			logger.String("film_id", job.ID),
			logger.Error(err),
		)
		res.Err = fmt.Errorf("persist score for %s: %w", job.ID, err)
	}
	return res
}

// Pool manages multiple workers draining one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a new worker pool. Options are applied to every worker.
func NewPool(workerCount int, queue Queue, scorer Scorer, updater Updater, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   queue,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := range workerCount {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		pool.workers[i] = NewInMemoryWorker(queue, scorer, updater, wopts...)
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, worker := range p.workers {
		go worker.Run(ctx)
	}
}

// Wait blocks until every worker has returned, usually after the queue closes.
func (p *Pool) Wait(ctx context.Context) error {
	for _, worker := range p.workers {
		select {
		case <-worker.done:
		case <-ctx.Done():
			return fmt.Errorf("wait for workers: %w", ctx.Err())
		}
	}
	return nil
}

// Shutdown closes the queue and stops every worker.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, worker := range p.workers {
		if err := worker.Shutdown(shutdownCtx); err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}
