package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/u759/AllanAI-sub001/infrastructure/config"
)

var (
	// ErrQueueFull is returned when the bounded task queue cannot accept
	// another match; callers should surface backpressure, not block.
	ErrQueueFull = errors.New("processing queue is full")

	// ErrAlreadyQueued is returned when the match is already queued or
	// processing. One task owns one match id.
	ErrAlreadyQueued = errors.New("match is already queued or processing")

	// ErrPoolClosed is returned after Shutdown.
	ErrPoolClosed = errors.New("worker pool is shut down")
)

// Pool is the bounded worker pool that caps concurrent video decodes and
// external-process launches. Excess submissions queue up to the configured
// capacity; beyond that Submit fails fast.
type Pool struct {
	svc     *Service
	tasks   chan string
	workers int
	logger  *slog.Logger
	metrics Metrics

	mu       sync.Mutex
	inflight map[string]struct{}
	closed   bool

	wg sync.WaitGroup
}

// NewPool sizes the pool from configuration. The worker count is the
// configured max size; core size is kept in config for compatibility with
// earlier deployments but does not change scheduling.
func NewPool(svc *Service, cfg config.WorkerConfig, logger *slog.Logger, opts ...PoolOption) *Pool {
	workers := cfg.MaxSize
	if workers <= 0 {
		workers = 1
	}
	capacity := cfg.QueueCapacity
	if capacity <= 0 {
		capacity = 1
	}
	p := &Pool{
		svc:      svc,
		tasks:    make(chan string, capacity),
		workers:  workers,
		logger:   logger,
		metrics:  nopMetrics{},
		inflight: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PoolOption is a functional option for configuring Pool
type PoolOption func(*Pool)

// WithPoolMetrics sets the metrics sink for queue observations.
func WithPoolMetrics(m Metrics) PoolOption {
	return func(p *Pool) {
		p.metrics = m
	}
}

// Start launches the workers. They run until Shutdown closes the queue; the
// context only cancels the task each worker is currently processing, so
// matches queued before Shutdown still drain.
func (p *Pool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.run(ctx, i)
	}
}

// Submit queues a match for processing. It never blocks: a full queue or an
// in-flight duplicate is reported to the caller immediately. The send happens
// under the mutex so Shutdown cannot close the channel between the closed
// check and the send.
func (p *Pool) Submit(matchID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPoolClosed
	}
	if _, dup := p.inflight[matchID]; dup {
		return ErrAlreadyQueued
	}

	select {
	case p.tasks <- matchID:
		p.inflight[matchID] = struct{}{}
		p.metrics.QueueDepth(len(p.tasks))
		return nil
	default:
		return ErrQueueFull
	}
}

// Shutdown stops accepting work and waits for in-flight tasks, up to the
// context deadline.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.tasks)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) run(ctx context.Context, id int) {
	defer p.wg.Done()
	logger := p.logger.With("worker", id)
	for matchID := range p.tasks {
		p.metrics.QueueDepth(len(p.tasks))
		if err := p.svc.Process(ctx, matchID); err != nil {
			logger.Error("processing task failed", "match_id", matchID, "error", err)
		}
		p.release(matchID)
	}
}

func (p *Pool) release(matchID string) {
	p.mu.Lock()
	delete(p.inflight, matchID)
	p.mu.Unlock()
}
