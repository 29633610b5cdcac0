// Package enrich runs title enrichment off the creation path: the HTML body
// captured by the liveness probe is handed to a worker pool that extracts the
// page title and stores it as the mapping's display name.
package enrich

import (
	"context"
	"fmt"
	"sync"
	"time"

	"shorty/internal/repository"
	"shorty/internal/title"

	"go.uber.org/zap"
)

// Job carries the probe body for one freshly created mapping. The body is
// reused from the probe; the target page is never fetched twice.
type Job struct {
	MappingID int64
	Body      []byte
}

// Config holds configuration for the enrichment worker pool.
type Config struct {
	WorkerCount     int           // number of worker goroutines
	BufferSize      int           // size of the job queue buffer
	UpdateTimeout   time.Duration // per-job storage update deadline
	ShutdownTimeout time.Duration // time to wait for graceful shutdown
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		WorkerCount:     2,
		BufferSize:      256,
		UpdateTimeout:   5 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Worker processes enrichment jobs asynchronously. Creation never waits on
// it: a full queue drops the job with a warning and the display name simply
// stays empty.
type Worker struct {
	config   Config
	storage  repository.Storage
	log      *zap.Logger
	jobQueue chan *Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex
}

// New creates an enrichment worker pool.
func New(storage repository.Storage, log *zap.Logger, config Config) *Worker {
	ctx, cancel := context.WithCancel(context.Background())

	return &Worker{
		config:   config,
		storage:  storage,
		log:      log,
		jobQueue: make(chan *Job, config.BufferSize),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start launches the worker goroutines.
func (w *Worker) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return fmt.Errorf("enrichment worker already started")
	}

	w.log.Info("starting enrichment worker",
		zap.Int("workers", w.config.WorkerCount),
		zap.Int("buffer_size", w.config.BufferSize))

	for i := 0; i < w.config.WorkerCount; i++ {
		w.wg.Add(1)
		go w.worker(i)
	}

	w.started = true
	return nil
}

// Stop drains the pool gracefully, waiting at most ShutdownTimeout.
func (w *Worker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return fmt.Errorf("enrichment worker not started")
	}

	w.log.Info("stopping enrichment worker")

	w.cancel()
	close(w.jobQueue)

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		w.log.Info("enrichment worker stopped gracefully")
	case <-time.After(w.config.ShutdownTimeout):
		w.log.Warn("enrichment worker shutdown timeout reached")
		w.started = false
		return fmt.Errorf("shutdown timeout reached")
	}

	w.started = false
	return nil
}

// Submit queues a job without blocking. Fire-and-forget: the caller gets an
// error only so it can log the drop.
func (w *Worker) Submit(job *Job) error {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if !w.started {
		return fmt.Errorf("enrichment worker not started")
	}

	select {
	case w.jobQueue <- job:
		return nil
	default:
		return fmt.Errorf("enrichment queue full, dropping job for mapping %d", job.MappingID)
	}
}

func (w *Worker) worker(id int) {
	defer w.wg.Done()

	w.log.Debug("enrichment worker started", zap.Int("worker_id", id))

	for {
		select {
		case <-w.ctx.Done():
			// drain whatever is already queued before exiting
			for {
				select {
				case job, ok := <-w.jobQueue:
					if !ok {
						return
					}
					w.process(job)
				default:
					return
				}
			}
		case job, ok := <-w.jobQueue:
			if !ok {
				return
			}
			w.process(job)
		}
	}
}

func (w *Worker) process(job *Job) {
	name := title.Extract(job.Body)
	if name == "" {
		w.log.Debug("no title found", zap.Int64("mapping_id", job.MappingID))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), w.config.UpdateTimeout)
	defer cancel()

	if err := w.storage.SetDisplayName(ctx, job.MappingID, name); err != nil {
		w.log.Warn("failed to store display name",
			zap.Int64("mapping_id", job.MappingID),
			zap.Error(err))
		return
	}

	w.log.Debug("enriched mapping",
		zap.Int64("mapping_id", job.MappingID),
		zap.String("display_name", name))
}
