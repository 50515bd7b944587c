package worker

import (
	"context"
	"errors"
	"time"

	"github.com/Vivek290100/CodeMaster/internal/common"
	"github.com/Vivek290100/CodeMaster/internal/domain/model"
	"github.com/Vivek290100/CodeMaster/internal/domain/repository"
	"github.com/Vivek290100/CodeMaster/internal/platform/metrics"
	"github.com/Vivek290100/CodeMaster/internal/platform/queue"
	"go.uber.org/zap"
)

// Runner executes one submission. *service.ExecutionService satisfies it.
type Runner interface {
	Execute(ctx context.Context, req model.ExecuteRequest) (*model.ExecutionReport, error)
}

type Options struct {
	// PollTimeout bounds each blocking pop so shutdown is noticed.
	PollTimeout time.Duration
	// BusyBackoff is the pause after requeueing a job whose lock was held.
	BusyBackoff time.Duration
	// ErrorBackoff is the pause after a failed queue read.
	ErrorBackoff time.Duration
	// LockRefresh is how often a running job extends the execution lock.
	// Defaults to a third of the lock TTL.
	LockRefresh time.Duration
}

// ExecutionWorker takes queued job ids one at a time. A Redis lock makes
// sure only one job runs against the code executor across all instances.
type ExecutionWorker struct {
	queue   *queue.Queue
	lock    *queue.Lock
	jobRepo repository.ExecutionJobRepository
	runner  Runner
	metrics *metrics.Metrics
	log     *zap.Logger
	opts    Options
}

func NewExecutionWorker(
	q *queue.Queue,
	lock *queue.Lock,
	jobRepo repository.ExecutionJobRepository,
	runner Runner,
	m *metrics.Metrics,
	log *zap.Logger,
	opts Options,
) *ExecutionWorker {
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = 5 * time.Second
	}
	if opts.BusyBackoff <= 0 {
		opts.BusyBackoff = time.Second
	}
	if opts.ErrorBackoff <= 0 {
		opts.ErrorBackoff = 5 * time.Second
	}
	if opts.LockRefresh <= 0 {
		opts.LockRefresh = lock.TTL() / 3
	}
	if opts.LockRefresh <= 0 {
		opts.LockRefresh = time.Second
	}
	return &ExecutionWorker{
		queue:   q,
		lock:    lock,
		jobRepo: jobRepo,
		runner:  runner,
		metrics: m,
		log:     log.Named("execution_worker"),
		opts:    opts,
	}
}

// Start processes jobs until ctx is cancelled.
func (w *ExecutionWorker) Start(ctx context.Context) error {
	w.log.Info("execution worker started")
	for {
		if ctx.Err() != nil {
			w.log.Info("execution worker stopping")
			return nil
		}

		jobID, ok, err := w.queue.Pop(ctx, w.opts.PollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				continue
			}
			w.log.Error("failed to read execution queue", zap.Error(err))
			wait(ctx, w.opts.ErrorBackoff)
			continue
		}
		if !ok {
			continue
		}

		w.log.Debug("picked up job", zap.String("job_id", jobID))
		if busy := w.processJobWithLock(ctx, jobID); busy {
			wait(ctx, w.opts.BusyBackoff)
		}
	}
}

// processJobWithLock reports true when the job was requeued because another
// instance holds the lock.
func (w *ExecutionWorker) processJobWithLock(ctx context.Context, jobID string) bool {
	log := w.log.With(zap.String("job_id", jobID))

	token, err := w.lock.Acquire(ctx)
	if err != nil {
		log.Error("lock acquisition failed", zap.Error(err))
		w.requeueJob(ctx, jobID)
		return true
	}
	if token == "" {
		log.Info("execution lock busy, re-queueing", zap.Error(common.ErrJobLockFailed))
		w.requeueJob(ctx, jobID)
		return true
	}

	stopRefresh := w.refreshLock(ctx, token, log)
	defer func() {
		stopRefresh()
		released, err := w.lock.Release(context.WithoutCancel(ctx), token)
		switch {
		case err != nil:
			log.Error("failed to release execution lock", zap.Error(err))
		case !released:
			log.Warn("execution lock expired before release")
		}
	}()

	w.handleJob(ctx, jobID)
	return false
}

// refreshLock keeps extending the lock until the returned stop function is
// called. A job may run longer than the lock TTL, since each remote call is
// bounded only by the client timeout.
func (w *ExecutionWorker) refreshLock(ctx context.Context, token string, log *zap.Logger) (stop func()) {
	// The in-flight remote call outlives shutdown, so the lock must too.
	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(w.opts.LockRefresh)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			held, err := w.lock.Extend(ctx, token)
			switch {
			case err != nil:
				if ctx.Err() == nil {
					log.Error("failed to extend execution lock", zap.Error(err))
				}
			case !held:
				log.Warn("execution lock lost while job was running")
				return
			}
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

func (w *ExecutionWorker) requeueJob(ctx context.Context, jobID string) {
	if err := w.queue.PushFront(context.WithoutCancel(ctx), jobID); err != nil {
		w.log.Error("failed to re-queue job", zap.String("job_id", jobID), zap.Error(err))
	}
}

func (w *ExecutionWorker) handleJob(ctx context.Context, jobID string) {
	log := w.log.With(zap.String("job_id", jobID))
	// Job state must be written even while shutting down.
	storeCtx := context.WithoutCancel(ctx)

	job, err := w.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			log.Warn("job expired before it was processed")
			return
		}
		log.Error("failed to load job", zap.Error(err))
		w.requeueJob(ctx, jobID)
		return
	}

	job.Status = model.JobStatusProcessing
	job.Attempts++
	job.UpdatedAt = time.Now().UTC()
	if err := w.jobRepo.Save(storeCtx, job); err != nil {
		log.Error("failed to mark job processing", zap.Error(err))
	}

	report, err := w.runner.Execute(ctx, job.Request)
	switch {
	case err != nil && ctx.Err() != nil:
		log.Info("job interrupted by shutdown, re-queueing")
		job.Status = model.JobStatusQueued
		w.requeueJob(ctx, jobID)
	case err != nil:
		log.Warn("job failed", zap.Error(err))
		msg := err.Error()
		job.Status = model.JobStatusFailed
		job.LastError = &msg
	default:
		job.Status = model.JobStatusCompleted
		job.Report = report
		job.LastError = nil
		log.Info("job completed", zap.Bool("all_passed", report.AllPassed))
	}

	job.UpdatedAt = time.Now().UTC()
	if err := w.jobRepo.Save(storeCtx, job); err != nil {
		log.Error("failed to store job result", zap.Error(err))
	}
	if job.Status != model.JobStatusQueued {
		w.metrics.ObserveJob(job.Status)
	}
}

func wait(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
