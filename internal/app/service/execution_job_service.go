package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Vivek290100/CodeMaster/internal/domain/model"
	"github.com/Vivek290100/CodeMaster/internal/domain/repository"
	"github.com/Vivek290100/CodeMaster/internal/platform/queue"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ExecutionJobService struct {
	jobRepo repository.ExecutionJobRepository
	queue   *queue.Queue
	log     *zap.Logger
}

func NewExecutionJobService(jobRepo repository.ExecutionJobRepository, q *queue.Queue, log *zap.Logger) *ExecutionJobService {
	return &ExecutionJobService{jobRepo: jobRepo, queue: q, log: log}
}

// Enqueue stores a queued job and pushes its id for the worker. The job is
// stored first so the worker always finds it.
func (s *ExecutionJobService) Enqueue(ctx context.Context, req model.ExecuteRequest) (*model.ExecutionJob, error) {
	if err := ValidateExecuteRequest(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job := &model.ExecutionJob{
		ID:        uuid.NewString(),
		Status:    model.JobStatusQueued,
		Request:   req,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.jobRepo.Save(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to store execution job: %w", err)
	}
	if err := s.queue.Push(ctx, job.ID); err != nil {
		return nil, fmt.Errorf("failed to queue execution job: %w", err)
	}

	s.log.Info("execution job enqueued",
		zap.String("job_id", job.ID),
		zap.String("problem_id", req.ProblemID),
		zap.String("language", string(req.Language)),
	)
	return job, nil
}

func (s *ExecutionJobService) Get(ctx context.Context, id string) (*model.ExecutionJob, error) {
	job, err := s.jobRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get execution job %s: %w", id, err)
	}
	return job, nil
}
