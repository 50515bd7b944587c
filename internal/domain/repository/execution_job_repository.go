package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Vivek290100/CodeMaster/internal/common"
	"github.com/Vivek290100/CodeMaster/internal/domain/model"
	"github.com/redis/go-redis/v9"
)

const executionJobKeyPrefix = "execution_job:"

type ExecutionJobRepository interface {
	Save(ctx context.Context, job *model.ExecutionJob) error
	FindByID(ctx context.Context, id string) (*model.ExecutionJob, error)
}

// redisExecutionJobRepository keeps each job as one JSON value that expires
// after ttl. Saving a job refreshes its expiry.
type redisExecutionJobRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisExecutionJobRepository(rdb *redis.Client, ttl time.Duration) ExecutionJobRepository {
	return &redisExecutionJobRepository{rdb: rdb, ttl: ttl}
}

func ExecutionJobKey(id string) string {
	return executionJobKeyPrefix + id
}

func (r *redisExecutionJobRepository) Save(ctx context.Context, job *model.ExecutionJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("redisExecutionJobRepository.Save marshal: %w", err)
	}
	if err := r.rdb.Set(ctx, ExecutionJobKey(job.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redisExecutionJobRepository.Save: %w", err)
	}
	return nil
}

func (r *redisExecutionJobRepository) FindByID(ctx context.Context, id string) (*model.ExecutionJob, error) {
	data, err := r.rdb.Get(ctx, ExecutionJobKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("redisExecutionJobRepository.FindByID: %w", err)
	}
	job := &model.ExecutionJob{}
	if err := json.Unmarshal(data, job); err != nil {
		return nil, fmt.Errorf("redisExecutionJobRepository.FindByID unmarshal: %w", err)
	}
	return job, nil
}
