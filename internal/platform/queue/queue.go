package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Queue is a FIFO list of ids: producers LPUSH, consumers BRPOP.
type Queue struct {
	rdb  *redis.Client
	name string
}

func NewQueue(rdb *redis.Client, name string) *Queue {
	return &Queue{rdb: rdb, name: name}
}

func (q *Queue) Push(ctx context.Context, id string) error {
	if err := q.rdb.LPush(ctx, q.name, id).Err(); err != nil {
		return fmt.Errorf("push to %s: %w", q.name, err)
	}
	return nil
}

// PushFront puts id where the next Pop will take it.
func (q *Queue) PushFront(ctx context.Context, id string) error {
	if err := q.rdb.RPush(ctx, q.name, id).Err(); err != nil {
		return fmt.Errorf("requeue to %s: %w", q.name, err)
	}
	return nil
}

// Pop blocks up to timeout. ok is false when nothing arrived.
func (q *Queue) Pop(ctx context.Context, timeout time.Duration) (id string, ok bool, err error) {
	res, err := q.rdb.BRPop(ctx, timeout, q.name).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("pop from %s: %w", q.name, err)
	}
	// res[0] is the list name.
	return res[1], true, nil
}

func (q *Queue) Len(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.name).Result()
}
