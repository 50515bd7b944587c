package queue

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Options struct {
	Addr     string
	Password string
	DB       int
}

func ConnectRedis(ctx context.Context, opts Options, log *zap.Logger) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", opts.Addr, err)
	}
	log.Info("connected to Redis", zap.String("addr", opts.Addr))
	return rdb, nil
}

func CloseRedis(rdb *redis.Client, log *zap.Logger) {
	if rdb == nil {
		return
	}
	if err := rdb.Close(); err != nil {
		log.Warn("closing redis", zap.Error(err))
		return
	}
	log.Info("redis connection closed")
}
