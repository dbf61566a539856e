package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/marktline/billing-service/internal/config"
)

func NewClient(cfg config.Redis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// TaskLock guards each billing task with a SETNX lease so two triggers
// (cron and manual) can never run the same task concurrently.
type TaskLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewTaskLock(client *redis.Client, ttl time.Duration) *TaskLock {
	return &TaskLock{client: client, ttl: ttl}
}

func (l *TaskLock) Acquire(ctx context.Context, taskName string) (bool, error) {
	return l.client.SetNX(ctx, "billing:task-lock:"+taskName, time.Now().Unix(), l.ttl).Result()
}

func (l *TaskLock) Release(ctx context.Context, taskName string) error {
	return l.client.Del(ctx, "billing:task-lock:"+taskName).Err()
}
