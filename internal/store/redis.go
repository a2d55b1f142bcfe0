package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "clinic:"

// RedisTable stores a collection as one JSON array under clinic:<collection>.
type RedisTable[T any] struct {
	client redis.Cmdable
	key    string
}

func NewRedisTable[T any](client redis.Cmdable, collection string) *RedisTable[T] {
	return &RedisTable[T]{client: client, key: redisKeyPrefix + collection}
}

func (t *RedisTable[T]) LoadAll(ctx context.Context) ([]T, error) {
	data, err := t.client.Get(ctx, t.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []T{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", t.key, err)
	}

	rows := []T{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", t.key, err)
	}
	return rows, nil
}

func (t *RedisTable[T]) SaveAll(ctx context.Context, rows []T) error {
	if rows == nil {
		rows = []T{}
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode %s: %w", t.key, err)
	}
	if err := t.client.Set(ctx, t.key, data, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", t.key, err)
	}
	return nil
}
