package tokenstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis keeps the token under one key, for terminals that share a session.
type Redis struct {
	client *redis.Client
	key    string
}

type RedisOptions struct {
	Address  string
	Password string
	DB       int
	Key      string
}

func NewRedis(opts RedisOptions) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:     opts.Address,
			Password: opts.Password,
			DB:       opts.DB,
		}),
		key: opts.Key,
	}
}

func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}

func (r *Redis) Get(ctx context.Context) (string, error) {
	tok, err := r.client.Get(ctx, r.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("redis get token: %w", err)
	}
	if tok == "" {
		return "", ErrNoToken
	}
	return tok, nil
}

func (r *Redis) Set(ctx context.Context, token string) error {
	if err := r.client.Set(ctx, r.key, token, 0).Err(); err != nil {
		return fmt.Errorf("redis set token: %w", err)
	}
	return nil
}

func (r *Redis) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis clear token: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
