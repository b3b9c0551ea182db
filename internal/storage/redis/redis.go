package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/ontology-client/internal/storage"
	rdb "github.com/redis/go-redis/v9"
)

type Options struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type Store struct {
	c      rdb.UniversalClient
	prefix string
}

func New(opts Options) *Store {
	return NewWithClient(rdb.NewClient(&rdb.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), opts.Prefix)
}

func NewWithClient(c rdb.UniversalClient, prefix string) *Store {
	return &Store{c: c, prefix: prefix}
}

func (r *Store) key(k string) string { return r.prefix + k }

func (r *Store) Get(ctx context.Context, key string) (string, error) {
	v, err := r.c.Get(ctx, r.key(key)).Result()
	if errors.Is(err, rdb.Nil) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

func (r *Store) Set(ctx context.Context, key, value string) error {
	if err := r.c.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (r *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	prefixed := make([]string, len(keys))
	for i, k := range keys {
		prefixed[i] = r.key(k)
	}
	if err := r.c.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

// SetMany writes every entry inside MULTI/EXEC.
func (r *Store) SetMany(ctx context.Context, entries map[string]string) error {
	_, err := r.c.TxPipelined(ctx, func(pipe rdb.Pipeliner) error {
		for k, v := range entries {
			pipe.Set(ctx, r.key(k), v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis multi set: %w", err)
	}
	return nil
}

func (r *Store) Ping(ctx context.Context) error { return r.c.Ping(ctx).Err() }

func (r *Store) Close() error { return r.c.Close() }
