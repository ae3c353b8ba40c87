package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Hash fields an entry is stored under.
const (
	fieldBody        = "body"
	fieldContentType = "type"
	fieldETag        = "etag"
)

// Redis is a store shared by several server instances. Each entry is a
// Redis hash so the body is kept as raw bytes.
type Redis struct {
	client redis.UniversalClient
	opts   *redisOptions
}

// NewRedis creates a Redis-backed store. The client is usually obtained from
// pkg/redis.Open and is closed by the caller, not by Close.
//
//	client, err := redis.Open(ctx, cfg.RedisURL)
//	c := cache.NewRedis(client, cache.WithPrefix("locales"))
func NewRedis(client redis.UniversalClient, opts ...RedisOption) *Redis {
	o := defaultRedisOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Redis{client: client, opts: o}
}

func (r *Redis) Get(ctx context.Context, key string) (Entry, error) {
	fields, err := r.client.HGetAll(ctx, r.key(key)).Result()
	if err != nil {
		return Entry{}, err
	}
	if len(fields) == 0 {
		return Entry{}, ErrNotFound
	}

	body, ok := fields[fieldBody]
	if !ok || fields[fieldETag] == "" {
		return Entry{}, ErrCorrupt
	}

	return Entry{
		Body:        []byte(body),
		ContentType: fields[fieldContentType],
		ETag:        fields[fieldETag],
	}, nil
}

// Set writes the entry and its expiration in one transaction.
func (r *Redis) Set(ctx context.Context, key string, e Entry, ttl time.Duration) error {
	if ttl == 0 {
		ttl = r.opts.defaultTTL
	}

	k := r.key(key)
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, k)
		pipe.HSet(ctx, k,
			fieldBody, e.Body,
			fieldContentType, e.ContentType,
			fieldETag, e.ETag,
		)
		if ttl > 0 {
			pipe.PExpire(ctx, k, ttl)
		}
		return nil
	})
	return err
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.key(key)).Err()
}

func (r *Redis) Has(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, r.key(key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Clear removes every key under the prefix using SCAN, or flushes the
// database when no prefix is set.
func (r *Redis) Clear(ctx context.Context) error {
	if r.opts.prefix == "" {
		return r.client.FlushDB(ctx).Err()
	}

	iter := r.client.Scan(ctx, 0, r.opts.prefix+":*", 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := r.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return r.client.Del(ctx, batch...).Err()
	}
	return nil
}

// Close is a no-op; the client lifecycle belongs to the caller.
func (r *Redis) Close() error {
	return nil
}

func (r *Redis) key(key string) string {
	if r.opts.prefix == "" {
		return key
	}
	return r.opts.prefix + ":" + key
}

var _ Store = (*Redis)(nil)
