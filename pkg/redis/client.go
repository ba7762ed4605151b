// Package redis provides a thin read-only wrapper around go-redis/v9 that
// implements index.Reader: hashes, sorted sets, sets, key types and server
// info, with pipelining for batch lookups.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Adithya-Monish-Kumar-K/geoindex-console/internal/index"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/errors"
	"github.com/redis/go-redis/v9"
)

var _ index.Reader = (*Client)(nil)

// Client wraps a go-redis client.
type Client struct {
	rdb *redis.Client
}

// NewClient creates a Redis client and verifies the connection with a PING.
func NewClient(cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		ReadTimeout: cfg.ReadTimeout,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("%w: redis ping failed: %w", apperrors.ErrStoreUnavailable, err)
	}
	return &Client{rdb: rdb}, nil
}

// New wraps an already configured go-redis client.
func New(rdb *redis.Client) *Client {
	return &Client{rdb: rdb}
}

// Hash returns every field of the hash at key; a missing key yields an empty
// document.
func (c *Client) Hash(ctx context.Context, key string) (index.Document, error) {
	fields, err := c.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", key, err)
	}
	return index.Document(fields), nil
}

// Hashes loads several hashes in one pipeline, preserving order.
func (c *Client) Hashes(ctx context.Context, keys []string) ([]index.Document, error) {
	cmds := make([]*redis.MapStringStringCmd, len(keys))
	_, err := c.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, key := range keys {
			cmds[i] = pipe.HGetAll(ctx, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("pipelined hgetall (%d keys): %w", len(keys), err)
	}
	docs := make([]index.Document, len(keys))
	for i, cmd := range cmds {
		docs[i] = index.Document(cmd.Val())
	}
	return docs, nil
}

// Score returns member's score in the sorted set at key.
func (c *Client) Score(ctx context.Context, key, member string) (float64, bool, error) {
	score, err := c.rdb.ZScore(ctx, key, member).Result()
	if IsNilError(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("zscore %s %s: %w", key, member, err)
	}
	return score, true, nil
}

// MultiScore pipelines one ZSCORE per key.
func (c *Client) MultiScore(ctx context.Context, member string, keys []string) ([]index.Score, error) {
	cmds := make([]*redis.FloatCmd, len(keys))
	_, err := c.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, key := range keys {
			cmds[i] = pipe.ZScore(ctx, key, member)
		}
		return nil
	})
	if err != nil && !IsNilError(err) {
		return nil, fmt.Errorf("pipelined zscore %s: %w", member, err)
	}
	scores := make([]index.Score, len(keys))
	for i, cmd := range cmds {
		v, err := cmd.Result()
		switch {
		case IsNilError(err):
		case err != nil:
			return nil, fmt.Errorf("zscore %s %s: %w", keys[i], member, err)
		default:
			scores[i] = index.Score{Value: v, Found: true}
		}
	}
	return scores, nil
}

// RevRank returns member's 0-based position by descending score.
func (c *Client) RevRank(ctx context.Context, key, member string) (int64, bool, error) {
	rank, err := c.rdb.ZRevRank(ctx, key, member).Result()
	if IsNilError(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("zrevrank %s %s: %w", key, member, err)
	}
	return rank, true, nil
}

// RevRange returns the entries between start and stop by descending score.
func (c *Client) RevRange(ctx context.Context, key string, start, stop int64) ([]index.Member, error) {
	zs, err := c.rdb.ZRevRangeWithScores(ctx, key, start, stop).Result()
	if err != nil {
		return nil, fmt.Errorf("zrevrange %s: %w", key, err)
	}
	members := make([]index.Member, 0, len(zs))
	for _, z := range zs {
		members = append(members, index.Member{Member: toString(z.Member), Score: z.Score})
	}
	return members, nil
}

// Card returns the cardinality of the sorted set at key.
func (c *Client) Card(ctx context.Context, key string) (int64, error) {
	n, err := c.rdb.ZCard(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("zcard %s: %w", key, err)
	}
	return n, nil
}

// Members returns the members of the set at key.
func (c *Client) Members(ctx context.Context, key string) ([]string, error) {
	members, err := c.rdb.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", key, err)
	}
	return members, nil
}

// Union returns the union of the sets at keys.
func (c *Client) Union(ctx context.Context, keys ...string) ([]string, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	members, err := c.rdb.SUnion(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("sunion (%d keys): %w", len(keys), err)
	}
	return members, nil
}

// Type returns the native type of key ("none" when absent).
func (c *Client) Type(ctx context.Context, key string) (index.KeyType, error) {
	t, err := c.rdb.Type(ctx, key).Result()
	if err != nil {
		return "", fmt.Errorf("type %s: %w", key, err)
	}
	return index.KeyType(t), nil
}

// Info fetches and parses the default INFO sections.
func (c *Client) Info(ctx context.Context) (index.ServerInfo, error) {
	raw, err := c.rdb.Info(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: info: %w", apperrors.ErrStoreUnavailable, err)
	}
	return index.ParseInfo(raw), nil
}

// IsNilError reports whether err is a Redis nil (key-not-found) error.
func IsNilError(err error) bool {
	return errors.Is(err, redis.Nil)
}

// Close closes the underlying Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping sends a PING to Redis and returns any error.
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func toString(v any) string {
	switch m := v.(type) {
	case string:
		return m
	case []byte:
		return string(m)
	default:
		return fmt.Sprint(m)
	}
}
