package index

import (
	"context"
	"strconv"
	"strings"
)

// KeyType is the native type of a raw store key.
type KeyType string

const (
	KeyTypeNone KeyType = "none"
	KeyTypeSet  KeyType = "set"
	KeyTypeHash KeyType = "hash"
	KeyTypeZSet KeyType = "zset"
)

// Member is one entry of a posting list.
type Member struct {
	Member string
	Score  float64
}

// Score is a posting-list score lookup that may miss.
type Score struct {
	Value float64
	Found bool
}

// Reader is the read-only view of the index store. Implementations decode
// every value to text and report absent members through the Found/ok
// results rather than errors.
type Reader interface {
	Hash(ctx context.Context, key string) (Document, error)
	Hashes(ctx context.Context, keys []string) ([]Document, error)
	Score(ctx context.Context, key, member string) (float64, bool, error)
	// MultiScore looks up member in each of keys, in order.
	MultiScore(ctx context.Context, member string, keys []string) ([]Score, error)
	RevRank(ctx context.Context, key, member string) (int64, bool, error)
	// RevRange returns entries start..stop (inclusive) by descending score.
	RevRange(ctx context.Context, key string, start, stop int64) ([]Member, error)
	Card(ctx context.Context, key string) (int64, error)
	Members(ctx context.Context, key string) ([]string, error)
	Union(ctx context.Context, keys ...string) ([]string, error)
	Type(ctx context.Context, key string) (KeyType, error)
	Info(ctx context.Context) (ServerInfo, error)
}

// ServerInfo is the flattened key/value view of the store's INFO output.
type ServerInfo map[string]string

// ParseInfo reads the "field:value" lines of a Redis INFO reply. Section
// headers and blank lines are skipped.
func ParseInfo(raw string) ServerInfo {
	info := make(ServerInfo)
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		field, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		info[field] = value
	}
	return info
}

// Keyspace parses the dbN entry ("keys=12,expires=0,avg_ttl=0").
func (s ServerInfo) Keyspace(db int) map[string]string {
	out := make(map[string]string)
	raw, ok := s["db"+strconv.Itoa(db)]
	if !ok {
		return out
	}
	for _, pair := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if ok {
			out[k] = v
		}
	}
	return out
}
