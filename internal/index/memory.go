package index

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"
)

var _ Reader = (*MemoryStore)(nil)

// MemoryStore is an in-process Reader holding hashes, sorted sets and sets.
// It backs tests and offline fixtures. Posting-list ties are ordered by
// descending member, matching Redis ZREVRANGE.
type MemoryStore struct {
	mu     sync.RWMutex
	hashes map[string]map[string]string
	zsets  map[string]map[string]float64
	sets   map[string]map[string]struct{}
	db     int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		hashes: make(map[string]map[string]string),
		zsets:  make(map[string]map[string]float64),
		sets:   make(map[string]map[string]struct{}),
	}
}

// WithDB makes Info report the keyspace under database db instead of 0.
func (m *MemoryStore) WithDB(db int) *MemoryStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.db = db
	return m
}

// HSet sets fields on the hash at key.
func (m *MemoryStore) HSet(key string, fields map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, exists := m.hashes[key]
	if !exists {
		h = make(map[string]string, len(fields))
		m.hashes[key] = h
	}
	for f, v := range fields {
		h[f] = v
	}
}

// ZAdd sets member's score in the sorted set at key.
func (m *MemoryStore) ZAdd(key, member string, score float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	z, exists := m.zsets[key]
	if !exists {
		z = make(map[string]float64)
		m.zsets[key] = z
	}
	z[member] = score
}

// SAdd adds members to the set at key.
func (m *MemoryStore) SAdd(key string, members ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, exists := m.sets[key]
	if !exists {
		s = make(map[string]struct{})
		m.sets[key] = s
	}
	for _, member := range members {
		s[member] = struct{}{}
	}
}

// AddDocument stores doc under its id and registers it in the posting list
// of every token with the given score. geohash, when not empty, puts the
// document in that bucket.
func (m *MemoryStore) AddDocument(doc Document, tokens map[string]float64, geohash string) {
	key := DocumentKey(doc["id"])
	m.HSet(key, doc)
	for token, score := range tokens {
		m.ZAdd(TokenKey(token), key, score)
	}
	if geohash != "" {
		m.SAdd(GeohashKey(geohash), key)
	}
}

func (m *MemoryStore) Hash(_ context.Context, key string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc := make(Document, len(m.hashes[key]))
	for f, v := range m.hashes[key] {
		doc[f] = v
	}
	return doc, nil
}

func (m *MemoryStore) Hashes(ctx context.Context, keys []string) ([]Document, error) {
	docs := make([]Document, 0, len(keys))
	for _, key := range keys {
		doc, _ := m.Hash(ctx, key)
		docs = append(docs, doc)
	}
	return docs, nil
}

func (m *MemoryStore) Score(_ context.Context, key, member string) (float64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	score, ok := m.zsets[key][member]
	return score, ok, nil
}

func (m *MemoryStore) MultiScore(ctx context.Context, member string, keys []string) ([]Score, error) {
	scores := make([]Score, 0, len(keys))
	for _, key := range keys {
		v, ok, _ := m.Score(ctx, key, member)
		scores = append(scores, Score{Value: v, Found: ok})
	}
	return scores, nil
}

func (m *MemoryStore) RevRank(_ context.Context, key, member string) (int64, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i, entry := range m.sortedLocked(key) {
		if entry.Member == member {
			return int64(i), true, nil
		}
	}
	return 0, false, nil
}

func (m *MemoryStore) RevRange(_ context.Context, key string, start, stop int64) ([]Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sorted := m.sortedLocked(key)
	n := int64(len(sorted))
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop {
		return []Member{}, nil
	}
	return sorted[start : stop+1], nil
}

func (m *MemoryStore) Card(_ context.Context, key string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.zsets[key])), nil
}

func (m *MemoryStore) Members(_ context.Context, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	members := make([]string, 0, len(m.sets[key]))
	for member := range m.sets[key] {
		members = append(members, member)
	}
	sort.Strings(members)
	return members, nil
}

func (m *MemoryStore) Union(_ context.Context, keys ...string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, key := range keys {
		for member := range m.sets[key] {
			seen[member] = struct{}{}
		}
	}
	members := make([]string, 0, len(seen))
	for member := range seen {
		members = append(members, member)
	}
	sort.Strings(members)
	return members, nil
}

func (m *MemoryStore) Type(_ context.Context, key string) (KeyType, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	switch {
	case m.hashes[key] != nil:
		return KeyTypeHash, nil
	case m.zsets[key] != nil:
		return KeyTypeZSet, nil
	case m.sets[key] != nil:
		return KeyTypeSet, nil
	default:
		return KeyTypeNone, nil
	}
}

// Info reports the key count under the store's database plus zeroed counters, enough for the
// fields the console prints.
func (m *MemoryStore) Info(_ context.Context) (ServerInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := len(m.hashes) + len(m.zsets) + len(m.sets)
	return ServerInfo{
		"keyspace_misses":            "0",
		"keyspace_hits":              "0",
		"used_memory_human":          "0B",
		"total_commands_processed":   "0",
		"total_connections_received": "1",
		"connected_clients":          "1",
		"db" + strconv.Itoa(m.db):    fmt.Sprintf("keys=%d,expires=0,avg_ttl=0", keys),
	}, nil
}

func (m *MemoryStore) sortedLocked(key string) []Member {
	z := m.zsets[key]
	result := make([]Member, 0, len(z))
	for member, score := range z {
		result = append(result, Member{Member: member, Score: score})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Score != result[j].Score {
			return result[i].Score > result[j].Score
		}
		return result[i].Member > result[j].Member
	})
	return result
}
