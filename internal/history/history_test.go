package history_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/Adithya-Monish-Kumar-K/geoindex-console/internal/history"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory_BoltAcrossLifetimes(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.db")

	// first lifetime: database file does not exist yet
	store, err := history.OpenBolt(path)
	require.NoError(t, err)
	h, err := history.Open(ctx, store)
	require.NoError(t, err)
	assert.Empty(t, h.Entries())

	h.Add("GET 772210180J")
	h.Add("rue des lilas")
	h.Add("")
	require.NoError(t, h.Flush(ctx))

	// second lifetime sees the first in order and adds to it
	store, err = history.OpenBolt(path)
	require.NoError(t, err)
	h, err = history.Open(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, []string{"GET 772210180J", "rue des lilas"}, h.Entries())

	h.Add("PAIR lilas")
	require.NoError(t, h.Flush(ctx))

	// third lifetime: no duplication of earlier lines
	store, err = history.OpenBolt(path)
	require.NoError(t, err)
	h, err = history.Open(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, []string{"GET 772210180J", "rue des lilas", "PAIR lilas"}, h.Entries())
	require.NoError(t, h.Flush(ctx))
}

func TestHistory_Last(t *testing.T) {
	t.Parallel()

	h, err := history.Open(context.Background(), &memStore{lines: []string{"a", "b"}})
	require.NoError(t, err)
	h.Add("c")

	assert.Equal(t, []string{"b", "c"}, h.Last(2))
	assert.Equal(t, []string{"a", "b", "c"}, h.Last(10))
}

func TestHistory_Flush(t *testing.T) {
	t.Parallel()

	t.Run("store error is reported and store still closed", func(t *testing.T) {
		store := &memStore{appendErr: errors.New("disk full")}
		h, err := history.Open(context.Background(), store)
		require.NoError(t, err)
		h.Add("GET x")

		err = h.Flush(context.Background())
		require.ErrorContains(t, err, "disk full")
		assert.True(t, store.closed)
	})

	t.Run("second flush fails", func(t *testing.T) {
		h, err := history.Open(context.Background(), &memStore{})
		require.NoError(t, err)
		require.NoError(t, h.Flush(context.Background()))
		require.ErrorIs(t, h.Flush(context.Background()), history.ErrClosed)
	})

	t.Run("load error", func(t *testing.T) {
		_, err := history.Open(context.Background(), &memStore{loadErr: errors.New("corrupt")})
		require.ErrorContains(t, err, "corrupt")
	})
}

func TestPostgresStore(t *testing.T) {
	cfg := config.PostgresConfig{
		Host:            envOrDefault("TEST_POSTGRES_HOST", "localhost"),
		Port:            envOrDefaultInt("TEST_POSTGRES_PORT", 5432),
		Database:        envOrDefault("TEST_POSTGRES_DB", "geoconsole_test"),
		User:            envOrDefault("TEST_POSTGRES_USER", "geoconsole"),
		Password:        envOrDefault("TEST_POSTGRES_PASSWORD", "localdev"),
		SSLMode:         "disable",
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	}
	ctx := context.Background()
	operator := "test-" + strconv.FormatInt(time.Now().UnixNano(), 36)

	open := func() *history.History {
		db, err := postgres.New(ctx, cfg)
		if err != nil {
			t.Skipf("skipping integration test: postgres unavailable: %v", err)
		}
		store, err := history.NewPostgresStore(ctx, db, operator)
		require.NoError(t, err)
		h, err := history.Open(ctx, store)
		require.NoError(t, err)
		return h
	}

	h := open()
	h.Add("DBINFO")
	h.Add("GET abc")
	require.NoError(t, h.Flush(ctx))

	h = open()
	assert.Equal(t, []string{"DBINFO", "GET abc"}, h.Entries())
	require.NoError(t, h.Flush(ctx))
}

type memStore struct {
	lines     []string
	loadErr   error
	appendErr error
	closed    bool
}

func (s *memStore) Load(context.Context) ([]string, error) { return s.lines, s.loadErr }

func (s *memStore) Append(_ context.Context, lines []string) error {
	if s.appendErr != nil {
		return s.appendErr
	}
	s.lines = append(s.lines, lines...)
	return nil
}

func (s *memStore) Close() error {
	s.closed = true
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
