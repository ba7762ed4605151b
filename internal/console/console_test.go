package console_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"iter"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/geoindex-console/internal/console"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/internal/index"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/internal/mock"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/internal/text"
	apperrors "github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/tracing"
)

var epoch = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

type harness struct {
	store    *index.MemoryStore
	searcher *mock.Searcher
	out      *bytes.Buffer
	console  *console.Console
}

func newHarness(t *testing.T, mutate ...func(*console.Config)) *harness {
	t.Helper()

	h := &harness{
		store: index.NewMemoryStore(),
		searcher: &mock.Searcher{
			SearchFn: func(context.Context, string, console.SearchOptions) iter.Seq2[*index.Result, error] {
				return mock.Results()
			},
			ReverseFn: func(context.Context, float64, float64) iter.Seq2[*index.Result, error] {
				return mock.Results()
			},
		},
		out: &bytes.Buffer{},
	}
	cfg := console.Config{
		Index:     h.store,
		Searcher:  h.searcher,
		Tokenizer: text.NewTokenizer(nil),
		Out:       h.out,
		Now:       func() time.Time { return epoch },
	}
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := console.New(cfg)
	require.NoError(t, err)
	h.console = c
	return h
}

// run executes line and returns what it printed.
func (h *harness) run(t *testing.T, line string) (string, error) {
	t.Helper()
	h.out.Reset()
	_, err := h.console.Execute(context.Background(), line)
	return h.out.String(), err
}

func lilas() index.Document {
	return index.Document{
		"id":         "abc",
		"type":       "street",
		"name":       "rue des Lilas",
		"postcode":   "75019",
		"city":       "Paris",
		"context":    "Île-de-France",
		"lat":        "48.88",
		"lon":        "2.39",
		"importance": "0.5",
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("duplicate keyword is a configuration error", func(t *testing.T) {
		_, err := console.New(console.Config{
			Index:     index.NewMemoryStore(),
			Searcher:  &mock.Searcher{},
			Tokenizer: text.NewTokenizer(nil),
			Extras: []console.Command{{
				Name: "get",
				Run:  func(context.Context, console.Args) error { return nil },
			}},
		})
		require.ErrorIs(t, err, apperrors.ErrDuplicateCommand)
		assert.Equal(t, apperrors.KindConfiguration, apperrors.KindOf(err))
	})

	t.Run("missing collaborators", func(t *testing.T) {
		_, err := console.New(console.Config{})
		require.ErrorIs(t, err, apperrors.ErrMissingField)
	})

	t.Run("extra commands are dispatched", func(t *testing.T) {
		var got console.Args
		h := newHarness(t, func(c *console.Config) {
			c.Extras = []console.Command{{
				Name: "ping",
				Run: func(_ context.Context, args console.Args) error {
					got = args
					return nil
				},
			}}
		})
		_, err := h.run(t, "PING now")
		require.NoError(t, err)
		assert.Equal(t, console.Arg("now"), got)
	})
}

func TestExecute_BlankLine(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	for _, line := range []string{"", "   ", "\t"} {
		h.out.Reset()
		ran, err := h.console.Execute(context.Background(), line)
		require.NoError(t, err)
		assert.False(t, ran)
		assert.Empty(t, h.out.String())
	}
}

func TestExecute_UnknownCommand(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	out, err := h.run(t, "GETAWAY")
	require.ErrorIs(t, err, apperrors.ErrUnknownCommand)
	assert.Equal(t, "No command for GETAWAY\n", out)

	// the console keeps working
	out, err = h.run(t, "TOKENIZE ok")
	require.NoError(t, err)
	assert.Equal(t, "ok\n", out)
}

func TestSearch(t *testing.T) {
	t.Parallel()

	t.Run("fallback is equivalent to SEARCH", func(t *testing.T) {
		var queries []string
		h := newHarness(t)
		h.searcher.SearchFn = func(_ context.Context, q string, _ console.SearchOptions) iter.Seq2[*index.Result, error] {
			queries = append(queries, q)
			return mock.Results(index.NewResult("d|abc", lilas()))
		}

		implicit, err := h.run(t, "rue des lilas")
		require.NoError(t, err)
		explicit, err := h.run(t, "SEARCH rue des lilas")
		require.NoError(t, err)

		assert.Equal(t, explicit, implicit)
		assert.Equal(t, []string{"rue des lilas", "rue des lilas"}, queries)
		assert.Equal(t, "rue des Lilas 75019 Paris (0 | abc)\n(0.000000 seconds)\n", implicit)
	})

	t.Run("lower-case keyword is a query", func(t *testing.T) {
		var query string
		h := newHarness(t)
		h.searcher.SearchFn = func(_ context.Context, q string, _ console.SearchOptions) iter.Seq2[*index.Result, error] {
			query = q
			return mock.Results()
		}
		_, err := h.run(t, "get abc")
		require.NoError(t, err)
		assert.Equal(t, "get abc", query)
	})

	t.Run("center", func(t *testing.T) {
		var query string
		var opts console.SearchOptions
		h := newHarness(t)
		h.searcher.SearchFn = func(_ context.Context, q string, o console.SearchOptions) iter.Seq2[*index.Result, error] {
			query, opts = q, o
			r := index.NewResult("d|abc", lilas())
			r.Score = 1.25
			return mock.Results(r)
		}

		out, err := h.run(t, "lilas CENTER 48.1 2.9")
		require.NoError(t, err)
		assert.Equal(t, "lilas", query)
		require.NotNil(t, opts.Lat)
		require.NotNil(t, opts.Lon)
		assert.Equal(t, 48.1, *opts.Lat)
		assert.Equal(t, 2.9, *opts.Lon)
		assert.True(t, strings.HasPrefix(out, "rue des Lilas 75019 Paris (1.25 | abc)\n"))
	})

	t.Run("malformed center", func(t *testing.T) {
		called := false
		h := newHarness(t)
		h.searcher.SearchFn = func(context.Context, string, console.SearchOptions) iter.Seq2[*index.Result, error] {
			called = true
			return mock.Results()
		}
		for _, line := range []string{"lilas CENTER 48.1", "lilas CENTER north 2.9", "lilas CENTER 1 2 3"} {
			out, err := h.run(t, line)
			require.ErrorIs(t, err, apperrors.ErrMalformedInput, line)
			assert.Contains(t, out, "Malformed center")
		}
		assert.False(t, called)
	})

	t.Run("engine failure", func(t *testing.T) {
		h := newHarness(t)
		h.searcher.SearchFn = func(context.Context, string, console.SearchOptions) iter.Seq2[*index.Result, error] {
			return mock.Failure(errors.New("connection refused"))
		}
		out, err := h.run(t, "lilas")
		require.Error(t, err)
		assert.Equal(t, apperrors.KindCollaborator, apperrors.KindOf(err))
		assert.Contains(t, out, "connection refused")
	})
}

func TestExplain(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.searcher.SearchFn = func(ctx context.Context, _ string, _ console.SearchOptions) iter.Seq2[*index.Result, error] {
		_, span := tracing.StartChildSpan(ctx, "candidates")
		span.SetAttr("bucket", 3)
		span.End()
		return mock.Results(index.NewResult("d|abc", lilas()))
	}

	out, err := h.run(t, "EXPLAIN rue des lilas")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "rue des Lilas 75019 Paris (0 | abc)", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "EXPLAIN ("))
	assert.Contains(t, lines[1], "query=rue des lilas")
	assert.True(t, strings.HasPrefix(lines[2], "  candidates ("))
	assert.Contains(t, lines[2], "bucket=3")
	assert.Equal(t, "(0.000000 seconds)", lines[3])
}

func TestTokenize(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	out, err := h.run(t, "TOKENIZE Rue des Lilas, Évry")
	require.NoError(t, err)
	assert.Equal(t, "rue des lilas evry\n", out)

	out, err = h.run(t, "TOKENIZE")
	require.NoError(t, err)
	assert.Equal(t, "\n", out)
}

func TestGet(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	doc := lilas()
	doc[index.HousenumberField("11")] = "48.8801|2.3902"
	doc[index.HousenumberField("3bis")] = "48.8799|2.3899"
	h.store.HSet(index.DocumentKey("abc"), doc)

	out, err := h.run(t, "GET abc")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"city Paris",
		"context Île-de-France",
		"id abc",
		"importance 0.5",
		"lat 48.88",
		"lon 2.39",
		"name rue des Lilas",
		"postcode 75019",
		"type street",
		"housenumbers {h|11: 48.8801|2.3902, h|3bis: 48.8799|2.3899}",
	}, "\n")+"\n", out)

	t.Run("no housenumbers line without housenumbers", func(t *testing.T) {
		h := newHarness(t)
		h.store.HSet(index.DocumentKey("abc"), lilas())
		out, err := h.run(t, "GET abc")
		require.NoError(t, err)
		assert.NotContains(t, out, "housenumbers")
	})

	t.Run("missing document prints nothing", func(t *testing.T) {
		out, err := h.run(t, "GET nope")
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("absent argument", func(t *testing.T) {
		_, err := h.run(t, "GET")
		require.ErrorIs(t, err, apperrors.ErrMalformedInput)
	})
}

func TestFrequency(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.store.ZAdd(index.TokenKey("lilas"), "d|1", 1)
	h.store.ZAdd(index.TokenKey("lilas"), "d|2", 1)
	h.store.ZAdd(index.TokenKey("paris"), "d|1", 1)

	out, err := h.run(t, "FREQUENCY Lilas")
	require.NoError(t, err)
	assert.Equal(t, "2\n", out)

	// only the first token counts
	out, err = h.run(t, "FREQUENCY paris lilas")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	out, err = h.run(t, "FREQUENCY unknown")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)

	_, err = h.run(t, "FREQUENCY ,;")
	require.ErrorIs(t, err, apperrors.ErrMalformedInput)
}

func TestAutocomplete(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.store.SAdd(index.EdgeNgramKey("lil"), "lille", "lilas")

	out, err := h.run(t, "AUTOCOMPLETE lil des")
	require.NoError(t, err)
	assert.Equal(t, "[lilas, lille]\n(2 elements)\n", out)

	out, err = h.run(t, "AUTOCOMPLETE zzz")
	require.NoError(t, err)
	assert.Equal(t, "[]\n(0 elements)\n", out)
}

func TestIndex(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	doc := lilas()
	key := index.DocumentKey("abc")
	h.store.HSet(key, doc)
	h.store.ZAdd(index.TokenKey("lilas"), key, 0.75)
	h.store.ZAdd(index.TokenKey("lilas"), "d|other", 0.9)
	h.store.ZAdd(index.TokenKey("paris"), key, 0.5)

	out, err := h.run(t, "INDEX abc")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"rue - -",
		"des - -",
		"lilas 0.75 1",
		"75019 - -",
		"paris 0.5 0",
		"ile - -",
		"de - -",
		"france - -",
	}, "\n")+"\n", out)

	t.Run("missing field", func(t *testing.T) {
		h := newHarness(t)
		partial := lilas()
		delete(partial, "context")
		h.store.HSet(index.DocumentKey("abc"), partial)

		out, err := h.run(t, "INDEX abc")
		require.ErrorIs(t, err, apperrors.ErrMissingField)
		assert.Contains(t, out, "paris - -\n")
		assert.Contains(t, out, "document abc has no context")
	})
}

func TestBestScore(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	for i := range 30 {
		id := "doc" + strconv.Itoa(i)
		key := index.DocumentKey(id)
		h.store.HSet(key, index.Document{"id": id, "name": "Lilas" + strconv.Itoa(i)})
		h.store.ZAdd(index.TokenKey("lilas"), key, float64(i%7)/10)
	}

	out, err := h.run(t, "BESTSCORE lilas")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 21)

	prev := 1.0
	for _, line := range lines {
		fields := strings.Fields(line)
		require.Len(t, fields, 3, line)
		score, err := strconv.ParseFloat(fields[1], 64)
		require.NoError(t, err)
		assert.LessOrEqual(t, score, prev)
		prev = score
		assert.Equal(t, "Lilas"+strings.TrimPrefix(fields[2], "doc"), fields[0])
	}

	out, err = h.run(t, "BESTSCORE nothing")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestReverse(t *testing.T) {
	t.Parallel()

	var gotLat, gotLon float64
	h := newHarness(t)
	h.searcher.ReverseFn = func(_ context.Context, lat, lon float64) iter.Seq2[*index.Result, error] {
		gotLat, gotLon = lat, lon
		r := index.NewResult("d|abc", lilas())
		r.Score, r.Distance = 0.09, 0.25
		return mock.Results(r)
	}

	out, err := h.run(t, "REVERSE 48.1234 2.9876")
	require.NoError(t, err)
	assert.Equal(t, 48.1234, gotLat)
	assert.Equal(t, 2.9876, gotLon)
	assert.Equal(t, "rue des Lilas 75019 Paris (0.09 | 0.25 km | abc)\n", out)

	for _, line := range []string{"REVERSE", "REVERSE 48.1", "REVERSE a b"} {
		_, err := h.run(t, line)
		require.ErrorIs(t, err, apperrors.ErrMalformedInput, line)
	}
}

func TestPair(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.store.SAdd(index.PairKey("lilas"), "rue", "des", "porte")

	out, err := h.run(t, "PAIR Lilas")
	require.NoError(t, err)
	assert.Equal(t, "[des, porte, rue]\n(Total: 3)\n", out)
}

func TestDistance(t *testing.T) {
	t.Parallel()

	var calls [][2]string
	h := newHarness(t, func(c *console.Config) {
		c.Compare = func(a, b string) float64 {
			calls = append(calls, [2]string{a, b})
			return 0.5
		}
	})

	for _, line := range []string{"DISTANCE", "DISTANCE rue des lilas", "DISTANCE a|b|c"} {
		out, err := h.run(t, line)
		require.ErrorIs(t, err, apperrors.ErrMalformedInput, line)
		assert.Equal(t, "Malformed string. Use | between the two strings.\n", out)
	}
	assert.Empty(t, calls)

	out, err := h.run(t, "DISTANCE rue des lilas|porte des lilas")
	require.NoError(t, err)
	assert.Equal(t, "0.5\n", out)
	assert.Equal(t, [][2]string{{"rue des lilas", "porte des lilas"}}, calls)
}

func TestDistance_DefaultCompare(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	out, err := h.run(t, "DISTANCE lilas|Lilas")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)
}

func TestDBInfo(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.store.HSet(index.DocumentKey("abc"), lilas())
	h.store.ZAdd(index.TokenKey("lilas"), "d|abc", 1)

	out, err := h.run(t, "DBINFO")
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{
		"keyspace_misses: 0",
		"keyspace_hits: 0",
		"used_memory_human: 0B",
		"total_commands_processed: 0",
		"total_connections_received: 1",
		"connected_clients: 1",
		"nb keys: 2",
	}, "\n")+"\n", out)

	t.Run("keys of the configured database", func(t *testing.T) {
		store := index.NewMemoryStore().WithDB(3)
		store.SAdd(index.GeohashKey("u09tyzf"), "d|abc")

		h := newHarness(t, func(c *console.Config) {
			c.Index = store
			c.DB = 3
		})
		out, err := h.run(t, "DBINFO")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(out, "nb keys: 1\n"))

		h = newHarness(t, func(c *console.Config) {
			c.Index = store
			c.DB = 0
		})
		out, err = h.run(t, "DBINFO")
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(out, "nb keys: 0\n"))
	})

	t.Run("store failure", func(t *testing.T) {
		h := newHarness(t, func(c *console.Config) {
			c.Index = &mock.Index{InfoFn: func(context.Context) (index.ServerInfo, error) {
				return nil, errors.New("i/o timeout")
			}}
		})
		out, err := h.run(t, "DBINFO")
		require.Error(t, err)
		assert.Equal(t, "reading server info: i/o timeout\n", out)
	})
}

func TestDBKey(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.store.SAdd(index.GeohashKey("u09tyzf"), "d|b", "d|a")
	h.store.HSet(index.DocumentKey("abc"), index.Document{"name": "x", "city": "y"})
	h.store.ZAdd(index.TokenKey("lilas"), "d|a", 1)

	tests := map[string]string{
		"DBKEY g|u09tyzf": "type: set\nvalue: [d|a, d|b]\n",
		"DBKEY d|abc":     "type: hash\nvalue: {city: y, name: x}\n",
		"DBKEY w|lilas":   "type: zset\nvalue: Unsupported type zset\n",
		"DBKEY nothing":   "type: none\nvalue: \n",
	}
	for line, want := range tests {
		out, err := h.run(t, line)
		require.NoError(t, err, line)
		assert.Equal(t, want, out, line)
	}
}

func TestGeoDistance(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	h.store.HSet(index.DocumentKey("abc"), lilas())

	out, err := h.run(t, "GEODISTANCE abc 48.88 2.39")
	require.NoError(t, err)
	assert.Equal(t, "km: 0 | score: 0.1\n", out)

	out, err = h.run(t, "GEODISTANCE abc 48.88 4")
	require.NoError(t, err)
	assert.Regexp(t, `^km: 117\.\d+ \| score: 0\n$`, out)

	for _, line := range []string{"GEODISTANCE abc 48.88", "GEODISTANCE abc x 2.39", "GEODISTANCE"} {
		out, err := h.run(t, line)
		require.ErrorIs(t, err, apperrors.ErrMalformedInput, line)
		assert.Equal(t, "Malformed query. Use: ID lat lon\n", out)
	}

	_, err = h.run(t, "GEODISTANCE missing 48.88 2.39")
	require.Error(t, err)
}

func TestGeohashToGeoJSON(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	out, err := h.run(t, "GEOHASHTOGEOJSON u09vej04")
	require.NoError(t, err)

	var polygon struct {
		Type        string         `json:"type"`
		Coordinates [][][2]float64 `json:"coordinates"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &polygon))
	assert.Equal(t, "Polygon", polygon.Type)
	require.Len(t, polygon.Coordinates, 1)
	ring := polygon.Coordinates[0]
	require.Len(t, ring, 5)
	assert.Equal(t, ring[0], ring[4])

	w, n := ring[0][0], ring[0][1]
	assert.Equal(t, [2]float64{ring[1][0], n}, ring[1])
	e, s := ring[2][0], ring[2][1]
	assert.Equal(t, [2]float64{e, n}, ring[1])
	assert.Equal(t, [2]float64{w, s}, ring[3])
	assert.Less(t, w, e)
	assert.Less(t, s, n)

	for _, line := range []string{"GEOHASHTOGEOJSON u09vej0a", "GEOHASHTOGEOJSON"} {
		_, err := h.run(t, line)
		require.ErrorIs(t, err, apperrors.ErrInvalidGeohash, line)
	}
}

func TestHelp(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	out, err := h.run(t, "HELP")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	keywords := h.console.Registry().Keywords()
	require.Len(t, lines, len(keywords))
	for i, kw := range keywords {
		assert.True(t, strings.HasPrefix(lines[i], kw), lines[i])
		assert.NotContains(t, lines[i], "\t")
	}
	assert.Contains(t, out, "REVERSE Do a reverse search. Args: lat lon. REVERSE 48.1234 2.9876\n")
}

func TestHistoryCommand(t *testing.T) {
	t.Parallel()

	t.Run("disabled", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.run(t, "HISTORY")
		require.ErrorIs(t, err, apperrors.ErrStoreUnavailable)
	})

	t.Run("last lines", func(t *testing.T) {
		hist := openHistory(t, "a", "b", "c")
		h := newHarness(t, func(c *console.Config) { c.History = hist })
		hist.Add("d")

		out, err := h.run(t, "HISTORY 2")
		require.NoError(t, err)
		assert.Equal(t, "    3 c\n    4 d\n", out)

		out, err = h.run(t, "HISTORY")
		require.NoError(t, err)
		assert.Equal(t, 4, strings.Count(out, "\n"))

		_, err = h.run(t, "HISTORY -1")
		require.ErrorIs(t, err, apperrors.ErrMalformedInput)
	})
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	h := newHarness(t, func(c *console.Config) { c.Metrics = m })

	h.run(t, "GET abc")
	h.run(t, "GETAWAY")
	h.run(t, "DISTANCE nope")
	h.run(t, "lilas")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommandsTotal.WithLabelValues("GET", metrics.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommandsTotal.WithLabelValues("UNKNOWN", metrics.OutcomeUnknownAction)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommandsTotal.WithLabelValues("DISTANCE", metrics.OutcomeUserError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CommandsTotal.WithLabelValues("SEARCH", metrics.OutcomeOK)))
}

func TestAudit(t *testing.T) {
	t.Parallel()

	var events []console.AuditEvent
	h := newHarness(t, func(c *console.Config) {
		c.Auditor = &mock.Auditor{RecordFn: func(_ context.Context, e console.AuditEvent) error {
			events = append(events, e)
			return errors.New("broker down")
		}}
	})

	_, err := h.run(t, "TOKENIZE lilas")
	require.NoError(t, err, "audit failures never fail the command")
	_, err = h.run(t, "DISTANCE x")
	require.Error(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, "TOKENIZE", events[0].Command)
	assert.Equal(t, "lilas", events[0].Argument)
	assert.Equal(t, metrics.OutcomeOK, events[0].Outcome)
	assert.Equal(t, h.console.SessionID(), events[0].SessionID)
	assert.Equal(t, epoch, events[0].At)
	assert.Equal(t, metrics.OutcomeUserError, events[1].Outcome)
}

func TestColor(t *testing.T) {
	t.Parallel()

	h := newHarness(t, func(c *console.Config) { c.Color = true })
	out, err := h.run(t, "TOKENIZE lilas")
	require.NoError(t, err)
	assert.Equal(t, "\033[37mlilas\033[39m\n", out)
}
