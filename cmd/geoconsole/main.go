package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/Adithya-Monish-Kumar-K/geoindex-console/internal/console"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/internal/history"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/internal/search"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/internal/text"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/postgres"
	pkgredis "github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/resilience"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	m := NewMain()
	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// NewReader builds the interactive line reader. Tests replace it.
	NewReader func(registry *console.Registry) console.LineReader

	closers []func() error
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		NewReader: func(registry *console.Registry) console.LineReader {
			return console.NewTerminal(registry)
		},
	}
}

// Close releases every resource opened by Run, last opened first.
func (m *Main) Close() error {
	var firstErr error
	for _, closer := range slices.Backward(m.closers) {
		if err := closer(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.closers = nil
	return firstErr
}

// Run parses args, connects to the index and runs the console until the
// user leaves.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("geoconsole"),
		kong.Description("Interactive diagnostic console for a Redis geospatial index."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}
	if slices.Contains(args, "--help") || slices.Contains(args, "-h") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}
	if _, err := parser.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cli.apply(cfg)
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format, stderr)
	defer m.Close()

	rdb, err := pkgredis.NewClient(cfg.Redis)
	if err != nil {
		fmt.Fprintf(stderr, "Hint: use --redis-addr or GC_REDIS_ADDR to reach another index\n")
		return fmt.Errorf("failed to connect to index at %s: %w", cfg.Redis.Addr, err)
	}
	m.closers = append(m.closers, rdb.Close)
	slog.Info("connected to index", "addr", cfg.Redis.Addr, "db", cfg.Redis.DB)

	tok := text.NewTokenizer(cfg.Search.StopWords)
	engine := search.NewEngine(rdb, tok, cfg.Search)

	hist := m.openHistory(ctx, cfg, cli.Operator)

	var auditor console.Auditor
	if cfg.Audit.Enabled {
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.AuditTopic)
		m.closers = append(m.closers, producer.Close)
		breaker := resilience.NewBreaker("audit", resilience.Config{
			Threshold: cfg.Audit.BreakerThreshold,
			Cooldown:  cfg.Audit.BreakerCooldown,
		})
		auditor = console.NewKafkaAuditor(producer, cfg.Audit.Timeout, breaker)
		slog.Info("audit trail enabled", "topic", cfg.Kafka.AuditTopic)
	}

	var met *metrics.Metrics
	if cfg.Metrics.Enabled {
		met = metrics.New()
		checker := health.NewChecker(cfg.Redis.ReadTimeout)
		checker.Register("index", rdb.Ping)
		shutdown := met.StartServer(cfg.Metrics.Port,
			metrics.Route{Pattern: "GET /health/ready", Handler: checker.Handler()})
		m.closers = append(m.closers, func() error {
			return shutdown(context.WithoutCancel(ctx))
		})
	}

	c, err := console.New(console.Config{
		Index:     rdb,
		Searcher:  engine,
		Tokenizer: tok,
		History:   hist,
		Auditor:   auditor,
		Metrics:   met,
		DB:        cfg.Redis.DB,
		Out:       stdout,
		Color:     !cli.NoColor && isTerminal(stdout),
	})
	if err != nil {
		return fmt.Errorf("failed to build console: %w", err)
	}

	reader := m.NewReader(c.Registry())
	m.closers = append(m.closers, reader.Close)

	slog.Debug("console started", "session_id", c.SessionID())
	return console.NewShell(c, reader).Run(ctx)
}

// openHistory opens the configured history store. A store that cannot be
// opened leaves the session without history rather than failing it.
func (m *Main) openHistory(ctx context.Context, cfg *config.Config, operator string) *history.History {
	var store history.Store
	switch cfg.History.Driver {
	case config.HistoryDriverPostgres:
		db, err := postgres.New(ctx, cfg.Postgres)
		if err != nil {
			slog.Warn("history disabled", "driver", cfg.History.Driver, "error", err)
			return nil
		}
		pgStore, err := history.NewPostgresStore(ctx, db, operator)
		if err != nil {
			db.Close()
			slog.Warn("history disabled", "driver", cfg.History.Driver, "error", err)
			return nil
		}
		store = pgStore
	default:
		boltStore, err := history.OpenBolt(cfg.History.Path)
		if err != nil {
			slog.Warn("history disabled", "driver", cfg.History.Driver, "error", err)
			return nil
		}
		store = boltStore
	}

	hist, err := history.Open(ctx, store)
	if err != nil {
		store.Close()
		slog.Warn("history disabled", "driver", cfg.History.Driver, "error", err)
		return nil
	}
	return hist
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && console.IsTerminal(f)
}
