// Package console implements the interactive diagnostic console of the
// geospatial index: the command registry, the line dispatcher, the
// introspection commands and the read loop around them.
//
// The console reads the index through the narrow Index, Searcher and
// Tokenizer interfaces below and writes human-readable text to a single
// output stream. One line runs to completion before the next is read.
package console

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/Adithya-Monish-Kumar-K/geoindex-console/internal/history"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/internal/index"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/internal/search"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/internal/text"
	apperrors "github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/metrics"
)

// Index is the read-only store view used by the introspection commands.
// Misses are reported through empty values or ok flags, never errors.
type Index interface {
	Hash(ctx context.Context, key string) (index.Document, error)
	Hashes(ctx context.Context, keys []string) ([]index.Document, error)
	Score(ctx context.Context, key, member string) (float64, bool, error)
	RevRank(ctx context.Context, key, member string) (int64, bool, error)
	RevRange(ctx context.Context, key string, start, stop int64) ([]index.Member, error)
	Card(ctx context.Context, key string) (int64, error)
	Members(ctx context.Context, key string) ([]string, error)
	Type(ctx context.Context, key string) (index.KeyType, error)
	Info(ctx context.Context) (index.ServerInfo, error)
}

// SearchOptions carries the optional center of a forward search.
type SearchOptions = search.Options

// Searcher runs forward and reverse geocoding. Verbose tracing is requested
// by placing a root span in ctx.
type Searcher interface {
	Search(ctx context.Context, query string, opts SearchOptions) iter.Seq2[*index.Result, error]
	Reverse(ctx context.Context, lat, lon float64) iter.Seq2[*index.Result, error]
}

// Tokenizer splits text into index tokens.
type Tokenizer interface {
	Tokenize(text string) iter.Seq[string]
}

// Config wires a Console to its collaborators. Index, Searcher and
// Tokenizer are required.
type Config struct {
	Index     Index
	Searcher  Searcher
	Tokenizer Tokenizer
	// Compare scores two strings in [0, 1]. Defaults to text.CompareNgrams.
	Compare func(a, b string) float64
	// History backs the HISTORY command and the shell. Optional.
	History *history.History
	Auditor Auditor
	Metrics *metrics.Metrics
	// DB is the store database whose key count DBINFO reports.
	DB     int
	Out    io.Writer
	Color  bool
	Now    func() time.Time
	Extras []Command
}

// Console owns the command registry and runs input lines against it.
type Console struct {
	index      Index
	searcher   Searcher
	tok        Tokenizer
	compare    func(a, b string) float64
	history    *history.History
	auditor    Auditor
	metrics    *metrics.Metrics
	db         int
	now        func() time.Time
	out        *printer
	registry   *Registry
	dispatcher *Dispatcher
	sessionID  string
	logger     *slog.Logger
}

// New builds a Console and its registry. A duplicate keyword among the
// built-in and extra commands fails with ErrDuplicateCommand.
func New(cfg Config) (*Console, error) {
	if cfg.Index == nil || cfg.Searcher == nil || cfg.Tokenizer == nil {
		return nil, apperrors.New(apperrors.ErrMissingField, apperrors.KindConfiguration,
			"console needs an index, a searcher and a tokenizer")
	}
	c := &Console{
		index:     cfg.Index,
		searcher:  cfg.Searcher,
		tok:       cfg.Tokenizer,
		compare:   cfg.Compare,
		history:   cfg.History,
		auditor:   cfg.Auditor,
		metrics:   cfg.Metrics,
		db:        cfg.DB,
		now:       cfg.Now,
		out:       &printer{w: cfg.Out, color: cfg.Color},
		sessionID: uuid.NewString(),
		logger:    logger.WithComponent("console"),
	}
	if c.compare == nil {
		c.compare = text.CompareNgrams
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.out.w == nil {
		c.out.w = os.Stdout
	}

	registry, err := NewRegistry(append(c.builtins(), cfg.Extras...)...)
	if err != nil {
		return nil, err
	}
	c.registry = registry
	c.dispatcher = NewDispatcher(registry)
	return c, nil
}

// Registry returns the console's command registry.
func (c *Console) Registry() *Registry {
	return c.registry
}

// SessionID identifies this console run in logs and audit events.
func (c *Console) SessionID() string {
	return c.sessionID
}

// Execute runs one input line. ran is false for a blank line, which produces
// no output. Any error has already been printed when Execute returns.
func (c *Console) Execute(ctx context.Context, line string) (ran bool, err error) {
	inv, ok, err := c.dispatcher.Parse(line)
	if !ok {
		return false, nil
	}
	ctx = logger.WithSessionID(ctx, c.sessionID)

	keyword := "UNKNOWN"
	start := c.now()
	if err == nil {
		keyword = inv.Command.Keyword()
		err = inv.Command.Run(ctx, inv.Args)
	}
	elapsed := c.now().Sub(start)

	outcome := outcomeOf(err)
	c.metrics.ObserveCommand(keyword, outcome, elapsed)
	c.audit(ctx, AuditEvent{
		SessionID: c.sessionID,
		Command:   keyword,
		Argument:  inv.Args.Value,
		Outcome:   outcome,
		Duration:  elapsed,
		At:        start,
	})

	if err != nil {
		logger.FromContext(ctx).Debug("command failed",
			"command", keyword,
			"kind", apperrors.KindOf(err).String(),
			"error", err,
		)
		c.out.error(err)
	}
	return true, err
}

func (c *Console) audit(ctx context.Context, event AuditEvent) {
	if c.auditor == nil {
		return
	}
	if err := c.auditor.Record(ctx, event); err != nil {
		logger.FromContext(ctx).Warn("audit event dropped", "command", event.Command, "error", err)
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case apperrors.Is(err, apperrors.ErrUnknownCommand):
		return metrics.OutcomeUnknownAction
	case apperrors.KindOf(err) == apperrors.KindUserInput:
		return metrics.OutcomeUserError
	default:
		return metrics.OutcomeFailure
	}
}
