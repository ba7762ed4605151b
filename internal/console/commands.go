package console

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/Adithya-Monish-Kumar-K/geoindex-console/internal/index"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/internal/text"
	apperrors "github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/geo"
	"github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/tracing"
)

const (
	// bestScoreStop is the last RevRange index BESTSCORE prints.
	bestScoreStop = 20
	// defaultHistoryLines is what HISTORY prints without an argument.
	defaultHistoryLines = 20
)

// dbInfoFields are the INFO fields DBINFO prints, in order.
var dbInfoFields = []string{
	"keyspace_misses",
	"keyspace_hits",
	"used_memory_human",
	"total_commands_processed",
	"total_connections_received",
	"connected_clients",
}

func (c *Console) builtins() []Command {
	return []Command{
		{
			Name:        "SEARCH",
			Description: "Issue a search (default command, can be omitted).\n\tAppend CENTER <lat> <lon> to favour results near a point.",
			Usage:       "SEARCH rue des Lilas",
			Run: func(ctx context.Context, args Args) error {
				return c.search(ctx, args, "SEARCH", false)
			},
		},
		{
			Name:        "EXPLAIN",
			Description: "Issue a search and print how the engine resolved it.",
			Usage:       "EXPLAIN rue des Lilas",
			Run: func(ctx context.Context, args Args) error {
				return c.search(ctx, args, "EXPLAIN", true)
			},
		},
		{Name: "TOKENIZE", Description: "Inspect how a string is tokenized.", Usage: "TOKENIZE Rue des Lilas", Run: c.tokenize},
		{Name: "GET", Description: "Get a document from the index by its id.", Usage: "GET 772210180J", Run: c.get},
		{Name: "FREQUENCY", Description: "Return the frequency of a word in the index.", Usage: "FREQUENCY lilas", Run: c.frequency},
		{Name: "AUTOCOMPLETE", Description: "Show the completions of a token.", Usage: "AUTOCOMPLETE lil", Run: c.autocomplete},
		{Name: "INDEX", Description: "Show the posting-list score and rank of each token of a document.", Usage: "INDEX 772210180J", Run: c.indexDetails},
		{Name: "BESTSCORE", Description: "List the documents with the highest score for a word.", Usage: "BESTSCORE lilas", Run: c.bestScore},
		{Name: "REVERSE", Description: "Do a reverse search.\n\tArgs: lat lon.", Usage: "REVERSE 48.1234 2.9876", Run: c.reverse},
		{Name: "PAIR", Description: "See every token paired with a token.", Usage: "PAIR lilas", Run: c.pair},
		{Name: "DISTANCE", Description: "Print the similarity of two strings separated by |.", Usage: "DISTANCE rue des lilas|porte des lilas", Run: c.distance},
		{Name: "DBINFO", Description: "Print server statistics of the index store.", Run: c.dbInfo},
		{Name: "DBKEY", Description: "Print the raw content of a store key.", Usage: "DBKEY g|u09tyzfe", Run: c.dbKey},
		{Name: "GEODISTANCE", Description: "Compute the distance from a document to a point.", Usage: "GEODISTANCE 772210180J 48.1234 2.9876", Run: c.geoDistance},
		{Name: "GEOHASHTOGEOJSON", Description: "Build the GeoJSON polygon of a geohash.", Usage: "GEOHASHTOGEOJSON u09vej04", Run: c.geohashToGeoJSON},
		{Name: "HELP", Description: "Display this help message.", Run: c.help},
		{Name: "HISTORY", Description: "Print the last input lines (20 by default).", Usage: "HISTORY 50", Run: c.printHistory},
	}
}

// parseCenter splits "query CENTER lat lon" into the query and its center.
func parseCenter(s string) (string, SearchOptions, error) {
	query, center, found := strings.Cut(s, "CENTER")
	if !found {
		return strings.TrimSpace(s), SearchOptions{}, nil
	}
	lat, lon, err := parseLatLon(center)
	if err != nil {
		return "", SearchOptions{}, apperrors.Malformed("Malformed center. Use: <query> CENTER <lat> <lon>")
	}
	return strings.TrimSpace(query), SearchOptions{Lat: &lat, Lon: &lon}, nil
}

func parseLatLon(s string) (lat, lon float64, err error) {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("want 2 coordinates, got %d", len(fields))
	}
	if lat, err = strconv.ParseFloat(fields[0], 64); err != nil {
		return 0, 0, err
	}
	if lon, err = strconv.ParseFloat(fields[1], 64); err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

func (c *Console) search(ctx context.Context, args Args, keyword string, verbose bool) error {
	query, opts, err := parseCenter(args.Value)
	if err != nil {
		return err
	}
	start := c.now()

	var root *tracing.Span
	if verbose {
		ctx, root = tracing.StartSpan(ctx, keyword, uuid.NewString())
		root.SetAttr("query", query)
	}

	n := 0
	for r, err := range c.searcher.Search(ctx, query, opts) {
		if err != nil {
			return fmt.Errorf("searching %q: %w", query, err)
		}
		c.out.line(fmt.Sprintf("%s (%s | %s)",
			c.out.paint(white, r.Label), c.out.paint(blue, formatFloat(r.Score)), c.out.paint(blue, r.ID)))
		n++
	}
	c.metrics.ObserveResults(keyword, n)

	if root != nil {
		root.End()
		if err := root.Render(c.out.w); err != nil {
			return fmt.Errorf("rendering trace: %w", err)
		}
	}
	c.out.line(c.out.paint(magenta, fmt.Sprintf("(%.6f seconds)", c.now().Sub(start).Seconds())))
	return nil
}

func (c *Console) tokenize(_ context.Context, args Args) error {
	tokens := slices.Collect(c.tok.Tokenize(args.Value))
	c.out.line(c.out.paint(white, strings.Join(tokens, " ")))
	return nil
}

func requireArg(args Args, usage string) (string, error) {
	v := strings.TrimSpace(args.Value)
	if !args.Present || v == "" {
		return "", apperrors.Malformed("Missing argument. Use: %s", usage)
	}
	return v, nil
}

// firstToken returns the first token of the argument. Only that token is
// inspected by the single-word commands, whatever follows it.
func (c *Console) firstToken(args Args, usage string) (string, error) {
	v, err := requireArg(args, usage)
	if err != nil {
		return "", err
	}
	tok, ok := text.First(c.tok.Tokenize(v))
	if !ok {
		return "", apperrors.Malformed("No token in %q", v)
	}
	return tok, nil
}

func (c *Console) get(ctx context.Context, args Args) error {
	id, err := requireArg(args, "GET <id>")
	if err != nil {
		return err
	}
	doc, err := c.index.Hash(ctx, index.DocumentKey(id))
	if err != nil {
		return fmt.Errorf("reading document %s: %w", id, err)
	}
	for _, field := range doc.Fields() {
		c.out.line(c.out.paint(white, field), c.out.paint(magenta, doc[field]))
	}
	if hn := doc.Housenumbers(); hn != nil {
		c.out.line(c.out.paint(white, "housenumbers"), c.out.paint(magenta, formatMapping(hn)))
	}
	return nil
}

func (c *Console) frequency(ctx context.Context, args Args) error {
	tok, err := c.firstToken(args, "FREQUENCY <word>")
	if err != nil {
		return err
	}
	n, err := c.index.Card(ctx, index.TokenKey(tok))
	if err != nil {
		return fmt.Errorf("counting %q: %w", tok, err)
	}
	c.out.line(c.out.paint(white, n))
	return nil
}

func (c *Console) autocomplete(ctx context.Context, args Args) error {
	tok, err := c.firstToken(args, "AUTOCOMPLETE <string>")
	if err != nil {
		return err
	}
	members, err := c.index.Members(ctx, index.EdgeNgramKey(tok))
	if err != nil {
		return fmt.Errorf("reading completions of %q: %w", tok, err)
	}
	completions := make([]string, len(members))
	for i, m := range members {
		completions[i] = index.KeySuffix(index.TokenKey(m))
	}
	slices.Sort(completions)
	c.out.line(c.out.paint(white, formatList(completions)))
	c.out.line(c.out.paint(magenta, fmt.Sprintf("(%d elements)", len(completions))))
	return nil
}

func (c *Console) indexDetails(ctx context.Context, args Args) error {
	id, err := requireArg(args, "INDEX <id>")
	if err != nil {
		return err
	}
	docKey := index.DocumentKey(id)
	doc, err := c.index.Hash(ctx, docKey)
	if err != nil {
		return fmt.Errorf("reading document %s: %w", id, err)
	}
	for _, field := range index.IndexedFields {
		value, ok := doc[field]
		if !ok {
			return apperrors.Newf(apperrors.ErrMissingField, apperrors.KindCollaborator,
				"document %s has no %s", id, field)
		}
		for tok := range c.tok.Tokenize(value) {
			key := index.TokenKey(tok)
			score, found, err := c.index.Score(ctx, key, docKey)
			if err != nil {
				return fmt.Errorf("reading score of %s in %s: %w", docKey, key, err)
			}
			rank, ranked, err := c.index.RevRank(ctx, key, docKey)
			if err != nil {
				return fmt.Errorf("reading rank of %s in %s: %w", docKey, key, err)
			}
			scoreText, rankText := "-", "-"
			if found {
				scoreText = formatFloat(score)
			}
			if ranked {
				rankText = strconv.FormatInt(rank, 10)
			}
			c.out.line(c.out.paint(white, tok), c.out.paint(blue, scoreText), c.out.paint(blue, rankText))
		}
	}
	return nil
}

func (c *Console) bestScore(ctx context.Context, args Args) error {
	tok, err := c.firstToken(args, "BESTSCORE <word>")
	if err != nil {
		return err
	}
	entries, err := c.index.RevRange(ctx, index.TokenKey(tok), 0, bestScoreStop)
	if err != nil {
		return fmt.Errorf("reading posting list of %q: %w", tok, err)
	}
	if len(entries) == 0 {
		return nil
	}
	keys := make([]string, len(entries))
	for i, e := range entries {
		keys[i] = e.Member
	}
	docs, err := c.index.Hashes(ctx, keys)
	if err != nil {
		return fmt.Errorf("reading documents: %w", err)
	}
	for i, e := range entries {
		r := index.NewResult(e.Member, docs[i])
		c.out.line(c.out.paint(white, r.Label), c.out.paint(blue, formatFloat(e.Score)), c.out.paint(blue, r.ID))
	}
	return nil
}

func (c *Console) reverse(ctx context.Context, args Args) error {
	lat, lon, err := parseLatLon(args.Value)
	if err != nil {
		return apperrors.Malformed("Malformed coordinates. Use: REVERSE <lat> <lon>")
	}
	n := 0
	for r, err := range c.searcher.Reverse(ctx, lat, lon) {
		if err != nil {
			return fmt.Errorf("reverse geocoding %v %v: %w", lat, lon, err)
		}
		c.out.line(fmt.Sprintf("%s (%s | %s km | %s)",
			c.out.paint(white, r.Label),
			c.out.paint(blue, formatFloat(r.Score)),
			c.out.paint(blue, formatFloat(r.Distance)),
			c.out.paint(blue, r.ID)))
		n++
	}
	c.metrics.ObserveResults("REVERSE", n)
	return nil
}

func (c *Console) pair(ctx context.Context, args Args) error {
	tok, err := c.firstToken(args, "PAIR <word>")
	if err != nil {
		return err
	}
	tokens, err := c.index.Members(ctx, index.PairKey(tok))
	if err != nil {
		return fmt.Errorf("reading pairs of %q: %w", tok, err)
	}
	slices.Sort(tokens)
	c.out.line(c.out.paint(white, formatList(tokens)))
	c.out.line(c.out.paint(magenta, fmt.Sprintf("(Total: %d)", len(tokens))))
	return nil
}

func (c *Console) distance(_ context.Context, args Args) error {
	parts := strings.Split(args.Value, "|")
	if !args.Present || len(parts) != 2 {
		return apperrors.Malformed("Malformed string. Use | between the two strings.")
	}
	c.out.line(c.out.paint(white, formatFloat(c.compare(parts[0], parts[1]))))
	return nil
}

func (c *Console) dbInfo(ctx context.Context, _ Args) error {
	info, err := c.index.Info(ctx)
	if err != nil {
		return fmt.Errorf("reading server info: %w", err)
	}
	for _, field := range dbInfoFields {
		c.out.line(c.out.paint(white, field+":"), c.out.paint(blue, info[field]))
	}
	keys := info.Keyspace(c.db)["keys"]
	if keys == "" {
		keys = "0"
	}
	c.out.line(c.out.paint(white, "nb keys:"), c.out.paint(blue, keys))
	return nil
}

func (c *Console) dbKey(ctx context.Context, args Args) error {
	key, err := requireArg(args, "DBKEY <key>")
	if err != nil {
		return err
	}
	kind, err := c.index.Type(ctx, key)
	if err != nil {
		return fmt.Errorf("reading type of %s: %w", key, err)
	}

	var value string
	switch kind {
	case index.KeyTypeSet:
		members, err := c.index.Members(ctx, key)
		if err != nil {
			return fmt.Errorf("reading %s: %w", key, err)
		}
		slices.Sort(members)
		value = formatList(members)
	case index.KeyTypeHash:
		doc, err := c.index.Hash(ctx, key)
		if err != nil {
			return fmt.Errorf("reading %s: %w", key, err)
		}
		value = formatMapping(doc)
	case index.KeyTypeNone:
	default:
		value = "Unsupported type " + string(kind)
	}
	c.out.line("type:", c.out.paint(magenta, kind))
	c.out.line("value:", c.out.paint(white, value))
	return nil
}

func (c *Console) geoDistance(ctx context.Context, args Args) error {
	fields := strings.Fields(args.Value)
	if len(fields) != 3 {
		return apperrors.Malformed("Malformed query. Use: ID lat lon")
	}
	lat, lon, err := parseLatLon(fields[1] + " " + fields[2])
	if err != nil {
		return apperrors.Malformed("Malformed query. Use: ID lat lon")
	}
	id := fields[0]
	doc, err := c.index.Hash(ctx, index.DocumentKey(id))
	if err != nil {
		return fmt.Errorf("reading document %s: %w", id, err)
	}
	docLat, docLon, err := doc.Coordinates()
	if err != nil {
		return fmt.Errorf("document %s: %w", id, err)
	}
	km := geo.HaversineKm(geo.Point{Lat: docLat, Lon: docLon}, geo.Point{Lat: lat, Lon: lon})
	c.out.line(fmt.Sprintf("km: %s | score: %s",
		c.out.paint(white, formatFloat(km)), c.out.paint(blue, formatFloat(geo.KmToScore(km)))))
	return nil
}

func (c *Console) geohashToGeoJSON(_ context.Context, args Args) error {
	cell, err := geo.Decode(args.Value)
	if err != nil {
		return err
	}
	out, err := cell.GeoJSON()
	if err != nil {
		return err
	}
	c.out.line(c.out.paint(white, out))
	return nil
}

func (c *Console) help(_ context.Context, _ Args) error {
	for _, kw := range c.registry.Keywords() {
		cmd, _ := c.registry.Lookup(kw)
		desc := strings.Join(strings.Fields(cmd.Description+" "+cmd.Usage), " ")
		if desc == "" {
			c.out.line(c.out.paint(yellow, kw))
			continue
		}
		c.out.line(c.out.paint(yellow, kw), c.out.paint(cyan, desc))
	}
	return nil
}

func (c *Console) printHistory(_ context.Context, args Args) error {
	if c.history == nil {
		return apperrors.New(apperrors.ErrStoreUnavailable, apperrors.KindCollaborator, "history is disabled")
	}
	n := defaultHistoryLines
	if v := strings.TrimSpace(args.Value); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return apperrors.Malformed("Malformed count %q. Use: HISTORY [n]", v)
		}
		n = parsed
	}
	total := len(c.history.Entries())
	entries := c.history.Last(n)
	offset := total - len(entries)
	for i, line := range entries {
		c.out.line(c.out.paint(blue, fmt.Sprintf("%5d", offset+i+1)), line)
	}
	return nil
}
