// Package history persists console input lines across sessions.
//
// A History loads every stored line when it is opened and buffers the lines
// of the current session until Flush, so a store is written once at exit and
// the order of entries is always oldest first.
package history

import (
	"context"
	"errors"
	"fmt"
)

// ErrClosed is returned when a flushed History is used again.
var ErrClosed = errors.New("history closed")

// Store is the persistence backend of a History.
type Store interface {
	// Load returns every stored line, oldest first.
	Load(ctx context.Context) ([]string, error)
	// Append stores lines after the existing ones, keeping their order.
	Append(ctx context.Context, lines []string) error
	Close() error
}

// History is the in-memory view of stored lines plus the current session.
type History struct {
	store   Store
	loaded  []string
	pending []string
	closed  bool
}

// Open loads the stored lines of store.
func Open(ctx context.Context, store Store) (*History, error) {
	lines, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	return &History{store: store, loaded: lines}, nil
}

// Add records a line of the current session.
func (h *History) Add(line string) {
	if h.closed || line == "" {
		return
	}
	h.pending = append(h.pending, line)
}

// Entries returns stored and session lines, oldest first.
func (h *History) Entries() []string {
	out := make([]string, 0, len(h.loaded)+len(h.pending))
	out = append(out, h.loaded...)
	return append(out, h.pending...)
}

// Last returns at most n of the most recent entries, oldest first.
func (h *History) Last(n int) []string {
	entries := h.Entries()
	if n >= 0 && len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	return entries
}

// Flush appends the session lines to the store and closes it.
func (h *History) Flush(ctx context.Context) error {
	if h.closed {
		return ErrClosed
	}
	h.closed = true
	var appendErr error
	if len(h.pending) > 0 {
		if err := h.store.Append(ctx, h.pending); err != nil {
			appendErr = fmt.Errorf("saving history: %w", err)
		} else {
			h.loaded = append(h.loaded, h.pending...)
			h.pending = nil
		}
	}
	return errors.Join(appendErr, h.store.Close())
}
