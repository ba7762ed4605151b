package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	prompt    = "> "
	farewell  = "Exiting, bye!"
	separator = 80
)

// ErrInterrupted is returned by a LineReader when the user aborts the prompt.
var ErrInterrupted = errors.New("interrupted")

// LineReader reads input lines interactively. Prompt returns io.EOF at end
// of input and ErrInterrupted on interrupt. Close may be called while Prompt
// is blocked and more than once.
type LineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(line string)
	Close() error
}

// Shell is the read loop around a Console.
type Shell struct {
	console *Console
	reader  LineReader
}

func NewShell(c *Console, reader LineReader) *Shell {
	return &Shell{console: c, reader: reader}
}

// Run prints the help, then executes lines until interrupt, end of input or
// cancellation of ctx. Cancellation is honoured while waiting at the prompt:
// the reader is closed and Run returns without waiting for input. Session
// history is flushed before Run returns.
func (s *Shell) Run(ctx context.Context) (err error) {
	c := s.console
	defer func() {
		if c.history == nil {
			return
		}
		if flushErr := c.history.Flush(context.WithoutCancel(ctx)); flushErr != nil {
			c.logger.Error("failed to save history", "error", flushErr)
			err = errors.Join(err, flushErr)
		}
	}()

	if c.history != nil {
		for _, line := range c.history.Entries() {
			s.reader.AppendHistory(line)
		}
	}
	if err := c.help(ctx, Args{}); err != nil {
		return err
	}

	for {
		if ctx.Err() != nil {
			s.bye()
			return nil
		}
		line, err := s.prompt(ctx)
		if errors.Is(err, ErrInterrupted) || errors.Is(err, io.EOF) || ctx.Err() != nil {
			s.bye()
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		s.reader.AppendHistory(line)
		if c.history != nil {
			c.history.Add(line)
		}
		c.Execute(ctx, line)
		c.out.line(c.out.paint(yellow, strings.Repeat("-", separator)))
	}
}

type promptResult struct {
	line string
	err  error
}

// prompt reads one line, giving up when ctx is done. The abandoned Prompt
// call is left to return once the reader is closed.
func (s *Shell) prompt(ctx context.Context) (string, error) {
	done := make(chan promptResult, 1)
	go func() {
		line, err := s.reader.Prompt(prompt)
		done <- promptResult{line: line, err: err}
	}()

	select {
	case r := <-done:
		return r.line, r.err
	case <-ctx.Done():
		if err := s.reader.Close(); err != nil {
			s.console.logger.Warn("failed to close line reader", "error", err)
		}
		return "", ctx.Err()
	}
}

func (s *Shell) bye() {
	out := s.console.out
	out.line(out.paint(red, "\n"+farewell))
}
