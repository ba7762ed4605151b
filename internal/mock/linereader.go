package mock

import (
	"io"

	"github.com/Adithya-Monish-Kumar-K/geoindex-console/internal/console"
)

var _ console.LineReader = (*LineReader)(nil)

// LineReader is a mock implementation of console.LineReader.
type LineReader struct {
	PromptFn        func(prompt string) (string, error)
	AppendHistoryFn func(line string)
	CloseFn         func() error
}

func (r *LineReader) Prompt(prompt string) (string, error) {
	return r.PromptFn(prompt)
}

func (r *LineReader) AppendHistory(line string) {
	r.AppendHistoryFn(line)
}

func (r *LineReader) Close() error {
	return r.CloseFn()
}

// Script returns a LineReader that answers prompts with lines, then with
// end, then io.EOF. Lines given to AppendHistory are collected in history.
func Script(history *[]string, end error, lines ...string) *LineReader {
	next := 0
	return &LineReader{
		PromptFn: func(string) (string, error) {
			if next < len(lines) {
				next++
				return lines[next-1], nil
			}
			if end != nil {
				err := end
				end = nil
				return "", err
			}
			return "", io.EOF
		},
		AppendHistoryFn: func(line string) {
			if history != nil {
				*history = append(*history, line)
			}
		},
		CloseFn: func() error { return nil },
	}
}
