package console

import (
	"errors"
	"sync"

	"github.com/peterh/liner"
)

var _ LineReader = (*Terminal)(nil)

// Terminal is a LineReader with line editing, history navigation and
// keyword completion.
type Terminal struct {
	state *liner.State

	closeOnce sync.Once
	closeErr  error
}

// NewTerminal puts the terminal in raw mode. Close must be called to
// restore it.
func NewTerminal(registry *Registry) *Terminal {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetTabCompletionStyle(liner.TabCircular)
	state.SetCompleter(registry.Complete)
	return &Terminal{state: state}
}

func (t *Terminal) Prompt(p string) (string, error) {
	line, err := t.state.Prompt(p)
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", ErrInterrupted
	}
	return line, err
}

func (t *Terminal) AppendHistory(line string) {
	t.state.AppendHistory(line)
}

// Close restores the terminal mode. Only the first call has an effect.
func (t *Terminal) Close() error {
	t.closeOnce.Do(func() {
		t.closeErr = t.state.Close()
	})
	return t.closeErr
}
