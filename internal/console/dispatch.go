package console

import (
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/errors"
)

// DefaultKeyword is the command a line runs when it starts with no keyword.
const DefaultKeyword = "SEARCH"

// Invocation is a parsed input line.
type Invocation struct {
	Command Command
	Args    Args
}

// Dispatcher turns input lines into invocations of registry commands.
type Dispatcher struct {
	registry *Registry
}

func NewDispatcher(registry *Registry) *Dispatcher {
	return &Dispatcher{registry: registry}
}

// Parse resolves line. ok is false for a blank line. A line that does not
// start with a keyword is the argument of DefaultKeyword; otherwise the text
// before the first space must be a keyword exactly.
func (d *Dispatcher) Parse(line string) (inv Invocation, ok bool, err error) {
	line = strings.TrimSpace(line)
	if line == "" {
		return Invocation{}, false, nil
	}

	keyword, args := DefaultKeyword, Arg(line)
	if d.registry.HasKeywordPrefix(line) {
		var value string
		var found bool
		keyword, value, found = strings.Cut(line, " ")
		args = Args{Value: value, Present: found}
	}

	cmd, exists := d.registry.Lookup(keyword)
	if !exists {
		return Invocation{}, true, apperrors.Newf(apperrors.ErrUnknownCommand, apperrors.KindUserInput,
			"No command for %s", line)
	}
	return Invocation{Command: cmd, Args: args}, true, nil
}
