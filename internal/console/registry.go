package console

import (
	"context"
	"slices"
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/errors"
)

// Args is the text following a command keyword. Present is false when the
// line held the keyword alone, which is distinct from an empty argument.
type Args struct {
	Value   string
	Present bool
}

// Arg is a convenience constructor for a present argument.
func Arg(v string) Args { return Args{Value: v, Present: true} }

// Handler runs a command.
type Handler func(ctx context.Context, args Args) error

// Command is one registered console command.
type Command struct {
	Name        string
	Description string
	Usage       string
	Run         Handler
}

// Keyword is the upper-cased name the command is invoked by.
func (c Command) Keyword() string {
	return strings.ToUpper(c.Name)
}

// Registry maps keywords to commands. It is filled once at construction and
// only read afterwards.
type Registry struct {
	commands map[string]Command
	keywords []string
}

// NewRegistry registers cmds in order.
func NewRegistry(cmds ...Command) (*Registry, error) {
	r := &Registry{commands: make(map[string]Command, len(cmds))}
	for _, cmd := range cmds {
		if err := r.register(cmd); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) register(cmd Command) error {
	kw := cmd.Keyword()
	if kw == "" || cmd.Run == nil {
		return apperrors.Newf(apperrors.ErrMalformedInput, apperrors.KindConfiguration,
			"command %q has no name or handler", cmd.Name)
	}
	if _, dup := r.commands[kw]; dup {
		return apperrors.New(apperrors.ErrDuplicateCommand, apperrors.KindConfiguration, kw)
	}
	r.commands[kw] = cmd
	i, _ := slices.BinarySearch(r.keywords, kw)
	r.keywords = slices.Insert(r.keywords, i, kw)
	return nil
}

// Lookup returns the command registered under keyword.
func (r *Registry) Lookup(keyword string) (Command, bool) {
	cmd, ok := r.commands[keyword]
	return cmd, ok
}

// Keywords returns every keyword in sorted order.
func (r *Registry) Keywords() []string {
	return slices.Clone(r.keywords)
}

// HasKeywordPrefix reports whether line starts with any keyword. The
// comparison is case-sensitive.
func (r *Registry) HasKeywordPrefix(line string) bool {
	for _, kw := range r.keywords {
		if strings.HasPrefix(line, kw) {
			return true
		}
	}
	return false
}

// Complete returns the keywords starting with the upper-cased text, each
// followed by a space.
func (r *Registry) Complete(text string) []string {
	prefix := strings.ToUpper(text)
	var out []string
	for _, kw := range r.keywords {
		if strings.HasPrefix(kw, prefix) {
			out = append(out, kw+" ")
		}
	}
	return out
}
