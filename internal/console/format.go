package console

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/mattn/go-isatty"

	apperrors "github.com/Adithya-Monish-Kumar-K/geoindex-console/pkg/errors"
)

type color string

const (
	red     color = "31"
	yellow  color = "33"
	blue    color = "34"
	magenta color = "35"
	cyan    color = "36"
	white   color = "37"
	reset   color = "39"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// printer writes command output, painting it when colors are on.
type printer struct {
	w     io.Writer
	color bool
}

func (p *printer) paint(c color, v any) string {
	s := fmt.Sprint(v)
	if !p.color {
		return s
	}
	return "\033[" + string(c) + "m" + s + "\033[" + string(reset) + "m"
}

func (p *printer) line(parts ...string) {
	fmt.Fprintln(p.w, strings.Join(parts, " "))
}

func (p *printer) error(err error) {
	p.line(p.paint(red, errorMessage(err)))
}

// errorMessage shows user errors by their message alone.
func errorMessage(err error) string {
	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) && appErr.Kind == apperrors.KindUserInput {
		return appErr.Message
	}
	return err.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatList(items []string) string {
	return "[" + strings.Join(items, ", ") + "]"
}

// formatMapping renders m as {k: v, ...} with sorted keys.
func formatMapping(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + ": " + m[k]
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}
