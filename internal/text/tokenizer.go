// Package text provides the query-side text pipeline used by the console:
// normalisation, tokenisation and n-gram string comparison.
// It lower-cases input, folds accents, splits on non-alphanumeric
// boundaries and removes configured stop-words.
package text

import (
	"iter"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Tokenizer turns raw text into normalised tokens.
type Tokenizer struct {
	stopWords map[string]struct{}
}

// NewTokenizer creates a Tokenizer dropping the given stop-words. Stop-words
// are compared after normalisation.
func NewTokenizer(stopWords []string) *Tokenizer {
	t := &Tokenizer{stopWords: make(map[string]struct{}, len(stopWords))}
	for _, w := range stopWords {
		t.stopWords[Fold(w)] = struct{}{}
	}
	return t
}

// Tokenize returns the token sequence of text. The sequence is lazy and can
// be ranged over any number of times.
func (t *Tokenizer) Tokenize(text string) iter.Seq[string] {
	return func(yield func(string) bool) {
		words := strings.FieldsFunc(Fold(text), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, word := range words {
			if _, isStop := t.stopWords[word]; isStop {
				continue
			}
			if !yield(word) {
				return
			}
		}
	}
}

// First returns the first token of tokens, if any, without consuming the
// rest of the sequence.
func First(tokens iter.Seq[string]) (string, bool) {
	for token := range tokens {
		return token, true
	}
	return "", false
}

// Fold lower-cases s and strips diacritics ("Église" -> "eglise").
func Fold(s string) string {
	tr := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(tr, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}
