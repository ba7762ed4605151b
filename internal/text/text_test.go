package text_test

import (
	"slices"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/geoindex-console/internal/text"
	"github.com/stretchr/testify/assert"
)

func TestTokenizer_Tokenize(t *testing.T) {
	t.Parallel()

	tok := text.NewTokenizer([]string{"Des"})

	t.Run("normalises and splits", func(t *testing.T) {
		got := slices.Collect(tok.Tokenize("Rue des Lilas, 77210 Avon"))
		assert.Equal(t, []string{"rue", "lilas", "77210", "avon"}, got)
	})

	t.Run("folds accents", func(t *testing.T) {
		got := slices.Collect(tok.Tokenize("Église Saint-Étienne"))
		assert.Equal(t, []string{"eglise", "saint", "etienne"}, got)
	})

	t.Run("empty input yields nothing", func(t *testing.T) {
		assert.Empty(t, slices.Collect(tok.Tokenize("")))
		assert.Empty(t, slices.Collect(tok.Tokenize("  ,; ")))
	})

	t.Run("sequence is restartable", func(t *testing.T) {
		seq := tok.Tokenize("porte des lilas")
		first := slices.Collect(seq)
		second := slices.Collect(seq)
		assert.Equal(t, first, second)
	})

	t.Run("early stop", func(t *testing.T) {
		first, ok := text.First(tok.Tokenize("lilas rue"))
		assert.True(t, ok)
		assert.Equal(t, "lilas", first)

		_, ok = text.First(tok.Tokenize("des"))
		assert.False(t, ok)
	})
}

func TestCompareNgrams(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, text.CompareNgrams("rue des lilas", "Rue des Lilas"), 1e-9)
	assert.InDelta(t, 1.0, text.CompareNgrams("a", "A"), 1e-9)
	assert.InDelta(t, 0.0, text.CompareNgrams("a", "b"), 1e-9)

	near := text.CompareNgrams("rue des lilas", "porte des lilas")
	far := text.CompareNgrams("rue des lilas", "boulevard haussmann")
	assert.Greater(t, near, far)
	assert.GreaterOrEqual(t, far, 0.0)
	assert.LessOrEqual(t, near, 1.0)
}
