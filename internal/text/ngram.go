package text

import (
	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

var bigrams = &metrics.SorensenDice{NgramSize: 2}

// CompareNgrams returns the bigram similarity of a and b in [0, 1] after
// folding both. Single characters are compared for equality.
func CompareNgrams(a, b string) float64 {
	a, b = Fold(a), Fold(b)
	if len([]rune(a)) == 1 && len([]rune(b)) == 1 {
		if a == b {
			return 1
		}
		return 0
	}
	return strutil.Similarity(a, b, bigrams)
}
