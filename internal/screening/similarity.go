// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

package screening

import (
	"math"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// # Fuzzy Similarity

// Ratio computes a Levenshtein ratio between a banned term and a transcript
// token on the 0-100 scale:
//
//	round(100 * (1 - distance / max(|a|, |b|)))
//
// Lengths are rune counts, so multi-byte scripts score the same as ASCII.
// Exact matching fails against speech-to-text spelling variance; the caller's
// threshold (80 by default) tolerates one-character differences on short
// words and up to 20% on longer ones.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}

	longest := utf8.RuneCountInString(a)
	if lb := utf8.RuneCountInString(b); lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0
	}

	distance := levenshtein.ComputeDistance(a, b)
	return int(math.Round(100 * (1 - float64(distance)/float64(longest))))
}
