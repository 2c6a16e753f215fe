// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

package screening_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qissahq/qissa/internal/screening"
)

/*
TestRatio verifies the Levenshtein ratio against known values.
*/
func TestRatio(t *testing.T) {
	tests := []struct {
		name     string
		a        string
		b        string
		expected int
	}{
		// One deletion on a 7-rune keyword: round(100*6/7) = 86.
		{"badword_vs_badwrd", "badword", "badwrd", 86},
		// One substitution on a 3-rune keyword: round(100*2/3) = 67.
		{"bad_vs_bed", "bad", "bed", 67},
		{"identical", "hello", "hello", 100},
		{"completely_different", "abc", "xyz", 0},
		{"one_empty", "word", "", 0},
		{"both_empty", "", "", 100},
		// Rune counting: one substitution on a 4-rune Urdu word,
		// round(100*3/4) = 75 regardless of byte length.
		{"urdu_rune_lengths", "کتاب", "کباب", 75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, screening.Ratio(tt.a, tt.b))
		})
	}
}

/*
TestRatio_Symmetry checks that argument order does not change the score.
*/
func TestRatio_Symmetry(t *testing.T) {
	assert.Equal(t, screening.Ratio("badword", "badwrd"), screening.Ratio("badwrd", "badword"))
}
