// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

package screening

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// # Transcript Normalization

// Normalize prepares a transcript for fuzzy keyword matching.
//
// # Transformation Pipeline
//
// 1. NFC-normalizes so composed and decomposed forms compare equal.
// 2. Lowercases.
// 3. Replaces every non-alphanumeric, non-whitespace rune with a space.
// 4. Collapses whitespace runs and surrounds the result with single spaces.
//
// Combining marks stay attached to their base letter: Urdu and Sindhi
// diacritics are significant to the dictionary.
func Normalize(transcript string) string {
	composed := strings.ToLower(norm.NFC.String(transcript))

	mapped := strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			return r
		case unicode.Is(unicode.Mn, r):
			return r
		case unicode.IsSpace(r):
			return ' '
		default:
			return ' '
		}
	}, composed)

	collapsed := strings.Join(strings.Fields(mapped), " ")
	if collapsed == "" {
		return " "
	}
	return " " + collapsed + " "
}

// Tokens splits a normalized transcript into whitespace-delimited tokens.
func Tokens(normalized string) []string {
	return strings.Fields(normalized)
}
