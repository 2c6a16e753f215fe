// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

/*
Package keyword provides the banned-keyword dictionary used by transcript
screening.

The dictionary is maintained by administrators (out of scope here) and read
by the pipeline through a read-through cache with a bounded TTL, so moderation
throughput never depends on the primary database being fast.
*/
package keyword

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// # Domain Model

// BannedKeyword is a single disallowed surface form for one language.
//
// Terms are stored lowercased with diacritics preserved: the fuzzy matcher
// compares them against transcript tokens, and Urdu/Sindhi diacritics are
// significant there.
type BannedKeyword struct {
	ID           string
	Term         string
	LanguageCode string
	CreatedAt    time.Time
}

// CleanTerms lowercases, trims, and NFC-normalizes raw dictionary terms,
// dropping entries that are empty after trimming.
//
// NFC normalization makes admin-entered keywords and speech-to-text output
// comparable even when their Unicode composition forms differ.
func CleanTerms(raw []string) []string {
	cleaned := make([]string, 0, len(raw))
	for _, term := range raw {
		term = strings.TrimSpace(strings.ToLower(term))
		if term == "" {
			continue
		}
		cleaned = append(cleaned, norm.NFC.String(term))
	}
	return cleaned
}
