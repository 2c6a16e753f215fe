// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

/*
Package language maps the human-readable language names stored on audiobooks
to the machine codes the moderation pipeline needs.

Two distinct code spaces exist:

  - Primary codes (en, ur, pa, sd) key the banned-keyword dictionary.
  - Speech codes (en-US, ur-PK, pa-IN, sd-IN) are the wire format of the
    speech-to-text service.

Creators pick languages from a fixed catalogue, so the table here is a
closed mapping. Unknown names fall back to English rather than failing:
a wrong dictionary is recoverable by human review, a crashed pipeline is not.
*/
package language

import "strings"

// # Name Catalogue

const (
	English = "English"
	Urdu    = "Urdu"
	Punjabi = "Punjabi"
	Sindhi  = "Sindhi"
)

// primaryCodes maps language names to two-letter primary codes.
var primaryCodes = map[string]string{
	"english": "en",
	"urdu":    "ur",
	"punjabi": "pa",
	"sindhi":  "sd",
}

// speechCodes maps language names to the speech-to-text wire codes.
var speechCodes = map[string]string{
	"english": "en-US",
	"urdu":    "ur-PK",
	"punjabi": "pa-IN",
	"sindhi":  "sd-IN",
}

// # Lookups

// PrimaryCode returns the two-letter primary language code for a language
// name. Unknown names default to "en".
func PrimaryCode(name string) string {
	if code, ok := primaryCodes[normalize(name)]; ok {
		return code
	}
	return "en"
}

// SpeechCode returns the speech-to-text wire code for a language name.
// Unknown names default to "en-US".
func SpeechCode(name string) string {
	if code, ok := speechCodes[normalize(name)]; ok {
		return code
	}
	return "en-US"
}

// normalize makes name lookups tolerant of casing and stray whitespace.
func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
