// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

package language_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qissahq/qissa/internal/language"
)

/*
TestPrimaryCode verifies the language-name to dictionary-code mapping.
*/
func TestPrimaryCode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"english", "English", "en"},
		{"urdu", "Urdu", "ur"},
		{"punjabi", "Punjabi", "pa"},
		{"sindhi", "Sindhi", "sd"},
		{"case_insensitive", "URDU", "ur"},
		{"trims_whitespace", "  English ", "en"},
		{"unknown_defaults_to_en", "Klingon", "en"},
		{"empty_defaults_to_en", "", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, language.PrimaryCode(tt.input))
		})
	}
}

/*
TestSpeechCode verifies the language-name to speech-to-text wire-code mapping.
*/
func TestSpeechCode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"english", "English", "en-US"},
		{"urdu", "Urdu", "ur-PK"},
		{"punjabi", "Punjabi", "pa-IN"},
		{"sindhi", "Sindhi", "sd-IN"},
		{"unknown_defaults_to_en_us", "Esperanto", "en-US"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, language.SpeechCode(tt.input))
		})
	}
}
