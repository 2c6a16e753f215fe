// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

package transcription

import "errors"

// # Failure Taxonomy

// Kind is a machine-readable transcription failure category.
//
// Every Kind is non-fatal to the chapter moderator: it marks the chapter
// NEEDS_REVIEW with the failure message instead of retrying.
type Kind string

const (
	// KindCredentialsMissing means no API key is configured.
	KindCredentialsMissing Kind = "credentials_missing"
	// KindMissingAudio means the audio artifact could not be read.
	KindMissingAudio Kind = "missing_audio"
	// KindUnsupportedFormat means the file extension maps to no known encoding.
	KindUnsupportedFormat Kind = "unsupported_format"
	// KindUpstreamError covers transport failures and non-2xx responses
	// from the speech-to-text service.
	KindUpstreamError Kind = "upstream_error"
)

// Error is a graceful transcription failure.
//
// Callers distinguish it from unexpected errors with [AsError]; anything
// that is not an *Error should be treated as retryable.
type Error struct {
	Kind    Kind
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// AsError extracts the graceful [*Error] from err's chain, or nil.
func AsError(err error) *Error {
	var te *Error
	if errors.As(err, &te) {
		return te
	}
	return nil
}
