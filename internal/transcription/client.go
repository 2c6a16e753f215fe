// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

/*
Package transcription adapts the external speech-to-text service for the
moderation pipeline.

The client resolves two request parameters per call: the wire language code
(via internal/language) and the audio encoding (via the artifact's file
extension). All failure modes are non-fatal to the caller and carry a
machine-readable [Kind].
*/
package transcription

import (
	"context"
	"path/filepath"
	"strings"
)

// # Client Contract

// Client is the speech-to-text contract the chapter moderator depends on.
type Client interface {

	/*
		Transcribe converts an audio artifact to text.

		Description: The transcript is the concatenation of the top
		alternative of every utterance segment, in order. Graceful failures
		are returned as [*Error]; any other error is unexpected.

		Parameters:
		  - context: context.Context
		  - audioPath: string (local path to the audio artifact)
		  - languageName: string (e.g. "English", "Urdu")

		Returns:
		  - string: The transcript (may be empty if no speech was detected)
		  - error: *Error for graceful failures
	*/
	Transcribe(context context.Context, audioPath string, languageName string) (string, error)
}

// # Encoding Resolution

// encodings maps audio file extensions to the speech service's encoding enum.
var encodings = map[string]string{
	".mp3": "MP3",
	".m4a": "MP3",
	".wav": "LINEAR16",
	".ogg": "OGG_OPUS",
}

// EncodingForPath resolves the wire encoding from an artifact's extension.
//
// Unknown extensions return an unsupported_format [*Error].
func EncodingForPath(audioPath string) (string, error) {
	ext := strings.ToLower(filepath.Ext(audioPath))
	if encoding, ok := encodings[ext]; ok {
		return encoding, nil
	}
	return "", &Error{
		Kind:    KindUnsupportedFormat,
		Message: "unsupported audio format " + ext,
	}
}
