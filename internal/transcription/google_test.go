// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

package transcription_test

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qissahq/qissa/internal/transcription"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// writeAudioFixture drops a small fake audio artifact into a temp dir.
func writeAudioFixture(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("fake-audio-bytes"), 0o600))
	return path
}

/*
TestEncodingForPath verifies the extension to encoding mapping.
*/
func TestEncodingForPath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
		errKind  transcription.Kind
	}{
		{"mp3", "chapter.mp3", "MP3", ""},
		{"m4a", "chapter.m4a", "MP3", ""},
		{"wav", "chapter.wav", "LINEAR16", ""},
		{"ogg", "chapter.ogg", "OGG_OPUS", ""},
		{"uppercase_extension", "CHAPTER.MP3", "MP3", ""},
		{"flac_unsupported", "chapter.flac", "", transcription.KindUnsupportedFormat},
		{"no_extension", "chapter", "", transcription.KindUnsupportedFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoding, err := transcription.EncodingForPath(tt.path)
			if tt.errKind != "" {
				te := transcription.AsError(err)
				require.NotNil(t, te)
				assert.Equal(t, tt.errKind, te.Kind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, encoding)
		})
	}
}

/*
TestGoogleClient_Transcribe exercises a successful recognize round-trip and
asserts the wire request parameters.
*/
func TestGoogleClient_Transcribe(t *testing.T) {
	audioPath := writeAudioFixture(t, "chapter.mp3")

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/v1/speech:recognize", request.URL.Path)
		assert.Equal(t, "test-key", request.URL.Query().Get("key"))

		var payload struct {
			Config struct {
				Encoding                   string `json:"encoding"`
				LanguageCode               string `json:"languageCode"`
				EnableAutomaticPunctuation bool   `json:"enableAutomaticPunctuation"`
			} `json:"config"`
			Audio struct {
				Content string `json:"content"`
			} `json:"audio"`
		}
		require.NoError(t, json.NewDecoder(request.Body).Decode(&payload))

		assert.Equal(t, "MP3", payload.Config.Encoding)
		assert.Equal(t, "ur-PK", payload.Config.LanguageCode)
		assert.True(t, payload.Config.EnableAutomaticPunctuation)

		decoded, err := base64.StdEncoding.DecodeString(payload.Audio.Content)
		require.NoError(t, err)
		assert.Equal(t, "fake-audio-bytes", string(decoded))

		_ = json.NewEncoder(writer).Encode(map[string]any{
			"results": []map[string]any{
				{"alternatives": []map[string]any{{"transcript": "Pehla hissa. "}}},
				{"alternatives": []map[string]any{{"transcript": "Doosra hissa."}}},
			},
		})
	}))
	defer server.Close()

	client := transcription.NewGoogleClient(server.URL, "test-key", 0, discardLogger())

	transcript, err := client.Transcribe(t.Context(), audioPath, "Urdu")
	require.NoError(t, err)
	assert.Equal(t, "Pehla hissa. Doosra hissa.", transcript)
}

/*
TestGoogleClient_GracefulFailures covers the non-fatal error taxonomy.
*/
func TestGoogleClient_GracefulFailures(t *testing.T) {
	t.Run("credentials_missing", func(t *testing.T) {
		client := transcription.NewGoogleClient("https://speech.invalid", "", 0, discardLogger())

		_, err := client.Transcribe(t.Context(), writeAudioFixture(t, "a.mp3"), "English")
		te := transcription.AsError(err)
		require.NotNil(t, te)
		assert.Equal(t, transcription.KindCredentialsMissing, te.Kind)
	})

	t.Run("missing_audio", func(t *testing.T) {
		client := transcription.NewGoogleClient("https://speech.invalid", "key", 0, discardLogger())

		_, err := client.Transcribe(t.Context(), filepath.Join(t.TempDir(), "absent.mp3"), "English")
		te := transcription.AsError(err)
		require.NotNil(t, te)
		assert.Equal(t, transcription.KindMissingAudio, te.Kind)
	})

	t.Run("unsupported_format", func(t *testing.T) {
		client := transcription.NewGoogleClient("https://speech.invalid", "key", 0, discardLogger())

		_, err := client.Transcribe(t.Context(), writeAudioFixture(t, "a.flac"), "English")
		te := transcription.AsError(err)
		require.NotNil(t, te)
		assert.Equal(t, transcription.KindUnsupportedFormat, te.Kind)
	})

	t.Run("upstream_error_carries_service_message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(writer).Encode(map[string]any{
				"error": map[string]any{"status": "RESOURCE_EXHAUSTED", "message": "quota_exceeded"},
			})
		}))
		defer server.Close()

		client := transcription.NewGoogleClient(server.URL, "key", 0, discardLogger())

		_, err := client.Transcribe(t.Context(), writeAudioFixture(t, "a.mp3"), "English")
		te := transcription.AsError(err)
		require.NotNil(t, te)
		assert.Equal(t, transcription.KindUpstreamError, te.Kind)
		assert.Contains(t, te.Message, "quota_exceeded")
	})

	t.Run("upstream_error_non_json_body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			writer.WriteHeader(http.StatusBadGateway)
			_, _ = writer.Write([]byte("<html>bad gateway</html>"))
		}))
		defer server.Close()

		client := transcription.NewGoogleClient(server.URL, "key", 0, discardLogger())

		_, err := client.Transcribe(t.Context(), writeAudioFixture(t, "a.mp3"), "English")
		te := transcription.AsError(err)
		require.NotNil(t, te)
		assert.Equal(t, transcription.KindUpstreamError, te.Kind)
		assert.Contains(t, te.Message, "502")
	})
}

/*
TestGoogleClient_EmptyResults verifies that a response with no utterances
yields an empty transcript without error.
*/
func TestGoogleClient_EmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, _ = writer.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := transcription.NewGoogleClient(server.URL, "key", 0, discardLogger())

	transcript, err := client.Transcribe(t.Context(), writeAudioFixture(t, "a.wav"), "English")
	require.NoError(t, err)
	assert.Empty(t, transcript)
}
