// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

package transcription

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/qissahq/qissa/internal/language"
)

// # Google Speech Client

// requestTimeout bounds a single speech:recognize round-trip. Chapter audio
// runs long, so this is generous compared to the rest of the platform.
const requestTimeout = 3 * time.Minute

// GoogleClient implements [Client] against the Google Cloud Speech REST API.
//
// It is constructed once per worker and injected into the chapter moderator;
// there is no process-global client state.
type GoogleClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewGoogleClient constructs a speech client.
//
// # Parameters
//   - baseURL: Service base URL (e.g. https://speech.googleapis.com).
//   - apiKey: API key; empty keys surface as credentials_missing per call.
//   - requestsPerMinute: Outbound throttle; <= 0 disables throttling.
//   - logger: Structured logger.
func NewGoogleClient(baseURL, apiKey string, requestsPerMinute int, logger *slog.Logger) *GoogleClient {
	var limiter *rate.Limiter
	if requestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), requestsPerMinute)
	}
	return &GoogleClient{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		limiter:    limiter,
		logger:     logger,
	}
}

// # Wire Types

type recognizeRequest struct {
	Config recognizeConfig `json:"config"`
	Audio  recognizeAudio  `json:"audio"`
}

type recognizeConfig struct {
	Encoding                   string `json:"encoding"`
	LanguageCode               string `json:"languageCode"`
	EnableAutomaticPunctuation bool   `json:"enableAutomaticPunctuation"`
}

type recognizeAudio struct {
	Content string `json:"content"`
}

type recognizeResponse struct {
	Results []struct {
		Alternatives []struct {
			Transcript string `json:"transcript"`
		} `json:"alternatives"`
	} `json:"results"`
}

type googleErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

/*
Transcribe converts an audio artifact to text via speech:recognize.

Description: Resolves the encoding from the file extension and the wire
language code from the language name, submits the audio with automatic
punctuation enabled, and concatenates the first alternative of every
utterance result in order.

Parameters:
  - context: context.Context
  - audioPath: string (local filesystem path)
  - languageName: string

Returns:
  - string: The transcript
  - error: *Error for graceful failures
*/
func (client *GoogleClient) Transcribe(context context.Context, audioPath string, languageName string) (string, error) {

	// 1. Credentials check
	if client.apiKey == "" {
		return "", &Error{Kind: KindCredentialsMissing, Message: "speech API key is not configured"}
	}

	// 2. Resolve request parameters
	encoding, err := EncodingForPath(audioPath)
	if err != nil {
		return "", err
	}
	wireCode := language.SpeechCode(languageName)

	// 3. Read the audio artifact
	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return "", &Error{Kind: KindMissingAudio, Message: fmt.Sprintf("cannot read audio file %s: %v", audioPath, err)}
	}

	// 4. Throttle outbound calls
	if client.limiter != nil {
		if err := client.limiter.Wait(context); err != nil {
			return "", fmt.Errorf("transcription_rate_limit_wait_failed: %w", err)
		}
	}

	// 5. Build and send the request
	payload := recognizeRequest{
		Config: recognizeConfig{
			Encoding:                   encoding,
			LanguageCode:               wireCode,
			EnableAutomaticPunctuation: true,
		},
		Audio: recognizeAudio{Content: base64.StdEncoding.EncodeToString(audio)},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("transcription_request_encode_failed: %w", err)
	}

	url := client.baseURL + "/v1/speech:recognize?key=" + client.apiKey
	request, err := http.NewRequestWithContext(context, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("transcription_request_build_failed: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	started := time.Now()
	response, err := client.httpClient.Do(request)
	if err != nil {
		return "", &Error{Kind: KindUpstreamError, Message: "speech request failed: " + err.Error()}
	}
	defer func() { _ = response.Body.Close() }()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return "", &Error{Kind: KindUpstreamError, Message: "speech response read failed: " + err.Error()}
	}

	// 6. Upstream error mapping
	if response.StatusCode != http.StatusOK {
		return "", &Error{Kind: KindUpstreamError, Message: upstreamMessage(response.StatusCode, responseBody)}
	}

	// 7. Concatenate the top alternative of every utterance segment
	var decoded recognizeResponse
	if err := json.Unmarshal(responseBody, &decoded); err != nil {
		return "", &Error{Kind: KindUpstreamError, Message: "speech response decode failed: " + err.Error()}
	}

	var transcript strings.Builder
	for _, result := range decoded.Results {
		if len(result.Alternatives) == 0 {
			continue
		}
		transcript.WriteString(result.Alternatives[0].Transcript)
	}

	client.logger.Info("transcription_completed",
		slog.String("language_code", wireCode),
		slog.String("encoding", encoding),
		slog.Int("utterances", len(decoded.Results)),
		slog.Int64("latency_ms", time.Since(started).Milliseconds()),
	)

	return transcript.String(), nil
}

// upstreamMessage extracts the service's error message, falling back to the
// HTTP status when the body is not the standard Google error envelope.
func upstreamMessage(statusCode int, body []byte) string {
	var decoded googleErrorResponse
	if err := json.Unmarshal(body, &decoded); err == nil && decoded.Error.Message != "" {
		if decoded.Error.Status != "" {
			return decoded.Error.Status + ": " + decoded.Error.Message
		}
		return decoded.Error.Message
	}
	return fmt.Sprintf("speech service returned HTTP %d", statusCode)
}
