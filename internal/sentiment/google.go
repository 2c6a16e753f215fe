// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// # Google Natural Language Client

// requestTimeout bounds a single analyzeSentiment round-trip. Sentiment
// calls are subsecond in the common case.
const requestTimeout = 15 * time.Second

// ErrCredentialsMissing is returned when no API key is configured. The
// screener skips the sentiment pass silently in that case.
var ErrCredentialsMissing = errors.New("sentiment: API key is not configured")

// GoogleClient implements [Client] against the Google Cloud Natural Language
// REST API.
type GoogleClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewGoogleClient constructs a sentiment client.
func NewGoogleClient(baseURL, apiKey string) *GoogleClient {
	return &GoogleClient{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

// # Wire Types

type analyzeRequest struct {
	Document     analyzeDocument `json:"document"`
	EncodingType string          `json:"encodingType"`
}

type analyzeDocument struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type analyzeResponse struct {
	DocumentSentiment struct {
		Score     float64 `json:"score"`
		Magnitude float64 `json:"magnitude"`
	} `json:"documentSentiment"`
}

/*
Analyze scores a plain-text document via documents:analyzeSentiment.

Parameters:
  - context: context.Context
  - text: string

Returns:
  - Score: Document sentiment
  - error: ErrCredentialsMissing, transport, or upstream failures
*/
func (client *GoogleClient) Analyze(context context.Context, text string) (Score, error) {

	if client.apiKey == "" {
		return Score{}, ErrCredentialsMissing
	}

	payload := analyzeRequest{
		Document:     analyzeDocument{Type: "PLAIN_TEXT", Content: text},
		EncodingType: "UTF8",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Score{}, fmt.Errorf("sentiment_request_encode_failed: %w", err)
	}

	url := client.baseURL + "/v1/documents:analyzeSentiment?key=" + client.apiKey
	request, err := http.NewRequestWithContext(context, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return Score{}, fmt.Errorf("sentiment_request_build_failed: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := client.httpClient.Do(request)
	if err != nil {
		return Score{}, fmt.Errorf("sentiment_request_failed: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	responseBody, err := io.ReadAll(response.Body)
	if err != nil {
		return Score{}, fmt.Errorf("sentiment_response_read_failed: %w", err)
	}

	if response.StatusCode != http.StatusOK {
		return Score{}, fmt.Errorf("sentiment_upstream_error: HTTP %d: %s", response.StatusCode, strings.TrimSpace(string(responseBody)))
	}

	var decoded analyzeResponse
	if err := json.Unmarshal(responseBody, &decoded); err != nil {
		return Score{}, fmt.Errorf("sentiment_response_decode_failed: %w", err)
	}

	return Score{
		Score:     decoded.DocumentSentiment.Score,
		Magnitude: decoded.DocumentSentiment.Magnitude,
	}, nil
}
