// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

/*
Package screening decides whether a transcript contains disallowed content.

Two sequential passes, short-circuited on the first positive:

  - Pass 1: fuzzy match of every transcript token against the language's
    banned-keyword dictionary (skipped when the dictionary is empty).
  - Pass 2: sentiment scoring of the raw transcript, flagging only strongly
    negative, high-intensity documents.

Sentiment is a weak signal by policy: a sentiment-service failure never
overturns a clean keyword pass and never flags on its own.
*/
package screening

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qissahq/qissa/internal/platform/constants"
	"github.com/qissahq/qissa/internal/sentiment"
)

// # Contracts

// Result is a screening verdict.
type Result struct {
	// Inappropriate reports whether the transcript violates content policy.
	Inappropriate bool
	// Reason explains the verdict in human-readable terms; it names the
	// matched token and keyword for Pass 1 hits, or the sentiment values
	// for Pass 2 hits.
	Reason string
}

// PassedReason is the Result reason when neither pass fires.
const PassedReason = "passed automated checks"

// KeywordSource supplies the banned dictionary for a language name.
// It is satisfied by [keyword.Cache].
type KeywordSource interface {
	KeywordsFor(context context.Context, languageName string) []string
}

// Thresholds are the tunable screening cutoffs.
type Thresholds struct {
	// Similarity is the minimum Levenshtein ratio (0-100) for a keyword hit.
	Similarity int
	// SentimentScore: flag when score is strictly below this value.
	SentimentScore float64
	// SentimentMagnitude: flag when magnitude is strictly above this value.
	SentimentMagnitude float64
}

// DefaultThresholds returns the production screening cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Similarity:         constants.DefaultSimilarityThreshold,
		SentimentScore:     -0.5,
		SentimentMagnitude: 1.0,
	}
}

// # Screener

// Screener runs the two-pass transcript screen.
type Screener struct {
	keywords   KeywordSource
	sentiment  sentiment.Client
	thresholds Thresholds
	logger     *slog.Logger
}

// NewScreener constructs a [Screener] with its dependencies injected.
func NewScreener(keywords KeywordSource, sentimentClient sentiment.Client, thresholds Thresholds, logger *slog.Logger) *Screener {
	if thresholds.Similarity <= 0 {
		thresholds.Similarity = constants.DefaultSimilarityThreshold
	}
	return &Screener{
		keywords:   keywords,
		sentiment:  sentimentClient,
		thresholds: thresholds,
		logger:     logger,
	}
}

/*
Screen evaluates a transcript against the content policy for a language.

Parameters:
  - context: context.Context
  - transcript: string (raw transcript as returned by transcription)
  - languageName: string (e.g. "English", "Urdu")

Returns:
  - Result: The verdict with a human-readable reason
*/
func (screener *Screener) Screen(context context.Context, transcript string, languageName string) Result {

	// Pass 1: fuzzy keyword match, skipped iff the dictionary is empty.
	if result, hit := screener.keywordPass(context, transcript, languageName); hit {
		return result
	}

	// Pass 2: sentiment scoring of the raw transcript.
	if result, hit := screener.sentimentPass(context, transcript); hit {
		return result
	}

	return Result{Inappropriate: false, Reason: PassedReason}
}

// keywordPass compares every transcript token against every banned term.
func (screener *Screener) keywordPass(context context.Context, transcript string, languageName string) (Result, bool) {
	terms := screener.keywords.KeywordsFor(context, languageName)
	if len(terms) == 0 {
		return Result{}, false
	}

	tokens := Tokens(Normalize(transcript))
	for _, term := range terms {
		for _, token := range tokens {
			score := Ratio(term, token)
			if score >= screener.thresholds.Similarity {
				screener.logger.Info("screening_keyword_hit",
					slog.String("language", languageName),
					slog.String("token", token),
					slog.String("keyword", term),
					slog.Int("similarity", score),
				)
				return Result{
					Inappropriate: true,
					Reason:        fmt.Sprintf("contains term %q matching banned keyword %q (similarity %d)", token, term, score),
				}, true
			}
		}
	}

	return Result{}, false
}

// sentimentPass flags strongly negative, high-intensity transcripts.
// Any sentiment failure is swallowed: it neither flags nor overrides Pass 1.
func (screener *Screener) sentimentPass(context context.Context, transcript string) (Result, bool) {
	score, err := screener.sentiment.Analyze(context, transcript)
	if err != nil {
		screener.logger.Warn("screening_sentiment_skipped", slog.Any("error", err))
		return Result{}, false
	}

	if score.Score < screener.thresholds.SentimentScore && score.Magnitude > screener.thresholds.SentimentMagnitude {
		return Result{
			Inappropriate: true,
			Reason:        fmt.Sprintf("strongly negative sentiment (score %.2f, magnitude %.2f)", score.Score, score.Magnitude),
		}, true
	}

	return Result{}, false
}
