// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

/*
Package sentiment adapts the external sentiment-analysis service.

Sentiment is a weak, secondary moderation signal: the screener flags on it
only when both the score and the magnitude cross their thresholds, and any
failure from this package is swallowed by the caller rather than blocking
a verdict.
*/
package sentiment

import "context"

// Score is the sentiment of a document.
type Score struct {
	// Score is the overall affect in [-1.0, +1.0]; negative values indicate
	// negative affect.
	Score float64
	// Magnitude is the non-negative intensity of the affect.
	Magnitude float64
}

// Client is the sentiment-analysis contract the screener depends on.
type Client interface {

	/*
		Analyze scores a plain-text document.

		Parameters:
		  - context: context.Context
		  - text: string (the raw, unnormalized transcript)

		Returns:
		  - Score: Document sentiment
		  - error: Credential, transport, or upstream failures
	*/
	Analyze(context context.Context, text string) (Score, error)
}
