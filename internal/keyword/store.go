// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

package keyword

import "context"

// # Banned-Keyword Data Access

// Store defines the read-only data access contract for the keyword dictionary.
//
// Writes happen through the admin tooling, never through the pipeline.
type Store interface {

	/*
		ListTerms returns every banned term for a primary language code.

		Parameters:
		  - context: context.Context
		  - languageCode: string (two-letter primary code, e.g. "en", "ur")

		Returns:
		  - []string: Raw surface forms as stored
		  - error: Storage failures
	*/
	ListTerms(context context.Context, languageCode string) ([]string, error)
}
