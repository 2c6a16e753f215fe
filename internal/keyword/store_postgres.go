// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

package keyword

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qissahq/qissa/internal/platform/database/schema"
)

// # PostgreSQL Repository

// pgStore implements the [Store] interface using pgx.
type pgStore struct {
	pool *pgxpool.Pool
}

// NewStore constructs a PostgreSQL backed keyword store.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

/*
ListTerms returns every banned term for a primary language code.

Description: Returns the stored surface forms unordered; callers are
responsible for normalization via [CleanTerms].

Parameters:
  - context: context.Context
  - languageCode: string (two-letter primary code)

Returns:
  - []string: Stored terms
  - error: Storage failures
*/
func (store *pgStore) ListTerms(context context.Context, languageCode string) ([]string, error) {

	// Retrieval query scoped to one language
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		schema.ModerationBannedKeyword.Term,
		schema.ModerationBannedKeyword.Table,
		schema.ModerationBannedKeyword.LanguageCode,
	)

	rows, err := store.pool.Query(context, query, languageCode)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list banned keywords: %w", err)
	}
	defer rows.Close()

	// Row iteration
	var terms []string
	for rows.Next() {
		var term string
		if err := rows.Scan(&term); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan banned keyword: %w", err)
		}
		terms = append(terms, term)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: keyword row iteration failed: %w", err)
	}

	return terms, nil
}
