// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

package chapter

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qissahq/qissa/internal/platform/database/schema"
	"github.com/qissahq/qissa/internal/platform/dberr"
)

// # PostgreSQL Repository

// pgStore implements the [Store] interface using pgx.
type pgStore struct {
	pool *pgxpool.Pool
}

// NewStore constructs a PostgreSQL backed chapter store.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

// selectChapter joins core.audiobook so the chapter carries its audiobook's
// declared language. The FOR UPDATE OF c lock is appended by callers that
// need write serialization.
func selectChapter() string {
	c := schema.CoreChapter
	a := schema.CoreAudiobook
	return fmt.Sprintf(`
		SELECT
			c.%s, c.%s, c.%s, c.%s, a.%s AS language,
			c.%s, c.%s, c.%s, c.%s, c.%s
		FROM %s c
		JOIN %s a ON c.%s = a.%s
		WHERE c.%s = $1
	`,
		c.ID, c.AudiobookID, c.Position, c.AudioPath, a.Language,
		c.Transcript, c.ModerationStatus, c.ModerationNotes, c.CreatedAt, c.UpdatedAt,
		c.Table,
		a.Table, c.AudiobookID, a.ID,
		c.ID,
	)
}

func scanChapter(row pgx.Row) (*Chapter, error) {
	var chapter Chapter
	err := row.Scan(
		&chapter.ID,
		&chapter.AudiobookID,
		&chapter.Position,
		&chapter.AudioPath,
		&chapter.Language,
		&chapter.Transcript,
		&chapter.ModerationStatus,
		&chapter.ModerationNotes,
		&chapter.CreatedAt,
		&chapter.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

/*
FindByID returns a single chapter with its audiobook's language resolved.

Parameters:
  - context: context.Context
  - id: string (chapter identifier)

Returns:
  - *Chapter: The chapter entity
  - error: apperr.ErrNotFound when the row is absent
*/
func (store *pgStore) FindByID(context context.Context, id string) (*Chapter, error) {
	row := store.pool.QueryRow(context, selectChapter(), id)
	chapter, err := scanChapter(row)
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	return chapter, nil
}

/*
Moderate loads the chapter FOR UPDATE, invokes decide, and persists the
returned verdict before committing.

Description: The row lock is held for the entire decide call, so two workers
racing on the same chapter serialize and the loser observes the winner's
terminal status. decide returning a nil verdict commits with no write.

Parameters:
  - context: context.Context
  - id: string (chapter identifier)
  - decide: callback producing the verdict for the locked row

Returns:
  - error: apperr.ErrNotFound, decide's error, or storage failures
*/
func (store *pgStore) Moderate(context context.Context, id string, decide func(context.Context, *Chapter) (*Verdict, error)) error {
	tx, err := store.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin moderation transaction: %w", err)
	}
	defer tx.Rollback(context)

	// Lock only the chapter row; the audiobook side of the join stays free.
	row := tx.QueryRow(context, selectChapter()+" FOR UPDATE OF c", id)
	chapter, err := scanChapter(row)
	if err != nil {
		return dberr.Wrap(err)
	}

	verdict, err := decide(context, chapter)
	if err != nil {
		return err
	}

	if verdict != nil {
		c := schema.CoreChapter
		query := fmt.Sprintf(`
			UPDATE %s
			SET %s = COALESCE($2, %s), %s = $3, %s = $4, %s = NOW()
			WHERE %s = $1
		`,
			c.Table,
			c.Transcript, c.Transcript, c.ModerationStatus, c.ModerationNotes, c.UpdatedAt,
			c.ID,
		)
		if _, err := tx.Exec(context, query, id, verdict.Transcript, verdict.Status, verdict.Notes); err != nil {
			return fmt.Errorf("postgres: failed to apply chapter verdict: %w", err)
		}
	}

	if err := tx.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit chapter verdict: %w", err)
	}
	return nil
}

/*
MarkFailed records a pipeline failure for a chapter that is still pending.

Description: The status guard makes this safe to call from any cleanup path;
a chapter already moved to a terminal status is left untouched.

Parameters:
  - context: context.Context
  - id: string (chapter identifier)
  - notes: string (operator-facing failure explanation)

Returns:
  - error: Storage failures only; a guarded no-op is not an error
*/
func (store *pgStore) MarkFailed(context context.Context, id string, notes string) error {
	c := schema.CoreChapter
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = NOW()
		WHERE %s = $1 AND %s = $4
	`,
		c.Table,
		c.ModerationStatus, c.ModerationNotes, c.UpdatedAt,
		c.ID, c.ModerationStatus,
	)
	if _, err := store.pool.Exec(context, query, id, StatusNeedsReview, notes, StatusPendingReview); err != nil {
		return fmt.Errorf("postgres: failed to mark chapter failed: %w", err)
	}
	return nil
}
