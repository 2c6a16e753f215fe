// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

package audiobook

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qissahq/qissa/internal/chapter"
	"github.com/qissahq/qissa/internal/platform/database/schema"
	"github.com/qissahq/qissa/internal/platform/dberr"
)

// # PostgreSQL Repository

// pgStore implements the [Store] interface using pgx.
type pgStore struct {
	pool *pgxpool.Pool
}

// NewStore constructs a PostgreSQL backed audiobook store.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

func selectAudiobook() string {
	a := schema.CoreAudiobook
	return fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
	`,
		a.ID, a.Title, a.Language, a.ModerationStatus, a.PublicationStatus,
		a.ModerationNotes, a.CreatedAt, a.UpdatedAt,
		a.Table,
		a.ID,
	)
}

func scanAudiobook(row pgx.Row) (*Audiobook, error) {
	var book Audiobook
	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Language,
		&book.ModerationStatus,
		&book.PublicationStatus,
		&book.ModerationNotes,
		&book.CreatedAt,
		&book.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

/*
FindByID returns a single audiobook aggregate.

Parameters:
  - context: context.Context
  - id: string (audiobook identifier)

Returns:
  - *Audiobook: The aggregate entity
  - error: apperr.ErrNotFound when the row is absent
*/
func (store *pgStore) FindByID(context context.Context, id string) (*Audiobook, error) {
	row := store.pool.QueryRow(context, selectAudiobook(), id)
	book, err := scanAudiobook(row)
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	return book, nil
}

/*
Reconcile locks the audiobook FOR UPDATE, snapshots its chapter statuses,
invokes resolve, and persists the returned resolution before committing.

Description: Chapter statuses are read inside the same transaction as the
aggregate lock, ordered by chapter position. resolve returning a nil
resolution commits with no write, which is how an already-flagged book
avoids redundant updates.

Parameters:
  - context: context.Context
  - id: string (audiobook identifier)
  - resolve: callback producing the resolution for the locked aggregate

Returns:
  - error: apperr.ErrNotFound, resolve's error, or storage failures
*/
func (store *pgStore) Reconcile(context context.Context, id string, resolve func(context.Context, *Audiobook, ChapterStatuses) (*Resolution, error)) error {
	tx, err := store.pool.Begin(context)
	if err != nil {
		return fmt.Errorf("postgres: failed to begin reconcile transaction: %w", err)
	}
	defer tx.Rollback(context)

	row := tx.QueryRow(context, selectAudiobook()+" FOR UPDATE", id)
	book, err := scanAudiobook(row)
	if err != nil {
		return dberr.Wrap(err)
	}

	statuses, err := chapterStatuses(context, tx, id)
	if err != nil {
		return err
	}

	resolution, err := resolve(context, book, statuses)
	if err != nil {
		return err
	}

	if resolution != nil {
		a := schema.CoreAudiobook
		query := fmt.Sprintf(`
			UPDATE %s
			SET %s = $2, %s = COALESCE($3, %s), %s = $4, %s = NOW()
			WHERE %s = $1
		`,
			a.Table,
			a.ModerationStatus, a.PublicationStatus, a.PublicationStatus, a.ModerationNotes, a.UpdatedAt,
			a.ID,
		)
		if _, err := tx.Exec(context, query, id, resolution.ModerationStatus, resolution.PublicationStatus, resolution.Notes); err != nil {
			return fmt.Errorf("postgres: failed to apply audiobook resolution: %w", err)
		}
	}

	if err := tx.Commit(context); err != nil {
		return fmt.Errorf("postgres: failed to commit audiobook resolution: %w", err)
	}
	return nil
}

// chapterStatuses reads every chapter verdict for the audiobook in position order.
func chapterStatuses(context context.Context, tx pgx.Tx, audiobookID string) (ChapterStatuses, error) {
	c := schema.CoreChapter
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 ORDER BY %s`,
		c.ModerationStatus, c.Table, c.AudiobookID, c.Position,
	)

	rows, err := tx.Query(context, query, audiobookID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list chapter statuses: %w", err)
	}
	defer rows.Close()

	var statuses ChapterStatuses
	for rows.Next() {
		var status chapter.ModerationStatus
		if err := rows.Scan(&status); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan chapter status: %w", err)
		}
		statuses = append(statuses, status)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: chapter status iteration failed: %w", err)
	}
	return statuses, nil
}
