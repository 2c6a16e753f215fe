// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/qissahq/qissa/internal/platform/constants"
	"github.com/qissahq/qissa/internal/platform/database/schema"
	"github.com/qissahq/qissa/pkg/uuidv7"
)

// # PostgreSQL Repository

// pgStore implements the [Store] interface using pgx.
type pgStore struct {
	pool        *pgxpool.Pool
	maxAttempts int
	lease       time.Duration
}

// NewStore constructs a PostgreSQL backed task store. maxAttempts bounds
// every task enqueued through it; lease is the visibility timeout after
// which a running task is presumed orphaned and claimable again. Zero
// values select the platform defaults.
func NewStore(pool *pgxpool.Pool, maxAttempts int, lease time.Duration) Store {
	if maxAttempts <= 0 {
		maxAttempts = constants.DefaultTaskMaxAttempts
	}
	if lease <= 0 {
		lease = constants.DefaultTaskLease
	}
	return &pgStore{pool: pool, maxAttempts: maxAttempts, lease: lease}
}

/*
Enqueue inserts a pending task due immediately.

Parameters:
  - context: context.Context
  - kind: string (task kind constant)
  - payload: any (JSON-serializable payload struct)

Returns:
  - *Task: The stored task
  - error: Serialization or storage failures
*/
func (store *pgStore) Enqueue(context context.Context, kind string, payload any) (*Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("tasks: failed to encode payload: %w", err)
	}

	t := schema.ModerationTask
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, 0, $5, NOW())
		RETURNING %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
	`,
		t.Table,
		t.ID, t.Kind, t.Payload, t.Status, t.Attempts, t.MaxAttempts, t.RunAt,
		t.ID, t.Kind, t.Payload, t.Status, t.Attempts, t.MaxAttempts, t.RunAt, t.LastError, t.CreatedAt, t.UpdatedAt,
	)

	row := store.pool.QueryRow(context, query, uuidv7.Must(), kind, body, StatusPending, store.maxAttempts)
	task, err := scanTask(row)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to enqueue task: %w", err)
	}
	return task, nil
}

/*
Claim leases the next due pending task.

Description: A single UPDATE flips the oldest due task to running while
incrementing attempts, with the candidate row selected FOR UPDATE SKIP
LOCKED. Concurrent claimers therefore never receive the same task, and a
claimer that finds every due task already locked simply sees an empty queue.
A running task untouched for longer than the lease was orphaned by a dead
worker and becomes claimable again, counting as a fresh attempt.

Parameters:
  - context: context.Context

Returns:
  - *Task: The claimed task, or nil when no task is due
  - error: Storage failures
*/
func (store *pgStore) Claim(context context.Context) (*Task, error) {
	row := store.pool.QueryRow(context, store.claimQuery(), StatusRunning, StatusPending, store.lease.Seconds())
	task, err := scanTask(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: failed to claim task: %w", err)
	}
	return task, nil
}

// claimQuery builds the claim UPDATE: due pending tasks first, plus running
// tasks whose lease expired ($3, seconds since their last transition).
func (store *pgStore) claimQuery() string {
	t := schema.ModerationTask
	return fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = %s + 1, %s = NOW()
		WHERE %s = (
			SELECT %s FROM %s
			WHERE (%s = $2 AND %s <= NOW())
			   OR (%s = $1 AND %s < NOW() - make_interval(secs => $3))
			ORDER BY %s
			LIMIT 1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING %s, %s, %s, %s, %s, %s, %s, %s, %s, %s
	`,
		t.Table,
		t.Status, t.Attempts, t.Attempts, t.UpdatedAt,
		t.ID,
		t.ID, t.Table,
		t.Status, t.RunAt,
		t.Status, t.UpdatedAt,
		t.RunAt,
		t.ID, t.Kind, t.Payload, t.Status, t.Attempts, t.MaxAttempts, t.RunAt, t.LastError, t.CreatedAt, t.UpdatedAt,
	)
}

// MarkSucceeded finishes a running task.
func (store *pgStore) MarkSucceeded(context context.Context, id string) error {
	return store.transition(context, id, StatusSucceeded, nil, 0)
}

// Retry reschedules a running task to run again after delay, recording the
// error that caused the retry.
func (store *pgStore) Retry(context context.Context, id string, delay time.Duration, lastError string) error {
	return store.transition(context, id, StatusPending, &lastError, delay)
}

// MarkFailed parks a running task permanently with its last error.
func (store *pgStore) MarkFailed(context context.Context, id string, lastError string) error {
	return store.transition(context, id, StatusFailed, &lastError, 0)
}

func (store *pgStore) transition(context context.Context, id string, status Status, lastError *string, delay time.Duration) error {
	t := schema.ModerationTask
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = COALESCE($3, %s), %s = NOW() + make_interval(secs => $4), %s = NOW()
		WHERE %s = $1
	`,
		t.Table,
		t.Status, t.LastError, t.LastError, t.RunAt, t.UpdatedAt,
		t.ID,
	)
	if _, err := store.pool.Exec(context, query, id, status, lastError, delay.Seconds()); err != nil {
		return fmt.Errorf("postgres: failed to transition task to %s: %w", status, err)
	}
	return nil
}

func scanTask(row pgx.Row) (*Task, error) {
	var task Task
	err := row.Scan(
		&task.ID,
		&task.Kind,
		&task.Payload,
		&task.Status,
		&task.Attempts,
		&task.MaxAttempts,
		&task.RunAt,
		&task.LastError,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}
