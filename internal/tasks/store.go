// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

package tasks

import (
	"context"
	"time"
)

// # Store Contract

/*
Store is the persistence boundary for the task queue.

Claim atomically moves the oldest due pending task to running and increments
its attempt counter, so Task.Attempts always counts the run that is about to
execute. Claim returns (nil, nil) when no task is due.
*/
type Store interface {
	// Enqueue inserts a pending task due immediately.
	Enqueue(context context.Context, kind string, payload any) (*Task, error)

	// Claim leases the next due task for execution, or returns nil.
	Claim(context context.Context) (*Task, error)

	// MarkSucceeded finishes a running task.
	MarkSucceeded(context context.Context, id string) error

	// Retry reschedules a running task to run again after delay.
	Retry(context context.Context, id string, delay time.Duration, lastError string) error

	// MarkFailed parks a running task permanently with its last error.
	MarkFailed(context context.Context, id string, lastError string) error
}
