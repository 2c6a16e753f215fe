// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

package chapter

import "context"

// # Store Contract

/*
Store is the persistence boundary for chapters.

Moderate loads the chapter under a row lock, calls decide with the current
row, and persists the returned verdict inside the same transaction. The lock
covers the full decision, including any slow upstream calls decide performs,
so concurrent workers serialize on the same chapter. A nil verdict from
decide commits without writing, which is how a retried task no-ops on an
already-terminal chapter.

MarkFailed is the crash path: it records a failure verdict only while the
chapter is still PENDING_REVIEW, so it can never clobber a verdict written
by a competing run.
*/
type Store interface {
	// FindByID returns the chapter or apperr.ErrNotFound.
	FindByID(context context.Context, id string) (*Chapter, error)

	// Moderate runs decide against the locked chapter and applies its verdict.
	Moderate(context context.Context, id string, decide func(context.Context, *Chapter) (*Verdict, error)) error

	// MarkFailed moves a still-pending chapter to NEEDS_REVIEW with notes.
	MarkFailed(context context.Context, id string, notes string) error
}
