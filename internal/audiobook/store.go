// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

package audiobook

import "context"

// # Store Contract

/*
Store is the persistence boundary for audiobook aggregates.

Reconcile locks the audiobook row, reads every chapter's moderation status
inside the same transaction, and passes both to resolve. The snapshot of
chapter statuses is therefore consistent with the lock: a chapter verdict
committed after the lock is taken triggers its own reconcile task rather
than being half-seen here. A nil resolution commits without writing.
*/
type Store interface {
	// FindByID returns the audiobook or apperr.ErrNotFound.
	FindByID(context context.Context, id string) (*Audiobook, error)

	// Reconcile runs resolve against the locked aggregate and applies the result.
	Reconcile(context context.Context, id string, resolve func(context.Context, *Audiobook, ChapterStatuses) (*Resolution, error)) error
}
