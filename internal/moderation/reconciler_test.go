// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

package moderation

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qissahq/qissa/internal/audiobook"
	"github.com/qissahq/qissa/internal/chapter"
	"github.com/qissahq/qissa/internal/platform/apperr"
)

// # Test Doubles

type memAudiobooks struct {
	rows     map[string]*audiobook.Audiobook
	statuses map[string]audiobook.ChapterStatuses
	writes   int
}

func (store *memAudiobooks) FindByID(_ context.Context, id string) (*audiobook.Audiobook, error) {
	row, ok := store.rows[id]
	if !ok {
		return nil, apperr.NotFound("audiobook")
	}
	copied := *row
	return &copied, nil
}

func (store *memAudiobooks) Reconcile(ctx context.Context, id string, resolve func(context.Context, *audiobook.Audiobook, audiobook.ChapterStatuses) (*audiobook.Resolution, error)) error {
	row, ok := store.rows[id]
	if !ok {
		return apperr.NotFound("audiobook")
	}
	current := *row
	resolution, err := resolve(ctx, &current, store.statuses[id])
	if err != nil {
		return err
	}
	if resolution != nil {
		store.writes++
		row.ModerationStatus = resolution.ModerationStatus
		if resolution.PublicationStatus != nil {
			row.PublicationStatus = *resolution.PublicationStatus
		}
		notes := resolution.Notes
		row.ModerationNotes = &notes
	}
	return nil
}

func newReconcilerFixture(book *audiobook.Audiobook, statuses ...chapter.ModerationStatus) (*Reconciler, *memAudiobooks) {
	store := &memAudiobooks{
		rows:     map[string]*audiobook.Audiobook{book.ID: book},
		statuses: map[string]audiobook.ChapterStatuses{book.ID: statuses},
	}
	return NewReconciler(store, slog.New(slog.DiscardHandler)), store
}

func pendingBook() *audiobook.Audiobook {
	return &audiobook.Audiobook{
		ID:                "ab-1",
		Title:             "Shahr-e-Qissa",
		Language:          "Urdu",
		ModerationStatus:  audiobook.StatusPendingReview,
		PublicationStatus: audiobook.PublicationDraft,
	}
}

// # Aggregate Resolution

func TestReconcile_ApprovesWhenAllChaptersApproved(t *testing.T) {
	reconciler, store := newReconcilerFixture(pendingBook(),
		chapter.StatusApproved, chapter.StatusApproved, chapter.StatusApproved)

	require.NoError(t, reconciler.ReconcileAudiobook(t.Context(), "ab-1"))

	row := store.rows["ab-1"]
	assert.Equal(t, audiobook.StatusApproved, row.ModerationStatus)
	assert.Equal(t, audiobook.PublicationDraft, row.PublicationStatus, "approval never touches publication")
	assert.Equal(t, "all chapters automatically approved", *row.ModerationNotes)
}

func TestReconcile_FlagsWhenAnyChapterNeedsReview(t *testing.T) {
	reconciler, store := newReconcilerFixture(pendingBook(),
		chapter.StatusApproved, chapter.StatusNeedsReview, chapter.StatusApproved)

	require.NoError(t, reconciler.ReconcileAudiobook(t.Context(), "ab-1"))

	row := store.rows["ab-1"]
	assert.Equal(t, audiobook.StatusNeedsReview, row.ModerationStatus)
	assert.Equal(t, audiobook.PublicationUnderReview, row.PublicationStatus)
	assert.Contains(t, *row.ModerationNotes, "1 of 3")
}

func TestReconcile_RejectedChapterTaintsAggregate(t *testing.T) {
	book := pendingBook()
	book.PublicationStatus = audiobook.PublicationPublished
	reconciler, store := newReconcilerFixture(book,
		chapter.StatusApproved, chapter.StatusRejected)

	require.NoError(t, reconciler.ReconcileAudiobook(t.Context(), "ab-1"))

	row := store.rows["ab-1"]
	assert.Equal(t, audiobook.StatusNeedsReview, row.ModerationStatus)
	assert.Equal(t, audiobook.PublicationUnderReview, row.PublicationStatus, "published books are pulled from listing")
}

func TestReconcile_DefersWhilePending(t *testing.T) {
	reconciler, store := newReconcilerFixture(pendingBook(),
		chapter.StatusApproved, chapter.StatusPendingReview)

	require.NoError(t, reconciler.ReconcileAudiobook(t.Context(), "ab-1"))

	row := store.rows["ab-1"]
	assert.Equal(t, audiobook.StatusPendingReview, row.ModerationStatus)
	assert.Zero(t, store.writes)
}

func TestReconcile_NoChaptersFlagsAudiobook(t *testing.T) {
	reconciler, store := newReconcilerFixture(pendingBook())

	require.NoError(t, reconciler.ReconcileAudiobook(t.Context(), "ab-1"))

	row := store.rows["ab-1"]
	assert.Equal(t, audiobook.StatusNeedsReview, row.ModerationStatus)
	assert.Equal(t, audiobook.PublicationUnderReview, row.PublicationStatus)
	assert.Equal(t, NotesNoChapters, *row.ModerationNotes)

	// Replaying against the still-empty book writes nothing further.
	require.NoError(t, reconciler.ReconcileAudiobook(t.Context(), "ab-1"))
	assert.Equal(t, 1, store.writes)
}

// # Idempotence and Recovery

func TestReconcile_ReplayWritesNothing(t *testing.T) {
	reconciler, store := newReconcilerFixture(pendingBook(),
		chapter.StatusApproved, chapter.StatusNeedsReview)

	require.NoError(t, reconciler.ReconcileAudiobook(t.Context(), "ab-1"))
	require.NoError(t, reconciler.ReconcileAudiobook(t.Context(), "ab-1"))
	require.NoError(t, reconciler.ReconcileAudiobook(t.Context(), "ab-1"))

	assert.Equal(t, 1, store.writes)
	assert.Equal(t, audiobook.StatusNeedsReview, store.rows["ab-1"].ModerationStatus)
}

func TestReconcile_ReapprovalRestoresNothingButStatus(t *testing.T) {
	// A flagged book whose chapters were all cleared by human review.
	book := pendingBook()
	book.ModerationStatus = audiobook.StatusNeedsReview
	book.PublicationStatus = audiobook.PublicationUnderReview
	reconciler, store := newReconcilerFixture(book,
		chapter.StatusApproved, chapter.StatusApproved)

	require.NoError(t, reconciler.ReconcileAudiobook(t.Context(), "ab-1"))

	row := store.rows["ab-1"]
	assert.Equal(t, audiobook.StatusApproved, row.ModerationStatus)
	assert.Equal(t, audiobook.PublicationUnderReview, row.PublicationStatus,
		"publication is a human decision after review")
}

func TestReconcile_MissingAudiobookIsNotRetried(t *testing.T) {
	reconciler, _ := newReconcilerFixture(pendingBook())

	assert.NoError(t, reconciler.ReconcileAudiobook(t.Context(), "ab-gone"))
}
