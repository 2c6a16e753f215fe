// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

package moderation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/qissahq/qissa/internal/audiobook"
	"github.com/qissahq/qissa/internal/chapter"
	"github.com/qissahq/qissa/internal/platform/apperr"
)

// # Aggregate Notes

const (
	// NotesAllChaptersApproved is recorded on a fully clean audiobook.
	NotesAllChaptersApproved = "all chapters automatically approved"

	// NotesChaptersFlagged is recorded when any chapter requires attention.
	NotesChaptersFlagged = "one or more chapters require manual review"

	// NotesNoChapters is recorded on an audiobook with no chapters at all.
	NotesNoChapters = "no chapters"
)

// # Audiobook Reconciler

// Reconciler folds chapter verdicts into audiobook aggregate status.
type Reconciler struct {
	audiobooks audiobook.Store
	logger     *slog.Logger
}

// NewReconciler constructs a [Reconciler].
func NewReconciler(audiobooks audiobook.Store, logger *slog.Logger) *Reconciler {
	return &Reconciler{audiobooks: audiobooks, logger: logger}
}

/*
ReconcileAudiobook recomputes one audiobook's aggregate verdict.

Description: The resolution rules, applied under the aggregate's row lock:

  - No chapters at all: the audiobook becomes NEEDS_REVIEW and is pulled
    from listing (UNDER_REVIEW); an empty book has nothing to approve.
  - Any chapter still PENDING_REVIEW: defer. The chapter's own verdict will
    schedule another reconciliation, so nothing is written now.
  - Any chapter NEEDS_REVIEW or REJECTED: the audiobook becomes
    NEEDS_REVIEW and is pulled from listing (UNDER_REVIEW). Already-flagged
    books skip the redundant write.
  - Every chapter APPROVED: the audiobook becomes APPROVED. Publication
    status is deliberately untouched, so a re-approved book regains
    whatever visibility it had.

Idempotent by construction: replaying the task against an unchanged chapter
set resolves to the same state and writes nothing.

Parameters:
  - context: context.Context
  - audiobookID: string

Returns:
  - error: nil on any resolution; retryable failures otherwise
*/
func (reconciler *Reconciler) ReconcileAudiobook(context context.Context, audiobookID string) error {
	err := reconciler.audiobooks.Reconcile(context, audiobookID, reconciler.resolve)

	if apperr.IsNotFound(err) {
		reconciler.logger.Warn("audiobook_missing", slog.String("audiobook_id", audiobookID))
		return nil
	}
	return err
}

func (reconciler *Reconciler) resolve(_ context.Context, book *audiobook.Audiobook, statuses audiobook.ChapterStatuses) (*audiobook.Resolution, error) {
	if len(statuses) == 0 {
		if book.ModerationStatus == audiobook.StatusNeedsReview && book.PublicationStatus == audiobook.PublicationUnderReview {
			return nil, nil
		}
		underReview := audiobook.PublicationUnderReview
		reconciler.logger.Info("audiobook_flagged_no_chapters", slog.String("audiobook_id", book.ID))
		return &audiobook.Resolution{
			ModerationStatus:  audiobook.StatusNeedsReview,
			PublicationStatus: &underReview,
			Notes:             NotesNoChapters,
		}, nil
	}

	var pending, flagged int
	for _, status := range statuses {
		switch status {
		case chapter.StatusPendingReview:
			pending++
		case chapter.StatusApproved:
			// clean
		default:
			// NEEDS_REVIEW, REJECTED, and anything unrecognized all taint
			// the aggregate rather than slipping through.
			flagged++
		}
	}

	if pending > 0 {
		reconciler.logger.Info("reconcile_deferred",
			slog.String("audiobook_id", book.ID),
			slog.Int("pending_chapters", pending),
		)
		return nil, nil
	}

	if flagged > 0 {
		if book.ModerationStatus == audiobook.StatusNeedsReview && book.PublicationStatus == audiobook.PublicationUnderReview {
			return nil, nil
		}
		underReview := audiobook.PublicationUnderReview
		reconciler.logger.Info("audiobook_flagged",
			slog.String("audiobook_id", book.ID),
			slog.Int("flagged_chapters", flagged),
		)
		return &audiobook.Resolution{
			ModerationStatus:  audiobook.StatusNeedsReview,
			PublicationStatus: &underReview,
			Notes:             fmt.Sprintf("%s (%d of %d)", NotesChaptersFlagged, flagged, len(statuses)),
		}, nil
	}

	if book.ModerationStatus == audiobook.StatusApproved {
		return nil, nil
	}
	reconciler.logger.Info("audiobook_approved", slog.String("audiobook_id", book.ID))
	return &audiobook.Resolution{
		ModerationStatus: audiobook.StatusApproved,
		Notes:            NotesAllChaptersApproved,
	}, nil
}
