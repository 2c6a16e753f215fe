// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

/*
Package moderation orchestrates the content-moderation pipeline.

Two workflows, each driven by a queue task:

  - Chapter moderation: transcribe one chapter's audio, screen the
    transcript, and record a verdict on the chapter row.
  - Audiobook reconciliation: fold every chapter verdict into the
    audiobook's aggregate moderation and publication status.

Every chapter verdict schedules a reconciliation of its audiobook, so the
aggregate converges no matter how chapter tasks interleave.
*/
package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/qissahq/qissa/internal/chapter"
	"github.com/qissahq/qissa/internal/platform/apperr"
	"github.com/qissahq/qissa/internal/screening"
	"github.com/qissahq/qissa/internal/tasks"
	"github.com/qissahq/qissa/internal/transcription"
)

// # Verdict Notes

const (
	// NotesApproved is recorded when both screening passes are clean.
	NotesApproved = "approved by automated analysis"

	// NotesNoAudioPath is recorded when a chapter has no usable artifact.
	NotesNoAudioPath = "no valid audio path"

	// NotesEmptyTranscript is recorded when the speech service detects no speech.
	NotesEmptyTranscript = "transcribed as empty"

	// NotesProcessingFailed is recorded when the pipeline exhausts its
	// retries without reaching a verdict.
	NotesProcessingFailed = "processing failed, needs manual review"
)

// Enqueuer schedules follow-up pipeline work. Satisfied by [tasks.Store].
type Enqueuer interface {
	Enqueue(context context.Context, kind string, payload any) (*tasks.Task, error)
}

// # Chapter Moderator

// Moderator runs the chapter moderation workflow.
type Moderator struct {
	chapters    chapter.Store
	transcriber transcription.Client
	screener    *screening.Screener
	queue       Enqueuer
	logger      *slog.Logger
}

// NewModerator constructs a [Moderator] with its dependencies injected.
func NewModerator(
	chapters chapter.Store,
	transcriber transcription.Client,
	screener *screening.Screener,
	queue Enqueuer,
	logger *slog.Logger,
) *Moderator {
	return &Moderator{
		chapters:    chapters,
		transcriber: transcriber,
		screener:    screener,
		queue:       queue,
		logger:      logger,
	}
}

/*
ModerateChapter runs the full moderation workflow for one chapter.

Description: The chapter is decided under its row lock; a chapter already
carrying a terminal status is left untouched, which makes replays of the
same task harmless. Whatever the outcome, a reconciliation of the parent
audiobook is scheduled so the aggregate reflects the latest verdicts.

Graceful degradation: transcription failures with a known cause (missing
artifact, unsupported format, missing credentials, upstream rejection) are
verdicts, not errors. They move the chapter to NEEDS_REVIEW with the cause
in the notes. Only unexpected failures propagate to the queue for retry.

Parameters:
  - context: context.Context
  - chapterID: string

Returns:
  - error: nil on any recorded verdict; retryable failures otherwise
*/
func (moderator *Moderator) ModerateChapter(context context.Context, chapterID string) error {
	var audiobookID string

	err := moderator.chapters.Moderate(context, chapterID, moderator.decider(&audiobookID))

	switch {
	case err == nil:
		// fall through to reconciliation
	case apperr.IsNotFound(err):
		// Deleted between enqueue and claim; nothing to retry.
		moderator.logger.Warn("chapter_missing", slog.String("chapter_id", chapterID))
		return nil
	default:
		return err
	}

	return moderator.scheduleReconcile(context, audiobookID)
}

// decider builds the lock-scoped callback for one moderation run. It records
// the parent audiobook through audiobookID so the caller can schedule
// reconciliation after the lock is released.
func (moderator *Moderator) decider(audiobookID *string) func(context.Context, *chapter.Chapter) (*chapter.Verdict, error) {
	return func(context context.Context, current *chapter.Chapter) (*chapter.Verdict, error) {
		*audiobookID = current.AudiobookID

		if current.ModerationStatus.Terminal() {
			moderator.logger.Info("chapter_already_moderated",
				slog.String("chapter_id", current.ID),
				slog.String("status", string(current.ModerationStatus)),
			)
			return nil, nil
		}

		return moderator.decide(context, current)
	}
}

// decide produces the verdict for a still-pending chapter. Graceful
// transcription failures become NEEDS_REVIEW verdicts here; only unexpected
// errors are returned.
func (moderator *Moderator) decide(context context.Context, current *chapter.Chapter) (*chapter.Verdict, error) {
	if strings.TrimSpace(current.AudioPath) == "" {
		return &chapter.Verdict{Status: chapter.StatusNeedsReview, Notes: NotesNoAudioPath}, nil
	}

	transcript, err := moderator.transcriber.Transcribe(context, current.AudioPath, current.Language)
	if err != nil {
		if graceful := transcription.AsError(err); graceful != nil {
			moderator.logger.Warn("transcription_degraded",
				slog.String("chapter_id", current.ID),
				slog.String("kind", string(graceful.Kind)),
				slog.String("message", graceful.Message),
			)
			return &chapter.Verdict{Status: chapter.StatusNeedsReview, Notes: graceful.Message}, nil
		}
		return nil, fmt.Errorf("moderation: transcription of chapter %s: %w", current.ID, err)
	}

	if strings.TrimSpace(transcript) == "" {
		return &chapter.Verdict{
			Transcript: &transcript,
			Status:     chapter.StatusNeedsReview,
			Notes:      NotesEmptyTranscript,
		}, nil
	}

	result := moderator.screener.Screen(context, transcript, current.Language)
	verdict := &chapter.Verdict{Transcript: &transcript}
	if result.Inappropriate {
		verdict.Status = chapter.StatusNeedsReview
		verdict.Notes = result.Reason
	} else {
		verdict.Status = chapter.StatusApproved
		verdict.Notes = NotesApproved
	}

	moderator.logger.Info("chapter_verdict",
		slog.String("chapter_id", current.ID),
		slog.String("status", string(verdict.Status)),
		slog.String("notes", verdict.Notes),
	)
	return verdict, nil
}

func (moderator *Moderator) scheduleReconcile(context context.Context, audiobookID string) error {
	if audiobookID == "" {
		return nil
	}
	_, err := moderator.queue.Enqueue(context, tasks.KindReconcileAudiobook, tasks.ReconcileAudiobookPayload{AudiobookID: audiobookID})
	if err != nil {
		return fmt.Errorf("moderation: failed to schedule reconciliation of audiobook %s: %w", audiobookID, err)
	}
	return nil
}
