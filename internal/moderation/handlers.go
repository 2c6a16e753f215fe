// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

package moderation

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/qissahq/qissa/internal/tasks"
)

// # Queue Handlers

/*
HandleTask adapts the moderator to the task queue.

Description: On the final allowed attempt of a still-failing task, the
chapter is parked as NEEDS_REVIEW so a human inherits it instead of the
queue silently dropping it, and a reconciliation is scheduled so the
parked verdict reaches the audiobook aggregate. The park is best-effort
and status-guarded, so it never overwrites a verdict written by a
concurrent run.
*/
func (moderator *Moderator) HandleTask(context context.Context, task *tasks.Task) error {
	var payload tasks.ModerateChapterPayload
	if err := json.Unmarshal(task.Payload, &payload); err != nil {
		return fmt.Errorf("moderation: malformed %s payload: %w", task.Kind, err)
	}

	err := moderator.ModerateChapter(context, payload.ChapterID)
	if err != nil && task.Exhausted() {
		moderator.parkChapter(context, payload.ChapterID)
	}
	return err
}

// parkChapter records a manual-review verdict on a chapter whose task ran
// out of attempts, then schedules a reconciliation of its audiobook. Best
// effort: the task is failing permanently either way, so park errors are
// logged rather than returned.
func (moderator *Moderator) parkChapter(context context.Context, chapterID string) {
	if err := moderator.chapters.MarkFailed(context, chapterID, NotesProcessingFailed); err != nil {
		moderator.logger.Error("chapter_park_failed",
			slog.String("chapter_id", chapterID),
			slog.String("error", err.Error()),
		)
		return
	}

	current, err := moderator.chapters.FindByID(context, chapterID)
	if err != nil {
		moderator.logger.Error("chapter_park_reconcile_skipped",
			slog.String("chapter_id", chapterID),
			slog.String("error", err.Error()),
		)
		return
	}
	if err := moderator.scheduleReconcile(context, current.AudiobookID); err != nil {
		moderator.logger.Error("chapter_park_reconcile_skipped",
			slog.String("chapter_id", chapterID),
			slog.String("error", err.Error()),
		)
	}
}

// HandleTask adapts the reconciler to the task queue.
func (reconciler *Reconciler) HandleTask(context context.Context, task *tasks.Task) error {
	var payload tasks.ReconcileAudiobookPayload
	if err := json.Unmarshal(task.Payload, &payload); err != nil {
		return fmt.Errorf("moderation: malformed %s payload: %w", task.Kind, err)
	}
	return reconciler.ReconcileAudiobook(context, payload.AudiobookID)
}
