// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

/*
Package tasks implements the durable work queue that drives the moderation
pipeline.

Tasks live in PostgreSQL so in-flight moderation survives process restarts.
Workers claim pending tasks with FOR UPDATE SKIP LOCKED, so any number of
worker goroutines (or processes) can drain the queue without double-running
a task. A failed task retries after a fixed delay until its attempt budget
is exhausted, at which point it is parked as failed with its last error.
*/
package tasks

import (
	"encoding/json"
	"time"
)

// # Task Kinds

const (
	// KindModerateChapter transcribes and screens one chapter.
	KindModerateChapter = "chapter.moderate"

	// KindReconcileAudiobook recomputes one audiobook's aggregate verdict.
	KindReconcileAudiobook = "audiobook.reconcile"
)

// ModerateChapterPayload is the payload for [KindModerateChapter].
type ModerateChapterPayload struct {
	ChapterID string `json:"chapter_id"`
}

// ReconcileAudiobookPayload is the payload for [KindReconcileAudiobook].
type ReconcileAudiobookPayload struct {
	AudiobookID string `json:"audiobook_id"`
}

// # Task Lifecycle

// Status is the queue state of a task.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Task is one unit of queued pipeline work.
type Task struct {
	ID          string
	Kind        string
	Payload     json.RawMessage
	Status      Status
	Attempts    int
	MaxAttempts int
	RunAt       time.Time
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Exhausted reports whether the task has spent its full attempt budget.
func (t *Task) Exhausted() bool {
	return t.Attempts >= t.MaxAttempts
}
