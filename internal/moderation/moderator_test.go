// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

package moderation

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qissahq/qissa/internal/chapter"
	"github.com/qissahq/qissa/internal/platform/apperr"
	"github.com/qissahq/qissa/internal/screening"
	"github.com/qissahq/qissa/internal/sentiment"
	"github.com/qissahq/qissa/internal/tasks"
	"github.com/qissahq/qissa/internal/transcription"
)

// # Test Doubles

type memChapters struct {
	rows map[string]*chapter.Chapter
}

func (store *memChapters) FindByID(_ context.Context, id string) (*chapter.Chapter, error) {
	row, ok := store.rows[id]
	if !ok {
		return nil, apperr.NotFound("chapter")
	}
	copied := *row
	return &copied, nil
}

func (store *memChapters) Moderate(ctx context.Context, id string, decide func(context.Context, *chapter.Chapter) (*chapter.Verdict, error)) error {
	row, ok := store.rows[id]
	if !ok {
		return apperr.NotFound("chapter")
	}
	current := *row
	verdict, err := decide(ctx, &current)
	if err != nil {
		return err
	}
	if verdict != nil {
		if verdict.Transcript != nil {
			row.Transcript = verdict.Transcript
		}
		row.ModerationStatus = verdict.Status
		notes := verdict.Notes
		row.ModerationNotes = &notes
	}
	return nil
}

func (store *memChapters) MarkFailed(_ context.Context, id string, notes string) error {
	row, ok := store.rows[id]
	if !ok {
		return nil
	}
	if row.ModerationStatus != chapter.StatusPendingReview {
		return nil
	}
	row.ModerationStatus = chapter.StatusNeedsReview
	row.ModerationNotes = &notes
	return nil
}

type fakeTranscriber struct {
	transcript string
	err        error
	calls      int
}

func (client *fakeTranscriber) Transcribe(context.Context, string, string) (string, error) {
	client.calls++
	return client.transcript, client.err
}

type fakeKeywords struct {
	terms map[string][]string
}

func (source *fakeKeywords) KeywordsFor(_ context.Context, languageName string) []string {
	return source.terms[languageName]
}

type fakeSentiment struct {
	score sentiment.Score
	err   error
}

func (client *fakeSentiment) Analyze(context.Context, string) (sentiment.Score, error) {
	return client.score, client.err
}

type fakeQueue struct {
	enqueued []*tasks.Task
	err      error
}

func (queue *fakeQueue) Enqueue(_ context.Context, kind string, payload any) (*tasks.Task, error) {
	if queue.err != nil {
		return nil, queue.err
	}
	body, _ := json.Marshal(payload)
	task := &tasks.Task{ID: "queued", Kind: kind, Payload: body, Status: tasks.StatusPending, MaxAttempts: 4}
	queue.enqueued = append(queue.enqueued, task)
	return task, nil
}

// # Fixture

type moderatorFixture struct {
	chapters    *memChapters
	transcriber *fakeTranscriber
	queue       *fakeQueue
	moderator   *Moderator
}

func newModeratorFixture(transcriber *fakeTranscriber, keywords *fakeKeywords, scorer *fakeSentiment) *moderatorFixture {
	logger := slog.New(slog.DiscardHandler)

	pending := chapter.StatusPendingReview
	chapters := &memChapters{rows: map[string]*chapter.Chapter{
		"ch-1": {
			ID:               "ch-1",
			AudiobookID:      "ab-1",
			Position:         1,
			AudioPath:        "/var/qissa/audio/ch-1.mp3",
			Language:         "Urdu",
			ModerationStatus: pending,
		},
	}}

	if keywords == nil {
		keywords = &fakeKeywords{}
	}
	if scorer == nil {
		scorer = &fakeSentiment{score: sentiment.Score{Score: 0.4, Magnitude: 0.2}}
	}
	screener := screening.NewScreener(keywords, scorer, screening.DefaultThresholds(), logger)

	queue := &fakeQueue{}
	return &moderatorFixture{
		chapters:    chapters,
		transcriber: transcriber,
		queue:       queue,
		moderator:   NewModerator(chapters, transcriber, screener, queue, logger),
	}
}

func (fixture *moderatorFixture) row(id string) *chapter.Chapter {
	return fixture.chapters.rows[id]
}

// # Workflow Verdicts

func TestModerateChapter_ApprovesCleanChapter(t *testing.T) {
	fixture := newModeratorFixture(&fakeTranscriber{transcript: "ek dafa ka zikr hai"}, nil, nil)

	require.NoError(t, fixture.moderator.ModerateChapter(t.Context(), "ch-1"))

	row := fixture.row("ch-1")
	assert.Equal(t, chapter.StatusApproved, row.ModerationStatus)
	require.NotNil(t, row.ModerationNotes)
	assert.Equal(t, NotesApproved, *row.ModerationNotes)
	require.NotNil(t, row.Transcript)
	assert.Equal(t, "ek dafa ka zikr hai", *row.Transcript)

	require.Len(t, fixture.queue.enqueued, 1)
	assert.Equal(t, tasks.KindReconcileAudiobook, fixture.queue.enqueued[0].Kind)
	assert.JSONEq(t, `{"audiobook_id":"ab-1"}`, string(fixture.queue.enqueued[0].Payload))
}

func TestModerateChapter_FlagsBannedKeyword(t *testing.T) {
	keywords := &fakeKeywords{terms: map[string][]string{"Urdu": {"badword"}}}
	fixture := newModeratorFixture(&fakeTranscriber{transcript: "this chapter says badwrd aloud"}, keywords, nil)

	require.NoError(t, fixture.moderator.ModerateChapter(t.Context(), "ch-1"))

	row := fixture.row("ch-1")
	assert.Equal(t, chapter.StatusNeedsReview, row.ModerationStatus)
	require.NotNil(t, row.ModerationNotes)
	assert.Contains(t, *row.ModerationNotes, `"badword"`)
	require.NotNil(t, row.Transcript)
	require.Len(t, fixture.queue.enqueued, 1)
}

func TestModerateChapter_FlagsNegativeSentiment(t *testing.T) {
	scorer := &fakeSentiment{score: sentiment.Score{Score: -0.8, Magnitude: 2.5}}
	fixture := newModeratorFixture(&fakeTranscriber{transcript: "a long hateful rant"}, nil, scorer)

	require.NoError(t, fixture.moderator.ModerateChapter(t.Context(), "ch-1"))

	row := fixture.row("ch-1")
	assert.Equal(t, chapter.StatusNeedsReview, row.ModerationStatus)
	require.NotNil(t, row.ModerationNotes)
	assert.Contains(t, *row.ModerationNotes, "negative sentiment")
}

// # Graceful Degradation

func TestModerateChapter_MissingAudioPath(t *testing.T) {
	fixture := newModeratorFixture(&fakeTranscriber{}, nil, nil)
	fixture.row("ch-1").AudioPath = "   "

	require.NoError(t, fixture.moderator.ModerateChapter(t.Context(), "ch-1"))

	row := fixture.row("ch-1")
	assert.Equal(t, chapter.StatusNeedsReview, row.ModerationStatus)
	assert.Equal(t, NotesNoAudioPath, *row.ModerationNotes)
	assert.Zero(t, fixture.transcriber.calls, "no transcription without an artifact")
	require.Len(t, fixture.queue.enqueued, 1, "reconciliation still runs")
}

func TestModerateChapter_GracefulTranscriptionFailure(t *testing.T) {
	cases := []struct {
		name string
		err  *transcription.Error
	}{
		{"unsupported_format", &transcription.Error{Kind: transcription.KindUnsupportedFormat, Message: "unsupported audio format .flac"}},
		{"missing_audio", &transcription.Error{Kind: transcription.KindMissingAudio, Message: "audio artifact unreadable"}},
		{"credentials_missing", &transcription.Error{Kind: transcription.KindCredentialsMissing, Message: "speech credentials not configured"}},
		{"upstream_rejection", &transcription.Error{Kind: transcription.KindUpstreamError, Message: "speech service: quota exceeded"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fixture := newModeratorFixture(&fakeTranscriber{err: tc.err}, nil, nil)

			require.NoError(t, fixture.moderator.ModerateChapter(t.Context(), "ch-1"))

			row := fixture.row("ch-1")
			assert.Equal(t, chapter.StatusNeedsReview, row.ModerationStatus)
			assert.Equal(t, tc.err.Message, *row.ModerationNotes)
			require.Len(t, fixture.queue.enqueued, 1)
		})
	}
}

func TestModerateChapter_EmptyTranscript(t *testing.T) {
	fixture := newModeratorFixture(&fakeTranscriber{transcript: "  "}, nil, nil)

	require.NoError(t, fixture.moderator.ModerateChapter(t.Context(), "ch-1"))

	row := fixture.row("ch-1")
	assert.Equal(t, chapter.StatusNeedsReview, row.ModerationStatus)
	assert.Equal(t, NotesEmptyTranscript, *row.ModerationNotes)
}

// # Retry Semantics

func TestModerateChapter_UnexpectedErrorPropagates(t *testing.T) {
	fixture := newModeratorFixture(&fakeTranscriber{err: errors.New("connection reset")}, nil, nil)

	err := fixture.moderator.ModerateChapter(t.Context(), "ch-1")

	require.Error(t, err)
	assert.Equal(t, chapter.StatusPendingReview, fixture.row("ch-1").ModerationStatus, "no verdict on retryable failures")
	assert.Empty(t, fixture.queue.enqueued)
}

func TestModerateChapter_MissingChapterIsNotRetried(t *testing.T) {
	fixture := newModeratorFixture(&fakeTranscriber{}, nil, nil)

	require.NoError(t, fixture.moderator.ModerateChapter(t.Context(), "ch-gone"))
	assert.Empty(t, fixture.queue.enqueued)
}

func TestModerateChapter_ReplayOnDecidedChapterIsNoop(t *testing.T) {
	fixture := newModeratorFixture(&fakeTranscriber{transcript: "clean text"}, nil, nil)

	require.NoError(t, fixture.moderator.ModerateChapter(t.Context(), "ch-1"))
	first := *fixture.row("ch-1")

	require.NoError(t, fixture.moderator.ModerateChapter(t.Context(), "ch-1"))

	assert.Equal(t, first.ModerationStatus, fixture.row("ch-1").ModerationStatus)
	assert.Equal(t, 1, fixture.transcriber.calls, "decided chapters are not re-transcribed")
	assert.Len(t, fixture.queue.enqueued, 2, "every run still reconciles the audiobook")
}

// # Queue Adapter

func TestHandleTask_ParksChapterOnFinalAttempt(t *testing.T) {
	fixture := newModeratorFixture(&fakeTranscriber{err: errors.New("connection reset")}, nil, nil)

	payload, _ := json.Marshal(tasks.ModerateChapterPayload{ChapterID: "ch-1"})
	task := &tasks.Task{Kind: tasks.KindModerateChapter, Payload: payload, Attempts: 4, MaxAttempts: 4}

	err := fixture.moderator.HandleTask(t.Context(), task)

	require.Error(t, err, "the queue still records the failure")
	row := fixture.row("ch-1")
	assert.Equal(t, chapter.StatusNeedsReview, row.ModerationStatus)
	assert.Equal(t, NotesProcessingFailed, *row.ModerationNotes)

	// The parked verdict still has to reach the audiobook aggregate.
	require.Len(t, fixture.queue.enqueued, 1)
	assert.Equal(t, tasks.KindReconcileAudiobook, fixture.queue.enqueued[0].Kind)
	assert.JSONEq(t, `{"audiobook_id":"ab-1"}`, string(fixture.queue.enqueued[0].Payload))
}

func TestHandleTask_DoesNotParkBeforeFinalAttempt(t *testing.T) {
	fixture := newModeratorFixture(&fakeTranscriber{err: errors.New("connection reset")}, nil, nil)

	payload, _ := json.Marshal(tasks.ModerateChapterPayload{ChapterID: "ch-1"})
	task := &tasks.Task{Kind: tasks.KindModerateChapter, Payload: payload, Attempts: 1, MaxAttempts: 4}

	require.Error(t, fixture.moderator.HandleTask(t.Context(), task))
	assert.Equal(t, chapter.StatusPendingReview, fixture.row("ch-1").ModerationStatus)
	assert.Empty(t, fixture.queue.enqueued)
}

func TestHandleTask_MalformedPayload(t *testing.T) {
	fixture := newModeratorFixture(&fakeTranscriber{}, nil, nil)

	task := &tasks.Task{Kind: tasks.KindModerateChapter, Payload: []byte("{not json"), MaxAttempts: 4}

	assert.Error(t, fixture.moderator.HandleTask(t.Context(), task))
}
