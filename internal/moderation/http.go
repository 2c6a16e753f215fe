// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

package moderation

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/qissahq/qissa/internal/audiobook"
	"github.com/qissahq/qissa/internal/chapter"
	"github.com/qissahq/qissa/internal/platform/apperr"
	"github.com/qissahq/qissa/internal/platform/respond"
	"github.com/qissahq/qissa/internal/tasks"
)

// # Handler Implementation

// Handler implements the HTTP layer for the moderation pipeline.
//
// Mutative endpoints only enqueue work; the verdicts themselves are written
// by the worker pool and read back through the GET endpoints.
type Handler struct {
	queue      Enqueuer
	chapters   chapter.Store
	audiobooks audiobook.Store
}

// NewHandler constructs a new moderation [Handler].
func NewHandler(queue Enqueuer, chapters chapter.Store, audiobooks audiobook.Store) *Handler {
	return &Handler{queue: queue, chapters: chapters, audiobooks: audiobooks}
}

// RegisterRoutes attaches moderation endpoints to the root API router.
func (handler *Handler) RegisterRoutes(api chi.Router) {
	api.Post("/chapters/{chapterID}/moderate", handler.ModerateChapter)
	api.Get("/chapters/{chapterID}", handler.GetChapter)

	api.Post("/audiobooks/{audiobookID}/reconcile", handler.ReconcileAudiobook)
	api.Get("/audiobooks/{audiobookID}", handler.GetAudiobook)
}

// # Wire Views

type taskView struct {
	TaskID   string `json:"task_id"`
	Kind     string `json:"kind"`
	Status   string `json:"status"`
	Attempts int    `json:"attempts"`
}

type chapterView struct {
	ID               string    `json:"id"`
	AudiobookID      string    `json:"audiobook_id"`
	Position         int       `json:"position"`
	Language         string    `json:"language"`
	Transcript       *string   `json:"transcript,omitempty"`
	ModerationStatus string    `json:"moderation_status"`
	ModerationNotes  *string   `json:"moderation_notes,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type audiobookView struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Language          string    `json:"language"`
	ModerationStatus  string    `json:"moderation_status"`
	PublicationStatus string    `json:"publication_status"`
	ModerationNotes   *string   `json:"moderation_notes,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func requestID(request *http.Request, param string) (string, error) {
	raw := chi.URLParam(request, param)
	if _, err := uuid.Parse(raw); err != nil {
		return "", apperr.ValidationError(param + " must be a valid UUID")
	}
	return raw, nil
}

// # Chapter Endpoints

/*
POST /api/v1/chapters/{chapterID}/moderate.

Description: Schedules transcription and screening for one chapter. The
chapter does not need to be pending; replays against a decided chapter are
absorbed by the worker.

Response:
  - 202: taskView: The queued task
  - 400: ErrValidation: Malformed chapter ID
*/
func (handler *Handler) ModerateChapter(writer http.ResponseWriter, request *http.Request) {
	chapterID, err := requestID(request, "chapterID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	task, err := handler.queue.Enqueue(request.Context(), tasks.KindModerateChapter, tasks.ModerateChapterPayload{ChapterID: chapterID})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Accepted(writer, taskView{
		TaskID:   task.ID,
		Kind:     task.Kind,
		Status:   string(task.Status),
		Attempts: task.Attempts,
	})
}

/*
GET /api/v1/chapters/{chapterID}.

Description: Returns the chapter's current verdict, including the stored
transcript once moderation has run.

Response:
  - 200: chapterView
  - 404: ErrNotFound: Unknown chapter
*/
func (handler *Handler) GetChapter(writer http.ResponseWriter, request *http.Request) {
	chapterID, err := requestID(request, "chapterID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.chapters.FindByID(request.Context(), chapterID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, chapterView{
		ID:               result.ID,
		AudiobookID:      result.AudiobookID,
		Position:         result.Position,
		Language:         result.Language,
		Transcript:       result.Transcript,
		ModerationStatus: string(result.ModerationStatus),
		ModerationNotes:  result.ModerationNotes,
		UpdatedAt:        result.UpdatedAt,
	})
}

// # Audiobook Endpoints

/*
POST /api/v1/audiobooks/{audiobookID}/reconcile.

Description: Schedules a recomputation of the audiobook's aggregate verdict.
Normally the pipeline does this automatically after each chapter verdict;
the endpoint exists for operators repairing drift.

Response:
  - 202: taskView: The queued task
  - 400: ErrValidation: Malformed audiobook ID
*/
func (handler *Handler) ReconcileAudiobook(writer http.ResponseWriter, request *http.Request) {
	audiobookID, err := requestID(request, "audiobookID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	task, err := handler.queue.Enqueue(request.Context(), tasks.KindReconcileAudiobook, tasks.ReconcileAudiobookPayload{AudiobookID: audiobookID})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Accepted(writer, taskView{
		TaskID:   task.ID,
		Kind:     task.Kind,
		Status:   string(task.Status),
		Attempts: task.Attempts,
	})
}

/*
GET /api/v1/audiobooks/{audiobookID}.

Description: Returns the audiobook's aggregate moderation and publication
status.

Response:
  - 200: audiobookView
  - 404: ErrNotFound: Unknown audiobook
*/
func (handler *Handler) GetAudiobook(writer http.ResponseWriter, request *http.Request) {
	audiobookID, err := requestID(request, "audiobookID")
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.audiobooks.FindByID(request.Context(), audiobookID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, audiobookView{
		ID:                result.ID,
		Title:             result.Title,
		Language:          result.Language,
		ModerationStatus:  string(result.ModerationStatus),
		PublicationStatus: string(result.PublicationStatus),
		ModerationNotes:   result.ModerationNotes,
		UpdatedAt:         result.UpdatedAt,
	})
}
