// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

/*
Package audiobook defines the audiobook aggregate and its reconciliation
contract.

An audiobook's moderation status is derived from its chapters: any rejected
or review-flagged chapter taints the whole book, and approval requires every
chapter to have passed. Reconciliation runs after each chapter verdict and
is idempotent, so replays converge on the same aggregate state.
*/
package audiobook

import (
	"time"

	"github.com/qissahq/qissa/internal/chapter"
)

// # Status Enums

// ModerationStatus is the aggregate verdict over an audiobook's chapters.
type ModerationStatus string

const (
	StatusPendingReview ModerationStatus = "PENDING_REVIEW"
	StatusApproved      ModerationStatus = "APPROVED"
	StatusNeedsReview   ModerationStatus = "NEEDS_REVIEW"
)

// Valid reports whether s is a known aggregate status.
func (s ModerationStatus) Valid() bool {
	switch s {
	case StatusPendingReview, StatusApproved, StatusNeedsReview:
		return true
	}
	return false
}

// PublicationStatus is the listing visibility of an audiobook.
type PublicationStatus string

const (
	PublicationDraft       PublicationStatus = "DRAFT"
	PublicationPublished   PublicationStatus = "PUBLISHED"
	PublicationUnderReview PublicationStatus = "UNDER_REVIEW"
)

// Valid reports whether s is a known publication status.
func (s PublicationStatus) Valid() bool {
	switch s {
	case PublicationDraft, PublicationPublished, PublicationUnderReview:
		return true
	}
	return false
}

// # Domain Model

// Audiobook is the aggregate root for a set of chapters in one language.
type Audiobook struct {
	ID                string
	Title             string
	Language          string
	ModerationStatus  ModerationStatus
	PublicationStatus PublicationStatus
	ModerationNotes   *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Resolution is the outcome of one reconciliation run.
//
// A nil PublicationStatus leaves the stored publication status untouched;
// a re-approved book keeps whatever visibility it had before.
type Resolution struct {
	ModerationStatus  ModerationStatus
	PublicationStatus *PublicationStatus
	Notes             string
}

// ChapterStatuses is every chapter verdict for one audiobook, ordered by
// chapter position.
type ChapterStatuses []chapter.ModerationStatus
