// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

/*
Package chapter defines the audiobook chapter entity from the moderation
pipeline's point of view and its data access contract.

Chapters are created by the upload flow (out of scope) in PENDING_REVIEW.
The pipeline mutates each chapter exactly once per run to a terminal status;
human reviewers may later set REJECTED through the admin tooling.
*/
package chapter

import "time"

// # Moderation Status

// ModerationStatus is the lifecycle state of a chapter's verdict.
type ModerationStatus string

const (
	// StatusPendingReview is the initial state set by the upload flow.
	StatusPendingReview ModerationStatus = "PENDING_REVIEW"
	// StatusApproved means automated analysis found no violations.
	StatusApproved ModerationStatus = "APPROVED"
	// StatusNeedsReview means the chapter requires a human decision.
	StatusNeedsReview ModerationStatus = "NEEDS_REVIEW"
	// StatusRejected is set only by human reviewers.
	StatusRejected ModerationStatus = "REJECTED"
)

// Valid reports whether s is a known moderation status.
func (s ModerationStatus) Valid() bool {
	switch s {
	case StatusPendingReview, StatusApproved, StatusNeedsReview, StatusRejected:
		return true
	}
	return false
}

// Terminal reports whether s is any status other than PENDING_REVIEW.
func (s ModerationStatus) Terminal() bool {
	return s.Valid() && s != StatusPendingReview
}

// # Domain Model

// Chapter is one uploaded audiobook chapter.
//
// Language is the parent audiobook's declared language; chapters carry no
// language of their own, which keeps the same-language invariant in the schema.
type Chapter struct {
	ID               string
	AudiobookID      string
	Position         int
	AudioPath        string
	Language         string
	Transcript       *string
	ModerationStatus ModerationStatus
	ModerationNotes  *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Verdict is the outcome of one chapter moderation run.
//
// A nil Transcript leaves the stored transcript untouched.
type Verdict struct {
	Transcript *string
	Status     ModerationStatus
	Notes      string
}
