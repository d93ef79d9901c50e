package models

import "time"

// CardState tracks the learner's progress with a single Q-code using the Leitner system
type CardState struct {
	Code           string     `json:"code" db:"code"`
	Box            int        `json:"box" db:"box"`                           // Leitner box 0-4
	DueAt          time.Time  `json:"due_at" db:"due_at"`                     // Not reviewable before this instant
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty" db:"last_reviewed_at"` // Nil until first review
	ReviewCount    int        `json:"review_count" db:"review_count"`         // Total reviews ever performed
	CorrectCount   int        `json:"correct_count" db:"correct_count"`       // Subset of ReviewCount that were correct
}
