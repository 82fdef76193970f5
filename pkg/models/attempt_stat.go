package models

import "time"

// AttemptStat aggregates a user's answer attempts for one question. It is
// written by the answer-recording endpoint and read by the mastery store.
type AttemptStat struct {
	ID              int64     `json:"id" db:"id"`
	UserID          int64     `json:"user_id" db:"user_id"`
	QuestionID      int64     `json:"question_id" db:"question_id"`
	TotalAttempts   int       `json:"total_attempts" db:"total_attempts"`
	CorrectAttempts int       `json:"correct_attempts" db:"correct_attempts"`
	LastAttemptedAt time.Time `json:"last_attempted_at" db:"last_attempted_at"`
}
