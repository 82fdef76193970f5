package models

import "time"

// DuelHistory is the durable record of a finished duel.
type DuelHistory struct {
	RoomID          string    `json:"room_id" db:"room_id"`
	ChallengerID    int64     `json:"challenger_id" db:"challenger_id"`
	OpponentID      int64     `json:"opponent_id" db:"opponent_id"`
	Subject         string    `json:"subject" db:"subject"`
	Chapter         string    `json:"chapter" db:"chapter"`
	ChallengerScore int       `json:"challenger_score" db:"challenger_score"`
	OpponentScore   int       `json:"opponent_score" db:"opponent_score"`
	WinnerID        *int64    `json:"winner_id" db:"winner_id"` // nil on a tie
	SummaryJSON     string    `json:"summary_json" db:"summary_json"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	FinishedAt      time.Time `json:"finished_at" db:"finished_at"`
}

// DuelAnswerRecord is one player's answer to one duel question. Immutable
// once written; forms the audit trail persisted at duel end.
type DuelAnswerRecord struct {
	RoomID         string  `json:"room_id" db:"room_id"`
	UserID         int64   `json:"user_id" db:"user_id"`
	QuestionID     int64   `json:"question_id" db:"question_id"`
	OrderIndex     int     `json:"order_index" db:"order_index"`
	Answer         int     `json:"answer" db:"answer"`
	CorrectAnswer  int     `json:"correct_answer" db:"correct_answer"`
	IsCorrect      bool    `json:"is_correct" db:"is_correct"`
	ElapsedSeconds float64 `json:"elapsed_seconds" db:"elapsed_seconds"`
	Score          int     `json:"score" db:"score"`
}
