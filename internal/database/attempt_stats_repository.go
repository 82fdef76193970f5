package database

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// AttemptStatsRepository handles database operations for attempt statistics
type AttemptStatsRepository struct{}

// NewAttemptStatsRepository creates a new repository instance
func NewAttemptStatsRepository() *AttemptStatsRepository {
	return &AttemptStatsRepository{}
}

// Aggregate sums a user's attempts across the given question IDs.
func (r *AttemptStatsRepository) Aggregate(userID int64, questionIDs []int64) (totalAttempts, correctAttempts int, err error) {
	if len(questionIDs) == 0 {
		return 0, 0, nil
	}

	query, args, err := sqlx.In(`
		SELECT COALESCE(SUM(total_attempts), 0), COALESCE(SUM(correct_attempts), 0)
		FROM attempt_stats
		WHERE user_id = ? AND question_id IN (?)`,
		userID, questionIDs,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to build stats query: %v", err)
	}
	query = DB.Rebind(query)
	if err := DB.QueryRow(query, args...).Scan(&totalAttempts, &correctAttempts); err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate attempt stats: %v", err)
	}
	return totalAttempts, correctAttempts, nil
}

// RecordAttempt upserts one answer attempt for a user and question.
func (r *AttemptStatsRepository) RecordAttempt(userID, questionID int64, correct bool) error {
	correctInc := 0
	if correct {
		correctInc = 1
	}

	if DB.DriverName() == "postgres" {
		_, err := DB.Exec(`
			INSERT INTO attempt_stats (user_id, question_id, total_attempts, correct_attempts, last_attempted_at)
			VALUES ($1, $2, 1, $3, NOW())
			ON CONFLICT (user_id, question_id) DO UPDATE SET
				total_attempts = attempt_stats.total_attempts + 1,
				correct_attempts = attempt_stats.correct_attempts + $3,
				last_attempted_at = NOW()`,
			userID, questionID, correctInc)
		if err != nil {
			return fmt.Errorf("failed to record attempt: %v", err)
		}
		return nil
	}

	_, err := DB.Exec(`
		INSERT INTO attempt_stats (user_id, question_id, total_attempts, correct_attempts, last_attempted_at)
		VALUES ($1, $2, 1, $3, $4)
		ON CONFLICT (user_id, question_id) DO UPDATE SET
			total_attempts = total_attempts + 1,
			correct_attempts = correct_attempts + $3,
			last_attempted_at = $4`,
		userID, questionID, correctInc, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record attempt: %v", err)
	}
	return nil
}
