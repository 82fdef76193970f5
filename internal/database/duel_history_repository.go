package database

import (
	"fmt"

	"github.com/example/duelengine/pkg/models"
)

// DuelHistoryRepository handles database operations for finished duels
type DuelHistoryRepository struct{}

// NewDuelHistoryRepository creates a new repository instance
func NewDuelHistoryRepository() *DuelHistoryRepository {
	return &DuelHistoryRepository{}
}

// SaveResult persists a finished duel and its answer audit trail in one
// transaction. Re-saving the same room is a no-op, so a retried persistence
// write after a partial failure is safe.
func (r *DuelHistoryRepository) SaveResult(history *models.DuelHistory, answers []models.DuelAnswerRecord) error {
	tx, err := DB.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO duel_history (
			room_id, challenger_id, opponent_id, subject, chapter,
			challenger_score, opponent_score, winner_id, summary_json,
			created_at, finished_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (room_id) DO NOTHING`,
		history.RoomID,
		history.ChallengerID,
		history.OpponentID,
		history.Subject,
		history.Chapter,
		history.ChallengerScore,
		history.OpponentScore,
		history.WinnerID,
		history.SummaryJSON,
		history.CreatedAt,
		history.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save duel history: %v", err)
	}

	// Rows affected == 0 means the room was already persisted; skip the
	// answers to keep the audit trail free of duplicates.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return tx.Commit()
	}

	for _, a := range answers {
		_, err := tx.Exec(`
			INSERT INTO duel_answers (
				room_id, user_id, question_id, order_index,
				answer, correct_answer, is_correct, elapsed_seconds, score
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			a.RoomID, a.UserID, a.QuestionID, a.OrderIndex,
			a.Answer, a.CorrectAnswer, a.IsCorrect, a.ElapsedSeconds, a.Score,
		)
		if err != nil {
			return fmt.Errorf("failed to save duel answer: %v", err)
		}
	}

	return tx.Commit()
}

// History returns a user's finished duels, most recent first.
func (r *DuelHistoryRepository) History(userID int64, limit int) ([]models.DuelHistory, error) {
	var history []models.DuelHistory
	err := DB.Select(&history, `
		SELECT * FROM duel_history
		WHERE challenger_id = $1 OR opponent_id = $1
		ORDER BY finished_at DESC LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get duel history: %v", err)
	}
	return history, nil
}
