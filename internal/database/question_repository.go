package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/example/duelengine/pkg/models"
)

// QuestionRepository handles database operations for the question catalog
type QuestionRepository struct{}

// NewQuestionRepository creates a new repository instance
func NewQuestionRepository() *QuestionRepository {
	return &QuestionRepository{}
}

// ByID returns a question by ID
func (r *QuestionRepository) ByID(id int64) (*models.Question, error) {
	var q models.Question
	err := DB.Get(&q, "SELECT * FROM questions WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get question by ID: %v", err)
	}
	return &q, nil
}

// ByKnowledgePoint returns up to limit random questions for a knowledge
// point, excluding the given question IDs.
func (r *QuestionRepository) ByKnowledgePoint(kpID int64, excludeIDs []int64, limit int) ([]models.Question, error) {
	var questions []models.Question

	if len(excludeIDs) == 0 {
		query := "SELECT * FROM questions WHERE knowledge_point_id = $1 ORDER BY RANDOM() LIMIT $2"
		if err := DB.Select(&questions, query, kpID, limit); err != nil {
			return nil, fmt.Errorf("failed to get questions: %v", err)
		}
		return questions, nil
	}

	query, args, err := sqlx.In(
		"SELECT * FROM questions WHERE knowledge_point_id = ? AND id NOT IN (?) ORDER BY RANDOM() LIMIT ?",
		kpID, excludeIDs, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build question query: %v", err)
	}
	query = DB.Rebind(query)
	if err := DB.Select(&questions, query, args...); err != nil {
		return nil, fmt.Errorf("failed to get questions: %v", err)
	}
	return questions, nil
}

// QuestionIDs returns all question IDs belonging to a knowledge point.
func (r *QuestionRepository) QuestionIDs(kpID int64) ([]int64, error) {
	var ids []int64
	err := DB.Select(&ids, "SELECT id FROM questions WHERE knowledge_point_id = $1", kpID)
	if err != nil {
		return nil, fmt.Errorf("failed to get question IDs: %v", err)
	}
	return ids, nil
}

// ChaptersBySubject returns the distinct chapters of a subject, used to
// resolve a "random" chapter choice when starting a duel.
func (r *QuestionRepository) ChaptersBySubject(subject string) ([]string, error) {
	var chapters []string
	err := DB.Select(&chapters,
		"SELECT DISTINCT chapter FROM knowledge_points WHERE subject = $1 ORDER BY chapter", subject)
	if err != nil {
		return nil, fmt.Errorf("failed to get chapters: %v", err)
	}
	return chapters, nil
}

// ByChapter returns up to limit random questions from a subject chapter.
func (r *QuestionRepository) ByChapter(subject, chapter string, limit int) ([]models.Question, error) {
	var questions []models.Question
	query := `
		SELECT q.* FROM questions q
		JOIN knowledge_points kp ON q.knowledge_point_id = kp.id
		WHERE kp.subject = $1 AND kp.chapter = $2
		ORDER BY RANDOM() LIMIT $3
	`
	if err := DB.Select(&questions, query, subject, chapter, limit); err != nil {
		return nil, fmt.Errorf("failed to get chapter questions: %v", err)
	}
	return questions, nil
}

// KnowledgePointsByChapter returns the knowledge points of a subject chapter.
func (r *QuestionRepository) KnowledgePointsByChapter(subject, chapter string) ([]models.KnowledgePoint, error) {
	var kps []models.KnowledgePoint
	err := DB.Select(&kps,
		"SELECT * FROM knowledge_points WHERE subject = $1 AND chapter = $2 ORDER BY id", subject, chapter)
	if err != nil {
		return nil, fmt.Errorf("failed to get knowledge points: %v", err)
	}
	return kps, nil
}
