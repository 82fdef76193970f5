package practice

import (
	"github.com/example/duelengine/internal/apperr"
	"github.com/example/duelengine/pkg/models"
)

// QuestionSource fetches random questions for a knowledge point, excluding
// ones already drawn in this session.
type QuestionSource interface {
	ByKnowledgePoint(knowledgePointID int64, excludeIDs []int64, limit int) ([]models.Question, error)
}

// ScoreSource returns the user's computed mastery scores for the given
// knowledge points. Missing entries mean no attempt data exists.
type ScoreSource interface {
	Scores(userID int64, knowledgeIDs []int64) (map[int64]float64, error)
}

// Set is one assembled practice session: the drawn questions (answers
// stripped) and the allocation that produced them.
type Set struct {
	Questions  []models.ClientQuestion `json:"questions"`
	Allocation map[int64]int           `json:"allocation"`
}

// Builder assembles practice sets from mastery scores and the catalog.
type Builder struct {
	scores    ScoreSource
	questions QuestionSource
	setSize   int
}

// NewBuilder creates a practice set builder drawing setSize questions per
// set.
func NewBuilder(scores ScoreSource, questions QuestionSource, setSize int) *Builder {
	if setSize <= 0 {
		setSize = 10
	}
	return &Builder{scores: scores, questions: questions, setSize: setSize}
}

// BuildSet allocates the set across the knowledge points by inverse
// mastery, draws each quota at random, and backfills from the remaining
// pool when a knowledge point runs short, until the set is full or the
// pool is exhausted.
func (b *Builder) BuildSet(userID int64, knowledgeIDs []int64) (*Set, error) {
	if len(knowledgeIDs) == 0 {
		return nil, apperr.Validation("at least one knowledge point is required")
	}
	seen := make(map[int64]bool, len(knowledgeIDs))
	for _, id := range knowledgeIDs {
		if seen[id] {
			return nil, apperr.Validation("duplicate knowledge point %d", id)
		}
		seen[id] = true
	}

	scores, err := b.scores.Scores(userID, knowledgeIDs)
	if err != nil {
		return nil, err
	}
	allocation := Allocate(knowledgeIDs, scores, b.setSize)

	var picked []models.ClientQuestion
	var pickedIDs []int64
	draw := func(kpID int64, limit int) error {
		if limit <= 0 {
			return nil
		}
		questions, err := b.questions.ByKnowledgePoint(kpID, pickedIDs, limit)
		if err != nil {
			return err
		}
		for _, q := range questions {
			picked = append(picked, q.Client())
			pickedIDs = append(pickedIDs, q.ID)
		}
		return nil
	}

	for _, kpID := range knowledgeIDs {
		if err := draw(kpID, allocation[kpID]); err != nil {
			return nil, err
		}
	}

	// Backfill: some knowledge points may hold fewer questions than their
	// quota. Keep sweeping the whole set until full or no progress.
	for len(picked) < b.setSize {
		before := len(picked)
		for _, kpID := range knowledgeIDs {
			if len(picked) >= b.setSize {
				break
			}
			if err := draw(kpID, b.setSize-len(picked)); err != nil {
				return nil, err
			}
		}
		if len(picked) == before {
			break
		}
	}

	return &Set{Questions: picked, Allocation: allocation}, nil
}
