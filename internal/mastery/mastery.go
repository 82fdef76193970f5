// Package mastery derives per-user, per-knowledge-point mastery scores
// from raw answer-attempt statistics.
package mastery

import "math"

// MaxScore is the upper bound of a mastery score.
const MaxScore = 10.0

// experienceSaturation is the attempt count at which experience maxes out,
// so a single lucky attempt cannot yield a high score.
const experienceSaturation = 10.0

// ComputeScore turns aggregated attempt counts into a mastery score in
// [0, 10]. Zero attempts score 0. Accuracy is scaled by experience, which
// saturates at 10 attempts.
func ComputeScore(attempts, correct int) float64 {
	if attempts <= 0 {
		return 0
	}
	accuracy := float64(correct) / float64(attempts)
	experience := math.Min(1, float64(attempts)/experienceSaturation)
	score := accuracy * MaxScore * experience
	return clamp(score, 0, MaxScore)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Catalog resolves a knowledge point to the IDs of its questions.
type Catalog interface {
	QuestionIDs(knowledgePointID int64) ([]int64, error)
}

// Stats aggregates a user's attempt counts over a set of questions.
type Stats interface {
	Aggregate(userID int64, questionIDs []int64) (totalAttempts, correctAttempts int, err error)
}

// Store computes mastery scores on demand from attempt statistics.
type Store struct {
	catalog Catalog
	stats   Stats
}

// NewStore creates a mastery store over the given catalog and statistics
// sources.
func NewStore(catalog Catalog, stats Stats) *Store {
	return &Store{catalog: catalog, stats: stats}
}

// Scores returns the mastery score for each knowledge point the user has
// attempt data for. Knowledge points without any recorded attempt are
// omitted from the result; substituting a default for missing entries is
// the caller's responsibility, not this store's.
func (s *Store) Scores(userID int64, knowledgeIDs []int64) (map[int64]float64, error) {
	scores := make(map[int64]float64, len(knowledgeIDs))
	for _, kpID := range knowledgeIDs {
		questionIDs, err := s.catalog.QuestionIDs(kpID)
		if err != nil {
			return nil, err
		}
		if len(questionIDs) == 0 {
			continue
		}
		total, correct, err := s.stats.Aggregate(userID, questionIDs)
		if err != nil {
			return nil, err
		}
		if total == 0 {
			continue
		}
		scores[kpID] = ComputeScore(total, correct)
	}
	return scores, nil
}
