package mastery

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertScore(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %.6f, want %.6f", name, got, want)
	}
}

func TestComputeScoreZeroAttempts(t *testing.T) {
	assertScore(t, "ComputeScore(0, 0)", ComputeScore(0, 0), 0)
}

func TestComputeScorePerfectAtSaturation(t *testing.T) {
	// 10/10 correct over 10 attempts hits the maximum.
	assertScore(t, "ComputeScore(10, 10)", ComputeScore(10, 10), 10)
}

func TestComputeScoreSingleLuckyAttempt(t *testing.T) {
	// One correct attempt: full accuracy but only 1/10 experience.
	assertScore(t, "ComputeScore(1, 1)", ComputeScore(1, 1), 1)
}

func TestComputeScoreExperienceSaturates(t *testing.T) {
	// Past 10 attempts, only accuracy matters.
	assertScore(t, "ComputeScore(20, 10)", ComputeScore(20, 10), 5)
	assertScore(t, "ComputeScore(100, 100)", ComputeScore(100, 100), 10)
}

func TestComputeScorePartialAccuracy(t *testing.T) {
	// 3/5 correct over 5 attempts: 0.6 * 10 * 0.5 = 3.
	assertScore(t, "ComputeScore(5, 3)", ComputeScore(5, 3), 3)
}

func TestComputeScoreAlwaysInRange(t *testing.T) {
	for attempts := 0; attempts <= 50; attempts++ {
		for correct := 0; correct <= attempts; correct++ {
			got := ComputeScore(attempts, correct)
			if got < 0 || got > 10 {
				t.Fatalf("ComputeScore(%d, %d) = %f, out of [0,10]", attempts, correct, got)
			}
		}
	}
}

type fakeCatalog struct {
	questions map[int64][]int64
}

func (f *fakeCatalog) QuestionIDs(kpID int64) ([]int64, error) {
	return f.questions[kpID], nil
}

type fakeStats struct {
	// keyed by question id
	attempts map[int64][2]int
}

func (f *fakeStats) Aggregate(userID int64, questionIDs []int64) (int, int, error) {
	var total, correct int
	for _, id := range questionIDs {
		total += f.attempts[id][0]
		correct += f.attempts[id][1]
	}
	return total, correct, nil
}

func TestStoreScoresOmitsUnattemptedPoints(t *testing.T) {
	catalog := &fakeCatalog{questions: map[int64][]int64{
		1: {101, 102},
		2: {201},
		3: {}, // no questions at all
	}}
	stats := &fakeStats{attempts: map[int64][2]int{
		101: {6, 3},
		102: {4, 2},
		// 201 never attempted
	}}
	store := NewStore(catalog, stats)

	scores, err := store.Scores(42, []int64{1, 2, 3})
	if err != nil {
		t.Fatalf("Scores: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("got %d scores, want 1: %v", len(scores), scores)
	}
	// kp 1: 10 attempts, 5 correct -> 0.5 * 10 * 1.0 = 5.
	assertScore(t, "scores[1]", scores[1], 5)
	if _, ok := scores[2]; ok {
		t.Error("kp 2 has no attempts but got a score")
	}
	if _, ok := scores[3]; ok {
		t.Error("kp 3 has no questions but got a score")
	}
}
