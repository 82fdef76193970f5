// Package duel runs synchronized two-player quiz matches. Each live match
// is a Room owned by the Registry; both players drive the same room
// concurrently, so every room serializes access behind its own mutex.
package duel

import (
	"math"
	"sync"
	"time"

	"github.com/example/duelengine/internal/apperr"
	"github.com/example/duelengine/pkg/models"
)

// Status is the lifecycle state of a duel room.
type Status string

const (
	// StatusWaitingForOpponent means the room exists but the opponent has
	// not joined yet.
	StatusWaitingForOpponent Status = "waiting_for_opponent"
	// StatusActive means both players are in and questions are live.
	StatusActive Status = "active"
	// StatusFinished means the result has been computed.
	StatusFinished Status = "finished"
	// StatusCancelled means the room was aborted before finishing.
	StatusCancelled Status = "cancelled"
)

// baseScore is awarded for any correct answer; the time bonus on top of it
// decays by 10 points per tenth of a second, floored at zero.
const (
	baseScore    = 100
	maxTimeBonus = 100
)

// answerScore computes the points for one answer.
func answerScore(correct bool, elapsedSeconds float64) int {
	if !correct {
		return 0
	}
	bonus := maxTimeBonus - int(math.Floor(elapsedSeconds*10))
	if bonus < 0 {
		bonus = 0
	}
	return baseScore + bonus
}

// Summary describes a finished duel.
type Summary struct {
	Subject           string `json:"subject"`
	Chapter           string `json:"chapter"`
	TotalQuestions    int    `json:"total_questions"`
	ChallengerCorrect int    `json:"challenger_correct"`
	OpponentCorrect   int    `json:"opponent_correct"`
}

// Result is the outcome of a finished duel. WinnerID is nil on a tie.
type Result struct {
	RoomID          string  `json:"room_id"`
	ChallengerID    int64   `json:"challenger_id"`
	OpponentID      int64   `json:"opponent_id"`
	ChallengerScore int     `json:"challenger_score"`
	OpponentScore   int     `json:"opponent_score"`
	WinnerID        *int64  `json:"winner_id"`
	Summary         Summary `json:"summary"`
}

// Room is one live duel. All exported methods lock the room; the registry
// never touches room fields directly.
type Room struct {
	mu sync.Mutex

	id           string
	challengerID int64
	opponentID   int64
	subject      string
	chapter      string
	questions    []models.Question

	currentIndex int
	answers      map[int64]map[int]models.DuelAnswerRecord
	scores       map[int64]int

	status       Status
	createdAt    time.Time
	startedAt    time.Time
	finishedAt   time.Time
	lastActivity time.Time

	result    *Result
	persisted bool

	now func() time.Time
}

func newRoom(id string, challengerID, opponentID int64, subject, chapter string, questions []models.Question, now func() time.Time) *Room {
	created := now()
	return &Room{
		id:           id,
		challengerID: challengerID,
		opponentID:   opponentID,
		subject:      subject,
		chapter:      chapter,
		questions:    questions,
		answers: map[int64]map[int]models.DuelAnswerRecord{
			challengerID: {},
			opponentID:   {},
		},
		scores:       map[int64]int{challengerID: 0, opponentID: 0},
		status:       StatusWaitingForOpponent,
		createdAt:    created,
		lastActivity: created,
		now:          now,
	}
}

// ID returns the opaque room identifier.
func (r *Room) ID() string { return r.id }

// Chapter returns the resolved chapter the room draws questions from.
func (r *Room) Chapter() string { return r.chapter }

// Status returns the current lifecycle state.
func (r *Room) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

func (r *Room) isParticipant(playerID int64) bool {
	return playerID == r.challengerID || playerID == r.opponentID
}

// Join transitions the room to active. Only the designated opponent may
// join; a repeated join of an already active room is a no-op.
func (r *Room) Join(playerID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if playerID != r.opponentID {
		return apperr.Forbidden("user %d is not the invited opponent", playerID)
	}
	switch r.status {
	case StatusActive:
		// Retried join after a network hiccup.
		return nil
	case StatusWaitingForOpponent:
		r.status = StatusActive
		r.startedAt = r.now()
		r.lastActivity = r.startedAt
		return nil
	default:
		return apperr.InvalidState("room %s is %s", r.id, r.status)
	}
}

// CurrentQuestion returns the answer-stripped question both players are on,
// along with its index and the total question count.
func (r *Room) CurrentQuestion() (models.ClientQuestion, int, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusActive {
		return models.ClientQuestion{}, 0, 0, apperr.InvalidState("room %s is %s", r.id, r.status)
	}
	if r.currentIndex >= len(r.questions) {
		return models.ClientQuestion{}, 0, 0, apperr.InvalidState("room %s has no questions remaining", r.id)
	}
	q := r.questions[r.currentIndex]
	return q.Client(), r.currentIndex, len(r.questions), nil
}

// SubmitAnswer records one player's answer for the current question. The
// room only advances once both players have answered the index; the
// returned advanced flag reports whether this call moved the barrier.
func (r *Room) SubmitAnswer(playerID int64, questionIndex, answer int, elapsedSeconds float64) (correct bool, score int, advanced bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.isParticipant(playerID) {
		return false, 0, false, apperr.Forbidden("user %d is not a participant of room %s", playerID, r.id)
	}
	if r.status != StatusActive {
		return false, 0, false, apperr.InvalidState("room %s is %s", r.id, r.status)
	}
	if r.currentIndex >= len(r.questions) {
		return false, 0, false, apperr.InvalidState("room %s has no questions remaining", r.id)
	}
	if questionIndex != r.currentIndex {
		return false, 0, false, apperr.InvalidState(
			"answer for question %d rejected, room %s is on question %d",
			questionIndex, r.id, r.currentIndex)
	}
	if _, dup := r.answers[playerID][questionIndex]; dup {
		return false, 0, false, apperr.InvalidState(
			"user %d already answered question %d", playerID, questionIndex)
	}
	if answer < 0 || answer > 3 {
		return false, 0, false, apperr.Validation("answer index %d out of range", answer)
	}
	if elapsedSeconds < 0 {
		return false, 0, false, apperr.Validation("elapsed seconds must not be negative")
	}

	q := r.questions[questionIndex]
	correct = answer == q.CorrectIndex
	score = answerScore(correct, elapsedSeconds)

	r.answers[playerID][questionIndex] = models.DuelAnswerRecord{
		RoomID:         r.id,
		UserID:         playerID,
		QuestionID:     q.ID,
		OrderIndex:     questionIndex,
		Answer:         answer,
		CorrectAnswer:  q.CorrectIndex,
		IsCorrect:      correct,
		ElapsedSeconds: elapsedSeconds,
		Score:          score,
	}
	r.scores[playerID] += score
	r.lastActivity = r.now()

	// Barrier: advance only once both players answered this index.
	_, challengerDone := r.answers[r.challengerID][questionIndex]
	_, opponentDone := r.answers[r.opponentID][questionIndex]
	if challengerDone && opponentDone {
		r.currentIndex++
		advanced = true
	}
	return correct, score, advanced, nil
}

// Finish computes the duel result, transitioning the room to finished. A
// second call returns the already computed result without re-scoring.
func (r *Room) Finish() (*Result, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.result != nil {
		return r.result, nil
	}
	switch r.status {
	case StatusCancelled:
		return nil, apperr.InvalidState("room %s is cancelled", r.id)
	case StatusWaitingForOpponent:
		return nil, apperr.InvalidState("room %s has not started", r.id)
	}

	r.status = StatusFinished
	r.finishedAt = r.now()

	challengerScore := r.scores[r.challengerID]
	opponentScore := r.scores[r.opponentID]
	var winner *int64
	if challengerScore > opponentScore {
		w := r.challengerID
		winner = &w
	} else if opponentScore > challengerScore {
		w := r.opponentID
		winner = &w
	}

	r.result = &Result{
		RoomID:          r.id,
		ChallengerID:    r.challengerID,
		OpponentID:      r.opponentID,
		ChallengerScore: challengerScore,
		OpponentScore:   opponentScore,
		WinnerID:        winner,
		Summary: Summary{
			Subject:           r.subject,
			Chapter:           r.chapter,
			TotalQuestions:    len(r.questions),
			ChallengerCorrect: r.correctCountLocked(r.challengerID),
			OpponentCorrect:   r.correctCountLocked(r.opponentID),
		},
	}
	return r.result, nil
}

func (r *Room) correctCountLocked(playerID int64) int {
	count := 0
	for _, rec := range r.answers[playerID] {
		if rec.IsCorrect {
			count++
		}
	}
	return count
}

// cancel aborts a waiting or active room. Finished rooms are left alone.
func (r *Room) cancel() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status == StatusWaitingForOpponent || r.status == StatusActive {
		r.status = StatusCancelled
		r.finishedAt = r.now()
		return true
	}
	return false
}

// snapshot builds the durable records for a finished room. Answers are
// ordered by question index, challenger before opponent.
func (r *Room) snapshot() (*models.DuelHistory, []models.DuelAnswerRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := &models.DuelHistory{
		RoomID:          r.id,
		ChallengerID:    r.challengerID,
		OpponentID:      r.opponentID,
		Subject:         r.subject,
		Chapter:         r.chapter,
		ChallengerScore: r.scores[r.challengerID],
		OpponentScore:   r.scores[r.opponentID],
		CreatedAt:       r.createdAt,
		FinishedAt:      r.finishedAt,
	}
	if r.result != nil {
		history.WinnerID = r.result.WinnerID
	}

	var answers []models.DuelAnswerRecord
	for idx := 0; idx < len(r.questions); idx++ {
		for _, playerID := range []int64{r.challengerID, r.opponentID} {
			if rec, ok := r.answers[playerID][idx]; ok {
				answers = append(answers, rec)
			}
		}
	}
	return history, answers
}

// reapState reports what the reaper needs without exposing room internals.
func (r *Room) reapState() (status Status, createdAt, lastActivity, finishedAt time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status, r.createdAt, r.lastActivity, r.finishedAt
}

func (r *Room) markPersisted() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.persisted = true
}

func (r *Room) isPersisted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.persisted
}
