package duel

import (
	"encoding/json"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/duelengine/internal/apperr"
	"github.com/example/duelengine/internal/logger"
	"github.com/example/duelengine/pkg/models"
)

// Catalog is the question catalog the registry draws duels from.
type Catalog interface {
	ChaptersBySubject(subject string) ([]string, error)
	ByChapter(subject, chapter string, limit int) ([]models.Question, error)
}

// HistoryStore persists finished duels and their answer audit trail.
type HistoryStore interface {
	SaveResult(history *models.DuelHistory, answers []models.DuelAnswerRecord) error
}

// Options tune registry behavior.
type Options struct {
	// QuestionCount is the number of questions drawn per duel.
	QuestionCount int
	// JoinTimeout cancels rooms the opponent never joined.
	JoinTimeout time.Duration
	// AnswerTimeout cancels active rooms with no answer activity.
	AnswerTimeout time.Duration
	// Retention keeps finished and cancelled rooms available for retried
	// result reads before the reaper evicts them.
	Retention time.Duration
}

// DefaultOptions mirror the production defaults.
func DefaultOptions() Options {
	return Options{
		QuestionCount: 5,
		JoinTimeout:   2 * time.Minute,
		AnswerTimeout: 90 * time.Second,
		Retention:     5 * time.Minute,
	}
}

// Registry creates, looks up and retires duel rooms. It is the only
// mutable shared state in the engine: the room map is guarded by its own
// lock, while each room serializes its own gameplay, so two rooms never
// block each other.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	catalog Catalog
	history HistoryStore
	log     *logger.Logger
	opts    Options

	now  func() time.Time
	rand *rand.Rand
	rmu  sync.Mutex
}

// NewRegistry creates a registry over the given catalog and history store.
func NewRegistry(catalog Catalog, history HistoryStore, log *logger.Logger, opts Options) *Registry {
	if opts.QuestionCount <= 0 {
		opts.QuestionCount = DefaultOptions().QuestionCount
	}
	return &Registry{
		rooms:   make(map[string]*Room),
		catalog: catalog,
		history: history,
		log:     log.With("component", "duel_registry"),
		opts:    opts,
		now:     time.Now,
		rand:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (g *Registry) intn(n int) int {
	g.rmu.Lock()
	defer g.rmu.Unlock()
	return g.rand.Intn(n)
}

// Start creates a room in waiting_for_opponent and returns its id along
// with the resolved chapter. An empty or "random" chapter is resolved to a
// random chapter of the subject.
func (g *Registry) Start(challengerID, opponentID int64, subject, chapter string) (roomID, resolvedChapter string, err error) {
	if challengerID == opponentID {
		return "", "", apperr.Validation("challenger and opponent must differ")
	}
	if subject == "" {
		return "", "", apperr.Validation("subject is required")
	}

	if chapter == "" || strings.EqualFold(chapter, "random") {
		chapters, err := g.catalog.ChaptersBySubject(subject)
		if err != nil {
			return "", "", err
		}
		if len(chapters) == 0 {
			return "", "", apperr.NotFound("subject %q has no chapters", subject)
		}
		chapter = chapters[g.intn(len(chapters))]
	}

	questions, err := g.catalog.ByChapter(subject, chapter, g.opts.QuestionCount)
	if err != nil {
		return "", "", err
	}
	if len(questions) == 0 {
		return "", "", apperr.NotFound("no questions for subject %q chapter %q", subject, chapter)
	}

	room := newRoom(uuid.NewString(), challengerID, opponentID, subject, chapter, questions, g.now)

	g.mu.Lock()
	g.rooms[room.ID()] = room
	g.mu.Unlock()

	g.log.Info("duel started",
		"room_id", room.ID(),
		"challenger_id", challengerID,
		"opponent_id", opponentID,
		"subject", subject,
		"chapter", chapter,
		"questions", len(questions))
	return room.ID(), chapter, nil
}

func (g *Registry) room(roomID string) (*Room, error) {
	g.mu.RLock()
	room, ok := g.rooms[roomID]
	g.mu.RUnlock()
	if !ok {
		return nil, apperr.NotFound("room %s does not exist", roomID)
	}
	return room, nil
}

// Join lets the designated opponent activate the room.
func (g *Registry) Join(roomID string, playerID int64) error {
	room, err := g.room(roomID)
	if err != nil {
		return err
	}
	return room.Join(playerID)
}

// CurrentQuestion returns the answer-stripped question at the barrier.
func (g *Registry) CurrentQuestion(roomID string) (models.ClientQuestion, int, int, error) {
	room, err := g.room(roomID)
	if err != nil {
		return models.ClientQuestion{}, 0, 0, err
	}
	return room.CurrentQuestion()
}

// SubmitAnswer records one player's answer for the current question.
func (g *Registry) SubmitAnswer(roomID string, playerID int64, questionIndex, answer int, elapsedSeconds float64) (correct bool, score int, advanced bool, err error) {
	room, err := g.room(roomID)
	if err != nil {
		return false, 0, false, err
	}
	return room.SubmitAnswer(playerID, questionIndex, answer, elapsedSeconds)
}

// Result finishes the room and persists it. The in-memory result is always
// returned when available; a failed durable write is reported as a
// persistence error alongside it and only the write is retried on the next
// call, never the scoring.
func (g *Registry) Result(roomID string) (*Result, error) {
	room, err := g.room(roomID)
	if err != nil {
		return nil, err
	}

	result, err := room.Finish()
	if err != nil {
		return nil, err
	}

	if !room.isPersisted() {
		if perr := g.persist(room, result); perr != nil {
			g.log.Error("duel result persistence failed", "room_id", roomID, "error", perr)
			return result, apperr.Persistence(perr, "failed to persist result of room %s", roomID)
		}
		room.markPersisted()
	}
	return result, nil
}

func (g *Registry) persist(room *Room, result *Result) error {
	history, answers := room.snapshot()
	summary, err := json.Marshal(result.Summary)
	if err != nil {
		return err
	}
	history.SummaryJSON = string(summary)
	return g.history.SaveResult(history, answers)
}

// Cleanup removes a room without persisting anything. Used for abandoned
// rooms the caller gives up on.
func (g *Registry) Cleanup(roomID string) error {
	g.mu.Lock()
	room, ok := g.rooms[roomID]
	if ok {
		delete(g.rooms, roomID)
	}
	g.mu.Unlock()
	if !ok {
		return apperr.NotFound("room %s does not exist", roomID)
	}
	room.cancel()
	g.log.Info("duel cleaned up", "room_id", roomID)
	return nil
}

// Len returns the number of live rooms.
func (g *Registry) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rooms)
}

// Sweep cancels stale rooms and evicts terminal ones past retention. It is
// invoked periodically by the reaper and is safe to call concurrently with
// gameplay: room locks are only held briefly per room.
func (g *Registry) Sweep() {
	now := g.now()

	g.mu.RLock()
	rooms := make(map[string]*Room, len(g.rooms))
	for id, room := range g.rooms {
		rooms[id] = room
	}
	g.mu.RUnlock()

	var evict []string
	for id, room := range rooms {
		status, createdAt, lastActivity, finishedAt := room.reapState()
		switch status {
		case StatusWaitingForOpponent:
			if g.opts.JoinTimeout > 0 && now.Sub(createdAt) > g.opts.JoinTimeout {
				room.cancel()
				evict = append(evict, id)
				g.log.Info("duel cancelled, opponent never joined", "room_id", id)
			}
		case StatusActive:
			if g.opts.AnswerTimeout > 0 && now.Sub(lastActivity) > g.opts.AnswerTimeout {
				room.cancel()
				evict = append(evict, id)
				g.log.Info("duel cancelled, no answer activity", "room_id", id)
			}
		case StatusFinished, StatusCancelled:
			if g.opts.Retention > 0 && now.Sub(finishedAt) > g.opts.Retention {
				evict = append(evict, id)
			}
		}
	}

	if len(evict) == 0 {
		return
	}
	g.mu.Lock()
	for _, id := range evict {
		delete(g.rooms, id)
	}
	g.mu.Unlock()
}
