package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/example/duelengine/internal/duel"
	"github.com/example/duelengine/internal/energy"
	"github.com/example/duelengine/internal/logger"
	"github.com/example/duelengine/internal/practice"
	"github.com/example/duelengine/pkg/models"
)

type fakeScores struct{}

func (fakeScores) Scores(userID int64, knowledgeIDs []int64) (map[int64]float64, error) {
	return nil, nil
}

type fakeQuestions struct{}

func (fakeQuestions) ByKnowledgePoint(kpID int64, excludeIDs []int64, limit int) ([]models.Question, error) {
	excluded := make(map[int64]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	var out []models.Question
	for i := 0; i < 20 && len(out) < limit; i++ {
		id := kpID*100 + int64(i)
		if !excluded[id] {
			out = append(out, models.Question{ID: id, KnowledgePointID: kpID, CorrectIndex: 1})
		}
	}
	return out, nil
}

func (fakeQuestions) ChaptersBySubject(subject string) ([]string, error) {
	if subject != "math" {
		return nil, nil
	}
	return []string{"algebra"}, nil
}

func (fakeQuestions) ByChapter(subject, chapter string, limit int) ([]models.Question, error) {
	questions := make([]models.Question, limit)
	for i := range questions {
		questions[i] = models.Question{ID: int64(1000 + i), CorrectIndex: 2}
	}
	return questions, nil
}

type fakeEnergyStore struct {
	mu     sync.Mutex
	states map[int64]models.EnergyState
}

func (f *fakeEnergyStore) Get(userID int64) (*models.EnergyState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if state, ok := f.states[userID]; ok {
		copied := state
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeEnergyStore) Upsert(state *models.EnergyState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[state.UserID] = *state
	return nil
}

type fakeHistory struct{}

func (fakeHistory) SaveResult(history *models.DuelHistory, answers []models.DuelAnswerRecord) error {
	return nil
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	builder := practice.NewBuilder(fakeScores{}, fakeQuestions{}, 10)
	gate := energy.NewGate(&fakeEnergyStore{states: make(map[int64]models.EnergyState)}, 5, 0)
	registry := duel.NewRegistry(fakeQuestions{}, fakeHistory{}, log, duel.DefaultOptions())
	return NewRouter(log, builder, gate, registry)
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	parsed := make(map[string]interface{})
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &parsed); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, parsed
}

func TestPracticeSetEndpoint(t *testing.T) {
	router := testRouter()

	rec, body := doJSON(t, router, http.MethodGet, "/api/practice-set?user=7&knowledge_ids=1,2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", rec.Code, body)
	}
	questions := body["questions"].([]interface{})
	if len(questions) != 10 {
		t.Errorf("got %d questions, want 10", len(questions))
	}
}

func TestPracticeSetValidation(t *testing.T) {
	router := testRouter()

	rec, _ := doJSON(t, router, http.MethodGet, "/api/practice-set?user=7", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	rec, _ = doJSON(t, router, http.MethodGet, "/api/practice-set?user=abc&knowledge_ids=1", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHeartsCheckAndConsume(t *testing.T) {
	router := testRouter()

	rec, body := doJSON(t, router, http.MethodPost, "/api/hearts/check", map[string]interface{}{"user": 7})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", rec.Code, body)
	}
	if body["hearts"].(float64) != 5 {
		t.Errorf("hearts = %v, want 5", body["hearts"])
	}

	for i := 0; i < 5; i++ {
		rec, _ = doJSON(t, router, http.MethodPost, "/api/hearts/consume", map[string]interface{}{"user": 7})
		if rec.Code != http.StatusOK {
			t.Fatalf("consume %d: status = %d", i, rec.Code)
		}
	}
	rec, body = doJSON(t, router, http.MethodPost, "/api/hearts/consume", map[string]interface{}{"user": 7})
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429 when out of hearts (body %v)", rec.Code, body)
	}
	if body["code"] != "insufficient_resource" {
		t.Errorf("code = %v, want insufficient_resource", body["code"])
	}
}

func TestDuelLifecycleOverHTTP(t *testing.T) {
	router := testRouter()

	rec, body := doJSON(t, router, http.MethodPost, "/api/duel/start", map[string]interface{}{
		"challenger": 100, "opponent": 200, "subject": "math", "chapter": "random",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("start status = %d, body = %v", rec.Code, body)
	}
	roomID := body["room_id"].(string)
	if body["chapter"] != "algebra" {
		t.Errorf("chapter = %v, want algebra", body["chapter"])
	}

	// A stranger cannot join.
	rec, _ = doJSON(t, router, http.MethodPost, "/api/duel/"+roomID+"/join", map[string]interface{}{"opponent": 999})
	if rec.Code != http.StatusForbidden {
		t.Errorf("stranger join status = %d, want 403", rec.Code)
	}
	rec, _ = doJSON(t, router, http.MethodPost, "/api/duel/"+roomID+"/join", map[string]interface{}{"opponent": 200})
	if rec.Code != http.StatusOK {
		t.Fatalf("join status = %d", rec.Code)
	}

	rec, body = doJSON(t, router, http.MethodGet, "/api/duel/"+roomID+"/question", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("question status = %d", rec.Code)
	}
	if body["index"].(float64) != 0 {
		t.Errorf("index = %v, want 0", body["index"])
	}

	for i := 0; i < 5; i++ {
		rec, body = doJSON(t, router, http.MethodPost, "/api/duel/"+roomID+"/answer", map[string]interface{}{
			"player": 100, "question_index": i, "answer": 2, "elapsed_seconds": 2,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("challenger answer %d: status = %d, body = %v", i, rec.Code, body)
		}
		if body["room_advanced"].(bool) {
			t.Errorf("room advanced after single answer at index %d", i)
		}
		rec, body = doJSON(t, router, http.MethodPost, "/api/duel/"+roomID+"/answer", map[string]interface{}{
			"player": 200, "question_index": i, "answer": 0, "elapsed_seconds": 5,
		})
		if rec.Code != http.StatusOK {
			t.Fatalf("opponent answer %d: status = %d, body = %v", i, rec.Code, body)
		}
		if !body["room_advanced"].(bool) {
			t.Errorf("room did not advance after both answered index %d", i)
		}
	}

	// Out-of-turn answer after exhaustion.
	rec, _ = doJSON(t, router, http.MethodPost, "/api/duel/"+roomID+"/answer", map[string]interface{}{
		"player": 100, "question_index": 0, "answer": 2, "elapsed_seconds": 2,
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("stale answer status = %d, want 409", rec.Code)
	}

	rec, body = doJSON(t, router, http.MethodGet, "/api/duel/"+roomID+"/result", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("result status = %d, body = %v", rec.Code, body)
	}
	if body["persisted"] != true {
		t.Errorf("persisted = %v, want true", body["persisted"])
	}
	result := body["result"].(map[string]interface{})
	if result["challenger_score"].(float64) != 900 {
		t.Errorf("challenger score = %v, want 900", result["challenger_score"])
	}
	if result["winner_id"].(float64) != 100 {
		t.Errorf("winner = %v, want 100", result["winner_id"])
	}

	rec, _ = doJSON(t, router, http.MethodPost, "/api/duel/"+roomID+"/cleanup", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("cleanup status = %d", rec.Code)
	}
	rec, _ = doJSON(t, router, http.MethodGet, "/api/duel/"+roomID+"/result", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("result after cleanup status = %d, want 404", rec.Code)
	}
}

func TestUnknownRoomIs404(t *testing.T) {
	router := testRouter()
	rec, body := doJSON(t, router, http.MethodGet, "/api/duel/nope/question", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if body["code"] != "not_found" {
		t.Errorf("code = %v, want not_found", body["code"])
	}
}

func TestStartDuelValidation(t *testing.T) {
	router := testRouter()
	rec, _ := doJSON(t, router, http.MethodPost, "/api/duel/start", map[string]interface{}{
		"challenger": 100, "opponent": 100, "subject": "math",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
