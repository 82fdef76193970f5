package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/duelengine/internal/apperr"
	"github.com/example/duelengine/internal/duel"
	"github.com/example/duelengine/internal/logger"
)

// DuelHandler serves the duel lifecycle endpoints.
type DuelHandler struct {
	log      *logger.Logger
	registry *duel.Registry
}

// NewDuelHandler creates a duel handler.
func NewDuelHandler(log *logger.Logger, registry *duel.Registry) *DuelHandler {
	return &DuelHandler{
		log:      log.With("handler", "duel"),
		registry: registry,
	}
}

type startDuelRequest struct {
	Challenger int64  `json:"challenger"`
	Opponent   int64  `json:"opponent"`
	Subject    string `json:"subject"`
	Chapter    string `json:"chapter"`
}

// Start handles POST /api/duel/start
func (h *DuelHandler) Start(c *gin.Context) {
	var req startDuelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("malformed request body"))
		return
	}
	if req.Challenger == 0 || req.Opponent == 0 {
		respondError(c, apperr.Validation("challenger and opponent are required"))
		return
	}

	roomID, chapter, err := h.registry.Start(req.Challenger, req.Opponent, req.Subject, req.Chapter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"room_id": roomID, "chapter": chapter})
}

type joinDuelRequest struct {
	Opponent int64 `json:"opponent"`
}

// Join handles POST /api/duel/:roomID/join
func (h *DuelHandler) Join(c *gin.Context) {
	var req joinDuelRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Opponent == 0 {
		respondError(c, apperr.Validation("opponent is required"))
		return
	}

	if err := h.registry.Join(c.Param("roomID"), req.Opponent); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Question handles GET /api/duel/:roomID/question
func (h *DuelHandler) Question(c *gin.Context) {
	question, index, total, err := h.registry.CurrentQuestion(c.Param("roomID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"question": question,
		"index":    index,
		"total":    total,
	})
}

type answerRequest struct {
	Player         int64   `json:"player"`
	QuestionIndex  *int    `json:"question_index"`
	Answer         *int    `json:"answer"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

// Answer handles POST /api/duel/:roomID/answer
func (h *DuelHandler) Answer(c *gin.Context) {
	var req answerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation("malformed request body"))
		return
	}
	if req.Player == 0 || req.QuestionIndex == nil || req.Answer == nil {
		respondError(c, apperr.Validation("player, question_index and answer are required"))
		return
	}

	correct, score, advanced, err := h.registry.SubmitAnswer(
		c.Param("roomID"), req.Player, *req.QuestionIndex, *req.Answer, req.ElapsedSeconds)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"correct":       correct,
		"score":         score,
		"room_advanced": advanced,
	})
}

// Result handles GET /api/duel/:roomID/result. A persistence failure does
// not hide the computed result: the summary is returned with persisted
// set to false and the failure is logged.
func (h *DuelHandler) Result(c *gin.Context) {
	roomID := c.Param("roomID")
	result, err := h.registry.Result(roomID)
	if err != nil {
		var e *apperr.Error
		if errors.As(err, &e) && e.Kind == apperr.KindPersistence && result != nil {
			h.log.Error("duel result returned without durable record", "room_id", roomID, "error", err)
			c.JSON(http.StatusOK, gin.H{"result": result, "persisted": false})
			return
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result, "persisted": true})
}

// Cleanup handles POST /api/duel/:roomID/cleanup
func (h *DuelHandler) Cleanup(c *gin.Context) {
	if err := h.registry.Cleanup(c.Param("roomID")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
