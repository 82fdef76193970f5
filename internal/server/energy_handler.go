package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/duelengine/internal/apperr"
	"github.com/example/duelengine/internal/energy"
	"github.com/example/duelengine/internal/logger"
)

// EnergyHandler serves the hearts check/consume endpoints.
type EnergyHandler struct {
	log  *logger.Logger
	gate *energy.Gate
}

// NewEnergyHandler creates an energy handler.
func NewEnergyHandler(log *logger.Logger, gate *energy.Gate) *EnergyHandler {
	return &EnergyHandler{
		log:  log.With("handler", "energy"),
		gate: gate,
	}
}

type userRequest struct {
	User int64 `json:"user"`
}

type heartsResponse struct {
	Hearts        int    `json:"hearts"`
	NextHeartInMS *int64 `json:"next_heart_in_ms"`
}

// CheckHearts handles POST /api/hearts/check
func (h *EnergyHandler) CheckHearts(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.User == 0 {
		respondError(c, apperr.Validation("user is required"))
		return
	}

	hearts, nextIn, err := h.gate.Check(req.User)
	if err != nil {
		h.log.Error("hearts check failed", "user_id", req.User, "error", err)
		respondError(c, err)
		return
	}
	resp := heartsResponse{Hearts: hearts}
	if nextIn != nil {
		ms := nextIn.Milliseconds()
		resp.NextHeartInMS = &ms
	}
	c.JSON(http.StatusOK, resp)
}

// ConsumeHeart handles POST /api/hearts/consume
func (h *EnergyHandler) ConsumeHeart(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.User == 0 {
		respondError(c, apperr.Validation("user is required"))
		return
	}

	hearts, err := h.gate.Consume(req.User)
	if err != nil {
		if !apperr.IsKind(err, apperr.KindInsufficientResource) {
			h.log.Error("heart consume failed", "user_id", req.User, "error", err)
		}
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"hearts": hearts})
}
