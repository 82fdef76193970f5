package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/example/duelengine/internal/apperr"
	"github.com/example/duelengine/internal/logger"
	"github.com/example/duelengine/internal/practice"
)

// PracticeHandler serves adaptive practice sets.
type PracticeHandler struct {
	log     *logger.Logger
	builder *practice.Builder
}

// NewPracticeHandler creates a practice handler.
func NewPracticeHandler(log *logger.Logger, builder *practice.Builder) *PracticeHandler {
	return &PracticeHandler{
		log:     log.With("handler", "practice"),
		builder: builder,
	}
}

// GetPracticeSet handles GET /api/practice-set?user=1&knowledge_ids=1,2,3
func (h *PracticeHandler) GetPracticeSet(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("user"), 10, 64)
	if err != nil {
		respondError(c, apperr.Validation("user must be an integer id"))
		return
	}
	knowledgeIDs, err := parseIDList(c.Query("knowledge_ids"))
	if err != nil {
		respondError(c, err)
		return
	}

	set, err := h.builder.BuildSet(userID, knowledgeIDs)
	if err != nil {
		h.log.Warn("practice set build failed", "user_id", userID, "error", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, set)
}

func parseIDList(raw string) ([]int64, error) {
	if raw == "" {
		return nil, apperr.Validation("knowledge_ids is required")
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, apperr.Validation("knowledge_ids must be comma-separated integers")
		}
		ids = append(ids, id)
	}
	return ids, nil
}
