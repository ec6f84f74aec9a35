package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Seeds/internal/scoring"
	"github.com/MikeSquared-Agency/Seeds/internal/store"
)

type ExplainHandler struct {
	store  store.Store
	engine *scoring.Engine
}

func NewExplainHandler(s store.Store, e *scoring.Engine) *ExplainHandler {
	return &ExplainHandler{store: s, engine: e}
}

// Explain returns the scoring breakdown for a seed under its board's
// current weights.
// GET /api/v1/seeds/{id}/score
func (h *ExplainHandler) Explain(w http.ResponseWriter, r *http.Request) {
	seed, ok := loadSeed(w, r, h.store)
	if !ok {
		return
	}

	board, err := h.store.GetBoard(r.Context(), seed.BoardID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if board == nil {
		writeError(w, http.StatusNotFound, "board not found")
		return
	}

	result := h.engine.Explain(seed, board.Weights)
	resp := map[string]interface{}{
		"seed_id":     seed.ID,
		"board_id":    board.ID,
		"title":       seed.DisplayTitle(),
		"weights":     board.Weights,
		"total_score": result.TotalScore,
		"max_score":   result.MaxScore,
		"factors":     result.Factors,
	}
	if result.ROI != nil {
		resp["roi"] = *result.ROI
	}
	if seed.Score != nil {
		resp["cached_score"] = *seed.Score
		resp["scored_at"] = seed.ScoredAt
	}

	writeJSON(w, http.StatusOK, resp)
}
