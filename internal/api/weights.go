package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MikeSquared-Agency/Seeds/internal/hermes"
	"github.com/MikeSquared-Agency/Seeds/internal/metrics"
	"github.com/MikeSquared-Agency/Seeds/internal/scoring"
	"github.com/MikeSquared-Agency/Seeds/internal/store"
)

type WeightsHandler struct {
	store    store.Store
	hermes   hermes.Client
	rescorer Rescorer
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewWeightsHandler(s store.Store, h hermes.Client, rs Rescorer, m *metrics.Metrics, logger *slog.Logger) *WeightsHandler {
	return &WeightsHandler{store: s, hermes: h, rescorer: rs, metrics: m, logger: logger}
}

type SetWeightRequest struct {
	Value *float64 `json:"value" validate:"required"`
}

type SetWeightResponse struct {
	BoardID   string               `json:"board_id"`
	Dimension string               `json:"dimension"`
	Requested float64              `json:"requested"`
	Previous  scoring.WeightConfig `json:"previous"`
	Weights   scoring.WeightConfig `json:"weights"`
	Total     int                  `json:"total"`
	Capped    bool                 `json:"capped"`
}

// Get handles GET /api/v1/boards/{id}/weights
func (h *WeightsHandler) Get(w http.ResponseWriter, r *http.Request) {
	board, ok := loadBoard(w, r, h.store)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"board_id": board.ID,
		"weights":  board.Weights,
		"total":    board.Weights.Sum(),
	})
}

// Set handles PUT /api/v1/boards/{id}/weights/{dimension}. The new value is
// applied with the capping rule inside the board's row lock.
func (h *WeightsHandler) Set(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid board id")
		return
	}
	dim, err := scoring.ParseDimension(chi.URLParam(r, "dimension"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req SetWeightRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if fields := validate.Struct(req); fields != nil {
		writeValidationError(w, fields)
		return
	}

	var previous scoring.WeightConfig
	board, err := h.store.AdjustBoardWeights(r.Context(), id, func(current scoring.WeightConfig) (scoring.WeightConfig, error) {
		previous = current
		return current.SetWeight(int(dim), *req.Value)
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if board == nil {
		writeError(w, http.StatusNotFound, "board not found")
		return
	}

	capped := othersReduced(previous, board.Weights, dim)
	h.metrics.ObserveWeightAdjustment(capped)

	if h.hermes != nil {
		if err := h.hermes.Publish(hermes.SubjectBoardWeights(board.ID.String()), hermes.WeightsChangedEvent{
			BoardID:   board.ID.String(),
			Dimension: dim.Key(),
			Requested: *req.Value,
			Previous:  previous,
			Weights:   board.Weights,
			Capped:    capped,
			Actor:     userID(r),
		}); err != nil {
			h.logger.Warn("failed to publish weights event", "board_id", board.ID, "error", err)
		}
	}
	if h.rescorer != nil {
		h.rescorer.Enqueue(board.ID)
	}

	writeJSON(w, http.StatusOK, SetWeightResponse{
		BoardID:   board.ID.String(),
		Dimension: dim.Key(),
		Requested: *req.Value,
		Previous:  previous,
		Weights:   board.Weights,
		Total:     board.Weights.Sum(),
		Capped:    capped,
	})
}

// othersReduced reports whether any slot other than d lost weight.
func othersReduced(before, after scoring.WeightConfig, d scoring.Dimension) bool {
	for i := range before {
		if i != int(d) && after[i] < before[i] {
			return true
		}
	}
	return false
}
