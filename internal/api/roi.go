package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Seeds/internal/scoring"
)

type ROIRequest struct {
	AmountGained *float64 `json:"amount_gained" validate:"required"`
	AmountSpent  *float64 `json:"amount_spent" validate:"required"`
}

// ROI handles POST /api/v1/roi
func ROI(w http.ResponseWriter, r *http.Request) {
	var req ROIRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if fields := validate.Struct(req); fields != nil {
		writeValidationError(w, fields)
		return
	}

	roi, err := scoring.CalculateROI(*req.AmountGained, *req.AmountSpent)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{
		"amount_gained": *req.AmountGained,
		"amount_spent":  *req.AmountSpent,
		"roi":           roi,
	})
}
