package api

import (
	"net/http"

	"github.com/MikeSquared-Agency/Seeds/internal/hermes"
	"github.com/MikeSquared-Agency/Seeds/internal/store"
)

type AdminHandler struct {
	store    store.Store
	hermes   hermes.Client
	rescorer Rescorer
}

func NewAdminHandler(s store.Store, h hermes.Client, rs Rescorer) *AdminHandler {
	return &AdminHandler{store: s, hermes: h, rescorer: rs}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Approve handles POST /api/v1/seeds/{id}/approve
func (h *AdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.triage(w, r, store.StatusApproved, hermes.SubjectSeedApproved)
}

// Reject handles POST /api/v1/seeds/{id}/reject
func (h *AdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.triage(w, r, store.StatusRejected, hermes.SubjectSeedRejected)
}

func (h *AdminHandler) triage(w http.ResponseWriter, r *http.Request, status store.SeedStatus, subject func(string) string) {
	id, ok := urlUUID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid seed id")
		return
	}

	seed, err := h.store.SetSeedStatus(r.Context(), id, status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if seed == nil {
		writeError(w, http.StatusNotFound, "seed not found")
		return
	}

	if h.hermes != nil {
		_ = h.hermes.Publish(subject(seed.ID.String()), seedEvent(seed, r))
	}
	writeJSON(w, http.StatusOK, seed)
}

// Rescore handles POST /api/v1/boards/{id}/rescore
func (h *AdminHandler) Rescore(w http.ResponseWriter, r *http.Request) {
	board, ok := loadBoard(w, r, h.store)
	if !ok {
		return
	}
	if h.rescorer == nil {
		writeError(w, http.StatusServiceUnavailable, "rescoring is disabled")
		return
	}
	h.rescorer.Enqueue(board.ID)
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "queued", "board_id": board.ID.String()})
}
