package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/MikeSquared-Agency/Seeds/internal/hermes"
	"github.com/MikeSquared-Agency/Seeds/internal/scoring"
	"github.com/MikeSquared-Agency/Seeds/internal/store"
)

type SeedsHandler struct {
	store    store.Store
	hermes   hermes.Client
	rescorer Rescorer
	logger   *slog.Logger
}

func NewSeedsHandler(s store.Store, h hermes.Client, rs Rescorer, logger *slog.Logger) *SeedsHandler {
	return &SeedsHandler{store: s, hermes: h, rescorer: rs, logger: logger}
}

type CreateSeedRequest struct {
	Title        string          `json:"title" validate:"max=200"`
	Description  string          `json:"description,omitempty" validate:"max=5000"`
	Ratings      scoring.Ratings `json:"ratings,omitempty"`
	Priority     string          `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	AmountGained *float64        `json:"amount_gained,omitempty" validate:"omitempty,gte=0"`
	AmountSpent  *float64        `json:"amount_spent,omitempty" validate:"omitempty,gte=0"`
}

type UpdateSeedRequest struct {
	Title        *string         `json:"title,omitempty" validate:"omitempty,max=200"`
	Description  *string         `json:"description,omitempty" validate:"omitempty,max=5000"`
	Ratings      scoring.Ratings `json:"ratings,omitempty"`
	Priority     *string         `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	AmountGained *float64        `json:"amount_gained,omitempty" validate:"omitempty,gte=0"`
	AmountSpent  *float64        `json:"amount_spent,omitempty" validate:"omitempty,gte=0"`
}

// Create handles POST /api/v1/boards/{id}/seeds
func (h *SeedsHandler) Create(w http.ResponseWriter, r *http.Request) {
	board, ok := loadBoard(w, r, h.store)
	if !ok {
		return
	}

	var req CreateSeedRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if fields := validate.Struct(req); fields != nil {
		writeValidationError(w, fields)
		return
	}
	ratings, err := req.Ratings.Normalize()
	if err != nil {
		writeDomainError(w, err)
		return
	}

	seed := &store.Seed{
		BoardID:      board.ID,
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Ratings:      ratings,
		Priority:     store.Priority(req.Priority),
		AmountGained: req.AmountGained,
		AmountSpent:  req.AmountSpent,
		Author:       userID(r),
	}
	if err := h.store.CreateSeed(r.Context(), seed); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.announce(hermes.SubjectSeedCreated(seed.ID.String()), seed, r)
	writeJSON(w, http.StatusCreated, seed)
}

// List handles GET /api/v1/boards/{id}/seeds
func (h *SeedsHandler) List(w http.ResponseWriter, r *http.Request) {
	board, ok := loadBoard(w, r, h.store)
	if !ok {
		return
	}

	filter := store.SeedFilter{
		BoardID: &board.ID,
		Author:  r.URL.Query().Get("author"),
		Limit:   queryInt(r, "limit"),
		Offset:  queryInt(r, "offset"),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := store.SeedStatus(s)
		if !status.Valid() {
			writeError(w, http.StatusBadRequest, "invalid status: "+s)
			return
		}
		filter.Status = &status
	}

	seeds, err := h.store.ListSeeds(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if seeds == nil {
		seeds = []*store.Seed{}
	}
	writeJSON(w, http.StatusOK, seeds)
}

// Get handles GET /api/v1/seeds/{id}
func (h *SeedsHandler) Get(w http.ResponseWriter, r *http.Request) {
	seed, ok := loadSeed(w, r, h.store)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, seed)
}

// Update handles PATCH /api/v1/seeds/{id}. Ratings, when present, replace
// the seed's ratings as a whole.
func (h *SeedsHandler) Update(w http.ResponseWriter, r *http.Request) {
	seed, ok := loadSeed(w, r, h.store)
	if !ok {
		return
	}

	var req UpdateSeedRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if fields := validate.Struct(req); fields != nil {
		writeValidationError(w, fields)
		return
	}

	if req.Title != nil {
		seed.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		seed.Description = *req.Description
	}
	if req.Ratings != nil {
		ratings, err := req.Ratings.Normalize()
		if err != nil {
			writeDomainError(w, err)
			return
		}
		seed.Ratings = ratings
	}
	if req.Priority != nil {
		seed.Priority = store.Priority(*req.Priority)
	}
	if req.AmountGained != nil {
		seed.AmountGained = req.AmountGained
	}
	if req.AmountSpent != nil {
		seed.AmountSpent = req.AmountSpent
	}

	if err := h.store.UpdateSeed(r.Context(), seed); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.announce(hermes.SubjectSeedUpdated(seed.ID.String()), seed, r)
	writeJSON(w, http.StatusOK, seed)
}

// Delete handles DELETE /api/v1/seeds/{id}
func (h *SeedsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	seed, ok := loadSeed(w, r, h.store)
	if !ok {
		return
	}
	if err := h.store.DeleteSeed(r.Context(), seed.ID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	publish(h.hermes, h.logger, hermes.SubjectSeedDeleted(seed.ID.String()), seedEvent(seed, r))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": seed.ID.String()})
}

// announce emits the seed event and queues the seed's board for rescoring.
func (h *SeedsHandler) announce(subject string, seed *store.Seed, r *http.Request) {
	publish(h.hermes, h.logger, subject, seedEvent(seed, r))
	if h.rescorer != nil {
		h.rescorer.Enqueue(seed.BoardID)
	}
}

func seedEvent(seed *store.Seed, r *http.Request) hermes.SeedEvent {
	return hermes.SeedEvent{
		SeedID:  seed.ID.String(),
		BoardID: seed.BoardID.String(),
		Title:   seed.DisplayTitle(),
		Status:  string(seed.Status),
		Actor:   userID(r),
	}
}

// loadSeed resolves the {id} URL param, writing 400/404/500 on failure.
func loadSeed(w http.ResponseWriter, r *http.Request, s store.Store) (*store.Seed, bool) {
	id, ok := urlUUID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid seed id")
		return nil, false
	}
	seed, err := s.GetSeed(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if seed == nil {
		writeError(w, http.StatusNotFound, "seed not found")
		return nil, false
	}
	return seed, true
}
