package api

import (
	"log/slog"
	"net/http"

	"github.com/MikeSquared-Agency/Seeds/internal/hermes"
	"github.com/MikeSquared-Agency/Seeds/internal/scoring"
	"github.com/MikeSquared-Agency/Seeds/internal/store"
)

type BoardsHandler struct {
	store  store.Store
	hermes hermes.Client
	logger *slog.Logger
}

func NewBoardsHandler(s store.Store, h hermes.Client, logger *slog.Logger) *BoardsHandler {
	return &BoardsHandler{store: s, hermes: h, logger: logger}
}

type CreateBoardRequest struct {
	Name        string                `json:"name" validate:"required,notblank,max=120"`
	Description string                `json:"description,omitempty" validate:"max=2000"`
	Weights     *scoring.WeightConfig `json:"weights,omitempty"`
}

type UpdateBoardRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,notblank,max=120"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

// Create handles POST /api/v1/boards
func (h *BoardsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBoardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if fields := validate.Struct(req); fields != nil {
		writeValidationError(w, fields)
		return
	}

	board := &store.Board{
		Name:        req.Name,
		Description: req.Description,
		Weights:     scoring.DefaultWeights(),
		CreatedBy:   userID(r),
	}
	if req.Weights != nil {
		if err := req.Weights.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		board.Weights = *req.Weights
	}

	if err := h.store.CreateBoard(r.Context(), board); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.publish(hermes.SubjectBoardCreated(board.ID.String()), hermes.BoardEvent{
		BoardID: board.ID.String(),
		Name:    board.Name,
		Actor:   userID(r),
	})
	writeJSON(w, http.StatusCreated, board)
}

// List handles GET /api/v1/boards
func (h *BoardsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := store.BoardFilter{
		CreatedBy: r.URL.Query().Get("created_by"),
		Limit:     queryInt(r, "limit"),
		Offset:    queryInt(r, "offset"),
	}
	boards, err := h.store.ListBoards(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if boards == nil {
		boards = []*store.Board{}
	}
	writeJSON(w, http.StatusOK, boards)
}

// Get handles GET /api/v1/boards/{id}
func (h *BoardsHandler) Get(w http.ResponseWriter, r *http.Request) {
	board, ok := h.loadBoard(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// Update handles PATCH /api/v1/boards/{id}
func (h *BoardsHandler) Update(w http.ResponseWriter, r *http.Request) {
	board, ok := h.loadBoard(w, r)
	if !ok {
		return
	}

	var req UpdateBoardRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if fields := validate.Struct(req); fields != nil {
		writeValidationError(w, fields)
		return
	}
	if req.Name != nil {
		board.Name = *req.Name
	}
	if req.Description != nil {
		board.Description = *req.Description
	}

	if err := h.store.UpdateBoard(r.Context(), board); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.publish(hermes.SubjectBoardUpdated(board.ID.String()), hermes.BoardEvent{
		BoardID: board.ID.String(),
		Name:    board.Name,
		Actor:   userID(r),
	})
	writeJSON(w, http.StatusOK, board)
}

// Delete handles DELETE /api/v1/boards/{id}. Seeds and comments go with it.
func (h *BoardsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	board, ok := h.loadBoard(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteBoard(r.Context(), board.ID); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.publish(hermes.SubjectBoardDeleted(board.ID.String()), hermes.BoardEvent{
		BoardID: board.ID.String(),
		Name:    board.Name,
		Actor:   userID(r),
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": board.ID.String()})
}

func (h *BoardsHandler) loadBoard(w http.ResponseWriter, r *http.Request) (*store.Board, bool) {
	return loadBoard(w, r, h.store)
}

func (h *BoardsHandler) publish(subject string, event interface{}) {
	publish(h.hermes, h.logger, subject, event)
}

// loadBoard resolves the {id} URL param, writing 400/404/500 on failure.
func loadBoard(w http.ResponseWriter, r *http.Request, s store.Store) (*store.Board, bool) {
	id, ok := urlUUID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid board id")
		return nil, false
	}
	board, err := s.GetBoard(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, false
	}
	if board == nil {
		writeError(w, http.StatusNotFound, "board not found")
		return nil, false
	}
	return board, true
}

func publish(h hermes.Client, logger *slog.Logger, subject string, event interface{}) {
	if h == nil {
		return
	}
	if err := h.Publish(subject, event); err != nil && logger != nil {
		logger.Warn("failed to publish event", "subject", subject, "error", err)
	}
}
