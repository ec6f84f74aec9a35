package api

import (
	"net/http"
	"strings"

	"github.com/MikeSquared-Agency/Seeds/internal/hermes"
	"github.com/MikeSquared-Agency/Seeds/internal/store"
)

type CommentsHandler struct {
	store  store.Store
	hermes hermes.Client
}

func NewCommentsHandler(s store.Store, h hermes.Client) *CommentsHandler {
	return &CommentsHandler{store: s, hermes: h}
}

type CreateCommentRequest struct {
	Body string `json:"body" validate:"required,notblank,max=2000"`
}

// Create handles POST /api/v1/seeds/{id}/comments
func (h *CommentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	seed, ok := loadSeed(w, r, h.store)
	if !ok {
		return
	}

	var req CreateCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if fields := validate.Struct(req); fields != nil {
		writeValidationError(w, fields)
		return
	}

	c := &store.Comment{
		SeedID: seed.ID,
		Author: userID(r),
		Body:   strings.TrimSpace(req.Body),
	}
	if err := h.store.CreateComment(r.Context(), c); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if h.hermes != nil {
		_ = h.hermes.Publish(hermes.SubjectCommentCreated(c.ID.String()), hermes.CommentEvent{
			CommentID: c.ID.String(),
			SeedID:    seed.ID.String(),
			Author:    c.Author,
		})
	}
	writeJSON(w, http.StatusCreated, c)
}

// List handles GET /api/v1/seeds/{id}/comments
func (h *CommentsHandler) List(w http.ResponseWriter, r *http.Request) {
	seed, ok := loadSeed(w, r, h.store)
	if !ok {
		return
	}
	comments, err := h.store.ListComments(r.Context(), seed.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if comments == nil {
		comments = []*store.Comment{}
	}
	writeJSON(w, http.StatusOK, comments)
}

// Delete handles DELETE /api/v1/comments/{id}
func (h *CommentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid comment id")
		return
	}
	if err := h.store.DeleteComment(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id.String()})
}
