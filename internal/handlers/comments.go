package handlers

import (
	"net/http"

	"inkpress/internal/middleware"
	"inkpress/internal/service"
)

// Comments groups the comment endpoints nested under posts.
type Comments struct {
	comments *service.Comments
}

// NewComments creates the comments handler group.
func NewComments(comments *service.Comments) *Comments {
	return &Comments{comments: comments}
}

// List returns a post's comments newest first.
func (h *Comments) List(w http.ResponseWriter, r *http.Request) {
	postID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	items, err := h.comments.ListByPost(postID, queryInt(r, "page", 1), queryInt(r, "pageSize", 10))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

type commentRequest struct {
	Content string `json:"content"`
}

// Create adds a comment under the caller's identity.
func (h *Comments) Create(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		respondError(w, r, service.Unauthorized("authentication required"))
		return
	}

	postID, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	comment, err := h.comments.Create(postID, req.Content, id.UserID, id.DisplayName)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, comment)
}

// Update edits a comment. Authors only.
func (h *Comments) Update(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		respondError(w, r, service.Unauthorized("authentication required"))
		return
	}

	commentID, err := pathUUID(r, "commentId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.comments.Update(commentID, req.Content, id.UserID); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// Delete removes a comment. Author or admin.
func (h *Comments) Delete(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		respondError(w, r, service.Unauthorized("authentication required"))
		return
	}

	commentID, err := pathUUID(r, "commentId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.comments.Delete(commentID, id.UserID, id.IsAdmin()); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
