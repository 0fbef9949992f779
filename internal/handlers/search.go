package handlers

import (
	"net/http"

	"inkpress/internal/service"
)

// Search groups the search endpoints.
type Search struct {
	search *service.Search
}

// NewSearch creates the search handler group.
func NewSearch(search *service.Search) *Search {
	return &Search{search: search}
}

// Posts serves the public post search. Drafts never appear here.
func (h *Search) Posts(w http.ResponseWriter, r *http.Request) {
	h.servePosts(w, r, false)
}

// AdminPosts serves the admin post search, optionally including drafts.
func (h *Search) AdminPosts(w http.ResponseWriter, r *http.Request) {
	h.servePosts(w, r, r.URL.Query().Get("includeUnpublished") == "true")
}

func (h *Search) servePosts(w http.ResponseWriter, r *http.Request, includeUnpublished bool) {
	categoryID, err := queryUUID(r, "categoryId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	page, err := h.search.Posts(
		r.URL.Query().Get("q"),
		categoryID,
		queryInt(r, "page", 1),
		queryInt(r, "pageSize", 0),
		includeUnpublished,
	)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// Categories searches category names. Short queries yield an empty
// result rather than an error.
func (h *Search) Categories(w http.ResponseWriter, r *http.Request) {
	results, err := h.search.Categories(r.URL.Query().Get("q"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, results)
}
