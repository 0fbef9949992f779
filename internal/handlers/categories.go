package handlers

import (
	"net/http"

	"inkpress/internal/service"
)

// Categories groups the category endpoints.
type Categories struct {
	categories *service.Categories
}

// NewCategories creates the categories handler group.
func NewCategories(categories *service.Categories) *Categories {
	return &Categories{categories: categories}
}

// List returns all categories with their post counts.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.categories.GetAll()
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

type createCategoryRequest struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	IsActive *bool  `json:"is_active"`
}

// Create adds a category. Admin only. Categories default to active.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	category, err := h.categories.Create(req.Name, req.Slug, active)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, category)
}
