package service

import (
	"strings"

	"inkpress/internal/models"
	"inkpress/internal/slug"
)

// Categories handles category creation and listing.
type Categories struct {
	repo CategoryRepo
}

// NewCategories constructs the category service.
func NewCategories(repo CategoryRepo) *Categories {
	return &Categories{repo: repo}
}

// Create adds a category. The slug is derived from the name when not
// given explicitly and must be unique.
func (s *Categories) Create(name, catSlug string, isActive bool) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, BadRequest("category name is required")
	}

	if catSlug == "" {
		catSlug = slug.Make(name)
	}
	if catSlug == "" {
		return nil, BadRequest("category name must contain at least one letter or digit")
	}

	existing, err := s.repo.FindBySlug(catSlug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, BadRequest("a category with slug %q already exists", catSlug)
	}

	return s.repo.Create(&models.Category{Name: name, Slug: catSlug, IsActive: isActive})
}

// GetAll lists every category with its post count.
func (s *Categories) GetAll() ([]models.Category, error) {
	items, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Category{}
	}
	return items, nil
}
