package models

import (
	"time"

	"github.com/google/uuid"
)

// Category groups posts. A post belongs to exactly one category.
type Category struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// PostCount is populated by store queries that join posts.
	PostCount int `json:"post_count"`
}
