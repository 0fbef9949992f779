package models

import (
	"time"

	"github.com/google/uuid"
)

// Post represents a blog post together with its ordered image set.
// Images are always loaded with the post; mutations to the image set go
// through the post service so the display-order invariant holds.
type Post struct {
	ID          uuid.UUID   `json:"id"`
	Title       string      `json:"title"`
	Slug        string      `json:"slug"`
	Content     string      `json:"content"`
	CategoryID  uuid.UUID   `json:"category_id"`
	IsPublished bool        `json:"is_published"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Images      []PostImage `json:"images"`

	// CategoryName is populated by store queries that join categories.
	CategoryName string `json:"category_name,omitempty"`
}

// FeaturedImage returns the image at display order 0, or nil if the
// post has no images.
func (p *Post) FeaturedImage() *PostImage {
	for i := range p.Images {
		if p.Images[i].DisplayOrder == 0 {
			return &p.Images[i]
		}
	}
	return nil
}

// PostImage represents a single image attached to a post. DisplayOrder
// values within a post form a contiguous 0..n-1 sequence; the image at
// order 0 is the featured one.
type PostImage struct {
	ID           uuid.UUID `json:"id"`
	PostID       uuid.UUID `json:"post_id"`
	FileName     string    `json:"file_name"`
	FilePath     string    `json:"-"` // storage handle, not exposed directly
	ThumbPath    *string   `json:"-"`
	FileSize     int64     `json:"file_size"`
	ContentType  string    `json:"content_type"`
	DisplayOrder int       `json:"display_order"`
	IsFeatured   bool      `json:"is_featured"`
	CreatedAt    time.Time `json:"created_at"`
}

// PostStatistics holds derived post counts. It is computed on demand
// and never persisted.
type PostStatistics struct {
	TotalPosts       int `json:"total_posts"`
	PublishedPosts   int `json:"published_posts"`
	UnpublishedPosts int `json:"unpublished_posts"`
}
