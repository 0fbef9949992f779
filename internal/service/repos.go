package service

import (
	"github.com/google/uuid"

	"inkpress/internal/models"
)

// PostRepo is the persistence contract the post and search services
// depend on. *store.PostStore satisfies it.
type PostRepo interface {
	GetAll() ([]models.Post, error)
	FindByID(id uuid.UUID) (*models.Post, error)
	FindBySlug(slug string) (*models.Post, error)
	ListPublished(page, pageSize int, categoryID *uuid.UUID) ([]models.Post, error)
	ListUnpublished() ([]models.Post, error)
	CreateWithImages(p *models.Post) error
	Update(p *models.Post) error
	SetPublished(id uuid.UUID) error
	Delete(id uuid.UUID) error
	AddImages(postID uuid.UUID, images []models.PostImage) error
	RemoveImageAndReindex(imageID uuid.UUID, remaining []models.PostImage) error
	Statistics() (models.PostStatistics, error)
}

// CategoryRepo is the persistence contract for categories.
type CategoryRepo interface {
	GetAll() ([]models.Category, error)
	FindByID(id uuid.UUID) (*models.Category, error)
	FindBySlug(slug string) (*models.Category, error)
	Create(c *models.Category) (*models.Category, error)
}

// CommentRepo is the persistence contract for comments.
type CommentRepo interface {
	FindByID(id uuid.UUID) (*models.Comment, error)
	ListByPost(postID uuid.UUID, page, pageSize int) ([]models.Comment, error)
	Create(c *models.Comment) (*models.Comment, error)
	Update(c *models.Comment) error
	Delete(id uuid.UUID) error
}
