package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

// memPosts is an in-memory service.PostRepo for handler tests.
type memPosts struct {
	posts []*models.Post
}

func (r *memPosts) add(p *models.Post) *models.Post {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	r.posts = append(r.posts, p)
	return p
}

func (r *memPosts) GetAll() ([]models.Post, error) {
	out := make([]models.Post, len(r.posts))
	for i, p := range r.posts {
		out[i] = *p
	}
	return out, nil
}

func (r *memPosts) FindByID(id uuid.UUID) (*models.Post, error) {
	for _, p := range r.posts {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memPosts) FindBySlug(slug string) (*models.Post, error) {
	for _, p := range r.posts {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memPosts) ListPublished(page, pageSize int, categoryID *uuid.UUID) ([]models.Post, error) {
	var out []models.Post
	for _, p := range r.posts {
		if p.IsPublished && (categoryID == nil || p.CategoryID == *categoryID) {
			out = append(out, *p)
		}
	}
	start := (page - 1) * pageSize
	if start > len(out) {
		start = len(out)
	}
	end := start + pageSize
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

func (r *memPosts) ListUnpublished() ([]models.Post, error) {
	var out []models.Post
	for _, p := range r.posts {
		if !p.IsPublished {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memPosts) CreateWithImages(p *models.Post) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	for i := range p.Images {
		p.Images[i].ID = uuid.New()
		p.Images[i].PostID = p.ID
	}
	cp := *p
	r.posts = append(r.posts, &cp)
	return nil
}

func (r *memPosts) Update(p *models.Post) error {
	for _, existing := range r.posts {
		if existing.ID == p.ID {
			existing.Title = p.Title
			existing.Content = p.Content
			existing.CategoryID = p.CategoryID
			existing.UpdatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("post %s not found", p.ID)
}

func (r *memPosts) SetPublished(id uuid.UUID) error {
	for _, p := range r.posts {
		if p.ID == id {
			p.IsPublished = true
			return nil
		}
	}
	return fmt.Errorf("post %s not found", id)
}

func (r *memPosts) Delete(id uuid.UUID) error {
	for i, p := range r.posts {
		if p.ID == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("post %s not found", id)
}

func (r *memPosts) AddImages(postID uuid.UUID, images []models.PostImage) error {
	for _, p := range r.posts {
		if p.ID == postID {
			for i := range images {
				images[i].ID = uuid.New()
				images[i].PostID = postID
			}
			p.Images = append(p.Images, images...)
			return nil
		}
	}
	return fmt.Errorf("post %s not found", postID)
}

func (r *memPosts) RemoveImageAndReindex(imageID uuid.UUID, remaining []models.PostImage) error {
	for _, p := range r.posts {
		for _, img := range p.Images {
			if img.ID == imageID {
				p.Images = append([]models.PostImage(nil), remaining...)
				return nil
			}
		}
	}
	return fmt.Errorf("image %s not found", imageID)
}

func (r *memPosts) Statistics() (models.PostStatistics, error) {
	var stats models.PostStatistics
	for _, p := range r.posts {
		stats.TotalPosts++
		if p.IsPublished {
			stats.PublishedPosts++
		} else {
			stats.UnpublishedPosts++
		}
	}
	return stats, nil
}

// memCategories is an in-memory service.CategoryRepo.
type memCategories struct {
	categories []*models.Category
}

func (r *memCategories) add(name string) *models.Category {
	c := &models.Category{
		ID: uuid.New(), Name: name, Slug: fmt.Sprintf("cat-%d", len(r.categories)),
		IsActive: true, CreatedAt: time.Now(),
	}
	r.categories = append(r.categories, c)
	return c
}

func (r *memCategories) GetAll() ([]models.Category, error) {
	out := make([]models.Category, len(r.categories))
	for i, c := range r.categories {
		out[i] = *c
	}
	return out, nil
}

func (r *memCategories) FindByID(id uuid.UUID) (*models.Category, error) {
	for _, c := range r.categories {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCategories) FindBySlug(slug string) (*models.Category, error) {
	for _, c := range r.categories {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCategories) Create(c *models.Category) (*models.Category, error) {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	r.categories = append(r.categories, &cp)
	return c, nil
}

// memComments is an in-memory service.CommentRepo.
type memComments struct {
	comments []*models.Comment
}

func (r *memComments) FindByID(id uuid.UUID) (*models.Comment, error) {
	for _, c := range r.comments {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memComments) ListByPost(postID uuid.UUID, page, pageSize int) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			out = append(out, *c)
		}
	}
	start := (page - 1) * pageSize
	if start > len(out) {
		start = len(out)
	}
	end := start + pageSize
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

func (r *memComments) Create(c *models.Comment) (*models.Comment, error) {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	cp := *c
	r.comments = append(r.comments, &cp)
	return c, nil
}

func (r *memComments) Update(c *models.Comment) error {
	for _, existing := range r.comments {
		if existing.ID == c.ID {
			existing.Content = c.Content
			now := time.Now()
			existing.UpdatedAt = &now
			return nil
		}
	}
	return fmt.Errorf("comment %s not found", c.ID)
}

func (r *memComments) Delete(id uuid.UUID) error {
	for i, c := range r.comments {
		if c.ID == id {
			r.comments = append(r.comments[:i], r.comments[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("comment %s not found", id)
}

// memFiles is an in-memory storage.Store.
type memFiles struct {
	files map[string][]byte
}

func newMemFiles() *memFiles {
	return &memFiles{files: map[string][]byte{}}
}

func (f *memFiles) Save(_ context.Context, postID uuid.UUID, fileName, _ string, data []byte) (string, error) {
	path := fmt.Sprintf("posts/%s/%s-%d", postID, fileName, len(f.files))
	f.files[path] = data
	return path, nil
}

func (f *memFiles) SaveThumb(_ context.Context, postID uuid.UUID, data []byte) (string, error) {
	path := fmt.Sprintf("posts/%s/thumb-%d", postID, len(f.files))
	f.files[path] = data
	return path, nil
}

func (f *memFiles) Delete(_ context.Context, path string) error {
	delete(f.files, path)
	return nil
}

func (f *memFiles) FileURL(path string) string { return "/uploads/" + path }
