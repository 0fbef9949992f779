package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

// memPostRepo is an in-memory PostRepo for service tests.
type memPostRepo struct {
	posts []*models.Post
}

func (r *memPostRepo) add(p *models.Post) *models.Post {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	r.posts = append(r.posts, p)
	return p
}

func (r *memPostRepo) GetAll() ([]models.Post, error) {
	out := make([]models.Post, len(r.posts))
	for i, p := range r.posts {
		out[i] = *p
	}
	return out, nil
}

func (r *memPostRepo) FindByID(id uuid.UUID) (*models.Post, error) {
	for _, p := range r.posts {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memPostRepo) FindBySlug(slug string) (*models.Post, error) {
	for _, p := range r.posts {
		if p.Slug == slug {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memPostRepo) ListPublished(page, pageSize int, categoryID *uuid.UUID) ([]models.Post, error) {
	var all []models.Post
	for _, p := range r.posts {
		if !p.IsPublished {
			continue
		}
		if categoryID != nil && p.CategoryID != *categoryID {
			continue
		}
		all = append(all, *p)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.Before(all[j].CreatedAt) })
	start := (page - 1) * pageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (r *memPostRepo) ListUnpublished() ([]models.Post, error) {
	var out []models.Post
	for _, p := range r.posts {
		if !p.IsPublished {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memPostRepo) CreateWithImages(p *models.Post) error {
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

func (r *memPostRepo) Update(p *models.Post) error {
	for _, existing := range r.posts {
		if existing.ID == p.ID {
			existing.Title = p.Title
			existing.Slug = p.Slug
			existing.Content = p.Content
			existing.CategoryID = p.CategoryID
			existing.UpdatedAt = time.Now()
			return nil
		}
	}
	return fmt.Errorf("post %s not found", p.ID)
}

func (r *memPostRepo) SetPublished(id uuid.UUID) error {
	for _, p := range r.posts {
		if p.ID == id {
			p.IsPublished = true
			return nil
		}
	}
	return fmt.Errorf("post %s not found", id)
}

func (r *memPostRepo) Delete(id uuid.UUID) error {
	for i, p := range r.posts {
		if p.ID == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("post %s not found", id)
}

func (r *memPostRepo) AddImages(postID uuid.UUID, images []models.PostImage) error {
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

func (r *memPostRepo) RemoveImageAndReindex(imageID uuid.UUID, remaining []models.PostImage) error {
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

func (r *memPostRepo) Statistics() (models.PostStatistics, error) {
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

// memCategoryRepo is an in-memory CategoryRepo.
type memCategoryRepo struct {
	categories []*models.Category
}

func (r *memCategoryRepo) add(name string) *models.Category {
	c := &models.Category{
		ID: uuid.New(), Name: name, Slug: fmt.Sprintf("cat-%d", len(r.categories)),
		IsActive: true, CreatedAt: time.Now(),
	}
	r.categories = append(r.categories, c)
	return c
}

func (r *memCategoryRepo) GetAll() ([]models.Category, error) {
	out := make([]models.Category, len(r.categories))
	for i, c := range r.categories {
		out[i] = *c
	}
	return out, nil
}

func (r *memCategoryRepo) FindByID(id uuid.UUID) (*models.Category, error) {
	for _, c := range r.categories {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCategoryRepo) FindBySlug(slug string) (*models.Category, error) {
	for _, c := range r.categories {
		if c.Slug == slug {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCategoryRepo) Create(c *models.Category) (*models.Category, error) {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	r.categories = append(r.categories, &cp)
	return c, nil
}

// memCommentRepo is an in-memory CommentRepo.
type memCommentRepo struct {
	comments []*models.Comment
}

func (r *memCommentRepo) FindByID(id uuid.UUID) (*models.Comment, error) {
	for _, c := range r.comments {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCommentRepo) ListByPost(postID uuid.UUID, page, pageSize int) ([]models.Comment, error) {
	var all []models.Comment
	for _, c := range r.comments {
		if c.PostID == postID {
			all = append(all, *c)
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	start := (page - 1) * pageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (r *memCommentRepo) Create(c *models.Comment) (*models.Comment, error) {
	c.ID = uuid.New()
	c.CreatedAt = time.Now()
	cp := *c
	r.comments = append(r.comments, &cp)
	return c, nil
}

func (r *memCommentRepo) Update(c *models.Comment) error {
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

func (r *memCommentRepo) Delete(id uuid.UUID) error {
	for i, c := range r.comments {
		if c.ID == id {
			r.comments = append(r.comments[:i], r.comments[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("comment %s not found", id)
}

// memFiles is an in-memory storage.Store recording saves and deletes.
type memFiles struct {
	files   map[string][]byte
	deleted []string
	saveErr error
}

func newMemFiles() *memFiles {
	return &memFiles{files: map[string][]byte{}}
}

func (f *memFiles) Save(_ context.Context, postID uuid.UUID, fileName, _ string, data []byte) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
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
	f.deleted = append(f.deleted, path)
	return nil
}

func (f *memFiles) FileURL(path string) string { return "/uploads/" + path }
