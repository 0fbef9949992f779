package service

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"inkpress/internal/imaging"
	"inkpress/internal/models"
	"inkpress/internal/slug"
	"inkpress/internal/storage"
)

const maxTitleLen = 200

// UploadLimits holds the image upload configuration, hoisted out of
// per-operation reads into one immutable struct.
type UploadLimits struct {
	MaxImagesPerPost int
	MaxFileBytes     int64
}

// Upload carries one incoming image file.
type Upload struct {
	FileName    string
	ContentType string
	Size        int64
	Data        []byte
}

// Posts owns the post aggregate: the post's fields, its ordered image
// set, and its publish state. All mutations of a post's images go
// through this service so the display-order invariant holds.
type Posts struct {
	repo       PostRepo
	categories CategoryRepo
	files      storage.Store
	limits     UploadLimits
}

// NewPosts constructs the post service with its collaborators.
func NewPosts(repo PostRepo, categories CategoryRepo, files storage.Store, limits UploadLimits) *Posts {
	return &Posts{repo: repo, categories: categories, files: files, limits: limits}
}

// Create validates and persists a new post with its initial images.
// All files are validated before anything is written, so an invalid
// file aborts the whole creation. Display order is assigned
// sequentially from 0 and the first image is featured.
func (s *Posts) Create(ctx context.Context, title, content string, categoryID uuid.UUID, uploads []Upload) (*models.Post, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, BadRequest("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return nil, BadRequest("title is too long (max %d characters)", maxTitleLen)
	}
	if strings.TrimSpace(content) == "" {
		return nil, BadRequest("content is required")
	}

	postSlug := slug.Make(title)
	if postSlug == "" {
		return nil, BadRequest("title must contain at least one letter or digit")
	}
	existing, err := s.repo.FindBySlug(postSlug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, BadRequest("a post with slug %q already exists", postSlug)
	}

	category, err := s.categories.FindByID(categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, BadRequest("category %s does not exist", categoryID)
	}

	if len(uploads) > s.limits.MaxImagesPerPost {
		return nil, BadRequest("cannot upload %d images: maximum %d images per post allowed",
			len(uploads), s.limits.MaxImagesPerPost)
	}
	if err := s.validateUploads(uploads); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:        title,
		Slug:         postSlug,
		Content:      content,
		CategoryID:   categoryID,
		CategoryName: category.Name,
	}

	// Reserve an ID up front so stored files land in the post's directory.
	post.ID = uuid.New()
	images, saved, err := s.storeUploads(ctx, post.ID, uploads, 0)
	if err != nil {
		return nil, err
	}
	post.Images = images

	if err := s.repo.CreateWithImages(post); err != nil {
		s.discardFiles(ctx, saved)
		return nil, err
	}
	return post, nil
}

// Update overwrites the post's title, content, and category and stamps
// updatedAt. Images, slug, and publish state are left alone.
func (s *Posts) Update(id uuid.UUID, title, content string, categoryID uuid.UUID) error {
	post, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if post == nil {
		return NotFound("post %s was not found", id)
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return BadRequest("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return BadRequest("title is too long (max %d characters)", maxTitleLen)
	}
	if strings.TrimSpace(content) == "" {
		return BadRequest("content is required")
	}

	category, err := s.categories.FindByID(categoryID)
	if err != nil {
		return err
	}
	if category == nil {
		return BadRequest("category %s does not exist", categoryID)
	}

	post.Title = title
	post.Content = content
	post.CategoryID = categoryID
	return s.repo.Update(post)
}

// Publish flips a post to published. The transition is one-way:
// publishing an already-published post is rejected.
func (s *Posts) Publish(id uuid.UUID) error {
	post, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if post == nil {
		return NotFound("post %s was not found", id)
	}
	if post.IsPublished {
		return BadRequest("post is already published")
	}
	return s.repo.SetPublished(id)
}

// Delete removes a post along with its images, comments, and stored
// files. File cleanup is best-effort; the database cascade is the
// source of truth.
func (s *Posts) Delete(ctx context.Context, id uuid.UUID) error {
	post, err := s.repo.FindByID(id)
	if err != nil {
		return err
	}
	if post == nil {
		return NotFound("post %s was not found", id)
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}

	for _, img := range post.Images {
		if err := s.files.Delete(ctx, img.FilePath); err != nil {
			slog.Warn("post image file cleanup failed", "post_id", id, "path", img.FilePath, "error", err)
		}
		if img.ThumbPath != nil {
			if err := s.files.Delete(ctx, *img.ThumbPath); err != nil {
				slog.Warn("post thumbnail cleanup failed", "post_id", id, "path", *img.ThumbPath, "error", err)
			}
		}
	}
	return nil
}

// AddImages appends new images to a post. The quota is checked against
// the remaining slots, every file is validated before anything is
// written, and display order continues from the current maximum.
// Existing image rows are not rewritten. Returns the full image set
// after the addition.
func (s *Posts) AddImages(ctx context.Context, postID uuid.UUID, uploads []Upload) ([]models.PostImage, error) {
	if len(uploads) == 0 {
		return nil, BadRequest("no files provided")
	}

	post, err := s.repo.FindByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, NotFound("post %s was not found", postID)
	}

	current := len(post.Images)
	if current+len(uploads) > s.limits.MaxImagesPerPost {
		return nil, BadRequest("cannot upload %d images: maximum %d images per post, currently %d images exist",
			len(uploads), s.limits.MaxImagesPerPost, current)
	}
	if err := s.validateUploads(uploads); err != nil {
		return nil, err
	}

	images, saved, err := s.storeUploads(ctx, postID, uploads, current)
	if err != nil {
		return nil, err
	}

	if err := s.repo.AddImages(postID, images); err != nil {
		s.discardFiles(ctx, saved)
		return nil, err
	}
	return append(post.Images, images...), nil
}

// RemoveImage deletes one image: the stored file first, then the
// database row, then a reindex of the remainder so display orders stay
// a dense 0..n-1 sequence with the featured flag at order 0. A file
// that is already gone counts as deleted, but any other storage
// failure aborts the removal so file and record never diverge.
func (s *Posts) RemoveImage(ctx context.Context, postID, imageID uuid.UUID) error {
	post, err := s.repo.FindByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return NotFound("post %s was not found", postID)
	}

	var target *models.PostImage
	for i := range post.Images {
		if post.Images[i].ID == imageID {
			target = &post.Images[i]
			break
		}
	}
	if target == nil {
		return NotFound("image %s was not found", imageID)
	}

	if err := s.files.Delete(ctx, target.FilePath); err != nil {
		return err
	}
	if target.ThumbPath != nil {
		if err := s.files.Delete(ctx, *target.ThumbPath); err != nil {
			slog.Warn("thumbnail delete failed", "image_id", imageID, "error", err)
		}
	}

	remaining := make([]models.PostImage, 0, len(post.Images)-1)
	for _, img := range post.Images {
		if img.ID != imageID {
			remaining = append(remaining, img)
		}
	}
	ReindexImages(remaining)

	return s.repo.RemoveImageAndReindex(imageID, remaining)
}

// Images returns a post's ordered image set.
func (s *Posts) Images(postID uuid.UUID) ([]models.PostImage, error) {
	post, err := s.repo.FindByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, NotFound("post %s was not found", postID)
	}
	return post.Images, nil
}

// Get returns a post by ID regardless of publish state.
func (s *Posts) Get(id uuid.UUID) (*models.Post, error) {
	post, err := s.repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, NotFound("post %s was not found", id)
	}
	return post, nil
}

// GetAll returns every post, for admin listings.
func (s *Posts) GetAll() ([]models.Post, error) {
	return s.repo.GetAll()
}

// GetPublished returns published posts with 1-based pagination and an
// optional category filter. A non-positive page counts as the first
// page; a non-positive page size yields no results.
func (s *Posts) GetPublished(page, pageSize int, categoryID *uuid.UUID) ([]models.Post, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		return []models.Post{}, nil
	}
	return s.repo.ListPublished(page, pageSize, categoryID)
}

// GetUnpublished returns all draft posts, for admin use only.
func (s *Posts) GetUnpublished() ([]models.Post, error) {
	return s.repo.ListUnpublished()
}

// GetBySlug returns a published post by slug. Unpublished posts are
// never slug-addressable.
func (s *Posts) GetBySlug(slug string) (*models.Post, error) {
	post, err := s.repo.FindBySlug(slug)
	if err != nil {
		return nil, err
	}
	if post == nil || !post.IsPublished {
		return nil, NotFound("published post with slug %q was not found", slug)
	}
	return post, nil
}

// Statistics derives post counts from the post collection on demand.
func (s *Posts) Statistics() (models.PostStatistics, error) {
	return s.repo.Statistics()
}

// validateUploads checks format and size for every file before any of
// them is persisted.
func (s *Posts) validateUploads(uploads []Upload) error {
	for _, up := range uploads {
		if !storage.ValidImage(up.FileName, up.ContentType) {
			return BadRequest("invalid file format: %s: only JPG, JPEG, and PNG are allowed", up.FileName)
		}
		if !storage.SizeOK(up.Size, s.limits.MaxFileBytes) {
			return BadRequest("file %s exceeds maximum size of %d MB", up.FileName, s.limits.MaxFileBytes/(1024*1024))
		}
	}
	return nil
}

// storeUploads writes files (and best-effort thumbnails) and builds the
// image records starting at the given display order. On failure the
// already-saved files are removed and the error returned.
func (s *Posts) storeUploads(ctx context.Context, postID uuid.UUID, uploads []Upload, startOrder int) ([]models.PostImage, []string, error) {
	var images []models.PostImage
	var saved []string

	for i, up := range uploads {
		path, err := s.files.Save(ctx, postID, up.FileName, up.ContentType, up.Data)
		if err != nil {
			s.discardFiles(ctx, saved)
			return nil, nil, err
		}
		saved = append(saved, path)

		img := models.PostImage{
			PostID:       postID,
			FileName:     up.FileName,
			FilePath:     path,
			FileSize:     up.Size,
			ContentType:  up.ContentType,
			DisplayOrder: startOrder + i,
			IsFeatured:   startOrder+i == 0,
		}

		if thumb, err := imaging.Thumbnail(bytes.NewReader(up.Data), imaging.ThumbMaxWidth); err != nil {
			slog.Warn("thumbnail generation failed", "file", up.FileName, "error", err)
		} else if thumb != nil {
			if tp, err := s.files.SaveThumb(ctx, postID, thumb); err != nil {
				slog.Warn("thumbnail save failed", "file", up.FileName, "error", err)
			} else {
				img.ThumbPath = &tp
				saved = append(saved, tp)
			}
		}

		images = append(images, img)
	}
	return images, saved, nil
}

// discardFiles removes files written before a failed operation.
func (s *Posts) discardFiles(ctx context.Context, paths []string) {
	for _, p := range paths {
		if err := s.files.Delete(ctx, p); err != nil {
			slog.Warn("orphaned upload cleanup failed", "path", p, "error", err)
		}
	}
}

// ReindexImages reassigns display orders 0..n-1 in the slice's current
// order and sets the featured flag on the first image only.
func ReindexImages(images []models.PostImage) {
	for i := range images {
		images[i].DisplayOrder = i
		images[i].IsFeatured = i == 0
	}
}
