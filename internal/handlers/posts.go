package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"inkpress/internal/cache"
	"inkpress/internal/markdown"
	"inkpress/internal/models"
	"inkpress/internal/service"
	"inkpress/internal/storage"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing.
const maxUploadMemory = 32 << 20

// Posts groups the post endpoints: CRUD, publishing, statistics, and
// the cached public read path.
type Posts struct {
	posts *service.Posts
	files storage.Store
	cache *cache.PostCache
}

// NewPosts creates the posts handler group.
func NewPosts(posts *service.Posts, files storage.Store, postCache *cache.PostCache) *Posts {
	return &Posts{posts: posts, files: files, cache: postCache}
}

// imageView is the public shape of a stored image: URLs instead of
// internal path handles.
type imageView struct {
	ID           uuid.UUID `json:"id"`
	FileName     string    `json:"file_name"`
	URL          string    `json:"url"`
	ThumbURL     *string   `json:"thumb_url,omitempty"`
	FileSize     int64     `json:"file_size"`
	ContentType  string    `json:"content_type"`
	DisplayOrder int       `json:"display_order"`
	IsFeatured   bool      `json:"is_featured"`
	CreatedAt    time.Time `json:"created_at"`
}

// postView is the public shape of a post. ContentHTML is only rendered
// for single-post reads.
type postView struct {
	ID           uuid.UUID   `json:"id"`
	Title        string      `json:"title"`
	Slug         string      `json:"slug"`
	Content      string      `json:"content"`
	ContentHTML  string      `json:"content_html,omitempty"`
	CategoryID   uuid.UUID   `json:"category_id"`
	CategoryName string      `json:"category_name,omitempty"`
	IsPublished  bool        `json:"is_published"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Images       []imageView `json:"images"`
}

func (h *Posts) imageViews(images []models.PostImage) []imageView {
	views := make([]imageView, len(images))
	for i, img := range images {
		views[i] = imageView{
			ID:           img.ID,
			FileName:     img.FileName,
			URL:          h.files.FileURL(img.FilePath),
			FileSize:     img.FileSize,
			ContentType:  img.ContentType,
			DisplayOrder: img.DisplayOrder,
			IsFeatured:   img.IsFeatured,
			CreatedAt:    img.CreatedAt,
		}
		if img.ThumbPath != nil {
			u := h.files.FileURL(*img.ThumbPath)
			views[i].ThumbURL = &u
		}
	}
	return views
}

func (h *Posts) postView(p *models.Post, withHTML bool) postView {
	v := postView{
		ID:           p.ID,
		Title:        p.Title,
		Slug:         p.Slug,
		Content:      p.Content,
		CategoryID:   p.CategoryID,
		CategoryName: p.CategoryName,
		IsPublished:  p.IsPublished,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Images:       h.imageViews(p.Images),
	}
	if withHTML {
		html, err := markdown.ToHTML(p.Content)
		if err != nil {
			slog.Warn("markdown render failed", "post_id", p.ID, "error", err)
		} else {
			v.ContentHTML = html
		}
	}
	return v
}

func (h *Posts) postViews(posts []models.Post) []postView {
	views := make([]postView, len(posts))
	for i := range posts {
		views[i] = h.postView(&posts[i], false)
	}
	return views
}

// List returns every post. Admin only.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.GetAll()
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.postViews(posts))
}

// ListPublished returns published posts with pagination and an optional
// category filter.
func (h *Posts) ListPublished(w http.ResponseWriter, r *http.Request) {
	categoryID, err := queryUUID(r, "categoryId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	posts, err := h.posts.GetPublished(queryInt(r, "page", 1), queryInt(r, "pageSize", 10), categoryID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.postViews(posts))
}

// ListUnpublished returns all drafts. Admin only.
func (h *Posts) ListUnpublished(w http.ResponseWriter, r *http.Request) {
	posts, err := h.posts.GetUnpublished()
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, h.postViews(posts))
}

// GetBySlug serves a published post, rendered HTML included. Responses
// are cached by slug; any write to the post invalidates the entry.
func (h *Posts) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if body, ok := h.cache.Get(r.Context(), slug); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
		return
	}

	post, err := h.posts.GetBySlug(slug)
	if err != nil {
		respondError(w, r, err)
		return
	}

	body, err := json.Marshal(h.postView(post, true))
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.cache.Set(r.Context(), slug, body)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// Create accepts a multipart form with title, content, category_id, and
// zero or more files under "images". Admin only.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		respondError(w, r, service.BadRequest("invalid multipart form: %v", err))
		return
	}

	categoryID, err := uuid.Parse(r.FormValue("category_id"))
	if err != nil {
		respondError(w, r, service.BadRequest("invalid category_id"))
		return
	}

	uploads, err := readUploads(r.MultipartForm.File["images"])
	if err != nil {
		respondError(w, r, err)
		return
	}

	post, err := h.posts.Create(r.Context(), r.FormValue("title"), r.FormValue("content"), categoryID, uploads)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, h.postView(post, false))
}

type updatePostRequest struct {
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CategoryID uuid.UUID `json:"category_id"`
}

// Update overwrites a post's editable fields. Admin only.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	var req updatePostRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.posts.Update(id, req.Title, req.Content, req.CategoryID); err != nil {
		respondError(w, r, err)
		return
	}
	h.invalidate(r, id)
	respondJSON(w, http.StatusNoContent, nil)
}

// Publish flips a post to published. Admin only.
func (h *Posts) Publish(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.posts.Publish(id); err != nil {
		respondError(w, r, err)
		return
	}
	h.invalidate(r, id)
	respondJSON(w, http.StatusNoContent, nil)
}

// Delete removes a post with its images and comments. Admin only.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, r, err)
		return
	}

	// Capture the slug before the row disappears.
	post, err := h.posts.Get(id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.posts.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	h.cache.Invalidate(r.Context(), post.Slug)
	respondJSON(w, http.StatusNoContent, nil)
}

// Statistics returns post counts. Admin only.
func (h *Posts) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.posts.Statistics()
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// invalidate drops the cached response for the post's slug, looking the
// slug up by ID. Lookup failures only cost cache freshness.
func (h *Posts) invalidate(r *http.Request, id uuid.UUID) {
	if h.cache == nil {
		return
	}
	post, err := h.posts.Get(id)
	if err != nil {
		slog.Warn("cache invalidation lookup failed", "post_id", id, "error", err)
		return
	}
	h.cache.Invalidate(r.Context(), post.Slug)
}

// readUploads loads multipart files into memory as service uploads.
func readUploads(headers []*multipart.FileHeader) ([]service.Upload, error) {
	var uploads []service.Upload
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, service.BadRequest("cannot read file %s", fh.Filename)
		}

		var buf bytes.Buffer
		_, err = io.Copy(&buf, f)
		f.Close()
		if err != nil {
			return nil, service.BadRequest("cannot read file %s", fh.Filename)
		}

		uploads = append(uploads, service.Upload{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Data:        buf.Bytes(),
		})
	}
	return uploads, nil
}
