// Package store provides database access methods for all inkpress
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

// PostStore handles all post and post-image database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `p.id, p.title, p.slug, p.content, p.category_id, p.is_published,
       p.created_at, p.updated_at, c.name`

const imageColumns = `id, post_id, file_name, file_path, thumb_path, file_size,
       content_type, display_order, is_featured, created_at`

func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Content, &p.CategoryID, &p.IsPublished,
		&p.CreatedAt, &p.UpdatedAt, &p.CategoryName,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetAll returns every post with its category name and ordered image
// set, in creation order.
func (s *PostStore) GetAll() ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT ` + postColumns + `
		FROM posts p
		JOIN categories c ON c.id = p.category_id
		ORDER BY p.created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, s.attachImages(posts)
}

// FindByID retrieves a post with its images. Returns nil if not found.
func (s *PostStore) FindByID(id uuid.UUID) (*models.Post, error) {
	row := s.db.QueryRow(`
		SELECT `+postColumns+`
		FROM posts p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1
	`, id)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}

	p.Images, err = s.ImagesByPost(p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// FindBySlug retrieves a post by slug regardless of publish state.
// Returns nil if not found. Visibility rules live in the service layer.
func (s *PostStore) FindBySlug(slug string) (*models.Post, error) {
	row := s.db.QueryRow(`
		SELECT `+postColumns+`
		FROM posts p
		JOIN categories c ON c.id = p.category_id
		WHERE p.slug = $1
	`, slug)
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}

	p.Images, err = s.ImagesByPost(p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListPublished returns published posts with 1-based pagination and an
// optional category filter, in creation order.
func (s *PostStore) ListPublished(page, pageSize int, categoryID *uuid.UUID) ([]models.Post, error) {
	offset := (page - 1) * pageSize
	rows, err := s.db.Query(`
		SELECT `+postColumns+`
		FROM posts p
		JOIN categories c ON c.id = p.category_id
		WHERE p.is_published AND ($1::uuid IS NULL OR p.category_id = $1)
		ORDER BY p.created_at
		OFFSET $2 LIMIT $3
	`, categoryID, offset, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, s.attachImages(posts)
}

// ListUnpublished returns all draft posts in creation order.
func (s *PostStore) ListUnpublished() ([]models.Post, error) {
	rows, err := s.db.Query(`
		SELECT ` + postColumns + `
		FROM posts p
		JOIN categories c ON c.id = p.category_id
		WHERE NOT p.is_published
		ORDER BY p.created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("list unpublished posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return posts, s.attachImages(posts)
}

// CreateWithImages inserts a post and its initial images in a single
// transaction. Generated IDs and timestamps are written back into p.
func (s *PostStore) CreateWithImages(p *models.Post) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// The service assigns the ID up front so stored files can land in
	// the post's directory before the row exists.
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	err = tx.QueryRow(`
		INSERT INTO posts (id, title, slug, content, category_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, p.ID, p.Title, p.Slug, p.Content, p.CategoryID).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create post: %w", err)
	}

	for i := range p.Images {
		img := &p.Images[i]
		img.PostID = p.ID
		if err := insertImage(tx, img); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Update overwrites the post's editable fields and stamps updated_at.
// Images and publish state are not touched.
func (s *PostStore) Update(p *models.Post) error {
	_, err := s.db.Exec(`
		UPDATE posts SET title = $1, slug = $2, content = $3, category_id = $4,
			updated_at = NOW()
		WHERE id = $5
	`, p.Title, p.Slug, p.Content, p.CategoryID, p.ID)
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	return nil
}

// SetPublished flips the post to published and stamps updated_at.
func (s *PostStore) SetPublished(id uuid.UUID) error {
	_, err := s.db.Exec(`
		UPDATE posts SET is_published = TRUE, updated_at = NOW() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("publish post: %w", err)
	}
	return nil
}

// Delete removes a post. Images and comments go with it via ON DELETE
// CASCADE.
func (s *PostStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// AddImages inserts new image rows for a post without rewriting the
// existing ones.
func (s *PostStore) AddImages(postID uuid.UUID, images []models.PostImage) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for i := range images {
		images[i].PostID = postID
		if err := insertImage(tx, &images[i]); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RemoveImageAndReindex deletes an image row and rewrites display_order
// and is_featured for the remaining images in one transaction, keeping
// the 0..n-1 ordering dense.
func (s *PostStore) RemoveImageAndReindex(imageID uuid.UUID, remaining []models.PostImage) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM post_images WHERE id = $1`, imageID); err != nil {
		return fmt.Errorf("delete image: %w", err)
	}

	stmt, err := tx.Prepare(`
		UPDATE post_images SET display_order = $1, is_featured = $2 WHERE id = $3`)
	if err != nil {
		return fmt.Errorf("prepare reindex: %w", err)
	}
	defer stmt.Close()

	for _, img := range remaining {
		if _, err := stmt.Exec(img.DisplayOrder, img.IsFeatured, img.ID); err != nil {
			return fmt.Errorf("reindex image %s: %w", img.ID, err)
		}
	}

	return tx.Commit()
}

// ImagesByPost returns a post's images ordered by display_order.
func (s *PostStore) ImagesByPost(postID uuid.UUID) ([]models.PostImage, error) {
	rows, err := s.db.Query(`
		SELECT `+imageColumns+`
		FROM post_images WHERE post_id = $1
		ORDER BY display_order
	`, postID)
	if err != nil {
		return nil, fmt.Errorf("list post images: %w", err)
	}
	defer rows.Close()

	var images []models.PostImage
	for rows.Next() {
		var img models.PostImage
		if err := rows.Scan(
			&img.ID, &img.PostID, &img.FileName, &img.FilePath, &img.ThumbPath,
			&img.FileSize, &img.ContentType, &img.DisplayOrder, &img.IsFeatured,
			&img.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan post image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

// Statistics computes post counts in a single aggregate query.
func (s *PostStore) Statistics() (models.PostStatistics, error) {
	var stats models.PostStatistics
	err := s.db.QueryRow(`
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_published),
		       COUNT(*) FILTER (WHERE NOT is_published)
		FROM posts
	`).Scan(&stats.TotalPosts, &stats.PublishedPosts, &stats.UnpublishedPosts)
	if err != nil {
		return stats, fmt.Errorf("post statistics: %w", err)
	}
	return stats, nil
}

// attachImages loads images for a slice of posts with one query.
func (s *PostStore) attachImages(posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]string, len(posts))
	index := make(map[uuid.UUID]*models.Post, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID.String()
		index[posts[i].ID] = &posts[i]
	}

	rows, err := s.db.Query(`
		SELECT `+imageColumns+`
		FROM post_images WHERE post_id = ANY($1::uuid[])
		ORDER BY post_id, display_order
	`, ids)
	if err != nil {
		return fmt.Errorf("load post images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var img models.PostImage
		if err := rows.Scan(
			&img.ID, &img.PostID, &img.FileName, &img.FilePath, &img.ThumbPath,
			&img.FileSize, &img.ContentType, &img.DisplayOrder, &img.IsFeatured,
			&img.CreatedAt,
		); err != nil {
			return fmt.Errorf("scan post image: %w", err)
		}
		if p, ok := index[img.PostID]; ok {
			p.Images = append(p.Images, img)
		}
	}
	return rows.Err()
}

// insertImage writes one image row inside a transaction and fills the
// generated ID and timestamp.
func insertImage(tx *sql.Tx, img *models.PostImage) error {
	err := tx.QueryRow(`
		INSERT INTO post_images (post_id, file_name, file_path, thumb_path,
			file_size, content_type, display_order, is_featured)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, img.PostID, img.FileName, img.FilePath, img.ThumbPath, img.FileSize,
		img.ContentType, img.DisplayOrder, img.IsFeatured,
	).Scan(&img.ID, &img.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert post image: %w", err)
	}
	return nil
}
