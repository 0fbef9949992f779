package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

// CommentStore manages comments in the database.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore returns a new CommentStore.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentColumns = `id, post_id, content, author_id, author_name, created_at, updated_at`

// FindByID retrieves a comment by ID. Returns nil if not found.
func (s *CommentStore) FindByID(id uuid.UUID) (*models.Comment, error) {
	c := &models.Comment{}
	err := s.db.QueryRow(`
		SELECT `+commentColumns+` FROM comments WHERE id = $1
	`, id).Scan(
		&c.ID, &c.PostID, &c.Content, &c.AuthorID, &c.AuthorName,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find comment by id: %w", err)
	}
	return c, nil
}

// ListByPost returns a post's comments newest first, 1-based paginated.
func (s *CommentStore) ListByPost(postID uuid.UUID, page, pageSize int) ([]models.Comment, error) {
	offset := (page - 1) * pageSize
	rows, err := s.db.Query(`
		SELECT `+commentColumns+`
		FROM comments WHERE post_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3
	`, postID, offset, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	var items []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(
			&c.ID, &c.PostID, &c.Content, &c.AuthorID, &c.AuthorName,
			&c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// Create inserts a new comment and returns it with generated fields.
func (s *CommentStore) Create(c *models.Comment) (*models.Comment, error) {
	result := &models.Comment{}
	err := s.db.QueryRow(`
		INSERT INTO comments (post_id, content, author_id, author_name)
		VALUES ($1, $2, $3, $4)
		RETURNING `+commentColumns,
		c.PostID, c.Content, c.AuthorID, c.AuthorName,
	).Scan(
		&result.ID, &result.PostID, &result.Content, &result.AuthorID,
		&result.AuthorName, &result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return result, nil
}

// Update overwrites a comment's content and stamps updated_at.
func (s *CommentStore) Update(c *models.Comment) error {
	_, err := s.db.Exec(`
		UPDATE comments SET content = $1, updated_at = NOW() WHERE id = $2
	`, c.Content, c.ID)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return nil
}

// Delete removes a comment by ID.
func (s *CommentStore) Delete(id uuid.UUID) error {
	_, err := s.db.Exec(`DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
