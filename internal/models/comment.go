package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a reader comment on a published post. UpdatedAt stays nil
// until the comment is edited.
type Comment struct {
	ID         uuid.UUID  `json:"id"`
	PostID     uuid.UUID  `json:"post_id"`
	Content    string     `json:"content"`
	AuthorID   uuid.UUID  `json:"author_id"`
	AuthorName string     `json:"author_name"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}
