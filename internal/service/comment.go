package service

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"inkpress/internal/models"
)

const (
	maxCommentLen      = 1000
	defaultCommentPage = 10
	maxCommentPage     = 100
)

// Comments enforces who may create, edit, and delete comments relative
// to post visibility and ownership.
type Comments struct {
	repo  CommentRepo
	posts PostRepo
}

// NewComments constructs the comment service.
func NewComments(repo CommentRepo, posts PostRepo) *Comments {
	return &Comments{repo: repo, posts: posts}
}

// Create adds a comment to a published post. Commenting on drafts is
// rejected.
func (s *Comments) Create(postID uuid.UUID, content string, authorID uuid.UUID, authorName string) (*models.Comment, error) {
	post, err := s.posts.FindByID(postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, NotFound("post %s was not found", postID)
	}
	if !post.IsPublished {
		return nil, BadRequest("cannot comment on unpublished posts")
	}
	if err := validateCommentContent(content); err != nil {
		return nil, err
	}

	return s.repo.Create(&models.Comment{
		PostID:     postID,
		Content:    content,
		AuthorID:   authorID,
		AuthorName: authorName,
	})
}

// Update edits a comment's content. Only the author may edit; there is
// no admin override.
func (s *Comments) Update(commentID uuid.UUID, content string, requesterID uuid.UUID) error {
	comment, err := s.repo.FindByID(commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return NotFound("comment %s was not found", commentID)
	}
	if comment.AuthorID != requesterID {
		return Forbidden("you can only edit your own comments")
	}
	if err := validateCommentContent(content); err != nil {
		return err
	}

	comment.Content = content
	return s.repo.Update(comment)
}

// Delete removes a comment. The author or an admin may delete.
func (s *Comments) Delete(commentID, requesterID uuid.UUID, requesterIsAdmin bool) error {
	comment, err := s.repo.FindByID(commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return NotFound("comment %s was not found", commentID)
	}
	if comment.AuthorID != requesterID && !requesterIsAdmin {
		return Forbidden("you can only delete your own comments")
	}
	return s.repo.Delete(commentID)
}

// ListByPost returns a post's comments newest first with 1-based
// pagination. Out-of-range paging values are clamped.
func (s *Comments) ListByPost(postID uuid.UUID, page, pageSize int) ([]models.Comment, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxCommentPage {
		pageSize = defaultCommentPage
	}
	items, err := s.repo.ListByPost(postID, page, pageSize)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Comment{}
	}
	return items, nil
}

// validateCommentContent enforces the 1-1000 character bound, counting
// the trimmed content for emptiness.
func validateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" || utf8.RuneCountInString(content) > maxCommentLen {
		return BadRequest("comment content must be between 1 and %d characters", maxCommentLen)
	}
	return nil
}
