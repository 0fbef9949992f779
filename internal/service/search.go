package service

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	minQueryLen       = 3
	defaultSearchSize = 20
	maxSearchSize     = 100
	previewLen        = 200
)

// SearchResult is one search hit: a post or a category.
type SearchResult struct {
	Type           string    `json:"type"`
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	ContentPreview string    `json:"content_preview,omitempty"`
	CategoryName   string    `json:"category_name,omitempty"`
	IsPublished    bool      `json:"is_published"`
	CreatedAt      time.Time `json:"created_at"`
}

// SearchPage is a paginated search response.
type SearchPage struct {
	Results         []SearchResult `json:"results"`
	TotalCount      int            `json:"total_count"`
	Page            int            `json:"page"`
	PageSize        int            `json:"page_size"`
	TotalPages      int            `json:"total_pages"`
	HasNextPage     bool           `json:"has_next_page"`
	HasPreviousPage bool           `json:"has_previous_page"`
}

// Search filters posts by substring match and serves paginated results.
type Search struct {
	posts      PostRepo
	categories CategoryRepo
}

// NewSearch constructs the search service.
func NewSearch(posts PostRepo, categories CategoryRepo) *Search {
	return &Search{posts: posts, categories: categories}
}

// Posts searches post titles and contents with a case-insensitive
// substring match, newest first. Queries shorter than three characters
// are rejected; out-of-range page and pageSize values are clamped, not
// rejected. Unpublished posts only appear when includeUnpublished is
// set (admin search).
func (s *Search) Posts(query string, categoryID *uuid.UUID, page, pageSize int, includeUnpublished bool) (*SearchPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, BadRequest("search query cannot be empty")
	}
	if utf8.RuneCountInString(query) < minQueryLen {
		return nil, BadRequest("search query must be at least %d characters long", minQueryLen)
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxSearchSize {
		pageSize = defaultSearchSize
	}

	all, err := s.posts.GetAll()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	matches := []SearchResult{}
	for _, p := range all {
		if !includeUnpublished && !p.IsPublished {
			continue
		}
		if categoryID != nil && p.CategoryID != *categoryID {
			continue
		}
		if !strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.Content), needle) {
			continue
		}
		matches = append(matches, SearchResult{
			Type:           "post",
			ID:             p.ID,
			Title:          p.Title,
			ContentPreview: truncate(p.Content, previewLen),
			CategoryName:   p.CategoryName,
			IsPublished:    p.IsPublished,
			CreatedAt:      p.CreatedAt,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})

	totalCount := len(matches)
	totalPages := (totalCount + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > totalCount {
		start = totalCount
	}
	end := start + pageSize
	if end > totalCount {
		end = totalCount
	}

	return &SearchPage{
		Results:         matches[start:end],
		TotalCount:      totalCount,
		Page:            page,
		PageSize:        pageSize,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}, nil
}

// Categories matches category names case-insensitively. A short or
// empty query yields an empty result, not an error.
func (s *Search) Categories(query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minQueryLen {
		return []SearchResult{}, nil
	}

	all, err := s.categories.GetAll()
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	results := []SearchResult{}
	for _, c := range all {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			results = append(results, SearchResult{
				Type:        "category",
				ID:          c.ID,
				Title:       c.Name,
				IsPublished: c.IsActive,
				CreatedAt:   c.CreatedAt,
			})
		}
	}
	return results, nil
}

// truncate cuts a string to max runes, appending an ellipsis when
// anything was removed.
func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
