// Package router tests verify the HTTP routing configuration, the
// middleware guards on each route group, and the health endpoint.
package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"inkpress/internal/auth"
	"inkpress/internal/handlers"
	"inkpress/internal/models"
	"inkpress/internal/service"
)

// Empty stub repositories: the router tests only care about status
// codes from the middleware guards, not data.

type stubPosts struct{}

func (stubPosts) GetAll() ([]models.Post, error)                  { return nil, nil }
func (stubPosts) FindByID(uuid.UUID) (*models.Post, error)        { return nil, nil }
func (stubPosts) FindBySlug(string) (*models.Post, error)         { return nil, nil }
func (stubPosts) ListUnpublished() ([]models.Post, error)         { return nil, nil }
func (stubPosts) CreateWithImages(*models.Post) error             { return nil }
func (stubPosts) Update(*models.Post) error                       { return nil }
func (stubPosts) SetPublished(uuid.UUID) error                    { return nil }
func (stubPosts) Delete(uuid.UUID) error                          { return nil }
func (stubPosts) AddImages(uuid.UUID, []models.PostImage) error   { return nil }
func (stubPosts) Statistics() (models.PostStatistics, error)      { return models.PostStatistics{}, nil }
func (stubPosts) ListPublished(int, int, *uuid.UUID) ([]models.Post, error) {
	return nil, nil
}
func (stubPosts) RemoveImageAndReindex(uuid.UUID, []models.PostImage) error {
	return nil
}

type stubCategories struct{}

func (stubCategories) GetAll() ([]models.Category, error)           { return nil, nil }
func (stubCategories) FindByID(uuid.UUID) (*models.Category, error) { return nil, nil }
func (stubCategories) FindBySlug(string) (*models.Category, error)  { return nil, nil }
func (stubCategories) Create(c *models.Category) (*models.Category, error) {
	return c, nil
}

type stubComments struct{}

func (stubComments) FindByID(uuid.UUID) (*models.Comment, error) { return nil, nil }
func (stubComments) ListByPost(uuid.UUID, int, int) ([]models.Comment, error) {
	return nil, nil
}
func (stubComments) Create(c *models.Comment) (*models.Comment, error) { return c, nil }
func (stubComments) Update(*models.Comment) error                      { return nil }
func (stubComments) Delete(uuid.UUID) error                            { return nil }

type stubUsers struct{}

func (stubUsers) FindByEmail(string) (*models.User, error)  { return nil, nil }
func (stubUsers) FindByID(uuid.UUID) (*models.User, error)  { return nil, nil }
func (stubUsers) CheckPassword(*models.User, string) bool   { return false }
func (stubUsers) SetTOTPSecret(uuid.UUID, string) error     { return nil }
func (stubUsers) EnableTOTP(uuid.UUID) error                { return nil }
func (stubUsers) Create(email, _, name string, role models.Role) (*models.User, error) {
	return &models.User{ID: uuid.New(), Email: email, DisplayName: name, Role: role}, nil
}

type stubFiles struct{}

func (stubFiles) Save(context.Context, uuid.UUID, string, string, []byte) (string, error) {
	return "path", nil
}
func (stubFiles) SaveThumb(context.Context, uuid.UUID, []byte) (string, error) {
	return "thumb", nil
}
func (stubFiles) Delete(context.Context, string) error { return nil }
func (stubFiles) FileURL(path string) string           { return "/uploads/" + path }

func testRouter(t *testing.T) (http.Handler, *auth.Tokens) {
	t.Helper()
	tokens := auth.NewTokens("test-secret")

	files := stubFiles{}
	posts := service.NewPosts(stubPosts{}, stubCategories{}, files,
		service.UploadLimits{MaxImagesPerPost: 10, MaxFileBytes: 1 << 20})

	r := New(Deps{
		Tokens:     tokens,
		Auth:       handlers.NewAuth(stubUsers{}, tokens),
		Posts:      handlers.NewPosts(posts, files, nil),
		Comments:   handlers.NewComments(service.NewComments(stubComments{}, stubPosts{})),
		Categories: handlers.NewCategories(service.NewCategories(stubCategories{})),
		Search:     handlers.NewSearch(service.NewSearch(stubPosts{}, stubCategories{})),
	})
	return r, tokens
}

func bearer(t *testing.T, tokens *auth.Tokens, role models.Role) string {
	t.Helper()
	signed, err := tokens.Issue(&models.User{ID: uuid.New(), DisplayName: "T", Role: role})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return "Bearer " + signed
}

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

func TestRouteGuards(t *testing.T) {
	router, tokens := testRouter(t)
	userToken := bearer(t, tokens, models.RoleUser)
	adminToken := bearer(t, tokens, models.RoleAdmin)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"health open", "GET", "/health", "", http.StatusOK},
		{"published open", "GET", "/api/posts/published", "", http.StatusOK},
		{"categories open", "GET", "/api/categories/", "", http.StatusOK},
		{"search open", "GET", "/api/search/?q=gopher", "", http.StatusOK},

		{"all posts anonymous", "GET", "/api/posts/", "", http.StatusUnauthorized},
		{"all posts user", "GET", "/api/posts/", userToken, http.StatusForbidden},
		{"all posts admin", "GET", "/api/posts/", adminToken, http.StatusOK},

		{"drafts anonymous", "GET", "/api/posts/unpublished", "", http.StatusUnauthorized},
		{"drafts user", "GET", "/api/posts/unpublished", userToken, http.StatusForbidden},
		{"drafts admin", "GET", "/api/posts/unpublished", adminToken, http.StatusOK},

		{"statistics anonymous", "GET", "/api/statistics", "", http.StatusUnauthorized},
		{"statistics user", "GET", "/api/statistics", userToken, http.StatusForbidden},
		{"statistics admin", "GET", "/api/statistics", adminToken, http.StatusOK},

		{"admin search user", "GET", "/api/search/admin?q=gopher", userToken, http.StatusForbidden},
		{"admin search admin", "GET", "/api/search/admin?q=gopher", adminToken, http.StatusOK},

		{"2fa setup anonymous", "GET", "/api/auth/2fa/setup", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", tt.token)
			}
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)
			if rr.Code != tt.want {
				t.Errorf("%s %s: got status %d, want %d", tt.method, tt.path, rr.Code, tt.want)
			}
		})
	}
}
