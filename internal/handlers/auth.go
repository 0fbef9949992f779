package handlers

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"inkpress/internal/auth"
	"inkpress/internal/middleware"
	"inkpress/internal/models"
	"inkpress/internal/service"
)

const minPasswordLen = 8

// UserStore is the user persistence contract the auth handlers depend
// on. *store.UserStore satisfies it.
type UserStore interface {
	FindByEmail(email string) (*models.User, error)
	FindByID(id uuid.UUID) (*models.User, error)
	Create(email, password, displayName string, role models.Role) (*models.User, error)
	CheckPassword(u *models.User, password string) bool
	SetTOTPSecret(userID uuid.UUID, secret string) error
	EnableTOTP(userID uuid.UUID) error
}

// Auth groups the authentication endpoints: registration, login, and
// the optional TOTP second factor.
type Auth struct {
	users  UserStore
	tokens *auth.Tokens
}

// NewAuth creates the auth handler group.
func NewAuth(users UserStore, tokens *auth.Tokens) *Auth {
	return &Auth{users: users, tokens: tokens}
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	TOTPCode string `json:"totp_code"`
}

type tokenResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates a regular user account and issues a token.
func (a *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if _, err := mail.ParseAddress(req.Email); err != nil {
		respondError(w, r, service.BadRequest("invalid email address"))
		return
	}
	if len(req.Password) < minPasswordLen {
		respondError(w, r, service.BadRequest("password must be at least %d characters", minPasswordLen))
		return
	}
	if strings.TrimSpace(req.DisplayName) == "" {
		respondError(w, r, service.BadRequest("display name is required"))
		return
	}

	existing, err := a.users.FindByEmail(req.Email)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if existing != nil {
		respondError(w, r, service.BadRequest("an account with this email already exists"))
		return
	}

	user, err := a.users.Create(req.Email, req.Password, strings.TrimSpace(req.DisplayName), models.RoleUser)
	if err != nil {
		respondError(w, r, err)
		return
	}

	token, err := a.tokens.Issue(user)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, tokenResponse{Token: token, User: user})
}

// Login verifies credentials and issues a token. Accounts with TOTP
// enabled must also present a valid code. Credential and code failures
// share one message so the response never reveals which check failed.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	user, err := a.users.FindByEmail(strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		respondError(w, r, err)
		return
	}
	if user == nil || !a.users.CheckPassword(user, req.Password) {
		respondError(w, r, service.Unauthorized("invalid credentials"))
		return
	}

	if user.TOTPEnabled {
		if user.TOTPSecret == nil || !auth.ValidTOTP(req.TOTPCode, *user.TOTPSecret) {
			respondError(w, r, service.Unauthorized("invalid credentials"))
			return
		}
	}

	token, err := a.tokens.Issue(user)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tokenResponse{Token: token, User: user})
}

// TOTPSetup generates a fresh TOTP secret for the caller and returns it
// with a QR code for authenticator enrollment. The secret is stored but
// the second factor stays off until activated.
func (a *Auth) TOTPSetup(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		respondError(w, r, service.Unauthorized("authentication required"))
		return
	}

	user, err := a.users.FindByID(id.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if user == nil {
		respondError(w, r, service.Unauthorized("account no longer exists"))
		return
	}
	if user.TOTPEnabled {
		respondError(w, r, service.BadRequest("two-factor authentication is already enabled"))
		return
	}

	setup, err := auth.GenerateTOTP(user.Email)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := a.users.SetTOTPSecret(user.ID, setup.Secret); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, setup)
}

// TOTPActivate verifies a code against the pending secret and switches
// the second factor on.
func (a *Auth) TOTPActivate(w http.ResponseWriter, r *http.Request) {
	id := middleware.IdentityFromCtx(r.Context())
	if id == nil {
		respondError(w, r, service.Unauthorized("authentication required"))
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	user, err := a.users.FindByID(id.UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if user == nil {
		respondError(w, r, service.Unauthorized("account no longer exists"))
		return
	}
	if user.TOTPSecret == nil {
		respondError(w, r, service.BadRequest("run two-factor setup first"))
		return
	}
	if user.TOTPEnabled {
		respondError(w, r, service.BadRequest("two-factor authentication is already enabled"))
		return
	}
	if !auth.ValidTOTP(req.Code, *user.TOTPSecret) {
		respondError(w, r, service.BadRequest("invalid code"))
		return
	}

	if err := a.users.EnableTOTP(user.ID); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]bool{"totp_enabled": true})
}
