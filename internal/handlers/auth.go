package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"coaching-backend/internal/ctxkeys"
	"coaching-backend/internal/middleware"
	"coaching-backend/internal/models"
	"coaching-backend/internal/repository"
	"coaching-backend/internal/tenant"
)

const bcryptCost = 12

// AuthHandler manages local account registration, login and profile lookup.
type AuthHandler struct {
	users     repository.UserStore
	tenants   tenant.Resolver
	jwtSecret string
	now       func() time.Time
}

// NewAuthHandler creates an AuthHandler signing tokens with jwtSecret.
func NewAuthHandler(users repository.UserStore, tenants tenant.Resolver, jwtSecret string) *AuthHandler {
	return &AuthHandler{users: users, tenants: tenants, jwtSecret: jwtSecret, now: time.Now}
}

// Register creates a coach account in the default tenant and logs it in.
// Other tenants and admin roles are granted out of band, never through this
// endpoint.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decode(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		validationFailed(w, errs)
		return
	}
	if req.TenantID != "" && req.TenantID != h.tenants.Default {
		JSONError(w, http.StatusForbidden, "Registration is not open for this tenant")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		log.Printf("Failed to hash password: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	user, err := h.users.CreateUser(ctx, models.User{
		TenantID:     h.tenants.Default,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hashed),
		Name:         req.Name,
		Role:         ctxkeys.RoleCoach,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			JSONError(w, http.StatusConflict, "An account with this email already exists")
			return
		}
		log.Printf("Failed to create user: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	h.respondWithToken(w, http.StatusCreated, user, "Account created but login failed")
}

// Login checks email and password and returns a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	if errs := req.Validate(); len(errs) > 0 {
		validationFailed(w, errs)
		return
	}

	ctx, cancel := withTimeout(r)
	defer cancel()

	// Same message for unknown email and wrong password.
	user, err := h.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("Failed to load user: %v", err)
		}
		JSONError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		JSONError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	h.respondWithToken(w, http.StatusOK, user, "Login failed")
}

// GetMe returns the caller's profile. Firebase-authenticated callers have no
// local account; they get the identity carried by their token.
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := withTimeout(r)
	defer cancel()

	userID := ctxkeys.GetUserID(ctx)
	user, err := h.users.GetUserByID(ctx, userID)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		user = models.User{ID: userID, Role: ctxkeys.GetRole(ctx), TenantID: ctxkeys.GetTenantID(ctx)}
	default:
		storeError(w, err, "User", "load profile")
		return
	}

	JSON(w, http.StatusOK, user)
}

func (h *AuthHandler) respondWithToken(w http.ResponseWriter, status int, user models.User, failMsg string) {
	token, err := middleware.IssueToken(h.jwtSecret, middleware.Identity{
		UserID:   user.ID,
		Role:     user.Role,
		TenantID: user.TenantID,
	}, h.now())
	if err != nil {
		log.Printf("Failed to generate token: %v", err)
		JSONError(w, http.StatusInternalServerError, failMsg)
		return
	}
	JSON(w, status, models.AuthResponse{Token: token, User: user})
}
