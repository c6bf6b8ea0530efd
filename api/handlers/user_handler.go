// api/handlers/user_handler.go
package handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/Annany2002/recipe-backend/api/middleware"
	"github.com/Annany2002/recipe-backend/api/models"
	"github.com/Annany2002/recipe-backend/config"
	"github.com/Annany2002/recipe-backend/internal/auth"
	"github.com/Annany2002/recipe-backend/internal/core"
	"github.com/Annany2002/recipe-backend/internal/domain"
	"github.com/Annany2002/recipe-backend/internal/enrichment"
	"github.com/Annany2002/recipe-backend/internal/logger"
	"github.com/Annany2002/recipe-backend/internal/storage"
)

var (
	customLog = logger.NewLogger()
)

// UserHandler holds dependencies for account and session handlers.
type UserHandler struct {
	DB     *sql.DB
	Cfg    *config.Config
	Titles enrichment.TitleLookup
}

// NewUserHandler creates a new UserHandler with dependencies.
func NewUserHandler(db *sql.DB, cfg *config.Config, titles enrichment.TitleLookup) *UserHandler {
	return &UserHandler{
		DB:     db,
		Cfg:    cfg,
		Titles: titles,
	}
}

// Signup handles user registration requests and opens the first session.
func (h *UserHandler) Signup(c *gin.Context) {
	var req models.SignupRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("Signup binding error: %v", err)
		_ = c.Error(err)
		return
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	user := &domain.User{
		FirstName:    core.NormalizePersonName(req.FirstName),
		LastName:     core.NormalizePersonName(req.LastName),
		Email:        core.NormalizeEmail(req.Email),
		PasswordHash: hashedPassword,
		Title:        h.lookupTitle(c.Request.Context(), core.NormalizeEmail(req.Email)),
	}
	if req.Age != nil {
		user.Age = *req.Age
	}

	if err := storage.CreateUser(c.Request.Context(), h.DB, user); err != nil {
		customLog.Warnf("Failed to create user %s: %v", user.Email, err)
		_ = c.Error(err)
		return
	}

	token, err := h.issueSession(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	customLog.Printf("Successfully registered user with email %s", user.Email)
	c.JSON(http.StatusCreated, models.AuthResponse{User: user, Token: token})
}

// Login verifies credentials and opens a new session.
func (h *UserHandler) Login(c *gin.Context) {
	var req models.LoginRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		customLog.Warnf("Login binding error: %v", err)
		_ = c.Error(err)
		return
	}

	user, err := storage.FindUserByEmail(c.Request.Context(), h.DB, core.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			customLog.Warnf("Login failed for email %s: no such user", req.Email)
			_ = c.Error(auth.ErrInvalidCredentials)
			return
		}
		_ = c.Error(err)
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		customLog.Warnf("Login attempt failed for email %s: invalid password", user.Email)
		_ = c.Error(auth.ErrInvalidCredentials)
		return
	}

	token, err := h.issueSession(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{User: user, Token: token})
}

// Logout revokes the session used for this request.
func (h *UserHandler) Logout(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := storage.RemoveToken(c.Request.Context(), h.DB, user.ID, middleware.CurrentToken(c)); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// LogoutAll revokes every session of the caller.
func (h *UserHandler) LogoutAll(c *gin.Context) {
	user := middleware.CurrentUser(c)
	revoked, err := storage.RemoveAllTokens(c.Request.Context(), h.DB, user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Logged out of all sessions", "sessions": revoked})
}

// Me returns the caller's profile.
func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// UpdateMe applies a profile patch. Any key outside the mutable fields
// rejects the whole patch.
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var patch map[string]any
	if err := c.ShouldBindBodyWith(&patch, binding.JSON); err != nil {
		_ = c.Error(err)
		return
	}
	if err := core.CheckAllowedUpdates(mapKeys(patch), core.UserUpdateFields); err != nil {
		_ = c.Error(err)
		return
	}

	var req models.UpdateUserRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		_ = c.Error(err)
		return
	}

	current := middleware.CurrentUser(c)
	user := *current
	if req.FirstName != nil {
		user.FirstName = core.NormalizePersonName(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = core.NormalizePersonName(*req.LastName)
	}
	if req.Email != nil {
		user.Email = core.NormalizeEmail(*req.Email)
	}
	if req.Age != nil {
		user.Age = *req.Age
	}
	if req.Password != nil {
		hashed, err := auth.HashPassword(*req.Password)
		if err != nil {
			_ = c.Error(err)
			return
		}
		user.PasswordHash = hashed
	}

	if err := storage.UpdateUser(c.Request.Context(), h.DB, &user); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, &user)
}

// DeleteMe removes the caller's account along with their recipes and sessions.
func (h *UserHandler) DeleteMe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := storage.DeleteUser(c.Request.Context(), h.DB, user.ID); err != nil {
		_ = c.Error(err)
		return
	}
	customLog.Printf("Deleted account %s", user.ID)
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) issueSession(ctx context.Context, userID string) (string, error) {
	token, err := auth.GenerateJWT(userID, h.Cfg.JWTSecret, h.Cfg.JWTExpiration)
	if err != nil {
		customLog.Warnf("Failed to generate JWT for user %s: %v", userID, err)
		return "", err
	}
	if err := storage.AddToken(ctx, h.DB, userID, token); err != nil {
		return "", err
	}
	return token, nil
}

// lookupTitle asks the enrichment service for a job title. Every failure
// yields an empty title; signup never fails because of it.
func (h *UserHandler) lookupTitle(ctx context.Context, email string) string {
	if h.Titles == nil {
		return ""
	}
	if h.Cfg.EnrichmentTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Cfg.EnrichmentTimeout)
		defer cancel()
	}

	title, err := h.Titles.LookupTitle(ctx, email)
	switch {
	case err == nil:
		return title
	case errors.Is(err, enrichment.ErrDisabled):
		customLog.Debugf("Signup: enrichment disabled, no title for %s", email)
	case errors.Is(err, enrichment.ErrPersonNotFound):
		customLog.Printf("Signup: no enrichment record for %s", email)
	default:
		customLog.Warnf("Signup: enrichment lookup for %s failed: %v", email, err)
	}
	return ""
}
