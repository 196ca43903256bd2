package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/brgarcias/apartment-gift-list/internal/auth"
	"github.com/brgarcias/apartment-gift-list/internal/bff"
	"github.com/brgarcias/apartment-gift-list/internal/logger"
	"github.com/brgarcias/apartment-gift-list/internal/session"
	"github.com/brgarcias/apartment-gift-list/internal/store"
)

type userStore interface {
	FindUserByNameAndBirthDate(ctx context.Context, name, birthDate string) (*store.User, error)
	CreateUser(ctx context.Context, payload store.UserPayload) (*store.User, error)
	UserByID(ctx context.Context, id int) (*store.User, error)
}

type userCache interface {
	PutUserSnapshot(ctx context.Context, userID int, v any) error
}

type sessionChecker interface {
	Check(ctx context.Context, cookieHeader string) auth.Result
}

// AuthHandler owns sign-up, sign-in, sign-out and the session check
// endpoints.
type AuthHandler struct {
	users    userStore
	sessions session.Store
	cache    userCache
	checker  sessionChecker

	ttl          time.Duration
	cookieDomain string
}

func NewAuthHandler(
	users userStore,
	sessions session.Store,
	cache userCache,
	checker sessionChecker,
	ttl time.Duration,
	cookieDomain string,
) *AuthHandler {
	return &AuthHandler{
		users:        users,
		sessions:     sessions,
		cache:        cache,
		checker:      checker,
		ttl:          ttl,
		cookieDomain: cookieDomain,
	}
}

func (h *AuthHandler) Signup(ctx context.Context, req bff.Request) (bff.Response, error) {
	var payload store.UserPayload
	if err := json.Unmarshal([]byte(req.Body), &payload); err != nil || payload.Name == "" {
		return bff.ErrorResponse(http.StatusBadRequest, "No data provided"), nil
	}

	existing, err := h.users.FindUserByNameAndBirthDate(ctx, payload.Name, payload.BirthDate)
	if err != nil {
		logger.Error("signup lookup failed", map[string]any{"error": err.Error()})
		return bff.ErrorResponse(http.StatusInternalServerError, "Failed to create user"), nil
	}
	if existing != nil {
		return bff.ErrorResponse(http.StatusBadRequest, "User already exists"), nil
	}

	created, err := h.users.CreateUser(ctx, payload)
	if err != nil {
		logger.Error("signup create failed", map[string]any{"error": err.Error()})
		return bff.ErrorResponse(http.StatusInternalServerError, "Failed to create user"), nil
	}

	return bff.JSON(http.StatusCreated, map[string]any{"user": created}), nil
}

func (h *AuthHandler) Signin(ctx context.Context, req bff.Request) (bff.Response, error) {
	var payload store.UserPayload
	if err := json.Unmarshal([]byte(req.Body), &payload); err != nil || payload.Name == "" {
		return bff.ErrorResponse(http.StatusBadRequest, "No data provided"), nil
	}

	user, err := h.users.FindUserByNameAndBirthDate(ctx, payload.Name, payload.BirthDate)
	if err != nil {
		logger.Error("signin lookup failed", map[string]any{"error": err.Error()})
		return bff.ErrorResponse(http.StatusInternalServerError, "Failed to sign in user"), nil
	}
	if user == nil {
		// First sign-in registers the visitor.
		user, err = h.users.CreateUser(ctx, payload)
		if err != nil {
			logger.Error("signin create failed", map[string]any{"error": err.Error()})
			return bff.ErrorResponse(http.StatusInternalServerError, "Failed to sign in user"), nil
		}
	}

	token, err := session.GenerateToken()
	if err != nil {
		return bff.ErrorResponse(http.StatusInternalServerError, "Failed to sign in user"), nil
	}

	rec := session.Record{
		UserID:    user.ID,
		CreatedAt: time.Now().UTC(),
		UserAgent: req.Header("user-agent"),
		IP:        clientIP(req),
	}
	if err := h.sessions.Create(ctx, token, rec); err != nil {
		logger.Error("signin session create failed", map[string]any{"error": err.Error()})
		return bff.ErrorResponse(http.StatusInternalServerError, "Failed to sign in user"), nil
	}

	// Write-through side cache; sign-in still succeeds if it fails.
	if err := h.cache.PutUserSnapshot(ctx, user.ID, user); err != nil {
		logger.Warn("user snapshot cache write failed", map[string]any{
			"userId": user.ID,
			"error":  err.Error(),
		})
	}

	logger.Info("user signed in", map[string]any{
		"userId": user.ID,
		"ip":     rec.IP,
	})

	resp := bff.JSON(http.StatusOK, map[string]any{
		"user": map[string]any{
			"id":        user.ID,
			"name":      user.Name,
			"birthDate": user.BirthDate,
		},
	})
	return resp.WithHeader("Set-Cookie", session.CookieHeader(token, h.ttl, h.cookieDomain)), nil
}

func (h *AuthHandler) Signout(ctx context.Context, req bff.Request) (bff.Response, error) {
	token := session.TokenFromCookieHeader(req.Header("cookie"))
	if token == "" {
		return bff.ErrorResponse(http.StatusBadRequest, "No session token provided"), nil
	}

	if err := h.sessions.Delete(ctx, token); err != nil {
		logger.Error("signout delete failed", map[string]any{"error": err.Error()})
		return bff.ErrorResponse(http.StatusInternalServerError, "Failed to sign out user"), nil
	}

	resp := bff.JSON(http.StatusOK, map[string]string{"message": "User signed out"})
	return resp.WithHeader("Set-Cookie", session.ClearCookieHeader()), nil
}

// Check surfaces the session record for a valid token, 401 otherwise. The
// failure reasons come straight from the checker: "Unauthorized" when no
// cookie was sent, "Session expired" when the cache no longer holds the
// token.
func (h *AuthHandler) Check(ctx context.Context, req bff.Request) (bff.Response, error) {
	res := h.checker.Check(ctx, req.Header("cookie"))
	if !res.Authorized {
		return bff.ErrorResponse(res.Status, res.Reason), nil
	}
	return bff.JSON(http.StatusOK, res.Session), nil
}

// AuthenticatedUser resolves the session to the full user record.
func (h *AuthHandler) AuthenticatedUser(ctx context.Context, req bff.Request) (bff.Response, error) {
	res := h.checker.Check(ctx, req.Header("cookie"))
	if !res.Authorized {
		return bff.ErrorResponse(http.StatusUnauthorized, "Unauthorized"), nil
	}

	user, err := h.users.UserByID(ctx, res.Session.UserID)
	if err != nil {
		logger.Error("auth user lookup failed", map[string]any{"error": err.Error()})
		return bff.ErrorResponse(http.StatusInternalServerError, "Failed to get auth user"), nil
	}

	return bff.JSON(http.StatusOK, map[string]any{"user": user}), nil
}

func clientIP(req bff.Request) string {
	if ip := req.Header("client-ip"); ip != "" {
		return ip
	}
	return req.Header("x-forwarded-for")
}
