package auth

import (
	"context"
	"net/http"

	"github.com/brgarcias/apartment-gift-list/internal/logger"
	"github.com/brgarcias/apartment-gift-list/internal/session"
	"github.com/brgarcias/apartment-gift-list/internal/store"
)

// Result is the outcome of an authentication check. Failures are ordinary
// values, never errors: handlers branch on Authorized instead of recovering
// anything, which is why this layer and the router signal failure through
// different channels.
type Result struct {
	Authorized bool
	Token      string
	Session    session.Record

	// Failure side: the status and message the caller should surface.
	Status int
	Reason string
}

func denied(status int, reason string) Result {
	return Result{Status: status, Reason: reason}
}

// UserLoader resolves the user a session points at.
type UserLoader interface {
	UserByID(ctx context.Context, id int) (*store.User, error)
}

type Checker struct {
	sessions session.Store
	users    UserLoader
}

func NewChecker(sessions session.Store, users UserLoader) *Checker {
	return &Checker{sessions: sessions, users: users}
}

// Check resolves the request's Cookie header to a session. A missing cookie
// and a token the cache no longer holds both map to 401, with distinct
// messages. Every successful check refreshes the session TTL, so active
// sessions slide forward on each verified request.
func (c *Checker) Check(ctx context.Context, cookieHeader string) Result {
	token := session.TokenFromCookieHeader(cookieHeader)
	if token == "" {
		return denied(http.StatusUnauthorized, "Unauthorized")
	}

	rec, err := c.sessions.Refresh(ctx, token)
	if err != nil {
		logger.Error("session lookup failed", map[string]any{
			"error": err.Error(),
		})
		return denied(http.StatusInternalServerError, "Internal server error")
	}
	if rec == nil {
		return denied(http.StatusUnauthorized, "Session expired")
	}

	return Result{Authorized: true, Token: token, Session: *rec}
}

// IsAdmin reports whether the request's session belongs to an admin user.
// Any failure along the way, a failed check, a failed user load, a missing
// user, reads as "not admin". It never returns an error.
func (c *Checker) IsAdmin(ctx context.Context, cookieHeader string) bool {
	res := c.Check(ctx, cookieHeader)
	if !res.Authorized {
		return false
	}

	user, err := c.users.UserByID(ctx, res.Session.UserID)
	if err != nil {
		logger.Error("admin check user lookup failed", map[string]any{
			"userId": res.Session.UserID,
			"error":  err.Error(),
		})
		return false
	}
	if user == nil {
		return false
	}

	return user.IsAdmin
}
