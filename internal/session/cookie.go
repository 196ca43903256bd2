package session

import (
	"net/http"
	"time"
)

const (
	CookieName = "session"
)

// CookieHeader renders the Set-Cookie value carrying the session token.
// Domain should be empty outside production.
func CookieHeader(token string, ttl time.Duration, domain string) string {
	c := &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Domain:   domain,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
	return c.String()
}

// ClearCookieHeader renders the Set-Cookie value that removes the session
// cookie from the client.
func ClearCookieHeader() string {
	c := &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
	return c.String()
}

// TokenFromCookieHeader extracts the session token from a raw Cookie header.
// Returns "" when the header is absent or carries no session cookie.
func TokenFromCookieHeader(header string) string {
	if header == "" {
		return ""
	}
	cookies, err := http.ParseCookie(header)
	if err != nil {
		return ""
	}
	for _, c := range cookies {
		if c.Name == CookieName {
			return c.Value
		}
	}
	return ""
}
