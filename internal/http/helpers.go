package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"nutrilog/internal/core"
	"nutrilog/internal/session"
)

type contextKey string

const (
	principalKey contextKey = "principal"
	claimsKey    contextKey = "session_claims"
)

// principalFrom returns the principal resolved by requireSession.
func principalFrom(ctx context.Context) core.Principal {
	p, _ := ctx.Value(principalKey).(core.Principal)
	return p
}

func claimsFrom(ctx context.Context) *session.Claims {
	c, _ := ctx.Value(claimsKey).(*session.Claims)
	return c
}

// sessionToken reads the session cookie, falling back to a Bearer token.
func sessionToken(r *http.Request) string {
	if c, err := r.Cookie(session.CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

func sessionCookie(r *http.Request, token string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     session.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	}
}

func expiredSessionCookie(r *http.Request) *http.Cookie {
	c := sessionCookie(r, "", time.Unix(0, 0))
	c.MaxAge = -1
	return c
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
