package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kinneerd/Cordkeeper/internal/domain"
	"github.com/kinneerd/Cordkeeper/internal/service"
)

type contextKey string

const accountContextKey contextKey = "account"

// AccountFromContext extracts the authenticated account from the request
// context. Returns nil if the request is not authenticated.
func AccountFromContext(ctx context.Context) *domain.Account {
	account, _ := ctx.Value(accountContextKey).(*domain.Account)
	return account
}

// RequireAuth is middleware that protects routes requiring authentication.
// It reads the auth_token cookie, validates the JWT, loads the account from
// DB, and injects it into the request context. Returns 401 for
// unauthenticated requests.
func RequireAuth(auth *service.AuthService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, err := authenticateRequest(r, auth)
		if err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), accountContextKey, account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth is middleware that attempts to authenticate but does not block
// unauthenticated requests. If a valid token is present, the account is
// injected into context; otherwise the request proceeds without one.
func OptionalAuth(auth *service.AuthService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, err := authenticateRequest(r, auth)
		if err == nil && account != nil {
			ctx := context.WithValue(r.Context(), accountContextKey, account)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSetup is middleware that sends every request to the onboarding page
// until the account exists. It wraps everything except /setup and /healthz so
// a fresh install cannot reach a surface that assumes a configured account.
func RequireSetup(auth *service.AuthService, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := auth.Account(r.Context()); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				http.Redirect(w, r, "/setup", http.StatusSeeOther)
				return
			}
			slog.Error("check setup state", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// SecurityHeaders sets baseline security headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}

func authenticateRequest(r *http.Request, auth *service.AuthService) (*domain.Account, error) {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return nil, err
	}

	accountID, err := auth.ValidateToken(cookie.Value)
	if err != nil {
		return nil, err
	}

	account, err := auth.Account(r.Context())
	if err != nil {
		return nil, err
	}

	// The token must name the stored account; a cookie minted before a
	// database reset does not survive the reset.
	if account.ID != accountID {
		return nil, domain.ErrUnauthorized
	}

	return account, nil
}
