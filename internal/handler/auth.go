package handler

import (
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/kinneerd/Cordkeeper/internal/domain"
	"github.com/kinneerd/Cordkeeper/internal/service"
	"github.com/kinneerd/Cordkeeper/internal/view"
)

const (
	sessionCookieName = "auth_token"
	sessionMaxAge     = 86400 // 24 hours
)

// AuthHandler handles login and logout.
type AuthHandler struct {
	auth         *service.AuthService
	limiter      *service.LoginLimiter
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, limiter *service.LoginLimiter, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, limiter: limiter, cookieSecure: cookieSecure}
}

// HandleLoginPage renders the login form. Signed-in visitors are sent
// straight to the dashboard.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if account := AccountFromContext(r.Context()); account != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	view.LoginPage("").Render(r.Context(), w)
}

// HandleLogin verifies the password and sets the session cookie.
// POST /login (form: password)
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow(clientIP(r)) {
		w.WriteHeader(http.StatusTooManyRequests)
		view.LoginPage("Too many attempts. Wait a moment and try again.").Render(r.Context(), w)
		return
	}

	token, err := h.auth.Login(r.Context(), r.FormValue("password"))
	if err != nil {
		if errors.Is(err, domain.ErrSetupRequired) {
			http.Redirect(w, r, "/setup", http.StatusSeeOther)
			return
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			w.WriteHeader(http.StatusUnauthorized)
			view.LoginPage("Wrong password.").Render(r.Context(), w)
			return
		}
		slog.Error("login", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	setSessionCookie(w, token, sessionMaxAge, h.cookieSecure)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleLogout clears the session cookie.
// POST /logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	setSessionCookie(w, "", -1, h.cookieSecure)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func setSessionCookie(w http.ResponseWriter, token string, maxAge int, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

// clientIP is the rate-limit bucket key. RemoteAddr is host:port; buckets
// must not rotate with the ephemeral port.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
