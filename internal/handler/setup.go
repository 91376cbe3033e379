package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/kinneerd/Cordkeeper/internal/domain"
	"github.com/kinneerd/Cordkeeper/internal/service"
	"github.com/kinneerd/Cordkeeper/internal/view"
)

// SetupHandler handles first-run onboarding: creating the account and
// accepting or adjusting the season defaults.
type SetupHandler struct {
	auth         *service.AuthService
	settings     *service.SettingsService
	cookieSecure bool
}

// NewSetupHandler creates a new SetupHandler.
func NewSetupHandler(auth *service.AuthService, settings *service.SettingsService, cookieSecure bool) *SetupHandler {
	return &SetupHandler{auth: auth, settings: settings, cookieSecure: cookieSecure}
}

// HandleSetupPage renders the onboarding form, or sends visitors home once
// the account exists.
func (h *SetupHandler) HandleSetupPage(w http.ResponseWriter, r *http.Request) {
	if h.setupDone(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	view.SetupPage("", "", h.settings.Current()).Render(r.Context(), w)
}

// HandleSetup creates the account, stores the season preferences, and signs
// the new owner in.
// POST /setup (form: display_name, password, confirm_password,
// season_start_month, season_start_day, season_goal)
func (h *SetupHandler) HandleSetup(w http.ResponseWriter, r *http.Request) {
	if h.setupDone(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	displayName := r.FormValue("display_name")

	// Season preferences first: they are rewritable on resubmit, while the
	// account insert below is what flips the setup gate.
	u, err := settingsUpdateFromForm(r, h.settings.Current())
	if err == nil {
		_, err = h.settings.Update(r.Context(), u)
	}
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			h.renderSetupError(w, r, displayName, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		slog.Error("store season preferences", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if _, err := h.auth.Setup(r.Context(), displayName, r.FormValue("password"), r.FormValue("confirm_password")); err != nil {
		if errors.Is(err, domain.ErrAccountExists) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			h.renderSetupError(w, r, displayName, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		slog.Error("create account", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := h.settings.MarkOnboardingDone(r.Context()); err != nil {
		slog.Error("mark onboarding done", "error", err)
	}

	token, err := h.auth.Login(r.Context(), r.FormValue("password"))
	if err != nil {
		slog.Error("login after setup", "error", err)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	setSessionCookie(w, token, sessionMaxAge, h.cookieSecure)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *SetupHandler) renderSetupError(w http.ResponseWriter, r *http.Request, displayName, msg string, status int) {
	w.WriteHeader(status)
	view.SetupPage(displayName, msg, h.settings.Current()).Render(r.Context(), w)
}

func (h *SetupHandler) setupDone(r *http.Request) bool {
	_, err := h.auth.Account(r.Context())
	return err == nil
}
