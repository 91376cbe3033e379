package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/kinneerd/Cordkeeper/internal/domain"
	"github.com/kinneerd/Cordkeeper/internal/service"
	"github.com/kinneerd/Cordkeeper/internal/view"
)

// SettingsHandler handles the season configuration page.
type SettingsHandler struct {
	settings *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// HandleSettingsPage renders the settings form.
// GET /settings
func (h *SettingsHandler) HandleSettingsPage(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())
	if account == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	saved := r.URL.Query().Get("saved") == "1"
	view.SettingsPage(account.DisplayName, h.settings.Current(), "", saved).Render(r.Context(), w)
}

// HandleSave validates and stores the submitted season configuration.
// POST /settings
func (h *SettingsHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())
	if account == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	u, err := settingsUpdateFromForm(r, h.settings.Current())
	if err == nil {
		_, err = h.settings.Update(r.Context(), u)
	}
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			w.WriteHeader(http.StatusUnprocessableEntity)
			view.SettingsPage(account.DisplayName, h.settings.Current(), err.Error(), false).Render(r.Context(), w)
			return
		}
		slog.Error("save settings", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/settings?saved=1", http.StatusSeeOther)
}

// settingsUpdateFromForm builds a SettingsUpdate from submitted form values.
// Absent fields keep their current value so partial forms (onboarding) work;
// an empty season_goal clears the goal.
func settingsUpdateFromForm(r *http.Request, current *domain.Settings) (service.SettingsUpdate, error) {
	u := service.SettingsUpdate{
		UnitsPerCord:     current.UnitsPerCord,
		SmallRatio:       current.SmallRatio,
		MediumRatio:      current.MediumRatio,
		LargeRatio:       current.LargeRatio,
		SeasonStartMonth: current.SeasonStartMonth,
		SeasonStartDay:   current.SeasonStartDay,
	}

	var err error
	if u.UnitsPerCord, err = floatField(r, "units_per_cord", u.UnitsPerCord); err != nil {
		return u, err
	}
	if u.SmallRatio, err = floatField(r, "small_ratio", u.SmallRatio); err != nil {
		return u, err
	}
	if u.MediumRatio, err = floatField(r, "medium_ratio", u.MediumRatio); err != nil {
		return u, err
	}
	if u.LargeRatio, err = floatField(r, "large_ratio", u.LargeRatio); err != nil {
		return u, err
	}
	if u.SeasonStartMonth, err = intField(r, "season_start_month", u.SeasonStartMonth); err != nil {
		return u, err
	}
	if u.SeasonStartDay, err = intField(r, "season_start_day", u.SeasonStartDay); err != nil {
		return u, err
	}

	if v := r.FormValue("season_goal"); v != "" {
		goal, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return u, fmt.Errorf("%w: season goal must be a number", domain.ErrInvalidInput)
		}
		u.SeasonGoal = &goal
	}

	return u, nil
}

func floatField(r *http.Request, name string, fallback float64) (float64, error) {
	v := r.FormValue(name)
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, name)
	}
	return parsed, nil
}

func intField(r *http.Request, name string, fallback int) (int, error) {
	v := r.FormValue(name)
	if v == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("%w: %s must be a whole number", domain.ErrInvalidInput, name)
	}
	return parsed, nil
}
