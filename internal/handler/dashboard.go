package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/kinneerd/Cordkeeper/internal/service"
	"github.com/kinneerd/Cordkeeper/internal/view"
)

// dashboardNotices maps redirect notice keys to the text shown on the page.
// Unknown keys render nothing.
var dashboardNotices = map[string]string{
	"fire-ended":     "Fire ended and added to your history.",
	"fire-discarded": "Fire discarded. Nothing was logged on it.",
}

// DashboardHandler handles the dashboard page and the stats API.
type DashboardHandler struct {
	stats    *service.StatsService
	settings *service.SettingsService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(stats *service.StatsService, settings *service.SettingsService) *DashboardHandler {
	return &DashboardHandler{stats: stats, settings: settings}
}

// HandleDashboard renders the season snapshot and the active fire panel.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())
	if account == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	snap, err := h.stats.Snapshot(r.Context())
	if err != nil {
		slog.Error("season snapshot for dashboard", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	notice := dashboardNotices[r.URL.Query().Get("notice")]
	view.DashboardPage(account.DisplayName, snap, h.settings.Current(), time.Now(), notice).Render(r.Context(), w)
}

// HandleStatsAPI returns the season snapshot as JSON.
// GET /api/stats
// Response: {"stats": {...}}
func (h *DashboardHandler) HandleStatsAPI(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())
	if account == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	snap, err := h.stats.Snapshot(r.Context())
	if err != nil {
		slog.Error("season snapshot for stats API", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"stats": toSeasonStatsDTO(snap),
	})
}
