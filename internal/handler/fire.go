package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/kinneerd/Cordkeeper/internal/domain"
	"github.com/kinneerd/Cordkeeper/internal/service"
	"github.com/kinneerd/Cordkeeper/internal/view"
	"github.com/starfederation/datastar-go/datastar"
)

// FireHandler handles fire lifecycle and log entry requests.
type FireHandler struct {
	fires    *service.FireService
	stats    *service.StatsService
	settings *service.SettingsService
}

// NewFireHandler creates a new FireHandler.
func NewFireHandler(fires *service.FireService, stats *service.StatsService, settings *service.SettingsService) *FireHandler {
	return &FireHandler{fires: fires, stats: stats, settings: settings}
}

// HandleStart lights a new fire.
// POST /fires
func (h *FireHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())
	if account == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if _, err := h.fires.Start(r.Context()); err != nil {
		if errors.Is(err, domain.ErrFireAlreadyActive) {
			http.Error(w, "A fire is already burning.", http.StatusConflict)
			return
		}
		slog.Error("start fire", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleView renders the fire detail page.
// GET /fires/{id}
func (h *FireHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())
	if account == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	fireID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	fire, err := h.fires.GetByID(r.Context(), fireID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		slog.Error("get fire", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view.FireDetailPage(account.DisplayName, fire, h.settings.Current(), time.Now()).Render(r.Context(), w)
}

// HandleEnd closes the fire and sends the owner back to the dashboard. A
// fire with no logs is discarded instead of kept, with a distinct notice.
// POST /fires/{id}/end
func (h *FireHandler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())
	if account == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	fireID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	_, discarded, err := h.fires.End(r.Context(), fireID)
	if err != nil {
		handleFireError(w, err)
		return
	}

	notice := "fire-ended"
	if discarded {
		notice = "fire-discarded"
	}
	http.Redirect(w, r, "/dashboard?notice="+notice, http.StatusSeeOther)
}

// HandleDelete removes a fire and, by cascade, its logs.
// DELETE /fires/{id}
func (h *FireHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())
	if account == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	fireID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := h.fires.Delete(r.Context(), fireID); err != nil {
		handleFireError(w, err)
		return
	}

	sse := datastar.NewSSE(w, r)
	sse.Redirect("/history")
}

// HandleAddLog records wood on the active fire and patches the dashboard
// fragments.
// POST /fires/{id}/logs (form or query: size, quantity)
func (h *FireHandler) HandleAddLog(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())
	if account == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	fireID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if _, err := h.fires.AddLog(r.Context(), fireID, r.FormValue("size"), quantity); err != nil {
		handleFireError(w, err)
		return
	}

	h.patchDashboard(w, r)
}

// HandleUpdateLog changes a log entry's size or quantity and patches the
// fire detail fragments.
// POST /logs/{id} (form: size, quantity)
func (h *FireHandler) HandleUpdateLog(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())
	if account == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	logID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	entry, err := h.fires.UpdateLog(r.Context(), logID, r.FormValue("size"), quantity)
	if err != nil {
		handleFireError(w, err)
		return
	}

	h.patchFire(w, r, entry.FireID)
}

// HandleDeleteLog removes a log entry and patches the fire detail fragments.
// DELETE /logs/{id}
func (h *FireHandler) HandleDeleteLog(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())
	if account == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	logID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	entry, err := h.fires.DeleteLog(r.Context(), logID)
	if err != nil {
		handleFireError(w, err)
		return
	}

	h.patchFire(w, r, entry.FireID)
}

// patchDashboard refreshes the active-fire panel and the season stats after
// a log lands on the dashboard's quick-log surface.
func (h *FireHandler) patchDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := h.stats.Snapshot(r.Context())
	if err != nil {
		slog.Error("season snapshot for patch", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	settings := h.settings.Current()
	sse := datastar.NewSSE(w, r)

	if snap.ActiveFire != nil {
		sse.PatchElementTempl(
			view.ActiveFireFragment(snap.ActiveFire, settings, time.Now()),
			datastar.WithSelectorID(view.ActiveFireID),
		)
	}

	sse.PatchElementTempl(
		view.StatsFragment(snap, settings),
		datastar.WithSelectorID(view.StatsID),
	)
}

// patchFire refreshes the log table and totals on the fire detail page.
func (h *FireHandler) patchFire(w http.ResponseWriter, r *http.Request, fireID int64) {
	fire, err := h.fires.GetByID(r.Context(), fireID)
	if err != nil {
		handleFireError(w, err)
		return
	}

	sse := datastar.NewSSE(w, r)
	sse.PatchElementTempl(
		view.FireLogsFragment(fire),
		datastar.WithSelectorID(view.FireLogsID),
	)
	sse.PatchElementTempl(
		view.FireTotalsFragment(fire, h.settings.Current()),
		datastar.WithSelectorID(view.FireTotalsID),
	)
}

func handleFireError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	if errors.Is(err, domain.ErrInvalidInput) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	slog.Error("fire operation", "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
