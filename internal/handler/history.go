package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/kinneerd/Cordkeeper/internal/service"
	"github.com/kinneerd/Cordkeeper/internal/view"
	"github.com/starfederation/datastar-go/datastar"
)

const historyPageSize = 10

// HistoryHandler handles the season history page.
type HistoryHandler struct {
	fires    *service.FireService
	settings *service.SettingsService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(fires *service.FireService, settings *service.SettingsService) *HistoryHandler {
	return &HistoryHandler{fires: fires, settings: settings}
}

// HandleHistory renders ended fires of the current season, newest first.
func (h *HistoryHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())
	if account == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	settings := h.settings.Current()
	seasonStart := service.SeasonStart(settings.SeasonStartMonth, settings.SeasonStartDay, time.Now())

	fires, err := h.fires.History(r.Context(), seasonStart, historyPageSize, 0)
	if err != nil {
		slog.Error("list fire history", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	total, err := h.fires.CountHistory(r.Context(), seasonStart)
	if err != nil {
		slog.Error("count fire history", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view.HistoryPage(account.DisplayName, fires, settings, total, historyPageSize, seasonStart).Render(r.Context(), w)
}

// HandleLoadMore appends the next history page via SSE.
// GET /history/more?offset=N
func (h *HistoryHandler) HandleLoadMore(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())
	if account == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	offset := 0
	if v := r.URL.Query().Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			offset = parsed
		}
	}

	settings := h.settings.Current()
	seasonStart := service.SeasonStart(settings.SeasonStartMonth, settings.SeasonStartDay, time.Now())

	fires, err := h.fires.History(r.Context(), seasonStart, historyPageSize, offset)
	if err != nil {
		slog.Error("load more fire history", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	total, err := h.fires.CountHistory(r.Context(), seasonStart)
	if err != nil {
		slog.Error("count fire history", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	nextOffset := offset + historyPageSize

	sse := datastar.NewSSE(w, r)

	// Append the next page of fire cards. An empty page appends nothing so
	// the list's empty-state text never lands mid-list.
	if len(fires) > 0 {
		sse.PatchElementTempl(
			view.HistoryListFragment(fires, settings),
			datastar.WithSelectorID(view.HistoryListID),
			datastar.WithModeAppend(),
		)
	}

	// Replace the load-more button (updates count or removes it).
	sse.PatchElementTempl(
		view.LoadMoreFragment(total, nextOffset),
	)
}
