package handler

import (
	"net/http"

	"github.com/kinneerd/Cordkeeper/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(
	mux *http.ServeMux,
	auth *service.AuthService,
	fires *service.FireService,
	stats *service.StatsService,
	settings *service.SettingsService,
	loginLimiter *service.LoginLimiter,
	cookieSecure bool,
) {
	authHandler := NewAuthHandler(auth, loginLimiter, cookieSecure)
	setupHandler := NewSetupHandler(auth, settings, cookieSecure)
	dashboardHandler := NewDashboardHandler(stats, settings)
	fireHandler := NewFireHandler(fires, stats, settings)
	historyHandler := NewHistoryHandler(fires, settings)
	settingsHandler := NewSettingsHandler(settings)

	// gated sends requests to /setup until the account exists; authed
	// additionally requires a valid session.
	gated := func(h http.Handler) http.Handler {
		return RequireSetup(auth, h)
	}
	authed := func(h http.HandlerFunc) http.Handler {
		return RequireSetup(auth, RequireAuth(auth, h))
	}

	mux.HandleFunc("GET /healthz", HandleHealthz)

	// Onboarding is the only page reachable before the account exists.
	mux.HandleFunc("GET /setup", setupHandler.HandleSetupPage)
	mux.HandleFunc("POST /setup", setupHandler.HandleSetup)

	mux.Handle("GET /", gated(OptionalAuth(auth, http.HandlerFunc(HandleHome))))
	mux.Handle("GET /login", gated(OptionalAuth(auth, http.HandlerFunc(authHandler.HandleLoginPage))))
	mux.Handle("POST /login", gated(http.HandlerFunc(authHandler.HandleLogin)))
	mux.Handle("POST /logout", gated(http.HandlerFunc(authHandler.HandleLogout)))

	mux.Handle("GET /dashboard", authed(dashboardHandler.HandleDashboard))
	mux.Handle("GET /api/stats", authed(dashboardHandler.HandleStatsAPI))

	mux.Handle("POST /fires", authed(fireHandler.HandleStart))
	mux.Handle("GET /fires/{id}", authed(fireHandler.HandleView))
	mux.Handle("DELETE /fires/{id}", authed(fireHandler.HandleDelete))
	mux.Handle("POST /fires/{id}/end", authed(fireHandler.HandleEnd))
	mux.Handle("POST /fires/{id}/logs", authed(fireHandler.HandleAddLog))
	mux.Handle("POST /logs/{id}", authed(fireHandler.HandleUpdateLog))
	mux.Handle("DELETE /logs/{id}", authed(fireHandler.HandleDeleteLog))

	mux.Handle("GET /history", authed(historyHandler.HandleHistory))
	mux.Handle("GET /history/more", authed(historyHandler.HandleLoadMore))

	mux.Handle("GET /settings", authed(settingsHandler.HandleSettingsPage))
	mux.Handle("POST /settings", authed(settingsHandler.HandleSave))
}
