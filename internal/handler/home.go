package handler

import (
	"net/http"

	"github.com/kinneerd/Cordkeeper/internal/view"
)

// HandleHome renders the landing page. Signed-in visitors go straight to the
// dashboard.
func HandleHome(w http.ResponseWriter, r *http.Request) {
	// "GET /" matches every path without a more specific route.
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	if account := AccountFromContext(r.Context()); account != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	view.HomePage("").Render(r.Context(), w)
}
