// Package view holds the templ components for every page and fragment
// the handlers render. Components are written as code-only templ
// components; fragments patched over SSE carry stable element ids.
package view

import (
	"math"
	"strconv"
	"time"

	"github.com/a-h/templ"
)

// Fragment ids the SSE patch handlers target.
const (
	StatsID       = "season-stats"
	ActiveFireID  = "active-fire"
	FireLogsID    = "fire-logs"
	FireTotalsID  = "fire-totals"
	HistoryListID = "history-list"
	LoadMoreID    = "history-load-more"
)

// esc escapes user-controlled text for HTML.
func esc(s string) string { return templ.EscapeString(s) }

// formatCords renders a cord figure with two decimals.
func formatCords(c float64) string { return strconv.FormatFloat(c, 'f', 2, 64) }

// formatUnits renders a weighted unit total with one decimal.
func formatUnits(u float64) string { return strconv.FormatFloat(u, 'f', 1, 64) }

// formatFloat renders a float without trailing zeros, for form values.
func formatFloat(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// formatPercent renders a 0..1 fraction as a whole percentage.
func formatPercent(p float64) string { return strconv.Itoa(int(math.Round(p*100))) + "%" }

// formatInstant renders a timestamp for display.
func formatInstant(t time.Time) string { return t.Format("Jan 2, 2006 15:04") }

// formatDay renders a date for display.
func formatDay(t time.Time) string { return t.Format("Jan 2, 2006") }

// formatDuration renders a burn duration as hours and minutes.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h == 0 {
		return strconv.Itoa(m) + "m"
	}
	return strconv.Itoa(h) + "h " + strconv.Itoa(m) + "m"
}

func formatID(id int64) string { return strconv.FormatInt(id, 10) }
