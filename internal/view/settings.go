package view

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/kinneerd/Cordkeeper/internal/domain"
)

// SettingsPage renders the season configuration form. errMsg reports a
// rejected submission; saved shows the confirmation notice.
func SettingsPage(displayName string, s *domain.Settings, errMsg string, saved bool) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1>Season settings</h1>`)
		if errMsg != "" {
			b.WriteString(`<p class="error">` + esc(errMsg) + `</p>`)
		}
		if saved {
			b.WriteString(`<p class="notice">Settings saved.</p>`)
		}
		b.WriteString(`<section class="panel"><form class="stacked" method="post" action="/settings">`)

		b.WriteString(`<label for="units_per_cord">Medium pieces per cord</label>`)
		b.WriteString(`<input type="number" id="units_per_cord" name="units_per_cord" min="0" step="any" value="` + formatFloat(s.UnitsPerCord) + `">`)

		b.WriteString(`<label>Size ratios (relative to a medium piece)</label>`)
		b.WriteString(`<div class="row">`)
		b.WriteString(`<input type="number" name="small_ratio" min="0" step="any" value="` + formatFloat(s.SmallRatio) + `" aria-label="Small ratio">`)
		b.WriteString(`<input type="number" name="medium_ratio" min="0" step="any" value="` + formatFloat(s.MediumRatio) + `" aria-label="Medium ratio">`)
		b.WriteString(`<input type="number" name="large_ratio" min="0" step="any" value="` + formatFloat(s.LargeRatio) + `" aria-label="Large ratio">`)
		b.WriteString(`</div>`)

		goal := ""
		if s.SeasonGoal != nil {
			goal = formatFloat(*s.SeasonGoal)
		}
		b.WriteString(`<label for="season_goal">Season goal in cords (leave empty for none)</label>`)
		b.WriteString(`<input type="number" id="season_goal" name="season_goal" min="0" step="any" value="` + goal + `">`)

		b.WriteString(`<label for="season_start_month">Season starts (month / day)</label>`)
		b.WriteString(`<div class="row">`)
		b.WriteString(monthSelect("season_start_month", s.SeasonStartMonth))
		b.WriteString(`<input type="number" id="season_start_day" name="season_start_day" min="1" max="31" value="` + strconv.Itoa(s.SeasonStartDay) + `">`)
		b.WriteString(`</div>`)

		b.WriteString(`<p><button type="submit">Save settings</button></p>`)
		b.WriteString(`</form></section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
	return page("Settings", displayName, body)
}
