package view

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/kinneerd/Cordkeeper/internal/domain"
	"github.com/kinneerd/Cordkeeper/internal/service"
)

// FireDetailPage renders one fire with its full log list and derived
// figures.
func FireDetailPage(displayName string, fire *domain.Fire, settings *domain.Settings, now time.Time) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		id := formatID(fire.ID)
		var b strings.Builder
		b.WriteString(`<h1>Fire on ` + formatDay(fire.StartedAt) + `</h1>`)
		if fire.Active() {
			b.WriteString(`<p>Burning since ` + formatInstant(fire.StartedAt) + ` (` + formatDuration(fire.Duration(now)) + ` so far).</p>`)
		} else {
			b.WriteString(`<p>` + formatInstant(fire.StartedAt) + ` to ` + formatInstant(*fire.EndedAt) + `, burned ` + formatDuration(fire.Duration(now)) + `.</p>`)
		}
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}

		if err := FireTotalsFragment(fire, settings).Render(ctx, w); err != nil {
			return err
		}
		if err := FireLogsFragment(fire).Render(ctx, w); err != nil {
			return err
		}

		b.Reset()
		b.WriteString(`<div class="row">`)
		if fire.Active() {
			b.WriteString(`<form method="post" action="/fires/` + id + `/end"><button type="submit">End fire</button></form>`)
		}
		b.WriteString(`<button class="quiet" data-on-click="@delete('/fires/` + id + `')">Delete fire</button>`)
		b.WriteString(`</div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
	return page("Fire detail", displayName, body)
}

// FireTotalsFragment renders the per-size and cord figures for one fire.
// Patched over SSE after a log entry is edited or removed.
func FireTotalsFragment(fire *domain.Fire, settings *domain.Settings) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		totals := service.Aggregate(fire.Logs, settings)
		cords := service.ToCords(totals.WeightedUnits, settings.UnitsPerCord)
		var b strings.Builder
		b.WriteString(`<section id="` + FireTotalsID + `" class="stats">`)
		stat := func(num, label string) {
			b.WriteString(`<div class="stat"><span class="num">` + num + `</span><span class="label">` + label + `</span></div>`)
		}
		stat(strconv.Itoa(totals.Pieces()), "pieces")
		stat(strconv.Itoa(totals.Small)+" / "+strconv.Itoa(totals.Medium)+" / "+strconv.Itoa(totals.Large), "small / medium / large")
		stat(formatUnits(totals.WeightedUnits), "weighted units")
		stat(formatCords(cords), "cords")
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// FireLogsFragment renders the editable log entry table for one fire.
func FireLogsFragment(fire *domain.Fire) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section id="` + FireLogsID + `" class="panel">`)
		b.WriteString(`<h2>Log entries</h2>`)
		if len(fire.Logs) == 0 {
			b.WriteString(`<p class="muted">Nothing on this fire yet.</p>`)
		} else {
			b.WriteString(`<table><thead><tr><th>When</th><th>Size</th><th>Quantity</th><th></th></tr></thead><tbody>`)
			for _, entry := range fire.Logs {
				id := formatID(entry.ID)
				b.WriteString(`<tr id="log-` + id + `">`)
				b.WriteString(`<td>` + formatInstant(entry.LoggedAt) + `</td>`)
				b.WriteString(`<td colspan="2"><form class="row" data-on-submit="@post('/logs/` + id + `', {contentType: 'form'})">`)
				b.WriteString(sizeSelect("size", entry.Size))
				b.WriteString(`<input type="number" name="quantity" min="1" value="` + strconv.Itoa(entry.Quantity) + `" aria-label="Quantity">`)
				b.WriteString(`<button type="submit" class="quiet">Save</button>`)
				b.WriteString(`</form></td>`)
				b.WriteString(`<td><button class="quiet" data-on-click="@delete('/logs/` + id + `')">Remove</button></td>`)
				b.WriteString(`</tr>`)
			}
			b.WriteString(`</tbody></table>`)
		}
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
