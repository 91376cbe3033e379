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

// HistoryPage renders the ended fires of the current season, newest
// first, with a load-more control when more pages remain.
func HistoryPage(displayName string, fires []domain.Fire, settings *domain.Settings, total, nextOffset int, seasonStart time.Time) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1>Fire history</h1>`)
		b.WriteString(`<p class="muted">` + strconv.Itoa(total) + ` fires ended since ` + formatDay(seasonStart) + `.</p>`)
		b.WriteString(`<div id="` + HistoryListID + `">`)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := HistoryListFragment(fires, settings).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</div>`); err != nil {
			return err
		}
		return LoadMoreFragment(total, nextOffset).Render(ctx, w)
	})
	return page("History", displayName, body)
}

// HistoryListFragment renders fire cards without a wrapper; the SSE
// append patch inserts them into the list container.
func HistoryListFragment(fires []domain.Fire, settings *domain.Settings) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		if len(fires) == 0 {
			b.WriteString(`<p class="muted">No fires ended this season yet.</p>`)
		}
		for i := range fires {
			f := &fires[i]
			totals := service.Aggregate(f.Logs, settings)
			cords := service.ToCords(totals.WeightedUnits, settings.UnitsPerCord)
			id := formatID(f.ID)
			endedAt := f.StartedAt
			if f.EndedAt != nil {
				endedAt = *f.EndedAt
			}
			b.WriteString(`<article class="fire-card" id="fire-` + id + `">`)
			b.WriteString(`<h3><a href="/fires/` + id + `">` + formatDay(f.StartedAt) + `</a></h3>`)
			b.WriteString(`<p class="muted">` + formatInstant(f.StartedAt) + ` to ` + formatInstant(endedAt) + `, burned ` + formatDuration(f.Duration(endedAt)) + `</p>`)
			b.WriteString(`<p>` + strconv.Itoa(totals.Pieces()) + ` pieces, ` + formatUnits(totals.WeightedUnits) + ` units, ` + formatCords(cords) + ` cords</p>`)
			b.WriteString(`</article>`)
		}
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// LoadMoreFragment renders the load-more control, or an empty shell with
// the same id once every fire is on the page.
func LoadMoreFragment(total, nextOffset int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<div id="` + LoadMoreID + `">`)
		if remaining := total - nextOffset; remaining > 0 {
			b.WriteString(`<button class="quiet" data-on-click="@get('/history/more?offset=` + strconv.Itoa(nextOffset) + `')">`)
			b.WriteString(`Load more (` + strconv.Itoa(remaining) + ` remaining)`)
			b.WriteString(`</button>`)
		}
		b.WriteString(`</div>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}
