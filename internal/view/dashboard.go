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

// DashboardPage renders the season snapshot and the active fire panel.
func DashboardPage(displayName string, snap *service.SeasonSnapshot, settings *domain.Settings, now time.Time, notice string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<h1>Season so far</h1>`)
		b.WriteString(`<p class="muted">Season started ` + formatDay(snap.SeasonStart) + `.</p>`)
		if notice != "" {
			b.WriteString(`<p class="notice">` + esc(notice) + `</p>`)
		}
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := StatsFragment(snap, settings).Render(ctx, w); err != nil {
			return err
		}
		if snap.ActiveFire != nil {
			return ActiveFireFragment(snap.ActiveFire, settings, now).Render(ctx, w)
		}
		return startFirePanel().Render(ctx, w)
	})
	return page("Dashboard", displayName, body)
}

// StatsFragment renders the season totals grid. Patched over SSE after
// every log mutation.
func StatsFragment(snap *service.SeasonSnapshot, settings *domain.Settings) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section id="` + StatsID + `">`)
		b.WriteString(`<div class="stats">`)
		stat := func(num, label string) {
			b.WriteString(`<div class="stat"><span class="num">` + num + `</span><span class="label">` + label + `</span></div>`)
		}
		stat(strconv.Itoa(snap.FireCount), "fires")
		stat(strconv.Itoa(snap.TotalLogs), "pieces burned")
		stat(strconv.Itoa(snap.SmallCount)+" / "+strconv.Itoa(snap.MediumCount)+" / "+strconv.Itoa(snap.LargeCount), "small / medium / large")
		stat(formatUnits(snap.WeightedUnits), "weighted units")
		stat(formatCords(snap.CordsBurned), "cords burned")
		b.WriteString(`</div>`)
		if snap.Progress != nil && settings.SeasonGoal != nil {
			b.WriteString(`<div class="panel">`)
			b.WriteString(`<p>` + formatCords(snap.CordsBurned) + ` of ` + formatFloat(*settings.SeasonGoal) + ` cords (` + formatPercent(*snap.Progress) + ` of the season goal)</p>`)
			b.WriteString(`<progress value="` + formatFloat(*snap.Progress) + `" max="1"></progress>`)
			b.WriteString(`</div>`)
		}
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// ActiveFireFragment renders the burning fire panel with the quick-log
// controls. It carries the same element id as the start panel so either
// can be patched in place of the other.
func ActiveFireFragment(fire *domain.Fire, settings *domain.Settings, now time.Time) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		totals := service.Aggregate(fire.Logs, settings)
		id := formatID(fire.ID)
		var b strings.Builder
		b.WriteString(`<section id="` + ActiveFireID + `" class="panel">`)
		b.WriteString(`<h2>Fire burning</h2>`)
		b.WriteString(`<p>Started ` + formatInstant(fire.StartedAt) + `, going for ` + formatDuration(fire.Duration(now)) + `. `)
		b.WriteString(strconv.Itoa(totals.Pieces()) + ` pieces on so far (` + strconv.Itoa(totals.Small) + ` small, ` + strconv.Itoa(totals.Medium) + ` medium, ` + strconv.Itoa(totals.Large) + ` large).</p>`)
		b.WriteString(`<div class="row">`)
		for _, size := range domain.Sizes() {
			b.WriteString(`<button data-on-click="@post('/fires/` + id + `/logs?size=` + string(size) + `&quantity=1')">+1 ` + string(size) + `</button>`)
		}
		b.WriteString(`</div>`)
		b.WriteString(`<form class="row" data-on-submit="@post('/fires/` + id + `/logs', {contentType: 'form'})">`)
		b.WriteString(`<input type="number" name="quantity" min="1" value="1" aria-label="Quantity">`)
		b.WriteString(sizeSelect("size", domain.SizeMedium))
		b.WriteString(`<button type="submit" class="quiet">Add</button>`)
		b.WriteString(`</form>`)
		b.WriteString(`<div class="row">`)
		b.WriteString(`<form method="post" action="/fires/` + id + `/end"><button type="submit">End fire</button></form>`)
		b.WriteString(`<a href="/fires/` + id + `">Details</a>`)
		b.WriteString(`</div>`)
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func startFirePanel() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section id="` + ActiveFireID + `" class="panel">`)
		b.WriteString(`<h2>No fire burning</h2>`)
		b.WriteString(`<form method="post" action="/fires"><button type="submit">Light one</button></form>`)
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func sizeSelect(name string, selected domain.LogSize) string {
	var b strings.Builder
	b.WriteString(`<select name="` + name + `" aria-label="Size">`)
	for _, s := range domain.Sizes() {
		b.WriteString(`<option value="` + string(s) + `"`)
		if s == selected {
			b.WriteString(` selected`)
		}
		b.WriteString(`>` + string(s) + `</option>`)
	}
	b.WriteString(`</select>`)
	return b.String()
}
