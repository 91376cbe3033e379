package view

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/kinneerd/Cordkeeper/internal/domain"
)

// LoginPage renders the password login form. errMsg is shown above the
// form when non-empty.
func LoginPage(errMsg string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="panel"><h1>Log in</h1>`)
		if errMsg != "" {
			b.WriteString(`<p class="error">` + esc(errMsg) + `</p>`)
		}
		b.WriteString(`<form class="stacked" method="post" action="/login">`)
		b.WriteString(`<label for="password">Password</label>`)
		b.WriteString(`<input type="password" id="password" name="password" required autofocus>`)
		b.WriteString(`<p><button type="submit">Log in</button></p>`)
		b.WriteString(`</form></section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
	return page("Log in", "", body)
}

// SetupPage renders the first-run onboarding form. displayName re-fills
// the name field after a validation failure; defaults supplies the
// season fields' initial values.
func SetupPage(displayName, errMsg string, defaults *domain.Settings) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="panel"><h1>Set up Cordkeeper</h1>`)
		b.WriteString(`<p class="muted">One account owns this instance. Pick a name and a password, and tell Cordkeeper when your burning season starts.</p>`)
		if errMsg != "" {
			b.WriteString(`<p class="error">` + esc(errMsg) + `</p>`)
		}
		b.WriteString(`<form class="stacked" method="post" action="/setup">`)
		b.WriteString(`<label for="display_name">Your name</label>`)
		b.WriteString(`<input type="text" id="display_name" name="display_name" value="` + esc(displayName) + `" required autofocus>`)
		b.WriteString(`<label for="password">Password (8 characters or more)</label>`)
		b.WriteString(`<input type="password" id="password" name="password" required>`)
		b.WriteString(`<label for="confirm_password">Confirm password</label>`)
		b.WriteString(`<input type="password" id="confirm_password" name="confirm_password" required>`)
		b.WriteString(`<label for="season_start_month">Season starts (month / day)</label>`)
		b.WriteString(`<div class="row">`)
		b.WriteString(monthSelect("season_start_month", defaults.SeasonStartMonth))
		b.WriteString(`<input type="number" id="season_start_day" name="season_start_day" min="1" max="31" value="` + strconv.Itoa(defaults.SeasonStartDay) + `">`)
		b.WriteString(`</div>`)
		b.WriteString(`<label for="season_goal">Season goal in cords (optional)</label>`)
		b.WriteString(`<input type="number" id="season_goal" name="season_goal" min="0" step="any" placeholder="e.g. 3.5">`)
		b.WriteString(`<p><button type="submit">Create account</button></p>`)
		b.WriteString(`</form></section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
	return page("Setup", "", body)
}

var monthNames = []string{"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December"}

func monthSelect(name string, selected int) string {
	var b strings.Builder
	b.WriteString(`<select id="` + name + `" name="` + name + `">`)
	for i, label := range monthNames {
		month := i + 1
		b.WriteString(`<option value="` + strconv.Itoa(month) + `"`)
		if month == selected {
			b.WriteString(` selected`)
		}
		b.WriteString(`>` + label + `</option>`)
	}
	b.WriteString(`</select>`)
	return b.String()
}
