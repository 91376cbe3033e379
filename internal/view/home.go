package view

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// HomePage renders the landing page.
func HomePage(displayName string) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<section class="panel">`)
		b.WriteString(`<h1>Know your woodpile.</h1>`)
		b.WriteString(`<p>Cordkeeper tracks every fire you burn and every piece of wood you feed it, and tells you how much of a cord your season has cost so far.</p>`)
		if displayName != "" {
			b.WriteString(`<p><a href="/dashboard"><button type="button">Open your dashboard</button></a></p>`)
		} else {
			b.WriteString(`<p><a href="/login"><button type="button">Log in</button></a></p>`)
		}
		b.WriteString(`</section>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
	return page("Home", displayName, body)
}
