package view

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

const datastarSrc = "https://cdn.jsdelivr.net/gh/starfederation/datastar@v1.0.0/bundles/datastar.js"

const baseCSS = `
:root { --bark: #4a3426; --ember: #c2410c; --ash: #f5f1ec; --smoke: #6b6259; }
* { box-sizing: border-box; }
body { margin: 0; font-family: system-ui, sans-serif; background: var(--ash); color: var(--bark); }
nav.topnav { display: flex; justify-content: space-between; align-items: center; padding: 0.75rem 1.25rem; background: var(--bark); }
nav.topnav a { color: var(--ash); text-decoration: none; margin-left: 1rem; }
nav.topnav .brand { font-weight: 700; margin-left: 0; }
nav.topnav .links { display: flex; align-items: center; }
nav.topnav form { display: inline; margin-left: 1rem; }
main { max-width: 46rem; margin: 0 auto; padding: 1.5rem 1.25rem 3rem; }
h1 { font-size: 1.5rem; }
.panel { background: #fff; border-radius: 8px; padding: 1rem 1.25rem; margin: 1rem 0; box-shadow: 0 1px 3px rgba(0,0,0,0.08); }
.stats { display: grid; grid-template-columns: repeat(auto-fit, minmax(8rem, 1fr)); gap: 0.75rem; }
.stat { background: #fff; border-radius: 8px; padding: 0.75rem; text-align: center; }
.stat .num { display: block; font-size: 1.4rem; font-weight: 700; }
.stat .label { color: var(--smoke); font-size: 0.85rem; }
.muted { color: var(--smoke); }
.error { color: #b91c1c; }
.notice { background: #ecfdf5; border: 1px solid #a7f3d0; border-radius: 6px; padding: 0.5rem 0.75rem; }
button { background: var(--ember); color: #fff; border: 0; border-radius: 6px; padding: 0.45rem 0.9rem; cursor: pointer; font-size: 0.95rem; }
button.quiet { background: transparent; color: var(--ember); border: 1px solid var(--ember); }
button.linklike { background: none; border: 0; color: var(--ash); padding: 0; cursor: pointer; font-size: inherit; }
form.stacked label { display: block; margin: 0.6rem 0 0.2rem; }
input, select { padding: 0.4rem; border: 1px solid #d6cec4; border-radius: 6px; font-size: 0.95rem; }
table { width: 100%; border-collapse: collapse; }
td, th { text-align: left; padding: 0.4rem 0.5rem; border-bottom: 1px solid #eee7dd; }
progress { width: 100%; height: 0.8rem; }
.fire-card { background: #fff; border-radius: 8px; padding: 0.9rem 1.1rem; margin: 0.6rem 0; }
.fire-card h3 { margin: 0 0 0.3rem; font-size: 1.05rem; }
.row { display: flex; gap: 0.5rem; align-items: center; flex-wrap: wrap; }
`

// page wraps body content in the shared HTML shell. displayName fills
// the navbar; empty renders the signed-out variant.
func page(title, displayName string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		b.WriteString(`<title>` + esc(title) + ` | Cordkeeper</title>`)
		b.WriteString(`<script type="module" src="` + datastarSrc + `"></script>`)
		b.WriteString(`<style>` + baseCSS + `</style></head><body>`)
		b.WriteString(`<nav class="topnav"><a class="brand" href="/">Cordkeeper</a><div class="links">`)
		if displayName != "" {
			b.WriteString(`<a href="/dashboard">Dashboard</a>`)
			b.WriteString(`<a href="/history">History</a>`)
			b.WriteString(`<a href="/settings">Settings</a>`)
			b.WriteString(`<form method="post" action="/logout"><button type="submit" class="linklike">Log out (` + esc(displayName) + `)</button></form>`)
		} else {
			b.WriteString(`<a href="/login">Log in</a>`)
		}
		b.WriteString(`</div></nav><main>`)
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}
