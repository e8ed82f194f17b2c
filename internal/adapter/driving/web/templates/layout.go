package templates

import (
	"context"

	"github.com/a-h/templ"

	vm "github.com/ericfisherdev/blogpanel/internal/adapter/driving/web/viewmodel"
)

// Layout wraps page content in the full HTML document: navigation bar,
// pending toasts, and static assets.
func Layout(layout vm.LayoutViewModel, content templ.Component) templ.Component {
	return Component(func(ctx context.Context, hw *Writer) {
		hw.Raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		hw.Raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		hw.Raw(`<meta name="csrf-token"`)
		hw.Attr("content", layout.CSRFToken)
		hw.Raw(`><title>`)
		hw.Text(layout.Title)
		hw.Raw(` | Blog</title><link rel="stylesheet" href="/static/app.css"></head><body>`)

		navbar(ctx, hw, layout)
		toasts(hw, layout.Toasts)

		hw.Raw(`<main class="container">`)
		hw.Render(ctx, content)
		hw.Raw(`</main><footer class="footer">Blog</footer>`)
		hw.Raw(`<script src="/static/app.js" defer></script></body></html>`)
	})
}

func navbar(ctx context.Context, hw *Writer, layout vm.LayoutViewModel) {
	hw.Raw(`<nav class="navbar"><a class="brand" href="/">`)
	if layout.Authenticated {
		hw.Text("Hello, " + layout.Username)
	} else {
		hw.Text("Blog")
	}
	hw.Raw(`</a><ul class="nav-links">`)
	for _, link := range layout.Nav {
		hw.Raw(`<li><a`)
		hw.URLAttr("href", link.Href)
		if link.Active {
			hw.Raw(` class="active" aria-current="page"`)
		}
		hw.Raw(`>`)
		hw.Text(link.Label)
		hw.Raw(`</a></li>`)
	}
	if layout.Authenticated {
		hw.Raw(`<li>`)
		ActionButton(ctx, hw, "/logout", "Logout", "link-button", "")
		hw.Raw(`</li>`)
	}
	hw.Raw(`</ul></nav>`)
}

func toasts(hw *Writer, items []vm.Toast) {
	if len(items) == 0 {
		return
	}
	hw.Raw(`<div class="toasts" role="status">`)
	for _, t := range items {
		hw.Raw(`<div`)
		hw.Attr("class", "toast toast-"+t.Level)
		hw.Raw(`>`)
		hw.Text(t.Message)
		hw.Raw(`</div>`)
	}
	hw.Raw(`</div>`)
}
