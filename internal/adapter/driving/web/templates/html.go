// Package templates holds the shared templ components: the page layout and
// the building blocks reused across pages.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Writer accumulates HTML output and remembers the first write error so
// components can be written as straight-line code.
type Writer struct {
	w   io.Writer
	err error
}

// Raw writes trusted markup verbatim.
func (hw *Writer) Raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

// Text writes s escaped for an HTML text node.
func (hw *Writer) Text(s string) {
	hw.Raw(templ.EscapeString(s))
}

// Textf formats and escapes.
func (hw *Writer) Textf(format string, args ...any) {
	hw.Text(fmt.Sprintf(format, args...))
}

// Attr writes ` name="value"` with value escaped.
func (hw *Writer) Attr(name, value string) {
	hw.Raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

// URLAttr writes a URL-valued attribute, replacing unsafe schemes.
func (hw *Writer) URLAttr(name, u string) {
	hw.Attr(name, string(templ.URL(u)))
}

// Flag writes a boolean attribute when on is true.
func (hw *Writer) Flag(name string, on bool) {
	if on {
		hw.Raw(" " + name)
	}
}

// Render writes a child component.
func (hw *Writer) Render(ctx context.Context, c templ.Component) {
	if hw.err != nil || c == nil {
		return
	}
	hw.err = c.Render(ctx, hw.w)
}

// Err returns the first error encountered.
func (hw *Writer) Err() error { return hw.err }

// Component adapts a straight-line writer function into a templ.Component.
func Component(fn func(ctx context.Context, hw *Writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &Writer{w: w}
		fn(ctx, hw)
		return hw.Err()
	})
}

type csrfKey struct{}

// WithCSRFToken stores the request's CSRF token for form components.
func WithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfKey{}, token)
}

// CSRFToken returns the token stored by WithCSRFToken.
func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(csrfKey{}).(string)
	return token
}

// CSRFField writes the hidden input every POST form carries.
func CSRFField(ctx context.Context, hw *Writer) {
	hw.Raw(`<input type="hidden" name="csrf_token"`)
	hw.Attr("value", CSRFToken(ctx))
	hw.Raw(`>`)
}

// FormStart opens a POST form with the CSRF field already written.
func FormStart(ctx context.Context, hw *Writer, action string, multipart bool) {
	hw.Raw(`<form method="post"`)
	hw.URLAttr("action", action)
	if multipart {
		hw.Raw(` enctype="multipart/form-data"`)
	}
	hw.Raw(`>`)
	CSRFField(ctx, hw)
}

// ActionButton is a single-button POST form, used for likes, follows, and
// deletions.
func ActionButton(ctx context.Context, hw *Writer, action, label, class, confirm string) {
	hw.Raw(`<form method="post" class="inline"`)
	hw.URLAttr("action", action)
	if confirm != "" {
		hw.Attr("data-confirm", confirm)
	}
	hw.Raw(`>`)
	CSRFField(ctx, hw)
	hw.Raw(`<button type="submit"`)
	hw.Attr("class", class)
	hw.Raw(`>`)
	hw.Text(label)
	hw.Raw(`</button></form>`)
}

// Input writes a labelled input.
func Input(hw *Writer, label, typ, name, value string, required bool) {
	hw.Raw(`<label class="field"><span>`)
	hw.Text(label)
	hw.Raw(`</span><input`)
	hw.Attr("type", typ)
	hw.Attr("name", name)
	if typ != "file" && typ != "password" {
		hw.Attr("value", value)
	}
	if typ == "file" {
		hw.Raw(` accept="image/*"`)
	}
	hw.Flag("required", required)
	hw.Raw(`></label>`)
}

// TextArea writes a labelled textarea.
func TextArea(hw *Writer, label, name, value string, rows int, required bool) {
	hw.Raw(`<label class="field"><span>`)
	hw.Text(label)
	hw.Raw(`</span><textarea`)
	hw.Attr("name", name)
	hw.Attr("rows", fmt.Sprint(rows))
	hw.Flag("required", required)
	hw.Raw(`>`)
	hw.Text(value)
	hw.Raw(`</textarea></label>`)
}
