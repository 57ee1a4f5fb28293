// Package renderer builds the preview page served next to a document.
//
// The page shows the document in a sandboxed iframe, the indexed components,
// the design tokens and the recent edits, and reloads itself when the server
// reports a change to the document.
package renderer

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/a-h/templ"
	"github.com/conneroisu/smartedit/internal/types"
)

// PreviewPage is the data shown on a document's preview page.
type PreviewPage struct {
	DocumentID string
	HTML       string
	Components []types.Component
	Tokens     types.DesignTokens
	History    []types.EditRecord
}

// Page returns the full preview page for p.
func Page(p PreviewPage) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := templ.EscapeString(p.DocumentID)
		if _, err := fmt.Fprintf(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8"><title>%s - smartedit</title>`, title); err != nil {
			return err
		}
		if err := tokenStyle(p.Tokens).Render(ctx, w); err != nil {
			return err
		}
		if err := templ.Raw(pageStyle).Render(ctx, w); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, `</head><body data-document="%s"><header class="bar"><h1>%s</h1></header><main>`, title, title); err != nil {
			return err
		}

		if err := Frame(p.HTML).Render(ctx, w); err != nil {
			return err
		}

		if _, err := io.WriteString(w, `<aside>`); err != nil {
			return err
		}
		for _, c := range []templ.Component{
			editForm(p.DocumentID),
			componentList(p.Components),
			tokenList(p.Tokens),
			historyList(p.History),
		} {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</aside></main>`); err != nil {
			return err
		}

		if err := templ.Raw(reloadScript).Render(ctx, w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

// Frame embeds a document in a sandboxed iframe through its srcdoc attribute.
func Frame(html string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<iframe id="document" sandbox title="document preview" srcdoc="%s"></iframe>`,
			templ.EscapeString(html))
		return err
	})
}

func editForm(id string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		action := "/api/documents/" + url.PathEscape(id) + "/edits"
		_, err := fmt.Fprintf(w, `<form id="edit" data-action="%s"><input name="text" placeholder="make the header bigger" autocomplete="off"><button type="submit">Apply</button><p id="feedback" role="status"></p></form>`,
			templ.EscapeString(action))
		return err
	})
}

func componentList(components []types.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section><h2>Components</h2><ul class="components">`); err != nil {
			return err
		}
		for _, c := range components {
			if _, err := fmt.Fprintf(w, `<li data-id="%s"><code>%s</code> <span class="kind">%s</span></li>`,
				templ.EscapeString(c.ID), templ.EscapeString(c.ID), templ.EscapeString(c.Type.Label())); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul></section>`)
		return err
	})
}

func tokenList(t types.DesignTokens) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<section><h2>Design tokens</h2><dl class="tokens"><dt>Primary color</dt><dd>%s</dd><dt>Font family</dt><dd>%s</dd><dt>Base font size</dt><dd>%s</dd><dt>Spacing</dt><dd>%s</dd></dl></section>`,
			templ.EscapeString(t.PrimaryColor),
			templ.EscapeString(t.FontFamily),
			templ.EscapeString(t.FontSizeBase),
			templ.EscapeString(t.Spacing))
		return err
	})
}

func historyList(records []types.EditRecord) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<section><h2>Recent edits</h2><ol class="history">`); err != nil {
			return err
		}
		for _, r := range records {
			if _, err := fmt.Fprintf(w, `<li><time datetime="%s">%s</time> %s <code>%s</code></li>`,
				r.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
				r.Timestamp.Format("15:04:05"),
				templ.EscapeString(r.Description),
				templ.EscapeString(r.ComponentID)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ol></section>`)
		return err
	})
}

// tokenStyle exposes the design tokens as CSS custom properties.
func tokenStyle(t types.DesignTokens) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<style>:root{--primary-color:%s;--font-family:%s;--font-size-base:%s;--spacing:%s}</style>`,
			cssValue(t.PrimaryColor), cssValue(t.FontFamily), cssValue(t.FontSizeBase), cssValue(t.Spacing))
		return err
	})
}

// cssValue drops characters that could end the declaration or the style
// element.
func cssValue(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		switch r {
		case ';', '{', '}', '<', '>', '\\', '\n', '\r':
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

const pageStyle = `<style>
body{margin:0;font-family:var(--font-family);font-size:var(--font-size-base)}
.bar{padding:var(--spacing);border-bottom:2px solid var(--primary-color)}
.bar h1{margin:0;font-size:1.1em}
main{display:flex;gap:var(--spacing);padding:var(--spacing)}
#document{flex:1;min-height:80vh;border:1px solid #ddd}
aside{width:22rem}
#edit input{width:70%}
#feedback.error{color:#b00020}
</style>`

const reloadScript = `<script>
(function () {
  var doc = document.body.dataset.document;
  var form = document.getElementById("edit");
  var feedback = document.getElementById("feedback");
  form.addEventListener("submit", function (e) {
    e.preventDefault();
    var input = form.elements.text;
    fetch(form.dataset.action, {
      method: "POST",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify({text: input.value})
    }).then(function (res) {
      return res.json().then(function (body) {
        if (!res.ok) {
          feedback.className = "error";
          feedback.textContent = body.message;
          return;
        }
        feedback.className = "";
        feedback.textContent = "";
        input.value = "";
      });
    });
  });
  var scheme = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(scheme + location.host + "/ws");
  ws.onmessage = function (event) {
    var msg = JSON.parse(event.data);
    if (msg.type === "reload" && msg.document === doc) {
      location.reload();
    }
  };
})();
</script>`
