package renderer

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/conneroisu/smartedit/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, p PreviewPage) string {
	t.Helper()
	var sb strings.Builder
	require.NoError(t, Page(p).Render(context.Background(), &sb))
	return sb.String()
}

func TestPageEmbedsEscapedDocument(t *testing.T) {
	out := render(t, PreviewPage{
		DocumentID: "landing",
		HTML:       `<div id="hero-section" class="hero">"Hi" & bye</div>`,
		Tokens:     types.DefaultDesignTokens(),
	})

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, `srcdoc="&lt;div id=&#34;hero-section&#34; class=&#34;hero&#34;&gt;&#34;Hi&#34; &amp; bye&lt;/div&gt;"`)
	assert.Contains(t, out, `data-document="landing"`)
	assert.Contains(t, out, `data-action="/api/documents/landing/edits"`)
	assert.Contains(t, out, `new WebSocket(`)
	assert.True(t, strings.HasSuffix(out, "</html>"))
}

func TestPageListsComponentsTokensAndHistory(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	out := render(t, PreviewPage{
		DocumentID: "landing",
		Components: []types.Component{
			{ID: "hero-section", Type: types.KindHero},
			{ID: "main-nav", Type: types.KindNavigation},
		},
		Tokens: types.DefaultDesignTokens(),
		History: []types.EditRecord{
			{ID: "1", Timestamp: ts, Description: "make the hero <red>", ComponentID: "hero-section"},
		},
	})

	assert.Contains(t, out, `<li data-id="hero-section"><code>hero-section</code> <span class="kind">Hero</span></li>`)
	assert.Contains(t, out, `<span class="kind">Navigation</span>`)
	assert.Contains(t, out, `--primary-color:#ff0000`)
	assert.Contains(t, out, `<dd>Inter, sans-serif</dd>`)
	assert.Contains(t, out, `datetime="2026-01-02T03:04:05Z"`)
	assert.Contains(t, out, `make the hero &lt;red&gt;`)
}

func TestPageEscapesDocumentID(t *testing.T) {
	out := render(t, PreviewPage{DocumentID: `a"b<c`})
	assert.NotContains(t, out, `a"b<c`)
	assert.Contains(t, out, `a&#34;b&lt;c`)
}

func TestTokenStyleStripsBreakouts(t *testing.T) {
	out := render(t, PreviewPage{
		DocumentID: "x",
		Tokens:     types.DesignTokens{PrimaryColor: "red;}</style><script>", Spacing: "8px"},
	})
	assert.Contains(t, out, "--primary-color:red/stylescript;")
	assert.NotContains(t, out, "red;}</style>")
}

func TestCSSValue(t *testing.T) {
	assert.Equal(t, "Inter, sans-serif", cssValue("Inter, sans-serif"))
	assert.Equal(t, "redx", cssValue("red;{x}"))
	assert.Equal(t, "", cssValue(""))
}
