// Package indexer discovers the editable components of a generated HTML page.
//
// A component is any element carrying an id attribute, plus a handful of
// semantic landmarks (header, nav, footer, .hero, .video-gallery) that are
// given canonical synthesized ids when the page does not already use them.
// The index is rebuilt from scratch on every call; malformed documents are
// parsed leniently and an unreadable document yields an empty map.
package indexer

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/conneroisu/smartedit/internal/errors"
	"github.com/conneroisu/smartedit/internal/logging"
	"github.com/conneroisu/smartedit/internal/types"
)

// previewLength bounds Component.Text.
const previewLength = 60

// kindRule maps keyword fragments to a component kind.
type kindRule struct {
	kind     types.ComponentKind
	keywords []string
}

// kindRules is checked in order; the first rule with a matching keyword wins.
var kindRules = []kindRule{
	{types.KindHeader, []string{"header"}},
	{types.KindHero, []string{"hero", "banner"}},
	{types.KindNavigation, []string{"nav", "menu"}},
	{types.KindFooter, []string{"footer"}},
	{types.KindButton, []string{"button", "btn"}},
	{types.KindVideo, []string{"video", "gallery"}},
}

// SemanticProbe binds a CSS selector to the id synthesized for its first match.
type SemanticProbe struct {
	Selector string
	ID       string
}

// DefaultProbes are the landmark selectors probed after id collection.
var DefaultProbes = []SemanticProbe{
	{Selector: "header", ID: "main-header"},
	{Selector: "nav", ID: "main-nav"},
	{Selector: "footer", ID: "main-footer"},
	{Selector: ".hero", ID: "hero-section"},
	{Selector: ".video-gallery", ID: "video-gallery"},
}

// Classify derives a component kind from an element's id, tag and classes.
func Classify(id, tag string, classes []string) types.ComponentKind {
	haystack := strings.ToLower(id + " " + tag + " " + strings.Join(classes, " "))
	for _, rule := range kindRules {
		for _, kw := range rule.keywords {
			if strings.Contains(haystack, kw) {
				return rule.kind
			}
		}
	}
	return types.KindContent
}

// Indexer builds component maps from HTML documents.
type Indexer struct {
	probes []SemanticProbe
	logger logging.Logger
}

// New creates an indexer with the default semantic probes. A nil logger
// disables logging.
func New(logger logging.Logger) *Indexer {
	if logger == nil {
		logger = logging.NewTestLogger()
	}
	return &Indexer{
		probes: DefaultProbes,
		logger: logger.WithComponent("indexer"),
	}
}

// Index parses html and returns its components keyed by id.
func (ix *Indexer) Index(ctx context.Context, html string) types.ComponentMap {
	components := make(types.ComponentMap)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		ix.logger.Warn(ctx, errors.NewParseError(err), "Document could not be indexed")
		return components
	}

	doc.Find("[id]").Each(func(_ int, sel *goquery.Selection) {
		id := strings.TrimSpace(sel.AttrOr("id", ""))
		if id == "" {
			return
		}
		// First element in document order owns a duplicated id.
		if components.Has(id) {
			return
		}
		components[id] = describe(sel, id, "#"+id, false)
	})

	for _, probe := range ix.probes {
		if components.Has(probe.ID) {
			continue
		}
		sel := doc.Find(probe.Selector).First()
		if sel.Length() == 0 {
			continue
		}
		components[probe.ID] = describe(sel, probe.ID, probe.Selector, true)
	}

	ix.logger.Debug(ctx, "Indexed document", "components", len(components), "bytes", len(html))

	return components
}

// Index builds a component map with a default indexer.
func Index(html string) types.ComponentMap {
	return New(nil).Index(context.Background(), html)
}

func describe(sel *goquery.Selection, id, selector string, synthesized bool) types.Component {
	tag := goquery.NodeName(sel)
	classes := strings.Fields(sel.AttrOr("class", ""))

	return types.Component{
		ID:          id,
		Selector:    selector,
		Type:        Classify(id, tag, classes),
		Tag:         tag,
		Classes:     classes,
		Text:        preview(sel.Text()),
		Synthesized: synthesized,
	}
}

func preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) > previewLength {
		return string(runes[:previewLength]) + "…"
	}
	return text
}
