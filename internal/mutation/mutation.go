// Package mutation applies structured edit intents to HTML documents.
//
// Every call re-parses the document it is given, so the result always
// reflects the latest serialized state rather than a cached tree. The
// returned string replaces the document wholesale.
package mutation

import (
	"bytes"
	"context"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/conneroisu/smartedit/internal/errors"
	"github.com/conneroisu/smartedit/internal/logging"
	"github.com/conneroisu/smartedit/internal/types"
	"golang.org/x/net/html"
)

var (
	// documentMarkup detects input that is a whole document rather than a fragment.
	documentMarkup = regexp.MustCompile(`(?i)<!doctype|<html[\s>]`)
	headMarkup     = regexp.MustCompile(`(?i)<head[\s>]`)
	bodyMarkup     = regexp.MustCompile(`(?i)<body[\s>]`)
)

// layout records which wrapper elements the source spelled out, so they are
// rendered back and the parser's implied ones are not.
type layout struct {
	whole bool
	head  bool
	body  bool
}

func layoutOf(src string) layout {
	return layout{
		whole: documentMarkup.MatchString(src),
		head:  headMarkup.MatchString(src),
		body:  bodyMarkup.MatchString(src),
	}
}

// Applier mutates documents according to edit intents.
type Applier struct {
	logger logging.Logger
	// strict reports a missing target as an error instead of a silent no-op
	strict bool
}

// NewApplier creates an applier. A nil logger disables logging.
func NewApplier(logger logging.Logger, strict bool) *Applier {
	if logger == nil {
		logger = logging.NewTestLogger()
	}
	return &Applier{
		logger: logger.WithComponent("mutation"),
		strict: strict,
	}
}

// Strict reports whether missing targets are returned as errors.
func (a *Applier) Strict() bool {
	return a.strict
}

// Apply applies intent to src and serializes the result. When the target
// element cannot be found, src is returned unchanged; in strict mode the
// error is also returned.
func (a *Applier) Apply(ctx context.Context, intent types.EditIntent, src string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		perr := errors.NewParseError(err)
		a.logger.Warn(ctx, perr, "Document could not be parsed for mutation")
		if a.strict {
			return src, perr
		}
		return src, nil
	}

	target := findTarget(doc, intent.TargetComponentID)
	if target.Length() == 0 {
		nf := errors.NewTargetNotFoundError(intent.TargetComponentID)
		a.logger.Warn(ctx, nf, "Skipping edit for missing component",
			"component_id", intent.TargetComponentID)
		if a.strict {
			return src, nf
		}
		return src, nil
	}

	applyUpdates(target, intent.Updates)

	out, err := serialize(doc, layoutOf(src))
	if err != nil {
		ierr := errors.NewInternalError("failed to serialize document", err)
		a.logger.Error(ctx, ierr, "Mutation produced an unserializable tree")
		return src, ierr
	}

	a.logger.Debug(ctx, "Applied edit",
		"component_id", intent.TargetComponentID,
		"action", intent.Action)

	return out, nil
}

// Apply applies intent with a lenient default applier.
func Apply(intent types.EditIntent, src string) string {
	out, _ := NewApplier(nil, false).Apply(context.Background(), intent, src)
	return out
}

// findTarget looks the component up by id, then by a class of the same name.
func findTarget(doc *goquery.Document, id string) *goquery.Selection {
	if id == "" {
		return doc.Selection.Slice(0, 0)
	}

	byID := doc.Find("[id]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.AttrOr("id", "") == id
	}).First()
	if byID.Length() > 0 {
		return byID
	}

	return doc.Find("[class]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		for _, c := range strings.Fields(s.AttrOr("class", "")) {
			if c == id {
				return true
			}
		}
		return false
	}).First()
}

// applyUpdates runs style, class add, class remove, content and attribute
// updates, in that order.
func applyUpdates(target *goquery.Selection, u types.Updates) {
	if len(u.Style) > 0 {
		target.SetAttr("style", MergeStyle(target.AttrOr("style", ""), u.Style))
	}
	if u.AddClass != "" {
		target.AddClass(u.AddClass)
	}
	if u.RemoveClass != "" {
		target.RemoveClass(u.RemoveClass)
	}
	if u.Content != nil {
		if goquery.NodeName(target) == "input" {
			target.SetAttr("value", *u.Content)
		} else {
			target.SetText(*u.Content)
		}
	}
	for _, name := range sortedKeys(u.Attributes) {
		target.SetAttr(name, u.Attributes[name])
	}
}

type declaration struct {
	property string
	value    string
}

// MergeStyle merges updates into an inline style attribute. Existing
// declarations keep their position; a property present in both takes the
// new value; new properties are appended in sorted order. Property names
// may be camelCase (fontSize) or CSS form (font-size).
func MergeStyle(existing string, updates map[string]string) string {
	decls := parseStyle(existing)
	index := make(map[string]int, len(decls))
	for i, d := range decls {
		index[d.property] = i
	}

	for _, key := range sortedKeys(updates) {
		prop := CSSProperty(key)
		if i, ok := index[prop]; ok {
			decls[i].value = updates[key]
			continue
		}
		index[prop] = len(decls)
		decls = append(decls, declaration{property: prop, value: updates[key]})
	}

	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.property+":"+d.value)
	}
	return strings.Join(parts, ";")
}

func parseStyle(style string) []declaration {
	var decls []declaration
	for _, chunk := range splitDeclarations(style) {
		prop, value, ok := strings.Cut(chunk, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		if prop == "" {
			continue
		}
		decls = append(decls, declaration{property: prop, value: strings.TrimSpace(value)})
	}
	return decls
}

// splitDeclarations splits an inline style on top-level semicolons, leaving
// those inside parentheses or quotes (url(data:...;base64,...)) intact.
func splitDeclarations(style string) []string {
	var (
		chunks []string
		depth  int
		quote  rune
		start  int
	)
	for i, r := range style {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case r == ';' && depth == 0:
			chunks = append(chunks, style[start:i])
			start = i + 1
		}
	}
	return append(chunks, style[start:])
}

// CSSProperty converts a camelCase property name to its CSS form.
func CSSProperty(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsUpper(r) {
			b.WriteByte('-')
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// serialize renders the whole document when the input was one. Otherwise it
// renders head and body, as elements when the input had those tags and as
// their children when the parser implied them.
func serialize(doc *goquery.Document, l layout) (string, error) {
	if l.whole {
		var buf bytes.Buffer
		for _, n := range doc.Nodes {
			if err := html.Render(&buf, n); err != nil {
				return "", err
			}
		}
		return buf.String(), nil
	}

	head, err := renderSection(doc.Find("head"), l.head)
	if err != nil {
		return "", err
	}
	body, err := renderSection(doc.Find("body"), l.body)
	if err != nil {
		return "", err
	}
	return head + body, nil
}

func renderSection(sel *goquery.Selection, outer bool) (string, error) {
	if outer {
		return goquery.OuterHtml(sel)
	}
	return sel.Html()
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
