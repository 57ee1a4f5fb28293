// Package intent turns a free-text edit request into a structured EditIntent.
//
// Resolution is a deterministic keyword and regex table, not language
// understanding: the same text and component map always produce the same
// intent. Target lookup and update extraction are independent passes over
// the text; an intent is returned only when both succeed.
package intent

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/conneroisu/smartedit/internal/types"
	"github.com/microcosm-cc/bluemonday"
)

// ColorPolicy decides what happens when a request names several colors.
type ColorPolicy string

const (
	// ColorLast lets each later color keyword in check order overwrite the
	// earlier one ("red and blue" yields blue).
	ColorLast ColorPolicy = "last"
	// ColorFirst keeps the first color keyword in check order.
	ColorFirst ColorPolicy = "first"
	// ColorReject refuses requests naming more than one color.
	ColorReject ColorPolicy = "reject"
)

// ParseColorPolicy validates a policy name.
func ParseColorPolicy(name string) (ColorPolicy, error) {
	switch p := ColorPolicy(strings.ToLower(strings.TrimSpace(name))); p {
	case "":
		return ColorLast, nil
	case ColorLast, ColorFirst, ColorReject:
		return p, nil
	default:
		return ColorLast, fmt.Errorf("unknown color policy %q (want last, first or reject)", name)
	}
}

type targetHint struct {
	keywords []string
	id       string
}

// fallbackTargets infers a conventional component id from common words.
var fallbackTargets = []targetHint{
	{[]string{"button", "subscribe"}, "cta-btn"},
	{[]string{"header", "title"}, "main-header"},
	{[]string{"hero", "banner"}, "hero-section"},
}

type sizeRule struct {
	keywords []string
	class    string
	fontSize string
}

// sizeRules are all evaluated; a later hit overwrites an earlier one.
var sizeRules = []sizeRule{
	{[]string{"bigger", "larger"}, "text-lg", "1.2em"},
	{[]string{"smaller"}, "text-sm", "0.9em"},
}

type colorRule struct {
	keyword string
	value   string
}

var colorRules = []colorRule{
	{"red", "#ff0000"},
	{"blue", "#0066cc"},
	{"green", "#00cc66"},
}

// contentPattern captures quoted text after "text" or "content", as in
// `change text to "Hello"` or `content 'Hi'`.
var contentPattern = regexp.MustCompile(`(?i)\b(?:text|content)\b[^"']*["']([^"']+)["']`)

// tagPattern matches a complete opening or closing tag. A bare `<` as in
// "a<b" is not markup.
var tagPattern = regexp.MustCompile(`</?[A-Za-z][A-Za-z0-9-]*(?:\s[^<>]*)?/?>`)

// Resolver parses edit requests against a component map.
type Resolver struct {
	policy    ColorPolicy
	sanitizer *bluemonday.Policy
}

// NewResolver creates a resolver using the given color policy.
func NewResolver(policy ColorPolicy) *Resolver {
	if policy == "" {
		policy = ColorLast
	}
	return &Resolver{
		policy:    policy,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Policy returns the resolver's color policy.
func (r *Resolver) Policy() ColorPolicy {
	return r.policy
}

var defaultResolver = NewResolver(ColorLast)

// Resolve parses text with the default color policy.
func Resolve(text string, components types.ComponentMap) (types.EditIntent, bool) {
	return defaultResolver.Resolve(text, components)
}

// Resolve returns the intent described by text, or false when no known
// component is targeted or no actionable change is requested.
func (r *Resolver) Resolve(text string, components types.ComponentMap) (types.EditIntent, bool) {
	target, ok := ResolveTarget(text, components)
	if !ok {
		return types.EditIntent{}, false
	}

	updates, ok := r.ExtractUpdates(text)
	if !ok || updates.IsEmpty() {
		return types.EditIntent{}, false
	}

	action := types.ActionStyleUpdate
	if updates.Content != nil {
		action = types.ActionContentUpdate
	}

	return types.EditIntent{
		TargetComponentID: target,
		Action:            action,
		Updates:           updates,
	}, true
}

// ResolveTarget finds the component a request refers to. Candidates are
// tried by id, then by kind, then by fallback keywords; when none apply and
// the map holds a single component, that component is the target. The
// result must be a key of components.
func ResolveTarget(text string, components types.ComponentMap) (string, bool) {
	lower := strings.ToLower(text)
	ids := components.IDs()

	target := ""
	for _, id := range ids {
		spoken := strings.ToLower(strings.ReplaceAll(id, "-", " "))
		if spoken != "" && strings.Contains(lower, spoken) {
			target = id
			break
		}
	}

	if target == "" {
		for _, id := range ids {
			kind := string(components[id].Type)
			if kind != "" && strings.Contains(lower, kind) {
				target = id
				break
			}
		}
	}

	if target == "" {
	hints:
		for _, hint := range fallbackTargets {
			for _, kw := range hint.keywords {
				if strings.Contains(lower, kw) {
					target = hint.id
					break hints
				}
			}
		}
	}

	if target == "" && len(ids) == 1 {
		target = ids[0]
	}

	if target == "" || !components.Has(target) {
		return "", false
	}
	return target, true
}

// ExtractUpdates derives the update bag from text. It reports false when
// the color policy rejects the request.
func (r *Resolver) ExtractUpdates(text string) (types.Updates, bool) {
	lower := strings.ToLower(text)
	var updates types.Updates

	for _, rule := range sizeRules {
		if containsAny(lower, rule.keywords) {
			updates.AddClass = rule.class
			setStyle(&updates, "fontSize", rule.fontSize)
		}
	}

	color, ok := r.pickColor(lower)
	if !ok {
		return types.Updates{}, false
	}
	if color != "" {
		setStyle(&updates, "color", color)
	}

	if m := contentPattern.FindStringSubmatch(text); m != nil {
		if content := r.plainText(m[1]); content != "" {
			updates.Content = types.StringPtr(content)
		}
	}

	return updates, true
}

func (r *Resolver) pickColor(lower string) (string, bool) {
	var hits []string
	for _, rule := range colorRules {
		if strings.Contains(lower, rule.keyword) {
			hits = append(hits, rule.value)
		}
	}

	switch {
	case len(hits) == 0:
		return "", true
	case r.policy == ColorFirst:
		return hits[0], true
	case r.policy == ColorReject && len(hits) > 1:
		return "", false
	default:
		return hits[len(hits)-1], true
	}
}

// plainText strips tags from quoted replacement text. Text without tags is
// returned as written.
func (r *Resolver) plainText(s string) string {
	if !tagPattern.MatchString(s) {
		return s
	}
	return html.UnescapeString(r.sanitizer.Sanitize(s))
}

func setStyle(u *types.Updates, property, value string) {
	if u.Style == nil {
		u.Style = make(map[string]string)
	}
	u.Style[property] = value
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
