// Package types provides common type definitions used throughout smartedit.
// This package contains shared types to avoid circular dependencies between
// the indexer, intent, mutation and editor packages.
package types

import (
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ComponentKind classifies an editable region of a generated page.
type ComponentKind string

const (
	KindHeader     ComponentKind = "header"
	KindHero       ComponentKind = "hero"
	KindNavigation ComponentKind = "navigation"
	KindFooter     ComponentKind = "footer"
	KindButton     ComponentKind = "button"
	KindVideo      ComponentKind = "video"
	KindContent    ComponentKind = "content"
)

// AllKinds lists every component kind in classification priority order.
var AllKinds = []ComponentKind{
	KindHeader,
	KindHero,
	KindNavigation,
	KindFooter,
	KindButton,
	KindVideo,
	KindContent,
}

// String returns the string representation of the kind.
func (k ComponentKind) String() string {
	return string(k)
}

// Label returns a title-cased display name, e.g. "Navigation".
func (k ComponentKind) Label() string {
	return cases.Title(language.English).String(string(k))
}

// ParseComponentKind maps a name to its kind. Unknown names map to
// KindContent and report false.
func ParseComponentKind(name string) (ComponentKind, bool) {
	for _, k := range AllKinds {
		if string(k) == name {
			return k, true
		}
	}
	return KindContent, false
}

// Component is an addressable, editable element of a generated HTML document.
// Components are recomputed from the document every time it changes; the ID
// is the only identity carried across recomputation.
type Component struct {
	// ID is the element's id attribute, or a synthesized id such as "main-header"
	ID string `json:"id" yaml:"id"`
	// Selector re-locates the element ("#id" or a semantic selector)
	Selector string `json:"selector" yaml:"selector"`
	// Type is the classified kind of the component
	Type ComponentKind `json:"type" yaml:"type"`
	// Tag is the lowercase element name
	Tag string `json:"tag" yaml:"tag"`
	// Classes is the element's class list in document order
	Classes []string `json:"classes,omitempty" yaml:"classes,omitempty"`
	// Text is a short preview of the element's text content
	Text string `json:"text,omitempty" yaml:"text,omitempty"`
	// Synthesized is true when the ID came from a semantic selector probe
	Synthesized bool `json:"synthesized" yaml:"synthesized"`
}

// ComponentMap indexes components by ID.
type ComponentMap map[string]Component

// IDs returns the component ids in sorted order.
func (m ComponentMap) IDs() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Has reports whether id is present in the map.
func (m ComponentMap) Has(id string) bool {
	_, ok := m[id]
	return ok
}

// Sorted returns the components ordered by ID.
func (m ComponentMap) Sorted() []Component {
	out := make([]Component, 0, len(m))
	for _, id := range m.IDs() {
		out = append(out, m[id])
	}
	return out
}
