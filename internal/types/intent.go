package types

import "time"

// ActionKind describes what an edit intent changes.
type ActionKind string

const (
	ActionStyleUpdate     ActionKind = "style_update"
	ActionContentUpdate   ActionKind = "content_update"
	ActionStructureUpdate ActionKind = "structure_update"
)

// Updates is the bag of optional mutations carried by an intent.
type Updates struct {
	AddClass    string `json:"addClass,omitempty" yaml:"addClass,omitempty"`
	RemoveClass string `json:"removeClass,omitempty" yaml:"removeClass,omitempty"`
	// Style maps camelCase CSS property names (fontSize) to values
	Style map[string]string `json:"style,omitempty" yaml:"style,omitempty"`
	// Content is nil when no text replacement was requested
	Content    *string           `json:"content,omitempty" yaml:"content,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

// IsEmpty reports whether no field of the bag is populated.
func (u Updates) IsEmpty() bool {
	return u.AddClass == "" &&
		u.RemoveClass == "" &&
		len(u.Style) == 0 &&
		u.Content == nil &&
		len(u.Attributes) == 0
}

// EditIntent is a structured description of one requested edit.
type EditIntent struct {
	TargetComponentID string     `json:"targetComponentId" yaml:"targetComponentId"`
	Action            ActionKind `json:"action" yaml:"action"`
	Updates           Updates    `json:"updates" yaml:"updates"`
}

// Actionable reports whether the intent names a target and carries at least
// one update. Non-actionable intents are equivalent to resolution failure.
func (i EditIntent) Actionable() bool {
	return i.TargetComponentID != "" && !i.Updates.IsEmpty()
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// EditRecord is one entry of the edit history.
type EditRecord struct {
	ID          string    `json:"id" yaml:"id"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
	Description string    `json:"description" yaml:"description"`
	ComponentID string    `json:"componentId" yaml:"componentId"`
}

// DesignTokens is the static set of design values shown alongside the editor.
type DesignTokens struct {
	PrimaryColor string `json:"primaryColor" yaml:"primaryColor" mapstructure:"primary_color"`
	FontFamily   string `json:"fontFamily" yaml:"fontFamily" mapstructure:"font_family"`
	FontSizeBase string `json:"fontSizeBase" yaml:"fontSizeBase" mapstructure:"font_size_base"`
	Spacing      string `json:"spacing" yaml:"spacing" mapstructure:"spacing"`
}

// DefaultDesignTokens returns the tokens used when none are configured.
func DefaultDesignTokens() DesignTokens {
	return DesignTokens{
		PrimaryColor: "#ff0000",
		FontFamily:   "Inter, sans-serif",
		FontSizeBase: "16px",
		Spacing:      "8px",
	}
}
