package config

import (
	"fmt"
	"strings"

	"github.com/conneroisu/smartedit/internal/intent"
	"github.com/conneroisu/smartedit/internal/logging"
)

// ValidationError represents a configuration validation error with suggestions
type ValidationError struct {
	Field       string
	Value       interface{}
	Message     string
	Suggestions []string
}

func (ve *ValidationError) Error() string {
	msg := fmt.Sprintf("validation error in %s: %s", ve.Field, ve.Message)
	if len(ve.Suggestions) > 0 {
		msg += " (" + strings.Join(ve.Suggestions, "; ") + ")"
	}
	return msg
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateEditorConfig(&config.Editor); err != nil {
		return fmt.Errorf("editor config: %w", err)
	}
	if err := validateServerConfig(&config.Server); err != nil {
		return fmt.Errorf("server config: %w", err)
	}
	if err := validateWatchConfig(&config.Watch); err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	if err := validateLogConfig(&config.Log); err != nil {
		return fmt.Errorf("log config: %w", err)
	}
	return nil
}

func validateEditorConfig(config *EditorConfig) error {
	if config.HistorySize < 1 {
		return &ValidationError{
			Field:       "history_size",
			Value:       config.HistorySize,
			Message:     "must be at least 1",
			Suggestions: []string{"the default is 10"},
		}
	}
	if _, err := intent.ParseColorPolicy(config.ColorPolicy); err != nil {
		return &ValidationError{
			Field:       "color_policy",
			Value:       config.ColorPolicy,
			Message:     err.Error(),
			Suggestions: []string{"use last, first or reject"},
		}
	}
	return nil
}

// validateServerConfig validates server configuration values
func validateServerConfig(config *ServerConfig) error {
	// Allow 0 for system-assigned ports in testing
	if config.Port < 0 || config.Port > 65535 {
		return &ValidationError{
			Field:   "port",
			Value:   config.Port,
			Message: fmt.Sprintf("port %d is not in valid range 0-65535", config.Port),
		}
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'", "\\", " "}
	for _, char := range dangerousChars {
		if strings.Contains(config.Host, char) {
			return &ValidationError{
				Field:   "host",
				Value:   config.Host,
				Message: fmt.Sprintf("host contains dangerous character: %q", char),
			}
		}
	}

	if config.MaxDocuments < 1 {
		return &ValidationError{
			Field:   "max_documents",
			Value:   config.MaxDocuments,
			Message: "must be at least 1",
		}
	}

	for _, origin := range config.AllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return &ValidationError{
				Field:       "allowed_origins",
				Value:       origin,
				Message:     "origin must be \"*\" or start with http:// or https://",
				Suggestions: []string{"e.g. http://localhost:3000"},
			}
		}
	}

	return nil
}

func validateWatchConfig(config *WatchConfig) error {
	if config.Debounce < 0 {
		return &ValidationError{
			Field:   "debounce",
			Value:   config.Debounce,
			Message: "must not be negative",
		}
	}
	return nil
}

func validateLogConfig(config *LogConfig) error {
	if _, err := logging.ParseLevel(config.Level); err != nil {
		return &ValidationError{
			Field:       "level",
			Value:       config.Level,
			Message:     err.Error(),
			Suggestions: []string{"use debug, info, warn or error"},
		}
	}
	if config.Format != "text" && config.Format != "json" {
		return &ValidationError{
			Field:   "format",
			Value:   config.Format,
			Message: "must be text or json",
		}
	}
	return nil
}
