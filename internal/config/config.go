// Package config provides configuration management for smartedit using Viper
// for loading from files, environment variables, and command-line flags.
//
// The configuration system supports YAML files, environment variable
// overrides with the SMARTEDIT_ prefix, and an optional .env file loaded
// before anything else. It covers the editor policies, the local preview
// server, the file watcher, design tokens and logging.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/conneroisu/smartedit/internal/history"
	"github.com/conneroisu/smartedit/internal/intent"
	"github.com/conneroisu/smartedit/internal/logging"
	"github.com/conneroisu/smartedit/internal/types"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. SMARTEDIT_SERVER_PORT.
const EnvPrefix = "SMARTEDIT"

// envKeyReplacer maps nested keys like server.port onto SERVER_PORT.
var envKeyReplacer = strings.NewReplacer(".", "_")

// BindEnv configures v to read SMARTEDIT_ prefixed environment variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
}

type Config struct {
	Editor EditorConfig       `mapstructure:"editor" yaml:"editor"`
	Server ServerConfig       `mapstructure:"server" yaml:"server"`
	Watch  WatchConfig        `mapstructure:"watch" yaml:"watch"`
	Tokens types.DesignTokens `mapstructure:"tokens" yaml:"tokens"`
	Log    LogConfig          `mapstructure:"log" yaml:"log"`
}

type EditorConfig struct {
	HistorySize  int    `mapstructure:"history_size" yaml:"history_size"`
	ColorPolicy  string `mapstructure:"color_policy" yaml:"color_policy"`
	StrictTarget bool   `mapstructure:"strict_target" yaml:"strict_target"`
}

type ServerConfig struct {
	Host           string   `mapstructure:"host" yaml:"host"`
	Port           int      `mapstructure:"port" yaml:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	MaxDocuments   int      `mapstructure:"max_documents" yaml:"max_documents"`
}

type WatchConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Address returns host:port for the preview server.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// ParsedColorPolicy returns the parsed color policy. Load has already validated it.
func (e EditorConfig) ParsedColorPolicy() intent.ColorPolicy {
	p, _ := intent.ParseColorPolicy(e.ColorPolicy)
	return p
}

// LoggerConfig converts the log section into a logger configuration.
func (l LogConfig) LoggerConfig() *logging.LoggerConfig {
	cfg := logging.DefaultConfig()
	if level, err := logging.ParseLevel(l.Level); err == nil {
		cfg.Level = level
	}
	if l.Format != "" {
		cfg.Format = l.Format
	}
	return cfg
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	tokens := types.DefaultDesignTokens()

	v.SetDefault("editor.history_size", history.DefaultCapacity)
	v.SetDefault("editor.color_policy", string(intent.ColorLast))
	v.SetDefault("editor.strict_target", false)

	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{})
	v.SetDefault("server.max_documents", 32)

	v.SetDefault("watch.enabled", true)
	v.SetDefault("watch.debounce", 300*time.Millisecond)

	v.SetDefault("tokens.primary_color", tokens.PrimaryColor)
	v.SetDefault("tokens.font_family", tokens.FontFamily)
	v.SetDefault("tokens.font_size_base", tokens.FontSizeBase)
	v.SetDefault("tokens.spacing", tokens.Spacing)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LoadDotEnv loads environment variables from .env files when present.
// Missing files are not an error.
func LoadDotEnv(paths ...string) {
	_ = godotenv.Load(paths...)
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads and validates the configuration held by v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Slices set through env vars arrive as a single comma separated string.
	if len(config.Server.AllowedOrigins) == 1 && strings.Contains(config.Server.AllowedOrigins[0], ",") {
		config.Server.AllowedOrigins = splitList(config.Server.AllowedOrigins[0])
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
