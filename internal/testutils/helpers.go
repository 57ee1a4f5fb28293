// Package testutils holds fixtures shared by package and integration tests.
package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/conneroisu/smartedit/internal/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// LandingFragment is a page fragment with a header, a hero and a call to
// action button, each carrying an id.
const LandingFragment = `<header id="main-header"><h1>Welcome</h1></header>` +
	`<section class="hero" id="hero-section">Big news</section>` +
	`<button id="cta-btn" class="btn">Subscribe</button>`

// LandingDocument wraps LandingFragment in a complete HTML document.
const LandingDocument = `<!DOCTYPE html><html><head><title>Launch</title></head><body>` +
	LandingFragment +
	`</body></html>`

// SemanticDocument has page sections without ids, which the indexer
// locates by tag or class.
const SemanticDocument = `<!DOCTYPE html><html><head></head><body>` +
	`<header><h1>Site</h1></header>` +
	`<nav><a href="/">Home</a></nav>` +
	`<div class="video-gallery"><video src="a.mp4"></video></div>` +
	`<footer>© 2026</footer>` +
	`</body></html>`

// WriteFile writes content to name inside a fresh temporary directory and
// returns the path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// Config returns the default configuration with overrides applied, e.g.
// Config(t, "editor.history_size", 3).
func Config(t *testing.T, overrides ...interface{}) *config.Config {
	t.Helper()
	require.True(t, len(overrides)%2 == 0, "overrides must be key/value pairs")

	v := viper.New()
	for i := 0; i < len(overrides); i += 2 {
		key, ok := overrides[i].(string)
		require.True(t, ok, "override key must be a string")
		v.Set(key, overrides[i+1])
	}

	cfg, err := config.LoadFrom(v)
	require.NoError(t, err)
	return cfg
}
