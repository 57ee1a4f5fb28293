package cmd

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/conneroisu/smartedit/internal/config"
	"github.com/conneroisu/smartedit/internal/editor"
	"github.com/conneroisu/smartedit/internal/errors"
	"github.com/conneroisu/smartedit/internal/history"
	"github.com/conneroisu/smartedit/internal/indexer"
	"github.com/conneroisu/smartedit/internal/intent"
	"github.com/conneroisu/smartedit/internal/logging"
	"github.com/conneroisu/smartedit/internal/mutation"
	"gopkg.in/yaml.v3"
)

// sessionDependencies wires a session from the configuration. Each call
// returns a fresh history.
func sessionDependencies(cfg *config.Config, logger logging.Logger) editor.Dependencies {
	return editor.Dependencies{
		Indexer:  indexer.New(logger),
		Resolver: intent.NewResolver(cfg.Editor.ParsedColorPolicy()),
		Applier:  mutation.NewApplier(logger, cfg.Editor.StrictTarget),
		History:  history.New(cfg.Editor.HistorySize),
		Tokens:   cfg.Tokens,
		Logger:   logger,
	}
}

func newSession(cfg *config.Config, logger logging.Logger, html string) *editor.Session {
	return editor.NewSession(sessionDependencies(cfg, logger), html)
}

// readDocument reads an HTML file.
func readDocument(path string) (string, error) {
	if err := ValidateFileExists(path); err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotFound, "cannot read document", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.NewIOError(errors.ErrCodeFileNotFound, "failed to read "+path, err)
	}
	return string(data), nil
}

// writeDocument replaces path's contents, keeping its permissions.
func writeDocument(path, html string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(html), mode); err != nil {
		return errors.NewIOError(errors.ErrCodeInternalError, "failed to write "+path, err)
	}
	return nil
}

// documentID derives a workspace id from a file name: "site/index.html"
// becomes "index".
func documentID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// writeStructured writes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// userError prefixes edit request failures with the feedback shown in the
// preview page.
func userError(err error) error {
	switch {
	case err == nil:
		return nil
	case stderrors.Is(err, errors.ErrEmptyInput),
		stderrors.Is(err, errors.ErrUnresolvedIntent),
		stderrors.Is(err, errors.ErrTargetNotFound):
		return fmt.Errorf("%s (%w)", errors.UserMessage(err), err)
	default:
		return err
	}
}
