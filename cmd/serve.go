package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/conneroisu/smartedit/internal/config"
	"github.com/conneroisu/smartedit/internal/editor"
	"github.com/conneroisu/smartedit/internal/logging"
	"github.com/conneroisu/smartedit/internal/server"
	"github.com/conneroisu/smartedit/internal/watcher"
	"github.com/conneroisu/smartedit/internal/workspace"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:     "serve <file> [file...]",
	Aliases: []string{"s"},
	Short:   "Preview and edit HTML documents in the browser",
	Long: `Start a local server that previews each document and accepts edit
requests from the preview page or the HTTP API. Preview pages reload when a
document changes, whether through an edit or because the file changed on disk.

Examples:
  smartedit serve page.html                  # Serve on localhost:8080
  smartedit serve site/*.html --port 3000    # Several documents
  smartedit serve page.html --write-back     # Save edits to the file
  smartedit serve page.html --no-watch       # Ignore changes on disk`,
	Args: cobra.MinimumNArgs(1),
	RunE: runServe,
}

var (
	serveFlags     *StandardFlags
	serveNoWatch   bool
	serveWriteBack bool
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveFlags = AddStandardFlags(serveCmd, "server")
	AddFlagValidation(serveCmd, "port", ValidatePort)

	serveCmd.Flags().BoolVar(&serveNoWatch, "no-watch", false, "Do not reload documents when their files change")
	serveCmd.Flags().BoolVar(&serveWriteBack, "write-back", false, "Write accepted edits back to the document files")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serveFlags.Port
	}
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serveFlags.Host
	}

	paths, err := documentPaths(args)
	if err != nil {
		return err
	}

	ws, err := workspace.New(cfg.Server.MaxDocuments, sessionFactory(cfg, logger, paths, serveWriteBack), logger)
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for id, path := range paths {
		html, err := readDocument(path)
		if err != nil {
			return err
		}
		ws.Open(ctx, id, html)
	}

	if cfg.Watch.Enabled && !serveNoWatch {
		fw, err := watchDocuments(ctx, cfg, logger, ws, paths)
		if err != nil {
			return err
		}
		defer fw.Stop()
	}

	srv := server.New(cfg.Server, cfg.Tokens, ws, logger)

	out := cmd.OutOrStdout()
	for _, doc := range ws.List() {
		fmt.Fprintf(out, "Preview %s at http://%s/preview/%s\n", doc.ID, cfg.Server.Address(), doc.ID)
	}

	return srv.Start(ctx)
}

// documentPaths maps document ids to file paths, rejecting files that would
// share an id.
func documentPaths(args []string) (map[string]string, error) {
	paths := make(map[string]string, len(args))
	for _, arg := range args {
		if err := ValidateFileExists(arg); err != nil {
			return nil, err
		}
		abs, err := filepath.Abs(arg)
		if err != nil {
			return nil, err
		}
		id := documentID(abs)
		if prev, ok := paths[id]; ok && prev != abs {
			return nil, fmt.Errorf("%s and %s would both be served as %q", prev, abs, id)
		}
		paths[id] = abs
	}
	return paths, nil
}

// sessionFactory builds sessions for served documents. With writeBack,
// accepted edits are saved to the document's file.
func sessionFactory(cfg *config.Config, logger logging.Logger, paths map[string]string, writeBack bool) workspace.Factory {
	return func(id, html string) *editor.Session {
		session := newSession(cfg, logger, html)

		path, ok := paths[id]
		if !writeBack || !ok {
			return session
		}
		session.OnChange(func(change editor.Change) {
			if change.Reason != editor.ReasonEdit {
				return
			}
			if err := writeDocument(path, change.HTML); err != nil {
				logger.Error(context.Background(), err, "failed to write document", "document", id)
			}
		})
		return session
	}
}

// watchDocuments reloads a document into its session when its file changes.
func watchDocuments(ctx context.Context, cfg *config.Config, logger logging.Logger, ws *workspace.Workspace, paths map[string]string) (*watcher.FileWatcher, error) {
	fw, err := watcher.NewFileWatcher(cfg.Watch.Debounce, logger)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(paths))
	for _, path := range paths {
		files = append(files, path)
	}
	fw.AddFilter(watcher.NoHiddenFilter)
	fw.AddFilter(watcher.PathFilter(files...))
	fw.AddHandler(reloadHandler(ws, logger))

	for _, path := range files {
		if err := fw.AddPath(path); err != nil {
			_ = fw.Stop()
			return nil, fmt.Errorf("failed to watch %s: %w", path, err)
		}
	}

	fw.Start(ctx)
	return fw, nil
}

func reloadHandler(ws *workspace.Workspace, logger logging.Logger) watcher.ChangeHandler {
	return func(ctx context.Context, events []watcher.ChangeEvent) error {
		for _, event := range events {
			if event.Type == watcher.EventTypeDeleted {
				logger.Warn(ctx, nil, "document file removed, keeping last version", "path", event.Path)
				continue
			}

			data, err := os.ReadFile(event.Path)
			if err != nil {
				// Renamed away during an atomic save; the create that follows
				// carries the new content.
				continue
			}

			id := documentID(event.Path)
			if session, ok := ws.Get(id); ok && session.HTML() == string(data) {
				continue
			}
			ws.Open(ctx, id, string(data))
			logger.Info(ctx, "document reloaded from disk", "document", id, "event", event.Type.String())
		}
		return nil
	}
}
