//go:build integration
// +build integration

package integration_tests

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/conneroisu/smartedit/internal/editor"
	"github.com/conneroisu/smartedit/internal/logging"
	"github.com/conneroisu/smartedit/internal/testutils"
	"github.com/conneroisu/smartedit/internal/types"
	"github.com/conneroisu/smartedit/internal/watcher"
	ws "github.com/conneroisu/smartedit/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialReload(t *testing.T, baseURL string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(baseURL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.CloseNow() })
	return conn
}

func readReload(t *testing.T, conn *websocket.Conn) ws.Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	var msg ws.Message
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestEditWorkflow(t *testing.T) {
	srv := startServer(t, testutils.Config(t))
	docURL := srv.URL + "/api/documents/landing"

	resp := request(t, http.MethodPut, docURL, testutils.LandingDocument)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	conn := dialReload(t, srv.URL)
	require.Eventually(t, func() bool { return srv.Server.Hub().Clients() == 1 }, 5*time.Second, 10*time.Millisecond)

	resp = request(t, http.MethodGet, docURL+"/components", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	components := decodeJSON[[]types.Component](t, resp)
	assert.Len(t, components, 3)

	resp = request(t, http.MethodPost, docURL+"/edits", `{"text":"make the hero red"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	result := decodeJSON[editor.Result](t, resp)
	assert.Equal(t, "hero-section", result.Intent.TargetComponentID)
	assert.Contains(t, result.HTML, "<!DOCTYPE html>")

	msg := readReload(t, conn)
	assert.Equal(t, "reload", msg.Type)
	assert.Equal(t, "landing", msg.Document)

	resp = request(t, http.MethodPost, docURL+"/edits", `{"text":"change the button text to \"Join now\""}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	readReload(t, conn)

	resp = request(t, http.MethodGet, docURL+"/history", "")
	records := decodeJSON[[]types.EditRecord](t, resp)
	require.Len(t, records, 2)
	assert.Equal(t, "cta-btn", records[1].ComponentID)

	resp = request(t, http.MethodGet, docURL+"/export", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "# Welcome")
	assert.Contains(t, string(body), "Join now")

	resp = request(t, http.MethodGet, srv.URL+"/preview/landing", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Join now")

	resp = request(t, http.MethodDelete, docURL, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "reload", readReload(t, conn).Type)

	health := waitForHealthy(t, srv.URL, time.Second)
	assert.Equal(t, 0, health.Documents)
}

func TestDiskChangeReloadsPreview(t *testing.T) {
	srv := startServer(t, testutils.Config(t))
	path := testutils.WriteFile(t, "landing.html", testutils.LandingDocument)
	srv.Workspace.Open(context.Background(), "landing", testutils.LandingDocument)

	fw, err := watcher.NewFileWatcher(50*time.Millisecond, logging.NewTestLogger())
	require.NoError(t, err)
	fw.AddFilter(watcher.PathFilter(path))
	fw.AddHandler(func(ctx context.Context, events []watcher.ChangeEvent) error {
		for _, event := range events {
			data, err := os.ReadFile(event.Path)
			if err != nil {
				continue
			}
			srv.Workspace.Open(ctx, "landing", string(data))
		}
		return nil
	})
	require.NoError(t, fw.AddPath(path))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fw.Start(ctx)
	t.Cleanup(func() { _ = fw.Stop() })

	conn := dialReload(t, srv.URL)
	require.Eventually(t, func() bool { return srv.Server.Hub().Clients() == 1 }, 5*time.Second, 10*time.Millisecond)

	updated := strings.Replace(testutils.LandingDocument, "Big news", "Bigger news", 1)
	require.NoError(t, os.WriteFile(path, []byte(updated), 0o644))

	msg := readReload(t, conn)
	assert.Equal(t, "landing", msg.Document)

	resp := request(t, http.MethodGet, srv.URL+"/api/documents/landing", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	doc := decodeJSON[map[string]string](t, resp)
	assert.Contains(t, doc["html"], "Bigger news")
}

func TestUnresolvedEditLeavesDocumentUntouched(t *testing.T) {
	srv := startServer(t, testutils.Config(t))
	docURL := srv.URL + "/api/documents/plain"

	request(t, http.MethodPut, docURL, testutils.LandingFragment)

	resp := request(t, http.MethodPost, docURL+"/edits", `{"text":"do something nice"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = request(t, http.MethodGet, docURL, "")
	doc := decodeJSON[map[string]string](t, resp)
	assert.Contains(t, doc["html"], "Big news")
	assert.NotContains(t, doc["html"], "style=")

	resp = request(t, http.MethodGet, docURL+"/history", "")
	assert.Empty(t, decodeJSON[[]types.EditRecord](t, resp))
}
