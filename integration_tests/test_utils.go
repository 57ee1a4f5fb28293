//go:build integration
// +build integration

package integration_tests

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/conneroisu/smartedit/internal/config"
	"github.com/conneroisu/smartedit/internal/logging"
	"github.com/conneroisu/smartedit/internal/server"
	"github.com/conneroisu/smartedit/internal/workspace"
	"github.com/stretchr/testify/require"
)

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Documents int       `json:"documents"`
	Clients   int       `json:"clients"`
}

// runningServer is a server serving on a random local port.
type runningServer struct {
	URL       string
	Server    *server.Server
	Workspace *workspace.Workspace
}

// startServer serves a fresh workspace on 127.0.0.1 until the test ends.
func startServer(t *testing.T, cfg *config.Config) *runningServer {
	t.Helper()
	logger := logging.NewTestLogger()

	ws, err := workspace.New(cfg.Server.MaxDocuments, nil, logger)
	require.NoError(t, err)

	srv := server.New(cfg.Server, cfg.Tokens, ws, logger)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(10 * time.Second):
			t.Error("server did not stop")
		}
	})

	url := "http://" + ln.Addr().String()
	waitForHealthy(t, url, 5*time.Second)
	return &runningServer{URL: url, Server: srv, Workspace: ws}
}

// waitForHealthy polls /health with exponential backoff until it reports
// healthy or timeout passes.
func waitForHealthy(t *testing.T, baseURL string, timeout time.Duration) HealthResponse {
	t.Helper()
	client := &http.Client{Timeout: time.Second}
	deadline := time.Now().Add(timeout)
	delay := 10 * time.Millisecond

	var lastErr error
	for time.Now().Before(deadline) {
		health, err := checkHealth(client, baseURL)
		if err == nil && health.Status == "healthy" {
			return health
		}
		lastErr = err
		time.Sleep(delay)
		if delay < 200*time.Millisecond {
			delay *= 2
		}
	}
	t.Fatalf("server at %s not healthy after %v: %v", baseURL, timeout, lastErr)
	return HealthResponse{}
}

func checkHealth(client *http.Client, baseURL string) (HealthResponse, error) {
	var health HealthResponse
	resp, err := client.Get(baseURL + "/health")
	if err != nil {
		return health, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return health, fmt.Errorf("health check returned %d", resp.StatusCode)
	}
	err = json.NewDecoder(resp.Body).Decode(&health)
	return health, err
}

func request(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}
