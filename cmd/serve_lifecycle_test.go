package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prairiedata/fiscal-cli/internal/api"
	"github.com/prairiedata/fiscal-cli/internal/config"
	"github.com/prairiedata/fiscal-cli/internal/service"
	"github.com/prairiedata/fiscal-cli/internal/store"
)

// getFreePort returns a free TCP port on localhost.
func getFreePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()
	return port
}

func TestServe_ServerLifecycle(t *testing.T) {
	// Test the full server start + request + graceful shutdown cycle.
	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))

	router := api.NewRouter(service.New(st), api.Options{})

	port := getFreePort(t)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	// Start server in background.
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for server to be ready.
	url := fmt.Sprintf("http://127.0.0.1:%d/api/v1/health", port)
	var ready bool
	for i := 0; i < 20; i++ {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			ready = true
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	require.True(t, ready, "server did not become ready in time")

	// Make a real health request.
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "sqlite", body["data_source"])

	// Graceful shutdown.
	require.NoError(t, srv.Shutdown(context.Background()))

	// Wait for server to finish.
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}

func TestServeCmd_PortResolution(t *testing.T) {
	// When servePort is 0, port should come from cfg.Server.Port.
	cfg = &config.Config{
		Server: config.ServerConfig{
			Port: 9999,
		},
	}

	assert.Equal(t, 9999, cfg.Server.Port)
}

func TestRootCmd_Registration(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"serve", "migrate", "load", "load-all", "search", "entity", "analyze", "county"} {
		assert.True(t, names[want], "command %q not registered", want)
	}
}
