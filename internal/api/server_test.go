package api_test

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/banker/internal/api"
	"github.com/mcoot/banker/internal/testutil"
)

func TestDefaultServerConfig(t *testing.T) {
	cfg := api.DefaultServerConfig()
	assert.Equal(t, 8080, cfg.Port)
	assert.Zero(t, cfg.WriteTimeout)
	assert.Positive(t, cfg.RateLimit.PerSecond)
}

func TestServerServeAndShutdown(t *testing.T) {
	ts := newTestServer(t)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	server := api.NewServer(ts.handler, api.DefaultServerConfig(), testutil.NopLogger())
	errCh := make(chan error, 1)
	go func() { errCh <- server.Serve(ln) }()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + ln.Addr().String() + "/api/v1/health")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, server.Shutdown(context.Background()))
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
