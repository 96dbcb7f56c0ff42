package server_test

import (
	"context"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/research-library/internal/config"
	"github.com/JaimeStill/research-library/internal/server"
	"github.com/JaimeStill/research-library/pkg/logging"
)

func TestServer_ServesAndShutsDown(t *testing.T) {
	cfg := &config.ServerConfig{Host: "127.0.0.1", Port: 0, ShutdownTimeout: "5s"}
	require.NoError(t, cfg.Finalize())
	cfg.Port = 0

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	srv := server.New(cfg, handler, logging.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	require.NoError(t, srv.Start(ctx, &wg))

	resp, err := http.Get("http://" + srv.Addr() + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, "ok", string(body))

	cancel()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}

	_, err = http.Get("http://" + srv.Addr() + "/")
	assert.Error(t, err)
}

func TestServer_ListenFailure(t *testing.T) {
	cfg := &config.ServerConfig{Host: "256.0.0.1", Port: 1}
	require.NoError(t, cfg.Finalize())

	srv := server.New(cfg, http.NotFoundHandler(), logging.Discard())

	var wg sync.WaitGroup
	assert.Error(t, srv.Start(context.Background(), &wg))
}
