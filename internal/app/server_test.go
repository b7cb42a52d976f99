//go:build !integration

package app

import (
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/guttosm/cart-service/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestNewServer(t *testing.T) {
	server := NewServer(okHandler, config.ServerConfig{Port: "8080", ShutdownTimeout: 3 * time.Second})

	require.NotNil(t, server)
	assert.Equal(t, ":8080", server.httpServer.Addr)
	assert.Equal(t, 15*time.Second, server.httpServer.ReadTimeout)
	assert.Zero(t, server.httpServer.WriteTimeout)
	assert.Equal(t, 3*time.Second, server.shutdownTimeout)

	server = NewServer(okHandler, config.ServerConfig{Port: "8080"})
	assert.Equal(t, 10*time.Second, server.shutdownTimeout)
}

func TestServer_ShutdownRunsHooks(t *testing.T) {
	server := NewServer(okHandler, config.ServerConfig{Port: "0"})
	called := make(chan struct{})
	server.OnShutdown(func() { close(called) })

	require.NoError(t, server.Shutdown())

	select {
	case <-called:
	case <-time.After(time.Second):
		t.Fatal("shutdown hook not called")
	}
}

func TestServer_Run_GracefulShutdown(t *testing.T) {
	server := NewServer(okHandler, config.ServerConfig{Port: "0", ShutdownTimeout: time.Second})

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Run()
	}()

	time.Sleep(100 * time.Millisecond)
	proc, err := os.FindProcess(os.Getpid())
	require.NoError(t, err)
	require.NoError(t, proc.Signal(syscall.SIGTERM))

	select {
	case err := <-errChan:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Server did not shutdown in time")
	}
}

func TestServer_Run_ListenError(t *testing.T) {
	server := NewServer(okHandler, config.ServerConfig{Port: "invalid-port"})

	select {
	case err := <-runAsync(server):
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("expected listen error")
	}
}

func runAsync(s *Server) <-chan error {
	ch := make(chan error, 1)
	go func() { ch <- s.Run() }()
	return ch
}
