package http

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/raunak51299/LocalChatApp/internal/config"
	"github.com/raunak51299/LocalChatApp/internal/core"
	"github.com/raunak51299/LocalChatApp/internal/store"
	"github.com/raunak51299/LocalChatApp/internal/store/sqlite"
)

const testAdminPassword = "sekret"

// createTestStore creates an in-memory SQLite store with schema applied.
func createTestStore(t *testing.T) store.Store {
	t.Helper()

	st, err := sqlite.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return st
}

// startTestServer runs the full HTTP server against an in-memory store.
func startTestServer(t *testing.T) (*httptest.Server, store.Store) {
	return startTestServerWithPageSize(t, 50)
}

func startTestServerWithPageSize(t *testing.T, pageSize int) (*httptest.Server, store.Store) {
	t.Helper()

	testStore := createTestStore(t)

	disabledLogger := zerolog.Nop()
	hub := core.NewHub(testStore, testAdminPassword, &disabledLogger)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	cfg := config.Config{
		Addr:              ":0",
		AdminPassword:     testAdminPassword,
		AllowedOrigins:    []string{"http://localhost:5173"},
		MessagePageSize:   pageSize,
		ReadHeaderTimeout: time.Second,
		ShutdownTimeout:   time.Second,
	}

	server := NewServer(hub, testStore, &cfg, &disabledLogger)
	ts := httptest.NewServer(server.Handler)
	t.Cleanup(ts.Close)

	return ts, testStore
}
