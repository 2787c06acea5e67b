// Copyright (c) 2025-2026 DanaTelecom
// SPDX-License-Identifier: GPL-3.0-or-later

// Package testutil provides shared test helpers for portal-go.
package testutil

import (
	"database/sql"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/danatelecom/portal-go/internal/session"
	"github.com/danatelecom/portal-go/internal/state"

	_ "github.com/mattn/go-sqlite3"
)

// TestSecret is a state secret of valid length for tests.
const TestSecret = "test-secret-key-32-bytes-long!!!"

// TestLogger creates a test logger that only outputs errors.
func TestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// TestState creates a temporary state database with migrations applied.
// Tests use the cgo sqlite3 driver directly; the state package itself runs
// on modernc.
func TestState(t *testing.T) *state.Queries {
	t.Helper()

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "portal-test.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := state.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	return state.New(db)
}

// TestSession creates a token store over a fresh temporary state database.
func TestSession(t *testing.T) *session.Store {
	t.Helper()

	s, err := session.NewStore(TestState(t), TestSecret, TestLogger())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s
}

// Backend is a fake portal backend for client tests. Tests register chi
// routes on Router before issuing requests.
type Backend struct {
	Router *chi.Mux
	Server *httptest.Server
}

// NewBackend starts a fake backend; it is shut down with the test.
func NewBackend(t *testing.T) *Backend {
	t.Helper()

	router := chi.NewRouter()
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &Backend{Router: router, Server: server}
}

// URL returns the backend origin.
func (b *Backend) URL() string {
	return b.Server.URL
}

// NavRecorder records navigation side effects triggered by the API client
// or the route guard.
type NavRecorder struct {
	mu         sync.Mutex
	LoginCalls int
	HomeCalls  int
}

// ToLogin records a redirect to the login view.
func (n *NavRecorder) ToLogin() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.LoginCalls++
}

// ToHome records a redirect to the home view.
func (n *NavRecorder) ToHome() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.HomeCalls++
}
