// Copyright (c) 2025-2026 DanaTelecom
// SPDX-License-Identifier: GPL-3.0-or-later

package guard

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danatelecom/portal-go/internal/api"
	"github.com/danatelecom/portal-go/internal/model"
	"github.com/danatelecom/portal-go/internal/session"
	"github.com/danatelecom/portal-go/internal/testutil"
)

func newGuard(t *testing.T, backend *testutil.Backend) (*Guard, *session.Store, *testutil.NavRecorder) {
	t.Helper()

	sessions := testutil.TestSession(t)
	nav := &testutil.NavRecorder{}
	client, err := api.NewClient(backend.URL(), sessions, nav, testutil.TestLogger())
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return New(client, nav, testutil.TestLogger()), sessions, nav
}

func serveMe(backend *testutil.Backend, calls *int, user model.User) {
	backend.Router.Get("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		*calls++
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(user)
	})
}

func TestAuthorizedUser(t *testing.T) {
	backend := testutil.NewBackend(t)
	g, sessions, nav := newGuard(t, backend)
	ctx := context.Background()

	calls := 0
	serveMe(backend, &calls, model.User{ID: "u1", Role: model.RoleUser})

	if err := sessions.SetToken(ctx, model.RoleUser, "tok"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}

	res := g.Check(ctx, false)
	if res.State != StateAuthorized {
		t.Fatalf("State = %v, want authorized", res.State)
	}
	if res.User == nil || res.User.ID != "u1" {
		t.Errorf("User = %+v", res.User)
	}
	if calls != 1 {
		t.Errorf("identity fetched %d times, want exactly 1", calls)
	}
	if nav.LoginCalls != 0 || nav.HomeCalls != 0 {
		t.Errorf("unexpected navigation: %+v", nav)
	}
}

func TestMissingTokenRedirectsToLogin(t *testing.T) {
	backend := testutil.NewBackend(t)
	g, _, nav := newGuard(t, backend)

	calls := 0
	serveMe(backend, &calls, model.User{})

	res := g.Check(context.Background(), false)
	if res.State != StateRedirectLogin {
		t.Fatalf("State = %v, want redirect-login", res.State)
	}
	if res.User != nil {
		t.Errorf("User = %+v, want nil", res.User)
	}
	// The 401 interceptor fires exactly one login redirect; the guard must
	// not add a second one.
	if nav.LoginCalls != 1 {
		t.Errorf("LoginCalls = %d, want 1", nav.LoginCalls)
	}
	if calls != 1 {
		t.Errorf("identity fetched %d times, want exactly 1 (no retry)", calls)
	}
}

func TestBackendFailureRedirectsToLogin(t *testing.T) {
	backend := testutil.NewBackend(t)
	g, sessions, nav := newGuard(t, backend)
	ctx := context.Background()

	backend.Router.Get("/api/auth/me", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if err := sessions.SetToken(ctx, model.RoleUser, "tok"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}

	res := g.Check(ctx, false)
	if res.State != StateRedirectLogin {
		t.Fatalf("State = %v, want redirect-login", res.State)
	}
	if nav.LoginCalls != 1 {
		t.Errorf("LoginCalls = %d, want 1", nav.LoginCalls)
	}
	// A server error is not an auth failure: the session survives.
	if sessions.ActiveToken() == "" {
		t.Error("token cleared on non-auth failure")
	}
}

func TestNonAdminOnAdminViewRedirectsHome(t *testing.T) {
	backend := testutil.NewBackend(t)
	g, sessions, nav := newGuard(t, backend)
	ctx := context.Background()

	calls := 0
	serveMe(backend, &calls, model.User{ID: "u1", Role: model.RoleUser})

	if err := sessions.SetToken(ctx, model.RoleUser, "tok"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}

	res := g.Check(ctx, true)
	if res.State != StateRedirectHome {
		t.Fatalf("State = %v, want redirect-home", res.State)
	}
	if nav.HomeCalls != 1 || nav.LoginCalls != 0 {
		t.Errorf("navigation = %+v", nav)
	}
}

func TestAdminOnAdminView(t *testing.T) {
	backend := testutil.NewBackend(t)
	g, sessions, _ := newGuard(t, backend)
	ctx := context.Background()

	calls := 0
	serveMe(backend, &calls, model.User{ID: "a1", Role: model.RoleAdmin})

	if err := sessions.SetToken(ctx, model.RoleAdmin, "tok"); err != nil {
		t.Fatalf("SetToken: %v", err)
	}

	res := g.Check(ctx, true)
	if res.State != StateAuthorized {
		t.Fatalf("State = %v, want authorized", res.State)
	}
	if !res.User.IsAdmin() {
		t.Error("authorized user is not admin")
	}
}

func TestStateStrings(t *testing.T) {
	states := map[State]string{
		StateLoading:       "loading",
		StateAuthorized:    "authorized",
		StateRedirectLogin: "redirect-login",
		StateRedirectHome:  "redirect-home",
		State(99):          "unknown",
	}
	for s, want := range states {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}
