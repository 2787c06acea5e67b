// Copyright (c) 2025-2026 DanaTelecom
// SPDX-License-Identifier: GPL-3.0-or-later

// Package guard gates views behind "must be authenticated" and, optionally,
// "must be admin". Guarded content is never shown before the identity check
// resolves; every check is exactly one identity fetch with no retry.
package guard

import (
	"context"
	"errors"
	"log/slog"

	"github.com/danatelecom/portal-go/internal/api"
	"github.com/danatelecom/portal-go/internal/model"
)

// State is the terminal outcome of a guard check. A view starts in
// StateLoading (placeholder shown) and the check resolves to exactly one of
// the other states.
type State int

const (
	StateLoading State = iota
	StateAuthorized
	StateRedirectLogin
	StateRedirectHome
)

// String implements fmt.Stringer for log output.
func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthorized:
		return "authorized"
	case StateRedirectLogin:
		return "redirect-login"
	case StateRedirectHome:
		return "redirect-home"
	}
	return "unknown"
}

// Result is the resolved guard decision. User is set only when authorized.
type Result struct {
	State State
	User  *model.User
}

// Guard performs identity checks through the API client.
type Guard struct {
	api *api.Client
	nav api.Navigator
	log *slog.Logger
}

// New creates a route guard.
func New(client *api.Client, nav api.Navigator, log *slog.Logger) *Guard {
	return &Guard{api: client, nav: nav, log: log}
}

// Check resolves the guard for a view. Any identity-fetch failure,
// including a missing or expired token, resolves to the login redirect; an
// authenticated non-admin hitting an admin view resolves to the home
// redirect. The corresponding navigation side effect fires before Check
// returns.
func (g *Guard) Check(ctx context.Context, requireAdmin bool) Result {
	user, err := g.api.Me(ctx)
	if err != nil {
		// A 401 already moved navigation to login inside the client;
		// don't fire the redirect twice.
		if !errors.Is(err, api.ErrSessionExpired) {
			g.log.Warn("identity check failed", "category", "auth", "error", err)
			g.nav.ToLogin()
		}
		return Result{State: StateRedirectLogin}
	}

	if requireAdmin && !user.IsAdmin() {
		g.log.Warn("admin view denied", "category", "auth", "user", user.ID, "role", user.Role)
		g.nav.ToHome()
		return Result{State: StateRedirectHome}
	}

	return Result{State: StateAuthorized, User: user}
}
