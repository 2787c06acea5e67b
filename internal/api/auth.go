// Copyright (c) 2025-2026 DanaTelecom
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"fmt"

	"github.com/danatelecom/portal-go/internal/model"
)

// Register creates a new account. A returned token is stored under the
// user role; registration never yields an admin session.
func (c *Client) Register(ctx context.Context, reg model.Registration) (*model.User, error) {
	var resp model.AuthResponse
	if err := c.postJSON(ctx, "/api/auth/register", reg, &resp); err != nil {
		return nil, err
	}

	if resp.Token != "" {
		if err := c.sessions.SetToken(ctx, model.RoleUser, resp.Token); err != nil {
			return nil, fmt.Errorf("storing registration token: %w", err)
		}
	}
	return &resp.User, nil
}

// Login authenticates and stores the returned token under the role the
// backend reports for the user, so an admin login and a user login can
// coexist in storage.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*model.User, error) {
	var resp model.AuthResponse
	if err := c.postJSON(ctx, "/api/auth/login", creds, &resp); err != nil {
		return nil, err
	}

	if resp.Token != "" {
		role := model.RoleUser
		if resp.User.IsAdmin() {
			role = model.RoleAdmin
		}
		if err := c.sessions.SetToken(ctx, role, resp.Token); err != nil {
			return nil, fmt.Errorf("storing login token: %w", err)
		}
	}
	return &resp.User, nil
}

// Logout clears both tokens and moves navigation to the login view.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	c.nav.ToLogin()
	return nil
}

// Me fetches the current identity.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.getJSON(ctx, "/api/auth/me", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates the authenticated user's profile. The backend
// mounts this one route outside /api; the odd path is part of the contract.
func (c *Client) UpdateProfile(ctx context.Context, update model.ProfileUpdate) (*model.User, error) {
	var user model.User
	if err := c.putJSON(ctx, "/auth/profile", update, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
