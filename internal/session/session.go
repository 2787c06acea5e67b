// Copyright (c) 2025-2026 DanaTelecom
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session persists the portal bearer tokens. At most two tokens
// exist at a time, keyed by role; the admin token takes precedence whenever
// both are present. Tokens are sealed at rest in the state database.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/danatelecom/portal-go/internal/model"
	"github.com/danatelecom/portal-go/internal/state"
)

// Store manages the two role-keyed bearer tokens. It is an explicit
// injectable object passed to the API client and route guard by reference,
// never read from ambient globals.
type Store struct {
	queries *state.Queries
	key     []byte
	log     *slog.Logger

	// mu guards the in-memory copy. The 401 interceptor and the explicit
	// logout action may clear the store while a fetch is being prepared.
	mu     sync.Mutex
	tokens map[string]string
}

// NewStore creates a token store over the state database. The secret seals
// tokens at rest; opening a store with a different secret behaves as if no
// tokens were saved.
func NewStore(queries *state.Queries, secret string, log *slog.Logger) (*Store, error) {
	key, err := deriveKey(secret)
	if err != nil {
		return nil, err
	}

	s := &Store{
		queries: queries,
		key:     key,
		log:     log,
		tokens:  make(map[string]string, 2),
	}
	s.load()
	return s, nil
}

// load reads and unseals both role tokens from the state database.
// Unreadable tokens (wrong secret, tampering) are treated as absent.
func (s *Store) load() {
	ctx := context.Background()
	for _, role := range []string{model.RoleAdmin, model.RoleUser} {
		sealed, err := s.queries.GetToken(ctx, role)
		if errors.Is(err, state.ErrNoToken) {
			continue
		}
		if err != nil {
			s.log.Warn("reading stored token", "category", "auth", "role", role, "error", err)
			continue
		}
		token, err := open(s.key, sealed)
		if err != nil {
			s.log.Warn("stored token is unreadable, ignoring", "category", "auth", "role", role, "error", err)
			continue
		}
		s.tokens[role] = token
	}
}

// SetToken persists a token under the given role, overwriting any existing
// token of that role.
func (s *Store) SetToken(ctx context.Context, role, token string) error {
	if role != model.RoleAdmin && role != model.RoleUser {
		return fmt.Errorf("session: unknown role %q", role)
	}

	sealed, err := seal(s.key, token)
	if err != nil {
		return err
	}
	if err := s.queries.UpsertToken(ctx, role, sealed); err != nil {
		return err
	}

	s.mu.Lock()
	s.tokens[role] = token
	s.mu.Unlock()
	return nil
}

// Token returns the token stored for a role, or "" if absent.
func (s *Store) Token(role string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[role]
}

// ActiveToken returns the admin token if present, else the user token,
// else "".
func (s *Store) ActiveToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t := s.tokens[model.RoleAdmin]; t != "" {
		return t
	}
	return s.tokens[model.RoleUser]
}

// Role returns the role the active token belongs to, or "" when signed out.
func (s *Store) Role() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tokens[model.RoleAdmin] != "" {
		return model.RoleAdmin
	}
	if s.tokens[model.RoleUser] != "" {
		return model.RoleUser
	}
	return ""
}

// Clear removes both tokens. Called on logout and on any authentication
// failure response.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.tokens = make(map[string]string, 2)
	s.mu.Unlock()

	return s.queries.DeleteTokens(ctx)
}
