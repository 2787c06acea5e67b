// Copyright (c) 2025-2026 DanaTelecom
// SPDX-License-Identifier: GPL-3.0-or-later

package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Queries provides typed access to the state database.
type Queries struct {
	db *sql.DB
}

// New creates a Queries instance over the given database.
func New(db *sql.DB) *Queries {
	return &Queries{db: db}
}

// ErrNoToken is returned when no token is stored for the requested role.
var ErrNoToken = errors.New("state: no token for role")

// UpsertToken stores the sealed token for a role, replacing any existing one.
func (q *Queries) UpsertToken(ctx context.Context, role string, token []byte) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO tokens (role, token, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(role) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at`,
		role, token, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upserting token: %w", err)
	}
	return nil
}

// GetToken returns the sealed token stored for a role.
func (q *Queries) GetToken(ctx context.Context, role string) ([]byte, error) {
	var token []byte
	err := q.db.QueryRowContext(ctx, `SELECT token FROM tokens WHERE role = ?`, role).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoToken
	}
	if err != nil {
		return nil, fmt.Errorf("getting token: %w", err)
	}
	return token, nil
}

// DeleteTokens removes all stored tokens.
func (q *Queries) DeleteTokens(ctx context.Context) error {
	if _, err := q.db.ExecContext(ctx, `DELETE FROM tokens`); err != nil {
		return fmt.Errorf("deleting tokens: %w", err)
	}
	return nil
}

// Event is a diagnostic event log entry.
type Event struct {
	ID        string
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}

// CreateEventParams holds the fields for a new event log entry.
type CreateEventParams struct {
	Level     string
	Category  string
	Message   string
	Metadata  string
	CreatedAt time.Time
}

// CreateEvent appends an entry to the event log.
func (q *Queries) CreateEvent(ctx context.Context, p CreateEventParams) (Event, error) {
	ev := Event{
		ID:        uuid.NewString(),
		Level:     p.Level,
		Category:  p.Category,
		Message:   p.Message,
		Metadata:  p.Metadata,
		CreatedAt: p.CreatedAt,
	}
	if ev.Metadata == "" {
		ev.Metadata = "{}"
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now().UTC()
	}
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO events (id, level, category, message, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Level, ev.Category, ev.Message, ev.Metadata, ev.CreatedAt)
	if err != nil {
		return Event{}, fmt.Errorf("creating event: %w", err)
	}
	return ev, nil
}

// ListRecentEvents returns the newest events, most recent first.
func (q *Queries) ListRecentEvents(ctx context.Context, limit int) ([]Event, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT id, level, category, message, metadata, created_at
		FROM events ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.Level, &ev.Category, &ev.Message, &ev.Metadata, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
