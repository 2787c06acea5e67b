// Copyright (c) 2025-2026 DanaTelecom
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain models exchanged with the portal backend
// including User, Product, NewsPost and the comment tree structures.
// Field tags mirror the backend's wire format exactly (Mongo-style "_id"
// keys, mixed camel/snake casing) and must not be normalized.
package model

import "time"

// User roles recognized by the portal.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents the authenticated portal identity as returned by
// GET /api/auth/me.
type User struct {
	ID        string    `json:"_id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitzero"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// DisplayName returns the user's full name for rendering.
func (u *User) DisplayName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Email
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserRef is the embedded author reference carried inside news posts,
// comments and replies.
type UserRef struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// DisplayName returns the referenced user's full name.
func (r *UserRef) DisplayName() string {
	if r.LastName == "" {
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}

// Credentials is the login request payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register request payload.
type Registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// ProfileUpdate is the payload for PUT /auth/profile.
// Empty fields are omitted so the backend keeps their current values.
type ProfileUpdate struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Address   string `json:"address,omitempty"`
	Password  string `json:"password,omitempty"`
}

// AuthResponse is the backend response to login and register calls.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
