// Copyright (c) 2025-2026 DanaTelecom
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version provides build-time version information.
package version

import "fmt"

// Info contains build-time version information injected via ldflags.
type Info struct {
	Version   string // Semantic version from git tags (e.g., "v1.2.3")
	GitCommit string // Short git commit hash (e.g., "abc1234")
	BuildTime string // Build timestamp in RFC3339 format
}

// UserAgent returns the User-Agent string sent with every backend request.
func (i Info) UserAgent() string {
	return fmt.Sprintf("portal-go/%s", i.Version)
}

// String returns a human-readable version line for the CLI.
func (i Info) String() string {
	return fmt.Sprintf("portal %s (commit %s, built %s)", i.Version, i.GitCommit, i.BuildTime)
}
