// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version carries build-time version information.
package version

import "fmt"

// Info contains version metadata injected at build time via ldflags.
type Info struct {
	Version   string // semantic version from git tags, or "dev"
	GitCommit string // short git commit hash
	BuildTime string // build timestamp in RFC 3339 format
}

// String formats the info for the -version flag and startup logs.
func (i Info) String() string {
	return fmt.Sprintf("hcms %s (commit: %s, built: %s)", i.Version, i.GitCommit, i.BuildTime)
}
