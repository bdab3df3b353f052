// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-scatter.
//
// go-scatter is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

// Package validation checks user supplied names before they reach the file
// system and scrubs strings before they reach the logs.
package validation

import (
	"fmt"
	"strings"
)

// MaxNameLength bounds a fragment base name so that "<name>.<i>.frag" stays
// within the common 255 byte file name limit for any ordinal below 1024.
const MaxNameLength = 255 - len(".1023.frag")

// ValidateName validates a fragment base name.
// Prevents path traversal and unreadable file names by:
// - Rejecting empty strings
// - Rejecting null bytes
// - Rejecting path separators and the . and .. entries
// - Rejecting control characters
// - Enforcing length limits
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}

	// Check for null bytes (can bypass some path checks)
	if strings.Contains(name, "\x00") {
		return fmt.Errorf("name contains null byte")
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("name too long (max %d bytes)", MaxNameLength)
	}

	if name == "." || name == ".." {
		return fmt.Errorf("name %q refers to a directory", name)
	}

	// Both separators are rejected so fragment names stay portable
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("name contains a path separator")
	}

	for _, r := range name {
		if r < 32 || r == 127 {
			return fmt.Errorf("name contains control characters")
		}
	}

	return nil
}

// SanitizeForLog sanitizes a string for safe logging (prevents log injection).
func SanitizeForLog(s string) string {
	// Remove control characters and null bytes
	s = strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)

	// Limit length to prevent log flooding
	if len(s) > 1000 {
		s = s[:1000] + "...[truncated]"
	}

	return s
}

// SanitizePaths applies SanitizeForLog to every path.
func SanitizePaths(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = SanitizeForLog(p)
	}
	return out
}
