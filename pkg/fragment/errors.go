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

package fragment

import "errors"

var (
	// ErrPathConflict is returned when a fragment or output destination
	// already exists. Errors wrapping it also match fs.ErrExist.
	ErrPathConflict = errors.New("fragment: destination already exists")

	// ErrFragmentCorruption is returned when fragment contents are
	// inconsistent with the fragment layout: a missing tail byte, a tail
	// value above 7, or fewer content bits than the schedule requires.
	ErrFragmentCorruption = errors.New("fragment: corrupt fragment")

	// ErrInvalidCount is returned when the number of fragments is outside
	// [MinFragments, MaxFragments].
	ErrInvalidCount = errors.New("fragment: invalid fragment count")

	// ErrNotRegular is returned when a source path is not a regular file.
	ErrNotRegular = errors.New("fragment: not a regular file")

	// ErrClosed is returned when a closed file is used.
	ErrClosed = errors.New("fragment: closed")
)
