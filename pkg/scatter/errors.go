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

package scatter

import (
	"context"
	"errors"

	"github.com/jeremyhahn/go-scatter/pkg/adapters/kdf"
	"github.com/jeremyhahn/go-scatter/pkg/fragment"
)

var (
	// ErrInvalidParams is returned for missing paths, bad fragment counts and
	// other unusable arguments.
	ErrInvalidParams = errors.New("scatter: invalid parameters")

	// ErrFragmentCorruption is returned when a fragment set is inconsistent
	// with the fragment layout or runs out of bits during join.
	ErrFragmentCorruption = fragment.ErrFragmentCorruption

	// ErrPathConflict is returned when a destination already exists.
	ErrPathConflict = fragment.ErrPathConflict

	// ErrInvalidSchedule is returned when a schedule yields a step outside
	// the remaining bits or the fragment range.
	ErrInvalidSchedule = errors.New("scatter: schedule produced an invalid step")
)

// Error classes reported by ErrorType.
const (
	ErrorTypeCanceled      = "canceled"
	ErrorTypePathConflict  = "path_conflict"
	ErrorTypeCorruption    = "corruption"
	ErrorTypeInvalidParams = "invalid_params"
	ErrorTypeKDF           = "kdf"
	ErrorTypeIO            = "io"
)

// ErrorType classifies err for metrics and structured output.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorTypeCanceled
	case errors.Is(err, ErrPathConflict):
		return ErrorTypePathConflict
	case errors.Is(err, ErrFragmentCorruption):
		return ErrorTypeCorruption
	case errors.Is(err, ErrInvalidParams), errors.Is(err, fragment.ErrInvalidCount),
		errors.Is(err, fragment.ErrNotRegular):
		return ErrorTypeInvalidParams
	case isKDFError(err):
		return ErrorTypeKDF
	default:
		return ErrorTypeIO
	}
}

func isKDFError(err error) bool {
	for _, target := range []error{
		kdf.ErrInvalidSalt,
		kdf.ErrInvalidKeyLength,
		kdf.ErrInvalidMemory,
		kdf.ErrInvalidThreads,
		kdf.ErrInvalidTime,
		kdf.ErrUnsupportedAlgorithm,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
