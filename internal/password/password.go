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

// Package password resolves the split/join password from a flag, a file, the
// environment or an interactive terminal prompt, and keeps it in a buffer
// that can be zeroed once the key has been derived.
package password

import (
	"crypto/subtle"
	"errors"
)

var (
	// ErrPasswordZeroed is returned when the password has been zeroed.
	ErrPasswordZeroed = errors.New("password has been zeroed")

	// ErrMismatch is returned when the confirmation prompt differs.
	ErrMismatch = errors.New("passwords do not match")

	// ErrAmbiguousSource is returned when more than one source is set.
	ErrAmbiguousSource = errors.New("only one of --password and --password-file may be set")
)

// ClearPassword stores a password in memory as cleartext until Clear is
// called. An empty password is valid.
type ClearPassword struct {
	password []byte
	cleared  bool
}

// NewClearPassword copies password into a new ClearPassword.
func NewClearPassword(password []byte) *ClearPassword {
	p := make([]byte, len(password))
	copy(p, password)
	return &ClearPassword{password: p}
}

// NewClearPasswordFromString creates a new cleartext password from a string.
func NewClearPasswordFromString(password string) *ClearPassword {
	return &ClearPassword{password: []byte(password)}
}

// String returns the password as a string.
func (p *ClearPassword) String() (string, error) {
	if p.cleared {
		return "", ErrPasswordZeroed
	}
	return string(p.password), nil
}

// Bytes returns a copy of the password, or nil once cleared.
func (p *ClearPassword) Bytes() []byte {
	if p.cleared {
		return nil
	}
	result := make([]byte, len(p.password))
	copy(result, p.password)
	return result
}

// Clear overwrites the password and marks it unusable. It is irreversible.
func (p *ClearPassword) Clear() {
	if p.cleared {
		return
	}
	zero(p.password)
	// ConstantTimeCopy keeps the compiler from eliding the wipe.
	subtle.ConstantTimeCopy(1, p.password, make([]byte, len(p.password)))
	p.password = nil
	p.cleared = true
}

// Equal compares two passwords in constant time.
func Equal(a, b *ClearPassword) (bool, error) {
	aBytes := a.Bytes()
	if aBytes == nil {
		return false, ErrPasswordZeroed
	}
	defer zero(aBytes)

	bBytes := b.Bytes()
	if bBytes == nil {
		return false, ErrPasswordZeroed
	}
	defer zero(bBytes)

	return subtle.ConstantTimeCompare(aBytes, bBytes) == 1, nil
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
