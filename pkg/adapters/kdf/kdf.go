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

// Package kdf derives the secret key that seeds the scatter schedule from a
// password and the per-split salt.
//
// Only memory-hard password hashing is offered. Cost profiles follow the
// libsodium naming (interactive, moderate, sensitive). The profile is not
// recorded in the fragments, so the same profile must be used to join a
// fragment set as was used to create it.
package kdf

import (
	"errors"
	"fmt"
	"strings"
)

// KDFAlgorithm represents the key derivation function algorithm type
type KDFAlgorithm string

const (
	// AlgorithmArgon2 represents Argon2 (winner of the Password Hashing Competition)
	AlgorithmArgon2 KDFAlgorithm = "Argon2"

	// AlgorithmArgon2i represents Argon2i variant (optimized against side-channel attacks)
	AlgorithmArgon2i KDFAlgorithm = "Argon2i"

	// AlgorithmArgon2id represents Argon2id variant (hybrid of Argon2i and Argon2d)
	AlgorithmArgon2id KDFAlgorithm = "Argon2id"
)

// String returns the string representation of the KDF algorithm
func (a KDFAlgorithm) String() string {
	return string(a)
}

// KeyLength is the size of the derived key in bytes.
const KeyLength = 32

// KDFParams contains parameters for key derivation
type KDFParams struct {
	// Algorithm specifies which KDF algorithm to use
	Algorithm KDFAlgorithm

	// Salt is the cryptographic salt (random and unique per split)
	Salt []byte

	// Memory is the memory cost in KiB
	Memory uint32

	// Threads is the number of parallel threads
	Threads uint8

	// Time is the time cost/iterations
	Time uint32

	// KeyLength is the desired output key length in bytes
	KeyLength int
}

// WithSalt returns a copy of p using salt.
func (p *KDFParams) WithSalt(salt []byte) *KDFParams {
	c := *p
	c.Salt = salt
	return &c
}

// KDFAdapter is the interface for key derivation function adapters
type KDFAdapter interface {
	// DeriveKey derives a key from the password using the specified parameters.
	// Any password, including an empty one, is accepted.
	DeriveKey(password []byte, params *KDFParams) ([]byte, error)

	// Algorithm returns the KDF algorithm this adapter implements
	Algorithm() KDFAlgorithm

	// ValidateParams validates the KDF parameters for this algorithm
	ValidateParams(params *KDFParams) error
}

// Common errors
var (
	// ErrInvalidSalt indicates the salt is invalid (nil, empty, or too short)
	ErrInvalidSalt = errors.New("kdf: invalid salt")

	// ErrInvalidKeyLength indicates the requested key length is invalid
	ErrInvalidKeyLength = errors.New("kdf: invalid key length")

	// ErrInvalidMemory indicates the memory cost is invalid
	ErrInvalidMemory = errors.New("kdf: invalid memory cost")

	// ErrInvalidThreads indicates the thread count is invalid
	ErrInvalidThreads = errors.New("kdf: invalid threads")

	// ErrInvalidTime indicates the time cost is invalid
	ErrInvalidTime = errors.New("kdf: invalid time cost")

	// ErrUnsupportedAlgorithm indicates the algorithm is not supported by this adapter
	ErrUnsupportedAlgorithm = errors.New("kdf: unsupported algorithm")

	// ErrUnknownProfile indicates an unrecognized cost profile name
	ErrUnknownProfile = errors.New("kdf: unknown profile")
)

// Profile names a predefined Argon2id cost setting.
type Profile string

const (
	// ProfileInteractive is suitable for frequent, low-latency use (64 MiB, t=2).
	ProfileInteractive Profile = "interactive"

	// ProfileModerate trades latency for resistance (256 MiB, t=3).
	ProfileModerate Profile = "moderate"

	// ProfileSensitive is the default: slow and memory hungry (1 GiB, t=4).
	ProfileSensitive Profile = "sensitive"
)

// DefaultProfile is used when no profile is configured.
const DefaultProfile = ProfileSensitive

// ParseProfile converts a profile name to a Profile. Matching is case
// insensitive and an empty name selects DefaultProfile.
func ParseProfile(name string) (Profile, error) {
	switch Profile(strings.ToLower(strings.TrimSpace(name))) {
	case "":
		return DefaultProfile, nil
	case ProfileInteractive:
		return ProfileInteractive, nil
	case ProfileModerate:
		return ProfileModerate, nil
	case ProfileSensitive:
		return ProfileSensitive, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownProfile, name)
	}
}

// Params returns the Argon2id parameters for the profile, without a salt.
func (p Profile) Params() *KDFParams {
	params := &KDFParams{
		Algorithm: AlgorithmArgon2id,
		Threads:   1,
		KeyLength: KeyLength,
	}
	switch p {
	case ProfileInteractive:
		params.Memory = 64 * 1024 // 64 MiB
		params.Time = 2
	case ProfileModerate:
		params.Memory = 256 * 1024 // 256 MiB
		params.Time = 3
	default:
		params.Memory = 1024 * 1024 // 1 GiB
		params.Time = 4
	}
	return params
}

// DefaultParams returns recommended default parameters for each KDF algorithm
func DefaultParams(algorithm KDFAlgorithm) *KDFParams {
	switch algorithm {
	case AlgorithmArgon2, AlgorithmArgon2id:
		return DefaultProfile.Params()
	case AlgorithmArgon2i:
		params := DefaultProfile.Params()
		params.Algorithm = AlgorithmArgon2i
		return params
	default:
		return nil
	}
}
