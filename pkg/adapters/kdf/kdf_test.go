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

package kdf

import (
	"bytes"
	"errors"
	"testing"
)

// Test data
var (
	testPassword = []byte("correct horse battery staple")
	testSalt     = []byte("saltsaltsaltsalt") // 16 bytes
)

// cheapParams keeps Argon2 fast enough for unit tests.
func cheapParams(alg KDFAlgorithm) *KDFParams {
	return &KDFParams{
		Algorithm: alg,
		Salt:      testSalt,
		Memory:    MinArgon2Memory,
		Time:      MinArgon2Time,
		Threads:   MinArgon2Threads,
		KeyLength: KeyLength,
	}
}

func TestKDFAlgorithm_String(t *testing.T) {
	tests := []struct {
		algorithm KDFAlgorithm
		want      string
	}{
		{AlgorithmArgon2, "Argon2"},
		{AlgorithmArgon2i, "Argon2i"},
		{AlgorithmArgon2id, "Argon2id"},
	}

	for _, tt := range tests {
		if got := tt.algorithm.String(); got != tt.want {
			t.Errorf("String() = %v, want %v", got, tt.want)
		}
	}
}

func TestParseProfile(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Profile
		wantErr bool
	}{
		{"empty selects default", "", ProfileSensitive, false},
		{"interactive", "interactive", ProfileInteractive, false},
		{"moderate mixed case", "Moderate", ProfileModerate, false},
		{"sensitive padded", " sensitive ", ProfileSensitive, false},
		{"unknown", "paranoid", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProfile(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseProfile() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnknownProfile) {
				t.Errorf("ParseProfile() error = %v, want ErrUnknownProfile", err)
			}
			if got != tt.want {
				t.Errorf("ParseProfile() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProfile_Params(t *testing.T) {
	tests := []struct {
		profile Profile
		memory  uint32
		time    uint32
	}{
		{ProfileInteractive, 64 * 1024, 2},
		{ProfileModerate, 256 * 1024, 3},
		{ProfileSensitive, 1024 * 1024, 4},
	}

	for _, tt := range tests {
		p := tt.profile.Params()
		if p.Algorithm != AlgorithmArgon2id {
			t.Errorf("%s: Algorithm = %v, want Argon2id", tt.profile, p.Algorithm)
		}
		if p.Memory != tt.memory {
			t.Errorf("%s: Memory = %v, want %v", tt.profile, p.Memory, tt.memory)
		}
		if p.Time != tt.time {
			t.Errorf("%s: Time = %v, want %v", tt.profile, p.Time, tt.time)
		}
		if p.Threads != 1 {
			t.Errorf("%s: Threads = %v, want 1", tt.profile, p.Threads)
		}
		if p.KeyLength != KeyLength {
			t.Errorf("%s: KeyLength = %v, want %v", tt.profile, p.KeyLength, KeyLength)
		}
		if p.Salt != nil {
			t.Errorf("%s: Salt should be unset", tt.profile)
		}
	}
}

func TestDefaultParams(t *testing.T) {
	if p := DefaultParams(AlgorithmArgon2id); p == nil || p.Algorithm != AlgorithmArgon2id {
		t.Errorf("DefaultParams(Argon2id) = %+v", p)
	}
	if p := DefaultParams(AlgorithmArgon2i); p == nil || p.Algorithm != AlgorithmArgon2i {
		t.Errorf("DefaultParams(Argon2i) = %+v", p)
	}
	if p := DefaultParams("scrypt"); p != nil {
		t.Errorf("DefaultParams(scrypt) = %+v, want nil", p)
	}
}

func TestKDFParams_WithSalt(t *testing.T) {
	base := ProfileInteractive.Params()
	salted := base.WithSalt(testSalt)

	if base.Salt != nil {
		t.Error("WithSalt modified the receiver")
	}
	if !bytes.Equal(salted.Salt, testSalt) {
		t.Errorf("Salt = %x, want %x", salted.Salt, testSalt)
	}
	if salted.Memory != base.Memory || salted.Time != base.Time {
		t.Error("WithSalt did not copy cost parameters")
	}
}

func TestArgon2Adapter_DeriveKey(t *testing.T) {
	tests := []struct {
		name     string
		adapter  KDFAdapter
		password []byte
		params   func() *KDFParams
		wantErr  error
	}{
		{
			name:     "Argon2id",
			adapter:  NewArgon2idAdapter(),
			password: testPassword,
			params:   func() *KDFParams { return cheapParams(AlgorithmArgon2id) },
		},
		{
			name:     "Argon2i",
			adapter:  NewArgon2iAdapter(),
			password: testPassword,
			params:   func() *KDFParams { return cheapParams(AlgorithmArgon2i) },
		},
		{
			name:     "generic Argon2 algorithm",
			adapter:  NewArgon2idAdapter(),
			password: testPassword,
			params:   func() *KDFParams { return cheapParams(AlgorithmArgon2) },
		},
		{
			name:     "empty password",
			adapter:  NewArgon2idAdapter(),
			password: []byte{},
			params:   func() *KDFParams { return cheapParams(AlgorithmArgon2id) },
		},
		{
			name:     "nil password",
			adapter:  NewArgon2idAdapter(),
			password: nil,
			params:   func() *KDFParams { return cheapParams(AlgorithmArgon2id) },
		},
		{
			name:     "salt too short",
			adapter:  NewArgon2idAdapter(),
			password: testPassword,
			params: func() *KDFParams {
				p := cheapParams(AlgorithmArgon2id)
				p.Salt = []byte("short")
				return p
			},
			wantErr: ErrInvalidSalt,
		},
		{
			name:     "memory too low",
			adapter:  NewArgon2idAdapter(),
			password: testPassword,
			params: func() *KDFParams {
				p := cheapParams(AlgorithmArgon2id)
				p.Memory = 1024
				return p
			},
			wantErr: ErrInvalidMemory,
		},
		{
			name:     "time too low",
			adapter:  NewArgon2idAdapter(),
			password: testPassword,
			params: func() *KDFParams {
				p := cheapParams(AlgorithmArgon2id)
				p.Time = 0
				return p
			},
			wantErr: ErrInvalidTime,
		},
		{
			name:     "threads too low",
			adapter:  NewArgon2idAdapter(),
			password: testPassword,
			params: func() *KDFParams {
				p := cheapParams(AlgorithmArgon2id)
				p.Threads = 0
				return p
			},
			wantErr: ErrInvalidThreads,
		},
		{
			name:     "invalid key length",
			adapter:  NewArgon2idAdapter(),
			password: testPassword,
			params: func() *KDFParams {
				p := cheapParams(AlgorithmArgon2id)
				p.KeyLength = 0
				return p
			},
			wantErr: ErrInvalidKeyLength,
		},
		{
			name:     "wrong algorithm for adapter",
			adapter:  NewArgon2idAdapter(),
			password: testPassword,
			params:   func() *KDFParams { return cheapParams(AlgorithmArgon2i) },
			wantErr:  ErrUnsupportedAlgorithm,
		},
		{
			name:     "nil params",
			adapter:  NewArgon2idAdapter(),
			password: testPassword,
			params:   func() *KDFParams { return nil },
			wantErr:  ErrInvalidKeyLength,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := tt.adapter.DeriveKey(tt.password, tt.params())

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("DeriveKey() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DeriveKey() unexpected error: %v", err)
			}
			if len(key) != KeyLength {
				t.Errorf("len(key) = %d, want %d", len(key), KeyLength)
			}
		})
	}
}

func TestArgon2Adapter_Deterministic(t *testing.T) {
	adapter := NewArgon2idAdapter()

	key1, err := adapter.DeriveKey(testPassword, cheapParams(AlgorithmArgon2id))
	if err != nil {
		t.Fatalf("DeriveKey() error = %v", err)
	}
	key2, err := adapter.DeriveKey(testPassword, cheapParams(AlgorithmArgon2id))
	if err != nil {
		t.Fatalf("DeriveKey() error = %v", err)
	}
	if !bytes.Equal(key1, key2) {
		t.Error("same password and salt produced different keys")
	}
}

func TestArgon2Adapter_DifferentInputs(t *testing.T) {
	adapter := NewArgon2idAdapter()
	base, err := adapter.DeriveKey(testPassword, cheapParams(AlgorithmArgon2id))
	if err != nil {
		t.Fatalf("DeriveKey() error = %v", err)
	}

	otherPassword, err := adapter.DeriveKey([]byte("Correct horse battery staple"), cheapParams(AlgorithmArgon2id))
	if err != nil {
		t.Fatalf("DeriveKey() error = %v", err)
	}
	if bytes.Equal(base, otherPassword) {
		t.Error("different passwords produced the same key")
	}

	params := cheapParams(AlgorithmArgon2id).WithSalt([]byte("pepperpepperpepp"))
	otherSalt, err := adapter.DeriveKey(testPassword, params)
	if err != nil {
		t.Fatalf("DeriveKey() error = %v", err)
	}
	if bytes.Equal(base, otherSalt) {
		t.Error("different salts produced the same key")
	}

	empty, err := adapter.DeriveKey(nil, cheapParams(AlgorithmArgon2id))
	if err != nil {
		t.Fatalf("DeriveKey() error = %v", err)
	}
	if bytes.Equal(base, empty) {
		t.Error("empty password produced the same key as a real one")
	}
}

func TestNewArgon2Adapter_DefaultsToArgon2id(t *testing.T) {
	if got := NewArgon2Adapter("bogus").Algorithm(); got != AlgorithmArgon2id {
		t.Errorf("Algorithm() = %v, want %v", got, AlgorithmArgon2id)
	}
	if got := NewArgon2Adapter(AlgorithmArgon2i).Algorithm(); got != AlgorithmArgon2i {
		t.Errorf("Algorithm() = %v, want %v", got, AlgorithmArgon2i)
	}
}
