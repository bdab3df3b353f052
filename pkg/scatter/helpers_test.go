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
	mathrand "math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jeremyhahn/go-scatter/pkg/adapters/kdf"
	"github.com/jeremyhahn/go-scatter/pkg/schedule"
)

// fastParams keeps Argon2id cheap enough to run hundreds of times.
func fastParams() *kdf.KDFParams {
	return &kdf.KDFParams{
		Algorithm: kdf.AlgorithmArgon2id,
		Memory:    kdf.MinArgon2Memory,
		Time:      1,
		Threads:   1,
		KeyLength: kdf.KeyLength,
	}
}

func newTestEngine(t *testing.T, mutate ...func(*Config)) *Engine {
	t.Helper()
	config := &Config{KDFParams: fastParams()}
	for _, m := range mutate {
		m(config)
	}
	engine, err := New(config)
	require.NoError(t, err)
	return engine
}

func withSalt(salt []byte) func(*Config) {
	return func(c *Config) { c.Random = &fixedRandom{salt: salt} }
}

func withSchedule(f schedule.Factory) func(*Config) {
	return func(c *Config) { c.Schedule = f }
}

// fixedRandom returns the same bytes on every call.
type fixedRandom struct {
	salt []byte
}

func (f *fixedRandom) Rand(n int) ([]byte, error) {
	out := make([]byte, n)
	copy(out, f.salt)
	return out, nil
}

func (f *fixedRandom) Read(p []byte) (int, error) {
	return copy(p, f.salt), nil
}

func (f *fixedRandom) Available() bool { return true }
func (f *fixedRandom) Close() error    { return nil }

type step struct {
	size   uint
	target int
}

// scripted replays steps in a loop, ignoring the key.
type scripted struct {
	steps []step
	pos   int
	wiped bool
}

func (s *scripted) Next(uint64, int) (uint, int) {
	st := s.steps[s.pos%len(s.steps)]
	s.pos++
	return st.size, st.target
}

func (s *scripted) Wipe() { s.wiped = true }

func scriptedFactory(steps ...step) schedule.Factory {
	return func([]byte) (schedule.Schedule, error) {
		return &scripted{steps: steps}, nil
	}
}

func randomBytes(seed int64, n int) []byte {
	r := mathrand.New(mathrand.NewSource(seed))
	b := make([]byte, n)
	r.Read(b)
	return b
}

func writeInput(t *testing.T, dir string, data []byte) string {
	t.Helper()
	path := filepath.Join(dir, "input.bin")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func readFile(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

func reversed(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[len(paths)-1-i] = p
	}
	return out
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

var testPassword = []byte("correct horse battery staple")
