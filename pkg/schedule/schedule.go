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

// Package schedule produces the deterministic sequence of interleaving steps
// that decides how many bits move next and which fragment they belong to.
//
// The sequence is a pure function of the seed key and the order of calls.
// Split and join must call Next with the same arguments in the same order;
// one extra or missing call desynchronizes every later step.
package schedule

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20"
)

const (
	// KeySize is the required seed length in bytes.
	KeySize = chacha20.KeySize

	// MaxSampleBits is the largest number of bits a single step moves.
	MaxSampleBits = 8

	blockSize = 64
)

// ErrInvalidKey is returned when the seed is not KeySize bytes.
var ErrInvalidKey = errors.New("schedule: invalid key size")

// Schedule yields interleaving steps.
type Schedule interface {
	// Next returns the number of bits to move (1..MaxSampleBits, never more
	// than remainingBits) and the ordinal of the fragment involved.
	// remainingBits must be positive.
	Next(remainingBits uint64, fragments int) (size uint, target int)

	// Wipe erases all generator state. The schedule is unusable afterwards.
	Wipe()
}

// Factory creates a Schedule from a derived key.
type Factory func(key []byte) (Schedule, error)

// ChaCha is a Schedule driven by the ChaCha20 keystream under the seed key
// and an all-zero nonce. Uniform integers are drawn from little-endian
// 32-bit keystream words with Lemire's multiply-and-reject method.
type ChaCha struct {
	cipher *chacha20.Cipher
	block  [blockSize]byte
	pos    int
}

var _ Schedule = (*ChaCha)(nil)

// NewChaCha seeds a ChaCha schedule. key must be KeySize bytes; it is not
// retained.
func NewChaCha(key []byte) (*ChaCha, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKey, len(key), KeySize)
	}
	var nonce [chacha20.NonceSize]byte
	cipher, err := chacha20.NewUnauthenticatedCipher(key, nonce[:])
	if err != nil {
		return nil, fmt.Errorf("schedule: %w", err)
	}
	return &ChaCha{
		cipher: cipher,
		pos:    blockSize,
	}, nil
}

// NewChaChaSchedule adapts NewChaCha to Factory.
func NewChaChaSchedule(key []byte) (Schedule, error) {
	return NewChaCha(key)
}

// Next draws the sample size first and the target second.
func (c *ChaCha) Next(remainingBits uint64, fragments int) (uint, int) {
	limit := uint64(MaxSampleBits - 1)
	if remainingBits == 0 {
		limit = 0
	} else if remainingBits-1 < limit {
		limit = remainingBits - 1
	}
	size := uint(c.uniform(uint32(limit)+1)) + 1
	target := int(c.uniform(uint32(fragments)))
	return size, target
}

// Wipe zeroes the keystream buffer and the cipher state.
func (c *ChaCha) Wipe() {
	clear(c.block[:])
	c.pos = blockSize
	if c.cipher != nil {
		*c.cipher = chacha20.Cipher{}
		c.cipher = nil
	}
}

// uniform returns an integer in [0, n) without modulo bias. n must be
// positive.
func (c *ChaCha) uniform(n uint32) uint32 {
	m := uint64(c.nextUint32()) * uint64(n)
	low := uint32(m)
	if low < n {
		threshold := -n % n
		for low < threshold {
			m = uint64(c.nextUint32()) * uint64(n)
			low = uint32(m)
		}
	}
	return uint32(m >> 32)
}

func (c *ChaCha) nextUint32() uint32 {
	if c.pos+4 > blockSize {
		clear(c.block[:])
		c.cipher.XORKeyStream(c.block[:], c.block[:])
		c.pos = 0
	}
	v := binary.LittleEndian.Uint32(c.block[c.pos:])
	c.pos += 4
	return v
}
