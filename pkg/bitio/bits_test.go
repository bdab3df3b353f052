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

package bitio

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_LSBFirst(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, 0)
	require.NoError(t, err)

	require.NoError(t, w.WriteBits(0b101, 3))
	require.NoError(t, w.WriteBits(0b11, 2))
	assert.Equal(t, uint(5), w.Pending())

	pending, err := w.Flush()
	require.NoError(t, err)
	assert.Equal(t, uint(5), pending)
	assert.Equal(t, uint(0), w.Pending())
	assert.Equal(t, []byte{0b00011101}, buf.Bytes())
}

func TestWriter_MasksHighBits(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, 0)
	require.NoError(t, err)

	// only the low 4 bits of 0xFF may land in the stream
	require.NoError(t, w.WriteBits(0xFF, 4))
	require.NoError(t, w.WriteBits(0, 4))
	_, err = w.Flush()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x0F}, buf.Bytes())
}

func TestWriter_FlushAligned(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, 0)
	require.NoError(t, err)

	require.NoError(t, w.WriteByte(0x4C))
	pending, err := w.Flush()
	require.NoError(t, err)
	assert.Equal(t, uint(0), pending)
	assert.Equal(t, []byte{0x4C}, buf.Bytes())
}

func TestWriter_InvalidWidth(t *testing.T) {
	w, err := NewWriter(&bytes.Buffer{}, 0)
	require.NoError(t, err)

	assert.ErrorIs(t, w.WriteBits(1, 0), ErrInvalidWidth)
	assert.ErrorIs(t, w.WriteBits(1, MaxWidth+1), ErrInvalidWidth)
}

func TestReader_LSBFirst(t *testing.T) {
	r, err := NewReader(bytes.NewReader([]byte{0b00011101, 0xA5}), 0)
	require.NoError(t, err)

	v, n, err := r.ReadBits(3)
	require.NoError(t, err)
	assert.Equal(t, uint(3), n)
	assert.Equal(t, uint64(0b101), v)

	v, n, err = r.ReadBits(2)
	require.NoError(t, err)
	assert.Equal(t, uint(2), n)
	assert.Equal(t, uint64(0b11), v)

	// crosses the byte boundary: 3 remaining zero bits then 0xA5's low 5 bits
	v, n, err = r.ReadBits(8)
	require.NoError(t, err)
	assert.Equal(t, uint(8), n)
	assert.Equal(t, uint64(0b00101_000), v)
}

func TestReader_ShortReadAtEOF(t *testing.T) {
	r, err := NewReader(bytes.NewReader([]byte{0xFF}), 0)
	require.NoError(t, err)

	v, n, err := r.ReadBits(6)
	require.NoError(t, err)
	assert.Equal(t, uint(6), n)
	assert.Equal(t, uint64(0x3F), v)

	v, n, err = r.ReadBits(8)
	require.NoError(t, err)
	assert.Equal(t, uint(2), n)
	assert.Equal(t, uint64(0x3), v)

	v, n, err = r.ReadBits(8)
	require.NoError(t, err)
	assert.Equal(t, uint(0), n)
	assert.Equal(t, uint64(0), v)
}

func TestReader_PropagatesError(t *testing.T) {
	boom := errors.New("boom")
	r, err := NewReader(iotest.ErrReader(boom), 0)
	require.NoError(t, err)

	_, _, err = r.ReadBits(4)
	assert.ErrorIs(t, err, boom)
}

func TestReader_InvalidWidth(t *testing.T) {
	r, err := NewReader(bytes.NewReader(nil), 0)
	require.NoError(t, err)

	_, _, err = r.ReadBits(0)
	assert.ErrorIs(t, err, ErrInvalidWidth)
}

func TestBits_RandomWidthsRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	type chunk struct {
		value uint64
		width uint
	}
	chunks := make([]chunk, 5000)
	total := uint(0)
	for i := range chunks {
		width := uint(rng.Intn(MaxWidth) + 1)
		chunks[i] = chunk{value: rng.Uint64() & mask(width), width: width}
		total += width
	}

	var buf bytes.Buffer
	w, err := NewWriter(&buf, 16)
	require.NoError(t, err)
	for _, c := range chunks {
		require.NoError(t, w.WriteBits(c.value, c.width))
	}
	pending, err := w.Flush()
	require.NoError(t, err)
	assert.Equal(t, total%8, pending)
	assert.Equal(t, int((total+7)/8), buf.Len())

	r, err := NewReader(bytes.NewReader(buf.Bytes()), 16)
	require.NoError(t, err)
	for i, c := range chunks {
		v, n, err := r.ReadBits(c.width)
		require.NoError(t, err)
		require.Equal(t, c.width, n, "chunk %d", i)
		require.Equal(t, c.value, v, "chunk %d", i)
	}
}
