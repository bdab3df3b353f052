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
	"errors"
	"io"
)

// DefaultBlockSize is the default capacity of the block cache in bytes.
const DefaultBlockSize = 4096

var (
	// ErrInvalidBlockSize is returned when a block cache is created with a
	// non-positive capacity.
	ErrInvalidBlockSize = errors.New("bitio: invalid block size")

	// ErrInvalidWidth is returned when a bit width is zero or exceeds MaxWidth.
	ErrInvalidWidth = errors.New("bitio: invalid bit width")
)

// BlockReader serves bytes from a fixed-capacity buffer that is refilled
// with one bulk read from the underlying reader whenever it runs dry.
type BlockReader struct {
	r   io.Reader
	buf []byte
	pos int
	end int
	err error
}

// NewBlockReader creates a BlockReader with the given capacity. A size of
// zero selects DefaultBlockSize.
func NewBlockReader(r io.Reader, size int) (*BlockReader, error) {
	if size == 0 {
		size = DefaultBlockSize
	}
	if size < 0 {
		return nil, ErrInvalidBlockSize
	}
	return &BlockReader{
		r:   r,
		buf: make([]byte, size),
	}, nil
}

// ReadByte returns the next byte. It returns io.EOF once a refill yields
// no bytes and the underlying reader reports end of stream.
func (b *BlockReader) ReadByte() (byte, error) {
	if b.pos == b.end {
		if err := b.fill(); err != nil {
			return 0, err
		}
	}
	c := b.buf[b.pos]
	b.pos++
	return c, nil
}

// fill performs one bulk read. Readers that return (0, nil) are retried a
// bounded number of times, matching io.Reader's contract.
func (b *BlockReader) fill() error {
	if b.err != nil {
		return b.err
	}
	b.pos, b.end = 0, 0
	for i := 0; i < 100; i++ {
		n, err := b.r.Read(b.buf)
		if n < 0 || n > len(b.buf) {
			b.err = errors.New("bitio: reader returned invalid count")
			return b.err
		}
		b.end = n
		if err != nil {
			b.err = err
		}
		if n > 0 {
			return nil
		}
		if err != nil {
			return err
		}
	}
	b.err = io.ErrNoProgress
	return b.err
}

// BlockWriter accumulates bytes in a fixed-capacity buffer and writes them
// to the underlying writer in one bulk write each time the buffer fills.
type BlockWriter struct {
	w   io.Writer
	buf []byte
	n   int
	err error
}

// NewBlockWriter creates a BlockWriter with the given capacity. A size of
// zero selects DefaultBlockSize.
func NewBlockWriter(w io.Writer, size int) (*BlockWriter, error) {
	if size == 0 {
		size = DefaultBlockSize
	}
	if size < 0 {
		return nil, ErrInvalidBlockSize
	}
	return &BlockWriter{
		w:   w,
		buf: make([]byte, size),
	}, nil
}

// WriteByte appends c to the buffer, writing the buffer out when full.
func (b *BlockWriter) WriteByte(c byte) error {
	if b.err != nil {
		return b.err
	}
	b.buf[b.n] = c
	b.n++
	if b.n == len(b.buf) {
		return b.Flush()
	}
	return nil
}

// Flush writes any buffered bytes regardless of how full the buffer is.
// Once a write fails, every later call returns the same error.
func (b *BlockWriter) Flush() error {
	if b.err != nil {
		return b.err
	}
	if b.n == 0 {
		return nil
	}
	n, err := b.w.Write(b.buf[:b.n])
	if err == nil && n < b.n {
		err = io.ErrShortWrite
	}
	if err != nil {
		b.err = err
		return err
	}
	b.n = 0
	return nil
}

// Buffered returns the number of bytes waiting to be written.
func (b *BlockWriter) Buffered() int {
	return b.n
}
