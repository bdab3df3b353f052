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

// MaxWidth is the largest number of bits a single ReadBits or WriteBits
// call may move. The accumulator holds up to 7 pending bits plus one full
// request in 64 bits.
const MaxWidth = 57

// Reader reads bits least-significant-bit first from a BlockReader.
// Reader has no write operations.
type Reader struct {
	src   *BlockReader
	acc   uint64
	count uint
	eof   bool
}

// NewReader creates a bit reader over r with a block cache of the given
// size (zero selects DefaultBlockSize).
func NewReader(r io.Reader, blockSize int) (*Reader, error) {
	src, err := NewBlockReader(r, blockSize)
	if err != nil {
		return nil, err
	}
	return &Reader{src: src}, nil
}

// ReadBits returns up to width bits packed into the low bits of value and
// the number of bits actually read. Fewer than width bits are returned only
// when the stream ends; that condition is not an error. Errors other than
// io.EOF from the underlying reader are returned.
func (r *Reader) ReadBits(width uint) (value uint64, n uint, err error) {
	if width == 0 || width > MaxWidth {
		return 0, 0, ErrInvalidWidth
	}
	for r.count < width && !r.eof {
		c, err := r.src.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				r.eof = true
				break
			}
			return 0, 0, err
		}
		r.acc |= uint64(c) << r.count
		r.count += 8
	}
	n = width
	if r.count < n {
		n = r.count
	}
	value = r.acc & mask(n)
	r.acc >>= n
	r.count -= n
	return value, n, nil
}

// Writer writes bits least-significant-bit first to a BlockWriter.
// Writer has no read operations.
type Writer struct {
	dst   *BlockWriter
	acc   uint64
	count uint
}

// NewWriter creates a bit writer over w with a block cache of the given
// size (zero selects DefaultBlockSize).
func NewWriter(w io.Writer, blockSize int) (*Writer, error) {
	dst, err := NewBlockWriter(w, blockSize)
	if err != nil {
		return nil, err
	}
	return &Writer{dst: dst}, nil
}

// WriteBits appends the width low-order bits of value. Each completed byte
// is handed to the block cache.
func (w *Writer) WriteBits(value uint64, width uint) error {
	if width == 0 || width > MaxWidth {
		return ErrInvalidWidth
	}
	w.acc |= (value & mask(width)) << w.count
	w.count += width
	for w.count >= 8 {
		if err := w.dst.WriteByte(byte(w.acc)); err != nil {
			return err
		}
		w.acc >>= 8
		w.count -= 8
	}
	return nil
}

// WriteByte writes a full byte. It is shorthand for WriteBits(uint64(c), 8).
func (w *Writer) WriteByte(c byte) error {
	return w.WriteBits(uint64(c), 8)
}

// Pending returns the number of bits (0-7) waiting for a byte boundary.
func (w *Writer) Pending() uint {
	return w.count
}

// Flush zero-pads any pending partial byte, hands it to the block cache and
// writes the cache out. It returns the number of pending bits that existed
// before padding.
func (w *Writer) Flush() (uint, error) {
	pending := w.count
	if pending > 0 {
		if err := w.dst.WriteByte(byte(w.acc)); err != nil {
			return pending, err
		}
		w.acc = 0
		w.count = 0
	}
	return pending, w.dst.Flush()
}

func mask(width uint) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << width) - 1
}
