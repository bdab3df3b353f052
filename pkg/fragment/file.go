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

import (
	"fmt"
	"os"

	"github.com/jeremyhahn/go-scatter/pkg/bitio"
)

// Source is the file being split.
type Source struct {
	Path string
	Size int64

	file *os.File
	bits *bitio.Reader
}

// OpenSource opens a regular file for reading and records its length.
func OpenSource(path string, blockSize int) (*Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fragment: open source: %w", err)
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("fragment: stat source: %w", err)
	}
	if !info.Mode().IsRegular() {
		_ = file.Close()
		return nil, fmt.Errorf("%w: %s", ErrNotRegular, path)
	}
	bits, err := bitio.NewReader(file, blockSize)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	return &Source{
		Path: path,
		Size: info.Size(),
		file: file,
		bits: bits,
	}, nil
}

// ReadBits reads up to width bits from the source.
func (s *Source) ReadBits(width uint) (uint64, uint, error) {
	if s.file == nil {
		return 0, 0, ErrClosed
	}
	v, n, err := s.bits.ReadBits(width)
	if err != nil {
		return 0, 0, fmt.Errorf("fragment: read source %s: %w", s.Path, err)
	}
	return v, n, nil
}

// Close closes the source. It is safe to call more than once.
func (s *Source) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// Sink is the file being reassembled by join.
type Sink struct {
	Path string

	file *os.File
	bits *bitio.Writer
}

// CreateSink creates the output file exclusively. An existing file yields
// ErrPathConflict.
func CreateSink(path string, blockSize int) (*Sink, error) {
	file, err := createExclusive(path)
	if err != nil {
		return nil, err
	}
	bits, err := bitio.NewWriter(file, blockSize)
	if err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return nil, err
	}
	return &Sink{
		Path: path,
		file: file,
		bits: bits,
	}, nil
}

// WriteBits appends the width low-order bits of value.
func (s *Sink) WriteBits(value uint64, width uint) error {
	if s.file == nil {
		return ErrClosed
	}
	if err := s.bits.WriteBits(value, width); err != nil {
		return fmt.Errorf("fragment: write output %s: %w", s.Path, err)
	}
	return nil
}

// Flush writes buffered output. Output is always a whole number of bytes,
// so a non-zero pending bit count here is reported as an error.
func (s *Sink) Flush() error {
	if s.file == nil {
		return ErrClosed
	}
	pending, err := s.bits.Flush()
	if err != nil {
		return fmt.Errorf("fragment: flush output %s: %w", s.Path, err)
	}
	if pending != 0 {
		return fmt.Errorf("fragment: output %s ended with %d stray bits", s.Path, pending)
	}
	return nil
}

// Close closes the output file without flushing. It is safe to call more
// than once.
func (s *Sink) Close() error {
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
