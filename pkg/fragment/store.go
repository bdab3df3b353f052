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
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jeremyhahn/go-scatter/pkg/bitio"
)

const (
	// Default directory permissions (owner rwx only)
	defaultDirPerms = 0700

	// Fragment and output file permissions (owner rw only)
	defaultFilePerms = 0600
)

// Path returns the path of the fragment with the given ordinal.
func Path(dir, name string, ordinal int) string {
	return filepath.Join(dir, fmt.Sprintf("%s.%d.frag", name, ordinal))
}

// Writer is a fragment opened for writing during split.
type Writer struct {
	Ordinal int
	Path    string

	file        *os.File
	bits        *bitio.Writer
	contentBits int64
}

// WriteBits appends the width low-order bits of value to the fragment.
func (w *Writer) WriteBits(value uint64, width uint) error {
	if err := w.bits.WriteBits(value, width); err != nil {
		return fmt.Errorf("fragment %d: write %s: %w", w.Ordinal, w.Path, err)
	}
	return nil
}

// WriteByte writes one byte outside the content accounting (salt).
func (w *Writer) WriteByte(c byte) error {
	return w.WriteBits(uint64(c), 8)
}

// WriteContent appends content bits and counts them toward ContentBits.
func (w *Writer) WriteContent(value uint64, width uint) error {
	if err := w.WriteBits(value, width); err != nil {
		return err
	}
	w.contentBits += int64(width)
	return nil
}

// ContentBits returns the number of content bits written so far.
func (w *Writer) ContentBits() int64 {
	return w.contentBits
}

// finalize pads the last content byte, then appends the tail byte that
// records how many of its bits are genuine.
func (w *Writer) finalize() error {
	pending, err := w.bits.Flush()
	if err != nil {
		return fmt.Errorf("fragment %d: flush %s: %w", w.Ordinal, w.Path, err)
	}
	if err := w.bits.WriteByte(byte(pending)); err != nil {
		return fmt.Errorf("fragment %d: write tail %s: %w", w.Ordinal, w.Path, err)
	}
	if _, err := w.bits.Flush(); err != nil {
		return fmt.Errorf("fragment %d: flush %s: %w", w.Ordinal, w.Path, err)
	}
	return nil
}

func (w *Writer) close() error {
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// WriteSet is the ordered set of fragments produced by one split.
type WriteSet struct {
	fragments []*Writer
}

// Create creates n fragment files named Path(dir, name, i) for ordinals
// 0..n-1. dir is created if missing. If any destination already exists,
// ErrPathConflict is returned before any file is created. Files created
// by a failed call are removed.
func Create(dir, name string, n, blockSize int) (*WriteSet, error) {
	if err := ValidateCount(n); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, fmt.Errorf("fragment: name cannot be empty")
	}

	paths := make([]string, n)
	for i := range paths {
		paths[i] = Path(dir, name, i)
		if _, err := os.Lstat(paths[i]); err == nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrPathConflict, paths[i], fs.ErrExist)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("fragment: stat %s: %w", paths[i], err)
		}
	}

	if err := os.MkdirAll(dir, defaultDirPerms); err != nil {
		return nil, fmt.Errorf("fragment: failed to create directory %s: %w", dir, err)
	}

	set := &WriteSet{fragments: make([]*Writer, 0, n)}
	for i, path := range paths {
		w, err := createWriter(i, path, blockSize)
		if err != nil {
			set.discard()
			return nil, err
		}
		set.fragments = append(set.fragments, w)
	}
	return set, nil
}

func createWriter(ordinal int, path string, blockSize int) (*Writer, error) {
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
	return &Writer{
		Ordinal: ordinal,
		Path:    path,
		file:    file,
		bits:    bits,
	}, nil
}

func createExclusive(path string) (*os.File, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, defaultFilePerms)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %w", ErrPathConflict, err)
		}
		return nil, fmt.Errorf("fragment: create %s: %w", path, err)
	}
	return file, nil
}

// discard closes and removes every fragment this set created.
func (s *WriteSet) discard() {
	for _, w := range s.fragments {
		_ = w.close()
		_ = os.Remove(w.Path)
	}
	s.fragments = nil
}

// Len returns the number of fragments.
func (s *WriteSet) Len() int {
	return len(s.fragments)
}

// Fragment returns the fragment with the given ordinal.
func (s *WriteSet) Fragment(ordinal int) *Writer {
	return s.fragments[ordinal]
}

// Paths returns fragment paths in ordinal order.
func (s *WriteSet) Paths() []string {
	paths := make([]string, len(s.fragments))
	for i, w := range s.fragments {
		paths[i] = w.Path
	}
	return paths
}

// Finalize pads and terminates every fragment with its tail byte.
func (s *WriteSet) Finalize() error {
	for _, w := range s.fragments {
		if err := w.finalize(); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every fragment file. It is safe to call more than once.
func (s *WriteSet) Close() error {
	var errs []error
	for _, w := range s.fragments {
		if err := w.close(); err != nil {
			errs = append(errs, fmt.Errorf("fragment %d: close %s: %w", w.Ordinal, w.Path, err))
		}
	}
	return errors.Join(errs...)
}

// Reader is a fragment opened for reading during join.
type Reader struct {
	Ordinal int
	Path    string
	Size    int64
	Tail    byte

	file *os.File
	bits *bitio.Reader
}

// ReadBits reads up to width bits from the fragment. n < width means the
// fragment has no more bytes.
func (r *Reader) ReadBits(width uint) (value uint64, n uint, err error) {
	value, n, err = r.bits.ReadBits(width)
	if err != nil {
		return 0, 0, fmt.Errorf("fragment %d: read %s: %w", r.Ordinal, r.Path, err)
	}
	return value, n, nil
}

// ReadByte reads one full byte, failing with ErrFragmentCorruption if the
// fragment ends first.
func (r *Reader) ReadByte() (byte, error) {
	v, n, err := r.ReadBits(8)
	if err != nil {
		return 0, err
	}
	if n != 8 {
		return 0, fmt.Errorf("%w: fragment %d (%s) ended after %d of 8 bits",
			ErrFragmentCorruption, r.Ordinal, r.Path, n)
	}
	return byte(v), nil
}

func (r *Reader) close() error {
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// ReadSet is an ordered set of fragments opened for join.
type ReadSet struct {
	fragments []*Reader
}

// Open opens the fragments at paths; ordinal is list position. Each
// fragment's byte length and tail byte are read up front. Nothing records
// which file holds which ordinal, so paths must be given in split order.
func Open(paths []string, blockSize int) (*ReadSet, error) {
	if err := ValidateCount(len(paths)); err != nil {
		return nil, err
	}

	set := &ReadSet{fragments: make([]*Reader, 0, len(paths))}
	for i, path := range paths {
		r, err := openReader(i, path, blockSize)
		if err != nil {
			_ = set.Close()
			return nil, err
		}
		set.fragments = append(set.fragments, r)
	}
	return set, nil
}

func openReader(ordinal int, path string, blockSize int) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fragment %d: open %s: %w", ordinal, path, err)
	}
	size, tail, err := readTrailer(file)
	if err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("fragment %d: %s: %w", ordinal, path, err)
	}
	bits, err := bitio.NewReader(file, blockSize)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	return &Reader{
		Ordinal: ordinal,
		Path:    path,
		Size:    size,
		Tail:    tail,
		file:    file,
		bits:    bits,
	}, nil
}

// readTrailer returns the file size and its last byte using a positional
// read, leaving the sequential offset at zero.
func readTrailer(file *os.File) (int64, byte, error) {
	info, err := file.Stat()
	if err != nil {
		return 0, 0, err
	}
	if !info.Mode().IsRegular() {
		return 0, 0, ErrNotRegular
	}
	size := info.Size()
	if size < TailSize {
		return 0, 0, fmt.Errorf("%w: empty file has no tail byte", ErrFragmentCorruption)
	}
	var tail [TailSize]byte
	if _, err := file.ReadAt(tail[:], size-TailSize); err != nil {
		return 0, 0, err
	}
	return size, tail[0], nil
}

// Len returns the number of fragments.
func (s *ReadSet) Len() int {
	return len(s.fragments)
}

// Fragment returns the fragment with the given ordinal.
func (s *ReadSet) Fragment(ordinal int) *Reader {
	return s.fragments[ordinal]
}

// Sizes returns byte lengths in ordinal order.
func (s *ReadSet) Sizes() []int64 {
	sizes := make([]int64, len(s.fragments))
	for i, r := range s.fragments {
		sizes[i] = r.Size
	}
	return sizes
}

// Tails returns tail bytes in ordinal order.
func (s *ReadSet) Tails() []byte {
	tails := make([]byte, len(s.fragments))
	for i, r := range s.fragments {
		tails[i] = r.Tail
	}
	return tails
}

// Layouts describes every fragment in the set.
func (s *ReadSet) Layouts() ([]Layout, error) {
	return Describe(s.Sizes(), s.Tails())
}

// RecoverSize returns the original file's byte length.
func (s *ReadSet) RecoverSize() (int64, error) {
	return RecoverSize(s.Sizes(), s.Tails())
}

// Close closes every fragment file. It is safe to call more than once.
func (s *ReadSet) Close() error {
	var errs []error
	for _, r := range s.fragments {
		if err := r.close(); err != nil {
			errs = append(errs, fmt.Errorf("fragment %d: close %s: %w", r.Ordinal, r.Path, err))
		}
	}
	return errors.Join(errs...)
}
