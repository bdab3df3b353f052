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
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate_MakesDirectoryAndFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")

	set, err := Create(dir, "photo.jpg", 3, 0)
	require.NoError(t, err)
	defer func() { _ = set.Close() }()

	assert.Equal(t, 3, set.Len())
	assert.Equal(t, []string{
		filepath.Join(dir, "photo.jpg.0.frag"),
		filepath.Join(dir, "photo.jpg.1.frag"),
		filepath.Join(dir, "photo.jpg.2.frag"),
	}, set.Paths())

	for i, path := range set.Paths() {
		assert.Equal(t, i, set.Fragment(i).Ordinal)
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(defaultFilePerms), info.Mode().Perm())
	}
}

func TestCreate_PathConflict(t *testing.T) {
	dir := t.TempDir()
	existing := Path(dir, "data", 1)
	require.NoError(t, os.WriteFile(existing, []byte("previous run"), 0600))

	_, err := Create(dir, "data", 3, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPathConflict)
	assert.ErrorIs(t, err, fs.ErrExist)

	// nothing was created and the existing file is untouched
	_, err = os.Stat(Path(dir, "data", 0))
	assert.ErrorIs(t, err, fs.ErrNotExist)
	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, []byte("previous run"), data)
}

func TestCreate_InvalidArguments(t *testing.T) {
	_, err := Create(t.TempDir(), "data", 1, 0)
	assert.ErrorIs(t, err, ErrInvalidCount)

	_, err = Create(t.TempDir(), "", 2, 0)
	assert.Error(t, err)
}

func TestWriteSet_FinalizeAndOpen(t *testing.T) {
	dir := t.TempDir()
	set, err := Create(dir, "f", 2, 0)
	require.NoError(t, err)

	require.NoError(t, set.Fragment(0).WriteByte(0xAA))
	require.NoError(t, set.Fragment(0).WriteContent(0b10110, 5))
	require.NoError(t, set.Fragment(1).WriteByte(0xBB))
	require.NoError(t, set.Fragment(1).WriteContent(0x6F, 8))
	assert.Equal(t, int64(5), set.Fragment(0).ContentBits())
	assert.Equal(t, int64(8), set.Fragment(1).ContentBits())

	require.NoError(t, set.Finalize())
	require.NoError(t, set.Close())
	require.NoError(t, set.Close())

	data0, err := os.ReadFile(Path(dir, "f", 0))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xAA, 0b00010110, 5}, data0)

	data1, err := os.ReadFile(Path(dir, "f", 1))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xBB, 0x6F, 0}, data1)

	rs, err := Open(set.Paths(), 0)
	require.NoError(t, err)
	defer func() { _ = rs.Close() }()

	assert.Equal(t, []int64{3, 3}, rs.Sizes())
	assert.Equal(t, []byte{5, 0}, rs.Tails())

	c, err := rs.Fragment(0).ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte(0xAA), c)

	v, n, err := rs.Fragment(0).ReadBits(5)
	require.NoError(t, err)
	assert.Equal(t, uint(5), n)
	assert.Equal(t, uint64(0b10110), v)
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good")
	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(good, []byte{1, 2, 0}, 0600))
	require.NoError(t, os.WriteFile(empty, nil, 0600))

	_, err := Open([]string{good}, 0)
	assert.ErrorIs(t, err, ErrInvalidCount)

	_, err = Open([]string{good, filepath.Join(dir, "missing")}, 0)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = Open([]string{good, empty}, 0)
	assert.ErrorIs(t, err, ErrFragmentCorruption)

	_, err = Open([]string{good, dir}, 0)
	assert.Error(t, err)
}

func TestReader_ReadByteShort(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	require.NoError(t, os.WriteFile(a, []byte{0}, 0600))
	require.NoError(t, os.WriteFile(b, []byte{0}, 0600))

	rs, err := Open([]string{a, b}, 0)
	require.NoError(t, err)
	defer func() { _ = rs.Close() }()

	// the tail byte itself is readable, the next byte is not
	_, err = rs.Fragment(0).ReadByte()
	require.NoError(t, err)
	_, err = rs.Fragment(0).ReadByte()
	assert.ErrorIs(t, err, ErrFragmentCorruption)
}

func TestSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "in")
	require.NoError(t, os.WriteFile(path, []byte{0x4C, 0x6F}, 0600))

	src, err := OpenSource(path, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), src.Size)

	v, n, err := src.ReadBits(8)
	require.NoError(t, err)
	assert.Equal(t, uint(8), n)
	assert.Equal(t, uint64(0x4C), v)

	require.NoError(t, src.Close())
	require.NoError(t, src.Close())
	_, _, err = src.ReadBits(8)
	assert.ErrorIs(t, err, ErrClosed)

	_, err = OpenSource(dir, 0)
	assert.ErrorIs(t, err, ErrNotRegular)

	_, err = OpenSource(filepath.Join(dir, "missing"), 0)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestSink(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out")

	sink, err := CreateSink(path, 0)
	require.NoError(t, err)
	require.NoError(t, sink.WriteBits(0x6F4C, 16))
	require.NoError(t, sink.Flush())
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x4C, 0x6F}, data)

	_, err = CreateSink(path, 0)
	assert.ErrorIs(t, err, ErrPathConflict)
	assert.ErrorIs(t, err, fs.ErrExist)
}

func TestSink_StrayBits(t *testing.T) {
	sink, err := CreateSink(filepath.Join(t.TempDir(), "out"), 0)
	require.NoError(t, err)
	defer func() { _ = sink.Close() }()

	require.NoError(t, sink.WriteBits(1, 3))
	assert.Error(t, sink.Flush())
}
