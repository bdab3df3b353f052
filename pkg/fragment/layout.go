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

import "fmt"

const (
	// SaltSize is the number of salt bytes spread across a fragment set.
	SaltSize = 16

	// TailSize is the size of the per-fragment trailer in bytes.
	TailSize = 1

	// MaxTail is the largest valid tail byte value.
	MaxTail = 7

	// MinFragments is the smallest fragment set that can be created.
	MinFragments = 2

	// MaxFragments bounds the number of simultaneously open fragment files.
	MaxFragments = 1024
)

// Layout describes how one fragment's bytes divide into salt share,
// content and tail byte.
type Layout struct {
	Ordinal      int
	Length       int64
	SaltBytes    int
	Tail         byte
	ContentBytes int64
	ContentBits  int64
}

// PaddingBits returns the number of zero bits appended to the final
// content byte.
func (l Layout) PaddingBits() int64 {
	return l.ContentBytes*8 - l.ContentBits
}

// ValidateCount checks that n is an acceptable fragment count.
func ValidateCount(n int) error {
	if n < MinFragments || n > MaxFragments {
		return fmt.Errorf("%w: %d (allowed %d..%d)", ErrInvalidCount, n, MinFragments, MaxFragments)
	}
	return nil
}

// SaltShare returns how many salt bytes are routed to the fragment with the
// given ordinal when salt byte i goes to fragment i mod n.
func SaltShare(ordinal, n int) int {
	share := SaltSize / n
	if ordinal < SaltSize%n {
		share++
	}
	return share
}

// Describe derives the layout of every fragment from its byte length and
// tail byte. lengths and tails are indexed by ordinal.
func Describe(lengths []int64, tails []byte) ([]Layout, error) {
	n := len(lengths)
	if err := ValidateCount(n); err != nil {
		return nil, err
	}
	if len(tails) != n {
		return nil, fmt.Errorf("fragment: %d lengths but %d tails", n, len(tails))
	}

	layouts := make([]Layout, n)
	for i := range lengths {
		share := SaltShare(i, n)
		content := lengths[i] - int64(share) - TailSize
		if content < 0 {
			return nil, fmt.Errorf("%w: fragment %d is %d bytes, shorter than its %d byte header and trailer",
				ErrFragmentCorruption, i, lengths[i], share+TailSize)
		}
		if tails[i] > MaxTail {
			return nil, fmt.Errorf("%w: fragment %d has tail byte %d", ErrFragmentCorruption, i, tails[i])
		}
		if content == 0 && tails[i] != 0 {
			return nil, fmt.Errorf("%w: fragment %d has tail byte %d but no content",
				ErrFragmentCorruption, i, tails[i])
		}

		bits := content * 8
		if tails[i] != 0 {
			bits -= int64(8 - tails[i])
		}
		layouts[i] = Layout{
			Ordinal:      i,
			Length:       lengths[i],
			SaltBytes:    share,
			Tail:         tails[i],
			ContentBytes: content,
			ContentBits:  bits,
		}
	}
	return layouts, nil
}

// RecoverSize returns the byte length of the original file from the byte
// lengths and tail bytes of its fragments:
//
//	B     = sum(L) - SaltSize - n
//	pad   = sum((8 - t) mod 8)
//	total = B - pad/8
//
// pad must be a multiple of 8 since the original is a whole number of
// bytes.
func RecoverSize(lengths []int64, tails []byte) (int64, error) {
	layouts, err := Describe(lengths, tails)
	if err != nil {
		return 0, err
	}
	var bits int64
	for _, l := range layouts {
		bits += l.ContentBits
	}
	if bits%8 != 0 {
		return 0, fmt.Errorf("%w: content adds up to %d bits, not a whole number of bytes",
			ErrFragmentCorruption, bits)
	}
	return bits / 8, nil
}
