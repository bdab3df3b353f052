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

// Package bitio provides bit-granular reading and writing over files.
//
// Two layers are provided. BlockReader and BlockWriter batch single-byte
// operations into fixed-size bulk reads and writes against an io.Reader or
// io.Writer. Reader and Writer sit on top of them and move between 1 and
// MaxWidth bits at a time, packing bits least-significant-bit first:
//
//	WriteBits(0b101, 3); WriteBits(0b11, 2)  =>  byte 0b000_11_101
//
// Reading and writing are separate types so that a channel opened for
// one direction cannot be used for the other.
package bitio
