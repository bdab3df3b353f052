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

// Package fragment manages the files involved in a split or join: the
// source or output file and the ordered set of fragment files.
//
// Every fragment has the same byte layout:
//
//	salt share || content bits, LSB-first, zero-padded || tail byte
//
// Salt byte i of SaltSize is stored in fragment i mod n, so fragments with
// ordinal below SaltSize%n carry one extra salt byte. The tail byte (0-7)
// records how many bits of the final content byte are genuine, which lets
// RecoverSize compute the original length from the fragments alone.
package fragment
