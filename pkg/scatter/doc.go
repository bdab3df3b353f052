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

// Package scatter splits a file into N fragment files and joins them back.
//
// Every bit of the source is routed to one fragment by a deterministic
// schedule seeded from a key derived from the password and a random salt.
// Each fragment is laid out as
//
//	salt share || LSB-first content, zero padded || tail byte
//
// where the salt is spread round robin (byte i to fragment i mod N) and the
// tail byte counts the genuine bits in the byte before it. Join recovers the
// original size from fragment lengths and tails alone; no metadata file is
// written.
//
// Fragment order is not recorded and must be supplied by the caller. A wrong
// password or a permuted fragment list is not detected: join either produces
// output of the recovered size that differs from the original, or fails with
// ErrFragmentCorruption when the wrong schedule drains a fragment early.
//
//	engine, err := scatter.New(&scatter.Config{Logger: log})
//	res, err := engine.Split(ctx, &scatter.SplitParams{
//	    InputPath: "secret.pdf",
//	    Fragments: 3,
//	    Password:  pw,
//	})
//	_, err = engine.Join(ctx, &scatter.JoinParams{
//	    OutputPath:    "restored.pdf",
//	    FragmentPaths: res.Paths(),
//	    Password:      pw,
//	})
package scatter
