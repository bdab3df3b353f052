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

package scatter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jeremyhahn/go-scatter/pkg/adapters/logger"
	"github.com/jeremyhahn/go-scatter/pkg/fragment"
	"github.com/jeremyhahn/go-scatter/pkg/metrics"
	"github.com/jeremyhahn/go-scatter/pkg/validation"
)

// JoinParams describes one join.
type JoinParams struct {
	// OutputPath receives the reassembled file. It must not exist.
	OutputPath string

	// FragmentPaths lists the fragments in split order.
	FragmentPaths []string

	// Password may be empty.
	Password []byte
}

// JoinResult reports the outcome of Join.
type JoinResult struct {
	RunID      string
	OutputPath string
	Size       int64
	Fragments  int
	Duration   time.Duration
}

func (p *JoinParams) validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil join parameters", ErrInvalidParams)
	}
	if p.OutputPath == "" {
		return fmt.Errorf("%w: output path is required", ErrInvalidParams)
	}
	if err := fragment.ValidateCount(len(p.FragmentPaths)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}
	for i, path := range p.FragmentPaths {
		if path == "" {
			return fmt.Errorf("%w: fragment %d has an empty path", ErrInvalidParams, i)
		}
	}
	return nil
}

// Join reassembles the fragments at p.FragmentPaths into p.OutputPath. The
// output is created exclusively and removed again if the join fails.
func (e *Engine) Join(ctx context.Context, p *JoinParams) (result *JoinResult, err error) {
	start := time.Now()
	ctx, runID, log := e.begin(ctx, metrics.OpJoin)
	var bits uint64
	defer func() { e.finish(log, metrics.OpJoin, start, bits, err) }()

	if err := p.validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Init
	sink, err := fragment.CreateSink(p.OutputPath, e.blockSize)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = sink.Close()
		if err != nil {
			if rmErr := os.Remove(p.OutputPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				log.Warn("could not remove partial output", logger.Error(rmErr))
			}
		}
	}()

	set, err := fragment.Open(p.FragmentPaths, e.blockSize)
	if err != nil {
		return nil, err
	}
	defer set.Close()
	metrics.AddFragments(metrics.OpJoin, set.Len())

	// SizeRecovery
	size, err := set.RecoverSize()
	if err != nil {
		return nil, err
	}
	log.Debug("size recovered",
		logger.Strings("paths", validation.SanitizePaths(p.FragmentPaths)),
		logger.Int64("bytes", size),
		logger.Int("fragments", set.Len()))

	// SaltRecovery
	salt := make([]byte, fragment.SaltSize)
	for i := range salt {
		b, err := set.Fragment(i % set.Len()).ReadByte()
		if err != nil {
			return nil, err
		}
		salt[i] = b
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sched, err := e.seed(log, p.Password, salt)
	if err != nil {
		return nil, err
	}
	defer sched.Wipe()

	// Extracting
	total := uint64(size) * 8
	err = e.interleave(ctx, total, set.Len(), sched, func(width uint, target int) error {
		r := set.Fragment(target)
		value, n, err := r.ReadBits(width)
		if err != nil {
			return err
		}
		if n != width {
			return fmt.Errorf("%w: fragment %d (%s) exhausted with %d bits still to extract",
				ErrFragmentCorruption, r.Ordinal, r.Path, total-bits)
		}
		bits += uint64(n)
		return sink.WriteBits(value, width)
	})
	if err != nil {
		return nil, err
	}

	if err := sink.Flush(); err != nil {
		return nil, err
	}
	if err := sink.Close(); err != nil {
		return nil, fmt.Errorf("scatter: close output: %w", err)
	}

	result = &JoinResult{
		RunID:      runID,
		OutputPath: p.OutputPath,
		Size:       size,
		Fragments:  set.Len(),
		Duration:   time.Since(start),
	}
	log.Info("join complete",
		logger.String("output", validation.SanitizeForLog(p.OutputPath)),
		logger.Int64("bytes", size),
		logger.Int("fragments", set.Len()),
		logger.Duration("elapsed", result.Duration))
	return result, nil
}
