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
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/jeremyhahn/go-scatter/pkg/adapters/logger"
	"github.com/jeremyhahn/go-scatter/pkg/fragment"
	"github.com/jeremyhahn/go-scatter/pkg/metrics"
	"github.com/jeremyhahn/go-scatter/pkg/validation"
)

// SplitParams describes one split.
type SplitParams struct {
	// InputPath is the regular file to split.
	InputPath string

	// OutputDir receives the fragments. It is created if missing. Defaults
	// to the directory of InputPath.
	OutputDir string

	// Name is the fragment base name; fragment i is "<Name>.<i>.frag".
	// Defaults to the base name of InputPath.
	Name string

	// Fragments is the number of fragments, between fragment.MinFragments
	// and fragment.MaxFragments.
	Fragments int

	// Password may be empty.
	Password []byte
}

// FragmentInfo describes one fragment written by Split.
type FragmentInfo struct {
	Ordinal     int
	Path        string
	ContentBits int64
}

// SplitResult reports the outcome of Split.
type SplitResult struct {
	RunID       string
	SourceBytes int64
	Fragments   []FragmentInfo
	Duration    time.Duration
}

// Paths returns the fragment paths in ordinal order, ready for Join.
func (r *SplitResult) Paths() []string {
	paths := make([]string, len(r.Fragments))
	for i, f := range r.Fragments {
		paths[i] = f.Path
	}
	return paths
}

func (p *SplitParams) normalize() (*SplitParams, error) {
	if p == nil {
		return nil, fmt.Errorf("%w: nil split parameters", ErrInvalidParams)
	}
	if p.InputPath == "" {
		return nil, fmt.Errorf("%w: input path is required", ErrInvalidParams)
	}
	if err := fragment.ValidateCount(p.Fragments); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}

	n := *p
	if n.OutputDir == "" {
		n.OutputDir = filepath.Dir(n.InputPath)
	}
	if n.Name == "" {
		n.Name = filepath.Base(n.InputPath)
	}
	if err := validation.ValidateName(n.Name); err != nil {
		return nil, fmt.Errorf("%w: fragment %w", ErrInvalidParams, err)
	}
	return &n, nil
}

// Split scatters the file at p.InputPath across p.Fragments new fragment
// files. Existing destinations are never overwritten. A failure after the
// fragments are created leaves them in place and unusable.
func (e *Engine) Split(ctx context.Context, p *SplitParams) (result *SplitResult, err error) {
	start := time.Now()
	ctx, runID, log := e.begin(ctx, metrics.OpSplit)
	var bits uint64
	defer func() { e.finish(log, metrics.OpSplit, start, bits, err) }()

	params, err := p.normalize()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Init
	source, err := fragment.OpenSource(params.InputPath, e.blockSize)
	if err != nil {
		return nil, err
	}
	defer source.Close()

	set, err := fragment.Create(params.OutputDir, params.Name, params.Fragments, e.blockSize)
	if err != nil {
		return nil, err
	}
	defer set.Close()
	metrics.AddFragments(metrics.OpSplit, set.Len())

	log.Debug("fragments created",
		logger.String("input", validation.SanitizeForLog(params.InputPath)),
		logger.Int64("bytes", source.Size),
		logger.Strings("fragments", validation.SanitizePaths(set.Paths())))

	// SaltDistributed
	salt, err := e.random.Rand(fragment.SaltSize)
	if err != nil {
		return nil, fmt.Errorf("scatter: generate salt: %w", err)
	}
	if len(salt) != fragment.SaltSize {
		return nil, fmt.Errorf("scatter: generate salt: got %d bytes: %w", len(salt), io.ErrShortBuffer)
	}
	for i, b := range salt {
		if err := set.Fragment(i % set.Len()).WriteByte(b); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sched, err := e.seed(log, params.Password, salt)
	if err != nil {
		return nil, err
	}
	defer sched.Wipe()

	// Interleaving
	total := uint64(source.Size) * 8
	err = e.interleave(ctx, total, set.Len(), sched, func(size uint, target int) error {
		value, n, err := source.ReadBits(size)
		if err != nil {
			return err
		}
		if n != size {
			return fmt.Errorf("scatter: source %s ended early: %w", params.InputPath, io.ErrUnexpectedEOF)
		}
		bits += uint64(n)
		return set.Fragment(target).WriteContent(value, size)
	})
	if err != nil {
		return nil, err
	}
	log.Debug("interleaving complete", logger.Uint64("bits", bits))

	// Finalizing
	if err := set.Finalize(); err != nil {
		return nil, err
	}
	if err := set.Close(); err != nil {
		return nil, fmt.Errorf("scatter: close fragments: %w", err)
	}

	result = &SplitResult{
		RunID:       runID,
		SourceBytes: source.Size,
		Fragments:   make([]FragmentInfo, set.Len()),
		Duration:    time.Since(start),
	}
	for i := range result.Fragments {
		w := set.Fragment(i)
		result.Fragments[i] = FragmentInfo{
			Ordinal:     w.Ordinal,
			Path:        w.Path,
			ContentBits: w.ContentBits(),
		}
	}

	log.Info("split complete",
		logger.String("input", validation.SanitizeForLog(params.InputPath)),
		logger.Int64("bytes", source.Size),
		logger.Int("fragments", set.Len()),
		logger.Duration("elapsed", result.Duration))
	return result, nil
}
