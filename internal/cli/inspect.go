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

package cli

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/zeebo/blake3"

	"github.com/jeremyhahn/go-scatter/pkg/adapters/logger"
	"github.com/jeremyhahn/go-scatter/pkg/correlation"
	"github.com/jeremyhahn/go-scatter/pkg/fragment"
	"github.com/jeremyhahn/go-scatter/pkg/metrics"
	"github.com/jeremyhahn/go-scatter/pkg/scatter"
)

// FragmentReport describes one fragment on disk.
type FragmentReport struct {
	Ordinal     int    `json:"ordinal"`
	Path        string `json:"path"`
	Length      int64  `json:"length"`
	SaltBytes   int    `json:"salt_bytes"`
	Tail        byte   `json:"tail"`
	ContentBits int64  `json:"content_bits"`
	PaddingBits int64  `json:"padding_bits"`
	BLAKE3      string `json:"blake3"`
}

// InspectReport describes a fragment set without the password.
type InspectReport struct {
	Fragments     []FragmentReport `json:"fragments"`
	RecoveredSize int64            `json:"recovered_size"`
	Valid         bool             `json:"valid"`
	Problem       string           `json:"problem,omitempty"`
}

func (a *app) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <fragment> <fragment>...",
		Short: "Describe a fragment set without joining it",
		Long: `Inspect reads the size and tail byte of every fragment, derives the
layout of each one and the size of the original file, and prints a BLAKE3
digest per fragment so copies can be compared. No password is needed.
Fragments must be listed in split order.`,
		Args: cobra.MinimumNArgs(fragment.MinFragments),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.open(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			_, id := correlation.Ensure(cmd.Context())
			log := s.log.With(
				logger.String(correlation.LogField, id),
				logger.String("operation", metrics.OpInspect))

			start := time.Now()
			report, err := inspect(args, s.cfg.IO.BufferSize)
			status := metrics.StatusSuccess
			if err == nil && !report.Valid {
				err = fmt.Errorf("%w: %s", scatter.ErrFragmentCorruption, report.Problem)
			}
			if err != nil {
				status = metrics.StatusError
				metrics.RecordError(metrics.OpInspect, scatter.ErrorType(err))
			}
			metrics.RecordOperation(metrics.OpInspect, status, time.Since(start).Seconds())

			if report != nil {
				if printErr := s.printer.PrintInspect(report); printErr != nil {
					return printErr
				}
			}
			if err != nil {
				log.Error("inspect failed", logger.Error(err))
				return err
			}
			log.Info("inspect complete",
				logger.Int("fragments", len(report.Fragments)),
				logger.Int64("recovered_size", report.RecoveredSize))
			return nil
		},
	}
}

// inspect builds a report for the fragments at paths. It fails only when a
// fragment cannot be read; layout problems are reported in the result.
func inspect(paths []string, blockSize int) (*InspectReport, error) {
	set, err := fragment.Open(paths, blockSize)
	if err != nil {
		return nil, err
	}
	defer func() { _ = set.Close() }()

	report := &InspectReport{Fragments: make([]FragmentReport, len(paths))}
	sizes, tails := set.Sizes(), set.Tails()
	for i, path := range paths {
		digest, err := digestFile(path)
		if err != nil {
			return nil, err
		}
		report.Fragments[i] = FragmentReport{
			Ordinal:   i,
			Path:      path,
			Length:    sizes[i],
			SaltBytes: fragment.SaltShare(i, len(paths)),
			Tail:      tails[i],
			BLAKE3:    digest,
		}
	}

	layouts, err := set.Layouts()
	if err != nil {
		report.Problem = err.Error()
		return report, nil
	}
	for i, l := range layouts {
		report.Fragments[i].ContentBits = l.ContentBits
		report.Fragments[i].PaddingBits = l.PaddingBits()
	}
	size, err := set.RecoverSize()
	if err != nil {
		report.Problem = err.Error()
		return report, nil
	}
	report.RecoveredSize = size
	report.Valid = true
	return report, nil
}

// digestFile returns the hex BLAKE3-256 digest of the file at path.
func digestFile(path string) (string, error) {
	// #nosec G304 - fragment paths are provided by the user
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
