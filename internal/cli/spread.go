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
	"github.com/spf13/cobra"

	"github.com/jeremyhahn/go-scatter/pkg/metrics"
	"github.com/jeremyhahn/go-scatter/pkg/scatter"
)

func (a *app) spreadCmd() *cobra.Command {
	var (
		outputDir string
		name      string
		pw        passwordFlags
	)

	cmd := &cobra.Command{
		Use:     "spread <file>",
		Aliases: []string{"split"},
		Short:   "Split a file into fragments",
		Long: `Spread splits a file into fragments named <name>.<i>.frag.

The fragments are written next to the input unless --output-dir is given.
Existing fragments are never overwritten. Remember the fragment order and
the KDF settings: both are needed to join.`,
		Example: `  scatter spread secret.tar -n 4 --password-file pw.txt
  SCATTER_PASSWORD=... scatter spread report.pdf -o /mnt/usb --kdf-profile moderate`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			fragments := a.v.GetInt(keyFragments)
			if fragments == 0 {
				fragments = s.cfg.IO.Fragments
			}

			secret, err := a.readPassword(cmd, &pw, true)
			if err != nil {
				return err
			}
			defer secret.Clear()

			engine, err := s.engine(newProgress(s.log, metrics.OpSplit, progressInterval).Report)
			if err != nil {
				return err
			}
			result, err := engine.Split(ctx, &scatter.SplitParams{
				InputPath: args[0],
				OutputDir: outputDir,
				Name:      name,
				Fragments: fragments,
				Password:  secret.Bytes(),
			})
			if err != nil {
				return err
			}
			return s.printer.PrintSplit(result)
		},
	}

	cmd.Flags().IntP(keyFragments, "n", 0, "number of fragments (default io.fragments, 3)")
	_ = a.v.BindPFlag(keyFragments, cmd.Flags().Lookup(keyFragments))
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory for the fragments (default: the input's directory)")
	cmd.Flags().StringVar(&name, "name", "", "fragment base name (default: the input's file name)")
	pw.register(cmd)
	return cmd
}
