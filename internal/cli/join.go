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

	"github.com/jeremyhahn/go-scatter/pkg/fragment"
	"github.com/jeremyhahn/go-scatter/pkg/metrics"
	"github.com/jeremyhahn/go-scatter/pkg/scatter"
)

func (a *app) joinCmd() *cobra.Command {
	var (
		output string
		pw     passwordFlags
	)

	cmd := &cobra.Command{
		Use:   "join <fragment> <fragment>...",
		Short: "Reassemble a file from its fragments",
		Long: `Join rebuilds the original file from every fragment of a split.

Fragments must be listed in split order (ordinal 0 first) and the password
and KDF settings must match the split. The output file must not exist; it
is removed again if the join fails. A wrong password or order usually fails
with a corruption error, but is not guaranteed to be detected.`,
		Example: `  scatter join secret.tar.0.frag secret.tar.1.frag secret.tar.2.frag -o secret.tar`,
		Args:    cobra.MinimumNArgs(fragment.MinFragments),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := a.open(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			secret, err := a.readPassword(cmd, &pw, false)
			if err != nil {
				return err
			}
			defer secret.Clear()

			engine, err := s.engine(newProgress(s.log, metrics.OpJoin, progressInterval).Report)
			if err != nil {
				return err
			}
			result, err := engine.Join(ctx, &scatter.JoinParams{
				OutputPath:    output,
				FragmentPaths: args,
				Password:      secret.Bytes(),
			})
			if err != nil {
				return err
			}
			return s.printer.PrintJoin(result)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "path of the reassembled file")
	_ = cmd.MarkFlagRequired("output")
	pw.register(cmd)
	return cmd
}
