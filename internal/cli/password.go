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

	"github.com/jeremyhahn/go-scatter/internal/password"
)

// passwordFlags are the password sources shared by spread and join.
type passwordFlags struct {
	value string
	file  string
}

func (p *passwordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.value, "password", "",
		"password (visible to other users; prefer --password-file or "+password.EnvVar+")")
	cmd.Flags().StringVar(&p.file, "password-file", "",
		"read the password from a file, or - for one line of stdin")
}

// readPassword resolves the password from the flags, the environment or an
// interactive prompt. confirm asks twice when prompting.
func (a *app) readPassword(cmd *cobra.Command, p *passwordFlags, confirm bool) (*password.ClearPassword, error) {
	reader := &password.Reader{
		Stdin:  a.stdin,
		Stderr: a.stderr,
	}
	return reader.Read(password.Options{
		Value:    p.value,
		ValueSet: cmd.Flags().Changed("password"),
		File:     p.file,
		Confirm:  confirm,
	})
}
