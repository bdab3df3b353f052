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
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/jeremyhahn/go-scatter/internal/config"
	"github.com/jeremyhahn/go-scatter/pkg/adapters/logger"
)

// newLogger builds the command logger. The auto format renders text when w
// is a terminal and JSON otherwise, so piped output stays machine readable.
func newLogger(cfg config.LoggingConfig, w io.Writer) (logger.Logger, error) {
	level, err := logger.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var format logger.Format
	switch strings.ToLower(cfg.Format) {
	case config.FormatText:
		format = logger.FormatText
	case config.FormatJSON:
		format = logger.FormatJSON
	default:
		format = logger.FormatJSON
		if isTerminal(w) {
			format = logger.FormatText
		}
	}

	return logger.NewSlogAdapter(&logger.SlogConfig{
		Level:  level,
		Format: format,
		Writer: w,
	}), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
