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
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jeremyhahn/go-scatter/internal/config"
	"github.com/jeremyhahn/go-scatter/pkg/adapters/logger"
	"github.com/jeremyhahn/go-scatter/pkg/metrics"
	"github.com/jeremyhahn/go-scatter/pkg/scatter"
)

// collectorInterval is the resource sampling period while a textfile
// export is configured.
const collectorInterval = 5 * time.Second

// app carries the state shared by every command of one invocation.
type app struct {
	settings *Config
	v        *viper.Viper
	stdin    *os.File
	stdout   io.Writer
	stderr   io.Writer
}

func newApp(stdin *os.File, stdout, stderr io.Writer) *app {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &app{
		settings: NewConfig(),
		v:        v,
		stdin:    stdin,
		stdout:   stdout,
		stderr:   stderr,
	}
}

// Execute runs the root command until it completes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stdin, os.Stdout, os.Stderr)
	if err := a.rootCmd().ExecuteContext(ctx); err != nil {
		a.handleError(err)
		return err
	}
	return nil
}

// rootCmd builds the command tree.
func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scatter",
		Short: "scatter - split files into password-scheduled bit fragments",
		Long: `scatter spreads the bits of a file across several fragment files.

A password and a random per-split salt drive a deterministic schedule that
decides how many bits move next and which fragment receives them. Joining
replays the same schedule, so it needs every fragment, in split order, and
the same password and KDF settings.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.settings.resolve(a.v)
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.String(keyConfig, "", "config file (YAML)")
	flags.String(keyOutputFormat, string(OutputFormatText), "output format (text, json)")
	flags.BoolP(keyVerbose, "v", false, "debug logging")
	flags.String(keyLogFormat, "", "log format (auto, text, json)")
	flags.String(keyKDFProfile, "", "KDF cost profile (interactive, moderate, sensitive)")
	flags.String(keyMetricsTextfile, "", "write Prometheus metrics to this file on exit")
	_ = a.v.BindPFlags(flags)

	cmd.AddCommand(a.versionCmd())
	cmd.AddCommand(a.spreadCmd())
	cmd.AddCommand(a.joinCmd())
	cmd.AddCommand(a.inspectCmd())
	return cmd
}

// handleError prints err on stderr in the selected output format.
func (a *app) handleError(err error) {
	printer := NewPrinter(a.settings.OutputFormat, a.stderr)
	if printErr := printer.PrintError(err); printErr != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
	}
}

// session is the per-command runtime: configuration, logger and metrics.
type session struct {
	cfg       *config.Config
	log       logger.Logger
	printer   *Printer
	collector *metrics.ResourceCollector
}

// open loads configuration and prepares logging and metrics for one
// command. The caller must close the session.
func (a *app) open(ctx context.Context) (*session, error) {
	cfg, err := a.settings.Load()
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg.Logging, a.stderr)
	if err != nil {
		return nil, err
	}

	s := &session{
		cfg:     cfg,
		log:     log,
		printer: NewPrinter(a.settings.OutputFormat, a.stdout),
	}
	if cfg.Metrics.Enabled {
		metrics.Enable()
		if cfg.Metrics.Textfile != "" {
			s.collector = metrics.StartResourceCollector(ctx, collectorInterval)
		}
	} else {
		metrics.Disable()
	}

	log.Debug("configuration loaded",
		logger.String("config", a.settings.ConfigFile),
		logger.String("kdf_profile", cfg.KDF.Profile),
		logger.Int("buffer_size", cfg.IO.BufferSize),
		logger.Bool("metrics", cfg.Metrics.Enabled))
	return s, nil
}

// engine builds a scatter engine from the session configuration.
func (s *session) engine(progress scatter.ProgressFunc) (*scatter.Engine, error) {
	return scatter.New(&scatter.Config{
		Logger:    s.log,
		KDFParams: s.cfg.KDFParams(),
		BlockSize: s.cfg.IO.BufferSize,
		Progress:  progress,
	})
}

// close stops resource sampling and exports metrics.
func (s *session) close() {
	if s.collector != nil {
		s.collector.Stop()
	}
	if !s.cfg.Metrics.Enabled {
		return
	}
	if err := metrics.WriteTextfile(s.cfg.Metrics.Textfile); err != nil {
		s.log.Warn("failed to export metrics", logger.Error(err))
	}
}
