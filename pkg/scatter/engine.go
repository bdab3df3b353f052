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
	"time"

	"github.com/jeremyhahn/go-scatter/pkg/adapters/kdf"
	"github.com/jeremyhahn/go-scatter/pkg/adapters/logger"
	"github.com/jeremyhahn/go-scatter/pkg/bitio"
	"github.com/jeremyhahn/go-scatter/pkg/correlation"
	"github.com/jeremyhahn/go-scatter/pkg/crypto/rand"
	"github.com/jeremyhahn/go-scatter/pkg/fragment"
	"github.com/jeremyhahn/go-scatter/pkg/metrics"
	"github.com/jeremyhahn/go-scatter/pkg/schedule"
)

// checkInterval is the number of interleaving steps between context checks
// and progress callbacks.
const checkInterval = 4096

// ProgressFunc receives the number of content bits moved so far and the
// total. It is called from the goroutine running Split or Join.
type ProgressFunc func(done, total uint64)

// Config configures an Engine. The zero value is usable.
type Config struct {
	// Logger receives phase transitions at debug and completions at info.
	// Defaults to logger.Discard.
	Logger logger.Logger

	// KDF derives the schedule key. Defaults to Argon2id.
	KDF kdf.KDFAdapter

	// KDFParams overrides the cost parameters. The salt field is ignored.
	// When nil, Profile is used.
	KDFParams *kdf.KDFParams

	// Profile selects cost parameters when KDFParams is nil. Defaults to
	// kdf.DefaultProfile.
	Profile kdf.Profile

	// Random supplies salts. Defaults to the software resolver.
	Random rand.Resolver

	// BlockSize is the I/O buffer size per file. Defaults to 4096.
	BlockSize int

	// Progress is invoked every few thousand steps and once at completion.
	Progress ProgressFunc

	// Schedule builds the interleaving schedule from the derived key.
	// Defaults to schedule.NewChaChaSchedule.
	Schedule schedule.Factory
}

// Engine runs split and join operations. An Engine holds no per-run state
// and may be used for any number of sequential or concurrent runs.
type Engine struct {
	log       logger.Logger
	kdf       kdf.KDFAdapter
	params    *kdf.KDFParams
	random    rand.Resolver
	blockSize int
	progress  ProgressFunc
	schedule  schedule.Factory
}

// New creates an Engine, filling defaults and validating the KDF parameters.
func New(config *Config) (*Engine, error) {
	if config == nil {
		config = &Config{}
	}

	e := &Engine{
		log:       config.Logger,
		kdf:       config.KDF,
		params:    config.KDFParams,
		random:    config.Random,
		blockSize: config.BlockSize,
		progress:  config.Progress,
		schedule:  config.Schedule,
	}
	if e.log == nil {
		e.log = logger.Discard
	}
	if e.kdf == nil {
		e.kdf = kdf.NewArgon2idAdapter()
	}
	if e.params == nil {
		profile := config.Profile
		if profile == "" {
			profile = kdf.DefaultProfile
		}
		e.params = profile.Params()
	}
	if e.random == nil {
		random, err := rand.NewResolver(rand.ModeAuto)
		if err != nil {
			return nil, fmt.Errorf("scatter: random source: %w", err)
		}
		e.random = random
	}
	if e.blockSize == 0 {
		e.blockSize = bitio.DefaultBlockSize
	}
	if e.blockSize < 0 {
		return nil, fmt.Errorf("%w: block size %d", ErrInvalidParams, e.blockSize)
	}
	if e.schedule == nil {
		e.schedule = schedule.NewChaChaSchedule
	}

	if e.params.KeyLength != schedule.KeySize {
		return nil, fmt.Errorf("%w: key length %d, schedule needs %d",
			ErrInvalidParams, e.params.KeyLength, schedule.KeySize)
	}
	probe := e.params.WithSalt(make([]byte, fragment.SaltSize))
	if err := e.kdf.ValidateParams(probe); err != nil {
		return nil, fmt.Errorf("scatter: kdf parameters: %w", err)
	}
	return e, nil
}

// begin tags ctx with a run ID and returns a logger carrying it.
func (e *Engine) begin(ctx context.Context, operation string) (context.Context, string, logger.Logger) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, id := correlation.Ensure(ctx)
	log := e.log.With(
		logger.String(correlation.LogField, id),
		logger.String("operation", operation),
	)
	return ctx, id, log
}

// finish records metrics and logs the outcome of a run.
func (e *Engine) finish(log logger.Logger, operation string, start time.Time, bits uint64, err error) {
	elapsed := time.Since(start)
	if err != nil {
		metrics.RecordOperation(operation, metrics.StatusError, elapsed.Seconds())
		metrics.RecordError(operation, ErrorType(err))
		log.Error(operation+" failed",
			logger.Error(err),
			logger.String("error_type", ErrorType(err)),
			logger.Duration("elapsed", elapsed))
		return
	}
	metrics.RecordOperation(operation, metrics.StatusSuccess, elapsed.Seconds())
	metrics.AddBits(operation, bits)
}

// seed derives the key for salt and builds the schedule from it. The key
// is zeroed before seed returns; the caller must Wipe the schedule.
func (e *Engine) seed(log logger.Logger, password, salt []byte) (schedule.Schedule, error) {
	start := time.Now()
	key, err := e.kdf.DeriveKey(password, e.params.WithSalt(salt))
	if err != nil {
		return nil, fmt.Errorf("scatter: derive key: %w", err)
	}
	defer clear(key)

	metrics.RecordOperation(metrics.OpDerive, metrics.StatusSuccess, time.Since(start).Seconds())
	log.Debug("key derived",
		logger.String("kdf", e.kdf.Algorithm().String()),
		logger.Int64("memory_kib", int64(e.params.Memory)),
		logger.Int64("time", int64(e.params.Time)),
		logger.Duration("elapsed", time.Since(start)))

	sched, err := e.schedule(key)
	if err != nil {
		return nil, fmt.Errorf("scatter: seed schedule: %w", err)
	}
	return sched, nil
}

// interleave drives the schedule until total bits have been moved, calling
// step once per (size, target) pair. Split and join share this loop so that
// both consume the schedule identically.
func (e *Engine) interleave(ctx context.Context, total uint64, fragments int,
	sched schedule.Schedule, step func(size uint, target int) error) error {

	remaining := total
	var steps uint64
	for remaining > 0 {
		if steps%checkInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
			e.report(total-remaining, total)
		}

		size, target := sched.Next(remaining, fragments)
		if size == 0 || uint64(size) > remaining || size > schedule.MaxSampleBits ||
			target < 0 || target >= fragments {
			return fmt.Errorf("%w: size %d target %d with %d bits left",
				ErrInvalidSchedule, size, target, remaining)
		}
		if err := step(size, target); err != nil {
			return err
		}
		remaining -= uint64(size)
		steps++
	}
	e.report(total, total)
	return nil
}

func (e *Engine) report(done, total uint64) {
	if e.progress != nil {
		e.progress(done, total)
	}
}
