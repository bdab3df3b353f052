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
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/jeremyhahn/go-scatter/pkg/adapters/logger"
)

// progressInterval is the minimum time between progress log lines.
const progressInterval = 2 * time.Second

// progress turns engine callbacks into throttled log lines. The engine
// reports every few thousand steps, far more often than anyone reads.
type progress struct {
	log       logger.Logger
	operation string
	sometimes rate.Sometimes
}

func newProgress(log logger.Logger, operation string, interval time.Duration) *progress {
	return &progress{
		log:       log,
		operation: operation,
		sometimes: rate.Sometimes{Interval: interval},
	}
}

// Report implements scatter.ProgressFunc.
func (p *progress) Report(done, total uint64) {
	if total == 0 || done >= total {
		return
	}
	p.sometimes.Do(func() {
		p.log.Info(p.operation+" in progress",
			logger.Uint64("bits_done", done),
			logger.Uint64("bits_total", total),
			logger.String("percent", percent(done, total)))
	})
}

func percent(done, total uint64) string {
	if total == 0 {
		return "100.0"
	}
	return strconv.FormatFloat(float64(done)*100/float64(total), 'f', 1, 64)
}
