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
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jeremyhahn/go-scatter/pkg/scatter"
)

// OutputFormat defines the output format type
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

// Printer handles formatted output
type Printer struct {
	format OutputFormat
	writer io.Writer
}

// NewPrinter creates a new Printer
func NewPrinter(format string, writer io.Writer) *Printer {
	return &Printer{
		format: OutputFormat(format),
		writer: writer,
	}
}

// PrintSplit prints the fragments written by a split, in join order
func (p *Printer) PrintSplit(result *scatter.SplitResult) error {
	switch p.format {
	case OutputFormatJSON:
		fragments := make([]map[string]interface{}, len(result.Fragments))
		for i, f := range result.Fragments {
			fragments[i] = map[string]interface{}{
				"ordinal":      f.Ordinal,
				"path":         f.Path,
				"content_bits": f.ContentBits,
			}
		}
		return p.printJSON(map[string]interface{}{
			"status":       "success",
			"run_id":       result.RunID,
			"source_bytes": result.SourceBytes,
			"fragments":    fragments,
			"duration_ms":  result.Duration.Milliseconds(),
		})
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Split %d bytes into %d fragments (%s)\n",
			result.SourceBytes, len(result.Fragments), result.Duration.Round(time.Millisecond))
		fmt.Fprintln(p.writer, "Fragments, in join order:")
		for _, f := range result.Fragments {
			fmt.Fprintf(p.writer, "  %d  %s\n", f.Ordinal, f.Path)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintJoin prints the outcome of a join
func (p *Printer) PrintJoin(result *scatter.JoinResult) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status":      "success",
			"run_id":      result.RunID,
			"output":      result.OutputPath,
			"size":        result.Size,
			"fragments":   result.Fragments,
			"duration_ms": result.Duration.Milliseconds(),
		})
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Joined %d fragments into %s (%d bytes, %s)\n",
			result.Fragments, result.OutputPath, result.Size, result.Duration.Round(time.Millisecond))
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintInspect prints a fragment set report
func (p *Printer) PrintInspect(report *InspectReport) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(report)
	case OutputFormatText:
		fmt.Fprintf(p.writer, "%-4s %-10s %-5s %-4s %-12s %-64s %s\n",
			"ORD", "LENGTH", "SALT", "TAIL", "CONTENT_BITS", "BLAKE3", "PATH")
		fmt.Fprintln(p.writer, strings.Repeat("-", 110))
		for _, f := range report.Fragments {
			fmt.Fprintf(p.writer, "%-4d %-10d %-5d %-4d %-12d %-64s %s\n",
				f.Ordinal, f.Length, f.SaltBytes, f.Tail, f.ContentBits, f.BLAKE3, f.Path)
		}
		if report.Valid {
			fmt.Fprintf(p.writer, "Recovered size: %d bytes\n", report.RecoveredSize)
		} else {
			fmt.Fprintf(p.writer, "Invalid fragment set: %s\n", report.Problem)
		}
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// PrintError prints an error message
func (p *Printer) PrintError(err error) error {
	switch p.format {
	case OutputFormatJSON:
		return p.printJSON(map[string]interface{}{
			"status":     "error",
			"error":      err.Error(),
			"error_type": scatter.ErrorType(err),
		})
	case OutputFormatText:
		fmt.Fprintf(p.writer, "Error: %v\n", err)
		return nil
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

// printJSON prints data as JSON
func (p *Printer) printJSON(data interface{}) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
