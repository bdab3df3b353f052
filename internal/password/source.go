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

package password

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// EnvVar names the environment variable consulted when no flag is given.
const EnvVar = "SCATTER_PASSWORD"

// Options lists the places a password may come from, in priority order:
// Value, File, the EnvVar environment variable, then the terminal.
type Options struct {
	// Value is a password given directly on the command line.
	Value string
	// ValueSet distinguishes an explicit empty --password from no flag.
	ValueSet bool
	// File is a path to read the password from. "-" reads one line from stdin.
	File string
	// Confirm asks twice when prompting interactively.
	Confirm bool
}

// Reader resolves passwords. The zero value reads from os.Stdin and prompts
// on os.Stderr.
type Reader struct {
	Stdin  *os.File
	Stderr io.Writer
	Getenv func(string) (string, bool)

	isTerminal   func(fd int) bool
	readPassword func(fd int) ([]byte, error)
}

// Read resolves a password according to opts.
func (r *Reader) Read(opts Options) (*ClearPassword, error) {
	if opts.ValueSet && opts.File != "" {
		return nil, ErrAmbiguousSource
	}
	switch {
	case opts.ValueSet:
		return NewClearPasswordFromString(opts.Value), nil
	case opts.File == "-":
		return r.readLine(r.stdin())
	case opts.File != "":
		return ReadFile(opts.File)
	}
	if value, ok := r.getenv(EnvVar); ok {
		return NewClearPasswordFromString(value), nil
	}
	return r.Prompt(opts.Confirm)
}

// Prompt reads a password from the terminal with echo disabled. When stdin
// is piped it reads a single line instead.
func (r *Reader) Prompt(confirm bool) (*ClearPassword, error) {
	in := r.stdin()
	fd := int(in.Fd())
	if !r.terminal(fd) {
		return r.readLine(in)
	}

	first, err := r.promptOnce(fd, "Password: ")
	if err != nil {
		return nil, err
	}
	defer zero(first)

	if confirm {
		second, err := r.promptOnce(fd, "Confirm password: ")
		if err != nil {
			return nil, err
		}
		defer zero(second)
		if sameBytes(first, second) {
			return NewClearPassword(first), nil
		}
		return nil, ErrMismatch
	}
	return NewClearPassword(first), nil
}

func (r *Reader) promptOnce(fd int, label string) ([]byte, error) {
	out := r.stderr()
	fmt.Fprint(out, label)
	data, err := r.read(fd)
	fmt.Fprintln(out)
	if err != nil {
		return nil, fmt.Errorf("reading password: %w", err)
	}
	return data, nil
}

func (r *Reader) readLine(in io.Reader) (*ClearPassword, error) {
	line, err := bufio.NewReader(in).ReadBytes('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading password from stdin: %w", err)
	}
	defer zero(line)
	return NewClearPassword(trimNewlines(line)), nil
}

// ReadFile reads a password from path, stripping trailing newlines. An empty
// file yields an empty password.
func ReadFile(path string) (*ClearPassword, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading password file %s: %w", path, err)
	}
	defer zero(data)
	return NewClearPassword(trimNewlines(data)), nil
}

func trimNewlines(data []byte) []byte {
	for len(data) > 0 && (data[len(data)-1] == '\n' || data[len(data)-1] == '\r') {
		data = data[:len(data)-1]
	}
	return data
}

func sameBytes(a, b []byte) bool {
	p, q := NewClearPassword(a), NewClearPassword(b)
	defer p.Clear()
	defer q.Clear()
	ok, _ := Equal(p, q)
	return ok
}

func (r *Reader) stdin() *os.File {
	if r.Stdin != nil {
		return r.Stdin
	}
	return os.Stdin
}

func (r *Reader) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

func (r *Reader) getenv(key string) (string, bool) {
	if r.Getenv != nil {
		return r.Getenv(key)
	}
	return os.LookupEnv(key)
}

func (r *Reader) terminal(fd int) bool {
	if r.isTerminal != nil {
		return r.isTerminal(fd)
	}
	return term.IsTerminal(fd)
}

func (r *Reader) read(fd int) ([]byte, error) {
	if r.readPassword != nil {
		return r.readPassword(fd)
	}
	return term.ReadPassword(fd)
}
