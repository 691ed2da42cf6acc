// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package cmdrun abstracts external process invocation behind a small
// capability interface. The resolver shells out to the mount utility, the
// DNS query tool, and the interface lister; routing those calls through a
// Runner keeps the resolution logic testable with scripted outputs instead
// of real OS calls.
package cmdrun

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"unicode/utf8"
)

// Runner executes external commands.
type Runner interface {
	// Run executes name with args and returns its stdout. A failed start or
	// non-zero exit yields an error that includes trimmed stderr text when
	// the process produced any.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
	// LookPath resolves name against the executable search path, so callers
	// can pick a fallback before attempting to run a missing tool.
	LookPath(name string) (string, error)
}

// ExecRunner is the os/exec backed Runner used in production.
type ExecRunner struct{}

// Run executes the command, capturing stdout and stderr separately.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return stdout.Bytes(), fmt.Errorf("%s: %s: %w", name, msg, err)
		}
		return stdout.Bytes(), fmt.Errorf("%s: %w", name, err)
	}
	return stdout.Bytes(), nil
}

// LookPath resolves name via exec.LookPath.
func (ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// ErrNotText reports process output that is not valid UTF-8.
var ErrNotText = errors.New("cmdrun: process output is not valid UTF-8")

// Text converts process stdout bytes to a string. Output that is not valid
// UTF-8 is rejected rather than silently coerced.
func Text(out []byte) (string, error) {
	if !utf8.Valid(out) {
		return "", ErrNotText
	}
	return string(out), nil
}
