// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cmdrun

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// Result is a scripted outcome for a single command line.
type Result struct {
	Stdout []byte
	Err    error
}

// Script is a Runner that replays pre-programmed results, keyed by the full
// command line ("name arg1 arg2 ..."). It records every invocation so tests
// can assert not just on outcomes but on which tools ran and how often.
type Script struct {
	// Results maps a command line to its scripted outcome. Commands with no
	// entry fail with an "unscripted command" error, which makes unexpected
	// invocations loud instead of silent.
	Results map[string]Result
	// MissingTools lists names LookPath should report as absent.
	MissingTools map[string]bool

	mu    sync.Mutex
	calls []string
}

// Run replays the scripted result for the given command line.
func (s *Script) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	line := commandLine(name, args)

	s.mu.Lock()
	s.calls = append(s.calls, line)
	s.mu.Unlock()

	res, ok := s.Results[line]
	if !ok {
		return nil, fmt.Errorf("unscripted command: %q", line)
	}
	return res.Stdout, res.Err
}

// LookPath reports a fixed path unless the tool is listed as missing.
func (s *Script) LookPath(name string) (string, error) {
	if s.MissingTools[name] {
		return "", fmt.Errorf("%s: %w", name, exec.ErrNotFound)
	}
	return "/usr/bin/" + name, nil
}

// Calls returns the recorded command lines in invocation order.
func (s *Script) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// CallCount counts recorded invocations whose command line starts with
// prefix. CallCount("dig") counts every dig invocation regardless of
// arguments.
func (s *Script) CallCount(prefix string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, line := range s.calls {
		if line == prefix || strings.HasPrefix(line, prefix+" ") {
			n++
		}
	}
	return n
}

func commandLine(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
