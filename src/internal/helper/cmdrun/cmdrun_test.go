// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cmdrun

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExecRunnerRun verifies stdout capture and stderr folding on real processes
func TestExecRunnerRun(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
		errText string
	}{
		{
			name: "Stdout captured",
			args: []string{"-c", "printf 'hello'"},
			want: "hello",
		},
		{
			name: "Stderr not mixed into stdout",
			args: []string{"-c", "printf 'out'; printf 'noise' >&2"},
			want: "out",
		},
		{
			name:    "Non-zero exit carries stderr text",
			args:    []string{"-c", "printf 'boom' >&2; exit 3"},
			wantErr: true,
			errText: "boom",
		},
		{
			name:    "Non-zero exit without stderr",
			args:    []string{"-c", "exit 1"},
			wantErr: true,
			errText: "exit status 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := ExecRunner{}.Run(context.Background(), "sh", tt.args...)

			if tt.wantErr {
				require.Error(t, err, "Run() should fail")
				assert.Contains(t, err.Error(), tt.errText, "Run() error text")
				return
			}

			require.NoError(t, err, "Run() should succeed")
			assert.Equal(t, tt.want, string(out), "Run() stdout")
		})
	}
}

// TestExecRunnerMissingCommand verifies start failures surface as errors
func TestExecRunnerMissingCommand(t *testing.T) {
	_, err := ExecRunner{}.Run(context.Background(), "definitely-not-a-real-command-12345")
	require.Error(t, err, "Run() should fail for a missing command")
}

// TestExecRunnerContextCancel verifies a cancelled context stops the process
func TestExecRunnerContextCancel(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ExecRunner{}.Run(ctx, "sh", "-c", "sleep 10")
	require.Error(t, err, "Run() should fail when the context is cancelled")
}

// TestExecRunnerLookPath verifies LookPath resolves real and missing tools
func TestExecRunnerLookPath(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	path, err := ExecRunner{}.LookPath("sh")
	require.NoError(t, err, "LookPath(sh) should succeed")
	assert.NotEmpty(t, path, "LookPath(sh) path")

	_, err = ExecRunner{}.LookPath("definitely-not-a-real-command-12345")
	assert.Error(t, err, "LookPath should fail for a missing tool")
}

// TestText verifies UTF-8 enforcement on process output
func TestText(t *testing.T) {
	tests := []struct {
		name    string
		in      []byte
		want    string
		wantErr bool
	}{
		{
			name: "Plain ASCII",
			in:   []byte("eth0\nenp0s31f6\n"),
			want: "eth0\nenp0s31f6\n",
		},
		{
			name: "Valid UTF-8",
			in:   []byte("zone über"),
			want: "zone über",
		},
		{
			name: "Empty output",
			in:   nil,
			want: "",
		},
		{
			name:    "Invalid UTF-8 rejected",
			in:      []byte{0xff, 0xfe, 'x'},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Text(tt.in)

			if tt.wantErr {
				require.ErrorIs(t, err, ErrNotText, "Text() should reject invalid UTF-8")
				return
			}

			require.NoError(t, err, "Text() should succeed")
			assert.Equal(t, tt.want, got, "Text() result")
		})
	}
}

// TestScriptRun verifies scripted results and call recording
func TestScriptRun(t *testing.T) {
	script := &Script{
		Results: map[string]Result{
			"dig txt +short host.example.com": {Stdout: []byte("\"value\"\n")},
			"mount -o ro /dev/sdb1 /mnt":      {Err: assert.AnError},
		},
	}

	out, err := script.Run(context.Background(), "dig", "txt", "+short", "host.example.com")
	require.NoError(t, err, "scripted success should not error")
	assert.Equal(t, "\"value\"\n", string(out), "scripted stdout")

	_, err = script.Run(context.Background(), "mount", "-o", "ro", "/dev/sdb1", "/mnt")
	assert.ErrorIs(t, err, assert.AnError, "scripted failure should surface")

	_, err = script.Run(context.Background(), "ip", "-j", "link")
	require.Error(t, err, "unscripted command should fail")
	assert.Contains(t, err.Error(), "unscripted command", "unscripted error text")

	assert.Equal(t, []string{
		"dig txt +short host.example.com",
		"mount -o ro /dev/sdb1 /mnt",
		"ip -j link",
	}, script.Calls(), "recorded call order")
}

// TestScriptCallCount verifies prefix counting used for invocation assertions
func TestScriptCallCount(t *testing.T) {
	script := &Script{
		Results: map[string]Result{
			"dig txt +short a.example.com": {Stdout: []byte("x")},
			"dig txt +short b.example.com": {Stdout: []byte("y")},
			"digest file":                  {Stdout: []byte("z")},
		},
	}

	ctx := context.Background()
	script.Run(ctx, "dig", "txt", "+short", "a.example.com")
	script.Run(ctx, "dig", "txt", "+short", "b.example.com")
	script.Run(ctx, "digest", "file")

	assert.Equal(t, 2, script.CallCount("dig"), "dig invocations")
	assert.Equal(t, 1, script.CallCount("digest"), "digest invocations")
	assert.Equal(t, 0, script.CallCount("mount"), "mount invocations")
}

// TestScriptLookPath verifies missing-tool scripting
func TestScriptLookPath(t *testing.T) {
	script := &Script{MissingTools: map[string]bool{"dig": true}}

	_, err := script.LookPath("dig")
	require.ErrorIs(t, err, exec.ErrNotFound, "missing tool should report ErrNotFound")

	path, err := script.LookPath("mount")
	require.NoError(t, err, "present tool should resolve")
	assert.Equal(t, "/usr/bin/mount", path, "resolved path")
}
