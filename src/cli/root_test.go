// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli_test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/H0llyW00dzZ/proxmox-fetch-answer/src/cli"
	x509certs "github.com/H0llyW00dzZ/proxmox-fetch-answer/src/internal/x509/certs"
	"github.com/H0llyW00dzZ/proxmox-fetch-answer/src/settings"
)

const version = "1.3.3.7-testing"

const answerDocument = `[global]
keyboard = "en-us"
fqdn = "pve-1.lab.local"
`

// cliFixture stages settings and source files in a temporary directory
// and exposes the settings file the commands read them from.
type cliFixture struct {
	cfg          settings.Settings
	settingsFile string
}

func newCLIFixture(t *testing.T) *cliFixture {
	t.Helper()

	dir := t.TempDir()
	cfg := settings.Default()
	cfg.MountPoint = filepath.Join(dir, "mnt")
	cfg.LabelSearchDir = filepath.Join(dir, "by-label")
	cfg.MountTable = filepath.Join(dir, "mounts")
	cfg.LeaseFile = filepath.Join(dir, "dhclient.leases")
	cfg.ResolvConf = filepath.Join(dir, "resolv.conf")
	cfg.FingerprintExport = filepath.Join(dir, "cert_fingerprint")
	cfg.TimeoutSeconds = 10

	require.NoError(t, os.MkdirAll(cfg.LabelSearchDir, 0o755), "create by-label dir")
	require.NoError(t, os.WriteFile(cfg.MountTable, nil, 0o644), "create mount table")

	f := &cliFixture{cfg: cfg, settingsFile: filepath.Join(dir, "settings.yaml")}
	f.flush(t)
	return f
}

// flush rewrites the settings file after cfg changes.
func (f *cliFixture) flush(t *testing.T) {
	t.Helper()

	data, err := yaml.Marshal(f.cfg)
	require.NoError(t, err, "marshal settings")
	require.NoError(t, os.WriteFile(f.settingsFile, data, 0o644), "write settings file")
}

func (f *cliFixture) lease(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(f.cfg.LeaseFile, []byte(content), 0o644), "write lease file")
}

// execute runs the CLI with args the way main does, restoring os.Args.
func execute(t *testing.T, args ...string) error {
	t.Helper()

	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })
	os.Args = append([]string{"proxmox-fetch-answer"}, args...)

	return cli.Execute(context.Background(), version)
}

// captureStdout collects what fn writes to the process stdout.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err, "create pipe")
	os.Stdout = w

	fn()

	require.NoError(t, w.Close(), "close pipe writer")
	os.Stdout = old

	out, err := io.ReadAll(r)
	require.NoError(t, err, "read captured stdout")
	return string(out)
}

// TestExecute_FullPipeline verifies the root command end to end: DHCP
// supplies the URL, the payload is POSTed, the answer lands in --output
func TestExecute_FullPipeline(t *testing.T) {
	var gotBody []byte
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotContentType = r.Header.Get("Content-Type")
		fmt.Fprint(w, answerDocument)
	}))
	defer srv.Close()

	f := newCLIFixture(t)
	f.lease(t, fmt.Sprintf("option proxmoxinst-url \"%s\";\n", srv.URL))
	outFile := filepath.Join(t.TempDir(), "answer.toml")

	err := execute(t, "--settings", f.settingsFile, "--no-color", "-o", outFile)
	require.NoError(t, err, "Execute() should succeed")

	answer, err := os.ReadFile(outFile)
	require.NoError(t, err, "answer file should exist")
	assert.Equal(t, answerDocument, string(answer), "answer document")

	assert.Equal(t, "application/json", gotContentType, "payload content type")
	payload := gjson.ParseBytes(gotBody)
	assert.True(t, payload.Get("product").Exists(), "payload carries product data")
	assert.True(t, payload.Get("network.interfaces").Exists(), "payload carries interfaces")
	assert.True(t, payload.Get("host").Exists(), "payload carries host facts")
}

// TestExecute_PinnedPipeline verifies the pipeline against a self-signed
// TLS answer service trusted via the lease fingerprint
func TestExecute_PinnedPipeline(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, answerDocument)
	}))
	defer srv.Close()

	pin := x509certs.FingerprintSHA256(srv.Certificate())

	f := newCLIFixture(t)
	f.lease(t, fmt.Sprintf("option proxmoxinst-url \"%s\";\noption proxmoxinst-fp \"%s\";\n", srv.URL, pin))
	outFile := filepath.Join(t.TempDir(), "answer.toml")

	err := execute(t, "--settings", f.settingsFile, "--no-color", "-o", outFile, "-t", "10")
	require.NoError(t, err, "Execute() should trust the pinned certificate")

	answer, err := os.ReadFile(outFile)
	require.NoError(t, err, "answer file should exist")
	assert.Equal(t, answerDocument, string(answer), "answer document")

	exported, err := os.ReadFile(f.cfg.FingerprintExport)
	require.NoError(t, err, "fingerprint export should exist")
	assert.Equal(t, pin, string(exported), "exported fingerprint")
}

// TestExecute_PinMismatchFails verifies a wrong lease fingerprint stops
// the exchange
func TestExecute_PinMismatchFails(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not reach the handler on a pin mismatch")
	}))
	defer srv.Close()

	wrongPin := strings.Repeat("ab", 32)
	if x509certs.NormalizeFingerprint(x509certs.FingerprintSHA256(srv.Certificate())) == wrongPin {
		wrongPin = strings.Repeat("cd", 32)
	}

	f := newCLIFixture(t)
	f.lease(t, fmt.Sprintf("option proxmoxinst-url \"%s\";\noption proxmoxinst-fp \"%s\";\n", srv.URL, wrongPin))

	err := execute(t, "--settings", f.settingsFile, "--no-color")
	require.Error(t, err, "Execute() should fail on a pin mismatch")
}

// TestExecute_NoSourceFails verifies resolution failure surfaces as an error
func TestExecute_NoSourceFails(t *testing.T) {
	f := newCLIFixture(t)
	// No lease file and no resolv.conf: every URL source fails.

	err := execute(t, "--settings", f.settingsFile, "--no-color")
	require.Error(t, err, "Execute() should fail without sources")
	assert.Contains(t, err.Error(), "no answer URL found", "terminal error")
}

// TestExecute_BadSettingsFile verifies settings problems are reported
func TestExecute_BadSettingsFile(t *testing.T) {
	err := execute(t, "--settings", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err, "Execute() should fail")
	assert.Contains(t, err.Error(), "settings", "error names the settings file")
}

// TestExecute_UnknownFlag verifies flag errors surface
func TestExecute_UnknownFlag(t *testing.T) {
	err := execute(t, "--definitely-not-a-flag")
	assert.Error(t, err, "Execute() should fail on unknown flags")
}
