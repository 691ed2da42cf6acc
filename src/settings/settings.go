// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package settings carries every fixed path, label, and name the answer
// resolution flow depends on. Production values live in Default; tests and
// lab setups overlay them from a YAML or JSON file instead of patching
// package globals.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings holds the resolver configuration. The zero value is not usable;
// start from Default and overlay with Load.
type Settings struct {
	// MountPoint is where the configuration partition gets mounted read-only.
	MountPoint string `json:"mountPoint" yaml:"mountPoint"`
	// PartitionLabel is the logical label of the configuration partition,
	// searched in upper and lower case under LabelSearchDir.
	PartitionLabel string `json:"partitionLabel" yaml:"partitionLabel"`
	// LabelSearchDir is the by-label device directory.
	LabelSearchDir string `json:"labelSearchDir" yaml:"labelSearchDir"`
	// FingerprintFile is the optional pinned-fingerprint file name on the
	// mounted partition.
	FingerprintFile string `json:"fingerprintFile" yaml:"fingerprintFile"`
	// MountTable is the live mount table scanned for an existing mount.
	MountTable string `json:"mountTable" yaml:"mountTable"`

	// LeaseFile is the DHCP client lease file.
	LeaseFile string `json:"leaseFile" yaml:"leaseFile"`
	// URLOption and FingerprintOption are the vendor-specific DHCP option
	// names carrying the answer URL and the certificate fingerprint.
	URLOption         string `json:"urlOption" yaml:"urlOption"`
	FingerprintOption string `json:"fingerprintOption" yaml:"fingerprintOption"`

	// ResolvConf is the system resolver configuration file providing the
	// search domain for TXT lookups.
	ResolvConf string `json:"resolvConf" yaml:"resolvConf"`
	// URLSubdomain and FingerprintSubdomain are prefixed to the search
	// domain to form the TXT query names.
	URLSubdomain         string `json:"urlSubdomain" yaml:"urlSubdomain"`
	FingerprintSubdomain string `json:"fingerprintSubdomain" yaml:"fingerprintSubdomain"`

	// FingerprintExport is where a resolved fingerprint is persisted for
	// tooling invoked later in the installation.
	FingerprintExport string `json:"fingerprintExport" yaml:"fingerprintExport"`

	// TimeoutSeconds bounds the HTTPS exchange with the answer server.
	TimeoutSeconds int `json:"timeoutSeconds" yaml:"timeoutSeconds"`
}

// Default returns the production settings used on installer media.
func Default() Settings {
	return Settings{
		MountPoint:           "/mnt/answer",
		PartitionLabel:       "proxmoxinst",
		LabelSearchDir:       "/dev/disk/by-label",
		FingerprintFile:      "cert_fingerprint.txt",
		MountTable:           "/proc/mounts",
		LeaseFile:            "/var/lib/dhcp/dhclient.leases",
		URLOption:            "proxmoxinst-url",
		FingerprintOption:    "proxmoxinst-fp",
		ResolvConf:           "/etc/resolv.conf",
		URLSubdomain:         "proxmoxinst",
		FingerprintSubdomain: "proxmoxinst-fp",
		FingerprintExport:    "/tmp/cert_fingerprint",
		TimeoutSeconds:       60,
	}
}

// Timeout returns the HTTPS exchange timeout as a duration.
func (s Settings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Load reads path and overlays it onto the defaults. The format is chosen
// by extension: .json is JSON, .yaml and .yml are YAML. Fields absent from
// the file keep their default values. The result is validated.
func Load(path string) (Settings, error) {
	s := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("reading settings file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, &s)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &s)
	default:
		return Settings{}, fmt.Errorf("unsupported settings format %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
	if err != nil {
		return Settings{}, fmt.Errorf("parsing settings file %s: %w", path, err)
	}

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// ValidationErrors collects everything wrong with a Settings value so the
// operator can fix the file in one pass.
type ValidationErrors []error

// Error implements the error interface by joining the underlying errors.
func (v ValidationErrors) Error() string {
	var b strings.Builder
	b.WriteString("invalid settings:")
	for _, err := range v {
		b.WriteString("\n  - ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Validate checks that every field resolution depends on is usable.
func (s Settings) Validate() error {
	var errs ValidationErrors

	required := []struct {
		name  string
		value string
	}{
		{"mountPoint", s.MountPoint},
		{"partitionLabel", s.PartitionLabel},
		{"labelSearchDir", s.LabelSearchDir},
		{"fingerprintFile", s.FingerprintFile},
		{"mountTable", s.MountTable},
		{"leaseFile", s.LeaseFile},
		{"urlOption", s.URLOption},
		{"fingerprintOption", s.FingerprintOption},
		{"resolvConf", s.ResolvConf},
		{"urlSubdomain", s.URLSubdomain},
		{"fingerprintSubdomain", s.FingerprintSubdomain},
		{"fingerprintExport", s.FingerprintExport},
	}
	for _, f := range required {
		if f.value == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", f.name))
		}
	}

	if s.MountPoint != "" && !filepath.IsAbs(s.MountPoint) {
		errs = append(errs, fmt.Errorf("mountPoint must be an absolute path, got %q", s.MountPoint))
	}
	if s.TimeoutSeconds <= 0 {
		errs = append(errs, fmt.Errorf("timeoutSeconds must be positive, got %d", s.TimeoutSeconds))
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
