// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package partition locates the labeled configuration partition on install
// media, mounts it read-only, and reads the operator's pinned certificate
// fingerprint off it. The fingerprint file is the most explicit trust
// assertion available (it was physically written onto the media), so callers
// treat a value from here as locked against later sources.
package partition

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/H0llyW00dzZ/proxmox-fetch-answer/src/internal/helper/cmdrun"
	"github.com/H0llyW00dzZ/proxmox-fetch-answer/src/logger"
)

var (
	// ErrPartitionNotFound reports that neither case variant of the label
	// exists in the search directory.
	ErrPartitionNotFound = errors.New("partition: label not found")

	// ErrFingerprintNotFound reports that the mounted partition carries no
	// fingerprint file. Callers treat this as "no fingerprint available
	// here", not as a failure of the whole resolution.
	ErrFingerprintNotFound = errors.New("partition: fingerprint file not found")
)

// Mounter finds and mounts the configuration partition. All paths and names
// are injected so tests can point it at fixture files.
type Mounter struct {
	// Label is the logical partition label, searched in upper and lower case.
	Label string
	// SearchDir is the by-label device directory.
	SearchDir string
	// MountPoint is the fixed read-only mount point.
	MountPoint string
	// MountTable is the live mount table scanned for an existing mount.
	MountTable string
	// FingerprintFile is the file name probed on the mounted partition.
	FingerprintFile string

	Run cmdrun.Runner
	Log logger.Logger
}

// Locate returns the device path for the label, preferring the uppercase
// variant. Provisioning tooling writes the label in either case depending on
// which tool created the partition, so both spellings are probed.
func (m *Mounter) Locate() (string, error) {
	for _, label := range []string{strings.ToUpper(m.Label), strings.ToLower(m.Label)} {
		path := filepath.Join(m.SearchDir, label)

		_, err := os.Stat(path)
		switch {
		case err == nil:
			m.Log.Infof("Found partition with label '%s'", label)
			return path, nil
		case errors.Is(err, fs.ErrNotExist):
			m.Log.Infof("Did not detect partition with label '%s'", label)
		default:
			m.Log.Infof("Encountered issue accessing '%s': %v", path, err)
		}
	}

	return "", fmt.Errorf("%w: could not detect upper or lower case labels for %q", ErrPartitionNotFound, m.Label)
}

// Mount idempotently ensures the partition is mounted read-only at the mount
// point and returns that path. An existing mount is reused, never remounted.
// A failing mount command is logged as a warning and the mount point is still
// returned: downstream reads then fail with not-found, which callers treat as
// an absent source instead of a fatal condition.
func (m *Mounter) Mount(ctx context.Context) (string, error) {
	if m.isMounted() {
		m.Log.Infof("Skipping: '%s' is already mounted.", m.MountPoint)
		return m.MountPoint, nil
	}

	device, err := m.Locate()
	if err != nil {
		return "", err
	}

	m.Log.Infof("Mounting partition at %s", m.MountPoint)
	if err := os.MkdirAll(m.MountPoint, 0o755); err != nil {
		return "", fmt.Errorf("partition: creating mount point: %w", err)
	}

	if _, err := m.Run.Run(ctx, "mount", "-o", "ro", device, m.MountPoint); err != nil {
		m.Log.Warnf("Error mounting: %v", err)
	}
	return m.MountPoint, nil
}

// isMounted reports whether the mount point already appears in the live
// mount table. The table uses octal escapes for special characters in paths,
// so a plain space split per line is exact, not approximate.
func (m *Mounter) isMounted() bool {
	data, err := os.ReadFile(m.MountTable)
	if err != nil {
		m.Log.Debugf("Could not read mount table %s: %v", m.MountTable, err)
		return false
	}

	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Split(line, " ")
		if len(fields) > 1 && fields[1] == m.MountPoint {
			return true
		}
	}
	return false
}

// ReadFingerprint mounts the partition and returns the trimmed contents of
// the fingerprint file. The value is returned verbatim apart from trimming;
// normalization for comparison happens at the TLS layer.
func (m *Mounter) ReadFingerprint(ctx context.Context) (string, error) {
	mountPoint, err := m.Mount(ctx)
	if err != nil {
		return "", err
	}

	path := filepath.Join(mountPoint, m.FingerprintFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: expected at %s", ErrFingerprintNotFound, path)
		}
		return "", fmt.Errorf("partition: reading fingerprint file: %w", err)
	}

	m.Log.Infof("Found certificate fingerprint file.")
	return strings.TrimSpace(string(data)), nil
}
