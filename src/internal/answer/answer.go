// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package answer resolves where the unattended-installation answer
// document lives and how the server offering it must be trusted.
//
// Three sources are consulted. A labeled configuration partition may
// pin a certificate fingerprint; the answer URL then comes from the
// DHCP lease file, or, when DHCP has nothing, from DNS TXT records
// under the host's search domain. A fingerprint discovered by an
// earlier source is never overridden by a later one, and a source that
// fails contributes nothing.
package answer

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"

	"github.com/H0llyW00dzZ/proxmox-fetch-answer/src/internal/answer/dhcp"
	"github.com/H0llyW00dzZ/proxmox-fetch-answer/src/internal/answer/dnstxt"
	"github.com/H0llyW00dzZ/proxmox-fetch-answer/src/internal/answer/partition"
	"github.com/H0llyW00dzZ/proxmox-fetch-answer/src/internal/helper/cmdrun"
	"github.com/H0llyW00dzZ/proxmox-fetch-answer/src/logger"
	"github.com/H0llyW00dzZ/proxmox-fetch-answer/src/settings"
)

// Location is a resolved answer source: the URL to request the document
// from and, when any source supplied one, the SHA-256 fingerprint the
// server's certificate must match.
type Location struct {
	URL         string `json:"url"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// Resolver runs the discovery sources in their trust order.
type Resolver struct {
	// Settings selects the files, labels, option names and subdomains
	// the sources probe.
	Settings settings.Settings

	// Run executes the external tools the sources shell out to.
	Run cmdrun.Runner

	// Log receives resolution progress.
	Log logger.Logger
}

// NewResolver returns a Resolver using cfg. A nil run defaults to
// executing real commands; a nil log discards output.
func NewResolver(cfg settings.Settings, run cmdrun.Runner, log logger.Logger) *Resolver {
	if run == nil {
		run = cmdrun.ExecRunner{}
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &Resolver{Settings: cfg, Run: run, Log: log}
}

// Partition returns the configuration-partition source.
func (r *Resolver) Partition() *partition.Mounter {
	return &partition.Mounter{
		Label:           r.Settings.PartitionLabel,
		SearchDir:       r.Settings.LabelSearchDir,
		MountPoint:      r.Settings.MountPoint,
		MountTable:      r.Settings.MountTable,
		FingerprintFile: r.Settings.FingerprintFile,
		Run:             r.Run,
		Log:             r.Log,
	}
}

// DHCP returns the lease-file source.
func (r *Resolver) DHCP() *dhcp.Scanner {
	return &dhcp.Scanner{
		LeaseFile:         r.Settings.LeaseFile,
		URLOption:         r.Settings.URLOption,
		FingerprintOption: r.Settings.FingerprintOption,
		Log:               r.Log,
	}
}

// DNS returns the TXT-record source.
func (r *Resolver) DNS() *dnstxt.Resolver {
	return &dnstxt.Resolver{
		ResolvConf:           r.Settings.ResolvConf,
		URLSubdomain:         r.Settings.URLSubdomain,
		FingerprintSubdomain: r.Settings.FingerprintSubdomain,
		Run:                  r.Run,
		Log:                  r.Log,
	}
}

// Resolve walks the sources and returns the first answer URL found,
// paired with the highest-priority fingerprint.
//
// The partition only contributes a fingerprint; its absence is normal
// and logged at info level. DHCP is then asked for the URL, and DNS
// only when DHCP fails. When both URL sources fail, their errors are
// combined into the terminal error.
func (r *Resolver) Resolve(ctx context.Context) (*Location, error) {
	r.Log.Infof("Checking for certificate fingerprint in file.")

	var fingerprint string
	if fp, err := r.Partition().ReadFingerprint(ctx); err != nil {
		r.Log.Infof("%v", err)
	} else {
		fingerprint = fp
	}

	url, fingerprint, dhcpErr := r.DHCP().Fetch(fingerprint)
	if dhcpErr != nil {
		r.Log.Infof("Failed to fetch URL from DHCP: %v", dhcpErr)

		var dnsErr error
		url, fingerprint, dnsErr = r.DNS().Fetch(ctx, fingerprint)
		if dnsErr != nil {
			r.Log.Infof("Failed to fetch URL from DNS: %v", dnsErr)

			var merr *multierror.Error
			merr = multierror.Append(merr, dhcpErr, dnsErr)
			return nil, fmt.Errorf("no answer URL found in any source: %w", merr.ErrorOrNil())
		}
	}

	if fingerprint != "" {
		r.exportFingerprint(fingerprint)
	}

	return &Location{URL: url, Fingerprint: fingerprint}, nil
}

// exportFingerprint persists the resolved fingerprint for tooling that
// runs later in the installation. Failure to persist does not fail the
// resolution that produced it.
func (r *Resolver) exportFingerprint(fp string) {
	if r.Settings.FingerprintExport == "" {
		return
	}
	if err := os.WriteFile(r.Settings.FingerprintExport, []byte(fp), 0o644); err != nil {
		r.Log.Warnf("Could not store certificate fingerprint at %s: %v", r.Settings.FingerprintExport, err)
	}
}
