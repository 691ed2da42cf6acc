// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package dhcp extracts the answer URL and certificate fingerprint from the
// DHCP client's lease file. The options arrive as vendor-specific extensions
// (IANA site-specific range, 224-254) that the lease-negotiation
// configuration requests by name, e.g. for dhclient:
//
//	option proxmoxinst-url code 250 = text;
//	option proxmoxinst-fp code 251 = text;
//	also request proxmoxinst-url, proxmoxinst-fp;
//
// The negotiated values then show up in the lease file, quoted in the lease
// syntax, which is where this scanner picks them up.
package dhcp

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/H0llyW00dzZ/proxmox-fetch-answer/src/logger"
)

var (
	// ErrNoURLOption reports a readable lease file that never defined the
	// URL option. The source contributes nothing and the caller falls back
	// to the next one.
	ErrNoURLOption = errors.New("dhcp: no option found for fetch URL")

	// ErrMalformedOption reports an option value that does not carry the
	// expected "value"; quoting.
	ErrMalformedOption = errors.New("dhcp: malformed option value")
)

// Scanner reads answer discovery options from a lease file.
type Scanner struct {
	// LeaseFile is the DHCP client lease file path.
	LeaseFile string
	// URLOption is the option name carrying the answer URL. It is mandatory
	// for this source to succeed.
	URLOption string
	// FingerprintOption is the option name carrying the certificate
	// fingerprint. Optional.
	FingerprintOption string

	Log logger.Logger
}

// Fetch scans the lease file for the URL and fingerprint options.
//
// Lease files accumulate historical lease stanzas, so the same option can
// appear several times; the scan is a flat first-match-wins pass in file
// order and does not try to identify the current lease. The fingerprint
// option is consulted only when current is empty; a fingerprint locked by a
// higher-precedence source is never overridden. The returned fingerprint is
// current when it was already set, otherwise the first well-formed
// fingerprint option value, otherwise empty.
func (s *Scanner) Fetch(current string) (string, string, error) {
	data, err := os.ReadFile(s.LeaseFile)
	if err != nil {
		return "", current, fmt.Errorf("dhcp: reading lease file: %w", err)
	}

	var (
		url         string
		fingerprint = current
		urlPrefix   = "option " + s.URLOption
		fpPrefix    = "option " + s.FingerprintOption
	)

	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)

		if url == "" && strings.HasPrefix(trimmed, urlPrefix) {
			value, err := stripOptionValue(lastField(trimmed))
			if err != nil {
				return "", current, fmt.Errorf("dhcp: option %s: %w", s.URLOption, err)
			}
			url = value
		}

		if fingerprint == "" && strings.HasPrefix(trimmed, fpPrefix) {
			value, err := stripOptionValue(lastField(trimmed))
			if err != nil {
				// A broken fingerprint must not kill the source: the URL
				// may still be fine and the transport can fall back to the
				// system trust store.
				s.Log.Warnf("Ignoring option %s: %v", s.FingerprintOption, err)
				continue
			}
			fingerprint = value
		}
	}

	if url == "" {
		return "", current, ErrNoURLOption
	}
	return url, fingerprint, nil
}

// stripOptionValue removes the lease-file quoting wrapper from an option
// value token. Values appear as "value"; so the leading quote and the
// trailing quote-semicolon pair are stripped, nothing else.
func stripOptionValue(token string) (string, error) {
	if len(token) < 3 || !strings.HasPrefix(token, `"`) || !strings.HasSuffix(token, `";`) {
		return "", fmt.Errorf("%w: %q", ErrMalformedOption, token)
	}
	return token[1 : len(token)-2], nil
}

// lastField returns the last whitespace-delimited token of the line.
func lastField(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
