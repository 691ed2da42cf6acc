// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
// Use of this source code is governed by a BSD 3-Clause
// license that can be found in the LICENSE file.

// proxmox-fetch-answer is a command-line tool that locates the
// unattended-installation answer document for the booting host and
// fetches it over HTTPS.
//
// The answer location is resolved from three sources in order: a
// certificate fingerprint pinned on the configuration partition, the
// answer URL (and optionally a fingerprint) from DHCP lease options,
// and, when DHCP has nothing, DNS TXT records under the host's search
// domain. The host's system information is then POSTed to the resolved
// URL and the returned document is printed.
//
// # Installation
//
// Install with Go 1.25.5 or later:
//
//	go install github.com/H0llyW00dzZ/proxmox-fetch-answer/cmd/proxmox-fetch-answer@latest
//
// # Usage
//
//	proxmox-fetch-answer [FLAGS]
//	proxmox-fetch-answer sources [FLAGS]
//	proxmox-fetch-answer fingerprint TARGET [FLAGS]
//
// # Flags
//
//	-o, --output    Destination file for the answer (default: stdout)
//	-t, --timeout   HTTPS exchange timeout in seconds (default: from settings)
//	    --settings  Settings file overlaying the built-in defaults
//	    --debug     Enable debug logging
//	    --no-color  Disable colored log output
//	-j, --json      Machine-readable output (sources, fingerprint)
//	    --pem       Dump the captured chain as PEM (fingerprint)
//
// # Examples
//
// Fetch the answer document and hand it to the installer:
//
//	proxmox-fetch-answer -o /run/answer.toml
//
// Check what each source would contribute before rebooting a host:
//
//	proxmox-fetch-answer sources --json
//
// Capture the fingerprint of a self-signed answer service for pinning:
//
//	proxmox-fetch-answer fingerprint 10.0.0.5:8443
package main
