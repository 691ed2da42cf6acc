// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package netif enumerates network interfaces through the ip tool's JSON
// output. The loopback interface is excluded; the installer only cares about
// links an answer server could actually be reached over.
package netif

import (
	"context"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/H0llyW00dzZ/proxmox-fetch-answer/src/internal/helper/cmdrun"
)

const loopback = "lo"

// ErrMalformedOutput reports interface-listing output that could not be
// interpreted as the expected JSON array.
var ErrMalformedOutput = errors.New("netif: malformed interface listing")

// Interface is one link reported by the interface-listing tool.
type Interface struct {
	Name string `json:"name"`
	MAC  string `json:"mac,omitempty"`
}

// List enumerates network interfaces via "ip -j link", preserving tool order
// and dropping the loopback entry. Entries without an ifname are skipped; an
// empty result is valid on hosts with no usable links.
func List(ctx context.Context, run cmdrun.Runner) ([]Interface, error) {
	out, err := run.Run(ctx, "ip", "-j", "link")
	if err != nil {
		return nil, fmt.Errorf("netif: listing interfaces: %w", err)
	}

	text, err := cmdrun.Text(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}

	if !gjson.Valid(text) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedOutput)
	}

	parsed := gjson.Parse(text)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrMalformedOutput)
	}

	var ifaces []Interface
	for _, entry := range parsed.Array() {
		name := entry.Get("ifname").String()
		if name == "" || name == loopback {
			continue
		}

		ifaces = append(ifaces, Interface{
			Name: name,
			MAC:  entry.Get("address").String(),
		})
	}

	return ifaces, nil
}

// Names returns just the interface names, in listing order.
func Names(ifaces []Interface) []string {
	names := make([]string, len(ifaces))
	for i, iface := range ifaces {
		names[i] = iface.Name
	}
	return names
}
