// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package sysinfo assembles the system description submitted to the answer
// server. The server matches on DMI product data and NIC MACs to pick the
// right answer document, so collection is best-effort: a box with sparse DMI
// tables still has to produce a payload the server can work with.
package sysinfo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"

	"github.com/H0llyW00dzZ/proxmox-fetch-answer/src/internal/helper/cmdrun"
	"github.com/H0llyW00dzZ/proxmox-fetch-answer/src/internal/netif"
	"github.com/H0llyW00dzZ/proxmox-fetch-answer/src/logger"
)

// DefaultDMIPath is where the kernel exposes DMI/SMBIOS product data.
const DefaultDMIPath = "/sys/class/dmi/id"

// Product identifies the machine from DMI/SMBIOS data. Fields missing on the
// host are omitted rather than sent empty.
type Product struct {
	Vendor string `json:"sys_vendor,omitempty"`
	Name   string `json:"product_name,omitempty"`
	Serial string `json:"product_serial,omitempty"`
	UUID   string `json:"product_uuid,omitempty"`
}

// Network lists the usable links of the machine.
type Network struct {
	Interfaces []netif.Interface `json:"interfaces"`
}

// Host carries general host facts gathered via gopsutil.
type Host struct {
	Hostname      string `json:"hostname,omitempty"`
	KernelVersion string `json:"kernel_version,omitempty"`
	Platform      string `json:"platform,omitempty"`
	MemoryTotal   uint64 `json:"memory_total_bytes,omitempty"`
	CPUCount      int    `json:"cpu_count,omitempty"`
}

// Payload is the full system description, serialized as the POST body.
type Payload struct {
	Product Product `json:"product"`
	Network Network `json:"network"`
	Host    Host    `json:"host"`
}

// Collector gathers a Payload. Zero-value fields fall back to production
// defaults; DMIPath is injectable so tests run against a fixture directory.
type Collector struct {
	DMIPath string
	Run     cmdrun.Runner
	Log     logger.Logger
}

// NewCollector returns a Collector reading the host's real DMI tables.
func NewCollector(run cmdrun.Runner, log logger.Logger) *Collector {
	if log == nil {
		log = logger.Nop{}
	}
	return &Collector{DMIPath: DefaultDMIPath, Run: run, Log: log}
}

// Collect gathers the payload and serializes it. Individual collectors that
// fail are logged and leave their section sparse; only serialization failure
// is an error.
func (c *Collector) Collect(ctx context.Context) ([]byte, error) {
	payload := c.Gather(ctx)

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("sysinfo: serializing payload: %w", err)
	}
	return data, nil
}

// Gather collects the raw payload without serializing it.
func (c *Collector) Gather(ctx context.Context) *Payload {
	payload := &Payload{
		Product: c.product(),
		Network: Network{Interfaces: []netif.Interface{}},
	}

	ifaces, err := netif.List(ctx, c.Run)
	if err != nil {
		c.Log.Warnf("Could not enumerate network interfaces: %v", err)
	} else if len(ifaces) > 0 {
		payload.Network.Interfaces = ifaces
	}

	payload.Host = c.hostFacts()
	return payload
}

// product reads the DMI identity files. Every field is optional; firmware
// regularly leaves serials and UUIDs blank.
func (c *Collector) product() Product {
	return Product{
		Vendor: c.dmiField("sys_vendor"),
		Name:   c.dmiField("product_name"),
		Serial: c.dmiField("product_serial"),
		UUID:   c.dmiField("product_uuid"),
	}
}

func (c *Collector) dmiField(name string) string {
	data, err := os.ReadFile(filepath.Join(c.DMIPath, name))
	if err != nil {
		c.Log.Debugf("DMI field %s unavailable: %v", name, err)
		return ""
	}
	return strings.TrimSpace(string(data))
}

func (c *Collector) hostFacts() Host {
	var facts Host

	if info, err := host.Info(); err != nil {
		c.Log.Warnf("Could not gather host facts: %v", err)
	} else {
		facts.Hostname = info.Hostname
		facts.KernelVersion = info.KernelVersion
		facts.Platform = info.Platform
	}

	if vm, err := mem.VirtualMemory(); err != nil {
		c.Log.Warnf("Could not read memory size: %v", err)
	} else {
		facts.MemoryTotal = vm.Total
	}

	if count, err := cpu.Counts(true); err != nil {
		c.Log.Warnf("Could not count CPUs: %v", err)
	} else {
		facts.CPUCount = count
	}

	return facts
}
