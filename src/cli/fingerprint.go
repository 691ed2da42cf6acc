// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	x509inspect "github.com/H0llyW00dzZ/proxmox-fetch-answer/src/internal/x509/inspect"
)

var (
	fingerprintJSON bool
	fingerprintPEM  bool
)

// fingerprintDialTimeout bounds the TLS dial when the target is a host.
const fingerprintDialTimeout = 10 * time.Second

func newFingerprintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fingerprint TARGET",
		Short: "Show SHA-256 certificate fingerprints for a host or certificate file",
		Long: `Captures the certificate chain of TARGET and prints each certificate
with its SHA-256 fingerprint. The leaf fingerprint is the value to pin
next to the answer URL.

TARGET is either HOST[:PORT] (the presented TLS chain is captured
without verification; port defaults to 443) or a certificate file in
PEM, DER or PKCS#7 format.`,
		Args: cobra.ExactArgs(1),
		RunE: runFingerprint,
	}

	cmd.Flags().BoolVarP(&fingerprintJSON, "json", "j", false, "emit the chain report as JSON")
	cmd.Flags().BoolVar(&fingerprintPEM, "pem", false, "dump the captured chain as a PEM bundle")

	return cmd
}

func runFingerprint(cmd *cobra.Command, args []string) error {
	report, err := inspectTarget(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	switch {
	case fingerprintPEM:
		_, err = cmd.OutOrStdout().Write(report.RenderPEM())
		return err
	case fingerprintJSON:
		data, err := report.RenderJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	default:
		fmt.Fprint(cmd.OutOrStdout(), report.RenderTable())
		return nil
	}
}

// inspectTarget treats target as a certificate file when it exists on
// disk and as HOST[:PORT] otherwise.
func inspectTarget(ctx context.Context, target string) (*x509inspect.Report, error) {
	if data, err := os.ReadFile(target); err == nil {
		return x509inspect.FromFile(target, data)
	}
	return x509inspect.Fetch(ctx, target, fingerprintDialTimeout)
}
