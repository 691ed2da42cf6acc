// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509inspect

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"time"

	x509certs "github.com/H0llyW00dzZ/proxmox-fetch-answer/src/internal/x509/certs"
)

// Report holds the certificates collected for one target, in the order the
// server presented them (leaf first). A Report is immutable after
// construction, so it is safe for concurrent use.
type Report struct {
	// Target is the host:port the certificates were fetched from, or the
	// file path they were read from.
	Target string
	// Certs are the collected certificates, leaf first.
	Certs []*x509.Certificate
}

// Fetch establishes a TLS connection to addr and captures the certificate
// chain presented during the handshake. Verification is intentionally
// disabled: the whole point is to read the pin off a server that is not in
// any trust store yet.
//
// Parameters:
//   - ctx: Controls the overall deadline of the dial
//   - addr: Target as "host" or "host:port"; a missing port defaults to 443
//   - timeout: Per-dial timeout applied in addition to ctx
//
// Returns:
//   - *Report: Captured chain, leaf first
//   - error: Error when the dial fails or the server presents no certificates
func Fetch(ctx context.Context, addr string, timeout time.Duration) (*Report, error) {
	target := addr
	if _, _, err := net.SplitHostPort(addr); err != nil {
		target = net.JoinHostPort(addr, "443")
	}

	dialer := &net.Dialer{Timeout: timeout}
	if deadline, ok := ctx.Deadline(); ok {
		dialer.Deadline = deadline
	}

	conn, err := tls.DialWithDialer(dialer, "tcp", target,
		// We just want the cert chain, not to verify
		&tls.Config{InsecureSkipVerify: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", target, err)
	}
	defer conn.Close()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	peerCerts := conn.ConnectionState().PeerCertificates
	if len(peerCerts) == 0 {
		return nil, fmt.Errorf("no certificates received from %s", target)
	}

	return &Report{Target: target, Certs: peerCerts}, nil
}

// FromFile builds a Report from certificate material already on disk.
// PEM bundles, raw DER, and PKCS7 blobs are all accepted.
func FromFile(path string, data []byte) (*Report, error) {
	certs, err := x509certs.DecodeBundle(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode certificates from %s: %w", path, err)
	}
	return &Report{Target: path, Certs: certs}, nil
}

// Leaf returns the end-entity certificate of the report.
func (r *Report) Leaf() *x509.Certificate { return r.Certs[0] }
