// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package transport

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/H0llyW00dzZ/proxmox-fetch-answer/src/internal/helper/gc"
	x509certs "github.com/H0llyW00dzZ/proxmox-fetch-answer/src/internal/x509/certs"
)

var (
	// ErrBadFingerprint indicates the pinned fingerprint is not a SHA-256
	// hex digest once separators are removed.
	ErrBadFingerprint = errors.New("transport: malformed certificate fingerprint")

	// ErrPinMismatch indicates the server presented a certificate whose
	// digest differs from the pinned fingerprint.
	ErrPinMismatch = errors.New("transport: certificate fingerprint did not match the pinned value")
)

// Client holds HTTP client configuration for the answer exchange.
type Client struct {
	Timeout   time.Duration // HTTP request timeout
	Version   string        // Application version for User-Agent
	UserAgent string        // Custom User-Agent string, if empty will be constructed from Version

	mu     sync.Mutex
	client *http.Client
	pinned string // normalized fingerprint the cached client was built for
}

// New creates a client configuration with the given exchange timeout.
//
// Parameters:
//   - timeout: Bound on the whole POST exchange
//   - version: Application version string
//
// Returns:
//   - *Client: New client configuration
func New(timeout time.Duration, version string) *Client {
	return &Client{
		Timeout: timeout,
		Version: version,
	}
}

// GetUserAgent returns the User-Agent string, constructing it if not set.
//
// If a custom User-Agent is configured, it returns that. Otherwise, it
// constructs a default one including the application version and GitHub URL.
//
// Returns:
//   - string: User-Agent string
func (c *Client) GetUserAgent() string {
	if c.UserAgent != "" {
		return c.UserAgent
	}
	return fmt.Sprintf("Proxmox-Fetch-Answer/%s (+https://github.com/H0llyW00dzZ/proxmox-fetch-answer)", c.Version)
}

// Post sends payload to url as JSON and returns the raw answer document.
//
// When fingerprint is non-empty, certificate-chain verification is replaced
// by a SHA-256 comparison of the presented leaf against the pinned value;
// hex case and colon separators in the fingerprint do not matter. An empty
// fingerprint leaves the standard root-store verification in place.
//
// Parameters:
//   - ctx: Context for cancellation and timeouts
//   - url: Answer service URL
//   - fingerprint: Optional pinned SHA-256 certificate fingerprint
//   - payload: JSON document sent as the request body
//
// Returns:
//   - []byte: Response body
//   - error: Error if the exchange or the trust check fails
//
// Thread Safety: Safe for concurrent use.
func (c *Client) Post(ctx context.Context, url, fingerprint string, payload []byte) ([]byte, error) {
	pin := x509certs.NormalizeFingerprint(fingerprint)
	if pin != "" && !x509certs.ValidFingerprint(pin) {
		return nil, fmt.Errorf("%w: %q", ErrBadFingerprint, fingerprint)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.GetUserAgent())

	resp, err := c.httpClient(pin).Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := gc.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response from '%s': %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("answer server returned %s: %s", resp.Status, excerpt(body))
	}

	return body, nil
}

// httpClient returns an HTTP client verifying against pin, reusing the
// cached one when the pin has not changed.
//
// Thread Safety: Safe for concurrent use.
func (c *Client) httpClient(pin string) *http.Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil && c.pinned == pin {
		if c.client.Timeout != c.Timeout {
			c.client.Timeout = c.Timeout
		}
		return c.client
	}

	c.client = &http.Client{Timeout: c.Timeout}
	if pin != "" {
		c.client.Transport = &http.Transport{
			TLSClientConfig: pinnedTLSConfig(pin),
		}
	}
	c.pinned = pin

	return c.client
}

// pinnedTLSConfig builds a TLS configuration trusting exactly one
// certificate: chain and hostname verification are replaced by a SHA-256
// comparison of the presented leaf against pin.
func pinnedTLSConfig(pin string) *tls.Config {
	return &tls.Config{
		// Trust comes from the fingerprint comparison below, not the chain.
		InsecureSkipVerify: true,
		VerifyPeerCertificate: func(rawCerts [][]byte, _ [][]*x509.Certificate) error {
			if len(rawCerts) == 0 {
				return errors.New("no certificates received from server")
			}
			cert, err := x509.ParseCertificate(rawCerts[0])
			if err != nil {
				return fmt.Errorf("parsing server certificate: %w", err)
			}
			if !x509certs.MatchFingerprint(pin, cert) {
				sum := sha256.Sum256(cert.Raw)
				return fmt.Errorf("%w: server presented %s",
					ErrPinMismatch, x509certs.FormatFingerprint(sum[:]))
			}
			return nil
		},
	}
}

// excerpt trims an error body down to something that fits on a log line.
func excerpt(body []byte) string {
	const max = 512

	s := strings.TrimSpace(string(body))
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}
