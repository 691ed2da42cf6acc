// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs_test

import (
	"crypto/x509"
	"encoding/pem"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	x509certs "github.com/H0llyW00dzZ/proxmox-fetch-answer/src/internal/x509/certs"
)

// TestFormatFingerprint verifies digest rendering against hand-written expectations
func TestFormatFingerprint(t *testing.T) {
	tests := []struct {
		name string
		sum  []byte
		want string
	}{
		{
			name: "Three bytes",
			sum:  []byte{0x00, 0xab, 0xff},
			want: "00:AB:FF",
		},
		{
			name: "Single byte",
			sum:  []byte{0x5c},
			want: "5C",
		},
		{
			name: "Empty digest",
			sum:  nil,
			want: "",
		},
		{
			name: "Mixed nibbles",
			sum:  []byte{0x12, 0x34, 0xde, 0xf0},
			want: "12:34:DE:F0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, x509certs.FormatFingerprint(tt.sum), "FormatFingerprint() result")
		})
	}
}

// TestFingerprintSHA256 verifies the certificate fingerprint shape and stability
func TestFingerprintSHA256(t *testing.T) {
	cert := parseTestCert(t)

	fp := x509certs.FingerprintSHA256(cert)

	// 32 digest bytes render as 64 hex digits plus 31 separators.
	assert.Len(t, fp, 95, "fingerprint length")
	assert.Equal(t, 31, strings.Count(fp, ":"), "separator count")
	assert.Equal(t, strings.ToUpper(fp), fp, "fingerprint should be uppercase")

	for _, part := range strings.Split(fp, ":") {
		assert.Len(t, part, 2, "each pair should be two hex digits")
	}

	assert.Equal(t, fp, x509certs.FingerprintSHA256(cert), "fingerprint should be deterministic")
}

// TestNormalizeFingerprint verifies canonicalization rules
func TestNormalizeFingerprint(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "Uppercase with colons",
			input: "AA:BB:CC",
			want:  "aabbcc",
		},
		{
			name:  "Already normalized",
			input: "aabbcc",
			want:  "aabbcc",
		},
		{
			name:  "Surrounding whitespace",
			input: "  AA:bb:Cc\n",
			want:  "aabbcc",
		},
		{
			name:  "Empty string",
			input: "",
			want:  "",
		},
		{
			name:  "Invalid characters survive",
			input: "ZZ:11",
			want:  "zz11",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, x509certs.NormalizeFingerprint(tt.input), "NormalizeFingerprint() result")
		})
	}
}

// TestValidFingerprint verifies shape validation for pinned fingerprints
func TestValidFingerprint(t *testing.T) {
	cert := parseTestCert(t)
	real := x509certs.FingerprintSHA256(cert)

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{
			name:  "Real certificate fingerprint",
			input: real,
			want:  true,
		},
		{
			name:  "Lowercase without colons",
			input: x509certs.NormalizeFingerprint(real),
			want:  true,
		},
		{
			name:  "Too short",
			input: "AA:BB:CC",
			want:  false,
		},
		{
			name:  "Right length, bad digits",
			input: strings.Repeat("zz", 32),
			want:  false,
		},
		{
			name:  "Empty string",
			input: "",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, x509certs.ValidFingerprint(tt.input), "ValidFingerprint() result")
		})
	}
}

// TestMatchFingerprint verifies comparison under normalization
func TestMatchFingerprint(t *testing.T) {
	cert := parseTestCert(t)
	real := x509certs.FingerprintSHA256(cert)

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{
			name:  "Exact uppercase form",
			input: real,
			want:  true,
		},
		{
			name:  "Lowercase without colons",
			input: strings.ToLower(strings.ReplaceAll(real, ":", "")),
			want:  true,
		},
		{
			name:  "Whitespace around value",
			input: " " + real + "\n",
			want:  true,
		},
		{
			name:  "Tampered digest",
			input: "00" + real[2:],
			want:  real[:2] == "00", // only matches if the digest actually starts with 00
		},
		{
			name:  "Empty fingerprint",
			input: "",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, x509certs.MatchFingerprint(tt.input, cert), "MatchFingerprint() result")
		})
	}
}

func parseTestCert(t *testing.T) *x509.Certificate {
	t.Helper()

	block, _ := pem.Decode([]byte(testCertPEM))
	require.NotNil(t, block, "failed to parse certificate PEM")

	cert, err := x509.ParseCertificate(block.Bytes)
	require.NoError(t, err, "failed to parse test certificate")
	return cert
}
