// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs

import (
	"crypto/sha256"
	"crypto/x509"
	"encoding/hex"
	"strings"
)

// FingerprintSHA256 returns the SHA-256 digest of the certificate's raw DER
// encoding, formatted as colon-separated uppercase hex pairs
// (e.g. "AB:CD:EF:..."). This matches the format printed by common TLS
// tooling and the format administrators copy into pinning configuration.
func FingerprintSHA256(cert *x509.Certificate) string {
	sum := sha256.Sum256(cert.Raw)
	return FormatFingerprint(sum[:])
}

// FormatFingerprint renders digest bytes as colon-separated uppercase hex pairs.
func FormatFingerprint(sum []byte) string {
	if len(sum) == 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(len(sum)*3 - 1)

	const hexUpper = "0123456789ABCDEF"
	for i, c := range sum {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteByte(hexUpper[c>>4])
		b.WriteByte(hexUpper[c&0x0f])
	}
	return b.String()
}

// NormalizeFingerprint canonicalizes a fingerprint string for comparison:
// surrounding whitespace is trimmed, colon separators are removed, and hex
// digits are lowercased. The input is otherwise preserved, so invalid
// characters survive normalization and fail validation instead of being
// silently dropped.
func NormalizeFingerprint(fp string) string {
	fp = strings.TrimSpace(fp)
	fp = strings.ReplaceAll(fp, ":", "")
	return strings.ToLower(fp)
}

// ValidFingerprint reports whether fp normalizes to a plausible SHA-256
// digest: exactly 64 hex digits.
func ValidFingerprint(fp string) bool {
	n := NormalizeFingerprint(fp)
	if len(n) != sha256.Size*2 {
		return false
	}
	_, err := hex.DecodeString(n)
	return err == nil
}

// MatchFingerprint reports whether the certificate's SHA-256 fingerprint
// equals fp under normalization, so "aa:bb:..." and "AABB..." both match.
func MatchFingerprint(fp string, cert *x509.Certificate) bool {
	return NormalizeFingerprint(fp) == NormalizeFingerprint(FingerprintSHA256(cert))
}
