// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509certs

import (
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/cloudflare/cfssl/crypto/pkcs7"
)

const certBlockType = "CERTIFICATE"

var (
	// ErrUnexpectedBlockType indicates PEM input carrying a block that is
	// not a certificate (a key, a CSR, ...).
	ErrUnexpectedBlockType = errors.New("x509certs: unexpected PEM block type")

	// ErrNoCertificates indicates input that decoded cleanly but contained
	// no certificates.
	ErrNoCertificates = errors.New("x509certs: no certificates found")

	// ErrUnknownFormat indicates data in none of the supported formats.
	ErrUnknownFormat = errors.New("x509certs: data is not PEM, DER or PKCS#7")
)

// DecodeBundle parses every certificate in data, preserving input order.
// Operators hand the fingerprint tooling whatever certificate material they
// have, so PEM bundles, raw DER (single or concatenated), and PKCS#7 blobs
// are all accepted.
func DecodeBundle(data []byte) ([]*x509.Certificate, error) {
	if isPEM(data) {
		return decodePEMBundle(data)
	}

	if certs, err := x509.ParseCertificates(data); err == nil && len(certs) > 0 {
		return certs, nil
	}

	p, err := pkcs7.ParsePKCS7(data)
	if err != nil {
		return nil, ErrUnknownFormat
	}
	if len(p.Content.SignedData.Certificates) == 0 {
		return nil, ErrNoCertificates
	}
	return p.Content.SignedData.Certificates, nil
}

// Decode parses the first certificate in data, accepting the same formats
// as DecodeBundle.
func Decode(data []byte) (*x509.Certificate, error) {
	certs, err := DecodeBundle(data)
	if err != nil {
		return nil, err
	}
	return certs[0], nil
}

func isPEM(data []byte) bool {
	block, _ := pem.Decode(data)
	return block != nil
}

func decodePEMBundle(data []byte) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate

	for len(data) > 0 {
		block, rest := pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != certBlockType {
			return nil, fmt.Errorf("%w: %q", ErrUnexpectedBlockType, block.Type)
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("x509certs: parsing certificate: %w", err)
		}

		certs = append(certs, cert)
		data = rest
	}

	if len(certs) == 0 {
		return nil, ErrNoCertificates
	}
	return certs, nil
}

// EncodePEM renders cert as a PEM block.
func EncodePEM(cert *x509.Certificate) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: certBlockType, Bytes: cert.Raw})
}

// EncodeBundlePEM renders certs as one PEM bundle, preserving order. The
// fingerprint command uses this to dump a captured chain for inspection
// with standard TLS tooling.
func EncodeBundlePEM(certs []*x509.Certificate) []byte {
	var data []byte
	for _, cert := range certs {
		data = append(data, EncodePEM(cert)...)
	}
	return data
}
