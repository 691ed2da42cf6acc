// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package x509inspect

import (
	"crypto/ecdsa"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"

	x509certs "github.com/H0llyW00dzZ/proxmox-fetch-answer/src/internal/x509/certs"
)

// RenderTable renders the captured chain as a formatted markdown table.
//
// It displays certificate details including role, subject, issuer, validity
// dates, key size, and the SHA-256 fingerprint in a tabular format using
// tablewriter. The leaf row carries the fingerprint an operator publishes
// alongside the answer URL.
//
// Returns:
//   - string: Markdown table representation of the captured chain
//
// Thread Safety: Safe for concurrent use.
func (r *Report) RenderTable() string {
	if len(r.Certs) == 0 {
		return "No certificates to display"
	}

	var buf strings.Builder
	table := tablewriter.NewTable(&buf,
		tablewriter.WithRenderer(renderer.NewMarkdown(tw.Rendition{Streaming: true})),
	)

	headers := []string{"🔢 #", "🏷️ Role", "📛 Subject", "🏢 Issuer", "📅 Valid Until", "🔐 Key Size", "🔏 SHA-256 Fingerprint"}
	table.Header(headers)

	var rows [][]string
	for i, cert := range r.Certs {
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			r.certificateRole(i),
			cert.Subject.CommonName,
			cert.Issuer.CommonName,
			cert.NotAfter.Format("2006-01-02"),
			keySizeString(cert.PublicKey),
			x509certs.FingerprintSHA256(cert),
		})
	}

	table.Bulk(rows)
	table.Render()
	return buf.String()
}

// RenderJSON converts the captured chain to structured JSON for external tools.
//
// It creates a data structure including certificate details, SHA-256
// fingerprints, and hierarchical relationships suitable for scripting the
// pin into provisioning systems.
//
// Returns:
//   - []byte: JSON representation of the captured chain
//   - error: Error if JSON marshaling fails
//
// Thread Safety: Safe for concurrent use.
func (r *Report) RenderJSON() ([]byte, error) {
	type CertificateData struct {
		Index              int       `json:"index"`
		Role               string    `json:"role"`
		Subject            string    `json:"subject"`
		Issuer             string    `json:"issuer"`
		SerialNumber       string    `json:"serialNumber"`
		SignatureAlgorithm string    `json:"signatureAlgorithm"`
		PublicKeyAlgorithm string    `json:"publicKeyAlgorithm"`
		KeySize            int       `json:"keySize"`
		NotBefore          time.Time `json:"notBefore"`
		NotAfter           time.Time `json:"notAfter"`
		IsCA               bool      `json:"isCA"`
		FingerprintSHA256  string    `json:"fingerprintSHA256"`
	}

	type ReportData struct {
		Timestamp    string            `json:"timestamp"`
		Target       string            `json:"target"`
		ChainLength  int               `json:"chainLength"`
		PinSHA256    string            `json:"pinSHA256"`
		Certificates []CertificateData `json:"certificates"`
	}

	data := ReportData{
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		Target:       r.Target,
		ChainLength:  len(r.Certs),
		PinSHA256:    x509certs.FingerprintSHA256(r.Leaf()),
		Certificates: make([]CertificateData, len(r.Certs)),
	}

	for i, cert := range r.Certs {
		keySize := 0
		pubKeyAlgo := "unknown"

		switch pubKey := cert.PublicKey.(type) {
		case *rsa.PublicKey:
			keySize = pubKey.Size() * 8
			pubKeyAlgo = "RSA"
		case *ecdsa.PublicKey:
			keySize = pubKey.Curve.Params().BitSize
			pubKeyAlgo = "ECDSA"
		}

		data.Certificates[i] = CertificateData{
			Index:              i,
			Role:               r.certificateRole(i),
			Subject:            cert.Subject.CommonName,
			Issuer:             cert.Issuer.CommonName,
			SerialNumber:       cert.SerialNumber.String(),
			SignatureAlgorithm: cert.SignatureAlgorithm.String(),
			PublicKeyAlgorithm: pubKeyAlgo,
			KeySize:            keySize,
			NotBefore:          cert.NotBefore,
			NotAfter:           cert.NotAfter,
			IsCA:               cert.IsCA,
			FingerprintSHA256:  x509certs.FingerprintSHA256(cert),
		}
	}

	return json.MarshalIndent(data, "", "  ")
}

// RenderPEM encodes the captured chain as a PEM bundle, leaf first.
//
// Returns:
//   - []byte: PEM representation of the captured chain
//
// Thread Safety: Safe for concurrent use.
func (r *Report) RenderPEM() []byte {
	return x509certs.EncodeBundlePEM(r.Certs)
}

// certificateRole determines the role of a certificate in the captured chain.
//
// It returns a descriptive string indicating the certificate's position
// and function within the certificate chain hierarchy.
//
// Parameters:
//   - index: Zero-based position of the certificate in the chain
//
// Returns:
//   - string: Role description ("End-Entity", "Intermediate CA", or "Root CA")
//
// Thread Safety: Safe for concurrent use (no state modification).
func (r *Report) certificateRole(index int) string {
	total := len(r.Certs)
	switch {
	case total == 1:
		return "Self-Signed Certificate"
	case index == 0:
		return "End-Entity (Server/Leaf) Certificate"
	case index == total-1:
		return "Root CA Certificate"
	default:
		return "Intermediate CA Certificate"
	}
}

func keySizeString(pub any) string {
	switch key := pub.(type) {
	case *rsa.PublicKey:
		return fmt.Sprintf("%d-bit RSA", key.Size()*8)
	case *ecdsa.PublicKey:
		return fmt.Sprintf("%d-bit ECDSA", key.Curve.Params().BitSize)
	default:
		return "unknown"
	}
}
