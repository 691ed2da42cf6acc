// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package x509inspect captures the certificate chain an answer server presents
// during a TLS handshake and renders it for operators. Its main job is making
// the SHA-256 pin for a target host easy to read off before it is written into
// DHCP or DNS zones, so verification happens without a second tool.
package x509inspect
