// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package transport performs the HTTPS exchange that retrieves the answer
// document: one POST of the system-information payload to the resolved URL.
//
// Trust follows the resolved location. With a pinned fingerprint the server
// is trusted iff the SHA-256 digest of its leaf certificate matches,
// which lets installations use self-signed answer services without
// shipping a CA. Without a pin the standard root-store verification
// applies unchanged.
package transport
