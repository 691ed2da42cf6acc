// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package logger provides abstraction and implementation for logging operations.
// It defines the leveled Logger interface consumed by the answer-source
// resolver and a default implementation backed by log/slog with a tint
// handler. Resolution keeps stdout reserved for the fetched answer document,
// so the default logger is expected to write to stderr.
package logger
