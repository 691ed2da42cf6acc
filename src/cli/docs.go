// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package cli provides the command-line interface for the answer fetcher.
// It implements a Cobra-based CLI whose root command runs the full
// pipeline (resolve the answer location, gather system information, POST
// it, print the answer), plus diagnostic subcommands: probing the answer
// sources individually and capturing certificate fingerprints for
// pinning. The package handles file I/O, context cancellation, and
// integrates with the logger package for structured output and error
// reporting.
package cli
