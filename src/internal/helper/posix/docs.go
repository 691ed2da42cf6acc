// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

// Package posix provides [POSIX]-compliant helper functions for cross-platform compatibility.
//
// This package contains utility functions that ensure [POSIX]-compliant behavior
// across different operating systems, particularly for executable name handling
// that needs to work consistently on [Unix-like] systems. The answer fetcher is
// installed under different names on installer media and during development, so
// CLI usage strings derive the name from the running executable instead of
// hardcoding it.
//
// Key functions:
//   - GetExecutableName: Returns the executable name without extension for CLI usage
//
// [POSIX]: https://grokipedia.com/page/POSIX
// [Unix-like]: https://grokipedia.com/page/Unix-like
package posix
