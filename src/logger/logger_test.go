// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package logger_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/H0llyW00dzZ/proxmox-fetch-answer/src/logger"
	"github.com/stretchr/testify/assert"
)

func TestSlogLogger(t *testing.T) {
	tests := []struct {
		name     string
		testFunc func(t *testing.T)
	}{
		{
			name: "Infof",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.New(&buf, logger.Options{NoColor: true})

				log.Infof("resolved answer URL %q", "http://x/y")

				output := buf.String()
				assert.Contains(t, output, "INF", "expected info level marker")
				assert.Contains(t, output, `resolved answer URL "http://x/y"`, "expected formatted message")
			},
		},
		{
			name: "Warnf",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.New(&buf, logger.Options{NoColor: true})

				log.Warnf("mount failed: %s", "exit status 32")

				output := buf.String()
				assert.Contains(t, output, "WRN", "expected warn level marker")
				assert.Contains(t, output, "mount failed: exit status 32", "expected formatted message")
			},
		},
		{
			name: "Errorf",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.New(&buf, logger.Options{NoColor: true})

				log.Errorf("no answer URL found")

				assert.Contains(t, buf.String(), "ERR", "expected error level marker")
			},
		},
		{
			name: "DebugSuppressedByDefault",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.New(&buf, logger.Options{NoColor: true})

				log.Debugf("querying TXT record")

				assert.Empty(t, buf.String(), "debug output should be suppressed without Debug option")
			},
		},
		{
			name: "DebugEnabled",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.New(&buf, logger.Options{Debug: true, NoColor: true})

				log.Debugf("querying TXT record")

				assert.Contains(t, buf.String(), "querying TXT record", "expected debug message with Debug option")
			},
		},
		{
			name: "NoColorOutputHasNoEscapes",
			testFunc: func(t *testing.T) {
				var buf bytes.Buffer
				log := logger.New(&buf, logger.Options{NoColor: true})

				log.Infof("plain")

				assert.False(t, strings.Contains(buf.String(), "\x1b["), "expected no ANSI escapes with NoColor")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.testFunc(t)
		})
	}
}

func TestNop(t *testing.T) {
	// Nop must be callable without any setup; nothing to assert beyond not panicking.
	var log logger.Logger = logger.Nop{}

	log.Debugf("ignored %d", 1)
	log.Infof("ignored")
	log.Warnf("ignored")
	log.Errorf("ignored")
}
