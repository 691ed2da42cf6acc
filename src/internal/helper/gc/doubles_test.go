// Copyright (c) 2026 H0llyW00dzZ All rights reserved.
//
// By accessing or use this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package gc

import "bytes"

// stubBuffer is a Buffer that is not pool-managed, for exercising Put with
// foreign implementations. bytes.Buffer supplies everything except the
// Set/SetString pair.
type stubBuffer struct {
	bytes.Buffer
}

func (s *stubBuffer) Set(p []byte) {
	s.Buffer.Reset()
	s.Buffer.Write(p)
}

func (s *stubBuffer) SetString(v string) {
	s.Buffer.Reset()
	s.Buffer.WriteString(v)
}

// failingReader simulates a response body that dies mid-read.
type failingReader struct {
	err error
}

func (f *failingReader) Read([]byte) (int, error) {
	return 0, f.err
}
