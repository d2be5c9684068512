// Copyright 2025 The slogxl Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gcp

import (
	"io"
	"sync"
)

// SwitchableWriter serializes writes to an underlying writer and allows the
// destination to be swapped at runtime, so redirect-mode output can move
// between stdout, stderr, and files without rebuilding the handler.
type SwitchableWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSwitchableWriter wraps w. A nil w discards writes until Switch is called.
func NewSwitchableWriter(w io.Writer) *SwitchableWriter {
	return &SwitchableWriter{w: w}
}

// Write forwards to the current destination under the lock so concurrent
// log lines never interleave.
func (s *SwitchableWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.w == nil {
		return len(p), nil
	}
	return s.w.Write(p)
}

// Switch replaces the destination writer.
func (s *SwitchableWriter) Switch(w io.Writer) {
	s.mu.Lock()
	s.w = w
	s.mu.Unlock()
}
