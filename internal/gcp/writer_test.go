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
	"bytes"
	"sync"
	"testing"
)

func TestSwitchableWriter(t *testing.T) {
	var first, second bytes.Buffer
	sw := NewSwitchableWriter(&first)

	if _, err := sw.Write([]byte("one")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	sw.Switch(&second)
	if _, err := sw.Write([]byte("two")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if first.String() != "one" {
		t.Errorf("first = %q", first.String())
	}
	if second.String() != "two" {
		t.Errorf("second = %q", second.String())
	}
}

func TestSwitchableWriterNilDiscards(t *testing.T) {
	sw := NewSwitchableWriter(nil)
	n, err := sw.Write([]byte("dropped"))
	if err != nil || n != 7 {
		t.Errorf("Write() = (%d, %v), want (7, nil)", n, err)
	}
}

func TestSwitchableWriterConcurrent(t *testing.T) {
	var buf bytes.Buffer
	sw := NewSwitchableWriter(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sw.Write([]byte("x"))
		}()
	}
	wg.Wait()

	if buf.Len() != 50 {
		t.Errorf("wrote %d bytes, want 50", buf.Len())
	}
}
