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

package overflow

import (
	"strings"
	"testing"
	"time"
)

func testMeta() EntryMeta {
	return EntryMeta{
		Time:       time.Unix(1722000000, 0),
		InstanceID: "inst-1",
		TraceID:    "0af7651916cd43dd8448eb211c80319c",
		SpanID:     "b7ad6b7169203331",
	}
}

func TestCoordinatorPassesSmallEntriesThrough(t *testing.T) {
	fake := &fakeBlobClient{}
	c := NewCoordinator(CoordinatorConfig{
		Bucket:        "big-logs",
		MaxEntryBytes: 64,
		NewClient:     fixedFactory(fake, nil),
	})
	defer c.Shutdown(time.Second)

	testCases := []struct {
		name string
		size int
	}{
		{"under limit", 10},
		{"exactly at limit", 64},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			entry := []byte(strings.Repeat("a", tc.size))
			replacement, truncated := c.Process(testMeta(), entry)
			if truncated {
				t.Errorf("entry of %d bytes truncated at limit 64", tc.size)
			}
			if replacement != nil {
				t.Errorf("replacement = %q, want nil pass-through", replacement)
			}
		})
	}

	if got := fake.uploaded(); len(got) != 0 {
		t.Errorf("uploads for in-limit entries: %v", got)
	}
}

func TestCoordinatorOffloadsOversizedEntries(t *testing.T) {
	fake := &fakeBlobClient{}
	c := NewCoordinator(CoordinatorConfig{
		Bucket:        "big-logs",
		MaxEntryBytes: 128,
		NewClient:     fixedFactory(fake, nil),
	})

	entry := []byte(strings.Repeat("z", 129))
	replacement, truncated := c.Process(testMeta(), entry)
	if !truncated {
		t.Fatal("oversized entry not truncated")
	}
	if len(replacement) > 128 {
		t.Errorf("replacement is %d bytes, limit 128", len(replacement))
	}

	out := string(replacement)
	if !strings.Contains(out, truncationNotice) {
		t.Errorf("replacement missing notice: %q", out)
	}
	wantURIPrefix := "gs://big-logs/logs/1722000000"
	if !strings.Contains(out, wantURIPrefix) {
		t.Errorf("replacement missing URI %q...: %q", wantURIPrefix, out)
	}

	if err := c.Shutdown(5 * time.Second); err != nil {
		t.Fatalf("Shutdown() = %v", err)
	}
	got := fake.uploaded()
	if len(got) != 1 {
		t.Fatalf("uploaded %d objects, want 1", len(got))
	}
	if !strings.HasPrefix(got[0], "logs/1722000000_inst-1_") {
		t.Errorf("object key = %q, want logs/<ts>_<instance>_... form", got[0])
	}
}

// TestCoordinatorNoBucketPassesThrough pins the chosen policy for the
// no-destination case: oversized entries are emitted unmodified rather than
// truncated without a recoverable copy.
func TestCoordinatorNoBucketPassesThrough(t *testing.T) {
	c := NewCoordinator(CoordinatorConfig{MaxEntryBytes: 32})

	entry := []byte(strings.Repeat("q", 100))
	replacement, truncated := c.Process(testMeta(), entry)
	if truncated || replacement != nil {
		t.Errorf("Process() = (%q, %v), want unmodified pass-through", replacement, truncated)
	}

	if err := c.Shutdown(time.Second); err != nil {
		t.Errorf("Shutdown() on bucketless coordinator = %v", err)
	}
}

// TestCoordinatorRejectedSubmitDropsReference verifies that when the
// uploader cannot accept the task the inline record carries the truncation
// notice but no storage URI.
func TestCoordinatorRejectedSubmitDropsReference(t *testing.T) {
	fake := &fakeBlobClient{}
	c := NewCoordinator(CoordinatorConfig{
		Bucket:        "big-logs",
		MaxEntryBytes: 128,
		NewClient:     fixedFactory(fake, nil),
	})
	// Drain the uploader first so every subsequent submit is rejected.
	if err := c.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown() = %v", err)
	}

	entry := []byte(strings.Repeat("z", 500))
	replacement, truncated := c.Process(testMeta(), entry)
	if !truncated {
		t.Fatal("oversized entry not truncated")
	}
	out := string(replacement)
	if !strings.Contains(out, truncationNotice) {
		t.Errorf("replacement missing notice: %q", out)
	}
	if strings.Contains(out, "gs://") {
		t.Errorf("replacement should carry no URI after rejected submit: %q", out)
	}
	if len(replacement) > 128 {
		t.Errorf("replacement is %d bytes, limit 128", len(replacement))
	}
}

func TestCoordinatorDefaultLimit(t *testing.T) {
	c := NewCoordinator(CoordinatorConfig{})
	if got := c.MaxEntryBytes(); got != DefaultMaxEntryBytes {
		t.Errorf("MaxEntryBytes() = %d, want %d", got, DefaultMaxEntryBytes)
	}
}
