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
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateFitsLimit(t *testing.T) {
	entry := []byte(strings.Repeat("x", 4096))

	testCases := []struct {
		name   string
		refURI string
		limit  int
	}{
		{"with reference", "gs://bucket/logs/1722000000_inst.log", 1024},
		{"without reference", "", 1024},
		{"very long reference", "gs://bucket/" + strings.Repeat("k", 900), 1024},
		{"reference longer than limit", "gs://bucket/" + strings.Repeat("k", 2000), 128},
		{"tiny limit", "gs://b/o", 8},
		{"limit smaller than notice", "", 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := truncate(entry, tc.refURI, tc.limit)
			if len(got) > tc.limit {
				t.Errorf("truncate() produced %d bytes, limit %d", len(got), tc.limit)
			}
			if !utf8.Valid(got) {
				t.Errorf("truncate() produced invalid UTF-8: %q", got)
			}
		})
	}
}

func TestTruncateLayout(t *testing.T) {
	entry := []byte(strings.Repeat("a", 500))
	uri := "gs://bucket/logs/1722000000.log"

	got := string(truncate(entry, uri, 200))

	if !strings.Contains(got, truncationNotice) {
		t.Errorf("output missing truncation notice: %q", got)
	}
	if !strings.HasSuffix(got, referencePrefix+uri) {
		t.Errorf("output missing reference line: %q", got)
	}
	if !strings.HasPrefix(got, "aaa") {
		t.Errorf("output should begin with original content prefix: %q", got)
	}

	// Without a reference URI the notice terminates the output.
	got = string(truncate(entry, "", 200))
	if !strings.HasSuffix(got, truncationNotice) {
		t.Errorf("output without reference should end with notice: %q", got)
	}
	if strings.Contains(got, "Full log at") {
		t.Errorf("output without reference should carry no reference line: %q", got)
	}
}

// TestTruncateRuneBoundary sweeps every cut point across multi-byte content
// and verifies no output ever splits an encoded character.
func TestTruncateRuneBoundary(t *testing.T) {
	// 2-, 3-, and 4-byte encodings interleaved with ASCII.
	entry := []byte(strings.Repeat("é界🜂x", 64))
	uri := "gs://bucket/logs/1.log"

	for limit := len(truncationNotice); limit < 160; limit++ {
		got := truncate(entry, uri, limit)
		if len(got) > limit {
			t.Fatalf("limit %d: output %d bytes", limit, len(got))
		}
		if !utf8.Valid(got) {
			t.Fatalf("limit %d: invalid UTF-8 output %q", limit, got)
		}
	}
}

func TestTruncatePrefixIsByteAccurate(t *testing.T) {
	entry := []byte("0123456789abcdef")
	uri := "gs://b/l"

	got := truncate(entry, uri, len(truncationNotice)+len(referencePrefix)+len(uri)+5)
	if !bytes.HasPrefix(got, []byte("01234")) {
		t.Errorf("expected 5-byte prefix of original entry, got %q", got)
	}
}

func TestShrinkReplacement(t *testing.T) {
	uri := "gs://bucket/logs/1722000000.log"
	suffix := truncationNotice + referencePrefix + uri
	replacement := truncate([]byte(strings.Repeat("a", 500)), uri, 200)

	t.Run("removes from prefix and keeps suffix", func(t *testing.T) {
		got := ShrinkReplacement(replacement, 50)
		if len(got) > len(replacement)-50 {
			t.Errorf("shrunk by %d bytes, want at least 50", len(replacement)-len(got))
		}
		if !strings.HasSuffix(string(got), suffix) {
			t.Errorf("suffix lost: %q", got)
		}
		if !strings.HasPrefix(string(got), "aaa") {
			t.Errorf("content prefix lost entirely: %q", got)
		}
	})

	t.Run("prefix exhausted leaves bare suffix", func(t *testing.T) {
		got := ShrinkReplacement(replacement, len(replacement))
		if string(got) != suffix {
			t.Errorf("got %q, want bare suffix", got)
		}
	})

	t.Run("non-positive n is identity", func(t *testing.T) {
		if got := ShrinkReplacement(replacement, 0); !bytes.Equal(got, replacement) {
			t.Errorf("ShrinkReplacement(_, 0) modified input")
		}
	})

	t.Run("rune boundary respected", func(t *testing.T) {
		multi := truncate([]byte(strings.Repeat("é界🜂x", 64)), uri, 200)
		for n := 1; n < 40; n++ {
			got := ShrinkReplacement(multi, n)
			if !utf8.Valid(got) {
				t.Fatalf("n=%d: invalid UTF-8 output %q", n, got)
			}
		}
	})

	t.Run("no notice marker clips from end", func(t *testing.T) {
		got := ShrinkReplacement([]byte("plain bytes"), 5)
		if string(got) != "plain " {
			t.Errorf("got %q, want %q", got, "plain ")
		}
	})
}

func TestClipToRuneBoundary(t *testing.T) {
	testCases := []struct {
		name string
		in   []byte
		max  int
		want []byte
	}{
		{"ascii untouched", []byte("hello"), 5, []byte("hello")},
		{"ascii cut", []byte("hello"), 3, []byte("hel")},
		{"negative max", []byte("hello"), -1, nil},
		{"cut mid 3-byte rune", []byte("a\xe7\x95\x8c"), 2, []byte("a")},
		{"cut mid 4-byte rune keeps earlier rune", []byte("é\xf0\x9f\x9c\x82"), 4, []byte("é")},
		{"boundary cut keeps rune", []byte("é"), 2, []byte("é")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := clipToRuneBoundary(append([]byte(nil), tc.in...), tc.max)
			if !bytes.Equal(got, tc.want) {
				t.Errorf("clipToRuneBoundary(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
			}
		})
	}
}
