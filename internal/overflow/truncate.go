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
	"unicode/utf8"
)

const (
	// truncationNotice terminates the retained prefix of an oversized entry.
	truncationNotice = "... [truncated]"
	// referencePrefix introduces the storage URI of the full entry, when the
	// upload was accepted.
	referencePrefix = "\nMessage has been truncated. Full log at: "
)

// truncate produces a replacement for an oversized entry that fits within
// limit bytes: a rune-safe prefix of the original content, the truncation
// notice, and a reference line naming refURI. When refURI is empty (the
// upload was not accepted) the reference line is omitted.
//
// The returned slice never exceeds limit bytes, regardless of refURI length,
// and never ends mid-way through a multi-byte UTF-8 sequence.
func truncate(entry []byte, refURI string, limit int) []byte {
	suffix := truncationNotice
	if refURI != "" {
		suffix += referencePrefix + refURI
	}

	budget := limit - len(suffix)
	if budget < 0 {
		// The notice and reference alone exceed the ceiling. Keep none of the
		// original content and clip the suffix itself.
		return clipToRuneBoundary([]byte(suffix), limit)
	}
	if budget > len(entry) {
		budget = len(entry)
	}

	prefix := clipToRuneBoundary(entry[:budget], budget)
	out := make([]byte, 0, len(prefix)+len(suffix))
	out = append(out, prefix...)
	out = append(out, suffix...)
	return out
}

// ShrinkReplacement removes at least n bytes from the retained content
// prefix of a replacement produced by Process, keeping the truncation
// notice and reference suffix intact. Callers that wrap the replacement in
// an envelope of their own (JSON escaping, severity and timestamp fields)
// use it to make room for that envelope. When the prefix cannot absorb n
// bytes, the bare suffix is returned.
func ShrinkReplacement(replacement []byte, n int) []byte {
	if n <= 0 {
		return replacement
	}
	i := bytes.LastIndex(replacement, []byte(truncationNotice))
	if i < 0 {
		return clipToRuneBoundary(replacement, len(replacement)-n)
	}
	prefix, suffix := replacement[:i], replacement[i:]
	if n >= len(prefix) {
		return suffix
	}
	out := clipToRuneBoundary(prefix, len(prefix)-n)
	return append(out[:len(out):len(out)], suffix...)
}

// clipToRuneBoundary shortens b to at most max bytes, then drops any
// incomplete trailing UTF-8 sequence introduced by the cut. At most
// utf8.UTFMax-1 bytes are removed; byte sequences that were already invalid
// before the cut are left alone.
func clipToRuneBoundary(b []byte, max int) []byte {
	if max < 0 {
		return nil
	}
	if len(b) > max {
		b = b[:max]
	}
	for i := 0; i < utf8.UTFMax-1 && len(b) > 0; i++ {
		r, size := utf8.DecodeLastRune(b)
		if r != utf8.RuneError || size != 1 {
			break
		}
		b = b[:len(b)-1]
	}
	return b
}
