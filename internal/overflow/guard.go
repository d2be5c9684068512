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

// DefaultMaxEntryBytes is the size ceiling applied to serialized log entries
// when no override is configured. It is the Cloud Logging per-entry limit
// (256 KiB) minus a kibibyte of headroom for entry metadata.
const DefaultMaxEntryBytes = 255 * 1024

// exceedsLimit reports whether a serialized entry of n bytes is over the
// ceiling. An entry of exactly limit bytes is not over.
func exceedsLimit(n, limit int) bool {
	return n > limit
}
