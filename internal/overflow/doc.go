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

// Package overflow redirects oversized log entries to Google Cloud Storage.
//
// Cloud Logging rejects entries above a hard size ceiling. When a serialized
// entry exceeds the configured limit, the Coordinator hands the full payload
// to an Uploader (one dedicated background goroutine per uploader, draining a
// FIFO queue) and replaces the outgoing entry with a byte-bounded truncation
// that names the storage object holding the complete content. Submission
// never blocks the logging call site; upload failures are reported through
// the internal diagnostics logger only.
//
// This package is not intended for direct use by consumers of slogxl.
package overflow
