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

// Package slogxl provides a log/slog backend for Google Cloud Logging with
// automatic handling of entries that exceed the Cloud Logging size limit.
//
// Records flow through a slog.Handler that renders them as structured
// payloads, maps slog levels onto the full Cloud Logging severity ladder,
// and stamps trace correlation fields from the OpenTelemetry span context
// carried by the record's context. Entries larger than the configured limit
// (255 KiB by default) are uploaded in full to a Cloud Storage bucket by a
// background worker while a truncated form carrying a gs:// reference to
// the stored object is logged in their place. Logging never blocks on the
// upload.
//
// Basic usage:
//
//	logger, err := slogxl.New(ctx,
//		slogxl.WithOverflowBucket("my-log-spill"),
//	)
//	if err != nil {
//		// handle
//	}
//	defer logger.Close()
//
//	logger.Info("service started", "port", 8080)
//	logger.Notice("config reloaded")
//
// Output can be redirected away from the Cloud Logging API to stdout,
// stderr, a file, or any io.Writer; in those modes entries are emitted as
// one structured JSON line per record using the field names the Cloud
// Logging agent understands. Configuration is read from the environment
// (LOG_LEVEL, SLOGXL_LOG_TARGET, SLOGXL_OVERFLOW_BUCKET, and friends) and
// can be overridden with functional options.
package slogxl
