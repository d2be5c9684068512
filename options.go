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

package slogxl

import (
	"io"
	"log/slog"
	"time"

	mrpb "google.golang.org/genproto/googleapis/api/monitoredres"

	"github.com/cloudwisp/slogxl/internal/gcp"
)

// Option overrides a setting resolved from defaults and the environment.
type Option func(*gcp.Config)

// WithLevel sets the initial minimum level. The level can be changed later
// with (*Logger).SetLevel.
func WithLevel(level slog.Level) Option {
	return func(c *gcp.Config) { c.InitialLevel = level }
}

// WithSourceLocationEnabled toggles caller file/line/function enrichment.
// Resolving the caller costs a runtime lookup per record, so it defaults
// to off.
func WithSourceLocationEnabled(enabled bool) Option {
	return func(c *gcp.Config) { c.AddSource = enabled }
}

// WithProjectID sets the Google Cloud project entries are written to,
// overriding environment and metadata-server detection.
func WithProjectID(projectID string) Option {
	return func(c *gcp.Config) {
		c.ProjectID = projectID
		c.Parent = "projects/" + projectID
	}
}

// WithLogID sets the Cloud Logging log name entries are written under.
func WithLogID(logID string) Option {
	return func(c *gcp.Config) { c.LogID = logID }
}

// WithCommonLabels attaches labels to every entry.
func WithCommonLabels(labels map[string]string) Option {
	return func(c *gcp.Config) { c.CommonLabels = labels }
}

// WithMonitoredResource overrides the resource Cloud Logging associates
// with entries.
func WithMonitoredResource(res *mrpb.MonitoredResource) Option {
	return func(c *gcp.Config) { c.MonitoredResource = res }
}

// WithGCPTarget forces delivery to the Cloud Logging API. With an explicit
// GCP target, New fails when the client cannot be initialized instead of
// falling back to stdout JSON.
func WithGCPTarget() Option {
	return func(c *gcp.Config) {
		c.Target = gcp.LogTargetGCP
		c.TargetExplicit = true
	}
}

// WithRedirectToStdout sends output to standard output as JSON lines
// instead of the Cloud Logging API.
func WithRedirectToStdout() Option {
	return func(c *gcp.Config) {
		c.Target = gcp.LogTargetStdout
		c.TargetExplicit = true
	}
}

// WithRedirectToStderr sends output to standard error as JSON lines.
func WithRedirectToStderr() Option {
	return func(c *gcp.Config) {
		c.Target = gcp.LogTargetStderr
		c.TargetExplicit = true
	}
}

// WithRedirectToFile appends JSON lines to the file at path, creating it if
// needed. The file is closed by (*Logger).Close.
func WithRedirectToFile(path string) Option {
	return func(c *gcp.Config) {
		c.Target = gcp.LogTargetFile
		c.TargetExplicit = true
		c.OpenedFilePath = path
	}
}

// WithRedirectWriter sends JSON lines to w. Close is never called on w.
func WithRedirectWriter(w io.Writer) Option {
	return func(c *gcp.Config) {
		c.Target = gcp.LogTargetWriter
		c.TargetExplicit = true
		c.RedirectWriter = w
	}
}

// WithOverflowBucket names the Cloud Storage bucket that receives the full
// payload of oversized entries. Without a bucket, oversized entries pass
// through unchanged.
func WithOverflowBucket(bucket string) Option {
	return func(c *gcp.Config) { c.OverflowBucket = bucket }
}

// WithMaxEntryBytes sets the size threshold above which a serialized entry
// is offloaded. Values of zero or below restore the 255 KiB default.
func WithMaxEntryBytes(n int) Option {
	return func(c *gcp.Config) { c.MaxEntryBytes = n }
}

// WithOverflowQueueSize bounds the number of uploads that may be waiting
// for the background worker before further oversized entries are truncated
// without a stored copy.
func WithOverflowQueueSize(n int) Option {
	return func(c *gcp.Config) { c.OverflowQueueSize = n }
}

// WithShutdownTimeout bounds how long Close waits for pending uploads.
func WithShutdownTimeout(d time.Duration) Option {
	return func(c *gcp.Config) { c.ShutdownTimeout = d }
}

// WithDiagnosticLogger directs slogxl's own diagnostics (dropped uploads,
// client failures) to logger. Diagnostics are discarded when unset.
func WithDiagnosticLogger(logger *slog.Logger) Option {
	return func(c *gcp.Config) { c.Diag = logger }
}
