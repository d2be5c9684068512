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
	"fmt"
	"log/slog"
	"time"
)

// EntryMeta carries the entry metadata the coordinator needs to derive a
// storage object key. Identifier fields use the "-" placeholder (or empty)
// when unavailable.
type EntryMeta struct {
	Time       time.Time
	InstanceID string
	TraceID    string
	SpanID     string
}

// CoordinatorConfig carries construction parameters for a Coordinator.
type CoordinatorConfig struct {
	// Bucket is the overflow destination. Empty disables offloading: the
	// coordinator passes oversized entries through unchanged.
	Bucket string
	// MaxEntryBytes overrides the size ceiling when positive; otherwise
	// DefaultMaxEntryBytes applies. Read-only after construction.
	MaxEntryBytes int
	// QueueSize, NewClient and UserAgent configure the owned Uploader.
	QueueSize int
	NewClient BlobClientFactory
	UserAgent string
	// Diag receives internal diagnostics. May be nil.
	Diag *slog.Logger
}

// Coordinator decides, per emitted entry, whether the overflow path applies
// and rewrites oversized entries around their uploaded copy. It exclusively
// owns one Uploader when a bucket is configured. Configuration is read-only
// after construction, so Process needs no locking of its own.
type Coordinator struct {
	limit    int
	bucket   string
	uploader *Uploader
	diag     *slog.Logger
}

// NewCoordinator builds a Coordinator. When cfg.Bucket is non-empty the
// owned Uploader (and its background worker) starts immediately; the storage
// client itself is still constructed lazily on the first overflow.
func NewCoordinator(cfg CoordinatorConfig) *Coordinator {
	limit := cfg.MaxEntryBytes
	if limit <= 0 {
		limit = DefaultMaxEntryBytes
	}
	c := &Coordinator{
		limit:  limit,
		bucket: cfg.Bucket,
		diag:   cfg.Diag,
	}
	if cfg.Bucket != "" {
		c.uploader = NewUploader(UploaderConfig{
			Bucket:    cfg.Bucket,
			QueueSize: cfg.QueueSize,
			NewClient: cfg.NewClient,
			UserAgent: cfg.UserAgent,
			Diag:      cfg.Diag,
		})
	}
	return c
}

// MaxEntryBytes returns the resolved size ceiling.
func (c *Coordinator) MaxEntryBytes() int { return c.limit }

// Process inspects one serialized entry. Entries at or under the ceiling,
// and oversized entries when no bucket is configured, pass through: the
// return is (nil, false) and the caller emits the entry as-is. Oversized
// entries with a configured bucket are submitted for upload in full, and
// the returned replacement (always ≤ the ceiling) carries a truncation
// notice plus the object URI when the upload was accepted.
//
// Process never panics out to the caller; on internal failure the entry
// passes through unmodified and the failure is diagnosed.
func (c *Coordinator) Process(meta EntryMeta, entry []byte) (replacement []byte, truncated bool) {
	defer func() {
		if r := recover(); r != nil {
			logDiagnostic(c.diag, slog.LevelError, "overflow handling failed; emitting entry as-is",
				slog.Any("panic", fmt.Sprintf("%v", r)))
			replacement, truncated = nil, false
		}
	}()

	if !exceedsLimit(len(entry), c.limit) {
		return nil, false
	}

	if c.uploader == nil {
		// No destination: truncating would destroy content with no
		// recoverable copy, so the oversized entry goes out unmodified and
		// the backend's rejection is the lesser harm.
		logDiagnostic(c.diag, slog.LevelWarn, "oversized log entry with no overflow bucket configured; passing through",
			slog.Int("bytes", len(entry)),
			slog.Int("limit", c.limit))
		return nil, false
	}

	key := objectKey(meta.Time, meta.InstanceID, meta.TraceID, meta.SpanID)

	// The URI is constructed optimistically before the upload resolves; the
	// inline record must stand on its own without waiting for storage. Only
	// a rejection at submit time (draining or full queue) drops the
	// reference.
	var ref string
	if p := c.uploader.Submit(entry, key); p != nil {
		ref = "gs://" + c.bucket + "/" + key
	}

	return truncate(entry, ref, c.limit), true
}

// Shutdown drains the owned uploader within timeout. It is safe to call on
// a coordinator with no uploader, and is idempotent otherwise.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	if c.uploader == nil {
		return nil
	}
	return c.uploader.Shutdown(timeout)
}
