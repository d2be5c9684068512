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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"cloud.google.com/go/logging"

	"github.com/cloudwisp/slogxl/internal/overflow"
)

// messageKey is the payload field carrying the record message.
const messageKey = "message"

// EntryLogger is the subset of *logging.Logger the handler needs. It is a
// function so the handler keeps working across client reconnects and returns
// nil once the client is closed.
type EntryLogger func() *logging.Logger

// HandlerOptions configures a Handler. Leveler must be non-nil.
type HandlerOptions struct {
	Leveler     slog.Leveler
	AddSource   bool
	ProjectID   string
	InstanceID  string
	Coordinator *overflow.Coordinator
	Diag        *slog.Logger
}

// Handler is a slog.Handler that renders records as structured payloads,
// offloads oversized entries through the overflow coordinator, and delivers
// the result either to the Cloud Logging API or to a redirect writer as one
// JSON line per record.
type Handler struct {
	opts     HandlerOptions
	logFn    EntryLogger
	redirect io.Writer

	attrs  []slog.Attr // qualified by the groups open at WithAttrs time
	groups []string
}

// NewGCPHandler returns a handler that delivers entries via logFn.
func NewGCPHandler(opts HandlerOptions, logFn EntryLogger) *Handler {
	return &Handler{opts: opts, logFn: logFn}
}

// NewRedirectHandler returns a handler that writes JSON lines to w.
func NewRedirectHandler(opts HandlerOptions, w io.Writer) *Handler {
	return &Handler{opts: opts, redirect: w}
}

// Enabled reports whether records at level pass the handler's threshold.
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Leveler.Level()
}

// WithAttrs returns a handler that includes attrs on every record, nested
// inside any groups opened so far.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := *h
	h2.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], qualify(attrs, h.groups)...)
	return &h2
}

// WithGroup returns a handler that nests subsequent attributes under name.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := *h
	h2.groups = append(h.groups[:len(h.groups):len(h.groups)], name)
	return &h2
}

// Handle renders the record, checks it against the overflow limit, and
// emits it. Oversized entries are submitted for upload and replaced by
// their truncated form before delivery.
func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	info := ExtractTraceInfo(ctx)

	payload := make(map[string]any, record.NumAttrs()+len(h.attrs)+1)
	payload[messageKey] = record.Message
	for _, a := range h.attrs {
		appendAttr(payload, a)
	}
	record.Attrs(func(a slog.Attr) bool {
		for _, qa := range qualify([]slog.Attr{a}, h.groups) {
			appendAttr(payload, qa)
		}
		return true
	})

	if h.redirect != nil {
		return h.emitRedirect(record, info, payload)
	}
	return h.emitGCP(record, info, payload)
}

func (h *Handler) emitGCP(record slog.Record, info TraceInfo, payload map[string]any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		// An unmarshalable attr value degrades the entry to its message
		// rather than losing it entirely.
		if h.opts.Diag != nil {
			h.opts.Diag.Warn("log payload not JSON-marshalable; emitting message only", "error", err)
		}
		raw = []byte(fmt.Sprintf("%q", record.Message))
	}

	entry := logging.Entry{
		Timestamp: record.Time,
		Severity:  LevelToSeverity(record.Level),
	}
	if replaced, truncated := h.process(record.Time, info, raw); truncated {
		entry.Payload = string(replaced)
	} else {
		entry.Payload = json.RawMessage(raw)
	}
	if h.opts.AddSource {
		entry.SourceLocation = resolveSourceLocation(record.PC)
	}
	ApplyTrace(&entry, info, h.opts.ProjectID)

	logger := h.logFn()
	if logger == nil {
		return ErrClientClosed
	}
	logger.Log(entry)
	return nil
}

func (h *Handler) emitRedirect(record slog.Record, info TraceInfo, payload map[string]any) error {
	line := make(map[string]any, len(payload)+5)
	for k, v := range payload {
		line[k] = v
	}
	line["severity"] = SeverityString(record.Level)
	if !record.Time.IsZero() {
		line["time"] = record.Time.Format(time.RFC3339Nano)
	}
	if h.opts.AddSource {
		if loc := resolveSourceLocation(record.PC); loc != nil {
			line["logging.googleapis.com/sourceLocation"] = map[string]any{
				"file":     loc.File,
				"line":     loc.Line,
				"function": loc.Function,
			}
		}
	}
	if info.TraceID != "" && h.opts.ProjectID != "" {
		line["logging.googleapis.com/trace"] = "projects/" + h.opts.ProjectID + "/traces/" + info.TraceID
		line["logging.googleapis.com/spanId"] = info.SpanID
		line["logging.googleapis.com/trace_sampled"] = info.Sampled
	}

	raw, err := json.Marshal(line)
	if err != nil {
		return fmt.Errorf("gcp: marshaling log line: %w", err)
	}
	if replaced, truncated := h.process(record.Time, info, raw); truncated {
		if raw, err = h.truncatedLine(record, replaced); err != nil {
			return err
		}
	}
	if _, err := h.redirect.Write(append(raw, '\n')); err != nil {
		return fmt.Errorf("gcp: writing log line: %w", err)
	}
	return nil
}

// truncatedLine wraps a coordinator replacement in the minimal redirect
// envelope and keeps the finished line within the overflow ceiling: the
// envelope and the JSON escaping of the replacement (itself a prefix of a
// JSON document, dense with quotes and backslashes) expand the line past
// what the coordinator sized, so the message is shrunk until the marshaled
// result fits. The notice and reference suffix survive the shrinking.
func (h *Handler) truncatedLine(record slog.Record, replaced []byte) ([]byte, error) {
	limit := h.opts.Coordinator.MaxEntryBytes()
	msg := replaced
	for {
		minimal := map[string]any{
			"severity": SeverityString(record.Level),
			messageKey: string(msg),
			"time":     record.Time.Format(time.RFC3339Nano),
		}
		line, err := json.Marshal(minimal)
		if err != nil {
			return nil, fmt.Errorf("gcp: marshaling truncated log line: %w", err)
		}
		if len(line) <= limit {
			return line, nil
		}
		next := overflow.ShrinkReplacement(msg, len(line)-limit)
		if len(next) >= len(msg) {
			// The envelope alone exceeds the ceiling; nothing left to give.
			return line, nil
		}
		msg = next
	}
}

// process runs the entry through the overflow coordinator when one is
// configured. It returns the replacement bytes and true when the entry was
// truncated, or nil and false when it passes through unchanged.
func (h *Handler) process(ts time.Time, info TraceInfo, raw []byte) ([]byte, bool) {
	if h.opts.Coordinator == nil {
		return nil, false
	}
	meta := overflow.EntryMeta{
		Time:       ts,
		InstanceID: h.opts.InstanceID,
		TraceID:    info.TraceID,
		SpanID:     info.SpanID,
	}
	return h.opts.Coordinator.Process(meta, raw)
}

// qualify wraps attrs inside the open group names, innermost last.
func qualify(attrs []slog.Attr, groups []string) []slog.Attr {
	for i := len(groups) - 1; i >= 0; i-- {
		attrs = []slog.Attr{{Key: groups[i], Value: slog.GroupValue(attrs...)}}
	}
	return attrs
}

// appendAttr resolves a and merges it into dst. Group attrs become nested
// maps; repeated groups with the same key merge rather than overwrite.
func appendAttr(dst map[string]any, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	switch a.Value.Kind() {
	case slog.KindGroup:
		grouped := a.Value.Group()
		if len(grouped) == 0 {
			return
		}
		if a.Key == "" {
			for _, ga := range grouped {
				appendAttr(dst, ga)
			}
			return
		}
		m, ok := dst[a.Key].(map[string]any)
		if !ok {
			m = make(map[string]any, len(grouped))
		}
		for _, ga := range grouped {
			appendAttr(m, ga)
		}
		dst[a.Key] = m
	case slog.KindTime:
		dst[a.Key] = a.Value.Time().Format(time.RFC3339Nano)
	case slog.KindDuration:
		dst[a.Key] = a.Value.Duration().String()
	default:
		v := a.Value.Any()
		if err, ok := v.(error); ok {
			dst[a.Key] = err.Error()
			return
		}
		dst[a.Key] = v
	}
}
