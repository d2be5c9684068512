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
	"runtime"

	"cloud.google.com/go/logging"
	logpb "cloud.google.com/go/logging/apiv2/loggingpb"
	"go.opentelemetry.io/otel/trace"
)

// TraceInfo carries the correlation identifiers extracted from a context.
type TraceInfo struct {
	// TraceID is the raw 32 hex character trace identifier.
	TraceID string
	// SpanID is the raw 16 hex character span identifier.
	SpanID string
	// Sampled reports whether the trace was sampled.
	Sampled bool
}

// ExtractTraceInfo reads the OpenTelemetry span context from ctx. The zero
// TraceInfo means no valid span context was present.
func ExtractTraceInfo(ctx context.Context) TraceInfo {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return TraceInfo{}
	}
	return TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
		Sampled: sc.IsSampled(),
	}
}

// ApplyTrace stamps trace correlation fields onto a Cloud Logging entry,
// formatting the trace in the resource-name form the API requires.
func ApplyTrace(e *logging.Entry, info TraceInfo, projectID string) {
	if info.TraceID == "" {
		return
	}
	if projectID != "" {
		e.Trace = "projects/" + projectID + "/traces/" + info.TraceID
	}
	e.SpanID = info.SpanID
	e.TraceSampled = info.Sampled
}

// resolveSourceLocation converts a slog record program counter into the
// Cloud Logging source location proto. Returns nil when pc is zero or
// unresolvable.
func resolveSourceLocation(pc uintptr) *logpb.LogEntrySourceLocation {
	if pc == 0 {
		return nil
	}
	frames := runtime.CallersFrames([]uintptr{pc})
	frame, _ := frames.Next()
	if frame.File == "" {
		return nil
	}
	return &logpb.LogEntrySourceLocation{
		File:     frame.File,
		Line:     int64(frame.Line),
		Function: frame.Function,
	}
}
