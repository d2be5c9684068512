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
	"testing"

	"cloud.google.com/go/logging"
	"go.opentelemetry.io/otel/trace"
)

func spanContextFixture(t *testing.T, sampled bool) trace.SpanContext {
	t.Helper()
	traceID, err := trace.TraceIDFromHex("105445aa7843bc8bf206b12000100000")
	if err != nil {
		t.Fatal(err)
	}
	spanID, err := trace.SpanIDFromHex("000000000000004a")
	if err != nil {
		t.Fatal(err)
	}
	cfg := trace.SpanContextConfig{TraceID: traceID, SpanID: spanID}
	if sampled {
		cfg.TraceFlags = trace.FlagsSampled
	}
	return trace.NewSpanContext(cfg)
}

func TestExtractTraceInfo(t *testing.T) {
	if got := ExtractTraceInfo(context.Background()); got != (TraceInfo{}) {
		t.Errorf("ExtractTraceInfo(background) = %+v, want zero", got)
	}

	ctx := trace.ContextWithSpanContext(context.Background(), spanContextFixture(t, true))
	got := ExtractTraceInfo(ctx)
	if got.TraceID != "105445aa7843bc8bf206b12000100000" {
		t.Errorf("TraceID = %q", got.TraceID)
	}
	if got.SpanID != "000000000000004a" {
		t.Errorf("SpanID = %q", got.SpanID)
	}
	if !got.Sampled {
		t.Error("Sampled = false, want true")
	}
}

func TestApplyTrace(t *testing.T) {
	var e logging.Entry
	ApplyTrace(&e, TraceInfo{}, "proj")
	if e.Trace != "" || e.SpanID != "" {
		t.Errorf("zero info mutated entry: %+v", e)
	}

	info := TraceInfo{TraceID: "abc123", SpanID: "def456", Sampled: true}
	ApplyTrace(&e, info, "proj")
	if e.Trace != "projects/proj/traces/abc123" {
		t.Errorf("Trace = %q", e.Trace)
	}
	if e.SpanID != "def456" || !e.TraceSampled {
		t.Errorf("SpanID = %q, TraceSampled = %v", e.SpanID, e.TraceSampled)
	}

	var noProj logging.Entry
	ApplyTrace(&noProj, info, "")
	if noProj.Trace != "" {
		t.Errorf("Trace set without project: %q", noProj.Trace)
	}
	if noProj.SpanID != "def456" {
		t.Errorf("SpanID = %q, want kept without project", noProj.SpanID)
	}
}

func TestResolveSourceLocation(t *testing.T) {
	if loc := resolveSourceLocation(0); loc != nil {
		t.Errorf("resolveSourceLocation(0) = %+v, want nil", loc)
	}
}
