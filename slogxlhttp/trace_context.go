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

package slogxlhttp

import (
	"crypto/rand"
	"encoding/binary"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/trace"
)

// XCloudTraceContextHeader is the legacy Google Cloud trace propagation
// header, formatted as TRACE_ID[/SPAN_ID][;o=1].
const XCloudTraceContextHeader = "X-Cloud-Trace-Context"

var randRead = rand.Read

// parseXCloudTrace decodes the legacy header into a remote span context.
// The span ID field is decimal in this header, unlike traceparent. A
// missing or zero span ID gets a random one so the result stays valid.
func parseXCloudTrace(header string) (trace.SpanContext, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return trace.SpanContext{}, false
	}

	idPart, options, _ := strings.Cut(header, ";")
	traceIDStr, spanDecimal, _ := strings.Cut(strings.TrimSpace(idPart), "/")

	traceID, err := trace.TraceIDFromHex(strings.TrimSpace(traceIDStr))
	if err != nil || !traceID.IsValid() {
		return trace.SpanContext{}, false
	}

	var spanID trace.SpanID
	if s := strings.TrimSpace(spanDecimal); s != "" {
		if spanUint, err := strconv.ParseUint(s, 10, 64); err == nil {
			binary.BigEndian.PutUint64(spanID[:], spanUint)
		}
	}
	if !spanID.IsValid() {
		if _, err := randRead(spanID[:]); err != nil {
			return trace.SpanContext{}, false
		}
	}

	var flags trace.TraceFlags
	if strings.Contains(options, "o=1") {
		flags = trace.FlagsSampled
	}

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: flags,
		Remote:     true,
	})
	if !sc.IsValid() {
		return trace.SpanContext{}, false
	}
	return sc, true
}
