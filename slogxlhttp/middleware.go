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
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/cloudwisp/slogxl"
)

const instrumentationName = "github.com/cloudwisp/slogxl/slogxlhttp"

type config struct {
	enableOTel  bool
	skipLogging bool
}

// Option adjusts middleware behavior.
type Option func(*config)

// WithOTel wraps the handler chain in otelhttp so each request produces a
// server span.
func WithOTel() Option {
	return func(c *config) { c.enableOTel = true }
}

// WithoutRequestLogging disables the per-request completion entry, keeping
// only trace extraction and logger injection.
func WithoutRequestLogging() Option {
	return func(c *config) { c.skipLogging = true }
}

// Middleware returns middleware that extracts trace context, stores a
// request-scoped logger in the context, and logs a completion entry for
// each request. Handlers retrieve the logger with slogxl.LoggerFromContext.
func Middleware(logger *slogxl.Logger, opts ...Option) func(http.Handler) http.Handler {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.NotFoundHandler()
		}
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ctx := extractTrace(r)
			ctx = slogxl.ContextWithLogger(ctx, logger)
			r = r.WithContext(ctx)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			if cfg.skipLogging {
				return
			}
			logger.Logger.LogAttrs(ctx, statusLevel(rec.status), "http request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Int64("bytes", rec.written),
				slog.Duration("elapsed", time.Since(start)),
			)
		})

		if cfg.enableOTel {
			return otelhttp.NewHandler(inner, instrumentationName)
		}
		return inner
	}
}

// extractTrace resolves the span context for the request: the installed
// propagator first (traceparent and, with a Google propagator installed,
// X-Cloud-Trace-Context), then a direct parse of the legacy header as a
// fallback for setups with no propagator configured.
func extractTrace(r *http.Request) context.Context {
	ctx := r.Context()
	if trace.SpanContextFromContext(ctx).IsValid() {
		return ctx
	}
	ctx = otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(r.Header))
	if trace.SpanContextFromContext(ctx).IsValid() {
		return ctx
	}
	if header := r.Header.Get(XCloudTraceContextHeader); header != "" {
		if sc, ok := parseXCloudTrace(header); ok {
			return trace.ContextWithRemoteSpanContext(ctx, sc)
		}
	}
	return ctx
}

// statusRecorder captures the response status and byte count. The zero
// status defaults to 200 because handlers that never call WriteHeader
// still produce a 200.
type statusRecorder struct {
	http.ResponseWriter
	status  int
	written int64
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(p []byte) (int, error) {
	n, err := s.ResponseWriter.Write(p)
	s.written += int64(n)
	return n, err
}

// Unwrap exposes the underlying ResponseWriter for http.ResponseController.
func (s *statusRecorder) Unwrap() http.ResponseWriter {
	return s.ResponseWriter
}

// Flush forwards the flush request when the underlying writer supports it,
// so streaming and SSE handlers keep working behind the middleware.
func (s *statusRecorder) Flush() {
	if flusher, ok := s.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// Hijack delegates to the wrapped Hijacker when supported, otherwise
// returns http.ErrNotSupported.
func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if hijacker, ok := s.ResponseWriter.(http.Hijacker); ok {
		conn, rw, err := hijacker.Hijack()
		if err != nil {
			return nil, nil, fmt.Errorf("hijack connection: %w", err)
		}
		return conn, rw, nil
	}
	return nil, nil, http.ErrNotSupported
}

// Push forwards HTTP/2 push requests when the underlying writer supports
// http.Pusher.
func (s *statusRecorder) Push(target string, opts *http.PushOptions) error {
	if pusher, ok := s.ResponseWriter.(http.Pusher); ok {
		if err := pusher.Push(target, opts); err != nil {
			return fmt.Errorf("http/2 push: %w", err)
		}
		return nil
	}
	return http.ErrNotSupported
}

// ReadFrom streams from src through the underlying writer's io.ReaderFrom
// when available, still counting bytes for the completion entry.
func (s *statusRecorder) ReadFrom(src io.Reader) (int64, error) {
	if rf, ok := s.ResponseWriter.(io.ReaderFrom); ok {
		n, err := rf.ReadFrom(src)
		s.written += n
		return n, err
	}
	n, err := io.Copy(s.ResponseWriter, src)
	s.written += n
	return n, err
}

// statusLevel maps a response status onto a log level: server errors are
// errors, client errors are warnings, everything else is informational.
func statusLevel(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slogxl.LevelError
	case status >= http.StatusBadRequest:
		return slogxl.LevelWarn
	default:
		return slogxl.LevelInfo
	}
}
