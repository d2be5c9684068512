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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/cloudwisp/slogxl/internal/gcp"
	"github.com/cloudwisp/slogxl/internal/overflow"
)

// Logger is the slogxl facade. It embeds a *slog.Logger so the full slog
// API is available, and adds the extended severity methods, runtime level
// control, and lifecycle management for the Cloud Logging client and the
// overflow worker.
type Logger struct {
	*slog.Logger

	levelVar  *slog.LevelVar
	clientMgr *gcp.ClientManager
	coord     *overflow.Coordinator
	closable  io.Closer
	timeout   time.Duration

	closeOnce sync.Once
	closeErr  error
}

// New resolves configuration from the environment, applies opts, and builds
// a ready-to-use Logger. In GCP mode it connects to the Cloud Logging API
// immediately; redirect modes never touch the network. The overflow worker
// starts whenever a bucket is configured, but its storage client is only
// dialed on the first oversized entry.
func New(ctx context.Context, opts ...Option) (*Logger, error) {
	maybeInstallPropagator()

	cfg, err := gcp.Load(ctx)
	if err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	levelVar := new(slog.LevelVar)
	levelVar.Set(cfg.InitialLevel)

	coord := overflow.NewCoordinator(overflow.CoordinatorConfig{
		Bucket:        cfg.OverflowBucket,
		MaxEntryBytes: cfg.MaxEntryBytes,
		QueueSize:     cfg.OverflowQueueSize,
		UserAgent:     gcp.UserAgent(),
		Diag:          cfg.Diag,
	})

	hOpts := gcp.HandlerOptions{
		Leveler:     levelVar,
		AddSource:   cfg.AddSource,
		ProjectID:   cfg.ProjectID,
		InstanceID:  gcp.InstanceID(ctx),
		Coordinator: coord,
		Diag:        cfg.Diag,
	}

	l := &Logger{
		levelVar: levelVar,
		coord:    coord,
		timeout:  cfg.ShutdownTimeout,
	}

	var handler slog.Handler
	switch cfg.Target {
	case gcp.LogTargetGCP:
		mgr, err := gcp.NewClientManager(ctx, cfg)
		switch {
		case err == nil:
			l.clientMgr = mgr
			handler = gcp.NewGCPHandler(hOpts, mgr.Logger)
		case cfg.TargetExplicit:
			abandonCoordinator(coord, cfg.Diag)
			return nil, err
		default:
			// The GCP target was only the default. Degrading to stdout JSON
			// keeps the process logging instead of failing startup on a
			// missing project or unreachable API.
			if cfg.Diag != nil {
				cfg.Diag.Warn("cloud logging unavailable; falling back to stdout JSON", "error", err)
			}
			handler = gcp.NewRedirectHandler(hOpts, gcp.NewSwitchableWriter(os.Stdout))
		}
	case gcp.LogTargetFile:
		f, err := os.OpenFile(cfg.OpenedFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			abandonCoordinator(coord, cfg.Diag)
			return nil, fmt.Errorf("slogxl: opening log file: %w", err)
		}
		l.closable = f
		handler = gcp.NewRedirectHandler(hOpts, gcp.NewSwitchableWriter(f))
	case gcp.LogTargetStdout:
		handler = gcp.NewRedirectHandler(hOpts, gcp.NewSwitchableWriter(os.Stdout))
	default:
		w := cfg.RedirectWriter
		if w == nil {
			w = os.Stderr
		}
		handler = gcp.NewRedirectHandler(hOpts, gcp.NewSwitchableWriter(w))
	}

	l.Logger = slog.New(handler)
	return l, nil
}

// abandonCoordinator stops the overflow worker started for a logger whose
// construction then failed. Nothing was submitted yet, so the worker exits
// as soon as it observes the closed queue; a short grace period covers its
// scheduling.
func abandonCoordinator(coord *overflow.Coordinator, diag *slog.Logger) {
	if err := coord.Shutdown(time.Second); err != nil && diag != nil {
		diag.Warn("overflow worker shutdown after failed logger construction", "error", err)
	}
}

// SetLevel changes the minimum level at runtime. It applies immediately to
// all loggers derived from this one with With or WithGroup.
func (l *Logger) SetLevel(level slog.Level) { l.levelVar.Set(level) }

// GetLevel reports the current minimum level.
func (l *Logger) GetLevel() slog.Level { return l.levelVar.Level() }

// Flush forces buffered Cloud Logging entries out to the API. It is a no-op
// in redirect modes, which write synchronously.
func (l *Logger) Flush() error {
	if l.clientMgr == nil {
		return nil
	}
	return l.clientMgr.Flush()
}

// Close drains pending overflow uploads within the configured shutdown
// timeout, then flushes and closes the Cloud Logging client and any file the
// logger opened. Close is idempotent; repeated calls return the first
// result. Logging after Close is a silent no-op in GCP mode.
func (l *Logger) Close() error {
	l.closeOnce.Do(func() {
		var errs []error
		if err := l.coord.Shutdown(l.timeout); err != nil {
			errs = append(errs, err)
		}
		if l.clientMgr != nil {
			if err := l.clientMgr.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		if l.closable != nil {
			if err := l.closable.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		l.closeErr = errors.Join(errs...)
	})
	return l.closeErr
}

// Default logs at the Default severity, below Debug.
func (l *Logger) Default(msg string, args ...any) {
	l.logAt(context.Background(), LevelDefault, msg, args...)
}

// DefaultContext is Default with a context for trace correlation.
func (l *Logger) DefaultContext(ctx context.Context, msg string, args ...any) {
	l.logAt(ctx, LevelDefault, msg, args...)
}

// Notice logs at the Notice severity, between Info and Warn.
func (l *Logger) Notice(msg string, args ...any) {
	l.logAt(context.Background(), LevelNotice, msg, args...)
}

// NoticeContext is Notice with a context for trace correlation.
func (l *Logger) NoticeContext(ctx context.Context, msg string, args ...any) {
	l.logAt(ctx, LevelNotice, msg, args...)
}

// Critical logs at the Critical severity, above Error.
func (l *Logger) Critical(msg string, args ...any) {
	l.logAt(context.Background(), LevelCritical, msg, args...)
}

// CriticalContext is Critical with a context for trace correlation.
func (l *Logger) CriticalContext(ctx context.Context, msg string, args ...any) {
	l.logAt(ctx, LevelCritical, msg, args...)
}

// Alert logs at the Alert severity.
func (l *Logger) Alert(msg string, args ...any) {
	l.logAt(context.Background(), LevelAlert, msg, args...)
}

// AlertContext is Alert with a context for trace correlation.
func (l *Logger) AlertContext(ctx context.Context, msg string, args ...any) {
	l.logAt(ctx, LevelAlert, msg, args...)
}

// Emergency logs at the highest severity.
func (l *Logger) Emergency(msg string, args ...any) {
	l.logAt(context.Background(), LevelEmergency, msg, args...)
}

// EmergencyContext is Emergency with a context for trace correlation.
func (l *Logger) EmergencyContext(ctx context.Context, msg string, args ...any) {
	l.logAt(ctx, LevelEmergency, msg, args...)
}

// Success logs an Info entry with the message prefixed by "SUCCESS: ",
// making completion markers easy to filter on.
func (l *Logger) Success(msg string, args ...any) {
	l.logAt(context.Background(), LevelInfo, "SUCCESS: "+msg, args...)
}

// SuccessContext is Success with a context for trace correlation.
func (l *Logger) SuccessContext(ctx context.Context, msg string, args ...any) {
	l.logAt(ctx, LevelInfo, "SUCCESS: "+msg, args...)
}

// logAt builds and dispatches a record with the program counter of the
// caller's caller, so source location points at application code rather
// than these wrappers.
func (l *Logger) logAt(ctx context.Context, level slog.Level, msg string, args ...any) {
	h := l.Logger.Handler()
	if !h.Enabled(ctx, level) {
		return
	}
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:]) // skip Callers, logAt, and the exported wrapper
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(args...)
	_ = h.Handle(ctx, r)
}
