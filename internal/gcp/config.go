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
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/compute/metadata"
	mrpb "google.golang.org/genproto/googleapis/api/monitoredres"
)

// LogTarget selects where emitted entries are delivered.
type LogTarget int

const (
	// LogTargetGCP sends entries to the Cloud Logging API.
	LogTargetGCP LogTarget = iota
	// LogTargetStdout writes structured JSON lines to standard output.
	LogTargetStdout
	// LogTargetStderr writes structured JSON lines to standard error.
	LogTargetStderr
	// LogTargetFile writes structured JSON lines to a configured file.
	LogTargetFile
	// LogTargetWriter writes structured JSON lines to a caller-supplied writer.
	LogTargetWriter
)

// Environment variable names recognized by Load.
const (
	envLogTarget         = "SLOGXL_LOG_TARGET"
	envLogLevel          = "LOG_LEVEL"
	envSourceLocation    = "LOG_SOURCE_LOCATION"
	envProjectID         = "SLOGXL_PROJECT_ID"
	envGoogleProject     = "GOOGLE_CLOUD_PROJECT"
	envLogID             = "SLOGXL_LOG_ID"
	envOverflowBucket    = "SLOGXL_OVERFLOW_BUCKET"
	envMaxEntryBytes     = "SLOGXL_MAX_ENTRY_BYTES"
	envOverflowQueueSize = "SLOGXL_OVERFLOW_QUEUE_SIZE"
	envShutdownTimeoutMS = "SLOGXL_SHUTDOWN_TIMEOUT_MS"
	envRedirectFilePath  = "SLOGXL_REDIRECT_FILE_PATH"
)

const (
	defaultLogID           = "slogxl_log"
	defaultShutdownTimeout = 30 * time.Second
)

// metadataProjectFn fetches the project ID from the GCE metadata server.
// Replaced in tests.
var metadataProjectFn = func(ctx context.Context) (string, error) {
	if !metadata.OnGCE() {
		return "", fmt.Errorf("not running on GCE")
	}
	return metadata.ProjectIDWithContext(ctx)
}

// Config carries every resolved setting the logger needs. Load produces the
// baseline from defaults and environment variables; functional options from
// the public package overwrite fields afterward.
type Config struct {
	Target LogTarget
	// TargetExplicit records that the target came from the environment or
	// an option rather than the GCP default, so client-initialization
	// failures must not silently fall back elsewhere.
	TargetExplicit    bool
	InitialLevel      slog.Level
	AddSource         bool
	ProjectID         string
	Parent            string
	LogID             string
	CommonLabels      map[string]string
	MonitoredResource *mrpb.MonitoredResource

	// Redirect target settings, used when Target is not LogTargetGCP.
	RedirectWriter io.Writer
	OpenedFilePath string

	// Overflow settings for the oversized-entry coordinator.
	OverflowBucket    string
	MaxEntryBytes     int
	OverflowQueueSize int
	ShutdownTimeout   time.Duration

	// Diag receives internal diagnostics. Nil disables them.
	Diag *slog.Logger
}

// Load builds a Config from defaults and the process environment. Project ID
// resolution consults, in order: SLOGXL_PROJECT_ID, GOOGLE_CLOUD_PROJECT, and
// finally the GCE metadata server. A missing project ID is only an error when
// the GCP target is selected; the caller performs that check after applying
// options, so Load leaves ProjectID empty rather than failing.
func Load(ctx context.Context) (Config, error) {
	cfg := Config{
		Target:          LogTargetGCP,
		InitialLevel:    LevelInfo,
		LogID:           defaultLogID,
		MaxEntryBytes:   0, // 0 means "use the coordinator default"
		ShutdownTimeout: defaultShutdownTimeout,
	}

	rawTarget := os.Getenv(envLogTarget)
	target, err := parseLogTargetEnv(rawTarget)
	if err != nil {
		return Config{}, err
	}
	cfg.Target = target
	cfg.TargetExplicit = strings.TrimSpace(rawTarget) != ""

	if lvl, ok := parseLevelEnv(os.Getenv(envLogLevel)); ok {
		cfg.InitialLevel = lvl
	}
	cfg.AddSource = parseBoolEnv(os.Getenv(envSourceLocation))

	cfg.ProjectID = resolveProjectID(ctx)
	if cfg.ProjectID != "" {
		cfg.Parent = "projects/" + cfg.ProjectID
	}

	if id := strings.TrimSpace(os.Getenv(envLogID)); id != "" {
		normalized, err := normalizeLogID(id)
		if err != nil {
			return Config{}, err
		}
		cfg.LogID = normalized
	}

	cfg.OverflowBucket = strings.TrimSpace(os.Getenv(envOverflowBucket))
	if n, ok := parseIntEnv(os.Getenv(envMaxEntryBytes)); ok && n > 0 {
		cfg.MaxEntryBytes = n
	}
	if n, ok := parseIntEnv(os.Getenv(envOverflowQueueSize)); ok && n > 0 {
		cfg.OverflowQueueSize = n
	}
	if d, ok := parseDurationEnvMS(os.Getenv(envShutdownTimeoutMS)); ok {
		cfg.ShutdownTimeout = d
	}

	switch cfg.Target {
	case LogTargetStdout:
		cfg.RedirectWriter = os.Stdout
	case LogTargetStderr:
		cfg.RedirectWriter = os.Stderr
	case LogTargetFile:
		path := strings.TrimSpace(os.Getenv(envRedirectFilePath))
		if path == "" {
			return Config{}, fmt.Errorf("%w: target %q requires %s", ErrInvalidLogTarget, "file", envRedirectFilePath)
		}
		cfg.OpenedFilePath = path
	}

	return cfg, nil
}

// resolveProjectID returns the first project ID found via environment
// variables or the metadata server, or "" if none is available.
func resolveProjectID(ctx context.Context) string {
	if id := strings.TrimSpace(os.Getenv(envProjectID)); id != "" {
		return id
	}
	if id := strings.TrimSpace(os.Getenv(envGoogleProject)); id != "" {
		return id
	}
	mdCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if id, err := metadataProjectFn(mdCtx); err == nil {
		return strings.TrimSpace(id)
	}
	return ""
}

func parseLogTargetEnv(raw string) (LogTarget, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "gcp":
		return LogTargetGCP, nil
	case "stdout":
		return LogTargetStdout, nil
	case "stderr":
		return LogTargetStderr, nil
	case "file":
		return LogTargetFile, nil
	default:
		return LogTargetGCP, fmt.Errorf("%w: %q", ErrInvalidLogTarget, raw)
	}
}

// parseLevelEnv accepts named levels or a raw slog numeric value.
func parseLevelEnv(raw string) (slog.Level, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return 0, false
	}
	switch s {
	case "default":
		return LevelDefault, true
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "notice":
		return LevelNotice, true
	case "warn", "warning":
		return LevelWarn, true
	case "error":
		return LevelError, true
	case "critical":
		return LevelCritical, true
	case "alert":
		return LevelAlert, true
	case "emergency":
		return LevelEmergency, true
	}
	if n, err := strconv.Atoi(s); err == nil {
		return slog.Level(n), true
	}
	return 0, false
}

func parseBoolEnv(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}

func parseIntEnv(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseDurationEnvMS(raw string) (time.Duration, bool) {
	n, ok := parseIntEnv(raw)
	if !ok || n < 0 {
		return 0, false
	}
	return time.Duration(n) * time.Millisecond, true
}

// normalizeLogID validates a user-supplied log ID against the constraints of
// the Cloud Logging API: non-empty, at most 512 characters, limited to
// letters, digits, and the characters '_', '-', '.', '/'.
func normalizeLogID(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("log ID must not be empty")
	}
	if len(id) > 512 {
		return "", fmt.Errorf("log ID exceeds 512 characters")
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_' || r == '-' || r == '.' || r == '/':
		default:
			return "", fmt.Errorf("log ID contains invalid character %q", r)
		}
	}
	return id, nil
}
