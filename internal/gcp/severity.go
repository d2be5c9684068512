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
	"log/slog"

	"cloud.google.com/go/logging"
)

// Extended slog levels matching the Cloud Logging severity ladder. The
// standard slog levels keep their usual values; the extras slot in between
// so ordering comparisons remain meaningful.
const (
	LevelDefault   slog.Level = -8
	LevelDebug     slog.Level = slog.LevelDebug // -4
	LevelInfo      slog.Level = slog.LevelInfo  // 0
	LevelNotice    slog.Level = 2
	LevelWarn      slog.Level = slog.LevelWarn  // 4
	LevelError     slog.Level = slog.LevelError // 8
	LevelCritical  slog.Level = 12
	LevelAlert     slog.Level = 16
	LevelEmergency slog.Level = 20
)

// LevelToSeverity maps a slog level onto the closest Cloud Logging severity.
// Levels between two named severities round down to the lower one, matching
// how Cloud Logging treats unknown severities.
func LevelToSeverity(level slog.Level) logging.Severity {
	switch {
	case level >= LevelEmergency:
		return logging.Emergency
	case level >= LevelAlert:
		return logging.Alert
	case level >= LevelCritical:
		return logging.Critical
	case level >= LevelError:
		return logging.Error
	case level >= LevelWarn:
		return logging.Warning
	case level >= LevelNotice:
		return logging.Notice
	case level >= LevelInfo:
		return logging.Info
	case level >= LevelDebug:
		return logging.Debug
	default:
		return logging.Default
	}
}

// SeverityString returns the upper-case Cloud Logging severity name for a
// slog level, used as the "severity" field when writing structured JSON to
// a redirect target. The Logging agents match these names case-sensitively.
func SeverityString(level slog.Level) string {
	switch LevelToSeverity(level) {
	case logging.Emergency:
		return "EMERGENCY"
	case logging.Alert:
		return "ALERT"
	case logging.Critical:
		return "CRITICAL"
	case logging.Error:
		return "ERROR"
	case logging.Warning:
		return "WARNING"
	case logging.Notice:
		return "NOTICE"
	case logging.Info:
		return "INFO"
	case logging.Debug:
		return "DEBUG"
	default:
		return "DEFAULT"
	}
}

// LevelName returns the lower-case name slogxl uses for a level in
// human-readable output and environment parsing. Unnamed levels fall back
// to slog's offset notation.
func LevelName(level slog.Level) string {
	switch level {
	case LevelDefault:
		return "default"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelNotice:
		return "notice"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelCritical:
		return "critical"
	case LevelAlert:
		return "alert"
	case LevelEmergency:
		return "emergency"
	default:
		return level.String()
	}
}
