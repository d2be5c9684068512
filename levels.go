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
	"log/slog"

	"github.com/cloudwisp/slogxl/internal/gcp"
)

// Levels spanning the Cloud Logging severity ladder. The slog standard
// levels keep their usual numeric values; the extended ones interleave so
// threshold comparisons behave as expected.
const (
	LevelDefault   = gcp.LevelDefault
	LevelDebug     = gcp.LevelDebug
	LevelInfo      = gcp.LevelInfo
	LevelNotice    = gcp.LevelNotice
	LevelWarn      = gcp.LevelWarn
	LevelError     = gcp.LevelError
	LevelCritical  = gcp.LevelCritical
	LevelAlert     = gcp.LevelAlert
	LevelEmergency = gcp.LevelEmergency
)

// LevelName returns the lower-case slogxl name for a level ("notice",
// "critical", ...), falling back to slog's notation for unnamed values.
func LevelName(level slog.Level) string {
	return gcp.LevelName(level)
}
