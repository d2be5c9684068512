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

// Package gcp holds the internal machinery behind the slogxl facade: the
// Cloud Logging client lifecycle, environment configuration, slog-to-GCP
// severity mapping, trace and source-location enrichment, instance identity
// detection, and the slog.Handler that routes oversized entries through the
// overflow coordinator before they reach the sink.
//
// It is not intended for direct use by consumers of slogxl.
package gcp
