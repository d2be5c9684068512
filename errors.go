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
	"github.com/cloudwisp/slogxl/internal/gcp"
	"github.com/cloudwisp/slogxl/internal/overflow"
)

// Sentinel errors surfaced by the public API. Match with errors.Is.
var (
	// ErrShutdownTimeout is returned (possibly joined with other close
	// errors) by Close when pending overflow uploads did not finish within
	// the shutdown timeout.
	ErrShutdownTimeout = overflow.ErrShutdownTimeout

	// ErrProjectIDMissing is returned by New when the GCP target is
	// selected but no project ID could be determined from options, the
	// environment, or the metadata server.
	ErrProjectIDMissing = gcp.ErrProjectIDMissing

	// ErrInvalidLogTarget is returned by New for an unrecognized
	// SLOGXL_LOG_TARGET value.
	ErrInvalidLogTarget = gcp.ErrInvalidLogTarget

	// ErrClientClosed is returned by Flush after Close.
	ErrClientClosed = gcp.ErrClientClosed
)
