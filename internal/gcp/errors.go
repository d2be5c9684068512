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

import "errors"

// Sentinel errors returned by configuration loading and client management.
// Callers match them with errors.Is after unwrapping.
var (
	// ErrProjectIDMissing indicates that no Google Cloud project ID could be
	// determined from options, environment variables, or the metadata server
	// while the GCP log target was requested.
	ErrProjectIDMissing = errors.New("gcp: project ID is required but could not be determined")

	// ErrInvalidLogTarget indicates an unrecognized SLOGXL_LOG_TARGET value.
	ErrInvalidLogTarget = errors.New("gcp: invalid log target")

	// ErrClientClosed indicates an operation on a ClientManager whose
	// underlying Cloud Logging client has already been closed.
	ErrClientClosed = errors.New("gcp: logging client is closed")
)
