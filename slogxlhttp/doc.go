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

// Package slogxlhttp provides net/http middleware for slogxl. It extracts
// trace context from incoming requests (W3C traceparent via the installed
// propagator, plus the legacy X-Cloud-Trace-Context header Google frontends
// send), places a request-scoped logger in the request context, and logs
// one completion entry per request with a severity derived from the
// response status.
package slogxlhttp
