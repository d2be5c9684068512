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
	"os"
	"sync"

	gcppropagator "github.com/GoogleCloudPlatform/opentelemetry-operations-go/propagator"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// envDisablePropagator suppresses the automatic global propagator install
// when set to a truthy value.
const envDisablePropagator = "SLOGXL_DISABLE_PROPAGATOR_AUTOSET"

var propagatorOnce sync.Once

// maybeInstallPropagator sets the global OpenTelemetry text map propagator
// to a composite that understands both W3C traceparent headers and the
// X-Cloud-Trace-Context header Google frontends inject. The Cloud Trace
// propagator is one-way: it extracts the Google header but only injects
// traceparent, so traces started behind a Google load balancer still
// correlate without spreading the legacy header further.
//
// The install happens once per process and can be disabled with
// SLOGXL_DISABLE_PROPAGATOR_AUTOSET for applications that manage their own
// propagator.
func maybeInstallPropagator() {
	propagatorOnce.Do(func() {
		switch os.Getenv(envDisablePropagator) {
		case "true", "1", "yes", "on":
			return
		}
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			gcppropagator.CloudTraceOneWayPropagator{},
			propagation.TraceContext{},
			propagation.Baggage{},
		))
	})
}
