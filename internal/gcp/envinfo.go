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
	"os"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/compute/metadata"
)

// placeholderInstanceID marks an undetectable instance identity. Callers
// that compose identifiers treat it as absent.
const placeholderInstanceID = "-"

// metadataInstanceFn fetches the instance ID from the GCE metadata server.
// Replaced in tests.
var metadataInstanceFn = func(ctx context.Context) (string, error) {
	return metadata.InstanceIDWithContext(ctx)
}

var (
	instanceIDOnce   sync.Once
	cachedInstanceID string
)

// InstanceID returns the process-wide instance identity, detecting it on
// the first call. The environment cannot change under a running process,
// so repeated detection (and its possible metadata round trip) is wasted
// work.
func InstanceID(ctx context.Context) string {
	instanceIDOnce.Do(func() {
		cachedInstanceID = DetectInstanceID(ctx)
	})
	return cachedInstanceID
}

// DetectInstanceID returns a short identifier for the compute unit running
// the process, keeping object keys compact. Detection order: App Engine
// instance, Cloud Run service revision, Cloud Functions name, then the GCE
// metadata server. Returns "-" when nothing identifies the environment.
func DetectInstanceID(ctx context.Context) string {
	if id := os.Getenv("GAE_INSTANCE"); id != "" {
		return clipID(id, 10)
	}
	if svc := os.Getenv("K_SERVICE"); svc != "" {
		rev := os.Getenv("K_REVISION")
		combined := svc
		if rev != "" {
			combined = svc + "-" + rev
		}
		return clipID(combined, 9)
	}
	if fn := os.Getenv("FUNCTION_NAME"); fn != "" {
		return clipID(fn, 10)
	}
	if metadata.OnGCE() {
		mdCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if id, err := metadataInstanceFn(mdCtx); err == nil {
			if id = strings.TrimSpace(id); id != "" {
				return clipID(id, 10)
			}
		}
	}
	return placeholderInstanceID
}

func clipID(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}
