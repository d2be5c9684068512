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

package overflow

import (
	"strconv"
	"strings"
	"time"
)

const (
	// keyPrefix is the logical directory under which overflowed entries are
	// stored in the destination bucket.
	keyPrefix = "logs/"
	// keySuffix is the extension applied to every overflow object.
	keySuffix = ".log"

	// placeholderID marks an identifier that was not available at emit time.
	// Placeholders are omitted from object keys rather than embedded, so
	// unrelated entries with no trace context do not share meaningless tokens.
	placeholderID = "-"
)

// objectKey derives the storage object name for an overflowed entry from its
// timestamp and identifiers. The result is deterministic for identical inputs
// within the same second: logs/<unix>[_<instance>][_<trace>][_<span>].log.
// Empty and placeholder identifiers are dropped.
func objectKey(ts time.Time, instanceID, traceID, spanID string) string {
	var sb strings.Builder
	sb.WriteString(keyPrefix)
	sb.WriteString(strconv.FormatInt(ts.Unix(), 10))
	for _, id := range [...]string{instanceID, traceID, spanID} {
		if id == "" || id == placeholderID {
			continue
		}
		sb.WriteByte('_')
		sb.WriteString(id)
	}
	sb.WriteString(keySuffix)
	return sb.String()
}
