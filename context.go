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

import "context"

type contextKey struct{}

// ContextWithLogger returns a context carrying logger, for handing a
// request-scoped logger down a call chain.
func ContextWithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// LoggerFromContext retrieves the logger stored by ContextWithLogger. The
// second return is false when the context carries none.
func LoggerFromContext(ctx context.Context) (*Logger, bool) {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	return logger, ok
}
