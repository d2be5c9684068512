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

// Version is the slogxl module version, reported to Google APIs through the
// user agent string.
const Version = "0.1.0"

// UserAgent identifies slogxl traffic to the Logging and Storage APIs.
func UserAgent() string {
	return "slogxl/" + Version
}
