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
	"errors"
	"testing"

	"cloud.google.com/go/logging"
	"google.golang.org/api/option"
)

type fakeLoggingClient struct {
	logCalls   []string
	closeCount int
	closeErr   error
}

func (f *fakeLoggingClient) Logger(logID string, _ ...logging.LoggerOption) *logging.Logger {
	f.logCalls = append(f.logCalls, logID)
	// The manager only needs a non-nil handle to hold; tests never emit
	// through it.
	return &logging.Logger{}
}

func (f *fakeLoggingClient) Close() error {
	f.closeCount++
	return f.closeErr
}

func stubClientFactory(t *testing.T, client loggingClient, err error) *string {
	t.Helper()
	var gotParent string
	orig := newClientFn
	newClientFn = func(_ context.Context, parent string, _ ...option.ClientOption) (loggingClient, error) {
		gotParent = parent
		return client, err
	}
	t.Cleanup(func() { newClientFn = orig })
	return &gotParent
}

func TestNewClientManagerRequiresProject(t *testing.T) {
	_, err := NewClientManager(context.Background(), Config{LogID: "x"})
	if !errors.Is(err, ErrProjectIDMissing) {
		t.Fatalf("error = %v, want ErrProjectIDMissing", err)
	}
}

func TestNewClientManager(t *testing.T) {
	fake := &fakeLoggingClient{}
	gotParent := stubClientFactory(t, fake, nil)

	cfg := Config{ProjectID: "proj-1", Parent: "projects/proj-1", LogID: "app_log"}
	m, err := NewClientManager(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewClientManager() error = %v", err)
	}
	if *gotParent != "projects/proj-1" {
		t.Errorf("parent = %q", *gotParent)
	}
	if len(fake.logCalls) != 1 || fake.logCalls[0] != "app_log" {
		t.Errorf("logger calls = %v", fake.logCalls)
	}
	if m.Logger() == nil {
		t.Error("Logger() = nil before Close")
	}
}

func TestNewClientManagerFactoryError(t *testing.T) {
	stubClientFactory(t, nil, errors.New("dial failed"))
	cfg := Config{ProjectID: "p", Parent: "projects/p", LogID: "x"}
	if _, err := NewClientManager(context.Background(), cfg); err == nil {
		t.Fatal("NewClientManager() succeeded with failing factory")
	}
}

func TestClientManagerCloseIdempotent(t *testing.T) {
	fake := &fakeLoggingClient{closeErr: errors.New("flush failed")}
	stubClientFactory(t, fake, nil)

	cfg := Config{ProjectID: "p", Parent: "projects/p", LogID: "x"}
	m, err := NewClientManager(context.Background(), cfg)
	if err != nil {
		t.Fatalf("NewClientManager() error = %v", err)
	}

	first := m.Close()
	second := m.Close()
	if first == nil || second == nil || first.Error() != second.Error() {
		t.Errorf("Close() results differ: %v, %v", first, second)
	}
	if fake.closeCount != 1 {
		t.Errorf("underlying Close called %d times, want 1", fake.closeCount)
	}
	if m.Logger() != nil {
		t.Error("Logger() non-nil after Close")
	}
	if err := m.Flush(); !errors.Is(err, ErrClientClosed) {
		t.Errorf("Flush() after Close = %v, want ErrClientClosed", err)
	}
}
