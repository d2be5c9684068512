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
	"fmt"
	"sync"

	"cloud.google.com/go/logging"
	"google.golang.org/api/option"
)

// loggingClient abstracts *logging.Client for tests.
type loggingClient interface {
	Logger(logID string, opts ...logging.LoggerOption) *logging.Logger
	Close() error
}

type realLoggingClient struct{ *logging.Client }

// newClientFn creates the Cloud Logging client. Replaced in tests.
var newClientFn = func(ctx context.Context, parent string, opts ...option.ClientOption) (loggingClient, error) {
	c, err := logging.NewClient(ctx, parent, opts...)
	if err != nil {
		return nil, err
	}
	return realLoggingClient{c}, nil
}

// ClientManager owns the Cloud Logging client and the named logger derived
// from it, and guarantees Close is idempotent.
type ClientManager struct {
	client loggingClient
	logger *logging.Logger

	closeOnce sync.Once
	closeErr  error
	closed    bool
	mu        sync.Mutex
}

// NewClientManager connects to Cloud Logging for cfg.Parent and prepares a
// logger writing to cfg.LogID. CommonLabels and MonitoredResource from the
// config are attached as logger options so every entry carries them.
func NewClientManager(ctx context.Context, cfg Config) (*ClientManager, error) {
	if cfg.ProjectID == "" {
		return nil, ErrProjectIDMissing
	}
	client, err := newClientFn(ctx, cfg.Parent, option.WithUserAgent(UserAgent()))
	if err != nil {
		return nil, fmt.Errorf("gcp: creating logging client: %w", err)
	}

	var loggerOpts []logging.LoggerOption
	if len(cfg.CommonLabels) > 0 {
		loggerOpts = append(loggerOpts, logging.CommonLabels(cfg.CommonLabels))
	}
	if cfg.MonitoredResource != nil {
		loggerOpts = append(loggerOpts, logging.CommonResource(cfg.MonitoredResource))
	}

	return &ClientManager{
		client: client,
		logger: client.Logger(cfg.LogID, loggerOpts...),
	}, nil
}

// Logger returns the managed Cloud Logging logger, or nil after Close.
func (m *ClientManager) Logger() *logging.Logger {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	return m.logger
}

// Flush forces buffered entries out to the API.
func (m *ClientManager) Flush() error {
	m.mu.Lock()
	logger, closed := m.logger, m.closed
	m.mu.Unlock()
	if closed || logger == nil {
		return ErrClientClosed
	}
	return logger.Flush()
}

// Close flushes and releases the underlying client. Safe to call more than
// once; subsequent calls return the first result.
func (m *ClientManager) Close() error {
	m.closeOnce.Do(func() {
		m.mu.Lock()
		m.closed = true
		client := m.client
		m.client = nil
		m.logger = nil
		m.mu.Unlock()
		if client != nil {
			m.closeErr = client.Close()
		}
	})
	return m.closeErr
}
