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
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// defaultQueueSize bounds the number of uploads waiting for the worker.
// Overflow is expected to be rare; a deep queue only delays the discovery
// of a stuck storage backend.
const defaultQueueSize = 256

// ErrShutdownTimeout indicates Shutdown returned before in-flight uploads
// finished. Uploads still queued or in flight at that point are lost.
var ErrShutdownTimeout = errors.New("overflow: shutdown timed out before pending uploads completed")

// BlobClient is the minimal object-storage surface the uploader needs.
// The production implementation wraps *storage.Client; tests substitute
// fakes through UploaderConfig.NewClient.
type BlobClient interface {
	Upload(ctx context.Context, bucket, object string, data []byte) error
	Close() error
}

// BlobClientFactory constructs the storage client. It is invoked lazily by
// the worker goroutine when the first task arrives, so pipelines that never
// overflow never pay the connection and auth setup cost.
type BlobClientFactory func(ctx context.Context) (BlobClient, error)

// gcsClient adapts *storage.Client to BlobClient.
type gcsClient struct {
	c *storage.Client
}

func (g *gcsClient) Upload(ctx context.Context, bucket, object string, data []byte) error {
	w := g.c.Bucket(bucket).Object(object).NewWriter(ctx)
	w.ContentType = "text/plain; charset=utf-8"
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func (g *gcsClient) Close() error { return g.c.Close() }

// newGCSClientFactory returns the production BlobClientFactory.
func newGCSClientFactory(userAgent string) BlobClientFactory {
	return func(ctx context.Context) (BlobClient, error) {
		var opts []option.ClientOption
		if userAgent != "" {
			opts = append(opts, option.WithUserAgent(userAgent))
		}
		c, err := storage.NewClient(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("overflow: storage client creation failed: %w", err)
		}
		return &gcsClient{c: c}, nil
	}
}

// task is one queued upload. err is written by the worker before done is
// closed, so readers observing Done may read err without further locking.
type task struct {
	payload []byte
	object  string
	err     error
	done    chan struct{}
}

// Pending reports the completion of an accepted upload. It exists for tests
// and callers that want to observe the terminal outcome; the logging path
// never waits on it.
type Pending struct {
	t *task
}

// Done is closed once the upload has finished, successfully or not.
func (p *Pending) Done() <-chan struct{} { return p.t.done }

// Err returns the upload's terminal error. It is only meaningful after Done
// is closed; nil means the payload was stored.
func (p *Pending) Err() error {
	select {
	case <-p.t.done:
		return p.t.err
	default:
		return nil
	}
}

// UploaderConfig carries construction parameters for an Uploader.
type UploaderConfig struct {
	// Bucket is the destination bucket name. Required.
	Bucket string
	// QueueSize overrides the pending-task queue capacity when positive.
	QueueSize int
	// NewClient overrides the storage client factory. Nil selects the real
	// GCS factory.
	NewClient BlobClientFactory
	// UserAgent is forwarded to the real client factory.
	UserAgent string
	// Diag receives internal diagnostics (drops, failures, lifecycle). May
	// be nil.
	Diag *slog.Logger
}

// Uploader ships overflowed payloads to object storage from a single
// dedicated worker goroutine. All accepted tasks execute in submission
// order; the storage client is owned exclusively by that goroutine. Submit
// never blocks the caller.
//
// The worker starts at construction and runs until Shutdown.
type Uploader struct {
	bucket    string
	queue     chan *task
	newClient BlobClientFactory
	diag      *slog.Logger

	cancel   context.CancelFunc
	workerWG sync.WaitGroup

	draining atomic.Bool
	pending  atomic.Int64

	shutdownOnce sync.Once
	shutdownErr  error
}

// NewUploader creates an Uploader targeting cfg.Bucket and starts its
// background worker immediately.
func NewUploader(cfg UploaderConfig) *Uploader {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	factory := cfg.NewClient
	if factory == nil {
		factory = newGCSClientFactory(cfg.UserAgent)
	}

	u := &Uploader{
		bucket:    cfg.Bucket,
		queue:     make(chan *task, queueSize),
		newClient: factory,
		diag:      cfg.Diag,
	}

	ctx, cancel := context.WithCancel(context.Background())
	u.cancel = cancel
	u.workerWG.Add(1)
	go u.run(ctx)

	return u
}

// Submit enqueues an upload of payload under the given object name and
// returns immediately. The returned Pending is nil when the task was not
// accepted: the uploader is draining, or the queue is full. Upload errors
// are never returned here; they surface through diagnostics and the Pending
// handle only.
func (u *Uploader) Submit(payload []byte, object string) (p *Pending) {
	if u.draining.Load() {
		logDiagnostic(u.diag, slog.LevelWarn, "overflow upload dropped: uploader shutting down",
			slog.String("object", object))
		return nil
	}

	// Shutdown may close the queue between the draining check and the send.
	// Recover the resulting panic and treat the task as dropped, mirroring
	// the rejected-at-submit path.
	defer func() {
		if recover() != nil {
			logDiagnostic(u.diag, slog.LevelWarn, "overflow upload dropped: uploader shutting down",
				slog.String("object", object))
			p = nil
		}
	}()

	t := &task{payload: payload, object: object, done: make(chan struct{})}
	select {
	case u.queue <- t:
		u.pending.Add(1)
		return &Pending{t: t}
	default:
		logDiagnostic(u.diag, slog.LevelWarn, "overflow upload dropped: queue full",
			slog.String("object", object),
			slog.Int("queue_capacity", cap(u.queue)))
		return nil
	}
}

// PendingTasks returns the number of accepted uploads not yet completed.
func (u *Uploader) PendingTasks() int {
	return int(u.pending.Load())
}

// Shutdown stops intake, waits up to timeout for queued uploads to finish
// (including closing the storage client), and joins the worker. When the
// deadline expires first, in-flight work is cancelled and abandoned; those
// uploads are lost and ErrShutdownTimeout is returned. Shutdown is
// idempotent: later calls return the first call's result without waiting
// again. A non-positive timeout waits indefinitely.
func (u *Uploader) Shutdown(timeout time.Duration) error {
	u.shutdownOnce.Do(func() {
		u.draining.Store(true)
		close(u.queue)

		done := make(chan struct{})
		go func() {
			u.workerWG.Wait()
			close(done)
		}()

		if timeout > 0 {
			select {
			case <-done:
			case <-time.After(timeout):
				// Resource cleanup outranks completing pending uploads at
				// shutdown time: cancel in-flight work and walk away.
				u.cancel()
				u.shutdownErr = ErrShutdownTimeout
				logDiagnostic(u.diag, slog.LevelWarn, "overflow uploader shutdown timed out; pending uploads lost",
					slog.Duration("timeout", timeout),
					slog.Int("pending", u.PendingTasks()))
			}
		} else {
			<-done
		}
		u.cancel()
	})
	return u.shutdownErr
}

// run drains the queue until it is closed, then closes the storage client.
// It is the only goroutine that touches the client.
func (u *Uploader) run(ctx context.Context) {
	defer u.workerWG.Done()

	var client BlobClient
	defer func() {
		if client != nil {
			if err := client.Close(); err != nil {
				logDiagnostic(u.diag, slog.LevelWarn, "error closing overflow storage client",
					slog.Any("error", err))
			}
		}
	}()

	for t := range u.queue {
		if client == nil {
			c, err := u.newClient(ctx)
			if err != nil {
				// Leave client nil so the next task retries initialization.
				t.err = err
				logDiagnostic(u.diag, slog.LevelError, "overflow storage client init failed",
					slog.String("object", t.object),
					slog.Any("error", err))
				u.finish(t)
				continue
			}
			client = c
		}

		if err := client.Upload(ctx, u.bucket, t.object, t.payload); err != nil {
			t.err = err
			logDiagnostic(u.diag, slog.LevelError, "overflow upload failed",
				slog.String("object", t.object),
				slog.String("bucket", u.bucket),
				slog.Any("error", err))
		} else {
			logDiagnostic(u.diag, slog.LevelDebug, "overflow upload complete",
				slog.String("object", t.object),
				slog.String("bucket", u.bucket),
				slog.Int("bytes", len(t.payload)))
		}
		u.finish(t)
	}
}

// finish marks a task complete and releases its waiters.
func (u *Uploader) finish(t *task) {
	u.pending.Add(-1)
	close(t.done)
}
