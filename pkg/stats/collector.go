package stats

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jdziat/simple-frame-handlers/pkg/core"
	"github.com/jdziat/simple-frame-handlers/pkg/schedule"
	"github.com/jdziat/simple-frame-handlers/pkg/security"
)

// EventSource is the part of an endpoint the collector listens to.
type EventSource interface {
	Events() <-chan core.Event
	Unsubscribe(ch <-chan core.Event)
}

type counterKey struct {
	receiver string
	kind     string
}

// Collector counts dispatch outcomes and flushes them to a Storage.
type Collector struct {
	source    EventSource
	stats     Storage
	retention time.Duration
	schedule  schedule.Schedule
	retry     RetryConfig
	logger    *slog.Logger

	mu       sync.Mutex
	counters map[counterKey]*Counters

	// ready is closed once the collector has subscribed to events.
	ready     chan struct{}
	readyOnce sync.Once
}

// CollectorOption configures the Collector.
type CollectorOption interface {
	apply(*Collector)
}

type collectorOptionFunc func(*Collector)

func (f collectorOptionFunc) apply(c *Collector) { f(c) }

// WithRetention sets how long rows are kept. 0 disables pruning.
func WithRetention(d time.Duration) CollectorOption {
	return collectorOptionFunc(func(c *Collector) {
		c.retention = d
	})
}

// WithSchedule sets when counters are flushed. The default is every minute.
func WithSchedule(s schedule.Schedule) CollectorOption {
	return collectorOptionFunc(func(c *Collector) {
		if s != nil {
			c.schedule = s
		}
	})
}

// WithRetry sets how failed counter writes are retried.
func WithRetry(cfg RetryConfig) CollectorOption {
	return collectorOptionFunc(func(c *Collector) {
		c.retry = cfg
	})
}

// WithLogger sets the logger used for flush failures.
func WithLogger(l *slog.Logger) CollectorOption {
	return collectorOptionFunc(func(c *Collector) {
		if l != nil {
			c.logger = l
		}
	})
}

// NewCollector creates a Collector reading events from source.
func NewCollector(source EventSource, stats Storage, opts ...CollectorOption) *Collector {
	c := &Collector{
		source:    source,
		stats:     stats,
		retention: 7 * 24 * time.Hour,
		schedule:  schedule.Every(time.Minute),
		retry:     DefaultRetryConfig(),
		logger:    slog.Default(),
		counters:  make(map[counterKey]*Counters),
		ready:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt.apply(c)
	}
	return c
}

// WaitReady blocks until the collector has subscribed to events.
func (c *Collector) WaitReady() {
	<-c.ready
}

// Start consumes events and flushes on schedule until ctx is cancelled,
// then flushes once more.
func (c *Collector) Start(ctx context.Context) {
	events := c.source.Events()
	defer c.source.Unsubscribe(events)

	c.readyOnce.Do(func() { close(c.ready) })

	timer := time.NewTimer(c.untilNext())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			c.drain(events)
			flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = c.Flush(flushCtx)
			cancel()
			return
		case e := <-events:
			c.handleEvent(e)
		case <-timer.C:
			_ = c.Flush(ctx)
			c.prune(ctx)
			timer.Reset(c.untilNext())
		}
	}
}

func (c *Collector) untilNext() time.Duration {
	now := time.Now()
	d := c.schedule.Next(now).Sub(now)
	if d <= 0 {
		d = time.Second
	}
	return d
}

// drain counts events already buffered when the collector stops.
func (c *Collector) drain(events <-chan core.Event) {
	for {
		select {
		case e := <-events:
			c.handleEvent(e)
		default:
			return
		}
	}
}

func (c *Collector) handleEvent(e core.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev := e.(type) {
	case *core.FrameHandled:
		c.get(ev.Receiver, ev.Kind).Handled++
	case *core.FrameUnhandled:
		c.get(ev.Receiver, ev.Kind).Unhandled++
	case *core.DispatchFailed:
		ct := c.get(ev.Receiver, ev.Kind)
		var amb *core.DispatchAmbiguityError
		if errors.As(ev.Error, &amb) {
			ct.Ambiguous++
		} else {
			ct.Failed++
		}
		if ev.Error != nil {
			ct.LastError = security.SanitizeErrorMessage(ev.Error.Error())
		}
	}
}

func (c *Collector) get(receiver, kind string) *Counters {
	k := counterKey{receiver: receiver, kind: kind}
	ct, ok := c.counters[k]
	if !ok {
		ct = &Counters{}
		c.counters[k] = ct
	}
	return ct
}

// Flush writes accumulated counters to storage, retrying each write per the
// retry config. Counters that still fail are kept for the next flush and the
// errors are returned joined.
func (c *Collector) Flush(ctx context.Context) error {
	c.mu.Lock()
	batch := c.counters
	c.counters = make(map[counterKey]*Counters)
	c.mu.Unlock()

	ts := time.Now().Truncate(time.Minute)
	var errs []error
	failed := make(map[counterKey]*Counters)
	for k, ct := range batch {
		if ct.IsZero() {
			continue
		}
		err := retryWithBackoff(ctx, c.retry, func() error {
			return c.stats.UpsertCounters(ctx, k.receiver, k.kind, ts, *ct)
		})
		if err != nil {
			c.logger.Error("failed to flush dispatch stats", "receiver", k.receiver, "kind", k.kind, "error", err)
			errs = append(errs, err)
			failed[k] = ct
		}
	}

	if len(failed) > 0 {
		c.mu.Lock()
		for k, ct := range failed {
			// Events counted during the write are newer than the failed batch.
			c.get(k.receiver, k.kind).add(*ct)
		}
		c.mu.Unlock()
	}
	return errors.Join(errs...)
}

func (c *Collector) prune(ctx context.Context) {
	if c.retention <= 0 {
		return
	}
	if _, err := c.stats.Prune(ctx, time.Now().Add(-c.retention)); err != nil {
		c.logger.Warn("failed to prune dispatch stats", "error", err)
	}
}
