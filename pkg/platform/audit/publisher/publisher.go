// Package publisher decouples event emission from event storage. In sync
// mode Emit writes straight through; with an async buffer a single worker
// drains a channel so request handling never blocks on the audit store.
package publisher

import (
	"context"
	"log/slog"
	"sync"

	audit "affilia/pkg/platform/audit"
)

type Publisher struct {
	store  audit.Store
	logger *slog.Logger

	buffer chan audit.Event
	wg     sync.WaitGroup
	once   sync.Once
}

type Option func(*Publisher)

// WithAsyncBuffer switches the publisher to async mode with the given
// channel capacity. When the buffer is full Emit falls back to a
// synchronous write rather than dropping the event.
func WithAsyncBuffer(size int) Option {
	return func(p *Publisher) {
		p.buffer = make(chan audit.Event, size)
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func NewPublisher(store audit.Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.buffer != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

// Emit records one event. In async mode the write happens on the worker
// goroutine; Close flushes pending events.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if p.buffer == nil {
		return p.store.Append(ctx, event)
	}
	select {
	case p.buffer <- event:
		return nil
	default:
		return p.store.Append(ctx, event)
	}
}

// List exposes the underlying store's recent events, mainly for tests and
// admin tooling.
func (p *Publisher) List(ctx context.Context, clubID int64) ([]audit.Event, error) {
	return p.store.ListByClub(ctx, clubID)
}

// Close stops the async worker after flushing buffered events.
func (p *Publisher) Close() {
	p.once.Do(func() {
		if p.buffer != nil {
			close(p.buffer)
			p.wg.Wait()
		}
	})
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.buffer {
		if err := p.store.Append(context.Background(), event); err != nil && p.logger != nil {
			p.logger.Error("failed to append audit event",
				"action", event.Action,
				"error", err,
			)
		}
	}
}
