package application

import (
	"context"
	"log/slog"
	"sync"
)

// ReadFunc performs one remote read for locator.
type ReadFunc[T any] func(ctx context.Context, locator string) (T, error)

// Result is the tri-state outcome of a Fetcher for one locator. Loading is
// true while the read is in flight; afterwards exactly one of Payload (with
// Loaded) or Err is meaningful.
type Result[T any] struct {
	Locator string
	Loading bool
	Loaded  bool
	Payload T
	Err     error
}

// Fetcher re-reads a resource whenever its locator changes. Each change runs
// one independent read; there is no retry, caching, or deduplication.
//
// A read only applies its result while it is still the latest one. Changing
// the locator or closing the fetcher cancels the superseded read's context and
// discards whatever it returns.
type Fetcher[T any] struct {
	parent context.Context
	read   ReadFunc[T]
	logger *slog.Logger

	mu         sync.Mutex
	result     Result[T]
	generation uint64
	started    bool
	closed     bool
	cancel     context.CancelFunc
	settled    chan struct{}
	observers  []func(Result[T])
}

// NewFetcher creates an idle Fetcher. Nothing is read until SetLocator.
func NewFetcher[T any](read ReadFunc[T], logger *slog.Logger) *Fetcher[T] {
	return NewFetcherWithContext(context.Background(), read, logger)
}

// NewFetcherWithContext is NewFetcher with every read's context derived from
// parent, so cancelling parent cancels the in-flight read and request-scoped
// values such as trace spans reach the ReadFunc.
func NewFetcherWithContext[T any](parent context.Context, read ReadFunc[T], logger *slog.Logger) *Fetcher[T] {
	if logger == nil {
		logger = slog.Default()
	}
	settled := make(chan struct{})
	close(settled)
	return &Fetcher[T]{parent: parent, read: read, logger: logger, settled: settled}
}

// SetLocator starts a read for locator unless it is already the current one.
func (f *Fetcher[T]) SetLocator(locator string) {
	f.mu.Lock()
	if f.closed || (f.started && f.result.Locator == locator) {
		f.mu.Unlock()
		return
	}

	if f.cancel != nil {
		f.cancel()
	}
	f.release()
	ctx, cancel := context.WithCancel(f.parent)

	f.started = true
	f.generation++
	gen := f.generation
	f.cancel = cancel
	f.settled = make(chan struct{})
	f.result = Result[T]{Locator: locator, Loading: true}
	snapshot, observers := f.result, f.observersLocked()
	f.mu.Unlock()

	notifyAll(observers, snapshot)

	go f.run(ctx, cancel, gen, locator)
}

func (f *Fetcher[T]) run(ctx context.Context, cancel context.CancelFunc, gen uint64, locator string) {
	defer cancel()
	payload, err := f.read(ctx, locator)

	f.mu.Lock()
	if f.closed || gen != f.generation {
		f.mu.Unlock()
		f.logger.Debug("discarding stale read", "locator", locator)
		return
	}

	f.result = Result[T]{Locator: locator}
	if err != nil {
		f.result.Err = err
	} else {
		f.result.Payload = payload
		f.result.Loaded = true
	}
	f.cancel = nil
	close(f.settled)
	snapshot, observers := f.result, f.observersLocked()
	f.mu.Unlock()

	notifyAll(observers, snapshot)
}

// Result returns the current state.
func (f *Fetcher[T]) Result() Result[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.result
}

// Await blocks until the current locator's read settles, the fetcher is
// closed, or ctx is done, then returns the state at that point.
func (f *Fetcher[T]) Await(ctx context.Context) Result[T] {
	for {
		f.mu.Lock()
		settled, gen := f.settled, f.generation
		f.mu.Unlock()

		select {
		case <-settled:
		case <-ctx.Done():
			return f.Result()
		}

		f.mu.Lock()
		r, done := f.result, f.closed || gen == f.generation
		f.mu.Unlock()
		if done {
			return r
		}
	}
}

// OnChange registers fn to be called after every state change. Calls happen
// outside the fetcher's lock, from the goroutine that made the change.
func (f *Fetcher[T]) OnChange(fn func(Result[T])) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.observers = append(f.observers, fn)
}

// Close cancels any in-flight read. No result is applied afterwards.
func (f *Fetcher[T]) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.release()
}

// release wakes waiters on the current settled channel. Callers hold f.mu.
func (f *Fetcher[T]) release() {
	select {
	case <-f.settled:
	default:
		close(f.settled)
	}
}

func (f *Fetcher[T]) observersLocked() []func(Result[T]) {
	return append([]func(Result[T]){}, f.observers...)
}

func notifyAll[T any](observers []func(Result[T]), r Result[T]) {
	for _, fn := range observers {
		fn(r)
	}
}
