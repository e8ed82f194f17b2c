package application_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/blogpanel/internal/application"
)

// gatedReader releases reads per locator on demand and records cancellations.
type gatedReader struct {
	mu        sync.Mutex
	gates     map[string]chan struct{}
	cancelled map[string]bool
	calls     []string
}

func newGatedReader(locators ...string) *gatedReader {
	r := &gatedReader{gates: make(map[string]chan struct{}), cancelled: make(map[string]bool)}
	for _, l := range locators {
		r.gates[l] = make(chan struct{})
	}
	return r
}

func (r *gatedReader) read(ctx context.Context, locator string) (string, error) {
	r.mu.Lock()
	r.calls = append(r.calls, locator)
	gate := r.gates[locator]
	r.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			r.mu.Lock()
			r.cancelled[locator] = true
			r.mu.Unlock()
			// Answer anyway, as a server that ignores cancellation would.
			<-gate
		}
	}
	return "payload for " + locator, nil
}

func (r *gatedReader) release(locator string) { close(r.gates[locator]) }

func (r *gatedReader) wasCancelled(locator string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancelled[locator]
}

func (r *gatedReader) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func awaitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestFetcher_LoadsPayload(t *testing.T) {
	reader := newGatedReader()
	f := application.NewFetcher(reader.read, nil)
	defer f.Close()

	f.SetLocator("/api/posts/?page=1")
	res := f.Await(awaitCtx(t))

	assert.False(t, res.Loading)
	assert.True(t, res.Loaded)
	assert.NoError(t, res.Err)
	assert.Equal(t, "payload for /api/posts/?page=1", res.Payload)
}

func TestFetcher_LatePageOneResponseIsDiscarded(t *testing.T) {
	reader := newGatedReader("/api/posts/?page=1", "/api/posts/?page=2")
	f := application.NewFetcher(reader.read, nil)
	defer f.Close()

	f.SetLocator("/api/posts/?page=1")
	f.SetLocator("/api/posts/?page=2")

	reader.release("/api/posts/?page=2")
	res := f.Await(awaitCtx(t))
	require.True(t, res.Loaded)
	assert.Equal(t, "payload for /api/posts/?page=2", res.Payload)

	require.Eventually(t, func() bool { return reader.wasCancelled("/api/posts/?page=1") }, time.Second, 5*time.Millisecond)
	reader.release("/api/posts/?page=1")

	// Give the stale read time to return; it must not replace page 2.
	time.Sleep(20 * time.Millisecond)
	res = f.Result()
	assert.Equal(t, "/api/posts/?page=2", res.Locator)
	assert.Equal(t, "payload for /api/posts/?page=2", res.Payload)
}

func TestFetcher_FinalResultMatchesLastLocator(t *testing.T) {
	reader := newGatedReader()
	f := application.NewFetcher(reader.read, nil)
	defer f.Close()

	locators := []string{"a", "b", "c", "d", "e"}
	for _, l := range locators {
		f.SetLocator(l)
	}

	res := f.Await(awaitCtx(t))
	assert.Equal(t, "e", res.Locator)
	assert.Equal(t, "payload for e", res.Payload)
}

func TestFetcher_SameLocatorIsNoop(t *testing.T) {
	reader := newGatedReader()
	f := application.NewFetcher(reader.read, nil)
	defer f.Close()

	f.SetLocator("x")
	f.Await(awaitCtx(t))
	f.SetLocator("x")
	f.Await(awaitCtx(t))

	assert.Equal(t, 1, reader.callCount())
}

func TestFetcher_Failure(t *testing.T) {
	boom := errors.New("boom")
	f := application.NewFetcher(func(context.Context, string) (int, error) { return 0, boom }, nil)
	defer f.Close()

	f.SetLocator("x")
	res := f.Await(awaitCtx(t))

	assert.False(t, res.Loading)
	assert.False(t, res.Loaded)
	assert.ErrorIs(t, res.Err, boom)
}

func TestFetcher_CloseDiscardsInFlight(t *testing.T) {
	reader := newGatedReader("x")
	f := application.NewFetcher(reader.read, nil)

	f.SetLocator("x")
	f.Close()
	reader.release("x")

	res := f.Await(awaitCtx(t))
	assert.True(t, res.Loading)
	assert.False(t, res.Loaded)

	f.SetLocator("y")
	assert.Equal(t, "x", f.Result().Locator)
}

func TestFetcher_OnChangeSeesLoadingThenPayload(t *testing.T) {
	reader := newGatedReader()
	f := application.NewFetcher(reader.read, nil)
	defer f.Close()

	var mu sync.Mutex
	var seen []application.Result[string]
	f.OnChange(func(r application.Result[string]) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, r)
	})

	f.SetLocator("x")
	f.Await(awaitCtx(t))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, seen[0].Loading)
	assert.True(t, seen[1].Loaded)
}

func TestFetcher_AwaitWithoutLocatorReturnsImmediately(t *testing.T) {
	f := application.NewFetcher(newGatedReader().read, nil)
	defer f.Close()

	res := f.Await(awaitCtx(t))
	assert.False(t, res.Loading)
	assert.False(t, res.Loaded)
}

func TestFetcher_ParentContextReachesRead(t *testing.T) {
	type key struct{}
	parent, cancel := context.WithCancel(context.WithValue(context.Background(), key{}, "req-1"))
	f := application.NewFetcherWithContext(parent, func(ctx context.Context, _ string) (string, error) {
		v, _ := ctx.Value(key{}).(string)
		<-ctx.Done()
		return v, ctx.Err()
	}, nil)
	defer f.Close()

	f.SetLocator("x")
	cancel()
	res := f.Await(awaitCtx(t))

	assert.ErrorIs(t, res.Err, context.Canceled)
}
