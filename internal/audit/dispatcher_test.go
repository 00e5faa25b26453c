package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type fakeStore struct {
	mu     sync.Mutex
	events []Event
	fail   bool
	block  chan struct{}
}

func (f *fakeStore) Log(ctx context.Context, ev Event) error {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	if f.fail {
		return errors.New("db down")
	}
	return nil
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDispatcherDeliversInOrder(t *testing.T) {
	store := &fakeStore{}
	d := NewDispatcher(store, discard())

	for _, action := range []string{"a", "b", "c"} {
		d.Record(Event{Action: action})
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	d.Close(ctx)

	if len(store.events) != 3 || store.events[0].Action != "a" || store.events[2].Action != "c" {
		t.Fatalf("events=%+v", store.events)
	}
}

func TestDispatcherSwallowsStoreErrors(t *testing.T) {
	store := &fakeStore{fail: true}
	d := NewDispatcher(store, discard())

	d.Record(Event{Action: "appointment_created"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	d.Close(ctx)

	if len(store.events) != 1 {
		t.Fatalf("expected the failing write to be attempted once")
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	store := &fakeStore{block: make(chan struct{})}
	d := NewDispatcher(store, discard())

	// One event is held by the blocked worker, the buffer takes 100 more.
	for i := 0; i < 150; i++ {
		d.Record(Event{Action: "x"})
	}
	close(store.block)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	d.Close(ctx)

	if n := len(store.events); n > 101 || n < 100 {
		t.Fatalf("delivered %d events, want 100 or 101", n)
	}
}

func TestSnapshot(t *testing.T) {
	if snapshot(nil) != "" {
		t.Fatalf("nil snapshot should be empty")
	}
	if got := snapshot(map[string]int{"id": 7}); got != `{"id":7}` {
		t.Fatalf("snapshot=%s", got)
	}
}
