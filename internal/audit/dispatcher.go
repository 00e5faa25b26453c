package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type Event struct {
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Before   any
	After    any
}

// Recorder is what use cases depend on. Record never blocks and never
// fails the caller.
type Recorder interface {
	Record(ev Event)
}

const writeTimeout = 3 * time.Second

type Dispatcher struct {
	store  Store
	log    *slog.Logger
	queue  chan Event
	done   chan struct{}
	closed sync.Once
}

func NewDispatcher(store Store, log *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		store: store,
		log:   log,
		queue: make(chan Event, 100), // buffer seguro
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		if err := d.store.Log(ctx, ev); err != nil {
			d.log.Error("audit write failed",
				slog.String("action", ev.Action),
				slog.String("entity", ev.Entity),
				slog.Any("error", err),
			)
		}
		cancel()
	}
}

func (d *Dispatcher) Record(ev Event) {
	select {
	case d.queue <- ev:
		// enviado
	default:
		// fila cheia → descartamos audit (nunca quebrar API)
		d.log.Warn("audit queue full, dropping event", slog.String("action", ev.Action))
	}
}

// Close stops accepting events and waits for the queue to drain or ctx
// to end. Record must not be called after Close.
func (d *Dispatcher) Close(ctx context.Context) {
	d.closed.Do(func() { close(d.queue) })
	select {
	case <-d.done:
	case <-ctx.Done():
	}
}

var _ Recorder = (*Dispatcher)(nil)
