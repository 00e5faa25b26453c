package maintenance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/queue"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/timezone"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ------------------------------------------------------
// lease
// ------------------------------------------------------

type fakeLocker struct {
	held     map[string]bool
	released []string
	err      error
}

func (l *fakeLocker) Acquire(ctx context.Context, name string, ttl time.Duration) (func(context.Context) error, bool, error) {
	if l.err != nil {
		return nil, false, l.err
	}
	if l.held[name] {
		return nil, false, nil
	}
	l.held[name] = true
	return func(context.Context) error {
		delete(l.held, name)
		l.released = append(l.released, name)
		return nil
	}, true, nil
}

func TestRunOnceHoldsLease(t *testing.T) {
	locker := &fakeLocker{held: map[string]bool{}}
	r := NewRunner(locker, quiet())

	runs := 0
	job := JobFunc(func(ctx context.Context) error {
		if !locker.held["cron:purge_tickets"] {
			t.Fatalf("job must run under its lease")
		}
		runs++
		return nil
	})

	if !r.RunOnce(context.Background(), "purge_tickets", time.Minute, job) {
		t.Fatalf("free lease should run the job")
	}
	if runs != 1 || len(locker.released) != 1 {
		t.Fatalf("runs=%d released=%v", runs, locker.released)
	}

	locker.held["cron:purge_tickets"] = true
	if r.RunOnce(context.Background(), "purge_tickets", time.Minute, job) {
		t.Fatalf("held lease must skip the run")
	}
	if runs != 1 {
		t.Fatalf("job ran without the lease")
	}
}

func TestRunOnceSurvivesFailures(t *testing.T) {
	locker := &fakeLocker{held: map[string]bool{}}
	r := NewRunner(locker, quiet())

	failing := JobFunc(func(ctx context.Context) error { return errors.New("db down") })
	if !r.RunOnce(context.Background(), "stale_desks", time.Minute, failing) {
		t.Fatalf("a failing job still ran")
	}
	if len(locker.released) != 1 {
		t.Fatalf("lease must be released after a failure")
	}

	locker.err = errors.New("redis down")
	if r.RunOnce(context.Background(), "stale_desks", time.Minute, failing) {
		t.Fatalf("no lease, no run")
	}
}

func TestRunnerRejectsBadSpec(t *testing.T) {
	r := NewRunner(&fakeLocker{held: map[string]bool{}}, quiet())
	if err := r.Add("not a spec", "x", time.Second, JobFunc(func(context.Context) error { return nil })); err == nil {
		t.Fatalf("expected an error for an invalid cron spec")
	}
	if err := r.Add("0 */10 * * * *", "stale_desks", time.Minute, JobFunc(func(context.Context) error { return nil })); err != nil {
		t.Fatalf("valid spec: %v", err)
	}
}

// ------------------------------------------------------
// outbox relay
// ------------------------------------------------------

type memOutbox struct {
	rows []models.OutboxEvent
}

func (m *memOutbox) ListUnpublished(ctx context.Context, limit int) ([]models.OutboxEvent, error) {
	var out []models.OutboxEvent
	for _, r := range m.rows {
		if r.PublishedAt == nil && len(out) < limit {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memOutbox) MarkPublished(ctx context.Context, id uint64, at time.Time) error {
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows[i].PublishedAt = &at
		}
	}
	return nil
}

func (m *memOutbox) PurgePublished(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

type capture struct {
	topics  []string
	payload []string
	failOn  string
}

func (c *capture) Publish(ctx context.Context, topic string, payload []byte) error {
	if string(payload) == c.failOn {
		return errors.New("broker down")
	}
	c.topics = append(c.topics, topic)
	c.payload = append(c.payload, string(payload))
	return nil
}

func TestOutboxRelayPublishesInOrder(t *testing.T) {
	box := &memOutbox{rows: []models.OutboxEvent{
		{ID: 1, EventID: "a", Topic: domain.Topic(1), Payload: `{"n":1}`},
		{ID: 2, EventID: "b", Topic: domain.Topic(2), Payload: `{"n":2}`},
		{ID: 3, EventID: "c", Topic: domain.Topic(1), Payload: `{"n":3}`},
	}}
	pub := &capture{failOn: `{"n":2}`}
	relay := NewOutboxRelay(box, pub, time.Now, quiet())

	if err := relay.Run(context.Background()); err == nil {
		t.Fatalf("publish failure must surface")
	}
	if len(pub.payload) != 1 || box.rows[2].PublishedAt != nil {
		t.Fatalf("relay must stop at the failing event: %v", pub.payload)
	}

	pub.failOn = ""
	if err := relay.Run(context.Background()); err != nil {
		t.Fatalf("relay: %v", err)
	}
	want := []string{`{"n":1}`, `{"n":2}`, `{"n":3}`}
	for i := range want {
		if pub.payload[i] != want[i] {
			t.Fatalf("published %v, want %v", pub.payload, want)
		}
	}
	if pub.topics[1] != "queue:location:2" {
		t.Fatalf("topic=%s", pub.topics[1])
	}
}

// ------------------------------------------------------
// purge / stale desks
// ------------------------------------------------------

type purgeOnly struct {
	domain.TicketRepository
	before string
}

func (p *purgeOnly) PurgeBefore(ctx context.Context, dateKey string) (int64, error) {
	p.before = dateKey
	return 4, nil
}

func TestPurgeTicketsCutoff(t *testing.T) {
	loc := timezone.Location("America/Sao_Paulo")
	// 01:30 UTC is still the previous day in São Paulo.
	now := time.Date(2026, 10, 15, 1, 30, 0, 0, time.UTC)
	tickets := &purgeOnly{}

	job := NewPurgeTickets(tickets, &memOutbox{}, 30, loc, func() time.Time { return now }, quiet())
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("purge: %v", err)
	}
	if tickets.before != "2026-09-14" {
		t.Fatalf("cutoff=%s, want 2026-09-14", tickets.before)
	}
}

type staleOnly struct {
	domain.DeskRepository
	seenBefore time.Time
}

func (s *staleOnly) DeactivateStale(ctx context.Context, seenBefore, at time.Time) (int64, error) {
	s.seenBefore = seenBefore
	return 2, nil
}

func TestStaleDesksThreshold(t *testing.T) {
	now := time.Date(2026, 10, 15, 20, 0, 0, 0, time.UTC)
	desks := &staleOnly{}

	if err := NewStaleDesks(desks, 12*time.Hour, func() time.Time { return now }, quiet()).Run(context.Background()); err != nil {
		t.Fatalf("stale: %v", err)
	}
	if !desks.seenBefore.Equal(now.Add(-12 * time.Hour)) {
		t.Fatalf("seenBefore=%v", desks.seenBefore)
	}
}
