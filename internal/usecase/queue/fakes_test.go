package queue

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	appointment "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/directory"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/queue"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// memTickets mimics the store: the waiting-dni uniqueness is checked
// inside Create, like the partial unique index.
type memTickets struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]models.QueueTicket
	events []domain.Event
}

func newMemTickets() *memTickets {
	return &memTickets{rows: map[uint]models.QueueTicket{}}
}

func (m *memTickets) FindWaiting(ctx context.Context, dateKey string, locationID uint, dni string) (*models.QueueTicket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.rows {
		if t.DateKey == dateKey && t.LocationID == locationID && t.DNI == dni && t.Status == string(domain.StatusWaiting) {
			return &t, nil
		}
	}
	return nil, nil
}

func (m *memTickets) Create(ctx context.Context, t *models.QueueTicket, ev func(*models.QueueTicket) domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.DateKey == t.DateKey && row.LocationID == t.LocationID && row.Type == t.Type && row.Seq == t.Seq {
			return httperr.ConflictErr("duplicate_seq", nil)
		}
		if row.DateKey == t.DateKey && row.LocationID == t.LocationID && row.DNI == t.DNI &&
			row.Status == string(domain.StatusWaiting) && t.Status == string(domain.StatusWaiting) {
			return httperr.ConflictErr("duplicate_waiting_ticket", nil)
		}
	}
	m.nextID++
	t.ID = m.nextID
	m.rows[t.ID] = *t
	m.events = append(m.events, ev(t))
	return nil
}

func (m *memTickets) Get(ctx context.Context, id uint) (*models.QueueTicket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[id]
	if !ok {
		return nil, httperr.NotFoundErr("ticket_not_found")
	}
	return &t, nil
}

func (m *memTickets) GetByCode(ctx context.Context, locationID uint, dateKey, code string) (*models.QueueTicket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.rows {
		if t.LocationID == locationID && t.DateKey == dateKey && t.Code == code {
			return &t, nil
		}
	}
	return nil, httperr.NotFoundErr("ticket_not_found")
}

func (m *memTickets) List(ctx context.Context, f domain.TicketFilter) ([]models.QueueTicket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.QueueTicket
	for _, t := range m.rows {
		if t.LocationID != f.LocationID || t.DateKey != f.DateKey {
			continue
		}
		if f.Status != "" && t.Status != string(f.Status) {
			continue
		}
		if f.Type != "" && t.Type != string(f.Type) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Seq < out[j].Seq
	})
	return out, nil
}

func (m *memTickets) Transition(ctx context.Context, t *models.QueueTicket, from domain.Status, ev domain.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.rows[t.ID]
	if !ok || stored.Status != string(from) {
		return httperr.ConflictErr("ticket_state_changed", nil)
	}
	m.rows[t.ID] = *t
	m.events = append(m.events, ev)
	return nil
}

func (m *memTickets) PurgeBefore(ctx context.Context, dateKey string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, t := range m.rows {
		if t.DateKey < dateKey {
			delete(m.rows, id)
			n++
		}
	}
	return n, nil
}

type memCounter struct {
	mu   sync.Mutex
	seqs map[string]int64
}

func (c *memCounter) Next(ctx context.Context, dateKey string, locationID uint, t domain.TicketType) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.seqs == nil {
		c.seqs = map[string]int64{}
	}
	key := fmt.Sprintf("%s/%d/%s", dateKey, locationID, t)
	c.seqs[key]++
	return c.seqs[key], nil
}

// memDesks keeps the desk invariants under one lock, like the store's
// transaction does.
type memDesks struct {
	mu      sync.Mutex
	rows    []models.DeskAssignment
	touched int
}

func (m *memDesks) Assign(ctx context.Context, a *models.DeskAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	found := false
	for i := range m.rows {
		r := &m.rows[i]
		if r.LocationID == a.LocationID && r.DeskID == a.DeskID {
			r.ReceptionistID, r.Active, r.LastSeenAt = a.ReceptionistID, true, a.LastSeenAt
			found = true
			continue
		}
		if r.ReceptionistID == a.ReceptionistID && r.Active {
			r.Active = false
		}
	}
	if !found {
		a.ID = uint(len(m.rows) + 1)
		m.rows = append(m.rows, *a)
	}
	return nil
}

func (m *memDesks) Release(ctx context.Context, locationID, deskID uint, at time.Time) (*models.DeskAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		r := &m.rows[i]
		if r.LocationID == locationID && r.DeskID == deskID && r.Active {
			r.Active = false
			out := *r
			return &out, nil
		}
	}
	return nil, httperr.NotFoundErr("desk_not_assigned")
}

func (m *memDesks) Touch(ctx context.Context, locationID, deskID uint, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.touched++
	return nil
}

func (m *memDesks) ActiveForReceptionist(ctx context.Context, locationID, receptionistID uint) (*models.DeskAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.LocationID == locationID && r.ReceptionistID == receptionistID && r.Active {
			return &r, nil
		}
	}
	return nil, nil
}

func (m *memDesks) List(ctx context.Context, locationID uint, activeOnly bool) ([]models.DeskAssignment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.DeskAssignment
	for _, r := range m.rows {
		if r.LocationID == locationID && (!activeOnly || r.Active) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memDesks) DeactivateStale(ctx context.Context, seenBefore, at time.Time) (int64, error) {
	return 0, nil
}

// stubDirectory only knows how to resolve clients by document.
type stubDirectory struct {
	directory.Directory

	mu      sync.Mutex
	byDNI   map[string]*models.Client
	created int
}

func (d *stubDirectory) FindOrCreateClientByDNI(ctx context.Context, dni string) (*models.Client, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.byDNI == nil {
		d.byDNI = map[string]*models.Client{}
	}
	if c, ok := d.byDNI[dni]; ok {
		return c, nil
	}
	d.created++
	c := &models.Client{ID: uint(1000 + d.created), DNI: dni, NeedsData: true, Active: true}
	d.byDNI[dni] = c
	return c, nil
}

// stubAppointments answers only the same-day lookup.
type stubAppointments struct {
	appointment.Repository
	today map[uint]*models.Appointment
}

func (s stubAppointments) FindActiveForClient(ctx context.Context, clientID uint, start, end time.Time) (*models.Appointment, error) {
	return s.today[clientID], nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
