package appointment

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/BruksfildServices01/service-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/directory"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/holiday"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
	"github.com/BruksfildServices01/service-scheduler/internal/timezone"
)

// ------------------------------------------------------
// appointments
// ------------------------------------------------------

type memAppointments struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]models.Appointment
}

func newMemAppointments() *memAppointments {
	return &memAppointments{rows: map[uint]models.Appointment{}}
}

func (m *memAppointments) Get(ctx context.Context, id uint) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ap, ok := m.rows[id]
	if !ok {
		return nil, httperr.NotFoundErr("appointment_not_found")
	}
	return &ap, nil
}

func (m *memAppointments) List(ctx context.Context, f domain.ListFilter, page domain.Page) ([]models.Appointment, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Appointment
	for _, ap := range m.rows {
		if f.ProfessionalID != 0 && ap.ProfessionalID != f.ProfessionalID {
			continue
		}
		if f.ClientID != 0 && ap.ClientID != f.ClientID {
			continue
		}
		if f.Status != "" && ap.Status != string(f.Status) {
			continue
		}
		out = append(out, ap)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	total := int64(len(out))
	page = page.Normalize()
	lo := page.Offset()
	if lo > len(out) {
		lo = len(out)
	}
	hi := lo + page.Size
	if hi > len(out) {
		hi = len(out)
	}
	return out[lo:hi], total, nil
}

func (m *memAppointments) overlapping(professionalID uint, w domain.Window, excludeID uint) []models.Appointment {
	var out []models.Appointment
	for _, ap := range m.rows {
		if ap.ProfessionalID != professionalID || ap.ID == excludeID || ap.Status == string(domain.StatusCancelled) {
			continue
		}
		if ap.StartAt.Before(w.End) && ap.EndAt.After(w.Start) {
			out = append(out, ap)
		}
	}
	return out
}

func (m *memAppointments) FindOverlapping(ctx context.Context, professionalID uint, w domain.Window, excludeID uint) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.overlapping(professionalID, w, excludeID), nil
}

func (m *memAppointments) ListActiveForProfessional(ctx context.Context, professionalID uint, start, end time.Time) ([]models.Appointment, error) {
	return m.FindOverlapping(ctx, professionalID, domain.Window{Start: start, End: end}, 0)
}

func (m *memAppointments) HasActiveForClientService(ctx context.Context, clientID, serviceID uint, start, end time.Time, excludeID uint) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ap := range m.rows {
		if ap.ClientID == clientID && ap.ServiceID == serviceID && ap.ID != excludeID &&
			ap.Status != string(domain.StatusCancelled) &&
			!ap.StartAt.Before(start) && ap.StartAt.Before(end) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memAppointments) FindActiveForClient(ctx context.Context, clientID uint, start, end time.Time) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, ap := range m.rows {
		if ap.ClientID == clientID && ap.Status != string(domain.StatusCancelled) &&
			!ap.StartAt.Before(start) && ap.StartAt.Before(end) {
			return &ap, nil
		}
	}
	return nil, nil
}

func (m *memAppointments) SaveChecked(ctx context.Context, ap *models.Appointment, w domain.Window) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := domain.ConflictWith(m.overlapping(ap.ProfessionalID, w, ap.ID)); err != nil {
		return err
	}
	if ap.ID == 0 {
		m.nextID++
		ap.ID = m.nextID
		m.rows[ap.ID] = *ap
		return nil
	}
	return m.swap(ap, domain.Status(ap.Status))
}

func (m *memAppointments) Update(ctx context.Context, ap *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.swap(ap, domain.Status(ap.Status))
}

func (m *memAppointments) Transition(ctx context.Context, ap *models.Appointment, from domain.Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.swap(ap, from)
}

func (m *memAppointments) swap(ap *models.Appointment, expected domain.Status) error {
	if cur, ok := m.rows[ap.ID]; !ok || cur.Status != string(expected) {
		return domain.StateChangedErr(ap.ID, expected)
	}
	m.rows[ap.ID] = *ap
	return nil
}

// readBarrier holds every Get until n callers have read, so their
// writes all start from the same snapshot.
type readBarrier struct {
	*memAppointments
	wg sync.WaitGroup
}

func newReadBarrier(repo *memAppointments, n int) *readBarrier {
	b := &readBarrier{memAppointments: repo}
	b.wg.Add(n)
	return b
}

func (b *readBarrier) Get(ctx context.Context, id uint) (*models.Appointment, error) {
	ap, err := b.memAppointments.Get(ctx, id)
	b.wg.Done()
	b.wg.Wait()
	return ap, err
}

// ------------------------------------------------------
// availability
// ------------------------------------------------------

type memAvailability struct {
	rows map[[2]uint]models.Availability
}

func (m *memAvailability) Get(ctx context.Context, professionalID, serviceID uint) (*models.Availability, error) {
	av, ok := m.rows[[2]uint{professionalID, serviceID}]
	if !ok {
		return nil, httperr.NotFoundErr("availability_not_found")
	}
	return &av, nil
}

func (m *memAvailability) ListForProfessional(ctx context.Context, professionalID uint) ([]models.Availability, error) {
	var out []models.Availability
	for k, av := range m.rows {
		if k[0] == professionalID {
			out = append(out, av)
		}
	}
	return out, nil
}

func (m *memAvailability) Upsert(ctx context.Context, av *models.Availability, validate func([]models.Availability) error) error {
	others, _ := m.ListForProfessional(ctx, av.ProfessionalID)
	if err := validate(others); err != nil {
		return err
	}
	m.rows[[2]uint{av.ProfessionalID, av.ServiceID}] = *av
	return nil
}

// ------------------------------------------------------
// holidays, directory, audit
// ------------------------------------------------------

type fixedHolidays struct {
	dates holiday.DateSet
}

func (h fixedHolidays) IsHoliday(ctx context.Context, date time.Time) (bool, error) {
	return h.dates.Has(date.Format(timezone.DateLayout)), nil
}

func (h fixedHolidays) HolidaysInRange(ctx context.Context, from, to time.Time) (holiday.DateSet, error) {
	return h.dates, nil
}

type memDirectory struct {
	clients       map[uint]string
	professionals map[uint]string
	services      map[uint]string
	offers        map[uint][]uint
}

func (d *memDirectory) FindActiveClient(ctx context.Context, id uint) (*models.Client, error) {
	name, ok := d.clients[id]
	if !ok {
		return nil, httperr.NotFoundErr("client_not_found")
	}
	return &models.Client{ID: id, Name: name, Active: true}, nil
}

func (d *memDirectory) FindActiveProfessional(ctx context.Context, id uint) (*models.Professional, error) {
	name, ok := d.professionals[id]
	if !ok {
		return nil, httperr.NotFoundErr("professional_not_found")
	}
	return &models.Professional{ID: id, Name: name, Active: true}, nil
}

func (d *memDirectory) FindActiveService(ctx context.Context, id uint) (*models.Service, error) {
	name, ok := d.services[id]
	if !ok {
		return nil, httperr.NotFoundErr("service_not_found")
	}
	return &models.Service{ID: id, Name: name, Active: true}, nil
}

func (d *memDirectory) ServicesOffered(ctx context.Context, professionalID uint) ([]uint, error) {
	return d.offers[professionalID], nil
}

func (d *memDirectory) FindOrCreateClientByDNI(ctx context.Context, dni string) (*models.Client, error) {
	return nil, httperr.NotFoundErr("client_not_found")
}

func (d *memDirectory) LookupNames(ctx context.Context, clientIDs, professionalIDs, serviceIDs []uint) (directory.Names, error) {
	return directory.Names{Clients: d.clients, Professionals: d.professionals, Services: d.services}, nil
}

type recorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *recorder) Record(ev audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Action
	}
	return out
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
