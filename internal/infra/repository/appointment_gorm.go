package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Read
// --------------------------------------------------

func (r *AppointmentGormRepository) Get(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		if isNotFound(err) {
			return nil, httperr.NotFoundErr("appointment_not_found")
		}
		return nil, fmt.Errorf("get appointment %d: %w", id, err)
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) List(
	ctx context.Context,
	filter domain.ListFilter,
	page domain.Page,
) ([]models.Appointment, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Appointment{})

	if filter.ProfessionalID != 0 {
		q = q.Where("professional_id = ?", filter.ProfessionalID)
	}
	if filter.ClientID != 0 {
		q = q.Where("client_id = ?", filter.ClientID)
	}
	if filter.ServiceID != 0 {
		q = q.Where("service_id = ?", filter.ServiceID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", string(filter.Status))
	}
	if filter.From != nil {
		q = q.Where("start_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("start_at < ?", *filter.To)
	}

	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}

	page = page.Normalize()
	var apps []models.Appointment
	if err := q.
		Order("start_at ASC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&apps).Error; err != nil {
		return nil, 0, fmt.Errorf("list appointments: %w", err)
	}

	return apps, total, nil
}

func (r *AppointmentGormRepository) FindOverlapping(
	ctx context.Context,
	professionalID uint,
	window domain.Window,
	excludeID uint,
) ([]models.Appointment, error) {
	return findOverlapping(r.db.WithContext(ctx), professionalID, window, excludeID)
}

func findOverlapping(
	db *gorm.DB,
	professionalID uint,
	window domain.Window,
	excludeID uint,
) ([]models.Appointment, error) {

	q := db.
		Where(
			"professional_id = ? AND status <> ? AND start_at < ? AND end_at > ?",
			professionalID,
			string(domain.StatusCancelled),
			window.End,
			window.Start,
		)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var apps []models.Appointment
	if err := q.Order("start_at ASC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("find overlapping appointments: %w", err)
	}
	return apps, nil
}

func (r *AppointmentGormRepository) ListActiveForProfessional(
	ctx context.Context,
	professionalID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Select("id", "start_at", "end_at").
		Where(
			"professional_id = ? AND status <> ? AND start_at < ? AND end_at > ?",
			professionalID,
			string(domain.StatusCancelled),
			end,
			start,
		).
		Order("start_at ASC").
		Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("list professional appointments: %w", err)
	}

	return apps, nil
}

func (r *AppointmentGormRepository) HasActiveForClientService(
	ctx context.Context,
	clientID uint,
	serviceID uint,
	start time.Time,
	end time.Time,
	excludeID uint,
) (bool, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where(
			"client_id = ? AND service_id = ? AND status <> ? AND start_at >= ? AND start_at < ?",
			clientID,
			serviceID,
			string(domain.StatusCancelled),
			start,
			end,
		)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("count client appointments: %w", err)
	}
	return count > 0, nil
}

func (r *AppointmentGormRepository) FindActiveForClient(
	ctx context.Context,
	clientID uint,
	start time.Time,
	end time.Time,
) (*models.Appointment, error) {

	var ap models.Appointment
	err := r.db.WithContext(ctx).
		Where(
			"client_id = ? AND status <> ? AND start_at >= ? AND start_at < ?",
			clientID,
			string(domain.StatusCancelled),
			start,
			end,
		).
		Order("start_at ASC").
		First(&ap).Error
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find client appointment: %w", err)
	}
	return &ap, nil
}

// --------------------------------------------------
// Write
// --------------------------------------------------

func (r *AppointmentGormRepository) SaveChecked(
	ctx context.Context,
	ap *models.Appointment,
	window domain.Window,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := advisoryLock(tx, lockAppointments, ap.ProfessionalID); err != nil {
			return fmt.Errorf("lock professional %d: %w", ap.ProfessionalID, err)
		}

		conflicts, err := findOverlapping(tx, ap.ProfessionalID, window, ap.ID)
		if err != nil {
			return err
		}
		if err := domain.ConflictWith(conflicts); err != nil {
			return err
		}

		if ap.ID == 0 {
			return tx.Create(ap).Error
		}
		return updateIfStatus(tx, ap, domain.Status(ap.Status), editableColumns...)
	})
}

func (r *AppointmentGormRepository) Update(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return updateIfStatus(r.db.WithContext(ctx), ap, domain.Status(ap.Status), editableColumns...)
}

func (r *AppointmentGormRepository) Transition(
	ctx context.Context,
	ap *models.Appointment,
	from domain.Status,
) error {
	return updateIfStatus(r.db.WithContext(ctx), ap, from, statusColumns...)
}

var (
	editableColumns = []string{"professional_id", "service_id", "start_at", "end_at", "notes", "updated_at"}
	statusColumns   = []string{"status", "cancelled_at", "cancel_reason", "updated_at"}
)

// updateIfStatus is a compare-and-set on the status column.
func updateIfStatus(
	db *gorm.DB,
	ap *models.Appointment,
	expected domain.Status,
	columns ...string,
) error {

	res := db.Model(ap).
		Where("status = ?", string(expected)).
		Select(columns).
		Updates(ap)
	if res.Error != nil {
		return fmt.Errorf("update appointment %d: %w", ap.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.StateChangedErr(ap.ID, expected)
	}
	return nil
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
