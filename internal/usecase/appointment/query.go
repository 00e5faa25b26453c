package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/service-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/service-scheduler/internal/domain/directory"
	"github.com/BruksfildServices01/service-scheduler/internal/dto"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// ======================================================
// Get
// ======================================================

type GetAppointment struct {
	repo      domain.Repository
	directory directory.Directory
}

func NewGetAppointment(repo domain.Repository, dir directory.Directory) *GetAppointment {
	return &GetAppointment{repo: repo, directory: dir}
}

func (uc *GetAppointment) Execute(ctx context.Context, id uint) (*dto.AppointmentDTO, error) {
	ap, err := uc.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	out, err := hydrate(ctx, uc.directory, []models.Appointment{*ap})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// ======================================================
// List
// ======================================================

type ListAppointmentsInput struct {
	ProfessionalID uint
	ClientID       uint
	ServiceID      uint
	Status         string
	From           *time.Time
	To             *time.Time
	Page           int
	PageSize       int
}

type ListAppointments struct {
	repo      domain.Repository
	directory directory.Directory
}

func NewListAppointments(repo domain.Repository, dir directory.Directory) *ListAppointments {
	return &ListAppointments{repo: repo, directory: dir}
}

func (uc *ListAppointments) Execute(ctx context.Context, in ListAppointmentsInput) (*dto.AppointmentPageDTO, error) {
	status := domain.Status(in.Status)
	if status != "" && !status.Valid() {
		return nil, httperr.InvalidInputErr("invalid_status", map[string]any{"status": in.Status})
	}
	if in.From != nil && in.To != nil && in.To.Before(*in.From) {
		return nil, httperr.InvalidInputErr("invalid_range", nil)
	}

	page := domain.Page{Number: in.Page, Size: in.PageSize}.Normalize()

	apps, total, err := uc.repo.List(ctx, domain.ListFilter{
		ProfessionalID: in.ProfessionalID,
		ClientID:       in.ClientID,
		ServiceID:      in.ServiceID,
		Status:         status,
		From:           in.From,
		To:             in.To,
	}, page)
	if err != nil {
		return nil, err
	}

	data, err := hydrate(ctx, uc.directory, apps)
	if err != nil {
		return nil, err
	}

	return &dto.AppointmentPageDTO{
		Data:     data,
		Total:    total,
		Page:     page.Number,
		PageSize: page.Size,
	}, nil
}

// hydrate resolves display names in one lookup per entity kind.
func hydrate(ctx context.Context, dir directory.Directory, apps []models.Appointment) ([]dto.AppointmentDTO, error) {
	out := make([]dto.AppointmentDTO, 0, len(apps))
	if len(apps) == 0 {
		return out, nil
	}

	clients := make([]uint, 0, len(apps))
	professionals := make([]uint, 0, len(apps))
	services := make([]uint, 0, len(apps))
	for _, ap := range apps {
		clients = append(clients, ap.ClientID)
		professionals = append(professionals, ap.ProfessionalID)
		services = append(services, ap.ServiceID)
	}

	names, err := dir.LookupNames(ctx, unique(clients), unique(professionals), unique(services))
	if err != nil {
		return nil, err
	}

	for _, ap := range apps {
		out = append(out, dto.AppointmentDTO{
			ID:               ap.ID,
			StartAt:          ap.StartAt,
			EndAt:            ap.EndAt,
			Status:           ap.Status,
			ClientID:         ap.ClientID,
			ClientName:       names.Clients[ap.ClientID],
			ProfessionalID:   ap.ProfessionalID,
			ProfessionalName: names.Professionals[ap.ProfessionalID],
			ServiceID:        ap.ServiceID,
			ServiceName:      names.Services[ap.ServiceID],
			Notes:            ap.Notes,
			CreatedBy:        ap.CreatedBy,
			CancelledAt:      ap.CancelledAt,
			CancelReason:     ap.CancelReason,
		})
	}
	return out, nil
}

func unique(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
