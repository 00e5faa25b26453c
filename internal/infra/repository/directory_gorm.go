package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/service-scheduler/internal/domain/directory"
	"github.com/BruksfildServices01/service-scheduler/internal/httperr"
	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

type DirectoryGormRepository struct {
	db *gorm.DB
}

func NewDirectoryGormRepository(db *gorm.DB) *DirectoryGormRepository {
	return &DirectoryGormRepository{db: db}
}

// --------------------------------------------------
// Active lookups
// --------------------------------------------------

func (r *DirectoryGormRepository) FindActiveClient(ctx context.Context, id uint) (*models.Client, error) {
	var c models.Client
	if err := r.db.WithContext(ctx).Where("id = ? AND active = true", id).First(&c).Error; err != nil {
		if isNotFound(err) {
			return nil, httperr.NotFoundErr("client_not_found")
		}
		return nil, fmt.Errorf("find client %d: %w", id, err)
	}
	return &c, nil
}

func (r *DirectoryGormRepository) FindActiveProfessional(ctx context.Context, id uint) (*models.Professional, error) {
	var p models.Professional
	if err := r.db.WithContext(ctx).Where("id = ? AND active = true", id).First(&p).Error; err != nil {
		if isNotFound(err) {
			return nil, httperr.NotFoundErr("professional_not_found")
		}
		return nil, fmt.Errorf("find professional %d: %w", id, err)
	}
	return &p, nil
}

func (r *DirectoryGormRepository) FindActiveService(ctx context.Context, id uint) (*models.Service, error) {
	var s models.Service
	if err := r.db.WithContext(ctx).Where("id = ? AND active = true", id).First(&s).Error; err != nil {
		if isNotFound(err) {
			return nil, httperr.NotFoundErr("service_not_found")
		}
		return nil, fmt.Errorf("find service %d: %w", id, err)
	}
	return &s, nil
}

func (r *DirectoryGormRepository) ServicesOffered(ctx context.Context, professionalID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).
		Table("professional_services ps").
		Joins("JOIN services s ON s.id = ps.service_id AND s.active = true").
		Where("ps.professional_id = ?", professionalID).
		Order("ps.service_id ASC").
		Pluck("ps.service_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("services offered by %d: %w", professionalID, err)
	}
	return ids, nil
}

// --------------------------------------------------
// Clients by document
// --------------------------------------------------

func (r *DirectoryGormRepository) FindOrCreateClientByDNI(ctx context.Context, dni string) (*models.Client, error) {
	db := r.db.WithContext(ctx)

	minimal := models.Client{DNI: dni, NeedsData: true, Active: true}
	if err := db.
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "dni"}}, DoNothing: true}).
		Create(&minimal).Error; err != nil {
		return nil, fmt.Errorf("create client %s: %w", dni, err)
	}

	var c models.Client
	if err := db.Where("dni = ?", dni).First(&c).Error; err != nil {
		return nil, fmt.Errorf("load client %s: %w", dni, err)
	}
	return &c, nil
}

// --------------------------------------------------
// Hydration
// --------------------------------------------------

type idName struct {
	ID   uint
	Name string
}

func (r *DirectoryGormRepository) LookupNames(
	ctx context.Context,
	clientIDs, professionalIDs, serviceIDs []uint,
) (directory.Names, error) {

	names := directory.Names{
		Clients:       map[uint]string{},
		Professionals: map[uint]string{},
		Services:      map[uint]string{},
	}

	lookups := []struct {
		model any
		ids   []uint
		into  map[uint]string
	}{
		{&models.Client{}, clientIDs, names.Clients},
		{&models.Professional{}, professionalIDs, names.Professionals},
		{&models.Service{}, serviceIDs, names.Services},
	}

	for _, l := range lookups {
		if len(l.ids) == 0 {
			continue
		}
		var rows []idName
		if err := r.db.WithContext(ctx).
			Model(l.model).
			Select("id", "name").
			Where("id IN ?", l.ids).
			Find(&rows).Error; err != nil {
			return names, fmt.Errorf("lookup names: %w", err)
		}
		for _, row := range rows {
			l.into[row.ID] = row.Name
		}
	}

	return names, nil
}

// Compile-time check
var _ directory.Directory = (*DirectoryGormRepository)(nil)
