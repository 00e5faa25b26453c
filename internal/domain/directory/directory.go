package directory

import (
	"context"

	"github.com/BruksfildServices01/service-scheduler/internal/models"
)

// Names is the read-side index used to hydrate listings.
type Names struct {
	Clients       map[uint]string
	Professionals map[uint]string
	Services      map[uint]string
}

type Directory interface {
	FindActiveClient(ctx context.Context, id uint) (*models.Client, error)
	FindActiveProfessional(ctx context.Context, id uint) (*models.Professional, error)
	FindActiveService(ctx context.Context, id uint) (*models.Service, error)

	ServicesOffered(ctx context.Context, professionalID uint) ([]uint, error)

	// FindOrCreateClientByDNI returns the client with this identity key,
	// creating a minimal profile flagged NeedsData when none exists.
	FindOrCreateClientByDNI(ctx context.Context, dni string) (*models.Client, error)

	LookupNames(ctx context.Context, clientIDs, professionalIDs, serviceIDs []uint) (Names, error)
}

func Offers(offered []uint, serviceID uint) bool {
	for _, id := range offered {
		if id == serviceID {
			return true
		}
	}
	return false
}
