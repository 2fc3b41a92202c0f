package hospitals

import (
	"context"
	"fmt"

	domain "github.com/bryanwahyu/neuroscan/internal/domain/hospitals"
	"github.com/bryanwahyu/neuroscan/internal/domain/scans"
)

// Service answers "where can this patient be referred to".
type Service struct {
	locator domain.Locator
}

func NewService(locator domain.Locator) *Service {
	return &Service{locator: locator}
}

func (s *Service) Nearby(ctx context.Context, loc domain.Location) ([]domain.Hospital, error) {
	if loc.Latitude == 0 && loc.Longitude == 0 {
		return nil, fmt.Errorf("%w: location coordinates required", scans.ErrBadInput)
	}
	return s.locator.Nearby(ctx, loc)
}
