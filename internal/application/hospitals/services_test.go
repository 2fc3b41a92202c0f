package hospitals

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/bryanwahyu/neuroscan/internal/domain/hospitals"
	"github.com/bryanwahyu/neuroscan/internal/domain/scans"
	infra "github.com/bryanwahyu/neuroscan/internal/infra/hospitals"
)

func TestNearby_RequiresCoordinates(t *testing.T) {
	svc := NewService(infra.NewStaticLocator())

	_, err := svc.Nearby(context.Background(), domain.Location{})
	require.ErrorIs(t, err, scans.ErrBadInput)
}

func TestNearby_ReturnsReferrals(t *testing.T) {
	svc := NewService(infra.NewStaticLocator())

	list, err := svc.Nearby(context.Background(), domain.Location{Latitude: 52.52, Longitude: 13.4})
	require.NoError(t, err)
	require.Len(t, list, 3)
	require.NotEmpty(t, list[0].Name)
}
