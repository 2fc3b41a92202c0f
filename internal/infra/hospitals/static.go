package hospitals

import (
	"context"

	domain "github.com/bryanwahyu/neuroscan/internal/domain/hospitals"
)

// StaticLocator serves a fixed referral list. Stand-in until a places API
// is wired; the Locator port keeps that swap local.
type StaticLocator struct{}

func NewStaticLocator() *StaticLocator { return &StaticLocator{} }

var referrals = []domain.Hospital{
	{
		ID:             1,
		Name:           "City General Hospital",
		Address:        "123 Medical Center Dr",
		Distance:       "2.3 km",
		Phone:          "+1-555-0100",
		Specialization: "Neurosurgery & Oncology",
		Rating:         4.5,
	},
	{
		ID:             2,
		Name:           "St. Mary's Medical Center",
		Address:        "456 Healthcare Blvd",
		Distance:       "3.7 km",
		Phone:          "+1-555-0200",
		Specialization: "Brain & Spine Institute",
		Rating:         4.8,
	},
	{
		ID:             3,
		Name:           "Regional Cancer Institute",
		Address:        "789 Wellness Ave",
		Distance:       "5.1 km",
		Phone:          "+1-555-0300",
		Specialization: "Radiation Oncology",
		Rating:         4.6,
	},
}

func (StaticLocator) Nearby(ctx context.Context, loc domain.Location) ([]domain.Hospital, error) {
	out := make([]domain.Hospital, len(referrals))
	copy(out, referrals)
	return out, nil
}
