package hospitals

import "context"

// Locator port (interface untuk hospital lookup provider)
type Locator interface {
	Nearby(ctx context.Context, loc Location) ([]Hospital, error)
}
