package reports

import "context"

// Repository port for persisting and fetching report snapshots
type Repository interface {
	Save(ctx context.Context, r *Report) error
	Get(ctx context.Context, id ReportID) (*Report, error)
}
