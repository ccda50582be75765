package medication

import "context"

type Repository interface {
	// ListLegacy returns the older charting generation's vasopressor rows
	// for a stay, ordered by start time.
	ListLegacy(ctx context.Context, stayID int64) ([]InfusionEvent, error)
	// ListModern returns the newer charting generation's vasopressor rows
	// for a stay, ordered by start time.
	ListModern(ctx context.Context, stayID int64) ([]InfusionEvent, error)
}
