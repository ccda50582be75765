package stay

import "context"

type Repository interface {
	// ListAll returns every stay with resolvable admission bounds, ordered
	// by stay id.
	ListAll(ctx context.Context) ([]Stay, error)
	// GetByID returns a single stay, or an error when it does not exist or
	// its bounds cannot be resolved.
	GetByID(ctx context.Context, stayID int64) (*Stay, error)
}
