package anthropometry

import (
	"context"
	"time"
)

type Repository interface {
	// ListWeights returns every charted weight for a stay up to the given
	// bound, classified admit/daily, ordered by charttime. No lower bound:
	// the admission weight may predate the stay.
	ListWeights(ctx context.Context, stayID int64, until time.Time) ([]WeightSample, error)
	// ListHeights returns a stay's charted heights with
	// from <= charttime <= to, ordered by charttime.
	ListHeights(ctx context.Context, stayID int64, from, to time.Time) ([]HeightSample, error)
}
