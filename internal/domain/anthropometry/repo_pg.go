package anthropometry

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type weightItem struct {
	kind WeightKind
	unit string
}

// Weight itemids across both charting generations. The pound-denominated
// admission weight gets converted at use.
var weightItems = map[int64]weightItem{
	226512: {WeightAdmit, UnitKg},
	762:    {WeightAdmit, UnitKg},
	226531: {WeightAdmit, UnitLb},
	224639: {WeightDaily, UnitKg},
	763:    {WeightDaily, UnitKg},
}

// Height itemids; the older generation charted inches only.
var heightItems = map[int64]string{
	226730: UnitCm,
	226707: UnitIn,
	920:    UnitIn,
}

var (
	weightItemIDs = func() []int64 {
		ids := make([]int64, 0, len(weightItems))
		for id := range weightItems {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		return ids
	}()
	heightItemIDs = func() []int64 {
		ids := make([]int64, 0, len(heightItems))
		for id := range heightItems {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		return ids
	}()
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) ListWeights(ctx context.Context, stayID int64, until time.Time) ([]WeightSample, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT stay_id, itemid, charttime, valuenum
		FROM chartevents
		WHERE stay_id = $1 AND itemid = ANY($2)
		  AND valuenum IS NOT NULL AND valuenum > 0
		  AND charttime <= $3
		ORDER BY charttime`, stayID, weightItemIDs, until)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []WeightSample
	for rows.Next() {
		var s WeightSample
		var itemID int64
		if err := rows.Scan(&s.StayID, &itemID, &s.ChartTime, &s.Value); err != nil {
			return nil, err
		}
		item, ok := weightItems[itemID]
		if !ok {
			continue
		}
		s.Kind, s.Unit = item.kind, item.unit
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

func (r *repoPG) ListHeights(ctx context.Context, stayID int64, from, to time.Time) ([]HeightSample, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT stay_id, itemid, charttime, valuenum
		FROM chartevents
		WHERE stay_id = $1 AND itemid = ANY($2)
		  AND valuenum IS NOT NULL AND valuenum > 0
		  AND charttime >= $3 AND charttime <= $4
		ORDER BY charttime`, stayID, heightItemIDs, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []HeightSample
	for rows.Next() {
		var s HeightSample
		var itemID int64
		if err := rows.Scan(&s.StayID, &itemID, &s.ChartTime, &s.Value); err != nil {
			return nil, err
		}
		unit, ok := heightItems[itemID]
		if !ok {
			continue
		}
		s.Unit = unit
		samples = append(samples, s)
	}
	return samples, rows.Err()
}
