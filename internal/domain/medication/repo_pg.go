package medication

import (
	"context"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Itemid-to-agent mappings per charting generation. The older system split
// most agents across multiple itemids.
var legacyAgentItems = map[int64]Agent{
	30047: Norepinephrine,
	30120: Norepinephrine,
	30044: Epinephrine,
	30119: Epinephrine,
	30309: Epinephrine,
	30043: Dopamine,
	30307: Dopamine,
	30042: Dobutamine,
	30306: Dobutamine,
}

var modernAgentItems = map[int64]Agent{
	221906: Norepinephrine,
	221289: Epinephrine,
	221662: Dopamine,
	221653: Dobutamine,
}

func itemIDs(m map[int64]Agent) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

var (
	legacyItemIDs = itemIDs(legacyAgentItems)
	modernItemIDs = itemIDs(modernAgentItems)
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) ListLegacy(ctx context.Context, stayID int64) ([]InfusionEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT stay_id, itemid, linkorderid, starttime, endtime, rate, rateuom, amount
		FROM inputevents_cv
		WHERE stay_id = $1 AND itemid = ANY($2)
		ORDER BY starttime NULLS LAST, linkorderid`, stayID, legacyItemIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows, legacyAgentItems, false)
}

func (r *repoPG) ListModern(ctx context.Context, stayID int64) ([]InfusionEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT stay_id, itemid, linkorderid, starttime, endtime, rate, rateuom, amount, patientweight
		FROM inputevents_mv
		WHERE stay_id = $1 AND itemid = ANY($2)
		ORDER BY starttime NULLS LAST, linkorderid`, stayID, modernItemIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows, modernAgentItems, true)
}

func scanEvents(rows pgx.Rows, agents map[int64]Agent, hasWeight bool) ([]InfusionEvent, error) {
	var events []InfusionEvent
	for rows.Next() {
		var ev InfusionEvent
		var itemID int64
		var rateUnit *string

		dest := []any{&ev.StayID, &itemID, &ev.LinkOrderID, &ev.StartTime, &ev.EndTime, &ev.Rate, &rateUnit, &ev.Amount}
		if hasWeight {
			dest = append(dest, &ev.PatientWeight)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		agent, ok := agents[itemID]
		if !ok {
			continue
		}
		ev.Agent = agent
		if rateUnit != nil {
			ev.RateUnit = *rateUnit
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
