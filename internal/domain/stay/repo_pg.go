package stay

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Heart rate is the densest charted vital, so its first and last chart times
// stand in for missing admission bounds.
const heartRateItemID = 220045

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

// Registry rows with a missing bound fall back to the charted heart-rate
// extent; rows where neither source resolves a bound are dropped.
const stayCols = `i.stay_id, i.subject_id, i.hadm_id,
	COALESCE(i.intime, hr.first_time) AS intime,
	COALESCE(i.outtime, hr.last_time) AS outtime`

const stayFrom = ` FROM icustays i
	LEFT JOIN (
		SELECT stay_id, MIN(charttime) AS first_time, MAX(charttime) AS last_time
		FROM chartevents
		WHERE itemid = $1
		GROUP BY stay_id
	) hr ON hr.stay_id = i.stay_id
	WHERE COALESCE(i.intime, hr.first_time) IS NOT NULL
	  AND COALESCE(i.outtime, hr.last_time) IS NOT NULL`

func scanStay(row pgx.Row) (*Stay, error) {
	var st Stay
	err := row.Scan(&st.StayID, &st.SubjectID, &st.HadmID, &st.InTime, &st.OutTime)
	return &st, err
}

func (r *repoPG) ListAll(ctx context.Context) ([]Stay, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+stayCols+stayFrom+` ORDER BY i.stay_id`, heartRateItemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stays []Stay
	for rows.Next() {
		st, err := scanStay(rows)
		if err != nil {
			return nil, err
		}
		stays = append(stays, *st)
	}
	return stays, rows.Err()
}

func (r *repoPG) GetByID(ctx context.Context, stayID int64) (*Stay, error) {
	st, err := scanStay(r.pool.QueryRow(ctx,
		`SELECT `+stayCols+stayFrom+` AND i.stay_id = $2`, heartRateItemID, stayID))
	if err == pgx.ErrNoRows {
		return nil, fmt.Errorf("stay %d not found", stayID)
	}
	return st, err
}
