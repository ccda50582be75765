package sofa

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type scoreRepoPG struct{ pool *pgxpool.Pool }

func NewScoreRepoPG(pool *pgxpool.Pool) ScoreRepository {
	return &scoreRepoPG{pool: pool}
}

// Column order matches migrations/001_sofa_hourly.sql.
var scoreColumns = []string{
	"stay_id", "hr", "starttime", "endtime",
	"respiration", "coagulation", "liver", "cardiovascular", "cns", "renal",
	"respiration_24h", "coagulation_24h", "liver_24h", "cardiovascular_24h", "cns_24h", "renal_24h",
	"total_score",
}

func (r *scoreRepoPG) ReplaceAll(ctx context.Context, rows []ScoreRow) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE sofa_hourly`); err != nil {
		return fmt.Errorf("truncate sofa_hourly: %w", err)
	}

	_, err = tx.CopyFrom(ctx, pgx.Identifier{"sofa_hourly"}, scoreColumns,
		pgx.CopyFromSlice(len(rows), func(i int) ([]any, error) {
			row := rows[i]
			return []any{
				row.StayID, row.Hr, row.StartTime, row.EndTime,
				row.Respiration, row.Coagulation, row.Liver, row.Cardiovascular, row.CNS, row.Renal,
				row.Respiration24h, row.Coagulation24h, row.Liver24h, row.Cardiovascular24h, row.CNS24h, row.Renal24h,
				row.TotalScore,
			}, nil
		}))
	if err != nil {
		return fmt.Errorf("copy sofa_hourly: %w", err)
	}

	return tx.Commit(ctx)
}
