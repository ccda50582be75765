package observation

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// =========== Vitals Repository ===========

type vitalsRepoPG struct{ pool *pgxpool.Pool }

func NewVitalsRepoPG(pool *pgxpool.Pool) VitalsRepository {
	return &vitalsRepoPG{pool: pool}
}

func (r *vitalsRepoPG) ListMeanBP(ctx context.Context, stayID int64, from, to time.Time) ([]ChartSample, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT stay_id, charttime, valuenum
		FROM chartevents
		WHERE stay_id = $1 AND itemid = ANY($2)
		  AND valuenum IS NOT NULL
		  AND charttime > $3 AND charttime <= $4
		ORDER BY charttime`, stayID, MeanBPItems, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanChartSamples(rows)
}

func scanChartSamples(rows pgx.Rows) ([]ChartSample, error) {
	var samples []ChartSample
	for rows.Next() {
		var s ChartSample
		if err := rows.Scan(&s.StayID, &s.ChartTime, &s.Value); err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// =========== GCS Repository ===========

type gcsRepoPG struct{ pool *pgxpool.Pool }

func NewGCSRepoPG(pool *pgxpool.Pool) GCSRepository {
	return &gcsRepoPG{pool: pool}
}

func (r *gcsRepoPG) ListGCS(ctx context.Context, stayID int64, from, to time.Time) ([]GCSSample, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT stay_id, itemid, charttime, valuenum
		FROM chartevents
		WHERE stay_id = $1 AND itemid = ANY($2)
		  AND valuenum IS NOT NULL
		  AND charttime > $3 AND charttime <= $4
		ORDER BY charttime`, stayID, GCSItems, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []GCSSample
	for rows.Next() {
		var itemID int64
		var s GCSSample
		if err := rows.Scan(&s.StayID, &itemID, &s.ChartTime, &s.Value); err != nil {
			return nil, err
		}
		el, ok := gcsElementFor(itemID)
		if !ok {
			continue
		}
		s.Element = el
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

// =========== Lab Repository ===========

type labRepoPG struct{ pool *pgxpool.Pool }

func NewLabRepoPG(pool *pgxpool.Pool) LabRepository {
	return &labRepoPG{pool: pool}
}

func (r *labRepoPG) listAnalyte(ctx context.Context, hadmID, itemID int64, from, to time.Time) ([]LabResult, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT hadm_id, charttime, valuenum
		FROM labevents
		WHERE hadm_id = $1 AND itemid = $2
		  AND valuenum IS NOT NULL
		  AND charttime > $3 AND charttime <= $4
		ORDER BY charttime`, hadmID, itemID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []LabResult
	for rows.Next() {
		var lr LabResult
		if err := rows.Scan(&lr.HadmID, &lr.ChartTime, &lr.Value); err != nil {
			return nil, err
		}
		results = append(results, lr)
	}
	return results, rows.Err()
}

func (r *labRepoPG) ListBilirubin(ctx context.Context, hadmID int64, from, to time.Time) ([]LabResult, error) {
	return r.listAnalyte(ctx, hadmID, LabBilirubin, from, to)
}

func (r *labRepoPG) ListCreatinine(ctx context.Context, hadmID int64, from, to time.Time) ([]LabResult, error) {
	return r.listAnalyte(ctx, hadmID, LabCreatinine, from, to)
}

func (r *labRepoPG) ListPlatelets(ctx context.Context, hadmID int64, from, to time.Time) ([]LabResult, error) {
	return r.listAnalyte(ctx, hadmID, LabPlatelets, from, to)
}

// =========== Blood Gas Repository ===========

type bloodGasRepoPG struct{ pool *pgxpool.Pool }

func NewBloodGasRepoPG(pool *pgxpool.Pool) BloodGasRepository {
	return &bloodGasRepoPG{pool: pool}
}

func (r *bloodGasRepoPG) ListArterial(ctx context.Context, subjectID int64, from, to time.Time) ([]BloodGas, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT subject_id, charttime, specimen, pao2fio2ratio
		FROM bg
		WHERE subject_id = $1 AND specimen = $2
		  AND pao2fio2ratio IS NOT NULL
		  AND charttime > $3 AND charttime <= $4
		ORDER BY charttime`, subjectID, SpecimenArterial, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gases []BloodGas
	for rows.Next() {
		var g BloodGas
		if err := rows.Scan(&g.SubjectID, &g.ChartTime, &g.Specimen, &g.PaO2FiO2); err != nil {
			return nil, err
		}
		gases = append(gases, g)
	}
	return gases, rows.Err()
}

// =========== Ventilation Repository ===========

type ventilationRepoPG struct{ pool *pgxpool.Pool }

func NewVentilationRepoPG(pool *pgxpool.Pool) VentilationRepository {
	return &ventilationRepoPG{pool: pool}
}

func (r *ventilationRepoPG) ListInvasive(ctx context.Context, stayID int64) ([]VentilationEpisode, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT stay_id, starttime, endtime, ventilation_status
		FROM ventilation
		WHERE stay_id = $1 AND ventilation_status = $2
		  AND starttime IS NOT NULL AND endtime IS NOT NULL
		ORDER BY starttime`, stayID, VentStatusInvasive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var episodes []VentilationEpisode
	for rows.Next() {
		var ep VentilationEpisode
		if err := rows.Scan(&ep.StayID, &ep.StartTime, &ep.EndTime, &ep.Status); err != nil {
			return nil, err
		}
		episodes = append(episodes, ep)
	}
	return episodes, rows.Err()
}

// =========== Urine Output Repository ===========

type urineOutputRepoPG struct{ pool *pgxpool.Pool }

func NewUrineOutputRepoPG(pool *pgxpool.Pool) UrineOutputRepository {
	return &urineOutputRepoPG{pool: pool}
}

func (r *urineOutputRepoPG) ListRates(ctx context.Context, stayID int64, from, to time.Time) ([]UrineOutput, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT stay_id, charttime, uo_tm_24hr, urineoutput_24hr
		FROM urine_output_rate
		WHERE stay_id = $1
		  AND uo_tm_24hr IS NOT NULL AND urineoutput_24hr IS NOT NULL
		  AND charttime > $2 AND charttime <= $3
		ORDER BY charttime`, stayID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outputs []UrineOutput
	for rows.Next() {
		var uo UrineOutput
		if err := rows.Scan(&uo.StayID, &uo.ChartTime, &uo.MeasuredHours, &uo.VolumeML); err != nil {
			return nil, err
		}
		outputs = append(outputs, uo)
	}
	return outputs, rows.Err()
}
