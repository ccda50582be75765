package observation

import (
	"context"
	"time"
)

// Repositories are scoped per collaborator table. Time bounds are passed by
// the caller so each stay shard only pulls its own window; values are
// returned raw and plausibility filtering happens at aggregation.

type VitalsRepository interface {
	// ListMeanBP returns charted mean arterial pressures for a stay with
	// from < charttime <= to, ordered by charttime.
	ListMeanBP(ctx context.Context, stayID int64, from, to time.Time) ([]ChartSample, error)
}

type GCSRepository interface {
	// ListGCS returns raw Glasgow Coma Scale elements for a stay with
	// from < charttime <= to, ordered by charttime.
	ListGCS(ctx context.Context, stayID int64, from, to time.Time) ([]GCSSample, error)
}

type LabRepository interface {
	ListBilirubin(ctx context.Context, hadmID int64, from, to time.Time) ([]LabResult, error)
	ListCreatinine(ctx context.Context, hadmID int64, from, to time.Time) ([]LabResult, error)
	ListPlatelets(ctx context.Context, hadmID int64, from, to time.Time) ([]LabResult, error)
}

type BloodGasRepository interface {
	// ListArterial returns arterial-specimen gases with a computable
	// PaO2/FiO2 ratio for a subject, ordered by charttime.
	ListArterial(ctx context.Context, subjectID int64, from, to time.Time) ([]BloodGas, error)
}

type VentilationRepository interface {
	// ListInvasive returns a stay's invasive ventilation episodes.
	ListInvasive(ctx context.Context, stayID int64) ([]VentilationEpisode, error)
}

type UrineOutputRepository interface {
	// ListRates returns a stay's trailing urine collections.
	ListRates(ctx context.Context, stayID int64, from, to time.Time) ([]UrineOutput, error)
}
