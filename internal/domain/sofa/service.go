package sofa

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/icuscore/icuscore/internal/domain/anthropometry"
	"github.com/icuscore/icuscore/internal/domain/medication"
	"github.com/icuscore/icuscore/internal/domain/observation"
	"github.com/icuscore/icuscore/internal/domain/stay"
)

// Dependencies carries the collaborator repositories the scoring service
// reads from, plus the output repository it writes.
type Dependencies struct {
	Stays       stay.Repository
	Vitals      observation.VitalsRepository
	GCS         observation.GCSRepository
	Labs        observation.LabRepository
	BloodGas    observation.BloodGasRepository
	Ventilation observation.VentilationRepository
	UrineOutput observation.UrineOutputRepository
	Infusions   medication.Repository
	Bodies      anthropometry.Repository
	Scores      ScoreRepository
}

// Service computes hourly organ-failure scores. Stays are independent, so a
// pass shards by stay across a bounded worker group; within a stay, hours
// run in order because the trailing window depends on it.
type Service struct {
	deps    Dependencies
	log     zerolog.Logger
	workers int
}

func NewService(deps Dependencies, log zerolog.Logger, workers int) *Service {
	if workers < 1 {
		workers = 1
	}
	return &Service{deps: deps, log: log, workers: workers}
}

// RunStats summarizes one completed scoring pass.
type RunStats struct {
	Stays   int           `json:"stays"`
	Rows    int           `json:"rows"`
	Elapsed time.Duration `json:"elapsed"`
}

// Run scores every stay on the current input snapshot and atomically
// replaces the output table. Re-running on unchanged inputs reproduces the
// table exactly.
func (s *Service) Run(ctx context.Context) (RunStats, error) {
	started := time.Now()

	stays, err := s.deps.Stays.ListAll(ctx)
	if err != nil {
		return RunStats{}, fmt.Errorf("list stays: %w", err)
	}
	s.log.Info().Int("stays", len(stays)).Int("workers", s.workers).Msg("scoring pass started")

	// results indexed by stay position keeps the output order deterministic
	// regardless of which worker finishes first
	results := make([][]ScoreRow, len(stays))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, st := range stays {
		i, st := i, st
		g.Go(func() error {
			rows, err := s.ScoreStay(gctx, st)
			if err != nil {
				return fmt.Errorf("stay %d: %w", st.StayID, err)
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return RunStats{}, err
	}

	var all []ScoreRow
	for _, rows := range results {
		all = append(all, rows...)
	}

	if err := s.deps.Scores.ReplaceAll(ctx, all); err != nil {
		return RunStats{}, fmt.Errorf("replace scores: %w", err)
	}

	stats := RunStats{Stays: len(stays), Rows: len(all), Elapsed: time.Since(started)}
	s.log.Info().
		Int("stays", stats.Stays).
		Int("rows", stats.Rows).
		Dur("elapsed", stats.Elapsed).
		Msg("scoring pass finished")
	return stats, nil
}

// ScoreStay computes one stay's full hourly score series without writing
// anything. Stays shorter than one full hour yield no rows.
func (s *Service) ScoreStay(ctx context.Context, st stay.Stay) ([]ScoreRow, error) {
	slots := stay.HourSlots(st)
	if len(slots) == 0 {
		return nil, nil
	}

	series, err := s.fetchSeries(ctx, st)
	if err != nil {
		return nil, err
	}

	signals := BuildHourlySignals(slots, series)
	subs := make([]HourlySubscores, len(signals))
	for i, sig := range signals {
		subs[i] = Classify(sig)
	}
	return ApplyTrailingWindow(slots, subs), nil
}

func (s *Service) fetchSeries(ctx context.Context, st stay.Stay) (StaySeries, error) {
	var series StaySeries
	var err error

	from, to := st.InTime, st.OutTime

	if series.MeanBP, err = s.deps.Vitals.ListMeanBP(ctx, st.StayID, from, to); err != nil {
		return series, fmt.Errorf("mean bp: %w", err)
	}

	gcsRaw, err := s.deps.GCS.ListGCS(ctx, st.StayID, from, to)
	if err != nil {
		return series, fmt.Errorf("gcs: %w", err)
	}
	series.GCSTotals = observation.DeriveGCSTotals(gcsRaw)

	if series.Bilirubin, err = s.deps.Labs.ListBilirubin(ctx, st.HadmID, from, to); err != nil {
		return series, fmt.Errorf("bilirubin: %w", err)
	}
	if series.Creatinine, err = s.deps.Labs.ListCreatinine(ctx, st.HadmID, from, to); err != nil {
		return series, fmt.Errorf("creatinine: %w", err)
	}
	if series.Platelets, err = s.deps.Labs.ListPlatelets(ctx, st.HadmID, from, to); err != nil {
		return series, fmt.Errorf("platelets: %w", err)
	}
	if series.BloodGas, err = s.deps.BloodGas.ListArterial(ctx, st.SubjectID, from, to); err != nil {
		return series, fmt.Errorf("blood gas: %w", err)
	}
	if series.Ventilation, err = s.deps.Ventilation.ListInvasive(ctx, st.StayID); err != nil {
		return series, fmt.Errorf("ventilation: %w", err)
	}
	if series.UrineOutput, err = s.deps.UrineOutput.ListRates(ctx, st.StayID, from, to); err != nil {
		return series, fmt.Errorf("urine output: %w", err)
	}

	if series.Doses, err = s.vasopressorDoses(ctx, st); err != nil {
		return series, err
	}
	return series, nil
}

// vasopressorDoses reconciles both charting generations and normalizes
// rates to mcg/kg/min, resolving absolute-rate units against the stay's
// weight segments.
func (s *Service) vasopressorDoses(ctx context.Context, st stay.Stay) ([]medication.VasopressorDose, error) {
	legacy, err := s.deps.Infusions.ListLegacy(ctx, st.StayID)
	if err != nil {
		return nil, fmt.Errorf("legacy infusions: %w", err)
	}
	modern, err := s.deps.Infusions.ListModern(ctx, st.StayID)
	if err != nil {
		return nil, fmt.Errorf("modern infusions: %w", err)
	}
	if len(legacy) == 0 && len(modern) == 0 {
		return nil, nil
	}

	segs, err := s.weightSegments(ctx, st)
	if err != nil {
		return nil, err
	}
	weightAt := func(t time.Time) *float64 { return anthropometry.WeightAt(segs, t) }

	events := medication.MergeGenerations(legacy, modern)
	return medication.NormalizeDoses(events, weightAt), nil
}

func (s *Service) weightSegments(ctx context.Context, st stay.Stay) ([]anthropometry.WeightSegment, error) {
	weights, err := s.deps.Bodies.ListWeights(ctx, st.StayID, st.OutTime.Add(anthropometry.SegmentPad))
	if err != nil {
		return nil, fmt.Errorf("weights: %w", err)
	}
	return anthropometry.BuildWeightSegments(st, weights), nil
}

// StayCovariates are the per-stay anthropometric inputs dose normalization
// runs on, exposed for operational inspection.
type StayCovariates struct {
	StayID         int64                         `json:"stay_id"`
	HeightCm       *float64                      `json:"height_cm"`
	WeightSegments []anthropometry.WeightSegment `json:"weight_segments"`
}

// Covariates resolves one stay's weight segments and height estimate.
func (s *Service) Covariates(ctx context.Context, st stay.Stay) (StayCovariates, error) {
	cov := StayCovariates{StayID: st.StayID}

	segs, err := s.weightSegments(ctx, st)
	if err != nil {
		return cov, err
	}
	cov.WeightSegments = segs

	heights, err := s.deps.Bodies.ListHeights(ctx, st.StayID,
		st.InTime.Add(-anthropometry.HeightWindowBefore),
		st.InTime.Add(anthropometry.HeightWindowAfter))
	if err != nil {
		return cov, fmt.Errorf("heights: %w", err)
	}
	cov.HeightCm = anthropometry.HeightEstimate(st, heights)
	return cov, nil
}
