package sofa

import (
	"time"

	"github.com/icuscore/icuscore/internal/domain/medication"
	"github.com/icuscore/icuscore/internal/domain/observation"
	"github.com/icuscore/icuscore/internal/domain/stay"
)

// StaySeries bundles one stay's cleaned input series. Doses are already
// merged across charting generations and unit-normalized.
type StaySeries struct {
	MeanBP      []observation.ChartSample
	GCSTotals   []observation.ChartSample
	Bilirubin   []observation.LabResult
	Creatinine  []observation.LabResult
	Platelets   []observation.LabResult
	BloodGas    []observation.BloodGas
	Ventilation []observation.VentilationEpisode
	UrineOutput []observation.UrineOutput
	Doses       []medication.VasopressorDose
}

// BuildHourlySignals joins the stay's hourly grid against every signal
// series, keeping the worst value that lands in each slot. Point records
// belong to the slot whose (start, end] window contains their charttime; a
// dose interval is attributed to every slot whose closing instant lies
// inside the dose's (start, end].
func BuildHourlySignals(slots []stay.HourSlot, series StaySeries) []HourlySignals {
	signals := make([]HourlySignals, len(slots))
	for i, slot := range slots {
		sig := &signals[i]

		sig.MeanBPMin = minChart(series.MeanBP, slot, observation.ValidMeanBP)
		sig.GCSMin = minChart(series.GCSTotals, slot, observation.ValidGCS)

		sig.BilirubinMax = maxLab(series.Bilirubin, slot)
		sig.CreatinineMax = maxLab(series.Creatinine, slot)
		sig.PlateletMin = minLab(series.Platelets, slot)

		sig.PaO2FiO2Vent, sig.PaO2FiO2NoVent = worstGasSplit(series.BloodGas, series.Ventilation, slot)
		sig.UrineRate24h = minUrineRate(series.UrineOutput, slot)

		sig.RateNorepinephrine = maxDoseRate(series.Doses, medication.Norepinephrine, slot)
		sig.RateEpinephrine = maxDoseRate(series.Doses, medication.Epinephrine, slot)
		sig.RateDopamine = maxDoseRate(series.Doses, medication.Dopamine, slot)
		sig.RateDobutamine = maxDoseRate(series.Doses, medication.Dobutamine, slot)
	}
	return signals
}

func minChart(samples []observation.ChartSample, slot stay.HourSlot, valid func(float64) bool) *float64 {
	var best *float64
	for _, s := range samples {
		if !slot.Contains(s.ChartTime) || !valid(s.Value) {
			continue
		}
		if best == nil || s.Value < *best {
			v := s.Value
			best = &v
		}
	}
	return best
}

func minLab(results []observation.LabResult, slot stay.HourSlot) *float64 {
	var best *float64
	for _, r := range results {
		if !slot.Contains(r.ChartTime) {
			continue
		}
		if best == nil || r.Value < *best {
			v := r.Value
			best = &v
		}
	}
	return best
}

func maxLab(results []observation.LabResult, slot stay.HourSlot) *float64 {
	var best *float64
	for _, r := range results {
		if !slot.Contains(r.ChartTime) {
			continue
		}
		if best == nil || r.Value > *best {
			v := r.Value
			best = &v
		}
	}
	return best
}

// worstGasSplit takes the lowest plausible PaO2/FiO2 ratio in the slot,
// split into a ventilated and an unventilated channel. The same draw never
// feeds both: ventilation status at the draw's charttime decides.
func worstGasSplit(gases []observation.BloodGas, vents []observation.VentilationEpisode, slot stay.HourSlot) (vent, novent *float64) {
	for _, g := range gases {
		if g.PaO2FiO2 == nil || !slot.Contains(g.ChartTime) {
			continue
		}
		v := *g.PaO2FiO2
		if !observation.ValidPaO2FiO2(v) {
			continue
		}
		if ventilatedAt(vents, g.ChartTime) {
			if vent == nil || v < *vent {
				vent = &v
			}
		} else {
			if novent == nil || v < *novent {
				novent = &v
			}
		}
	}
	return vent, novent
}

func ventilatedAt(vents []observation.VentilationEpisode, t time.Time) bool {
	for _, ep := range vents {
		if ep.Status != observation.VentStatusInvasive {
			continue
		}
		if ep.Covers(t) {
			return true
		}
	}
	return false
}

func minUrineRate(outputs []observation.UrineOutput, slot stay.HourSlot) *float64 {
	var best *float64
	for _, uo := range outputs {
		if !slot.Contains(uo.ChartTime) {
			continue
		}
		r := uo.Rate24h()
		if r == nil {
			continue
		}
		if best == nil || *r < *best {
			best = r
		}
	}
	return best
}

func maxDoseRate(doses []medication.VasopressorDose, agent medication.Agent, slot stay.HourSlot) *float64 {
	var best *float64
	for _, d := range doses {
		if d.Agent != agent || d.Rate == nil {
			continue
		}
		// running at the close of the hour: slot end inside (start, end]
		if !slot.EndTime.After(d.StartTime) || slot.EndTime.After(d.EndTime) {
			continue
		}
		if best == nil || *d.Rate > *best {
			v := *d.Rate
			best = &v
		}
	}
	return best
}
