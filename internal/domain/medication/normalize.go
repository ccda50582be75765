package medication

import (
	"sort"
	"time"
)

// WeightAt resolves the in-effect patient weight in kg at a timestamp; nil
// when no weight segment covers it.
type WeightAt func(time.Time) *float64

// NormalizeDoses converts reconciled infusion events into scoring-ready
// dose intervals with rates in mcg/kg/min.
//
// Unit handling:
//   - mcg/kg/min: taken as charted.
//   - mg/kg/min: scaled by 1000. Norepinephrine is the exception: the
//     source system mislabeled a batch of its rows with this unit, and only
//     rows whose pump weight is exactly 1 actually hold mg values. Those
//     are scaled; the rest are left as charted. This mirrors the source
//     system's own correction and is preserved verbatim.
//   - mcg/min, mg/min: absolute rates, divided by the in-effect weight at
//     the interval start; the rate stays nil when no weight covers it.
//   - any other unit: taken as charted.
//
// Events without a start time or a rate carry nothing to score and are
// dropped. A missing end, or an end at or before the start, is widened to
// one minute past the start so the interval join has something to attribute.
func NormalizeDoses(events []InfusionEvent, weightAt WeightAt) []VasopressorDose {
	doses := make([]VasopressorDose, 0, len(events))
	for _, ev := range events {
		if ev.StartTime == nil || ev.Rate == nil {
			continue
		}
		start := *ev.StartTime
		end := start.Add(time.Minute)
		if ev.EndTime != nil && ev.EndTime.After(start) {
			end = *ev.EndTime
		}

		doses = append(doses, VasopressorDose{
			StayID:    ev.StayID,
			Agent:     ev.Agent,
			StartTime: start,
			EndTime:   end,
			Rate:      normalizeRate(ev, start, weightAt),
		})
	}

	sort.SliceStable(doses, func(i, j int) bool {
		a, b := doses[i], doses[j]
		if a.Agent != b.Agent {
			return a.Agent < b.Agent
		}
		return a.StartTime.Before(b.StartTime)
	})
	return doses
}

func normalizeRate(ev InfusionEvent, start time.Time, weightAt WeightAt) *float64 {
	v := *ev.Rate
	switch ev.RateUnit {
	case UnitMcgKgMin:
		return &v

	case UnitMgKgMin:
		if ev.Agent == Norepinephrine {
			if ev.PatientWeight != nil && *ev.PatientWeight == 1 {
				v *= 1000
			}
			return &v
		}
		v *= 1000
		return &v

	case UnitMcgMin, UnitMgMin:
		if ev.RateUnit == UnitMgMin {
			v *= 1000
		}
		if weightAt == nil {
			return nil
		}
		w := weightAt(start)
		if w == nil || *w <= 0 {
			return nil
		}
		v /= *w
		return &v

	default:
		return &v
	}
}
