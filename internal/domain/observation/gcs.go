package observation

import (
	"sort"
	"time"
)

// DeriveGCSTotals reduces raw Glasgow Coma Scale elements to one total per
// charting instant. Directly charted totals from the legacy generation pass
// through as-is. The newer generation charts eye/verbal/motor separately;
// those sum to a total when all three share a charttime. A verbal component
// of 0 marks an intubated patient whose verbal response cannot be assessed,
// and the total for that instant is taken as 15 (charting convention in the
// source system, preserved).
//
// Totals outside the 3..15 scale are dropped. Results are ordered by
// charttime.
func DeriveGCSTotals(samples []GCSSample) []ChartSample {
	type key struct {
		stayID int64
		t      time.Time
	}
	type parts struct {
		eye, verbal, motor *float64
	}

	comp := make(map[key]*parts)
	var out []ChartSample

	for _, s := range samples {
		switch s.Element {
		case GCSTotal:
			if ValidGCS(s.Value) {
				out = append(out, ChartSample{StayID: s.StayID, ChartTime: s.ChartTime, Value: s.Value})
			}
		case GCSEye, GCSVerbal, GCSMotor:
			k := key{s.StayID, s.ChartTime}
			p := comp[k]
			if p == nil {
				p = &parts{}
				comp[k] = p
			}
			v := s.Value
			switch s.Element {
			case GCSEye:
				p.eye = &v
			case GCSVerbal:
				p.verbal = &v
			case GCSMotor:
				p.motor = &v
			}
		}
	}

	for k, p := range comp {
		var total float64
		switch {
		case p.verbal != nil && *p.verbal == 0:
			total = 15
		case p.eye != nil && p.verbal != nil && p.motor != nil:
			total = *p.eye + *p.verbal + *p.motor
		default:
			// incomplete triple, no total can be formed
			continue
		}
		if !ValidGCS(total) {
			continue
		}
		out = append(out, ChartSample{StayID: k.stayID, ChartTime: k.t, Value: total})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].ChartTime.Equal(out[j].ChartTime) {
			return out[i].ChartTime.Before(out[j].ChartTime)
		}
		return out[i].Value < out[j].Value
	})
	return out
}
