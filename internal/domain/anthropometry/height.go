package anthropometry

import (
	"time"

	"github.com/icuscore/icuscore/internal/domain/stay"
)

// Heights are only trusted near admission; later charting is sparse and
// frequently holds transcription slips.
const (
	HeightWindowBefore = 6 * time.Hour
	HeightWindowAfter  = 24 * time.Hour
)

// HeightEstimate averages the plausible heights charted between six hours
// before admission and 24 hours after it, converted to centimeters. Returns
// nil when nothing in the window survives the plausibility bounds.
func HeightEstimate(st stay.Stay, samples []HeightSample) *float64 {
	from := st.InTime.Add(-HeightWindowBefore)
	to := st.InTime.Add(HeightWindowAfter)

	var sum float64
	var n int
	for _, s := range samples {
		if s.ChartTime.Before(from) || s.ChartTime.After(to) {
			continue
		}
		cm := s.Cm()
		if !ValidHeightCm(cm) {
			continue
		}
		sum += cm
		n++
	}
	if n == 0 {
		return nil
	}
	mean := sum / float64(n)
	return &mean
}
