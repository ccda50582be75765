package anthropometry

import (
	"sort"
	"time"

	"github.com/icuscore/icuscore/internal/domain/stay"
)

// SegmentPad extends weight coverage past the registry bounds: dosing
// events are routinely charted shortly before admission or after discharge
// and still need a weight.
const SegmentPad = 2 * time.Hour

// BuildWeightSegments converts a stay's charted weights into contiguous
// validity intervals covering [intime-2h, outtime+2h]. Implausible samples
// are dropped. Each surviving weight holds from its chart time until the
// next one takes over; when the chronologically first sample is the
// admission weight its segment is pulled back to the start of the pad, and
// any remaining uncovered lead-in is backfilled with the earliest known
// weight so the set has no gaps. The last segment runs to the end of the
// pad. Returns nil when no plausible weight exists.
func BuildWeightSegments(st stay.Stay, samples []WeightSample) []WeightSegment {
	lower := st.InTime.Add(-SegmentPad)
	upper := st.OutTime.Add(SegmentPad)

	kept := make([]WeightSample, 0, len(samples))
	for _, s := range samples {
		if !ValidWeightKg(s.Kg()) {
			continue
		}
		if s.ChartTime.After(upper) {
			continue
		}
		kept = append(kept, s)
	}
	if len(kept) == 0 {
		return nil
	}

	sort.SliceStable(kept, func(i, j int) bool { return kept[i].ChartTime.Before(kept[j].ChartTime) })

	starts := make([]time.Time, len(kept))
	for i, s := range kept {
		starts[i] = s.ChartTime
	}
	if kept[0].Kind == WeightAdmit {
		starts[0] = lower
	}

	segs := make([]WeightSegment, 0, len(kept)+1)
	for i, s := range kept {
		start := starts[i]
		end := upper
		if i+1 < len(kept) {
			end = starts[i+1]
		}
		if !end.After(start) {
			// two weights at one chart time: the later row wins
			continue
		}
		segs = append(segs, WeightSegment{
			StayID:    st.StayID,
			StartTime: start,
			EndTime:   end,
			WeightKg:  s.Kg(),
		})
	}
	if len(segs) == 0 {
		return nil
	}

	// Backfill the lead-in with the earliest known weight.
	if segs[0].StartTime.After(lower) {
		segs = append([]WeightSegment{{
			StayID:    st.StayID,
			StartTime: lower,
			EndTime:   segs[0].StartTime,
			WeightKg:  segs[0].WeightKg,
		}}, segs...)
	}

	return segs
}

// WeightAt returns the weight in effect at t, nil when t falls outside the
// covered range. Segments are half-open [start, end); the final segment's
// end is inclusive so the far edge of the discharge pad stays covered.
func WeightAt(segs []WeightSegment, t time.Time) *float64 {
	for i, s := range segs {
		if t.Before(s.StartTime) {
			return nil
		}
		if t.Before(s.EndTime) || (i == len(segs)-1 && t.Equal(s.EndTime)) {
			w := s.WeightKg
			return &w
		}
	}
	return nil
}
