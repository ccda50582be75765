package medication

import "sort"

// MergeGenerations reconciles the two charting generations' administration
// rows for one stay. Rows pair up on (agent, link order id); a paired row
// keeps the older generation's rate/amount when charted (it stayed the
// system of record through the overlap period) and the newer generation's
// start/end times. Rows without a counterpart pass through unchanged, so a
// stay charted in only one generation is unaffected.
//
// When one link order spans several dose changes, rows pair positionally in
// the order given; callers pass rows ordered by start time.
func MergeGenerations(legacy, modern []InfusionEvent) []InfusionEvent {
	type key struct {
		agent Agent
		order int64
	}

	modernByKey := make(map[key][]InfusionEvent)
	var modernLoose []InfusionEvent
	for _, ev := range modern {
		if ev.LinkOrderID == nil {
			modernLoose = append(modernLoose, ev)
			continue
		}
		k := key{ev.Agent, *ev.LinkOrderID}
		modernByKey[k] = append(modernByKey[k], ev)
	}

	paired := make(map[key]int)
	out := make([]InfusionEvent, 0, len(legacy)+len(modern))
	for _, lv := range legacy {
		if lv.LinkOrderID == nil {
			out = append(out, lv)
			continue
		}
		k := key{lv.Agent, *lv.LinkOrderID}
		peers := modernByKey[k]
		i := paired[k]
		if i >= len(peers) {
			out = append(out, lv)
			continue
		}
		paired[k] = i + 1
		out = append(out, coalesceEvents(lv, peers[i]))
	}

	out = append(out, modernLoose...)
	for k, peers := range modernByKey {
		for i := paired[k]; i < len(peers); i++ {
			out = append(out, peers[i])
		}
	}

	sortEvents(out)
	return out
}

// coalesceEvents collapses a matched pair. The rate, its unit and the pump
// weight travel together: mixing one generation's rate with the other's
// unit would corrupt normalization.
func coalesceEvents(lv, mv InfusionEvent) InfusionEvent {
	ev := InfusionEvent{StayID: lv.StayID, Agent: lv.Agent, LinkOrderID: lv.LinkOrderID}

	if lv.Rate != nil {
		ev.Rate, ev.RateUnit, ev.PatientWeight = lv.Rate, lv.RateUnit, lv.PatientWeight
	} else {
		ev.Rate, ev.RateUnit, ev.PatientWeight = mv.Rate, mv.RateUnit, mv.PatientWeight
	}

	if lv.Amount != nil {
		ev.Amount = lv.Amount
	} else {
		ev.Amount = mv.Amount
	}

	if mv.StartTime != nil {
		ev.StartTime = mv.StartTime
	} else {
		ev.StartTime = lv.StartTime
	}
	if mv.EndTime != nil {
		ev.EndTime = mv.EndTime
	} else {
		ev.EndTime = lv.EndTime
	}

	return ev
}

func sortEvents(events []InfusionEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.Agent != b.Agent {
			return a.Agent < b.Agent
		}
		switch {
		case a.StartTime == nil && b.StartTime != nil:
			return false
		case a.StartTime != nil && b.StartTime == nil:
			return true
		case a.StartTime != nil && b.StartTime != nil && !a.StartTime.Equal(*b.StartTime):
			return a.StartTime.Before(*b.StartTime)
		}
		switch {
		case a.LinkOrderID == nil && b.LinkOrderID != nil:
			return false
		case a.LinkOrderID != nil && b.LinkOrderID == nil:
			return true
		case a.LinkOrderID != nil && b.LinkOrderID != nil:
			return *a.LinkOrderID < *b.LinkOrderID
		}
		return false
	})
}
