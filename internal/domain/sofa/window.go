package sofa

import "github.com/icuscore/icuscore/internal/domain/stay"

// WindowHours is the trailing span the headline score aggregates over:
// the current hour plus the 23 before it, clipped at stay start.
const WindowHours = 24

// worstWindow keeps the most recent WindowHours subscores of one organ in a
// fixed ring, pushed once per hour, and yields their worst. Missing hours
// contribute nothing; a window with no observed subscore at all imputes 0.
type worstWindow struct {
	vals [WindowHours]*int
	n    int
}

func (w *worstWindow) push(v *int) {
	w.vals[w.n%WindowHours] = v
	w.n++
}

func (w *worstWindow) worst() int {
	max := 0
	for _, v := range w.vals {
		if v != nil && *v > max {
			max = *v
		}
	}
	return max
}

// ApplyTrailingWindow walks one stay's hours in order, replaces each hour's
// subscores with the trailing-window worst per organ, and emits the final
// rows. slots and subs are parallel slices from BuildHourlySignals.
func ApplyTrailingWindow(slots []stay.HourSlot, subs []HourlySubscores) []ScoreRow {
	rows := make([]ScoreRow, 0, len(slots))
	var resp, coag, liver, cardio, cns, renal worstWindow

	for i, slot := range slots {
		sub := subs[i]
		resp.push(sub.Respiration)
		coag.push(sub.Coagulation)
		liver.push(sub.Liver)
		cardio.push(sub.Cardiovascular)
		cns.push(sub.CNS)
		renal.push(sub.Renal)

		// pre-admission hours feed the window but never reach the output
		if slot.Hr < 0 {
			continue
		}

		row := ScoreRow{
			StayID:    slot.StayID,
			Hr:        slot.Hr,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,

			Respiration:    sub.Respiration,
			Coagulation:    sub.Coagulation,
			Liver:          sub.Liver,
			Cardiovascular: sub.Cardiovascular,
			CNS:            sub.CNS,
			Renal:          sub.Renal,

			Respiration24h:    resp.worst(),
			Coagulation24h:    coag.worst(),
			Liver24h:          liver.worst(),
			Cardiovascular24h: cardio.worst(),
			CNS24h:            cns.worst(),
			Renal24h:          renal.worst(),
		}
		row.TotalScore = row.Respiration24h + row.Coagulation24h + row.Liver24h +
			row.Cardiovascular24h + row.CNS24h + row.Renal24h
		rows = append(rows, row)
	}
	return rows
}
