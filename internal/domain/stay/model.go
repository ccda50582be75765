package stay

import "time"

// Stay is one ICU admission episode from the icustays registry. InTime and
// OutTime are always populated: registry rows missing either bound have it
// reconstructed from the first and last charted heart rate of the stay, and
// rows where neither source yields a bound are excluded upstream.
type Stay struct {
	StayID    int64     `db:"stay_id" json:"stay_id"`
	SubjectID int64     `db:"subject_id" json:"subject_id"`
	HadmID    int64     `db:"hadm_id" json:"hadm_id"`
	InTime    time.Time `db:"intime" json:"intime"`
	OutTime   time.Time `db:"outtime" json:"outtime"`
}

// Duration returns the length of the stay.
func (s Stay) Duration() time.Duration {
	return s.OutTime.Sub(s.InTime)
}

// HourSlot is one hour of a stay on the scoring grid. The slot covers the
// half-open-at-the-left interval (StartTime, EndTime]: a measurement charted
// exactly at EndTime belongs to this slot, one charted exactly at StartTime
// belongs to the previous slot.
type HourSlot struct {
	StayID    int64     `db:"stay_id" json:"stay_id"`
	Hr        int       `db:"hr" json:"hr"`
	StartTime time.Time `db:"starttime" json:"starttime"`
	EndTime   time.Time `db:"endtime" json:"endtime"`
}

// Contains reports whether a charted timestamp falls inside the slot's
// (StartTime, EndTime] window.
func (s HourSlot) Contains(t time.Time) bool {
	return t.After(s.StartTime) && !t.After(s.EndTime)
}
