package observation

import "time"

// ChartSample is an instantaneous charted measurement keyed by stay. Vitals
// come straight off the monitor feed; GCS totals are derived first (see
// DeriveGCSTotals).
type ChartSample struct {
	StayID    int64     `db:"stay_id" json:"stay_id"`
	ChartTime time.Time `db:"charttime" json:"charttime"`
	Value     float64   `db:"valuenum" json:"valuenum"`
}

// LabResult is a point lab observation. The lab system keys results by
// hospital admission, not ICU stay.
type LabResult struct {
	HadmID    int64     `db:"hadm_id" json:"hadm_id"`
	ChartTime time.Time `db:"charttime" json:"charttime"`
	Value     float64   `db:"valuenum" json:"valuenum"`
}

// BloodGas is one blood gas draw. PaO2FiO2 is nil when the draw has no
// recorded FiO2 to form the ratio. Keyed by subject because the gas lab does
// not track ICU stays.
type BloodGas struct {
	SubjectID int64     `db:"subject_id" json:"subject_id"`
	ChartTime time.Time `db:"charttime" json:"charttime"`
	Specimen  string    `db:"specimen" json:"specimen"`
	PaO2FiO2  *float64  `db:"pao2fio2ratio" json:"pao2fio2ratio"`
}

// VentilationEpisode is a contiguous stretch of ventilatory support.
type VentilationEpisode struct {
	StayID    int64     `db:"stay_id" json:"stay_id"`
	StartTime time.Time `db:"starttime" json:"starttime"`
	EndTime   time.Time `db:"endtime" json:"endtime"`
	Status    string    `db:"ventilation_status" json:"ventilation_status"`
}

// Covers reports whether the episode spans the given timestamp. Both ends
// are inclusive: a gas drawn at the minute of extubation still counts as
// ventilated.
func (v VentilationEpisode) Covers(t time.Time) bool {
	return !t.Before(v.StartTime) && !t.After(v.EndTime)
}

// UrineOutput is a trailing urine collection: VolumeML accumulated over the
// MeasuredHours preceding ChartTime.
type UrineOutput struct {
	StayID        int64     `db:"stay_id" json:"stay_id"`
	ChartTime     time.Time `db:"charttime" json:"charttime"`
	MeasuredHours float64   `db:"uo_tm_24hr" json:"uo_tm_24hr"`
	VolumeML      float64   `db:"urineoutput_24hr" json:"urineoutput_24hr"`
}

// Rate24h extrapolates the collection to a 24-hour volume. Collections
// measured over less than 22 or more than 30 hours yield nil: scaling those
// would manufacture a rate the data cannot support.
func (u UrineOutput) Rate24h() *float64 {
	if u.MeasuredHours < 22 || u.MeasuredHours > 30 {
		return nil
	}
	v := u.VolumeML / u.MeasuredHours * 24
	return &v
}

// GCSElement identifies which part of the Glasgow Coma Scale a sample
// carries.
type GCSElement string

const (
	GCSEye    GCSElement = "eye"
	GCSVerbal GCSElement = "verbal"
	GCSMotor  GCSElement = "motor"
	// GCSTotal marks a directly charted total from the pre-switchover
	// charting generation.
	GCSTotal GCSElement = "total"
)

// GCSSample is a raw Glasgow Coma Scale element as charted.
type GCSSample struct {
	StayID    int64      `db:"stay_id" json:"stay_id"`
	ChartTime time.Time  `db:"charttime" json:"charttime"`
	Element   GCSElement `db:"element" json:"element"`
	Value     float64    `db:"valuenum" json:"valuenum"`
}

// Plausibility bounds applied before aggregation. Out-of-range samples are
// dropped rather than clamped.

// ValidMeanBP reports whether a charted mean arterial pressure is
// physiologically plausible.
func ValidMeanBP(v float64) bool {
	return v > 0 && v < 300
}

// ValidGCS reports whether a Glasgow Coma Scale total is within the scale.
func ValidGCS(v float64) bool {
	return v >= 3 && v <= 15
}

// ValidPaO2FiO2 reports whether a PaO2/FiO2 ratio is plausible.
func ValidPaO2FiO2(v float64) bool {
	return v > 0 && v <= 1000
}
