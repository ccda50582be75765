package anthropometry

import "time"

// WeightKind classifies a charted weight by provenance: the admission
// weight is taken once, potentially before the patient reaches the unit;
// daily weights follow on the ward rhythm.
type WeightKind string

const (
	WeightAdmit WeightKind = "admit"
	WeightDaily WeightKind = "daily"
)

// Unit labels for raw anthropometric samples.
const (
	UnitKg = "kg"
	UnitLb = "lb"
	UnitCm = "cm"
	UnitIn = "in"
)

// Conversion factors for imperial charting.
const (
	LbToKg   = 0.453592
	InchToCm = 2.54
)

// WeightSample is a raw charted weight observation.
type WeightSample struct {
	StayID    int64      `db:"stay_id" json:"stay_id"`
	Kind      WeightKind `db:"kind" json:"kind"`
	ChartTime time.Time  `db:"charttime" json:"charttime"`
	Value     float64    `db:"valuenum" json:"valuenum"`
	Unit      string     `db:"unit" json:"unit"`
}

// Kg returns the sample's weight in kilograms.
func (w WeightSample) Kg() float64 {
	if w.Unit == UnitLb {
		return w.Value * LbToKg
	}
	return w.Value
}

// WeightSegment is the validity interval of one weight: the patient weighs
// WeightKg from StartTime until the next segment takes over.
type WeightSegment struct {
	StayID    int64     `db:"stay_id" json:"stay_id"`
	StartTime time.Time `db:"starttime" json:"starttime"`
	EndTime   time.Time `db:"endtime" json:"endtime"`
	WeightKg  float64   `db:"weight" json:"weight"`
}

// HeightSample is a raw charted height observation.
type HeightSample struct {
	StayID    int64     `db:"stay_id" json:"stay_id"`
	ChartTime time.Time `db:"charttime" json:"charttime"`
	Value     float64   `db:"valuenum" json:"valuenum"`
	Unit      string    `db:"unit" json:"unit"`
}

// Cm returns the sample's height in centimeters.
func (h HeightSample) Cm() float64 {
	if h.Unit == UnitIn {
		return h.Value * InchToCm
	}
	return h.Value
}

// ValidWeightKg reports whether a converted weight is plausible for an
// adult ICU patient.
func ValidWeightKg(kg float64) bool {
	return kg > 20 && kg < 300
}

// ValidHeightCm reports whether a converted height is plausible.
func ValidHeightCm(cm float64) bool {
	return cm > 120 && cm < 230
}
