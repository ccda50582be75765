package medication

import "time"

// Agent identifies a vasopressor tracked by the cardiovascular score.
type Agent string

const (
	Norepinephrine Agent = "norepinephrine"
	Epinephrine    Agent = "epinephrine"
	Dopamine       Agent = "dopamine"
	Dobutamine     Agent = "dobutamine"
)

// Agents lists every tracked vasopressor.
var Agents = []Agent{Norepinephrine, Epinephrine, Dopamine, Dobutamine}

// Rate units as charted by the infusion pumps.
const (
	UnitMcgKgMin = "mcg/kg/min"
	UnitMgKgMin  = "mg/kg/min"
	UnitMcgMin   = "mcg/min"
	UnitMgMin    = "mg/min"
)

// InfusionEvent is one administration row from either charting generation.
// Most fields are nullable: the generations disagree on which columns they
// populate, and MergeGenerations reconciles them.
type InfusionEvent struct {
	StayID      int64      `db:"stay_id" json:"stay_id"`
	Agent       Agent      `db:"agent" json:"agent"`
	LinkOrderID *int64     `db:"linkorderid" json:"linkorderid"`
	StartTime   *time.Time `db:"starttime" json:"starttime"`
	EndTime     *time.Time `db:"endtime" json:"endtime"`
	Rate        *float64   `db:"rate" json:"rate"`
	RateUnit    string     `db:"rateuom" json:"rateuom"`
	Amount      *float64   `db:"amount" json:"amount"`
	// PatientWeight is the weight the newer generation's pump was keyed
	// with. A value of exactly 1 marks a row charted without real weight
	// normalization; NormalizeDoses keys the norepinephrine unit fix on it.
	PatientWeight *float64 `db:"patientweight" json:"patientweight"`
}

// VasopressorDose is a reconciled, unit-normalized infusion interval. Rate
// is in micrograms per kg per minute; nil when the charted unit could not
// be normalized (an absolute rate with no covering weight).
type VasopressorDose struct {
	StayID    int64     `db:"stay_id" json:"stay_id"`
	Agent     Agent     `db:"agent" json:"agent"`
	StartTime time.Time `db:"starttime" json:"starttime"`
	EndTime   time.Time `db:"endtime" json:"endtime"`
	Rate      *float64  `db:"rate" json:"rate"`
}
