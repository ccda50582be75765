package sofa

import "time"

// HourlySignals holds the worst observed value per physiologic signal for
// one (stay, hour) slot. Every field is independently nullable: nil means
// no qualifying observation landed in the hour, which is not the same as a
// measured value indicating normal physiology.
type HourlySignals struct {
	PaO2FiO2Vent   *float64
	PaO2FiO2NoVent *float64
	MeanBPMin      *float64
	GCSMin         *float64
	BilirubinMax   *float64
	CreatinineMax  *float64
	PlateletMin    *float64
	UrineRate24h   *float64

	RateNorepinephrine *float64
	RateEpinephrine    *float64
	RateDopamine       *float64
	RateDobutamine     *float64
}

// HourlySubscores holds the per-organ score for one hour before the
// trailing window is applied. nil marks an hour where the organ had no
// relevant observation at all.
type HourlySubscores struct {
	Respiration    *int
	Coagulation    *int
	Liver          *int
	Cardiovascular *int
	CNS            *int
	Renal          *int
}

// ScoreRow is one row of the hourly output table. The instantaneous
// subscores keep their nulls; the windowed columns and the total are
// always present because missing organs impute to zero at that stage.
type ScoreRow struct {
	StayID    int64     `db:"stay_id" json:"stay_id"`
	Hr        int       `db:"hr" json:"hr"`
	StartTime time.Time `db:"starttime" json:"starttime"`
	EndTime   time.Time `db:"endtime" json:"endtime"`

	Respiration    *int `db:"respiration" json:"respiration"`
	Coagulation    *int `db:"coagulation" json:"coagulation"`
	Liver          *int `db:"liver" json:"liver"`
	Cardiovascular *int `db:"cardiovascular" json:"cardiovascular"`
	CNS            *int `db:"cns" json:"cns"`
	Renal          *int `db:"renal" json:"renal"`

	Respiration24h    int `db:"respiration_24h" json:"respiration_24h"`
	Coagulation24h    int `db:"coagulation_24h" json:"coagulation_24h"`
	Liver24h          int `db:"liver_24h" json:"liver_24h"`
	Cardiovascular24h int `db:"cardiovascular_24h" json:"cardiovascular_24h"`
	CNS24h            int `db:"cns_24h" json:"cns_24h"`
	Renal24h          int `db:"renal_24h" json:"renal_24h"`

	TotalScore int `db:"total_score" json:"total_score"`
}
