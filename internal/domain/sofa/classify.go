package sofa

// rule pairs a predicate over one hour's signals with the subscore granted
// when it fires. Each organ's ladder evaluates top to bottom and the first
// match wins. Order is load-bearing: the cardiovascular tier-3 rung matches
// any positive low-dose epinephrine or norepinephrine infusion, including
// rates that would also satisfy tier 4 were the ladder reversed.
type rule struct {
	match func(HourlySignals) bool
	score int
}

// nil-safe comparisons; a missing value never satisfies a predicate.
func lt(v *float64, bound float64) bool { return v != nil && *v < bound }
func le(v *float64, bound float64) bool { return v != nil && *v <= bound }
func gt(v *float64, bound float64) bool { return v != nil && *v > bound }
func ge(v *float64, bound float64) bool { return v != nil && *v >= bound }

// between reports lo <= *v < hi.
func between(v *float64, lo, hi float64) bool { return v != nil && *v >= lo && *v < hi }

var respirationRules = []rule{
	{func(s HourlySignals) bool { return lt(s.PaO2FiO2Vent, 100) }, 4},
	{func(s HourlySignals) bool { return lt(s.PaO2FiO2Vent, 200) }, 3},
	{func(s HourlySignals) bool { return lt(s.PaO2FiO2NoVent, 300) || lt(s.PaO2FiO2Vent, 300) }, 2},
	{func(s HourlySignals) bool { return lt(s.PaO2FiO2NoVent, 400) || lt(s.PaO2FiO2Vent, 400) }, 1},
}

var coagulationRules = []rule{
	{func(s HourlySignals) bool { return lt(s.PlateletMin, 20) }, 4},
	{func(s HourlySignals) bool { return lt(s.PlateletMin, 50) }, 3},
	{func(s HourlySignals) bool { return lt(s.PlateletMin, 100) }, 2},
	{func(s HourlySignals) bool { return lt(s.PlateletMin, 150) }, 1},
}

var liverRules = []rule{
	{func(s HourlySignals) bool { return ge(s.BilirubinMax, 12) }, 4},
	{func(s HourlySignals) bool { return ge(s.BilirubinMax, 6) }, 3},
	{func(s HourlySignals) bool { return ge(s.BilirubinMax, 2) }, 2},
	{func(s HourlySignals) bool { return ge(s.BilirubinMax, 1.2) }, 1},
}

var cardiovascularRules = []rule{
	{func(s HourlySignals) bool {
		return gt(s.RateDopamine, 15) || gt(s.RateEpinephrine, 0.1) || gt(s.RateNorepinephrine, 0.1)
	}, 4},
	{func(s HourlySignals) bool {
		return gt(s.RateDopamine, 5) || le(s.RateEpinephrine, 0.1) || le(s.RateNorepinephrine, 0.1)
	}, 3},
	{func(s HourlySignals) bool {
		return gt(s.RateDopamine, 0) || gt(s.RateDobutamine, 0)
	}, 2},
	{func(s HourlySignals) bool { return lt(s.MeanBPMin, 70) }, 1},
}

var cnsRules = []rule{
	{func(s HourlySignals) bool { return between(s.GCSMin, 13, 15) }, 1},
	{func(s HourlySignals) bool { return between(s.GCSMin, 10, 13) }, 2},
	{func(s HourlySignals) bool { return between(s.GCSMin, 6, 10) }, 3},
	{func(s HourlySignals) bool { return lt(s.GCSMin, 6) }, 4},
}

var renalRules = []rule{
	{func(s HourlySignals) bool { return ge(s.CreatinineMax, 5) || lt(s.UrineRate24h, 200) }, 4},
	{func(s HourlySignals) bool { return between(s.CreatinineMax, 3.5, 5) || lt(s.UrineRate24h, 500) }, 3},
	{func(s HourlySignals) bool { return between(s.CreatinineMax, 2, 3.5) }, 2},
	{func(s HourlySignals) bool { return between(s.CreatinineMax, 1.2, 2) }, 1},
}

// Classify maps one hour's aggregated signals to per-organ subscores. An
// organ whose inputs are all missing that hour scores nil; otherwise the
// first matching rung of its ladder applies, defaulting to 0.
func Classify(sig HourlySignals) HourlySubscores {
	anyVaso := sig.RateDopamine != nil || sig.RateEpinephrine != nil ||
		sig.RateNorepinephrine != nil || sig.RateDobutamine != nil

	return HourlySubscores{
		Respiration:    evalLadder(respirationRules, sig, sig.PaO2FiO2Vent != nil || sig.PaO2FiO2NoVent != nil),
		Coagulation:    evalLadder(coagulationRules, sig, sig.PlateletMin != nil),
		Liver:          evalLadder(liverRules, sig, sig.BilirubinMax != nil),
		Cardiovascular: evalLadder(cardiovascularRules, sig, anyVaso || sig.MeanBPMin != nil),
		CNS:            evalLadder(cnsRules, sig, sig.GCSMin != nil),
		Renal:          evalLadder(renalRules, sig, sig.CreatinineMax != nil || sig.UrineRate24h != nil),
	}
}

func evalLadder(rules []rule, sig HourlySignals, present bool) *int {
	if !present {
		return nil
	}
	for _, r := range rules {
		if r.match(sig) {
			s := r.score
			return &s
		}
	}
	zero := 0
	return &zero
}
