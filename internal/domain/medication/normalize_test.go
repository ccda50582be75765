package medication

import (
	"testing"
	"time"
)

var doseBase = time.Date(2130, 5, 10, 8, 0, 0, 0, time.UTC)

func doseEvent(agent Agent, rate float64, unit string) InfusionEvent {
	return InfusionEvent{
		StayID:    200001,
		Agent:     agent,
		StartTime: ptrTime(doseBase),
		EndTime:   ptrTime(doseBase.Add(2 * time.Hour)),
		Rate:      ptrFloat(rate),
		RateUnit:  unit,
	}
}

func fixedWeight(kg float64) WeightAt {
	return func(time.Time) *float64 { return &kg }
}

func noWeight(time.Time) *float64 { return nil }

func TestNormalizeDoses_McgKgMinPassesThrough(t *testing.T) {
	doses := NormalizeDoses([]InfusionEvent{doseEvent(Dopamine, 5.5, UnitMcgKgMin)}, noWeight)
	if len(doses) != 1 {
		t.Fatalf("expected 1 dose, got %d", len(doses))
	}
	if doses[0].Rate == nil || *doses[0].Rate != 5.5 {
		t.Errorf("rate = %v, want 5.5", doses[0].Rate)
	}
}

func TestNormalizeDoses_MgKgMinScales(t *testing.T) {
	doses := NormalizeDoses([]InfusionEvent{doseEvent(Epinephrine, 0.5, UnitMgKgMin)}, noWeight)
	if len(doses) != 1 {
		t.Fatalf("expected 1 dose, got %d", len(doses))
	}
	if doses[0].Rate == nil || *doses[0].Rate != 500 {
		t.Errorf("rate = %v, want 500 mcg/kg/min", doses[0].Rate)
	}
}

func TestNormalizeDoses_NorepinephrineMgKgMin(t *testing.T) {
	cases := []struct {
		name   string
		weight *float64
		want   float64
	}{
		{"pump weight exactly 1 scales", ptrFloat(1), 100},
		{"real pump weight stays as charted", ptrFloat(80), 0.1},
		{"missing pump weight stays as charted", nil, 0.1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := doseEvent(Norepinephrine, 0.1, UnitMgKgMin)
			ev.PatientWeight = tc.weight

			doses := NormalizeDoses([]InfusionEvent{ev}, noWeight)
			if len(doses) != 1 {
				t.Fatalf("expected 1 dose, got %d", len(doses))
			}
			if doses[0].Rate == nil || *doses[0].Rate != tc.want {
				t.Errorf("rate = %v, want %v", doses[0].Rate, tc.want)
			}
		})
	}
}

func TestNormalizeDoses_AbsoluteRatesDivideByWeight(t *testing.T) {
	mcg := doseEvent(Norepinephrine, 8, UnitMcgMin)
	mg := doseEvent(Dopamine, 0.4, UnitMgMin)

	doses := NormalizeDoses([]InfusionEvent{mcg, mg}, fixedWeight(80))
	if len(doses) != 2 {
		t.Fatalf("expected 2 doses, got %d", len(doses))
	}

	// sorted by agent: dopamine first
	if doses[0].Rate == nil || *doses[0].Rate != 5 {
		t.Errorf("mg/min rate = %v, want 0.4*1000/80 = 5", doses[0].Rate)
	}
	if doses[1].Rate == nil || *doses[1].Rate != 0.1 {
		t.Errorf("mcg/min rate = %v, want 8/80 = 0.1", doses[1].Rate)
	}
}

func TestNormalizeDoses_AbsoluteRateWithoutWeightStaysNil(t *testing.T) {
	doses := NormalizeDoses([]InfusionEvent{doseEvent(Norepinephrine, 8, UnitMcgMin)}, noWeight)
	if len(doses) != 1 {
		t.Fatalf("expected the interval to survive with a nil rate, got %d doses", len(doses))
	}
	if doses[0].Rate != nil {
		t.Errorf("rate = %v, want nil when no weight covers the start", *doses[0].Rate)
	}
}

func TestNormalizeDoses_UnknownUnitPassesThrough(t *testing.T) {
	doses := NormalizeDoses([]InfusionEvent{doseEvent(Dobutamine, 3, "units/hr")}, noWeight)
	if len(doses) != 1 {
		t.Fatalf("expected 1 dose, got %d", len(doses))
	}
	if doses[0].Rate == nil || *doses[0].Rate != 3 {
		t.Errorf("rate = %v, want 3 unchanged", doses[0].Rate)
	}
}

func TestNormalizeDoses_DropsUnusableEvents(t *testing.T) {
	noStart := doseEvent(Dopamine, 5, UnitMcgKgMin)
	noStart.StartTime = nil

	amountOnly := doseEvent(Dopamine, 0, UnitMcgKgMin)
	amountOnly.Rate = nil
	amountOnly.Amount = ptrFloat(250)

	doses := NormalizeDoses([]InfusionEvent{noStart, amountOnly}, noWeight)
	if len(doses) != 0 {
		t.Errorf("expected no doses from unusable events, got %d", len(doses))
	}
}

func TestNormalizeDoses_WidensDegenerateIntervals(t *testing.T) {
	noEnd := doseEvent(Dopamine, 5, UnitMcgKgMin)
	noEnd.EndTime = nil

	inverted := doseEvent(Dopamine, 5, UnitMcgKgMin)
	inverted.StartTime = ptrTime(doseBase.Add(time.Hour))
	inverted.EndTime = ptrTime(doseBase)

	zeroWidth := doseEvent(Dopamine, 5, UnitMcgKgMin)
	zeroWidth.EndTime = ptrTime(doseBase)

	doses := NormalizeDoses([]InfusionEvent{noEnd, inverted, zeroWidth}, noWeight)
	if len(doses) != 3 {
		t.Fatalf("expected 3 doses, got %d", len(doses))
	}
	for i, d := range doses {
		if !d.EndTime.Equal(d.StartTime.Add(time.Minute)) {
			t.Errorf("dose %d: end = %v, want one minute past start %v", i, d.EndTime, d.StartTime)
		}
	}
}

func TestNormalizeDoses_KeepsRealEnd(t *testing.T) {
	doses := NormalizeDoses([]InfusionEvent{doseEvent(Dopamine, 5, UnitMcgKgMin)}, noWeight)
	if len(doses) != 1 {
		t.Fatalf("expected 1 dose, got %d", len(doses))
	}
	if !doses[0].EndTime.Equal(doseBase.Add(2 * time.Hour)) {
		t.Errorf("end = %v, want the charted end", doses[0].EndTime)
	}
}
