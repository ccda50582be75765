package observation

import (
	"testing"
	"time"
)

func gcsAt(t time.Time, el GCSElement, v float64) GCSSample {
	return GCSSample{StayID: 200001, ChartTime: t, Element: el, Value: v}
}

func TestDeriveGCSTotals_SumsComponents(t *testing.T) {
	at := time.Date(2130, 5, 10, 9, 0, 0, 0, time.UTC)
	samples := []GCSSample{
		gcsAt(at, GCSEye, 4),
		gcsAt(at, GCSVerbal, 5),
		gcsAt(at, GCSMotor, 6),
	}

	totals := DeriveGCSTotals(samples)
	if len(totals) != 1 {
		t.Fatalf("expected 1 total, got %d", len(totals))
	}
	if totals[0].Value != 15 {
		t.Errorf("total = %v, want 15", totals[0].Value)
	}
	if !totals[0].ChartTime.Equal(at) {
		t.Errorf("total charttime = %v, want %v", totals[0].ChartTime, at)
	}
}

func TestDeriveGCSTotals_VerbalZeroMeansIntubated(t *testing.T) {
	at := time.Date(2130, 5, 10, 9, 0, 0, 0, time.UTC)
	samples := []GCSSample{
		gcsAt(at, GCSEye, 1),
		gcsAt(at, GCSVerbal, 0),
		gcsAt(at, GCSMotor, 2),
	}

	totals := DeriveGCSTotals(samples)
	if len(totals) != 1 {
		t.Fatalf("expected 1 total, got %d", len(totals))
	}
	if totals[0].Value != 15 {
		t.Errorf("intubated charting must score 15, got %v", totals[0].Value)
	}
}

func TestDeriveGCSTotals_VerbalZeroWithoutOtherComponents(t *testing.T) {
	at := time.Date(2130, 5, 10, 9, 0, 0, 0, time.UTC)
	samples := []GCSSample{gcsAt(at, GCSVerbal, 0)}

	totals := DeriveGCSTotals(samples)
	if len(totals) != 1 {
		t.Fatalf("expected 1 total from a lone intubated verbal, got %d", len(totals))
	}
	if totals[0].Value != 15 {
		t.Errorf("total = %v, want 15", totals[0].Value)
	}
}

func TestDeriveGCSTotals_IncompleteTripleSkipped(t *testing.T) {
	at := time.Date(2130, 5, 10, 9, 0, 0, 0, time.UTC)
	samples := []GCSSample{
		gcsAt(at, GCSEye, 4),
		gcsAt(at, GCSMotor, 6),
	}

	if totals := DeriveGCSTotals(samples); len(totals) != 0 {
		t.Errorf("expected no total without a verbal component, got %d", len(totals))
	}
}

func TestDeriveGCSTotals_LegacyTotalPassesThrough(t *testing.T) {
	at := time.Date(2130, 5, 10, 9, 0, 0, 0, time.UTC)
	samples := []GCSSample{gcsAt(at, GCSTotal, 7)}

	totals := DeriveGCSTotals(samples)
	if len(totals) != 1 {
		t.Fatalf("expected 1 total, got %d", len(totals))
	}
	if totals[0].Value != 7 {
		t.Errorf("total = %v, want 7", totals[0].Value)
	}
}

func TestDeriveGCSTotals_DropsOutOfScaleTotals(t *testing.T) {
	at := time.Date(2130, 5, 10, 9, 0, 0, 0, time.UTC)
	samples := []GCSSample{
		gcsAt(at, GCSTotal, 2),
		gcsAt(at.Add(time.Hour), GCSTotal, 21),
	}

	if totals := DeriveGCSTotals(samples); len(totals) != 0 {
		t.Errorf("expected out-of-scale totals to be dropped, got %d", len(totals))
	}
}

func TestDeriveGCSTotals_SeparateInstantsStaySeparate(t *testing.T) {
	t0 := time.Date(2130, 5, 10, 9, 0, 0, 0, time.UTC)
	t1 := t0.Add(30 * time.Minute)
	samples := []GCSSample{
		gcsAt(t0, GCSEye, 4),
		gcsAt(t0, GCSVerbal, 5),
		gcsAt(t0, GCSMotor, 6),
		gcsAt(t1, GCSEye, 3),
		gcsAt(t1, GCSVerbal, 4),
		gcsAt(t1, GCSMotor, 5),
	}

	totals := DeriveGCSTotals(samples)
	if len(totals) != 2 {
		t.Fatalf("expected 2 totals, got %d", len(totals))
	}
	if totals[0].Value != 15 || totals[1].Value != 12 {
		t.Errorf("totals = %v, %v, want 15, 12", totals[0].Value, totals[1].Value)
	}
	if !totals[0].ChartTime.Before(totals[1].ChartTime) {
		t.Error("expected totals ordered by charttime")
	}
}

func TestDeriveGCSTotals_MixedGenerations(t *testing.T) {
	t0 := time.Date(2130, 5, 10, 9, 0, 0, 0, time.UTC)
	t1 := t0.Add(time.Hour)
	samples := []GCSSample{
		gcsAt(t0, GCSTotal, 9),
		gcsAt(t1, GCSEye, 2),
		gcsAt(t1, GCSVerbal, 3),
		gcsAt(t1, GCSMotor, 4),
	}

	totals := DeriveGCSTotals(samples)
	if len(totals) != 2 {
		t.Fatalf("expected 2 totals, got %d", len(totals))
	}
	if totals[0].Value != 9 {
		t.Errorf("legacy total = %v, want 9", totals[0].Value)
	}
	if totals[1].Value != 9 {
		t.Errorf("component total = %v, want 9", totals[1].Value)
	}
}
