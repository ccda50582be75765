package integration

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/icuscore/icuscore/internal/domain/medication"
	"github.com/icuscore/icuscore/internal/domain/stay"
	"github.com/icuscore/icuscore/internal/platform/db"
)

var t0 = time.Date(2130, 4, 5, 6, 0, 0, 0, time.UTC)

// scored mirrors the sofa_hourly columns the assertions care about.
type scored struct {
	hr       int
	resp     *int
	coag     *int
	cardio   *int
	renal    *int
	resp24   int
	coag24   int
	cardio24 int
	total    int
}

func fetchScores(t *testing.T, ctx context.Context, stayID int64) []scored {
	t.Helper()
	rows, err := globalDB.Pool.Query(ctx, `
		SELECT hr, respiration, coagulation, cardiovascular, renal,
		       respiration_24h, coagulation_24h, cardiovascular_24h, total_score
		FROM sofa_hourly
		WHERE stay_id = $1
		ORDER BY hr`, stayID)
	if err != nil {
		t.Fatalf("query sofa_hourly: %v", err)
	}
	defer rows.Close()

	var out []scored
	for rows.Next() {
		var s scored
		if err := rows.Scan(&s.hr, &s.resp, &s.coag, &s.cardio, &s.renal,
			&s.resp24, &s.coag24, &s.cardio24, &s.total); err != nil {
			t.Fatalf("scan sofa_hourly row: %v", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("iterate sofa_hourly rows: %v", err)
	}
	return out
}

func countScoreRows(t *testing.T, ctx context.Context) int {
	t.Helper()
	var n int
	if err := globalDB.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM sofa_hourly`).Scan(&n); err != nil {
		t.Fatalf("count sofa_hourly: %v", err)
	}
	return n
}

func TestScoringPass_EndToEnd(t *testing.T) {
	ctx := context.Background()
	resetTables(t, ctx)

	insertStay(t, ctx, 301, 101, 201, t0, ptrTime(t0.Add(6*time.Hour)))
	// hr 0: hypotension
	insertChart(t, ctx, 301, 220052, t0.Add(30*time.Minute), 63)
	// hr 1: ventilated arterial gas inside the episode
	insertVent(t, ctx, 301, t0.Add(time.Hour), t0.Add(3*time.Hour))
	insertGas(t, ctx, 101, t0.Add(90*time.Minute), 150)
	// hr 2: thrombocytopenia
	insertLab(t, ctx, 201, 51265, t0.Add(150*time.Minute), 45)
	// hrs 3-4: norepinephrine, already weight-relative
	insertModernInfusion(t, ctx, 301, 221906, 1,
		t0.Add(190*time.Minute), t0.Add(330*time.Minute), 0.3, medication.UnitMcgKgMin, 80)
	// hr 4: adequate urine, present but scoring zero
	insertUrine(t, ctx, 301, t0.Add(270*time.Minute), 24, 2400)

	stats, err := newScoringService(2).Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Stays != 1 || stats.Rows != 6 {
		t.Fatalf("stats = %d stays / %d rows, want 1 / 6", stats.Stays, stats.Rows)
	}

	rows := fetchScores(t, ctx, 301)
	if len(rows) != 6 {
		t.Fatalf("got %d rows, want 6", len(rows))
	}

	if rows[0].cardio == nil || *rows[0].cardio != 1 {
		t.Errorf("hr 0 cardiovascular = %v, want 1", fmtPtr(rows[0].cardio))
	}
	if rows[0].total != 1 {
		t.Errorf("hr 0 total = %d, want 1", rows[0].total)
	}
	if rows[1].resp == nil || *rows[1].resp != 3 {
		t.Errorf("hr 1 respiration = %v, want 3", fmtPtr(rows[1].resp))
	}
	if rows[1].total != 4 {
		t.Errorf("hr 1 total = %d, want 4", rows[1].total)
	}
	if rows[2].coag == nil || *rows[2].coag != 3 {
		t.Errorf("hr 2 coagulation = %v, want 3", fmtPtr(rows[2].coag))
	}
	if rows[2].total != 7 {
		t.Errorf("hr 2 total = %d, want 7", rows[2].total)
	}
	if rows[3].cardio == nil || *rows[3].cardio != 4 {
		t.Errorf("hr 3 cardiovascular = %v, want 4", fmtPtr(rows[3].cardio))
	}
	if rows[3].total != 10 {
		t.Errorf("hr 3 total = %d, want 10", rows[3].total)
	}
	// urine was measured, so renal is a real zero rather than missing
	if rows[4].renal == nil || *rows[4].renal != 0 {
		t.Errorf("hr 4 renal = %v, want 0", fmtPtr(rows[4].renal))
	}
	if rows[5].cardio != nil {
		t.Errorf("hr 5 cardiovascular = %v, want nil", fmtPtr(rows[5].cardio))
	}
	if rows[5].cardio24 != 4 || rows[5].resp24 != 3 || rows[5].coag24 != 3 {
		t.Errorf("hr 5 windows = cardio %d / resp %d / coag %d, want 4 / 3 / 3",
			rows[5].cardio24, rows[5].resp24, rows[5].coag24)
	}
	if rows[5].total != 10 {
		t.Errorf("hr 5 total = %d, want 10", rows[5].total)
	}

	// a second pass over unchanged inputs rewrites the same table
	if _, err := newScoringService(2).Run(ctx); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if n := countScoreRows(t, ctx); n != 6 {
		t.Errorf("after rerun table holds %d rows, want 6", n)
	}
}

func TestScoringPass_ReplacesPriorRows(t *testing.T) {
	ctx := context.Background()
	resetTables(t, ctx)

	insertStay(t, ctx, 311, 111, 211, t0, ptrTime(t0.Add(3*time.Hour)))
	if _, err := newScoringService(1).Run(ctx); err != nil {
		t.Fatalf("first Run: %v", err)
	}
	if n := countScoreRows(t, ctx); n != 3 {
		t.Fatalf("after first run table holds %d rows, want 3", n)
	}

	// the stay drops out of the registry; the next pass must not keep its rows
	if _, err := globalDB.Pool.Exec(ctx, `DELETE FROM icustays WHERE stay_id = 311`); err != nil {
		t.Fatalf("delete stay: %v", err)
	}
	insertStay(t, ctx, 312, 112, 212, t0, ptrTime(t0.Add(2*time.Hour)))

	if _, err := newScoringService(1).Run(ctx); err != nil {
		t.Fatalf("second Run: %v", err)
	}
	rows := fetchScores(t, ctx, 312)
	if len(rows) != 2 {
		t.Errorf("stay 312 has %d rows, want 2", len(rows))
	}
	if n := countScoreRows(t, ctx); n != 2 {
		t.Errorf("table holds %d rows, want 2", n)
	}
}

func TestStayRegistry_ReconstructsMissingOutTime(t *testing.T) {
	ctx := context.Background()
	resetTables(t, ctx)

	// registry row missing its out time; last charted heart rate stands in
	insertStay(t, ctx, 321, 121, 221, t0, nil)
	insertChart(t, ctx, 321, 220045, t0.Add(20*time.Minute), 88)
	insertChart(t, ctx, 321, 220045, t0.Add(220*time.Minute), 92)

	repo := stay.NewRepoPG(globalDB.Pool)
	st, err := repo.GetByID(ctx, 321)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !st.OutTime.Equal(t0.Add(220 * time.Minute)) {
		t.Errorf("OutTime = %v, want %v", st.OutTime, t0.Add(220*time.Minute))
	}

	stats, err := newScoringService(1).Run(ctx)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// 3h40m of stay floors to 3 scored hours
	if stats.Rows != 3 {
		t.Errorf("stats.Rows = %d, want 3", stats.Rows)
	}
}

func TestStayRegistry_DropsUnboundedStays(t *testing.T) {
	ctx := context.Background()
	resetTables(t, ctx)

	// no bounds and no charted heart rate to reconstruct them from
	if _, err := globalDB.Pool.Exec(ctx,
		`INSERT INTO icustays (stay_id, subject_id, hadm_id, intime, outtime)
		 VALUES (322, 122, 222, NULL, NULL)`); err != nil {
		t.Fatalf("insert stay: %v", err)
	}

	stays, err := stay.NewRepoPG(globalDB.Pool).ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(stays) != 0 {
		t.Errorf("ListAll returned %d stays, want 0", len(stays))
	}
}

func TestScoringPass_AbsoluteRateDividedByChartedWeight(t *testing.T) {
	ctx := context.Background()
	resetTables(t, ctx)

	insertStay(t, ctx, 331, 131, 231, t0, ptrTime(t0.Add(4*time.Hour)))
	// admission weight, kg
	insertChart(t, ctx, 331, 226512, t0.Add(10*time.Minute), 80)
	// 480 mcg/min over 80 kg is 6 mcg/kg/min, mid-range dopamine
	insertLegacyInfusion(t, ctx, 331, 30043, 5,
		t0.Add(65*time.Minute), t0.Add(150*time.Minute), 480, medication.UnitMcgMin)

	if _, err := newScoringService(1).Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}

	rows := fetchScores(t, ctx, 331)
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}
	if rows[0].cardio != nil {
		t.Errorf("hr 0 cardiovascular = %v, want nil", fmtPtr(rows[0].cardio))
	}
	if rows[1].cardio == nil || *rows[1].cardio != 3 {
		t.Errorf("hr 1 cardiovascular = %v, want 3", fmtPtr(rows[1].cardio))
	}
	if rows[3].cardio24 != 3 {
		t.Errorf("hr 3 cardiovascular_24h = %d, want 3", rows[3].cardio24)
	}
}

func TestMigrations_SecondUpIsNoop(t *testing.T) {
	ctx := context.Background()

	// TestMain already applied everything
	n, err := db.NewMigrator(globalDB.Pool, globalDB.MigrationsDir).Up(ctx)
	if err != nil {
		t.Fatalf("Up: %v", err)
	}
	if n != 0 {
		t.Errorf("second Up applied %d migrations, want 0", n)
	}

	statuses, err := db.NewMigrator(globalDB.Pool, globalDB.MigrationsDir).Status(ctx)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(statuses) == 0 {
		t.Fatal("Status returned no migrations")
	}
	for _, s := range statuses {
		if !s.Applied {
			t.Errorf("migration %d (%s) not applied", s.Version, s.Name)
		}
	}
}

func TestCheck_LivePool(t *testing.T) {
	if err := db.Check(context.Background(), globalDB.Pool); err != nil {
		t.Errorf("Check: %v", err)
	}
}

func fmtPtr(v *int) string {
	if v == nil {
		return "nil"
	}
	return strconv.Itoa(*v)
}
