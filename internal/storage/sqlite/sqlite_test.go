package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"yellowball/internal/evaluate"
	"yellowball/internal/lottery"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "yellowball-test.db")
	db, err := InitDB(dbPath)
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func day(s string) time.Time {
	t, _ := time.Parse(lottery.DateLayout, s)
	return t
}

func TestInitDBIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "twice.db")
	for i := 0; i < 2; i++ {
		db, err := InitDB(dbPath)
		if err != nil {
			t.Fatalf("InitDB #%d failed: %v", i+1, err)
		}
		db.Close()
	}
}

func TestUpsertAndListDraws(t *testing.T) {
	db := newTestDB(t)
	draws := []lottery.DrawResult{
		{Date: day("2024-01-09"), Numbers: [5]int{6, 13, 19, 34, 41}, MegaBall: 23, Multiplier: 3},
		{Date: day("2024-01-05"), Numbers: [5]int{1, 2, 3, 4, 5}, MegaBall: 10},
		{Date: day("2023-12-29"), Numbers: [5]int{7, 8, 9, 10, 11}, MegaBall: 4, Multiplier: 2},
	}
	n, err := UpsertDraws(db, draws)
	if err != nil || n != 3 {
		t.Fatalf("UpsertDraws failed: n=%d err=%v", n, err)
	}

	corrected := []lottery.DrawResult{
		{Date: day("2024-01-05"), Numbers: [5]int{1, 2, 3, 4, 6}, MegaBall: 11, Multiplier: 5},
	}
	if _, err := UpsertDraws(db, corrected); err != nil {
		t.Fatalf("UpsertDraws update failed: %v", err)
	}

	got, err := ListDraws(db, day("2024-01-01"))
	if err != nil {
		t.Fatalf("ListDraws failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 draws since 2024-01-01, got %d", len(got))
	}
	if got[0].DateString() != "2024-01-09" || got[0] != draws[0] {
		t.Fatalf("unexpected newest draw: %+v", got[0])
	}
	if got[1].Numbers != [5]int{1, 2, 3, 4, 6} || got[1].MegaBall != 11 || got[1].Multiplier != 5 {
		t.Fatalf("upsert did not replace row: %+v", got[1])
	}
}

func TestInsertAndListChecks(t *testing.T) {
	db := newTestDB(t)
	tk := lottery.Ticket{Numbers: [5]int{6, 13, 19, 34, 41}, MegaBall: 23, Purchased: day("2024-01-01"), Draws: 3}
	s := evaluate.Evaluate(tk, []lottery.DrawResult{
		{Date: day("2024-01-02"), Numbers: [5]int{6, 13, 19, 60, 61}, MegaBall: 23, Multiplier: 2},
	})

	base := time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC)
	first, err := InsertCheck(db, s, base)
	if err != nil {
		t.Fatalf("InsertCheck failed: %v", err)
	}
	second, err := InsertCheck(db, s, base.Add(time.Hour))
	if err != nil {
		t.Fatalf("InsertCheck failed: %v", err)
	}
	if first == second || len(first) != 36 {
		t.Fatalf("expected distinct uuids, got %q and %q", first, second)
	}

	checks, err := ListChecks(db, 10)
	if err != nil {
		t.Fatalf("ListChecks failed: %v", err)
	}
	if len(checks) != 2 || checks[0].ID != second {
		t.Fatalf("expected newest check first, got %+v", checks)
	}
	c := checks[1]
	if c.TicketKey != "06,13,19,34,41+23" || c.Purchased != "2024-01-01" || c.Draws != 3 ||
		c.Evaluated != 1 || c.Total != 200 || c.Winners != 1 || c.Jackpots != 0 {
		t.Fatalf("unexpected check record: %+v", c)
	}
	if !c.CheckedAt.Equal(base) {
		t.Fatalf("unexpected checked_at: %v", c.CheckedAt)
	}
}
