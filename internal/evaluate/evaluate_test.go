package evaluate

import (
	"testing"
	"time"

	"yellowball/internal/lottery"
)

func day(s string) time.Time {
	t, err := time.Parse(lottery.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func ticket(numbers [5]int, mb int, megaplier bool, purchased string, draws int) lottery.Ticket {
	return lottery.Ticket{
		Numbers:   numbers,
		MegaBall:  mb,
		Megaplier: megaplier,
		Purchased: day(purchased),
		Draws:     draws,
	}
}

func draw(date string, numbers [5]int, mb, mult int) lottery.DrawResult {
	return lottery.DrawResult{Date: day(date), Numbers: numbers, MegaBall: mb, Multiplier: mult}
}

func TestPayoutTableRows(t *testing.T) {
	tests := []struct {
		white int
		mb    bool
		kind  Kind
		base  int
	}{
		{5, true, Jackpot, 0},
		{5, false, FixedValue, 1000000},
		{4, true, FixedValue, 10000},
		{4, false, FixedValue, 500},
		{3, true, FixedValue, 200},
		{3, false, FixedValue, 10},
		{2, true, FixedValue, 10},
		{2, false, NotAWinner, 0},
		{1, true, FixedValue, 4},
		{1, false, NotAWinner, 0},
		{0, true, FixedValue, 2},
		{0, false, NotAWinner, 0},
	}
	for _, tt := range tests {
		got := Lookup(tt.white, tt.mb)
		if got.Kind != tt.kind || got.Base != tt.base {
			t.Errorf("Lookup(%d, %v) = %+v, want kind=%s base=%d", tt.white, tt.mb, got, tt.kind, tt.base)
		}
		if got.Kind == FixedValue && !got.MultiplierEligible {
			t.Errorf("Lookup(%d, %v) fixed value must be multiplier eligible", tt.white, tt.mb)
		}
	}
}

func TestPayoutTableIsTotal(t *testing.T) {
	labels := make(map[string]bool)
	for white := -1; white <= 6; white++ {
		for _, mb := range []bool{false, true} {
			o := Lookup(white, mb)
			if o.Label == "" {
				t.Fatalf("Lookup(%d, %v) returned an unlabelled outcome", white, mb)
			}
			if o.Kind != NotAWinner {
				if labels[o.Label] {
					t.Fatalf("label %q used by more than one winning row", o.Label)
				}
				labels[o.Label] = true
			}
		}
	}
	if len(labels) != 9 {
		t.Fatalf("expected 9 winning rows, got %d", len(labels))
	}
}

func TestMatchJackpotIgnoresMultiplier(t *testing.T) {
	tk := ticket([5]int{6, 13, 19, 34, 41}, 23, true, "2024-01-01", 1)
	m := Match(tk, draw("2024-01-02", [5]int{6, 13, 19, 34, 41}, 23, 4))
	if !m.IsJackpot() {
		t.Fatalf("expected jackpot, got %+v", m)
	}
	if m.Value != 0 || m.Multiplier != 1 {
		t.Fatalf("jackpot must not carry a numeric value: %+v", m)
	}
}

func TestMatchNotAWinner(t *testing.T) {
	tk := ticket([5]int{8, 21, 32, 38, 46}, 15, false, "2024-01-01", 1)
	m := Match(tk, draw("2024-01-02", [5]int{30, 32, 48, 53, 63}, 12, 2))
	if m.WhiteMatches != 1 || m.MegaBall {
		t.Fatalf("unexpected match counts: %+v", m)
	}
	if m.IsWinner() || m.Value != 0 {
		t.Fatalf("expected not a winner, got %+v", m)
	}
}

func TestMatchAppliesDrawMultiplier(t *testing.T) {
	tk := ticket([5]int{1, 2, 3, 4, 5}, 10, true, "2024-01-01", 1)
	m := Match(tk, draw("2024-01-02", [5]int{1, 2, 3, 6, 7}, 10, 3))
	if m.WhiteMatches != 3 || !m.MegaBall {
		t.Fatalf("unexpected match counts: %+v", m)
	}
	if m.Value != 600 || m.Multiplier != 3 {
		t.Fatalf("expected 200 x 3 = 600, got %+v", m)
	}
}

func TestMatchMultiplierRules(t *testing.T) {
	d := draw("2024-01-02", [5]int{1, 2, 3, 6, 7}, 10, 3)
	noMult := draw("2024-01-02", [5]int{1, 2, 3, 6, 7}, 10, 0)

	withoutOption := ticket([5]int{1, 2, 3, 4, 5}, 10, false, "2024-01-01", 1)
	if m := Match(withoutOption, d); m.Value != 200 {
		t.Fatalf("multiplier applied without megaplier option: %+v", m)
	}

	withOption := ticket([5]int{1, 2, 3, 4, 5}, 10, true, "2024-01-01", 1)
	if m := Match(withOption, noMult); m.Value != 200 || m.Multiplier != 1 {
		t.Fatalf("undefined drawing multiplier must leave base value: %+v", m)
	}
}

func TestCountMatchesIsSymmetric(t *testing.T) {
	a := [5]int{1, 9, 17, 33, 70}
	b := [5]int{70, 2, 9, 40, 1}
	if CountMatches(a, b) != 3 || CountMatches(b, a) != 3 {
		t.Fatalf("expected 3 matches both ways, got %d and %d", CountMatches(a, b), CountMatches(b, a))
	}
}

func history() []lottery.DrawResult {
	// Descending, as served by the feed.
	return []lottery.DrawResult{
		draw("2024-01-12", [5]int{1, 2, 3, 4, 5}, 1, 2),
		draw("2024-01-09", [5]int{6, 13, 19, 34, 41}, 23, 3),
		draw("2024-01-05", [5]int{6, 13, 19, 60, 61}, 23, 4),
		draw("2024-01-02", [5]int{6, 13, 50, 60, 61}, 1, 5),
		draw("2023-12-29", [5]int{6, 13, 19, 34, 41}, 23, 2),
	}
}

func collect(seq func(func(lottery.DrawResult) bool)) []string {
	var out []string
	for d := range seq {
		out = append(out, d.DateString())
	}
	return out
}

func TestWindowSelectsOldestEligibleFirst(t *testing.T) {
	got := collect(Window(history(), day("2024-01-03"), 2))
	if len(got) != 2 || got[0] != "2024-01-05" || got[1] != "2024-01-09" {
		t.Fatalf("unexpected window: %v", got)
	}
}

func TestWindowPurchaseDateIsInclusive(t *testing.T) {
	got := collect(Window(history(), day("2024-01-02"), 1))
	if len(got) != 1 || got[0] != "2024-01-02" {
		t.Fatalf("expected purchase-day drawing, got %v", got)
	}
}

func TestWindowBoundaries(t *testing.T) {
	if got := collect(Window(nil, day("2024-01-01"), 3)); len(got) != 0 {
		t.Fatalf("empty history should yield nothing, got %v", got)
	}
	if got := collect(Window(history(), day("2024-02-01"), 3)); len(got) != 0 {
		t.Fatalf("history before purchase should yield nothing, got %v", got)
	}
	if got := collect(Window(history(), day("2024-01-01"), 10)); len(got) != 4 {
		t.Fatalf("short history should yield all eligible drawings, got %v", got)
	}
	if got := collect(Window(history(), day("2024-01-01"), 0)); len(got) != 0 {
		t.Fatalf("n=0 should yield nothing, got %v", got)
	}
}

func TestWindowIsRestartableAndDeduplicates(t *testing.T) {
	h := append(history(), draw("2024-01-05", [5]int{9, 9, 9, 9, 9}, 9, 9))
	seq := Window(h, day("2024-01-01"), 4)
	first := collect(seq)
	second := collect(seq)
	if len(first) != 4 || len(second) != 4 {
		t.Fatalf("expected 4 drawings twice, got %v and %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("sequence not restartable: %v vs %v", first, second)
		}
	}
	for d := range seq {
		if d.DateString() == "2024-01-05" && d.Numbers[0] == 9 {
			t.Fatalf("duplicate date should keep the first row seen")
		}
	}

	stopped := 0
	for range seq {
		stopped++
		break
	}
	if stopped != 1 {
		t.Fatalf("early break not honoured")
	}
}

func TestEvaluateSummary(t *testing.T) {
	tk := ticket([5]int{6, 13, 19, 34, 41}, 23, true, "2024-01-01", 5)
	s := Evaluate(tk, history())

	if len(s.Entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(s.Entries))
	}
	if s.Remaining != 1 {
		t.Fatalf("expected 1 remaining, got %d", s.Remaining)
	}
	for _, e := range s.Entries {
		if e.Draw.Date.Before(tk.Purchased) {
			t.Fatalf("entry %s predates purchase", e.Draw.DateString())
		}
	}
	// 01-02 two white only, 01-05 3+mb x4, 01-09 jackpot, 01-12 nothing.
	if s.Total != 800 {
		t.Fatalf("expected total 800, got %d", s.Total)
	}
	if s.Jackpots != 1 || !s.HitJackpot() {
		t.Fatalf("expected one jackpot, got %d", s.Jackpots)
	}
	if s.Winners != 2 {
		t.Fatalf("expected 2 winners, got %d", s.Winners)
	}

	sum := 0
	for _, e := range s.Entries {
		if !e.Result.IsJackpot() {
			sum += e.Result.Value
		}
	}
	if sum != s.Total {
		t.Fatalf("total %d does not equal sum of entries %d", s.Total, sum)
	}
}

func TestEvaluateEmptyHistory(t *testing.T) {
	tk := ticket([5]int{1, 2, 3, 4, 5}, 6, false, "2024-01-01", 3)
	s := Evaluate(tk, nil)
	if len(s.Entries) != 0 || s.Total != 0 || s.Remaining != 3 || s.Winners != 0 {
		t.Fatalf("unexpected empty summary: %+v", s)
	}
	if s.Last() != nil {
		t.Fatalf("Last on empty summary should be nil")
	}
}

func TestEvaluateCapsAtDrawsPurchased(t *testing.T) {
	tk := ticket([5]int{1, 2, 3, 4, 5}, 6, false, "2023-01-01", 2)
	s := Evaluate(tk, history())
	if len(s.Entries) != 2 || s.Remaining != 0 {
		t.Fatalf("expected exactly 2 entries and 0 remaining, got %d/%d", len(s.Entries), s.Remaining)
	}
	if s.Entries[0].Draw.DateString() != "2023-12-29" {
		t.Fatalf("expected oldest eligible drawing first, got %s", s.Entries[0].Draw.DateString())
	}
}

func TestPresentationFiltersKeepTotals(t *testing.T) {
	tk := ticket([5]int{6, 13, 19, 34, 41}, 23, true, "2024-01-01", 4)
	s := Evaluate(tk, history())
	total, winners := s.Total, s.Winners

	last := s.Last()
	if len(last) != 1 || last[0].Draw.DateString() != "2024-01-12" {
		t.Fatalf("unexpected last entry: %+v", last)
	}
	w := s.WinnersOnly()
	if len(w) != 2 {
		t.Fatalf("expected 2 winning entries, got %d", len(w))
	}
	if s.Total != total || s.Winners != winners {
		t.Fatalf("filters changed the summary")
	}
}
