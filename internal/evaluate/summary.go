package evaluate

import "yellowball/internal/lottery"

// Entry pairs a drawing with how the ticket fared in it.
type Entry struct {
	Draw   lottery.DrawResult
	Result MatchOutcome
}

// Summary is the evaluation of one ticket over its coverage window.
type Summary struct {
	Ticket  lottery.Ticket
	Entries []Entry // oldest first
	// Total is the sum of numeric prize values; jackpots are not included.
	Total     int
	Jackpots  int
	Winners   int
	Remaining int
}

// Evaluate scores t against every drawing it covers in history.
func Evaluate(t lottery.Ticket, history []lottery.DrawResult) Summary {
	s := Summary{Ticket: t}
	for d := range Window(history, t.Purchased, t.Draws) {
		m := Match(t, d)
		s.Entries = append(s.Entries, Entry{Draw: d, Result: m})
		if m.IsWinner() {
			s.Winners++
		}
		if m.IsJackpot() {
			s.Jackpots++
			continue
		}
		s.Total += m.Value
	}
	s.Remaining = t.Draws - len(s.Entries)
	return s
}

func (s Summary) HitJackpot() bool {
	return s.Jackpots > 0
}

// Last returns only the most recent evaluated drawing.
func (s Summary) Last() []Entry {
	if len(s.Entries) == 0 {
		return nil
	}
	return s.Entries[len(s.Entries)-1:]
}

// WinnersOnly returns the entries with a winning outcome.
func (s Summary) WinnersOnly() []Entry {
	var out []Entry
	for _, e := range s.Entries {
		if e.Result.IsWinner() {
			out = append(out, e)
		}
	}
	return out
}
