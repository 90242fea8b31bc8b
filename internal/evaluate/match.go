package evaluate

import "yellowball/internal/lottery"

// MatchOutcome is the result of scoring one drawing.
type MatchOutcome struct {
	WhiteMatches int
	MegaBall     bool
	Outcome      Outcome
	// Multiplier is the factor applied to Base, 1 when none applied.
	Multiplier int
	// Value is the dollar amount won. Always 0 for a jackpot.
	Value int
}

func (m MatchOutcome) IsJackpot() bool {
	return m.Outcome.Kind == Jackpot
}

func (m MatchOutcome) IsWinner() bool {
	return m.Outcome.IsWinner()
}

// CountMatches returns how many of a's numbers also appear in b.
func CountMatches(a, b [lottery.WhiteBallCount]int) int {
	set := make(map[int]bool, len(b))
	for _, n := range b {
		set[n] = true
	}
	matches := 0
	for _, n := range a {
		if set[n] {
			matches++
		}
	}
	return matches
}

// Match scores the ticket against a single drawing.
func Match(t lottery.Ticket, d lottery.DrawResult) MatchOutcome {
	m := MatchOutcome{
		WhiteMatches: CountMatches(t.Numbers, d.Numbers),
		MegaBall:     t.MegaBall == d.MegaBall,
		Multiplier:   1,
	}
	m.Outcome = Lookup(m.WhiteMatches, m.MegaBall)

	if m.Outcome.Kind != FixedValue {
		return m
	}
	if t.Megaplier && d.HasMultiplier() && m.Outcome.MultiplierEligible {
		m.Multiplier = d.Multiplier
	}
	m.Value = m.Outcome.Base * m.Multiplier
	return m
}
