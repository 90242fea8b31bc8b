// Package evaluate scores a ticket against published drawings.
package evaluate

import "yellowball/internal/lottery"

// Kind tags which variant an Outcome is.
type Kind int

const (
	NotAWinner Kind = iota
	FixedValue
	Jackpot
)

func (k Kind) String() string {
	switch k {
	case FixedValue:
		return "fixed"
	case Jackpot:
		return "jackpot"
	default:
		return "none"
	}
}

// Outcome is one row of the payout table.
type Outcome struct {
	Kind               Kind
	Label              string
	Base               int
	MultiplierEligible bool
}

func (o Outcome) IsWinner() bool {
	return o.Kind != NotAWinner
}

func fixed(label string, base int) Outcome {
	return Outcome{Kind: FixedValue, Label: label, Base: base, MultiplierEligible: true}
}

var notAWinner = Outcome{Kind: NotAWinner, Label: "none"}

// payouts is indexed by [white matches][megaball matched]. Every cell is
// set, so any (matches, megaball) pair resolves to exactly one outcome.
var payouts = [lottery.WhiteBallCount + 1][2]Outcome{
	0: {notAWinner, fixed("0+mb", 2)},
	1: {notAWinner, fixed("1+mb", 4)},
	2: {notAWinner, fixed("2+mb", 10)},
	3: {fixed("3", 10), fixed("3+mb", 200)},
	4: {fixed("4", 500), fixed("4+mb", 10000)},
	5: {fixed("5", 1000000), {Kind: Jackpot, Label: "jackpot"}},
}

// Lookup returns the payout table row for a match result.
func Lookup(whiteMatches int, megaBall bool) Outcome {
	if whiteMatches < 0 || whiteMatches > lottery.WhiteBallCount {
		return notAWinner
	}
	col := 0
	if megaBall {
		col = 1
	}
	return payouts[whiteMatches][col]
}
