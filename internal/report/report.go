// Package report renders an evaluation summary for the terminal or mail.
package report

import (
	"fmt"
	"strings"

	"yellowball/internal/evaluate"
	"yellowball/internal/lottery"
)

// Values above this are highlighted red rather than yellow.
const highlightThreshold = 999

// Options shapes the rendered report. It never affects computed values.
type Options struct {
	Color       bool
	LastOnly    bool
	WinnersOnly bool
}

// Entries applies the presentation filters to s.
func (o Options) Entries(s evaluate.Summary) []evaluate.Entry {
	if o.LastOnly {
		s.Entries = s.Last()
	}
	if o.WinnersOnly {
		return s.WinnersOnly()
	}
	return s.Entries
}

func Render(s evaluate.Summary, opts Options) string {
	p := newPalette(opts.Color)
	var b strings.Builder

	b.WriteString(ticketBlock(s))
	b.WriteString("Results:\n")
	for _, e := range opts.Entries(s) {
		fmt.Fprintf(&b, "%s - %s\n", drawingLine(e.Draw, p), resultPhrase(s.Ticket, e, p))
	}
	if len(s.Entries) == 0 {
		b.WriteString("No results yet.\n")
	}
	b.WriteString("\n" + totalLine(s, p) + "\n")
	return b.String()
}

func ticketBlock(s evaluate.Summary) string {
	t := s.Ticket
	megaplier := "No"
	if t.Megaplier {
		megaplier = "Yes"
	}
	return fmt.Sprintf("\nTicket info\n===========\n"+
		"Purchased: %s\n"+
		"Draws: %d\n"+
		"Remaining: %d\n"+
		"Numbers: %s [%02d]\n"+
		"Megaplier: %s\n\n",
		t.PurchasedString(), t.Draws, s.Remaining,
		lottery.FormatNumbers(t.Numbers, ", "), t.MegaBall, megaplier)
}

func drawingLine(d lottery.DrawResult, p palette) string {
	return fmt.Sprintf("%s (%s [%s%02d%s])",
		d.DateString(), lottery.FormatNumbers(d.Numbers, ","), p.yellow, d.MegaBall, p.reset)
}

func resultPhrase(t lottery.Ticket, e evaluate.Entry, p palette) string {
	m := e.Result
	switch {
	case m.IsJackpot():
		return fmt.Sprintf("%s%sYou won! [matched 5 numbers + megaball = JACKPOT!]%s", p.bold, p.red, p.reset)
	case !m.IsWinner():
		return "The ticket was not a winner."
	}

	var detail strings.Builder
	fmt.Fprintf(&detail, "matched %d %s", m.WhiteMatches, plural(m.WhiteMatches, "number", "numbers"))
	if m.MegaBall {
		detail.WriteString(" + megaball")
	}
	if t.Megaplier && e.Draw.HasMultiplier() {
		fmt.Fprintf(&detail, " (x%d megaplier)", e.Draw.Multiplier)
	}
	color := p.yellow
	if m.Value > highlightThreshold {
		color = p.red
	}
	return fmt.Sprintf("%s%sYou won! [%s = $%d]%s", p.bold, color, detail.String(), m.Value, p.reset)
}

func totalLine(s evaluate.Summary, p palette) string {
	var value, style string
	switch {
	case s.HitJackpot() && s.Total > 0:
		value, style = fmt.Sprintf("JACKPOT! (+$%d)", s.Total), p.bold+p.red
	case s.HitJackpot():
		value, style = "JACKPOT!", p.bold+p.red
	case s.Total > highlightThreshold:
		value, style = fmt.Sprintf("$%d", s.Total), p.bold+p.red
	case s.Total > 0:
		value, style = fmt.Sprintf("$%d", s.Total), p.bold+p.yellow
	default:
		return "Total ticket value: $0"
	}
	return fmt.Sprintf("%sTotal ticket value: %s%s", style, value, p.reset)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
