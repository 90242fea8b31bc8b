package lottery

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Ticket is a validated Mega Millions ticket. Build one with NewTicket.
type Ticket struct {
	Numbers   [WhiteBallCount]int // ascending
	MegaBall  int
	Megaplier bool
	Purchased time.Time // midnight UTC of the purchase day
	Draws     int
}

// TicketInput holds raw field values as typed on the command line or read
// from a ticket file.
type TicketInput struct {
	Numbers   string
	MegaBall  string
	Megaplier bool
	Draws     string
	Purchased string
}

// NewTicket validates in and returns the ticket it describes. All invalid
// fields are reported together in a *ValidationError.
func NewTicket(in TicketInput) (Ticket, error) {
	var fe fieldErrors
	var t Ticket

	numbers, ok := parseWhiteBalls(in.Numbers, &fe)
	if ok {
		t.Numbers = numbers
	}

	mb := strings.TrimSpace(in.MegaBall)
	if mb == "" {
		fe.add("megaball", "missing")
	} else if n, err := strconv.Atoi(mb); err != nil {
		fe.add("megaball", "%q is not a number", mb)
	} else if n < MegaBallMin || n > MegaBallMax {
		fe.add("megaball", "%d out of range %d-%d", n, MegaBallMin, MegaBallMax)
	} else {
		t.MegaBall = n
	}

	t.Draws = 1
	if d := strings.TrimSpace(in.Draws); d != "" {
		n, err := strconv.Atoi(d)
		switch {
		case err != nil:
			fe.add("draws", "%q is not a number", d)
		case n < 1:
			fe.add("draws", "must be at least 1, got %d", n)
		default:
			t.Draws = n
		}
	}

	p := strings.TrimSpace(in.Purchased)
	if p == "" {
		fe.add("purchased", "missing")
	} else if day, err := time.Parse(DateLayout, p); err != nil {
		fe.add("purchased", "%q is not a YYYY-MM-DD date", p)
	} else {
		t.Purchased = day
	}

	t.Megaplier = in.Megaplier

	if err := fe.err(); err != nil {
		return Ticket{}, err
	}
	return t, nil
}

func parseWhiteBalls(raw string, fe *fieldErrors) ([WhiteBallCount]int, bool) {
	var out [WhiteBallCount]int
	raw = strings.TrimSpace(raw)
	if raw == "" {
		fe.add("numbers", "missing")
		return out, false
	}

	parts := strings.Split(raw, ",")
	if len(parts) != WhiteBallCount {
		fe.add("numbers", "need exactly %d numbers, got %d", WhiteBallCount, len(parts))
		return out, false
	}

	valid := true
	seen := make(map[int]bool, WhiteBallCount)
	nums := make([]int, 0, WhiteBallCount)
	for _, part := range parts {
		part = strings.TrimSpace(part)
		n, err := strconv.Atoi(part)
		if err != nil {
			fe.add("numbers", "%q is not a number", part)
			valid = false
			continue
		}
		if n < WhiteBallMin || n > WhiteBallMax {
			fe.add("numbers", "%d out of range %d-%d", n, WhiteBallMin, WhiteBallMax)
			valid = false
			continue
		}
		if seen[n] {
			fe.add("numbers", "%d appears more than once", n)
			valid = false
			continue
		}
		seen[n] = true
		nums = append(nums, n)
	}
	if !valid {
		return out, false
	}
	sort.Ints(nums)
	copy(out[:], nums)
	return out, true
}

func (t Ticket) PurchasedString() string {
	return t.Purchased.Format(DateLayout)
}

// Key is a compact, stable identifier for the ticket's numbers.
func (t Ticket) Key() string {
	return fmt.Sprintf("%s+%02d", FormatNumbers(t.Numbers, ","), t.MegaBall)
}

// Input converts the ticket back into raw field values.
func (t Ticket) Input() TicketInput {
	return TicketInput{
		Numbers:   FormatNumbers(t.Numbers, ","),
		MegaBall:  strconv.Itoa(t.MegaBall),
		Megaplier: t.Megaplier,
		Draws:     strconv.Itoa(t.Draws),
		Purchased: t.PurchasedString(),
	}
}
