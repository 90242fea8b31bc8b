package lottery

import (
	"fmt"
	"strings"
	"time"
)

const (
	WhiteBallCount = 5
	WhiteBallMin   = 1
	WhiteBallMax   = 70
	MegaBallMin    = 1
	MegaBallMax    = 25

	DateLayout = "2006-01-02"
)

// DrawResult is one published drawing. Multiplier is 0 when the feed did not
// record a megaplier for that drawing.
type DrawResult struct {
	Date       time.Time
	Numbers    [WhiteBallCount]int
	MegaBall   int
	Multiplier int
}

func (d DrawResult) DateString() string {
	return d.Date.Format(DateLayout)
}

// HasMultiplier reports whether the drawing recorded a megaplier value.
func (d DrawResult) HasMultiplier() bool {
	return d.Multiplier > 0
}

// FormatNumbers renders white balls as zero-padded values joined by sep.
func FormatNumbers(numbers [WhiteBallCount]int, sep string) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = fmt.Sprintf("%02d", n)
	}
	return strings.Join(parts, sep)
}

// DayOf truncates t to midnight UTC of its calendar day.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
