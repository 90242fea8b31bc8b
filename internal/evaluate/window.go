package evaluate

import (
	"iter"
	"sort"
	"time"

	"yellowball/internal/lottery"
)

// Window yields, oldest first, at most n drawings dated on or after
// purchased. Drawings sharing a date are collapsed to the first one seen.
// The history slice is not modified and the sequence can be ranged over
// more than once.
func Window(history []lottery.DrawResult, purchased time.Time, n int) iter.Seq[lottery.DrawResult] {
	start := lottery.DayOf(purchased)
	return func(yield func(lottery.DrawResult) bool) {
		if n <= 0 {
			return
		}
		seen := make(map[time.Time]bool, len(history))
		eligible := make([]lottery.DrawResult, 0, len(history))
		for _, d := range history {
			day := lottery.DayOf(d.Date)
			if day.Before(start) || seen[day] {
				continue
			}
			seen[day] = true
			eligible = append(eligible, d)
		}
		sort.SliceStable(eligible, func(i, j int) bool {
			return eligible[i].Date.Before(eligible[j].Date)
		})
		for i, d := range eligible {
			if i >= n || !yield(d) {
				return
			}
		}
	}
}
