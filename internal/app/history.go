package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"yellowball/internal/lottery"
	"yellowball/internal/storage/sqlite"
)

var errNoHistory = errors.New("--history and --offline need history_db_path in the config")

// archiveFeed serves drawings from the history database instead of the
// results feed.
type archiveFeed struct {
	db *sql.DB
}

func (a archiveFeed) Fetch(_ context.Context, from, to time.Time) ([]lottery.DrawResult, error) {
	draws, err := sqlite.ListDraws(a.db, from)
	if err != nil {
		return nil, fmt.Errorf("reading archived drawings: %w", err)
	}
	out := draws[:0]
	for _, d := range draws {
		if !d.Date.After(to) {
			out = append(out, d)
		}
	}
	return out, nil
}

// listHistory prints the most recent archived checks, newest first.
func (r *runner) listHistory(limit int) error {
	checks, err := sqlite.ListChecks(r.db, limit)
	if err != nil {
		return fmt.Errorf("reading archived checks: %w", err)
	}
	if len(checks) == 0 {
		fmt.Fprintln(r.stdout, "No archived checks.")
		return nil
	}

	var b strings.Builder
	b.WriteString("Recent checks:\n")
	for _, c := range checks {
		value := fmt.Sprintf("$%d", c.Total)
		switch {
		case c.Jackpots > 0 && c.Total > 0:
			value = fmt.Sprintf("JACKPOT! (+$%d)", c.Total)
		case c.Jackpots > 0:
			value = "JACKPOT!"
		}
		fmt.Fprintf(&b, "%s  %s  purchased %s  %d/%d drawings  %d winning  %s\n",
			c.CheckedAt.In(r.cfg.Location).Format("2006-01-02 15:04"),
			c.TicketKey, c.Purchased, c.Evaluated, c.Draws, c.Winners, value)
	}
	fmt.Fprint(r.stdout, b.String())
	return nil
}
