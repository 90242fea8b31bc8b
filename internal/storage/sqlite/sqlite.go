// Package sqlite archives fetched drawings and check runs.
package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"yellowball/internal/evaluate"
	"yellowball/internal/lottery"
)

// CheckRecord is one archived ticket check.
type CheckRecord struct {
	ID        string
	TicketKey string
	Purchased string
	Draws     int
	Evaluated int
	Total     int
	Jackpots  int
	Winners   int
	CheckedAt time.Time
}

func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS draws (
		draw_date  TEXT PRIMARY KEY,
		numbers    TEXT NOT NULL,
		mega_ball  INTEGER NOT NULL,
		multiplier INTEGER NOT NULL DEFAULT 0,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS checks (
		id         TEXT PRIMARY KEY,
		ticket     TEXT NOT NULL,
		purchased  TEXT NOT NULL,
		draws      INTEGER NOT NULL,
		evaluated  INTEGER NOT NULL,
		total      INTEGER NOT NULL,
		jackpots   INTEGER NOT NULL DEFAULT 0,
		winners    INTEGER NOT NULL DEFAULT 0,
		checked_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_checks_ticket ON checks(ticket);
	CREATE INDEX IF NOT EXISTS idx_checks_date ON checks(checked_at);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// UpsertDraws stores draws, replacing any row with the same date.
func UpsertDraws(db *sql.DB, draws []lottery.DrawResult) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	stmt, err := tx.Prepare(`INSERT INTO draws (draw_date, numbers, mega_ball, multiplier, fetched_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(draw_date) DO UPDATE SET
			numbers = excluded.numbers,
			mega_ball = excluded.mega_ball,
			multiplier = excluded.multiplier,
			fetched_at = excluded.fetched_at`)
	if err != nil {
		tx.Rollback()
		return 0, err
	}
	defer stmt.Close()

	for _, d := range draws {
		if _, err := stmt.Exec(d.DateString(), lottery.FormatNumbers(d.Numbers, " "), d.MegaBall, d.Multiplier); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("upsert draw %s: %w", d.DateString(), err)
		}
	}
	return len(draws), tx.Commit()
}

// ListDraws returns archived draws on or after from, newest first.
func ListDraws(db *sql.DB, from time.Time) ([]lottery.DrawResult, error) {
	rows, err := db.Query(
		`SELECT draw_date, numbers, mega_ball, multiplier FROM draws
		 WHERE draw_date >= ? ORDER BY draw_date DESC`,
		from.Format(lottery.DateLayout),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var draws []lottery.DrawResult
	for rows.Next() {
		var date, numbers string
		var d lottery.DrawResult
		if err := rows.Scan(&date, &numbers, &d.MegaBall, &d.Multiplier); err != nil {
			return nil, err
		}
		if d.Date, err = time.Parse(lottery.DateLayout, date); err != nil {
			return nil, fmt.Errorf("draw %s: %w", date, err)
		}
		fields := strings.Fields(numbers)
		if len(fields) != lottery.WhiteBallCount {
			return nil, fmt.Errorf("draw %s: bad numbers %q", date, numbers)
		}
		for i, f := range fields {
			if d.Numbers[i], err = strconv.Atoi(f); err != nil {
				return nil, fmt.Errorf("draw %s: %w", date, err)
			}
		}
		draws = append(draws, d)
	}
	return draws, rows.Err()
}

// InsertCheck archives the outcome of a check and returns its id.
func InsertCheck(db *sql.DB, s evaluate.Summary, checkedAt time.Time) (string, error) {
	id := uuid.NewString()
	_, err := db.Exec(
		`INSERT INTO checks (id, ticket, purchased, draws, evaluated, total, jackpots, winners, checked_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, s.Ticket.Key(), s.Ticket.PurchasedString(), s.Ticket.Draws,
		len(s.Entries), s.Total, s.Jackpots, s.Winners, checkedAt.UTC(),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}

// ListChecks returns the most recent checks, newest first.
func ListChecks(db *sql.DB, limit int) ([]CheckRecord, error) {
	rows, err := db.Query(
		`SELECT id, ticket, purchased, draws, evaluated, total, jackpots, winners, checked_at
		 FROM checks ORDER BY checked_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CheckRecord
	for rows.Next() {
		var r CheckRecord
		if err := rows.Scan(&r.ID, &r.TicketKey, &r.Purchased, &r.Draws, &r.Evaluated,
			&r.Total, &r.Jackpots, &r.Winners, &r.CheckedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
