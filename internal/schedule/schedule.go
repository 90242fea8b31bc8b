// Package schedule repeats a check on a cron schedule.
package schedule

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// Parse accepts a standard 5-field cron expression
// (minute hour day-of-month month day-of-week). Examples:
// "30 23 * * 2,5" (after the Tuesday and Friday drawings), "0 9 * * *".
func Parse(spec string) (cron.Schedule, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("empty schedule")
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	return sched, nil
}

// Run calls job at every activation of sched until ctx is cancelled. Job
// errors are logged and do not stop the loop.
func Run(ctx context.Context, sched cron.Schedule, loc *time.Location, job func(context.Context) error) error {
	if loc == nil {
		loc = time.Local
	}
	for {
		now := time.Now().In(loc)
		next := sched.Next(now)
		wait := next.Sub(now)
		log.Infof("Next check at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		if err := job(ctx); err != nil {
			log.Errorf("Scheduled check error: %v", err)
		}
	}
}
