package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kagurabytes/chatstats/chatstats/logger"
)

const defaultPollInterval = time.Minute

// ResetScheduler fires the ledger's daily reset once per calendar day at
// midnight in a fixed-offset timezone. It is a poll loop, not a cron: every
// interval it checks whether the precomputed instant has passed, so clock
// drift or a late wakeup only delays the firing, never duplicates it.
//
// All arithmetic goes through the configured location. The host process may
// run in any timezone.
type ResetScheduler struct {
	ledger   *Ledger
	loc      *time.Location
	interval time.Duration
	now      func() time.Time
	nextFire time.Time
}

func NewResetScheduler(ledger *Ledger, utcOffsetHours int) *ResetScheduler {
	name := fmt.Sprintf("UTC%+d", utcOffsetHours)
	return &ResetScheduler{
		ledger:   ledger,
		loc:      time.FixedZone(name, utcOffsetHours*3600),
		interval: defaultPollInterval,
		now:      time.Now,
	}
}

// Run blocks until ctx is canceled. Meant to be started through the
// background process manager.
func (s *ResetScheduler) Run(ctx context.Context) {
	s.nextFire = nextMidnight(s.now(), s.loc)
	logger.LogScheduler("Daily reset scheduled", slog.Time("next_fire", s.nextFire))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick fires the reset at most once, then schedules the next instant. A
// failed firing is logged and not retried until the next day; an admin can
// trigger a manual reset in the meantime.
func (s *ResetScheduler) tick() {
	now := s.now()
	if now.Before(s.nextFire) {
		return
	}

	// Detached context: a shutdown racing the firing lets the reset
	// complete instead of aborting it mid-write.
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if ok := s.ledger.ResetDaily(ctx); ok {
		logger.LogScheduler("Scheduled daily reset fired", slog.Time("fired_at", now))
	} else {
		slog.Error("Scheduled daily reset failed, next attempt tomorrow",
			slog.String("type", "sched"),
			slog.Time("fired_at", now))
	}

	s.nextFire = nextMidnight(now, s.loc)
	logger.LogScheduler("Daily reset scheduled", slog.Time("next_fire", s.nextFire))
}

// NextFire reports the currently scheduled instant.
func (s *ResetScheduler) NextFire() time.Time {
	return s.nextFire
}

func nextMidnight(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day()+1, 0, 0, 0, 0, loc)
}
