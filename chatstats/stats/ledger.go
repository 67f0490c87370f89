package stats

import (
	"context"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"
	"github.com/kagurabytes/chatstats/chatstats/database/models"
	"github.com/kagurabytes/chatstats/chatstats/database/repositories"
	"golang.org/x/sync/errgroup"
)

// Ledger owns the two counter stores and coordinates every dual-store
// operation: best-effort double writes on inbound messages, merged views on
// reads, and the daily reset.
type Ledger struct {
	allTime repositories.CounterRepository
	daily   repositories.CounterRepository
}

func NewLedger(allTime, daily repositories.CounterRepository) *Ledger {
	return &Ledger{allTime: allTime, daily: daily}
}

// TopUsers holds independently ranked listings from both stores.
type TopUsers struct {
	AllTime []models.UserRank
	Daily   []models.UserRank
}

// RecordMessage writes the observed message into both stores sequentially.
// There is no transaction across the stores: if one write fails the other
// still happens and the two may drift. That relaxation is deliberate.
func (l *Ledger) RecordMessage(ctx context.Context, userID snowflake.ID, username string) {
	l.allTime.RecordMessage(ctx, userID, username)
	l.daily.RecordMessage(ctx, userID, username)
}

// GetCombinedStats merges the user's all-time row with its daily row. A user
// absent from the all-time store yields a zero view named "Unknown", even if
// a daily row exists.
func (l *Ledger) GetCombinedStats(ctx context.Context, userID snowflake.ID, includeDaily bool) models.AggregatedUserView {
	main := l.allTime.GetUser(ctx, userID)
	if main == nil {
		return models.AggregatedUserView{
			UserID:      int64(userID),
			Username:    "Unknown",
			LastMessage: "Never",
		}
	}

	view := models.AggregatedUserView{
		UserID:        main.UserID,
		Username:      main.Username,
		TotalMessages: main.MessageCount,
		LastMessage:   main.LastMessage(),
		IsBanned:      main.IsBanned,
	}
	if includeDaily {
		if daily := l.daily.GetUser(ctx, userID); daily != nil {
			view.DailyMessages = daily.MessageCount
		}
	}
	return view
}

// GetTopUsers ranks each store independently. The stores are read
// concurrently; each already degrades to an empty list on error.
func (l *Ledger) GetTopUsers(ctx context.Context, limit int) TopUsers {
	var top TopUsers
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		top.AllTime = l.allTime.TopUsers(gctx, limit)
		return nil
	})
	g.Go(func() error {
		top.Daily = l.daily.TopUsers(gctx, limit)
		return nil
	})
	_ = g.Wait()
	return top
}

// GetAllUsersFullStats resolves a combined view for every user id seen in
// either store. Order is unspecified; callers sort.
func (l *Ledger) GetAllUsersFullStats(ctx context.Context) []models.AggregatedUserView {
	seen := make(map[int64]struct{})
	var ids []snowflake.ID
	for _, refs := range [][]models.UserRef{l.allTime.AllUsers(ctx), l.daily.AllUsers(ctx)} {
		for _, ref := range refs {
			if _, ok := seen[ref.UserID]; ok {
				continue
			}
			seen[ref.UserID] = struct{}{}
			ids = append(ids, snowflake.ID(ref.UserID))
		}
	}

	views := make([]models.AggregatedUserView, 0, len(ids))
	for _, id := range ids {
		views = append(views, l.GetCombinedStats(ctx, id, true))
	}
	return views
}

// Timeline reports the per-date aggregate from the all-time store.
func (l *Ledger) Timeline(ctx context.Context, windowDays int) []models.TimelineEntry {
	return l.allTime.Timeline(ctx, windowDays)
}

// TopUsersOf reads a single store's ranking, for chart rendering.
func (l *Ledger) TopUsersOf(ctx context.Context, daily bool, limit int) []models.UserRank {
	if daily {
		return l.daily.TopUsers(ctx, limit)
	}
	return l.allTime.TopUsers(ctx, limit)
}

// SetBanned freezes or unfreezes the user in both stores.
func (l *Ledger) SetBanned(ctx context.Context, userID snowflake.ID, banned bool) {
	l.allTime.SetBanned(ctx, userID, banned)
	l.daily.SetBanned(ctx, userID, banned)
}

// KnownUsers lists non-banned users from the all-time store, most active
// first.
func (l *Ledger) KnownUsers(ctx context.Context) []models.UserRef {
	return l.allTime.AllUsers(ctx)
}

// ResetDaily zeroes the daily store. The all-time store is untouched.
func (l *Ledger) ResetDaily(ctx context.Context) bool {
	ok := l.daily.ResetAll(ctx)
	if ok {
		slog.Info("Daily statistics reset", slog.String("type", "sys"))
	} else {
		slog.Error("Daily statistics reset failed", slog.String("type", "sys"))
	}
	return ok
}

// ExportAll dumps both stores as CSV, read concurrently. Either blob may be
// nil when its store is empty.
func (l *Ledger) ExportAll(ctx context.Context) (allTime, daily []byte) {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		allTime = l.allTime.ExportAll(gctx)
		return nil
	})
	g.Go(func() error {
		daily = l.daily.ExportAll(gctx)
		return nil
	})
	_ = g.Wait()
	return allTime, daily
}
