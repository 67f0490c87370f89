package repositories

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/kagurabytes/chatstats/chatstats/database/models"
	"github.com/uptrace/bun"
)

// CounterRepository is one counter store. Two independent instances exist at
// runtime: the all-time store and the daily store, each bound to its own
// table.
//
// Storage failures never reach the caller: every operation logs the error
// and returns a safe zero result. Callers cannot distinguish "no data" from
// "storage error", which is acceptable for a stats feature.
type CounterRepository interface {
	RecordMessage(ctx context.Context, userID snowflake.ID, username string)
	GetUser(ctx context.Context, userID snowflake.ID) *models.UserCounter
	TopUsers(ctx context.Context, limit int) []models.UserRank
	Timeline(ctx context.Context, windowDays int) []models.TimelineEntry
	SetBanned(ctx context.Context, userID snowflake.ID, banned bool)
	ResetAll(ctx context.Context) bool
	ExportAll(ctx context.Context) []byte
	AllUsers(ctx context.Context) []models.UserRef
	BulkImport(ctx context.Context, counters []*models.UserCounter) error
}

type counterRepository struct {
	db    *bun.DB
	table string
	now   func() time.Time
}

func NewCounterRepository(db *bun.DB, table string) CounterRepository {
	return &counterRepository{db: db, table: table, now: time.Now}
}

// RecordMessage upserts the user's row in a single statement, so the
// ban check and the increment cannot race with a concurrent message from
// the same user. A banned user's username still follows the latest message;
// count and timestamp stay frozen.
func (r *counterRepository) RecordMessage(ctx context.Context, userID snowflake.ID, username string) {
	now := r.now()
	counter := &models.UserCounter{
		UserID:          int64(userID),
		Username:        username,
		MessageCount:    1,
		LastMessageTime: &now,
	}

	_, err := r.db.NewInsert().
		Model(counter).
		ModelTableExpr("? AS uc", bun.Ident(r.table)).
		On("CONFLICT (user_id) DO UPDATE").
		Set("username = EXCLUDED.username").
		Set("message_count = CASE WHEN uc.is_banned THEN uc.message_count ELSE uc.message_count + 1 END").
		Set("last_message_time = CASE WHEN uc.is_banned THEN uc.last_message_time ELSE EXCLUDED.last_message_time END").
		Exec(ctx)
	if err != nil {
		r.logError("RecordMessage", err, slog.Int64("user_id", int64(userID)))
	}
}

func (r *counterRepository) GetUser(ctx context.Context, userID snowflake.ID) *models.UserCounter {
	counter := new(models.UserCounter)
	err := r.db.NewSelect().
		Model(counter).
		ModelTableExpr("? AS uc", bun.Ident(r.table)).
		Where("user_id = ?", int64(userID)).
		Scan(ctx)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			r.logError("GetUser", err, slog.Int64("user_id", int64(userID)))
		}
		return nil
	}
	return counter
}

// TopUsers returns up to limit non-banned users ordered by count descending.
// Ties break on user_id ascending so the ordering is stable.
func (r *counterRepository) TopUsers(ctx context.Context, limit int) []models.UserRank {
	var ranks []models.UserRank
	err := r.db.NewSelect().
		TableExpr("? AS uc", bun.Ident(r.table)).
		Column("username", "message_count").
		Where("is_banned = FALSE").
		OrderExpr("message_count DESC, user_id ASC").
		Limit(limit).
		Scan(ctx, &ranks)
	if err != nil {
		r.logError("TopUsers", err)
		return nil
	}
	return ranks
}

// Timeline aggregates message counts per calendar date over the window.
// Grouping is by date only, not per user; the username column carries one
// arbitrary (minimum) name per date. This mirrors the store's historical
// behavior and is a known coarse-grained aggregate.
func (r *counterRepository) Timeline(ctx context.Context, windowDays int) []models.TimelineEntry {
	start := r.now().AddDate(0, 0, -windowDays)

	var entries []models.TimelineEntry
	err := r.db.NewSelect().
		TableExpr("? AS uc", bun.Ident(r.table)).
		ColumnExpr("min(username) AS username").
		ColumnExpr("count(*) AS message_count").
		ColumnExpr("last_message_time::date AS msg_date").
		Where("last_message_time >= ?", start).
		Where("is_banned = FALSE").
		GroupExpr("last_message_time::date").
		OrderExpr("msg_date DESC").
		Scan(ctx, &entries)
	if err != nil {
		r.logError("Timeline", err, slog.Int("window_days", windowDays))
		return nil
	}
	return entries
}

// SetBanned flips the freeze flag. Idempotent; counters are untouched.
func (r *counterRepository) SetBanned(ctx context.Context, userID snowflake.ID, banned bool) {
	_, err := r.db.NewUpdate().
		Model((*models.UserCounter)(nil)).
		ModelTableExpr("? AS uc", bun.Ident(r.table)).
		Set("is_banned = ?", banned).
		Where("user_id = ?", int64(userID)).
		Exec(ctx)
	if err != nil {
		r.logError("SetBanned", err,
			slog.Int64("user_id", int64(userID)),
			slog.Bool("banned", banned))
		return
	}
	slog.Info("Ban flag updated",
		slog.String("type", "db"),
		slog.String("table", r.table),
		slog.Int64("user_id", int64(userID)),
		slog.Bool("banned", banned))
}

// ResetAll zeroes counters and clears timestamps for every non-banned row.
// Ban flags and banned users' counters stay as they are.
func (r *counterRepository) ResetAll(ctx context.Context) bool {
	res, err := r.db.NewUpdate().
		Model((*models.UserCounter)(nil)).
		ModelTableExpr("? AS uc", bun.Ident(r.table)).
		Set("message_count = 0").
		Set("last_message_time = NULL").
		Where("is_banned = FALSE").
		Exec(ctx)
	if err != nil {
		r.logError("ResetAll", err)
		return false
	}
	if affected, err := res.RowsAffected(); err == nil {
		slog.Info("Counters reset",
			slog.String("type", "db"),
			slog.String("table", r.table),
			slog.Int64("rows", affected))
	}
	return true
}

// ExportAll dumps every row, banned ones included, as CSV. Nil means the
// store is empty (or unreadable).
func (r *counterRepository) ExportAll(ctx context.Context) []byte {
	var counters []*models.UserCounter
	err := r.db.NewSelect().
		Model(&counters).
		ModelTableExpr("? AS uc", bun.Ident(r.table)).
		OrderExpr("message_count DESC, user_id ASC").
		Scan(ctx)
	if err != nil {
		r.logError("ExportAll", err)
		return nil
	}
	return models.EncodeCSV(counters)
}

func (r *counterRepository) AllUsers(ctx context.Context) []models.UserRef {
	var refs []models.UserRef
	err := r.db.NewSelect().
		TableExpr("? AS uc", bun.Ident(r.table)).
		Column("user_id", "username").
		Where("is_banned = FALSE").
		OrderExpr("message_count DESC").
		Scan(ctx, &refs)
	if err != nil {
		r.logError("AllUsers", err)
		return nil
	}
	return refs
}

// BulkImport inserts pre-built rows, replacing existing ones. Only the
// legacy import tool uses this; unlike the query methods it propagates the
// error so the migration can abort.
func (r *counterRepository) BulkImport(ctx context.Context, counters []*models.UserCounter) error {
	if len(counters) == 0 {
		return nil
	}
	_, err := r.db.NewInsert().
		Model(&counters).
		ModelTableExpr("? AS uc", bun.Ident(r.table)).
		On("CONFLICT (user_id) DO UPDATE").
		Set("username = EXCLUDED.username").
		Set("message_count = EXCLUDED.message_count").
		Set("last_message_time = EXCLUDED.last_message_time").
		Set("is_banned = EXCLUDED.is_banned").
		Exec(ctx)
	return err
}

func (r *counterRepository) logError(op string, err error, attrs ...any) {
	base := []any{
		slog.String("type", "db"),
		slog.String("operation", op),
		slog.String("table", r.table),
		slog.String("error", err.Error()),
	}
	slog.Error("Counter store operation failed", append(base, attrs...)...)
}
