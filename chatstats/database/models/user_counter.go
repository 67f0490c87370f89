package models

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/uptrace/bun"
)

// TimeLayout is the textual timestamp form used in replies and CSV exports.
const TimeLayout = "2006-01-02 15:04:05"

// UserCounter is one per-user row in a counter store. The same model backs
// both the all-time and the daily table; the repository picks the table.
type UserCounter struct {
	bun.BaseModel `bun:"table:user_counters,alias:uc"`

	UserID          int64      `bun:"user_id,pk"`
	Username        string     `bun:"username,notnull"`
	MessageCount    int64      `bun:"message_count,notnull,default:0"`
	LastMessageTime *time.Time `bun:"last_message_time"`
	IsBanned        bool       `bun:"is_banned,notnull,default:false"`
}

// LastMessage renders the last activity timestamp, or "Never" for a user
// that has no recorded message (e.g. right after a daily reset).
func (c *UserCounter) LastMessage() string {
	if c.LastMessageTime == nil {
		return "Never"
	}
	return c.LastMessageTime.Format(TimeLayout)
}

// UserRank is a (username, count) pair from a ranked listing.
type UserRank struct {
	Username     string `bun:"username"`
	MessageCount int64  `bun:"message_count"`
}

// TimelineEntry is one aggregated row of the activity timeline. Counts are
// grouped by calendar date only; Username carries whichever row the grouping
// picked and is not a per-user breakdown.
type TimelineEntry struct {
	Username     string    `bun:"username"`
	MessageCount int64     `bun:"message_count"`
	Date         time.Time `bun:"msg_date"`
}

// UserRef identifies a known user without its counters.
type UserRef struct {
	UserID   int64  `bun:"user_id"`
	Username string `bun:"username"`
}

// AggregatedUserView merges a user's all-time row with its daily row for
// display. It is derived, never persisted.
type AggregatedUserView struct {
	UserID        int64
	Username      string
	TotalMessages int64
	DailyMessages int64
	LastMessage   string
	IsBanned      bool
}

var exportHeader = []string{"user_id", "username", "message_count", "last_message_time", "is_banned"}

// EncodeCSV renders a full store dump as delimited text. Returns nil for an
// empty store.
func EncodeCSV(counters []*UserCounter) []byte {
	if len(counters) == 0 {
		return nil
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(exportHeader)
	for _, c := range counters {
		last := ""
		if c.LastMessageTime != nil {
			last = c.LastMessageTime.Format(TimeLayout)
		}
		_ = w.Write([]string{
			strconv.FormatInt(c.UserID, 10),
			c.Username,
			strconv.FormatInt(c.MessageCount, 10),
			last,
			strconv.FormatBool(c.IsBanned),
		})
	}
	w.Flush()
	return buf.Bytes()
}

// DecodeCSV parses a blob produced by EncodeCSV. Used by tests and the
// legacy import tool.
func DecodeCSV(blob []byte) ([]*UserCounter, error) {
	r := csv.NewReader(bytes.NewReader(blob))
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty export")
	}

	counters := make([]*UserCounter, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(exportHeader) {
			return nil, fmt.Errorf("malformed row: %v", rec)
		}
		userID, err := strconv.ParseInt(rec[0], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad user_id %q: %w", rec[0], err)
		}
		count, err := strconv.ParseInt(rec[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad message_count %q: %w", rec[2], err)
		}
		var last *time.Time
		if rec[3] != "" {
			t, err := time.Parse(TimeLayout, rec[3])
			if err != nil {
				return nil, fmt.Errorf("bad last_message_time %q: %w", rec[3], err)
			}
			last = &t
		}
		banned, err := strconv.ParseBool(rec[4])
		if err != nil {
			return nil, fmt.Errorf("bad is_banned %q: %w", rec[4], err)
		}
		counters = append(counters, &UserCounter{
			UserID:          userID,
			Username:        rec[1],
			MessageCount:    count,
			LastMessageTime: last,
			IsBanned:        banned,
		})
	}
	return counters, nil
}
