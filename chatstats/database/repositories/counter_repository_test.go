package repositories

import (
	"context"
	"database/sql"
	"reflect"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/kagurabytes/chatstats/chatstats/database/models"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
)

// newTestRepository backs a repository with an in-memory sqlite table sharing
// the Postgres schema. The Timeline query stays untested here: its ::date
// cast needs a real Postgres.
func newTestRepository(t *testing.T) *counterRepository {
	t.Helper()

	sqldb, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	if _, err := db.Exec(`CREATE TABLE user_counters (
		user_id BIGINT PRIMARY KEY,
		username TEXT NOT NULL,
		message_count BIGINT NOT NULL DEFAULT 0,
		last_message_time TIMESTAMPTZ,
		is_banned BOOLEAN NOT NULL DEFAULT FALSE
	)`); err != nil {
		t.Fatal(err)
	}

	return &counterRepository{db: db, table: "user_counters", now: time.Now}
}

func Test_counterRepository_RecordMessage_countsPerCall(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	for i := 0; i < 3; i++ {
		repo.RecordMessage(ctx, 1, "alice")
	}
	repo.RecordMessage(ctx, 2, "bob")

	if got := repo.GetUser(ctx, 1); got == nil || got.MessageCount != 3 {
		t.Errorf("GetUser(1) = %+v, want 3 messages", got)
	}
	if got := repo.GetUser(ctx, 2); got == nil || got.MessageCount != 1 {
		t.Errorf("GetUser(2) = %+v, want 1 message", got)
	}

	// The username always follows the latest message.
	repo.RecordMessage(ctx, 1, "alice_renamed")
	got := repo.GetUser(ctx, 1)
	if got == nil || got.MessageCount != 4 || got.Username != "alice_renamed" {
		t.Errorf("GetUser(1) = %+v, want 4 messages as alice_renamed", got)
	}
	if got.LastMessageTime == nil {
		t.Error("LastMessageTime not set after recording")
	}
}

func Test_counterRepository_RecordMessage_bannedFreezesCountNotUsername(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	frozenAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return frozenAt }
	repo.RecordMessage(ctx, 1, "alice")
	repo.SetBanned(ctx, 1, true)

	repo.now = func() time.Time { return frozenAt.Add(time.Hour) }
	repo.RecordMessage(ctx, 1, "alice_renamed")

	got := repo.GetUser(ctx, 1)
	if got == nil {
		t.Fatal("GetUser(1) = nil")
	}
	if got.MessageCount != 1 {
		t.Errorf("MessageCount = %d, want count frozen at 1", got.MessageCount)
	}
	if got.Username != "alice_renamed" {
		t.Errorf("Username = %q, want it to track the latest message", got.Username)
	}
	if got.LastMessageTime == nil || !got.LastMessageTime.Equal(frozenAt) {
		t.Errorf("LastMessageTime = %v, want frozen at %v", got.LastMessageTime, frozenAt)
	}

	// Unbanning resumes counting.
	repo.SetBanned(ctx, 1, false)
	repo.RecordMessage(ctx, 1, "alice_renamed")
	if got := repo.GetUser(ctx, 1); got == nil || got.MessageCount != 2 {
		t.Errorf("GetUser(1) = %+v, want counting resumed at 2", got)
	}
}

func Test_counterRepository_ResetAll_sparesBannedRows(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	repo.RecordMessage(ctx, 1, "alice")
	repo.RecordMessage(ctx, 1, "alice")
	repo.RecordMessage(ctx, 2, "bob")
	repo.RecordMessage(ctx, 2, "bob")
	repo.SetBanned(ctx, 2, true)

	if !repo.ResetAll(ctx) {
		t.Fatal("ResetAll() = false")
	}

	alice := repo.GetUser(ctx, 1)
	if alice == nil || alice.MessageCount != 0 {
		t.Errorf("GetUser(1) = %+v, want count zeroed", alice)
	}
	if alice.LastMessageTime != nil {
		t.Errorf("LastMessageTime = %v, want cleared", alice.LastMessageTime)
	}

	bob := repo.GetUser(ctx, 2)
	if bob == nil || bob.MessageCount != 2 {
		t.Errorf("GetUser(2) = %+v, want banned row untouched", bob)
	}
	if bob.LastMessageTime == nil {
		t.Error("banned row's LastMessageTime was cleared")
	}
	if !bob.IsBanned {
		t.Error("ban flag did not survive the reset")
	}
}

func Test_counterRepository_TopUsers_excludesBannedAndTruncates(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	record := func(id snowflake.ID, name string, n int) {
		for i := 0; i < n; i++ {
			repo.RecordMessage(ctx, id, name)
		}
	}
	record(1, "alice", 5)
	record(2, "bob", 3)
	record(3, "carol", 3)
	record(4, "dave", 10)
	repo.SetBanned(ctx, 4, true)

	got := repo.TopUsers(ctx, 2)
	want := []models.UserRank{
		{Username: "alice", MessageCount: 5},
		{Username: "bob", MessageCount: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopUsers(2) = %v, want %v", got, want)
	}

	// Ties break on user_id ascending; the banned top scorer never appears.
	got = repo.TopUsers(ctx, 10)
	want = []models.UserRank{
		{Username: "alice", MessageCount: 5},
		{Username: "bob", MessageCount: 3},
		{Username: "carol", MessageCount: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopUsers(10) = %v, want %v", got, want)
	}
}

func Test_counterRepository_GetUser_absent(t *testing.T) {
	repo := newTestRepository(t)
	if got := repo.GetUser(context.Background(), 999); got != nil {
		t.Errorf("GetUser(999) = %+v, want nil", got)
	}
}

func Test_counterRepository_ExportAll_includesBannedRows(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	repo.RecordMessage(ctx, 1, "alice")
	repo.RecordMessage(ctx, 2, "bob")
	repo.RecordMessage(ctx, 2, "bob")
	repo.SetBanned(ctx, 1, true)

	blob := repo.ExportAll(ctx)
	if blob == nil {
		t.Fatal("ExportAll() = nil")
	}

	counters, err := models.DecodeCSV(blob)
	if err != nil {
		t.Fatalf("DecodeCSV() error = %v", err)
	}
	if len(counters) != 2 {
		t.Fatalf("exported %d rows, want 2", len(counters))
	}
	// Ordered by message_count descending; the banned row still exported.
	if counters[0].UserID != 2 || counters[1].UserID != 1 {
		t.Errorf("export order = [%d %d], want [2 1]", counters[0].UserID, counters[1].UserID)
	}
	if !counters[1].IsBanned {
		t.Error("banned row lost its flag in the export")
	}
}

func Test_counterRepository_BulkImport_replacesExisting(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	if err := repo.BulkImport(ctx, []*models.UserCounter{
		{UserID: 1, Username: "alice", MessageCount: 10},
	}); err != nil {
		t.Fatalf("BulkImport() error = %v", err)
	}
	if err := repo.BulkImport(ctx, []*models.UserCounter{
		{UserID: 1, Username: "alice", MessageCount: 25, IsBanned: true},
		{UserID: 2, Username: "bob", MessageCount: 5},
	}); err != nil {
		t.Fatalf("BulkImport() error = %v", err)
	}

	got := repo.GetUser(ctx, 1)
	if got == nil || got.MessageCount != 25 || !got.IsBanned {
		t.Errorf("GetUser(1) = %+v, want re-imported row", got)
	}
	if got := repo.GetUser(ctx, 2); got == nil || got.MessageCount != 5 {
		t.Errorf("GetUser(2) = %+v, want imported row", got)
	}
}
