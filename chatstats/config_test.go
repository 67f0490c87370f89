package chatstats

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func Test_LoadConfig_defaults(t *testing.T) {
	path := writeConfig(t, `
[bot]
token = "xyz"
allowed_users = [100]
admin_users = [200]

[db]
host = "localhost"
port = 5432
user = "postgres"
password = "postgres"
database = "chatstats"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Stats.AllTimeTable != "user_counters" {
		t.Errorf("AllTimeTable = %q, want %q", cfg.Stats.AllTimeTable, "user_counters")
	}
	if cfg.Stats.DailyTable != "user_counters_daily" {
		t.Errorf("DailyTable = %q, want %q", cfg.Stats.DailyTable, "user_counters_daily")
	}
	if cfg.Stats.TopLimit != 10 {
		t.Errorf("TopLimit = %d, want 10", cfg.Stats.TopLimit)
	}
	if cfg.Stats.TimelineDays != 7 {
		t.Errorf("TimelineDays = %d, want 7", cfg.Stats.TimelineDays)
	}
	if cfg.Messages.NotAllowed == "" {
		t.Error("NotAllowed message default missing")
	}
	if cfg.Messages.ResetOK == "" {
		t.Error("ResetOK message default missing")
	}
}

func Test_LoadConfig_overrides(t *testing.T) {
	path := writeConfig(t, `
[bot]
token = "xyz"

[stats]
alltime_table = "counters"
daily_table = "counters_today"
timezone_offset_hours = 3
top_limit = 5

[messages]
no_data = "nothing here"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Stats.AllTimeTable != "counters" {
		t.Errorf("AllTimeTable = %q, want %q", cfg.Stats.AllTimeTable, "counters")
	}
	if cfg.Stats.TimezoneOffsetHours != 3 {
		t.Errorf("TimezoneOffsetHours = %d, want 3", cfg.Stats.TimezoneOffsetHours)
	}
	if cfg.Stats.TopLimit != 5 {
		t.Errorf("TopLimit = %d, want 5", cfg.Stats.TopLimit)
	}
	if cfg.Messages.NoData != "nothing here" {
		t.Errorf("NoData = %q, want %q", cfg.Messages.NoData, "nothing here")
	}
}

func Test_LoadConfig_missingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("LoadConfig() expected an error for a missing file")
	}
}
