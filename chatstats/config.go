package chatstats

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	cfg.Stats.applyDefaults()
	cfg.Messages.applyDefaults()
	return &cfg, nil
}

type Config struct {
	Log      LogConfig      `toml:"log"`
	Bot      BotConfig      `toml:"bot"`
	DB       DBConfig       `toml:"db"`
	Stats    StatsConfig    `toml:"stats"`
	Spaces   SpacesConfig   `toml:"spaces"`
	Messages MessageConfig  `toml:"messages"`
}

type BotConfig struct {
	DevGuilds    []snowflake.ID `toml:"dev_guilds"`
	Token        string         `toml:"token"`
	AllowedUsers []snowflake.ID `toml:"allowed_users"`
	AdminUsers   []snowflake.ID `toml:"admin_users"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

type DBConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	PoolSize int    `toml:"pool_size"`
}

// StatsConfig drives the two counter stores and the daily reset cycle.
// TimezoneOffsetHours is the fixed UTC offset whose midnight resets the
// daily store (the previous deployment ran on UTC+3).
type StatsConfig struct {
	AllTimeTable        string `toml:"alltime_table"`
	DailyTable          string `toml:"daily_table"`
	TimezoneOffsetHours int    `toml:"timezone_offset_hours"`
	TopLimit            int    `toml:"top_limit"`
	TimelineDays        int    `toml:"timeline_days"`
}

func (c *StatsConfig) applyDefaults() {
	if c.AllTimeTable == "" {
		c.AllTimeTable = "user_counters"
	}
	if c.DailyTable == "" {
		c.DailyTable = "user_counters_daily"
	}
	if c.TopLimit <= 0 {
		c.TopLimit = 10
	}
	if c.TimelineDays <= 0 {
		c.TimelineDays = 7
	}
}

type SpacesConfig struct {
	Enabled    bool   `toml:"enabled"`
	Key        string `toml:"key"`
	Secret     string `toml:"secret"`
	Region     string `toml:"region"`
	Bucket     string `toml:"bucket"`
	ExportRoot string `toml:"export_root"`
}

// MessageConfig holds the reply templates. Every field has a default so a
// bare config file still produces sensible replies.
type MessageConfig struct {
	Start      string `toml:"start"`
	NotAllowed string `toml:"not_allowed"`
	NotAdmin   string `toml:"not_admin"`
	AdminOnly  string `toml:"admin_only"`
	NoData     string `toml:"no_data"`
	ResetOK    string `toml:"reset_ok"`
	ResetFail  string `toml:"reset_fail"`
}

func (m *MessageConfig) applyDefaults() {
	if m.Start == "" {
		m.Start = "👋 Hi! I track chat activity for this community.\n\n" +
			"📊 Commands:\n" +
			"/stats — your own statistics\n" +
			"/topusers — the most active users\n" +
			"/graph — activity charts\n\n" +
			"👑 Staff commands:\n" +
			"/staff_stats — per-user detail\n" +
			"/staff_all — full dump of all users\n" +
			"/staff_export — CSV export of both stores\n" +
			"/staff_ban — freeze or unfreeze a user's counters\n" +
			"/staff_off — reset the daily counters now\n\n" +
			"Daily counters reset automatically at midnight."
	}
	if m.NotAllowed == "" {
		m.NotAllowed = "❌ You don't have access to this bot."
	}
	if m.NotAdmin == "" {
		m.NotAdmin = "❌ I need administrator rights to track this server."
	}
	if m.AdminOnly == "" {
		m.AdminOnly = "❌ This command is only available to administrators."
	}
	if m.NoData == "" {
		m.NoData = "📊 No message data yet."
	}
	if m.ResetOK == "" {
		m.ResetOK = "📊 Daily statistics reset successfully."
	}
	if m.ResetFail == "" {
		m.ResetFail = "❌ Failed to reset daily statistics."
	}
}
