package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"
	"github.com/kagurabytes/chatstats/chatstats"
	"github.com/kagurabytes/chatstats/chatstats/access"
	"github.com/kagurabytes/chatstats/chatstats/commands"
	"github.com/kagurabytes/chatstats/chatstats/database"
	"github.com/kagurabytes/chatstats/chatstats/database/repositories"
	"github.com/kagurabytes/chatstats/chatstats/handlers"
	"github.com/kagurabytes/chatstats/chatstats/logger"
	"github.com/kagurabytes/chatstats/chatstats/services"
	"github.com/kagurabytes/chatstats/chatstats/stats"
	"github.com/kagurabytes/chatstats/chatstats/utils"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := chatstats.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level)))
	slog.Info("Starting activity tracker",
		slog.String("type", "sys"),
		slog.String("version", version),
		slog.String("commit", commit))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dbStart := time.Now()
	db, err := database.New(ctx, database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	})
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("type", "db"),
			slog.Any("error", err),
			slog.Duration("attempted_for", time.Since(dbStart)))
		os.Exit(-1)
	}
	defer db.Close()

	if err = db.InitializeSchema(ctx, cfg.Stats.AllTimeTable, cfg.Stats.DailyTable); err != nil {
		slog.Error("Failed to initialize database schema",
			slog.String("type", "db"),
			slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Database ready",
		slog.String("type", "db"),
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStart)))

	b := chatstats.New(*cfg, version, commit)
	b.DB = db
	b.Ledger = stats.NewLedger(
		repositories.NewCounterRepository(db.BunDB(), cfg.Stats.AllTimeTable),
		repositories.NewCounterRepository(db.BunDB(), cfg.Stats.DailyTable),
	)
	b.ChartService = services.NewChartService()

	if cfg.Spaces.Enabled {
		spaces, err := services.NewSpacesService(
			cfg.Spaces.Key,
			cfg.Spaces.Secret,
			cfg.Spaces.Region,
			cfg.Spaces.Bucket,
			cfg.Spaces.ExportRoot,
		)
		if err != nil {
			slog.Error("Failed to set up export uploads", slog.Any("error", err))
			os.Exit(-1)
		}
		b.SpacesService = spaces
	}

	h := handler.New()
	h.Command("/start", handlers.WrapWithAccess(b, access.CommandStart, commands.StartHandler(b)))
	h.Command("/stats", handlers.WrapWithAccess(b, access.CommandStats, commands.StatsHandler(b)))
	h.Command("/topusers", handlers.WrapWithAccess(b, access.CommandTopUsers, commands.TopUsersHandler(b)))
	h.Command("/graph", handlers.WrapWithAccess(b, access.CommandGraph, commands.GraphHandler(b)))
	h.Command("/staff_stats", handlers.WrapWithAccess(b, access.CommandStaffStats, commands.StaffStatsHandler(b)))
	h.Command("/staff_all", handlers.WrapWithAccess(b, access.CommandStaffAll, commands.StaffAllHandler(b)))
	h.Command("/staff_off", handlers.WrapWithAccess(b, access.CommandStaffOff, commands.StaffOffHandler(b)))
	h.Command("/staff_export", handlers.WrapWithAccess(b, access.CommandStaffExport, commands.StaffExportHandler(b)))
	h.Command("/staff_ban", handlers.WrapWithAccess(b, access.CommandStaffBan, commands.StaffBanHandler(b)))

	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady), handlers.MessageHandler(b)); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		b.Client.Close(closeCtx)
	}()

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds))
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err))
		}
	}

	bpm := utils.NewBackgroundProcessManager()
	scheduler := stats.NewResetScheduler(b.Ledger, cfg.Stats.TimezoneOffsetHours)
	bpm.StartProcess("daily-reset", scheduler.Run)

	gatewayCtx, gatewayCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer gatewayCancel()
	if err = b.Client.OpenGateway(gatewayCtx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(-1)
	}

	slog.Info("Activity tracker is running. Press CTRL-C to exit.",
		slog.String("type", "sys"))
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s

	slog.Info("Shutting down...", slog.String("type", "sys"))
	if err := bpm.Shutdown(30 * time.Second); err != nil {
		slog.Warn("Background processes did not stop cleanly",
			slog.String("type", "sys"),
			slog.Any("error", err))
	}
}
