// Command migrate imports legacy MongoDB user stats into the Postgres
// all-time counter store.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/kagurabytes/chatstats/chatstats"
	"github.com/kagurabytes/chatstats/chatstats/database"
	"github.com/kagurabytes/chatstats/chatstats/database/repositories"
	"github.com/kagurabytes/chatstats/chatstats/logger"
	"github.com/kagurabytes/chatstats/chatstats/migration"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(slog.LevelInfo)))

	configPath := flag.String("config", "config.toml", "path to config")
	mongoURI := flag.String("mongo-uri", "mongodb://localhost:27017", "legacy MongoDB URI")
	mongoDB := flag.String("mongo-db", "statsbot", "legacy MongoDB database name")
	mongoColl := flag.String("mongo-collection", "user_stats", "legacy collection name")
	flag.Parse()

	cfg, err := chatstats.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	db, err := database.New(ctx, database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	})
	if err != nil {
		slog.Error("Database connection failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	if err := db.InitializeSchema(ctx, cfg.Stats.AllTimeTable, cfg.Stats.DailyTable); err != nil {
		slog.Error("Failed to initialize schema", slog.Any("error", err))
		os.Exit(1)
	}

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(*mongoURI))
	if err != nil {
		slog.Error("Failed to connect to legacy MongoDB", slog.Any("error", err))
		os.Exit(1)
	}
	defer mongoClient.Disconnect(ctx)

	allTime := repositories.NewCounterRepository(db.BunDB(), cfg.Stats.AllTimeTable)
	migrator := migration.NewMigrator(allTime, mongoClient.Database(*mongoDB), *mongoColl)

	stats, err := migrator.Run(ctx)
	if err != nil {
		slog.Error("Migration failed",
			slog.Int("imported_before_failure", stats.Imported),
			slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("Migration complete",
		slog.Int("read", stats.Read),
		slog.Int("imported", stats.Imported),
		slog.Int("skipped", stats.Skipped))
}
