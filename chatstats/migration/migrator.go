// Package migration imports legacy per-user stats from the previous
// MongoDB-backed deployment into the counter stores.
package migration

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kagurabytes/chatstats/chatstats/database/models"
	"github.com/kagurabytes/chatstats/chatstats/database/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultBatchSize = 500

// LegacyUserStats is the shape of one document in the legacy collection.
type LegacyUserStats struct {
	UserID          int64      `bson:"user_id"`
	Username        string     `bson:"username"`
	MessageCount    int64      `bson:"message_count"`
	LastMessageTime *time.Time `bson:"last_message_time"`
	IsBanned        bool       `bson:"is_banned"`
}

type Stats struct {
	Read     int
	Imported int
	Skipped  int
	Started  time.Time
}

type Migrator struct {
	allTime    repositories.CounterRepository
	collection *mongo.Collection
	batchSize  int
	stats      Stats
}

func NewMigrator(allTime repositories.CounterRepository, db *mongo.Database, collectionName string) *Migrator {
	return &Migrator{
		allTime:    allTime,
		collection: db.Collection(collectionName),
		batchSize:  defaultBatchSize,
		stats:      Stats{Started: time.Now()},
	}
}

// Run streams the legacy collection in batches into the all-time store.
// The daily store starts empty; the next midnight cycle owns it.
func (m *Migrator) Run(ctx context.Context) (Stats, error) {
	cursor, err := m.collection.Find(ctx, bson.M{}, options.Find().SetBatchSize(int32(m.batchSize)))
	if err != nil {
		return m.stats, fmt.Errorf("failed to query legacy collection: %w", err)
	}
	defer cursor.Close(ctx)

	batch := make([]*models.UserCounter, 0, m.batchSize)
	for cursor.Next(ctx) {
		var legacy LegacyUserStats
		if err := cursor.Decode(&legacy); err != nil {
			m.stats.Skipped++
			slog.Warn("Skipping undecodable legacy document", slog.Any("error", err))
			continue
		}
		m.stats.Read++

		if legacy.UserID == 0 {
			m.stats.Skipped++
			continue
		}
		batch = append(batch, &models.UserCounter{
			UserID:          legacy.UserID,
			Username:        legacy.Username,
			MessageCount:    legacy.MessageCount,
			LastMessageTime: legacy.LastMessageTime,
			IsBanned:        legacy.IsBanned,
		})

		if len(batch) >= m.batchSize {
			if err := m.flush(ctx, batch); err != nil {
				return m.stats, err
			}
			batch = batch[:0]
		}
	}
	if err := cursor.Err(); err != nil {
		return m.stats, fmt.Errorf("legacy cursor failed: %w", err)
	}
	if err := m.flush(ctx, batch); err != nil {
		return m.stats, err
	}

	slog.Info("Legacy import finished",
		slog.Int("read", m.stats.Read),
		slog.Int("imported", m.stats.Imported),
		slog.Int("skipped", m.stats.Skipped),
		slog.Duration("took", time.Since(m.stats.Started)))
	return m.stats, nil
}

func (m *Migrator) flush(ctx context.Context, batch []*models.UserCounter) error {
	if len(batch) == 0 {
		return nil
	}
	if err := m.allTime.BulkImport(ctx, batch); err != nil {
		return fmt.Errorf("failed to import batch of %d users: %w", len(batch), err)
	}
	m.stats.Imported += len(batch)
	slog.Info("Imported batch", slog.Int("size", len(batch)), slog.Int("total", m.stats.Imported))
	return nil
}
