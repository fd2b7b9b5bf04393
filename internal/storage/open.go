package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"wordcards/internal/config"
	"wordcards/internal/database"
)

// Open builds the backend selected by cfg.Driver and verifies it is reachable
func Open(ctx context.Context, cfg config.StorageConfig, logger logrus.FieldLogger) (Store, error) {
	driver := strings.ToLower(cfg.Driver)
	log := logger.WithField("driver", driver)

	switch driver {
	case "memory":
		log.Info("Using in-memory storage")
		return NewMemoryStore(), nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     strings.TrimPrefix(cfg.RedisAddr, "redis://"),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		log.WithField("addr", cfg.RedisAddr).Info("Connected to Redis")
		return NewRedisStore(client, cfg.RedisPrefix), nil

	case "mongo", "mongodb":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			client.Disconnect(ctx)
			return nil, fmt.Errorf("failed to ping mongo: %w", err)
		}
		log.WithField("database", cfg.MongoDatabase).Info("Connected to MongoDB")
		return NewMongoStore(client, cfg.MongoDatabase, cfg.MongoCollection), nil

	default:
		db, err := database.Open(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := db.RunMigrations(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("Database storage ready")
		return NewSQLStore(db), nil
	}
}
