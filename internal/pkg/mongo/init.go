package mongo

import (
	"NewsDesk/internal/api/config"
	"NewsDesk/internal/pkg/logger"
	"context"
	log "log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	ArticleCollection        = "articles"
	AnalyticsEventCollection = "analytics_events"
)

// InitMongo 建立连接并返回 Database 引用，同时初始化索引
func InitMongo(cfg config.MongoConfig) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URL).
		SetMonitor(logger.NewMongoMonitor()),
	)
	if err != nil {
		return nil, err
	}

	if err = client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(cfg.Database)
	if err = EnsureIndexes(ctx, db); err != nil {
		return nil, err
	}

	log.Info("MongoDB initialized successfully", "db", cfg.Database)
	return db, nil
}

// EnsureIndexes 创建文章 slug 唯一索引，以及去重查询与互动回填所需的复合索引
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(ArticleCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "slug", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "view_count", Value: -1}},
		},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection(AnalyticsEventCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "article_slug", Value: 1},
				{Key: "client_address", Value: 1},
				{Key: "viewed_at", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "article_slug", Value: 1},
				{Key: "session_id", Value: 1},
				{Key: "viewed_at", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "viewed_at", Value: -1}},
		},
	})
	return err
}
