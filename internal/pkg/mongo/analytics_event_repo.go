package mongo

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrUnknownEngagementKind = errors.New("unknown engagement kind")

type AnalyticsEventRepo interface {
	InsertEvent(ctx context.Context, event *AnalyticsEvent) (string, error)
	CountEventsInWindow(ctx context.Context, slug, clientAddress string, start, end time.Time) (int64, error)
	UpdateLatestEngagement(ctx context.Context, slug, sessionID string, kind EngagementKind, value float64) (*AnalyticsEvent, error)
	CountEventsBetween(ctx context.Context, start, end time.Time, uniqueOnly bool) (int64, error)
	GetRecentEvents(ctx context.Context, slug string, limit int) ([]*AnalyticsEvent, error)
}

type analyticsEventRepoImpl struct {
	col *mongo.Collection
}

func NewAnalyticsEventRepo(db *mongo.Database) AnalyticsEventRepo {
	return &analyticsEventRepoImpl{
		col: db.Collection(AnalyticsEventCollection),
	}
}

// InsertEvent 写入事件并返回十六进制 ID
func (s *analyticsEventRepoImpl) InsertEvent(ctx context.Context, event *AnalyticsEvent) (string, error) {
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	if _, err := s.col.InsertOne(ctx, event); err != nil {
		return "", pkgerrors.Wrap(err, "insert analytics event")
	}
	return event.ID.Hex(), nil
}

// CountEventsInWindow 统计 [start, end) 内同一文章同一客户端地址的事件，只关心是否存在所以最多数到 1
func (s *analyticsEventRepoImpl) CountEventsInWindow(ctx context.Context, slug, clientAddress string, start, end time.Time) (int64, error) {
	filter := bson.M{
		"article_slug":   slug,
		"client_address": clientAddress,
		"viewed_at":      bson.M{"$gte": start, "$lt": end},
	}
	count, err := s.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return 0, pkgerrors.Wrap(err, "count events in window")
	}
	return count, nil
}

// UpdateLatestEngagement 在同一文章同一会话最近的一条事件上写入互动数据，没有匹配事件时返回 nil, nil
func (s *analyticsEventRepoImpl) UpdateLatestEngagement(ctx context.Context, slug, sessionID string, kind EngagementKind, value float64) (*AnalyticsEvent, error) {
	field := kind.Field()
	if field == "" {
		return nil, ErrUnknownEngagementKind
	}

	filter := bson.M{"article_slug": slug, "session_id": sessionID}
	update := bson.M{"$set": bson.M{field: value}}
	opts := options.FindOneAndUpdate().
		SetSort(bson.D{{Key: "viewed_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetReturnDocument(options.After)

	var event AnalyticsEvent
	err := s.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(err, "update latest engagement")
	}
	return &event, nil
}

// CountEventsBetween 统计 [start, end) 内的全站事件数，uniqueOnly 时只统计独立浏览
func (s *analyticsEventRepoImpl) CountEventsBetween(ctx context.Context, start, end time.Time, uniqueOnly bool) (int64, error) {
	filter := bson.M{"viewed_at": bson.M{"$gte": start, "$lt": end}}
	if uniqueOnly {
		filter["is_unique_view"] = true
	}
	count, err := s.col.CountDocuments(ctx, filter)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "count events between")
	}
	return count, nil
}

// GetRecentEvents 按浏览时间倒序取某篇文章最近的事件
func (s *analyticsEventRepoImpl) GetRecentEvents(ctx context.Context, slug string, limit int) ([]*AnalyticsEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "viewed_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := s.col.Find(ctx, bson.M{"article_slug": slug}, opts)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find recent events")
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	events := make([]*AnalyticsEvent, 0, limit)
	if err = cursor.All(ctx, &events); err != nil {
		return nil, pkgerrors.Wrap(err, "decode recent events")
	}
	return events, nil
}
