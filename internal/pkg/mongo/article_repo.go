package mongo

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ArticleRepo interface {
	FindBySlug(ctx context.Context, slug string) (*Article, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]*Article, error)
	IncrementViewCount(ctx context.Context, slug string) (*Article, error)
	FindTopByViewCount(ctx context.Context, limit int) ([]*Article, error)
	SummarizeViews(ctx context.Context) (*ViewSummary, error)
}

type articleRepoImpl struct {
	col *mongo.Collection
}

func NewArticleRepo(db *mongo.Database) ArticleRepo {
	return &articleRepoImpl{
		col: db.Collection(ArticleCollection),
	}
}

// FindBySlug 文章不存在时返回 nil, nil
func (s *articleRepoImpl) FindBySlug(ctx context.Context, slug string) (*Article, error) {
	var article Article
	err := s.col.FindOne(ctx, bson.M{"slug": slug}).Decode(&article)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, pkgerrors.Wrapf(err, "find article %q", slug)
	}
	return &article, nil
}

func (s *articleRepoImpl) FindBySlugs(ctx context.Context, slugs []string) ([]*Article, error) {
	if len(slugs) == 0 {
		return []*Article{}, nil
	}
	cursor, err := s.col.Find(ctx, bson.M{"slug": bson.M{"$in": slugs}})
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find articles by slugs")
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	articles := make([]*Article, 0, len(slugs))
	if err = cursor.All(ctx, &articles); err != nil {
		return nil, pkgerrors.Wrap(err, "decode articles")
	}
	return articles, nil
}

// IncrementViewCount 原子地将 view_count 加一并返回更新后的文档，文章不存在时返回 nil, nil
func (s *articleRepoImpl) IncrementViewCount(ctx context.Context, slug string) (*Article, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$inc": bson.M{"view_count": 1}}

	var article Article
	err := s.col.FindOneAndUpdate(ctx, bson.M{"slug": slug}, update, opts).Decode(&article)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, pkgerrors.Wrapf(err, "increment view count of %q", slug)
	}
	return &article, nil
}

// FindTopByViewCount 按累计阅读量倒序
func (s *articleRepoImpl) FindTopByViewCount(ctx context.Context, limit int) ([]*Article, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "view_count", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))

	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "find top articles")
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	articles := make([]*Article, 0, limit)
	if err = cursor.All(ctx, &articles); err != nil {
		return nil, pkgerrors.Wrap(err, "decode top articles")
	}
	return articles, nil
}

// SummarizeViews 汇总全部文章的阅读量与文章数
func (s *articleRepoImpl) SummarizeViews(ctx context.Context) (*ViewSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total_views", Value: bson.D{{Key: "$sum", Value: "$view_count"}}},
			{Key: "article_count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "summarize views")
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	summary := &ViewSummary{}
	if cursor.Next(ctx) {
		if err = cursor.Decode(summary); err != nil {
			return nil, pkgerrors.Wrap(err, "decode view summary")
		}
	}
	if err = cursor.Err(); err != nil {
		return nil, pkgerrors.Wrap(err, "iterate view summary")
	}
	return summary, nil
}
