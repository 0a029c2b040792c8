package mongo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestArticleRepo_FindBySlug(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "newsdesk.articles", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "slug", Value: "a1"},
			{Key: "title", Value: "Harbour reopens"},
			{Key: "view_count", Value: int64(5)},
		}))

		article, err := NewArticleRepo(mt.DB).FindBySlug(context.Background(), "a1")
		require.NoError(mt, err)
		require.NotNil(mt, article)
		assert.Equal(mt, "Harbour reopens", article.Title)
		assert.Equal(mt, int64(5), article.ViewCount)
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "newsdesk.articles", mtest.FirstBatch))

		article, err := NewArticleRepo(mt.DB).FindBySlug(context.Background(), "missing")
		require.NoError(mt, err)
		assert.Nil(mt, article)
	})

	mt.Run("server error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    2,
			Message: "bad value",
			Name:    "BadValue",
		}))

		_, err := NewArticleRepo(mt.DB).FindBySlug(context.Background(), "a1")
		assert.Error(mt, err)
	})
}

func TestArticleRepo_IncrementViewCount(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns updated document", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: bson.D{
			{Key: "slug", Value: "a1"},
			{Key: "view_count", Value: int64(6)},
		}}))

		article, err := NewArticleRepo(mt.DB).IncrementViewCount(context.Background(), "a1")
		require.NoError(mt, err)
		require.NotNil(mt, article)
		assert.Equal(mt, int64(6), article.ViewCount)

		// 必须是服务端原地 $inc，不能先读再写
		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "findAndModify", evt.CommandName)
		cmd := evt.Command
		assert.Equal(mt, "a1", cmd.Lookup("query", "slug").StringValue())
		update, err := cmd.Lookup("update").Document().Elements()
		require.NoError(mt, err)
		require.Len(mt, update, 1)
		assert.Equal(mt, "$inc", update[0].Key())
		assert.Equal(mt, int64(1), cmd.Lookup("update", "$inc", "view_count").AsInt64())
		assert.True(mt, cmd.Lookup("new").Boolean())
	})

	mt.Run("missing article", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		article, err := NewArticleRepo(mt.DB).IncrementViewCount(context.Background(), "gone")
		require.NoError(mt, err)
		assert.Nil(mt, article)
	})
}

func TestArticleRepo_SummarizeViews(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("aggregates", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "newsdesk.articles", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: nil},
			{Key: "total_views", Value: int64(120)},
			{Key: "article_count", Value: int32(4)},
		}))

		summary, err := NewArticleRepo(mt.DB).SummarizeViews(context.Background())
		require.NoError(mt, err)
		assert.Equal(mt, int64(120), summary.TotalViews)
		assert.Equal(mt, int64(4), summary.ArticleCount)
	})

	mt.Run("empty collection", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "newsdesk.articles", mtest.FirstBatch))

		summary, err := NewArticleRepo(mt.DB).SummarizeViews(context.Background())
		require.NoError(mt, err)
		assert.Zero(mt, summary.TotalViews)
		assert.Zero(mt, summary.ArticleCount)
	})
}
