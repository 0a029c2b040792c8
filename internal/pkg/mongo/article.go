package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Article 文章文档，由后台 CMS 维护，阅读量只由阅读统计写入
type Article struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Slug      string             `bson:"slug" json:"slug"`
	Title     string             `bson:"title" json:"title"`
	Category  string             `bson:"category" json:"category"`
	Author    string             `bson:"author" json:"author"`
	ViewCount int64              `bson:"view_count" json:"viewCount"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updatedAt"`
}

// ViewSummary 全站阅读量汇总
type ViewSummary struct {
	TotalViews   int64 `bson:"total_views"`
	ArticleCount int64 `bson:"article_count"`
}
