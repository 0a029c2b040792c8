package model

import (
	"time"
)

// ArticleMetric 文章每日阅读快照，MetricDate 为参考时区的零点
type ArticleMetric struct {
	ID          uint64    `gorm:"primaryKey"`
	ArticleSlug string    `gorm:"type:varchar(191);not null;index:idx_article_date,unique"`
	MetricDate  time.Time `gorm:"not null;index:idx_article_date,unique;column:metric_date"`
	TotalViews  int64     `gorm:"not null;default:0"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (ArticleMetric) TableName() string {
	return "article_daily_metrics"
}
