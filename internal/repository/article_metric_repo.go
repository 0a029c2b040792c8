package repository

import (
	"NewsDesk/internal/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ArticleMetricRepo interface {
	SaveOrUpdateMetric(ctx context.Context, metric *model.ArticleMetric) error
	GetArticleMetricsSince(ctx context.Context, slug string, since time.Time) ([]*model.ArticleMetric, error)
	GetLatestMetricBefore(ctx context.Context, slug string, date time.Time) (*model.ArticleMetric, error)
}

type articleMetricRepoImpl struct {
	db *gorm.DB
}

func NewArticleMetricRepository(db *gorm.DB) ArticleMetricRepo {
	return &articleMetricRepoImpl{db: db}
}

// SaveOrUpdateMetric 采用 Upsert 逻辑。如果 article_slug + metric_date 已存在，则更新阅读数
func (r *articleMetricRepoImpl) SaveOrUpdateMetric(ctx context.Context, metric *model.ArticleMetric) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "article_slug"}, {Name: "metric_date"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_views"}),
	}).Create(metric).Error
}

// GetArticleMetricsSince 获取 since 及之后的每日快照，按日期升序
func (r *articleMetricRepoImpl) GetArticleMetricsSince(ctx context.Context, slug string, since time.Time) ([]*model.ArticleMetric, error) {
	metrics := make([]*model.ArticleMetric, 0)
	result := r.db.WithContext(ctx).
		Where("article_slug = ?", slug).
		Where("metric_date >= ?", since).
		Order("metric_date ASC").
		Find(&metrics)
	if result.Error != nil {
		return nil, result.Error
	}
	return metrics, nil
}

// GetLatestMetricBefore 获取指定日期前最近的一条快照，用于补齐趋势起点
func (r *articleMetricRepoImpl) GetLatestMetricBefore(ctx context.Context, slug string, date time.Time) (*model.ArticleMetric, error) {
	var metric model.ArticleMetric
	err := r.db.WithContext(ctx).
		Where("article_slug = ? AND metric_date < ?", slug, date).
		Order("metric_date DESC").
		First(&metric).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &metric, nil
}
