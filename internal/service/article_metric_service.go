package service

import (
	"NewsDesk/internal/api/dto"
	"NewsDesk/internal/model"
	"NewsDesk/internal/pkg/consts"
	"NewsDesk/internal/pkg/es"
	"NewsDesk/internal/pkg/mongo"
	"NewsDesk/internal/pkg/redis"
	"NewsDesk/internal/pkg/util"
	"NewsDesk/internal/repository"
	"context"
	log "log/slog"
	"time"

	"github.com/goccy/go-json"
)

type ArticleMetricService interface {
	// SyncArticleMetric 将文章当前阅读数写入当日快照并同步搜索索引
	SyncArticleMetric(ctx context.Context, slug string) error
	// GetArticleTrend 获取最近 7 或 30 天的阅读趋势
	GetArticleTrend(ctx context.Context, slug string, days int) (*dto.ArticleTrendDTO, error)
}

type articleMetricServiceImpl struct {
	metricRepo  repository.ArticleMetricRepo
	articleRepo mongo.ArticleRepo
	searchRepo  es.ArticleRepo
	cache       redis.Cache
	loc         *time.Location
	now         func() time.Time
}

func NewArticleMetricService(
	metricRepo repository.ArticleMetricRepo,
	articleRepo mongo.ArticleRepo,
	searchRepo es.ArticleRepo,
	cache redis.Cache,
	loc *time.Location,
) ArticleMetricService {
	if loc == nil {
		loc = time.UTC
	}
	return &articleMetricServiceImpl{
		metricRepo:  metricRepo,
		articleRepo: articleRepo,
		searchRepo:  searchRepo,
		cache:       cache,
		loc:         loc,
		now:         time.Now,
	}
}

func trendKeys(slug string) []string {
	return []string{consts.ArticleTrend7DaysKey + slug, consts.ArticleTrend30DaysKey + slug}
}

// SyncArticleMetric 实现：将 articles 集合的实时计数刷入每日指标表
func (s *articleMetricServiceImpl) SyncArticleMetric(ctx context.Context, slug string) error {
	article, err := s.articleRepo.FindBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if article == nil {
		log.WarnContext(ctx, "skip metric sync for unknown article", "slug", slug)
		return nil
	}

	today, _ := util.DayWindow(s.now(), s.loc)
	err = s.metricRepo.SaveOrUpdateMetric(ctx, &model.ArticleMetric{
		ArticleSlug: slug,
		MetricDate:  today,
		TotalViews:  article.ViewCount,
	})
	if err != nil {
		return err
	}

	if err = s.searchRepo.UpdateViewCount(ctx, slug, article.ViewCount); err != nil {
		log.ErrorContext(ctx, "sync view count to search index failed", "slug", slug, "err", err)
	}

	if err = s.cache.DeleteKey(ctx, trendKeys(slug)...); err != nil {
		log.WarnContext(ctx, "invalidate trend cache failed", "slug", slug, "err", err)
	}
	return nil
}

func (s *articleMetricServiceImpl) GetArticleTrend(ctx context.Context, slug string, days int) (*dto.ArticleTrendDTO, error) {
	var key string
	switch days {
	case 7:
		key = consts.ArticleTrend7DaysKey + slug
	case 30:
		key = consts.ArticleTrend30DaysKey + slug
	default:
		return nil, ErrParamInvalid
	}

	article, err := s.articleRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, storageUnavailable(err)
	}
	if article == nil {
		return nil, ErrArticleNotFound
	}

	if val, err := s.cache.GetValue(ctx, key); err == nil && val != "" {
		var res dto.ArticleTrendDTO
		if err = json.Unmarshal([]byte(val), &res); err == nil {
			return &res, nil
		}
	}

	now := s.now()
	today, _ := util.DayWindow(now, s.loc)
	startTime := today.AddDate(0, 0, -(days - 1))

	rawData, err := s.metricRepo.GetArticleMetricsSince(ctx, slug, startTime)
	if err != nil {
		return nil, storageUnavailable(err)
	}

	// 窗口第一天没有快照时，用之前最近的一条作为起点
	var baseline *model.ArticleMetric
	if len(rawData) == 0 || !rawData[0].MetricDate.Equal(startTime) {
		baseline, err = s.metricRepo.GetLatestMetricBefore(ctx, slug, startTime)
		if err != nil {
			return nil, storageUnavailable(err)
		}
	}

	dataMap := make(map[string]*model.ArticleMetric, len(rawData))
	for _, m := range rawData {
		dataMap[util.DateKey(m.MetricDate, s.loc)] = m
	}

	res := &dto.ArticleTrendDTO{
		ArticleSlug: slug,
		Days:        days,
		Views:       make([]*dto.ArticleMetricDTO, 0, days),
	}

	lastValid := baseline
	for i := days - 1; i >= 0; i-- {
		dateStr := util.DateKey(today.AddDate(0, 0, -i), s.loc)

		var v int64
		if val, ok := dataMap[dateStr]; ok {
			v = val.TotalViews
			lastValid = val
		} else if lastValid != nil {
			v = lastValid.TotalViews
		}
		res.Views = append(res.Views, &dto.ArticleMetricDTO{Date: dateStr, Value: v})
	}

	if err = s.cache.SetJSONUntil(ctx, key, res, util.GetMidnight(now, s.loc)); err != nil {
		log.WarnContext(ctx, "cache article trend failed", "slug", slug, "err", err)
	}

	return res, nil
}
