package service

import (
	"NewsDesk/internal/api/dto"
	"NewsDesk/internal/pkg/consts"
	"NewsDesk/internal/pkg/mongo"
	"NewsDesk/internal/pkg/redis"
	"NewsDesk/internal/pkg/util"
	"context"
	"errors"
	log "log/slog"
	"strings"
	"time"

	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReaderAnalyticsService 后台阅读数据查询
type ReaderAnalyticsService interface {
	Overview(ctx context.Context) (*dto.AnalyticsOverviewDTO, error)
	RecentEvents(ctx context.Context, slug string, limit int) ([]*dto.AnalyticsEventDTO, error)
}

type readerAnalyticsServiceImpl struct {
	articleRepo  mongo.ArticleRepo
	eventRepo    mongo.AnalyticsEventRepo
	cache        redis.Cache
	loc          *time.Location
	trendingSize int
	now          func() time.Time
}

func NewReaderAnalyticsService(
	articleRepo mongo.ArticleRepo,
	eventRepo mongo.AnalyticsEventRepo,
	cache redis.Cache,
	loc *time.Location,
	trendingSize int,
) ReaderAnalyticsService {
	if loc == nil {
		loc = time.UTC
	}
	if trendingSize <= 0 {
		trendingSize = 10
	}
	return &readerAnalyticsServiceImpl{
		articleRepo:  articleRepo,
		eventRepo:    eventRepo,
		cache:        cache,
		loc:          loc,
		trendingSize: trendingSize,
		now:          time.Now,
	}
}

func (s *readerAnalyticsServiceImpl) Overview(ctx context.Context) (*dto.AnalyticsOverviewDTO, error) {
	now := s.now()
	start, end := util.DayWindow(now, s.loc)

	summary, err := s.articleRepo.SummarizeViews(ctx)
	if err != nil {
		return nil, storageUnavailable(err)
	}
	todayEvents, err := s.eventRepo.CountEventsBetween(ctx, start, end, false)
	if err != nil {
		return nil, storageUnavailable(err)
	}
	todayUnique, err := s.eventRepo.CountEventsBetween(ctx, start, end, true)
	if err != nil {
		return nil, storageUnavailable(err)
	}

	trending, err := s.trendingToday(ctx, now)
	if err != nil {
		return nil, storageUnavailable(err)
	}

	return &dto.AnalyticsOverviewDTO{
		Date:             util.DateKey(now, s.loc),
		TotalViews:       summary.TotalViews,
		ArticleCount:     summary.ArticleCount,
		TodayEvents:      todayEvents,
		TodayUniqueViews: todayUnique,
		Trending:         trending,
	}, nil
}

// trendingToday 优先读取 Redis 日榜，为空或不可用时按累计阅读数排序
func (s *readerAnalyticsServiceImpl) trendingToday(ctx context.Context, now time.Time) ([]*dto.TrendingArticleDTO, error) {
	key := consts.ArticleTrendingKey + util.DateKey(now, s.loc)
	zs, err := s.cache.ZRevRangeWithScores(ctx, key, 0, int64(s.trendingSize-1))
	if err != nil {
		log.WarnContext(ctx, "read trending ranking failed, fallback to mongo", "err", err)
	}

	if err != nil || len(zs) == 0 {
		articles, err := s.articleRepo.FindTopByViewCount(ctx, s.trendingSize)
		if err != nil {
			return nil, err
		}
		res := make([]*dto.TrendingArticleDTO, 0, len(articles))
		for _, a := range articles {
			res = append(res, &dto.TrendingArticleDTO{ArticleSlug: a.Slug, Title: a.Title, Views: a.ViewCount})
		}
		return res, nil
	}

	slugs := make([]string, 0, len(zs))
	for _, z := range zs {
		if slug, ok := z.Member.(string); ok {
			slugs = append(slugs, slug)
		}
	}
	articles, err := s.articleRepo.FindBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	titles := make(map[string]string, len(articles))
	for _, a := range articles {
		titles[a.Slug] = a.Title
	}

	res := make([]*dto.TrendingArticleDTO, 0, len(zs))
	for _, z := range zs {
		slug, ok := z.Member.(string)
		if !ok {
			continue
		}
		title, ok := titles[slug]
		if !ok {
			title = mongo.UnknownArticleTitle
		}
		res = append(res, &dto.TrendingArticleDTO{ArticleSlug: slug, Title: title, Views: int64(z.Score)})
	}
	return res, nil
}

var objectIDConverter = copier.TypeConverter{
	SrcType: primitive.ObjectID{},
	DstType: copier.String,
	Fn: func(src interface{}) (interface{}, error) {
		id, ok := src.(primitive.ObjectID)
		if !ok {
			return nil, errors.New("src type not matching")
		}
		return id.Hex(), nil
	},
}

func (s *readerAnalyticsServiceImpl) RecentEvents(ctx context.Context, slug string, limit int) ([]*dto.AnalyticsEventDTO, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrParamInvalid
	}
	if limit <= 0 {
		limit = consts.DefaultRecentEvents
	}
	if limit > consts.MaxRecentEvents {
		limit = consts.MaxRecentEvents
	}

	events, err := s.eventRepo.GetRecentEvents(ctx, slug, limit)
	if err != nil {
		return nil, storageUnavailable(err)
	}

	res := make([]*dto.AnalyticsEventDTO, 0, len(events))
	err = copier.CopyWithOption(&res, events, copier.Option{
		Converters: []copier.TypeConverter{objectIDConverter},
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
