package job

import (
	"NewsDesk/internal/pkg/consts"
	"NewsDesk/internal/pkg/logger"
	"NewsDesk/internal/pkg/redis"
	"NewsDesk/internal/service"
	"context"
	log "log/slog"
	"strings"

	"github.com/google/uuid"
)

const articleProcessingKey = consts.ArticleDirtyKey + ":processing"

// ArticleMetricsJob 将有新阅读的文章刷入每日快照
type ArticleMetricsJob struct {
	cache     redis.Cache
	metricSvc service.ArticleMetricService
}

func NewArticleMetricsJob(cache redis.Cache, metricSvc service.ArticleMetricService) *ArticleMetricsJob {
	return &ArticleMetricsJob{
		cache:     cache,
		metricSvc: metricSvc,
	}
}

func (s *ArticleMetricsJob) Run() {
	traceID := "job-article-" + uuid.NewString()
	ctx := logger.WithTraceID(context.Background(), traceID)

	// 上一轮中断时残留的集合先读出来，避免被 Rename 覆盖
	leftover, err := s.cache.GetSet(ctx, articleProcessingKey)
	if err != nil {
		log.ErrorContext(ctx, "get article processing set error", "err", err)
		return
	}

	var fresh []string
	err = s.cache.Rename(ctx, consts.ArticleDirtyKey, articleProcessingKey)
	switch {
	case err == nil:
		fresh, err = s.cache.GetSet(ctx, articleProcessingKey)
		if err != nil {
			log.ErrorContext(ctx, "get article dirty set error", "err", err)
			return
		}
	case strings.Contains(err.Error(), "no such key"):
	default:
		log.ErrorContext(ctx, "rename article dirty set error", "err", err)
		return
	}

	slugs := mergeSlugs(leftover, fresh)
	if len(slugs) == 0 {
		return
	}

	var failed []string
	for _, slug := range slugs {
		if err = s.metricSvc.SyncArticleMetric(ctx, slug); err != nil {
			log.ErrorContext(ctx, "sync article daily metric error", "slug", slug, "err", err)
			failed = append(failed, slug)
		}
	}

	// 失败的文章放回待处理集合，下一轮重试
	if len(failed) > 0 {
		if err = s.cache.SAdd(ctx, consts.ArticleDirtyKey, failed...); err != nil {
			log.ErrorContext(ctx, "requeue failed articles error", "err", err)
		}
	}

	if err = s.cache.DeleteKey(ctx, articleProcessingKey); err != nil {
		log.ErrorContext(ctx, "delete article processing set error", "err", err)
	}

	log.InfoContext(ctx, "sync article metrics success",
		"article_count", len(slugs),
		"failed_count", len(failed))
}

func mergeSlugs(lists ...[]string) []string {
	seen := make(map[string]struct{})
	res := make([]string, 0)
	for _, list := range lists {
		for _, slug := range list {
			if _, ok := seen[slug]; ok {
				continue
			}
			seen[slug] = struct{}{}
			res = append(res, slug)
		}
	}
	return res
}
