package kafka

import (
	"NewsDesk/internal/pkg/consts"
	"NewsDesk/internal/pkg/redis"
	"NewsDesk/internal/pkg/util"
	"context"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
)

// ViewsHandler 维护日榜与待同步文章集合
type ViewsHandler struct {
	cache redis.Cache
	loc   *time.Location
}

func NewViewsHandler(cache redis.Cache, loc *time.Location) *ViewsHandler {
	return &ViewsHandler{cache: cache, loc: loc}
}

func (s *ViewsHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("article view consumer setup")
	return nil
}

func (s *ViewsHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("article view consumer cleanup")
	return nil
}

func (s *ViewsHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-view consume claim")
	err := pullMessageBatch(session, claim, s.logic)
	if err != nil {
		log.Error("topic-view process batch error", "err", err)
		return err
	}
	return nil
}

func (s *ViewsHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	viewMsg, err := ToViewMessage(msg)
	if err != nil {
		// 无法解析的消息重试也没有意义
		log.WarnContext(ctx, "drop malformed view message", "err", err, "offset", msg.Offset)
		return nil
	}

	key := consts.ArticleTrendingKey + util.DateKey(viewMsg.ViewedAt, s.loc)
	if err = s.cache.ZIncrByWithExpiration(ctx, key, viewMsg.ArticleSlug, 1, consts.TrendingTTL); err != nil {
		return err
	}
	return s.cache.SAdd(ctx, consts.ArticleDirtyKey, viewMsg.ArticleSlug)
}
