package service

import (
	"NewsDesk/internal/api/dto"
	"NewsDesk/internal/pkg/consts"
	"NewsDesk/internal/pkg/kafka"
	"NewsDesk/internal/pkg/mongo"
	"NewsDesk/internal/pkg/util"
	"context"
	"fmt"
	log "log/slog"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// ViewTrackerService 阅读上报与互动数据回填
type ViewTrackerService interface {
	// RecordView 记录一次阅读，按 客户端地址+自然日 判断是否为唯一阅读
	RecordView(ctx context.Context, req *dto.ViewTrackReq) (*dto.ViewTrackResultDTO, error)
	// RecordEngagement 将阅读时长或滚动深度写到该会话最近的一条阅读事件上
	RecordEngagement(ctx context.Context, req *dto.EngagementReq) (*dto.EngagementResultDTO, error)
}

type viewTrackerServiceImpl struct {
	articleRepo mongo.ArticleRepo
	eventRepo   mongo.AnalyticsEventRepo
	publisher   kafka.ViewPublisher
	loc         *time.Location
	maxSkew     time.Duration
	now         func() time.Time
}

func NewViewTrackerService(
	articleRepo mongo.ArticleRepo,
	eventRepo mongo.AnalyticsEventRepo,
	publisher kafka.ViewPublisher,
	loc *time.Location,
	maxSkew time.Duration,
) ViewTrackerService {
	if loc == nil {
		loc = time.UTC
	}
	return &viewTrackerServiceImpl{
		articleRepo: articleRepo,
		eventRepo:   eventRepo,
		publisher:   publisher,
		loc:         loc,
		maxSkew:     maxSkew,
		now:         time.Now,
	}
}

func storageUnavailable(err error) error {
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}

func (s *viewTrackerServiceImpl) RecordView(ctx context.Context, req *dto.ViewTrackReq) (*dto.ViewTrackResultDTO, error) {
	if req == nil {
		return nil, ErrParamInvalid
	}
	slug := strings.TrimSpace(req.ArticleSlug)
	if slug == "" {
		return nil, ErrParamInvalid
	}

	viewedAt, clientTs := s.resolveViewedAt(req.Timestamp)

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	clientAddress := util.NormalizeClientAddress(req.ClientAddress)
	if clientAddress == "" {
		clientAddress = consts.UnknownClientAddress
	}
	userAgent := strings.TrimSpace(req.UserAgent)
	if userAgent == "" {
		userAgent = consts.UnknownUserAgent
	}

	article, err := s.articleRepo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, storageUnavailable(err)
	}

	// 先计数再插入，本次事件不会把自己算进去
	start, end := util.DayWindow(viewedAt, s.loc)
	prior, err := s.eventRepo.CountEventsInWindow(ctx, slug, clientAddress, start, end)
	if err != nil {
		return nil, storageUnavailable(err)
	}
	isUnique := prior == 0

	event := &mongo.AnalyticsEvent{
		ArticleSlug:     slug,
		ArticleTitle:    mongo.UnknownArticleTitle,
		ClientAddress:   clientAddress,
		UserAgent:       userAgent,
		SessionID:       sessionID,
		Referrer:        strings.TrimSpace(req.Referrer),
		ViewedAt:        viewedAt,
		ClientTimestamp: clientTs,
		IsUniqueView:    isUnique,
	}
	if article != nil {
		event.ArticleTitle = article.Title
	}
	if req.ClientInfo != nil {
		info := &mongo.ClientInfo{}
		if err = copier.Copy(info, req.ClientInfo); err != nil {
			log.WarnContext(ctx, "copy client info failed", "err", err)
		} else {
			event.ClientInfo = info
		}
	}

	trackingID, err := s.eventRepo.InsertEvent(ctx, event)
	if err != nil {
		return nil, storageUnavailable(err)
	}

	res := &dto.ViewTrackResultDTO{
		TrackingID:   trackingID,
		ArticleSlug:  slug,
		SessionID:    sessionID,
		IsUniqueView: isUnique,
		ArticleFound: article != nil,
	}

	if article == nil {
		log.WarnContext(ctx, "view recorded for unknown article", "slug", slug, "tracking_id", trackingID)
		return res, nil
	}
	res.NewViewCount = article.ViewCount
	if !isUnique {
		return res, nil
	}

	updated, err := s.articleRepo.IncrementViewCount(ctx, slug)
	if err != nil {
		// 事件已落库，计数失败只记录日志
		log.ErrorContext(ctx, "increment view count failed", "slug", slug, "tracking_id", trackingID, "err", err)
		return res, nil
	}
	if updated == nil {
		log.WarnContext(ctx, "article removed before increment", "slug", slug)
		return res, nil
	}
	res.NewViewCount = updated.ViewCount

	if err = s.publisher.PublishView(ctx, &kafka.ViewMessage{
		ArticleSlug:  slug,
		ArticleTitle: updated.Title,
		ViewCount:    updated.ViewCount,
		ViewedAt:     viewedAt,
	}); err != nil {
		log.WarnContext(ctx, "publish view message failed", "slug", slug, "err", err)
	}

	return res, nil
}

// 9999-12-31T23:59:59.999Z
const maxClientTimestamp = 253402300799999

// resolveViewedAt 客户端时间在允许偏差内时采用客户端时间，否则使用服务端时间
// 时间戳的小数部分截断到毫秒，非法值视为未上报
func (s *viewTrackerServiceImpl) resolveViewedAt(timestamp *float64) (time.Time, *time.Time) {
	now := s.now()
	if timestamp == nil {
		return now, nil
	}
	ts := *timestamp
	if math.IsNaN(ts) || ts <= 0 || ts > maxClientTimestamp {
		return now, nil
	}
	clientTs := time.UnixMilli(int64(math.Trunc(ts)))
	diff := now.Sub(clientTs)
	if diff < 0 {
		diff = -diff
	}
	if diff <= s.maxSkew {
		return clientTs, &clientTs
	}
	return now, &clientTs
}

func (s *viewTrackerServiceImpl) RecordEngagement(ctx context.Context, req *dto.EngagementReq) (*dto.EngagementResultDTO, error) {
	if req == nil {
		return nil, ErrParamInvalid
	}
	slug := strings.TrimSpace(req.ArticleSlug)
	sessionID := strings.TrimSpace(req.SessionID)
	if slug == "" || sessionID == "" {
		return nil, ErrParamInvalid
	}

	kind, value, err := engagementOf(req)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.UpdateLatestEngagement(ctx, slug, sessionID, kind, value)
	if err != nil {
		return nil, storageUnavailable(err)
	}
	if event == nil {
		log.InfoContext(ctx, "no view event for engagement", "slug", slug, "session_id", sessionID)
		return &dto.EngagementResultDTO{Updated: false}, nil
	}
	return &dto.EngagementResultDTO{Updated: true}, nil
}

func engagementOf(req *dto.EngagementReq) (mongo.EngagementKind, float64, error) {
	switch req.Action {
	case consts.ActionTrackDuration:
		if req.ViewDuration == nil || *req.ViewDuration < 0 {
			return 0, 0, ErrParamInvalid
		}
		return mongo.EngagementDuration, *req.ViewDuration, nil
	case consts.ActionTrackScroll:
		if req.ScrollDepth == nil || *req.ScrollDepth < 0 || *req.ScrollDepth > consts.MaxScrollDepth {
			return 0, 0, ErrParamInvalid
		}
		return mongo.EngagementScrollDepth, *req.ScrollDepth, nil
	}
	return 0, 0, ErrParamInvalid
}
