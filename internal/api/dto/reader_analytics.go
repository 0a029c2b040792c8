package dto

import "time"

// TrendingArticleDTO 日榜条目
type TrendingArticleDTO struct {
	ArticleSlug string `json:"articleSlug"`
	Title       string `json:"title"`
	Views       int64  `json:"views"`
}

// AnalyticsOverviewDTO 后台概览
type AnalyticsOverviewDTO struct {
	Date             string                `json:"date"`
	TotalViews       int64                 `json:"totalViews"`
	ArticleCount     int64                 `json:"articleCount"`
	TodayEvents      int64                 `json:"todayEvents"`
	TodayUniqueViews int64                 `json:"todayUniqueViews"`
	Trending         []*TrendingArticleDTO `json:"trending"`
}

// ArticleMetricDTO 趋势点
type ArticleMetricDTO struct {
	Date  string `json:"date"`
	Value int64  `json:"value"`
}

// ArticleTrendDTO 文章阅读趋势
type ArticleTrendDTO struct {
	ArticleSlug string              `json:"articleSlug"`
	Days        int                 `json:"days"` // 7 或 30
	Views       []*ArticleMetricDTO `json:"views"`
}

// RecentEventsReq 最近事件查询参数
type RecentEventsReq struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}

// AnalyticsEventDTO 后台展示的单条阅读事件
type AnalyticsEventDTO struct {
	ID            string    `json:"id"`
	ArticleSlug   string    `json:"articleSlug"`
	ArticleTitle  string    `json:"articleTitle"`
	ClientAddress string    `json:"clientAddress"`
	UserAgent     string    `json:"userAgent"`
	SessionID     string    `json:"sessionId"`
	Referrer      string    `json:"referrer,omitempty"`
	ViewedAt      time.Time `json:"viewedAt"`
	IsUniqueView  bool      `json:"isUniqueView"`
	ViewDuration  *float64  `json:"viewDuration,omitempty"`
	ScrollDepth   *float64  `json:"scrollDepth,omitempty"`
}
