package consts

import "time"

const (
	ArticleTrendingKey    = "article:trending:"
	ArticleDirtyKey       = "article:dirty"
	ArticleTrend7DaysKey  = "article:trend:7days:"
	ArticleTrend30DaysKey = "article:trend:30days:"
	TokenBlacklistKey     = "auth:blacklist:"
)

// TrendingTTL 日榜保留两天，便于跨零点查询前一天
const TrendingTTL = 48 * time.Hour
