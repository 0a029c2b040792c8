package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UnknownArticleTitle 文章不存在时事件中记录的标题
const UnknownArticleTitle = "unknown"

// AnalyticsEvent 一次文章浏览的明细记录，只追加不删除
type AnalyticsEvent struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ArticleSlug     string             `bson:"article_slug" json:"articleSlug"`
	ArticleTitle    string             `bson:"article_title" json:"articleTitle"`   // 写入时的标题快照
	ClientAddress   string             `bson:"client_address" json:"clientAddress"` // 尽力而为的客户端地址，仅用于启发式去重
	UserAgent       string             `bson:"user_agent" json:"userAgent"`
	SessionID       string             `bson:"session_id" json:"sessionId"` // 客户端会话标识，只用于互动数据回填
	Referrer        string             `bson:"referrer,omitempty" json:"referrer"`
	ViewedAt        time.Time          `bson:"viewed_at" json:"viewedAt"`
	ClientTimestamp *time.Time         `bson:"client_timestamp,omitempty" json:"clientTimestamp,omitempty"`
	IsUniqueView    bool               `bson:"is_unique_view" json:"isUniqueView"` // 创建时确定，不再重算
	ViewDuration    *float64           `bson:"view_duration,omitempty" json:"viewDuration,omitempty"`
	ScrollDepth     *float64           `bson:"scroll_depth,omitempty" json:"scrollDepth,omitempty"`
	ClientInfo      *ClientInfo        `bson:"client_info,omitempty" json:"clientInfo,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
}

// ClientInfo 浏览器上报的环境信息，不做校验，Extra 保存未识别的键
type ClientInfo struct {
	URL            string         `bson:"url,omitempty" json:"url,omitempty"`
	Pathname       string         `bson:"pathname,omitempty" json:"pathname,omitempty"`
	Language       string         `bson:"language,omitempty" json:"language,omitempty"`
	Platform       string         `bson:"platform,omitempty" json:"platform,omitempty"`
	ScreenWidth    int            `bson:"screen_width,omitempty" json:"screenWidth,omitempty"`
	ScreenHeight   int            `bson:"screen_height,omitempty" json:"screenHeight,omitempty"`
	ViewportWidth  int            `bson:"viewport_width,omitempty" json:"viewportWidth,omitempty"`
	ViewportHeight int            `bson:"viewport_height,omitempty" json:"viewportHeight,omitempty"`
	Timezone       string         `bson:"timezone,omitempty" json:"timezone,omitempty"`
	Extra          map[string]any `bson:"extra,omitempty" json:"extra,omitempty"`
}

// EngagementKind 互动数据类型
type EngagementKind int

const (
	EngagementDuration EngagementKind = iota + 1
	EngagementScrollDepth
)

// Field 对应的文档字段
func (k EngagementKind) Field() string {
	switch k {
	case EngagementDuration:
		return "view_duration"
	case EngagementScrollDepth:
		return "scroll_depth"
	}
	return ""
}
