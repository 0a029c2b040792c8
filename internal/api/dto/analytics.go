package dto

import (
	"github.com/goccy/go-json"
)

// ViewTrackReq 阅读上报请求，ClientAddress 与 UserAgent 由 handler 从请求元数据填充
type ViewTrackReq struct {
	ArticleSlug   string         `json:"articleSlug" binding:"required" validate:"required,max=200"`
	SessionID     string         `json:"sessionId" validate:"max=128"`
	Referrer      string         `json:"referrer" validate:"max=2048"`
	Timestamp     *float64       `json:"timestamp"` // 客户端毫秒时间戳，允许带小数
	ClientInfo    *ClientInfoDTO `json:"clientInfo"`
	ClientAddress string         `json:"-"`
	UserAgent     string         `json:"-"`
}

// ClientInfoDTO 浏览器上报的环境信息，未知字段进入 Extra
type ClientInfoDTO struct {
	URL            string         `json:"url,omitempty"`
	Pathname       string         `json:"pathname,omitempty"`
	Language       string         `json:"language,omitempty"`
	Platform       string         `json:"platform,omitempty"`
	ScreenWidth    *int           `json:"screenWidth,omitempty"`
	ScreenHeight   *int           `json:"screenHeight,omitempty"`
	ViewportWidth  *int           `json:"viewportWidth,omitempty"`
	ViewportHeight *int           `json:"viewportHeight,omitempty"`
	Timezone       string         `json:"timezone,omitempty"`
	Extra          map[string]any `json:"extra,omitempty"`
}

// UnmarshalJSON 已知字段按类型解析，类型不符或未知的字段原样放进 Extra
func (c *ClientInfoDTO) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	known := map[string]any{
		"url":            &c.URL,
		"pathname":       &c.Pathname,
		"language":       &c.Language,
		"platform":       &c.Platform,
		"screenWidth":    &c.ScreenWidth,
		"screenHeight":   &c.ScreenHeight,
		"viewportWidth":  &c.ViewportWidth,
		"viewportHeight": &c.ViewportHeight,
		"timezone":       &c.Timezone,
	}

	for key, value := range raw {
		if target, ok := known[key]; ok {
			if err := json.Unmarshal(value, target); err == nil {
				continue
			}
		}
		var v any
		if err := json.Unmarshal(value, &v); err != nil {
			return err
		}
		if c.Extra == nil {
			c.Extra = make(map[string]any)
		}
		c.Extra[key] = v
	}
	return nil
}

// ViewTrackResultDTO 阅读上报结果
type ViewTrackResultDTO struct {
	TrackingID   string `json:"trackingId"`
	ArticleSlug  string `json:"articleSlug"`
	SessionID    string `json:"sessionId"`
	NewViewCount int64  `json:"newViewCount"`
	IsUniqueView bool   `json:"isUniqueView"`
	ArticleFound bool   `json:"articleFound"`
}

// EngagementReq 阅读时长 / 滚动深度上报
type EngagementReq struct {
	ArticleSlug  string   `json:"articleSlug" binding:"required" validate:"required"`
	SessionID    string   `json:"sessionId" binding:"required" validate:"required"`
	Action       string   `json:"action" binding:"required" validate:"oneof=track-duration track-scroll"`
	ViewDuration *float64 `json:"viewDuration" validate:"omitempty,gte=0"`
	ScrollDepth  *float64 `json:"scrollDepth" validate:"omitempty,gte=0,lte=100"`
}

type EngagementResultDTO struct {
	Updated bool `json:"updated"`
}
