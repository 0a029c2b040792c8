package kafka

import "time"

// ViewMessage 一次唯一阅读对应的消息，key 为文章 slug
type ViewMessage struct {
	ArticleSlug  string    `json:"articleSlug"`
	ArticleTitle string    `json:"articleTitle"`
	ViewCount    int64     `json:"viewCount"`
	ViewedAt     time.Time `json:"viewedAt"`
}
