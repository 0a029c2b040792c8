package es

import (
	"bytes"
	"context"
	"errors"
	log "log/slog"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/goccy/go-json"
)

// ArticleRepo 搜索索引中的文章文档，文档 ID 为 slug
type ArticleRepo interface {
	UpdateViewCount(ctx context.Context, slug string, viewCount int64) error
}

type ArticleRepoImpl struct {
	client *elasticsearch.TypedClient
	index  string
}

// NewArticleRepo client 为 nil 时返回空实现
func NewArticleRepo(client *elasticsearch.TypedClient, index string) ArticleRepo {
	if client == nil {
		return noopArticleRepo{}
	}
	return &ArticleRepoImpl{client: client, index: index}
}

type partialDoc struct {
	Doc map[string]any `json:"doc"`
}

func (s *ArticleRepoImpl) UpdateViewCount(ctx context.Context, slug string, viewCount int64) error {
	body, err := json.Marshal(partialDoc{Doc: map[string]any{"view_count": viewCount}})
	if err != nil {
		return err
	}

	_, err = s.client.Update(s.index, slug).Raw(bytes.NewReader(body)).Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				log.WarnContext(ctx, "article not indexed, skip view count sync", "slug", slug)
				return nil
			}
		}
		return err
	}
	return nil
}

type noopArticleRepo struct{}

func (noopArticleRepo) UpdateViewCount(context.Context, string, int64) error { return nil }
