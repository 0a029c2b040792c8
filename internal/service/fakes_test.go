package service

import (
	"NewsDesk/internal/model"
	"NewsDesk/internal/pkg/kafka"
	"NewsDesk/internal/pkg/mongo"
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeArticleRepo struct {
	mu        sync.Mutex
	articles  map[string]*mongo.Article
	findErr   error
	incErr    error
	incCalls  int
	summaries *mongo.ViewSummary
}

func newFakeArticleRepo(articles ...*mongo.Article) *fakeArticleRepo {
	r := &fakeArticleRepo{articles: map[string]*mongo.Article{}}
	for _, a := range articles {
		r.articles[a.Slug] = a
	}
	return r
}

func (r *fakeArticleRepo) viewCount(slug string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.articles[slug].ViewCount
}

func (r *fakeArticleRepo) FindBySlug(_ context.Context, slug string) (*mongo.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.findErr != nil {
		return nil, r.findErr
	}
	a, ok := r.articles[slug]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeArticleRepo) FindBySlugs(_ context.Context, slugs []string) ([]*mongo.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]*mongo.Article, 0)
	for _, s := range slugs {
		if a, ok := r.articles[s]; ok {
			cp := *a
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (r *fakeArticleRepo) IncrementViewCount(_ context.Context, slug string) (*mongo.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.incCalls++
	if r.incErr != nil {
		return nil, r.incErr
	}
	a, ok := r.articles[slug]
	if !ok {
		return nil, nil
	}
	a.ViewCount++
	cp := *a
	return &cp, nil
}

func (r *fakeArticleRepo) FindTopByViewCount(_ context.Context, limit int) ([]*mongo.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]*mongo.Article, 0, len(r.articles))
	for _, a := range r.articles {
		cp := *a
		res = append(res, &cp)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ViewCount > res[j].ViewCount })
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

func (r *fakeArticleRepo) SummarizeViews(context.Context) (*mongo.ViewSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.summaries != nil {
		return r.summaries, nil
	}
	sum := &mongo.ViewSummary{}
	for _, a := range r.articles {
		sum.TotalViews += a.ViewCount
		sum.ArticleCount++
	}
	return sum, nil
}

type fakeEventRepo struct {
	mu        sync.Mutex
	events    []*mongo.AnalyticsEvent
	insertErr error
	countErr  error
	updateErr error
}

func (r *fakeEventRepo) all() []*mongo.AnalyticsEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*mongo.AnalyticsEvent(nil), r.events...)
}

func (r *fakeEventRepo) InsertEvent(_ context.Context, event *mongo.AnalyticsEvent) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return "", r.insertErr
	}
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now()
	r.events = append(r.events, event)
	return event.ID.Hex(), nil
}

func (r *fakeEventRepo) CountEventsInWindow(_ context.Context, slug, clientAddress string, start, end time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countErr != nil {
		return 0, r.countErr
	}
	var n int64
	for _, e := range r.events {
		if e.ArticleSlug == slug && e.ClientAddress == clientAddress &&
			!e.ViewedAt.Before(start) && e.ViewedAt.Before(end) {
			n++
		}
	}
	return n, nil
}

func (r *fakeEventRepo) UpdateLatestEngagement(_ context.Context, slug, sessionID string, kind mongo.EngagementKind, value float64) (*mongo.AnalyticsEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	var latest *mongo.AnalyticsEvent
	for _, e := range r.events {
		if e.ArticleSlug != slug || e.SessionID != sessionID {
			continue
		}
		if latest == nil || e.ViewedAt.After(latest.ViewedAt) {
			latest = e
		}
	}
	if latest == nil {
		return nil, nil
	}
	v := value
	switch kind {
	case mongo.EngagementDuration:
		latest.ViewDuration = &v
	case mongo.EngagementScrollDepth:
		latest.ScrollDepth = &v
	default:
		return nil, mongo.ErrUnknownEngagementKind
	}
	cp := *latest
	return &cp, nil
}

func (r *fakeEventRepo) CountEventsBetween(_ context.Context, start, end time.Time, uniqueOnly bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countErr != nil {
		return 0, r.countErr
	}
	var n int64
	for _, e := range r.events {
		if e.ViewedAt.Before(start) || !e.ViewedAt.Before(end) {
			continue
		}
		if uniqueOnly && !e.IsUniqueView {
			continue
		}
		n++
	}
	return n, nil
}

func (r *fakeEventRepo) GetRecentEvents(_ context.Context, slug string, limit int) ([]*mongo.AnalyticsEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]*mongo.AnalyticsEvent, 0)
	for _, e := range r.events {
		if e.ArticleSlug == slug {
			res = append(res, e)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].ViewedAt.After(res[j].ViewedAt) })
	if len(res) > limit {
		res = res[:limit]
	}
	return res, nil
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []*kafka.ViewMessage
	err      error
}

func (p *fakePublisher) PublishView(_ context.Context, msg *kafka.ViewMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

type fakeCache struct {
	mu      sync.Mutex
	values  map[string]string
	zsets   map[string][]goredis.Z
	deleted []string
	zErr    error
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}, zsets: map[string][]goredis.Z{}}
}

func (c *fakeCache) GetValue(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key], nil
}

func (c *fakeCache) SetJSONUntil(_ context.Context, key string, value interface{}, _ time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.values[key] = string(b)
	return nil
}

func (c *fakeCache) DeleteKey(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.values, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}

func (c *fakeCache) Rename(context.Context, string, string) error { return nil }
func (c *fakeCache) SAdd(context.Context, string, ...string) error { return nil }
func (c *fakeCache) GetSet(context.Context, string) ([]string, error) { return nil, nil }
func (c *fakeCache) ZIncrByWithExpiration(context.Context, string, string, float64, time.Duration) error {
	return nil
}

func (c *fakeCache) ZRevRangeWithScores(_ context.Context, key string, start, stop int64) ([]goredis.Z, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.zErr != nil {
		return nil, c.zErr
	}
	zs := c.zsets[key]
	if int(stop) < len(zs)-1 {
		zs = zs[:stop+1]
	}
	return zs, nil
}

type fakeMetricRepo struct {
	mu      sync.Mutex
	metrics []*model.ArticleMetric
	saveErr error
}

func (r *fakeMetricRepo) SaveOrUpdateMetric(_ context.Context, metric *model.ArticleMetric) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	for _, m := range r.metrics {
		if m.ArticleSlug == metric.ArticleSlug && m.MetricDate.Equal(metric.MetricDate) {
			m.TotalViews = metric.TotalViews
			return nil
		}
	}
	r.metrics = append(r.metrics, metric)
	return nil
}

func (r *fakeMetricRepo) GetArticleMetricsSince(_ context.Context, slug string, since time.Time) ([]*model.ArticleMetric, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := make([]*model.ArticleMetric, 0)
	for _, m := range r.metrics {
		if m.ArticleSlug == slug && !m.MetricDate.Before(since) {
			res = append(res, m)
		}
	}
	sort.Slice(res, func(i, j int) bool { return res[i].MetricDate.Before(res[j].MetricDate) })
	return res, nil
}

func (r *fakeMetricRepo) GetLatestMetricBefore(_ context.Context, slug string, date time.Time) (*model.ArticleMetric, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *model.ArticleMetric
	for _, m := range r.metrics {
		if m.ArticleSlug == slug && m.MetricDate.Before(date) {
			if latest == nil || m.MetricDate.After(latest.MetricDate) {
				latest = m
			}
		}
	}
	return latest, nil
}

type fakeSearchRepo struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func (r *fakeSearchRepo) UpdateViewCount(_ context.Context, slug string, viewCount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if r.counts == nil {
		r.counts = map[string]int64{}
	}
	r.counts[slug] = viewCount
	return nil
}

func ptr[T any](v T) *T {
	return &v
}
