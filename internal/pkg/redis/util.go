package redis

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// Cache 业务使用到的 Redis 操作
type Cache interface {
	GetValue(ctx context.Context, key string) (string, error)
	SetJSONUntil(ctx context.Context, key string, value interface{}, deadline time.Time) error
	DeleteKey(ctx context.Context, keys ...string) error
	Rename(ctx context.Context, oldKey string, newKey string) error
	SAdd(ctx context.Context, key string, members ...string) error
	GetSet(ctx context.Context, key string) ([]string, error)
	ZIncrByWithExpiration(ctx context.Context, key, member string, incr float64, expiration time.Duration) error
	ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]redis.Z, error)
}

type cacheImpl struct {
	rdb *redis.Client
}

func NewCache(rdb *redis.Client) Cache {
	return &cacheImpl{rdb: rdb}
}

// GetValue 获取字符串类型的值，key 不存在时返回空串
func (s *cacheImpl) GetValue(ctx context.Context, key string) (string, error) {
	value, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// SetJSONUntil 序列化为 JSON 后写入，并在 deadline 过期
func (s *cacheImpl) SetJSONUntil(ctx context.Context, key string, value interface{}, deadline time.Time) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	ttl := time.Until(deadline)
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, key, b, ttl).Err()
}

// DeleteKey 删除键
func (s *cacheImpl) DeleteKey(ctx context.Context, keys ...string) error {
	return s.rdb.Del(ctx, keys...).Err()
}

func (s *cacheImpl) Rename(ctx context.Context, oldKey string, newKey string) error {
	return s.rdb.Rename(ctx, oldKey, newKey).Err()
}

// SAdd 向集合添加成员
func (s *cacheImpl) SAdd(ctx context.Context, key string, members ...string) error {
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	return s.rdb.SAdd(ctx, key, args...).Err()
}

// GetSet 获取集合
func (s *cacheImpl) GetSet(ctx context.Context, key string) ([]string, error) {
	return s.rdb.SMembers(ctx, key).Result()
}

// ZIncrByWithExpiration 增加有序集合成员分数并刷新过期时间
func (s *cacheImpl) ZIncrByWithExpiration(ctx context.Context, key, member string, incr float64, expiration time.Duration) error {
	pipe := s.rdb.TxPipeline()
	pipe.ZIncrBy(ctx, key, incr, member)
	pipe.Expire(ctx, key, expiration)
	_, err := pipe.Exec(ctx)
	return err
}

// ZRevRangeWithScores 按分数从高到低取区间成员
func (s *cacheImpl) ZRevRangeWithScores(ctx context.Context, key string, start, stop int64) ([]redis.Z, error) {
	return s.rdb.ZRevRangeWithScores(ctx, key, start, stop).Result()
}
