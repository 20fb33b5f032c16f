// Package cache は商品カタログ読み取り用のredisキャッシュ。
// 接続できない・設定が無い場合はすべて素通し（デグレード動作）で、呼び出し側は失敗を意識しない。
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "shopapi"

type Cache interface {
	Get(ctx context.Context, namespace string, key string) ([]byte, bool)
	Set(ctx context.Context, namespace string, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, namespace string, key string)
	// namespace内でパターン一致するキーをまとめて削除（SCANベース）。削除件数を返す。
	DeletePattern(ctx context.Context, namespace string, pattern string) int
	Close() error
}

type RedisCache struct {
	rdb        *redis.Client
	defaultTTL time.Duration
}

// NewRedis はredisに接続してキャッシュハンドルを返す。
// pingに失敗したら無効ハンドルを返して起動は続行する。
func NewRedis(url string, defaultTTL time.Duration) Cache {
	opt, err := redis.ParseURL(url)
	if err != nil {
		slog.Error("redis url parse failed, cache disabled", "err", err)
		return Disabled()
	}

	rdb := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unreachable, cache disabled", "err", err)
		_ = rdb.Close()
		return Disabled()
	}

	slog.Info("redis connected", "url", url)
	return &RedisCache{rdb: rdb, defaultTTL: defaultTTL}
}

func makeKey(namespace, key string) string {
	return keyPrefix + ":" + namespace + ":" + key
}

func (c *RedisCache) Get(ctx context.Context, namespace string, key string) ([]byte, bool) {
	v, err := c.rdb.Get(ctx, makeKey(namespace, key)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Error("cache get failed", "namespace", namespace, "key", key, "err", err)
		return nil, false
	}
	return v, true
}

func (c *RedisCache) Set(ctx context.Context, namespace string, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if err := c.rdb.Set(ctx, makeKey(namespace, key), value, ttl).Err(); err != nil {
		slog.Error("cache set failed", "namespace", namespace, "key", key, "err", err)
	}
}

func (c *RedisCache) Delete(ctx context.Context, namespace string, key string) {
	if err := c.rdb.Del(ctx, makeKey(namespace, key)).Err(); err != nil {
		slog.Error("cache delete failed", "namespace", namespace, "key", key, "err", err)
	}
}

func (c *RedisCache) DeletePattern(ctx context.Context, namespace string, pattern string) int {
	search := makeKey(namespace, pattern)

	var keys []string
	iter := c.rdb.Scan(ctx, 0, search, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		slog.Error("cache scan failed", "pattern", search, "err", err)
		return 0
	}
	if len(keys) == 0 {
		return 0
	}

	deleted, err := c.rdb.Del(ctx, keys...).Result()
	if err != nil {
		slog.Error("cache invalidation failed", "pattern", search, "err", err)
		return 0
	}
	return int(deleted)
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

// 無効キャッシュ。常にmiss、書き込みは捨てる。
type disabledCache struct{}

func Disabled() Cache { return disabledCache{} }

func (disabledCache) Get(context.Context, string, string) ([]byte, bool)      { return nil, false }
func (disabledCache) Set(context.Context, string, string, []byte, time.Duration) {}
func (disabledCache) Delete(context.Context, string, string)                  {}
func (disabledCache) DeletePattern(context.Context, string, string) int       { return 0 }
func (disabledCache) Close() error                                            { return nil }
