package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	JWTSecret  string        // JWT署名シークレット
	AccessTTL  time.Duration // アクセストークン有効期間
	RefreshTTL time.Duration // リフレッシュトークン有効期間

	RedisURL string        // 空ならキャッシュ無効
	CacheTTL time.Duration // キャッシュTTL

	KafkaBrokers string // カンマ区切り。空ならイベント無効
	KafkaTopic   string

	FrontendURL string  // CORSで許可するオリジン
	RateLimit   float64 // 1秒あたりの許可リクエスト数

	Env string // dev/prod
}

// Loadは環境変数から設定を組み立てる。DB接続情報はinfra/dbが直接読む。
func Load() (Config, error) {
	cfg := Config{
		Port:         getenv("PORT", "8080"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		RedisURL:     os.Getenv("REDIS_URL"),
		KafkaBrokers: os.Getenv("KAFKA_BROKERS"),
		KafkaTopic:   getenv("KAFKA_TOPIC", "shop.order-events"),
		FrontendURL:  getenv("FE_URL", "http://localhost:3000"),
		Env:          getenv("APP_ENV", "dev"),
	}

	accessMin, err := atoiDefault("ACCESS_TOKEN_EXPIRES_MIN", 15)
	if err != nil {
		return Config{}, err
	}
	refreshMin, err := atoiDefault("REFRESH_TOKEN_EXPIRES_MIN", 1440)
	if err != nil {
		return Config{}, err
	}
	cacheSec, err := atoiDefault("CACHE_TTL_SECONDS", 300)
	if err != nil {
		return Config{}, err
	}
	rateLimit, err := atoiDefault("RATE_LIMIT_PER_SEC", 20)
	if err != nil {
		return Config{}, err
	}

	cfg.AccessTTL = time.Duration(accessMin) * time.Minute
	cfg.RefreshTTL = time.Duration(refreshMin) * time.Minute
	cfg.CacheTTL = time.Duration(cacheSec) * time.Second
	cfg.RateLimit = float64(rateLimit)

	// 必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}
