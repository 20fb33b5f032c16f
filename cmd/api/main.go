package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"shopapi/internal/config"
	"shopapi/internal/domain/model"
	"shopapi/internal/events"
	"shopapi/internal/handler"
	"shopapi/internal/infra/cache"
	"shopapi/internal/infra/db"
	infraRepo "shopapi/internal/infra/repository"
	"shopapi/internal/metrics"
	"shopapi/internal/server"
	"shopapi/internal/usecase"

	"github.com/golang-jwt/jwt/v4"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
)

// HS256のJWT発行。検証はmiddleware側。
type jwtIssuer struct {
	secret []byte
}

func (i *jwtIssuer) Issue(userID int64, role model.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatInt(userID, 10),
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(i.secret)
}

func main() {
	// .envは無ければ無いでよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "err", err)
		os.Exit(1)
	}

	// DB接続
	gormDB, err := db.Connect()
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		slog.Error("migrate failed", "err", err)
		os.Exit(1)
	}

	// キャッシュ（REDIS_URL未設定なら素通し）
	var c cache.Cache = cache.Disabled()
	if cfg.RedisURL != "" {
		c = cache.NewRedis(cfg.RedisURL, cfg.CacheTTL)
	}

	// イベント（KAFKA_BROKERS未設定ならno-op）
	publisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	if publisher.Enabled() {
		slog.Info("order events enabled", "topic", cfg.KafkaTopic)
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	// Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	issuer := &jwtIssuer{secret: []byte(cfg.JWTSecret)}

	// Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, issuer, cfg.AccessTTL, cfg.RefreshTTL)
	productUC := usecase.NewProductUsecase(productRepo, c, m)
	cartUC := usecase.NewCartUsecase(cartRepo, cartRepo, productRepo)
	checkoutUC := usecase.NewCheckoutUsecase(txManager, publisher, m)
	paymentUC := usecase.NewPaymentUsecase(txManager, orderRepo, orderItemRepo, c, publisher, m)
	orderUC := usecase.NewOrderUsecase(orderRepo, orderItemRepo)

	// Handler生成
	handlers := server.Handlers{
		Auth:     handler.NewAuthHandler(authUC),
		Products: handler.NewProductHandler(productUC),
		Cart:     handler.NewCartHandler(cartUC),
		Checkout: handler.NewCheckoutHandler(checkoutUC),
		Payments: handler.NewPaymentHandler(paymentUC),
		Orders:   handler.NewOrderHandler(orderUC),
		Admin:    handler.NewAdminHandler(productUC, authUC),
	}

	e := server.New(cfg, m, handlers)

	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		addr := ":" + cfg.Port
		slog.Info("listening", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "err", err)
	}

	_ = publisher.Close()
	_ = c.Close()
}
