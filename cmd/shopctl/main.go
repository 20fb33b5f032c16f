// shopctl is the operational CLI: catalog seeding, admin bootstrap and
// cache maintenance, kept out of the API binary.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"shopapi/internal/domain/model"
	"shopapi/internal/infra/cache"
	"shopapi/internal/infra/db"
	infraRepo "shopapi/internal/infra/repository"
	repo "shopapi/internal/repository"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:   "shopctl",
	Short: "Operational tasks for the shop API",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		lvl := slog.LevelInfo
		switch strings.ToLower(viper.GetString("log-level")) {
		case "debug":
			lvl = slog.LevelDebug
		case "warn", "warning":
			lvl = slog.LevelWarn
		case "error":
			lvl = slog.LevelError
		}
		slog.SetDefault(slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}),
		))

		if dsn := viper.GetString("database-url"); dsn != "" {
			os.Setenv("DATABASE_URL", dsn)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("database-url", "", "postgres DSN (falls back to env)")
	rootCmd.PersistentFlags().String("log-level", "info", "debug|info|warn|error")
	viper.BindPFlag("database-url", rootCmd.PersistentFlags().Lookup("database-url"))
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the catalog with sample products (skipped when products exist)",
		RunE: func(cmd *cobra.Command, args []string) error {
			gormDB, err := connect()
			if err != nil {
				return err
			}
			return seedProducts(cmd.Context(), gormDB)
		},
	}

	adminCmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin user if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			gormDB, err := connect()
			if err != nil {
				return err
			}
			email := viper.GetString("admin-email")
			password := viper.GetString("admin-password")
			return createAdmin(cmd.Context(), gormDB, email, password)
		},
	}
	adminCmd.Flags().String("admin-email", "admin@example.com", "admin email")
	adminCmd.Flags().String("admin-password", "admin123", "admin password")
	viper.BindPFlag("admin-email", adminCmd.Flags().Lookup("admin-email"))
	viper.BindPFlag("admin-password", adminCmd.Flags().Lookup("admin-password"))

	clearCacheCmd := &cobra.Command{
		Use:   "clear-cache",
		Short: "Invalidate catalog cache entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			url := viper.GetString("redis-url")
			if url == "" {
				return errors.New("redis-url is required")
			}
			c := cache.NewRedis(url, time.Minute)
			defer c.Close()

			deleted := c.DeletePattern(cmd.Context(), "products", viper.GetString("pattern"))
			slog.Info("cache cleared", "deleted", deleted)
			return nil
		},
	}
	clearCacheCmd.Flags().String("redis-url", "", "redis URL")
	clearCacheCmd.Flags().String("pattern", "*", "key pattern inside the products namespace")
	viper.BindPFlag("redis-url", clearCacheCmd.Flags().Lookup("redis-url"))
	viper.BindPFlag("pattern", clearCacheCmd.Flags().Lookup("pattern"))

	rootCmd.AddCommand(seedCmd, adminCmd, clearCacheCmd)
}

func connect() (*gorm.DB, error) {
	gormDB, err := db.Connect()
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return gormDB, nil
}

func createAdmin(ctx context.Context, gormDB *gorm.DB, email, password string) error {
	users := infraRepo.NewUserGormRepository(gormDB)

	if _, err := users.FindByEmail(ctx, email); err == nil {
		slog.Info("admin already exists, skipping", "email", email)
		return nil
	} else if err != repo.ErrNotFound {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	if _, err := users.Create(ctx, model.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		IsActive:     true,
	}); err != nil {
		return err
	}

	slog.Info("admin created", "email", email)
	if password == "admin123" {
		slog.Warn("default admin password in use, change it")
	}
	return nil
}

func seedProducts(ctx context.Context, gormDB *gorm.DB) error {
	var count int64
	if err := gormDB.WithContext(ctx).Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		slog.Info("products already exist, skipping seed", "count", count)
		return nil
	}

	products := infraRepo.NewProductGormRepository(gormDB)
	for _, p := range sampleProducts() {
		if _, err := products.Create(ctx, p); err != nil {
			return fmt.Errorf("seed %q: %w", p.Slug, err)
		}
	}

	slog.Info("catalog seeded", "products", len(sampleProducts()))
	return nil
}

func sampleProducts() []model.Product {
	price := func(s string) decimal.Decimal { return decimal.RequireFromString(s) }

	return []model.Product{
		{ProductID: 1, Name: "Gaming Laptop Pro", Slug: "gaming-laptop-pro", Description: "High-performance gaming laptop with 32GB RAM and 1TB NVMe SSD", Price: price("2499.99"), Inventory: 15, Category: "Electronics", IsActive: true},
		{ProductID: 2, Name: "Wireless Noise-Cancelling Headphones", Slug: "wireless-noise-cancelling-headphones", Description: "Over-ear headphones with active noise cancellation and 30-hour battery", Price: price("349.99"), Inventory: 50, Category: "Electronics", IsActive: true},
		{ProductID: 3, Name: "4K Ultra HD Smart TV 55\"", Slug: "4k-ultra-hd-smart-tv-55", Description: "55-inch 4K Smart TV with HDR10+ and built-in streaming apps", Price: price("899.99"), Inventory: 25, Category: "Electronics", IsActive: true},
		{ProductID: 4, Name: "Mechanical Gaming Keyboard RGB", Slug: "mechanical-gaming-keyboard-rgb", Description: "Mechanical keyboard with hot-swappable switches and RGB lighting", Price: price("159.99"), Inventory: 40, Category: "Electronics", IsActive: true},
		{ProductID: 5, Name: "Smartphone Pro Max 256GB", Slug: "smartphone-pro-max-256gb", Description: "Flagship smartphone with 256GB storage, 5G and triple camera", Price: price("1199.99"), Inventory: 30, Category: "Electronics", IsActive: true},
		{ProductID: 6, Name: "Espresso Machine Deluxe", Slug: "espresso-machine-deluxe", Description: "15-bar pump espresso machine with milk frother", Price: price("229.99"), Inventory: 20, Category: "Home", IsActive: true},
		{ProductID: 7, Name: "Ergonomic Office Chair", Slug: "ergonomic-office-chair", Description: "Adjustable lumbar support, mesh back, 4D armrests", Price: price("389.00"), Inventory: 12, Category: "Home", IsActive: true},
		{ProductID: 8, Name: "Trail Running Shoes", Slug: "trail-running-shoes", Description: "Lightweight trail shoes with aggressive grip", Price: price("129.95"), Inventory: 60, Category: "Sports", IsActive: true},
		{ProductID: 9, Name: "Insulated Water Bottle 1L", Slug: "insulated-water-bottle-1l", Description: "Keeps drinks cold for 24 hours, hot for 12", Price: price("24.50"), Inventory: 100, Category: "Sports", IsActive: true},
		{ProductID: 10, Name: "Vintage Film Camera", Slug: "vintage-film-camera", Description: "Restored 35mm rangefinder, collector's item", Price: price("549.00"), Inventory: 3, Category: "Collectibles", IsActive: false},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
