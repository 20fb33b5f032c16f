package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 商品カタログ。
// IDはストア採番の内部ID、ProductIDは業務側で採番する公開ID。
// カートはProductID（業務ID）で参照し、注文明細はID（内部ID）で参照する。
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID   int64           `gorm:"not null;uniqueIndex" json:"product_id"`
	Slug        string          `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`
	Name        string          `gorm:"type:varchar(255);not null;index" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Image       string          `gorm:"type:varchar(512)" json:"image"`
	Inventory   int64           `gorm:"not null;default:0" json:"inventory"`
	Category    string          `gorm:"type:varchar(100);index" json:"category"`
	IsActive    bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
