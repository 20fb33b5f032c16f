package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細。注文作成時点の商品名・単価を保存し、以後カタログを参照しない。
// ProductIDは内部ID（Product.ID）。支払確定時の在庫減算はこのIDで行う。
type OrderItem struct {
	ID                  int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID             int64           `gorm:"not null;index" json:"order_id"`
	ProductID           int64           `gorm:"not null;index" json:"product_id"`
	ProductNameSnapshot string          `gorm:"type:varchar(255);not null" json:"name"`
	UnitPriceSnapshot   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	Quantity            int64           `gorm:"not null" json:"qty"`
	LineTotal           decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"line_total"`
	CreatedAt           time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
