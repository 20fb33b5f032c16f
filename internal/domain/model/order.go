package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusPaid     OrderStatus = "paid"
	OrderStatusFailed   OrderStatus = "failed"
	OrderStatusCanceled OrderStatus = "canceled"
)

// pending以外は終端。終端に入った注文は変更不可。
func (s OrderStatus) IsTerminal() bool {
	return s != OrderStatusPending
}

// 注文。作成時のスナップショットで、変更できるのはstatusのみ。
// pendingで作成され、支払確定でpaid/failed/canceledのいずれかに一度だけ遷移する。
type Order struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64           `gorm:"not null;index" json:"user_id"`
	Total     decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"total"`
	Currency  string          `gorm:"type:varchar(8);not null;default:'usd'" json:"currency"`
	Status    OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
