package repository

import (
	"context"

	"shopapi/internal/domain/model"
)

type OrderRepository interface {
	Create(ctx context.Context, order model.Order) (int64, error)
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	// 所有チェック込みの取得。他人の注文は存在しない扱い（ErrNotFound）。
	FindByIDAndUser(ctx context.Context, orderID int64, userID int64) (model.Order, error)
	// 新しい順
	ListByUser(ctx context.Context, userID int64, skip int, limit int) ([]model.Order, error)
	// 管理者用。全ユーザー横断、新しい順。
	ListAll(ctx context.Context, skip int, limit int) ([]model.Order, error)

	// 現在statusがexpectedのときだけnextへ更新する。
	// 遷移できたらtrue。pending→終端の一回きり遷移はこれで守る。
	UpdateStatusIf(ctx context.Context, orderID int64, expected model.OrderStatus, next model.OrderStatus) (bool, error)
}

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
}
