package usecase

import (
	"context"
	"time"

	"shopapi/internal/domain"
	"shopapi/internal/domain/model"
	repo "shopapi/internal/repository"

	"github.com/shopspring/decimal"
)

// 注文照会。自分の注文のみ／管理者は横断で取得できる。
type OrderUsecase struct {
	orderRepo     repo.OrderRepository
	orderItemRepo repo.OrderItemRepository
}

// DI
func NewOrderUsecase(orderRepo repo.OrderRepository, orderItemRepo repo.OrderItemRepository) *OrderUsecase {
	return &OrderUsecase{orderRepo: orderRepo, orderItemRepo: orderItemRepo}
}

type OrderItemOutput struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int64           `json:"qty"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type OrderOutput struct {
	ID        int64             `json:"id"`
	UserID    int64             `json:"user_id"`
	Status    string            `json:"status"`
	Total     decimal.Decimal   `json:"total"`
	Currency  string            `json:"currency"`
	CreatedAt time.Time         `json:"created_at"`
	Items     []OrderItemOutput `json:"items"`
}

const (
	DefaultUserOrderLimit  = 20
	DefaultAdminOrderLimit = 50
	MaxOrderLimit          = 200
)

// 自分の注文一覧（新しい順、skip/limit）
func (u *OrderUsecase) GetUserOrders(ctx context.Context, userID int64, skip int, limit int) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, domain.ErrForbidden
	}
	skip, limit = normalizePage(skip, limit, DefaultUserOrderLimit)

	orders, err := u.orderRepo.ListByUser(ctx, userID, skip, limit)
	if err != nil {
		return []OrderOutput{}, err
	}
	return u.withItems(ctx, orders)
}

// 注文詳細。存在しないIDと他人のIDは同じErrOrderNotFoundで返す。
func (u *OrderUsecase) GetOrderByID(ctx context.Context, orderID int64, userID int64) (OrderOutput, error) {
	if orderID <= 0 || userID <= 0 {
		return OrderOutput{}, domain.ErrOrderNotFound
	}

	o, err := u.orderRepo.FindByIDAndUser(ctx, orderID, userID)
	if err == repo.ErrNotFound {
		return OrderOutput{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return OrderOutput{}, err
	}

	items, err := u.orderItemRepo.ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderOutput{}, err
	}
	return toOrderOutput(o, items), nil
}

// 管理者用の全件一覧。権限チェックは呼び出し側（ミドルウェア）で済んでいる前提。
func (u *OrderUsecase) GetAllOrders(ctx context.Context, skip int, limit int) ([]OrderOutput, error) {
	skip, limit = normalizePage(skip, limit, DefaultAdminOrderLimit)

	orders, err := u.orderRepo.ListAll(ctx, skip, limit)
	if err != nil {
		return []OrderOutput{}, err
	}
	return u.withItems(ctx, orders)
}

func (u *OrderUsecase) withItems(ctx context.Context, orders []model.Order) ([]OrderOutput, error) {
	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items, err := u.orderItemRepo.ListByOrderID(ctx, o.ID)
		if err != nil {
			return []OrderOutput{}, err
		}
		outs = append(outs, toOrderOutput(o, items))
	}
	return outs, nil
}

func normalizePage(skip int, limit int, def int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = def
	}
	if limit > MaxOrderLimit {
		limit = MaxOrderLimit
	}
	return skip, limit
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			UnitPrice: it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal,
		})
	}

	return OrderOutput{
		ID:        o.ID,
		UserID:    o.UserID,
		Status:    string(o.Status),
		Total:     o.Total,
		Currency:  o.Currency,
		CreatedAt: o.CreatedAt,
		Items:     outItems,
	}
}
