package usecase

import (
	"context"

	"shopapi/internal/domain"
	"shopapi/internal/domain/model"
	"shopapi/internal/events"
	"shopapi/internal/metrics"
	repo "shopapi/internal/repository"

	"github.com/shopspring/decimal"
)

const orderCurrency = "usd"

// カートをpending注文に変換する。
// 在庫はここでは確認するだけで減らさない（減算は支払確定時）。
type CheckoutUsecase struct {
	tx      repo.TransactionManager
	events  events.Publisher
	metrics *metrics.Metrics
}

// DI
func NewCheckoutUsecase(tx repo.TransactionManager, ev events.Publisher, m *metrics.Metrics) *CheckoutUsecase {
	return &CheckoutUsecase{tx: tx, events: ev, metrics: m}
}

// カートの中身から注文を作成する。
//   - カートが空なら domain.ErrEmptyCart
//   - 商品が無い・非公開・在庫不足なら domain.ProductUnavailableError
//   - 注文作成とカートクリアは同一トランザクション。失敗したらカートは無傷。
//   - 明細には現在の商品名・価格をスナップショットとして保存する。
func (u *CheckoutUsecase) CreateOrderFromCart(ctx context.Context, userID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, domain.ErrForbidden
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().GetOrCreateByUserID(ctx, userID)
		if err != nil {
			return err
		}

		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return domain.ErrEmptyCart
		}

		orderItems := make([]model.OrderItem, 0, len(cartItems))
		total := decimal.Zero

		for _, ci := range cartItems {
			p, err := r.Products().FindByProductID(ctx, ci.ProductID)
			if err == repo.ErrNotFound {
				return &domain.ProductUnavailableError{ProductID: ci.ProductID, Reason: domain.ReasonNotFound}
			}
			if err != nil {
				return err
			}
			if !p.IsActive {
				return &domain.ProductUnavailableError{ProductID: ci.ProductID, Reason: domain.ReasonInactive}
			}
			// 確認のみ。確保はしないので、同じ最後の1個を複数のpending注文が通過できる。
			// 決着は支払確定時の条件付き減算でつく。
			if p.Inventory < ci.Quantity {
				return &domain.ProductUnavailableError{ProductID: ci.ProductID, Reason: domain.ReasonInsufficientInventory}
			}

			lineTotal := p.Price.Mul(decimal.NewFromInt(ci.Quantity))
			total = total.Add(lineTotal)

			// スナップショット（以後カタログが変わっても明細は変わらない）
			orderItems = append(orderItems, model.OrderItem{
				ProductID:           p.ID,
				ProductNameSnapshot: p.Name,
				UnitPriceSnapshot:   p.Price,
				Quantity:            ci.Quantity,
				LineTotal:           lineTotal,
			})
		}

		order := model.Order{
			UserID:   userID,
			Total:    total,
			Currency: orderCurrency,
			Status:   model.OrderStatusPending,
		}

		// 先に注文を作り、その後でカートを空にする
		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return err
		}
		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return err
		}
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return err
		}

		created, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return err
		}
		out = toOrderOutput(created, items)
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	u.metrics.OrdersCreated.Inc()
	u.events.Publish(ctx, events.EventOrderCreated, out.ID, userID, map[string]any{
		"total":    out.Total.String(),
		"currency": out.Currency,
	})

	return out, nil
}
