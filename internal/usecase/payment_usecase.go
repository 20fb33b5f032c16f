package usecase

import (
	"context"
	"errors"

	"shopapi/internal/domain"
	"shopapi/internal/domain/model"
	"shopapi/internal/events"
	"shopapi/internal/infra/cache"
	"shopapi/internal/metrics"
	repo "shopapi/internal/repository"
)

type PaymentOutcome string

const (
	OutcomeSuccess  PaymentOutcome = "success"
	OutcomeFailure  PaymentOutcome = "failure"
	OutcomeCanceled PaymentOutcome = "canceled"
)

func ParsePaymentOutcome(s string) (PaymentOutcome, bool) {
	switch PaymentOutcome(s) {
	case OutcomeSuccess, OutcomeFailure, OutcomeCanceled:
		return PaymentOutcome(s), true
	}
	return "", false
}

// トランザクション全体を巻き戻すための内部センチネル。呼び出し側には出さない。
var (
	errInsufficientStock = errors.New("insufficient stock at confirmation")
	errLostStatusRace    = errors.New("status already transitioned")
)

// モック決済の確定処理。pendingの注文を終端statusへ一度だけ遷移させる。
// successのときだけ在庫を減らす。減算と遷移は同一トランザクションで、
// 部分的な減算がコミットされることはない。
type PaymentUsecase struct {
	tx            repo.TransactionManager
	orderRepo     repo.OrderRepository
	orderItemRepo repo.OrderItemRepository
	cache         cache.Cache
	events        events.Publisher
	metrics       *metrics.Metrics
}

// DI
func NewPaymentUsecase(
	tx repo.TransactionManager,
	orderRepo repo.OrderRepository,
	orderItemRepo repo.OrderItemRepository,
	c cache.Cache,
	ev events.Publisher,
	m *metrics.Metrics,
) *PaymentUsecase {
	return &PaymentUsecase{
		tx:            tx,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		cache:         c,
		events:        ev,
		metrics:       m,
	}
}

// 支払結果を注文へ反映する。
//   - 注文が無ければ domain.ErrOrderNotFound
//   - 他人の注文は domain.ErrForbidden（管理者は誰の注文でも確定できる）
//   - すでに終端なら何もせずそのまま返す（再確定しても在庫は二度減らない）
//   - success: 明細ごとに条件付き減算。1件でも足りなければ全減算を巻き戻してfailedへ。
//   - failure/canceled: statusのみ遷移。
func (u *PaymentUsecase) Confirm(ctx context.Context, orderID int64, userID int64, outcome PaymentOutcome, asAdmin bool) (OrderOutput, error) {
	if orderID <= 0 {
		return OrderOutput{}, domain.ErrOrderNotFound
	}

	o, err := u.orderRepo.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderOutput{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return OrderOutput{}, err
	}

	if o.UserID != userID && !asAdmin {
		return OrderOutput{}, domain.ErrForbidden
	}

	// 終端なら冪等に現状を返す
	if o.Status.IsTerminal() {
		return u.load(ctx, orderID)
	}

	switch outcome {
	case OutcomeSuccess:
		return u.confirmSuccess(ctx, orderID)
	case OutcomeCanceled:
		return u.transition(ctx, orderID, model.OrderStatusCanceled, events.EventOrderCanceled)
	default:
		return u.transition(ctx, orderID, model.OrderStatusFailed, events.EventPaymentFailed)
	}
}

func (u *PaymentUsecase) confirmSuccess(ctx context.Context, orderID int64) (OrderOutput, error) {
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return err
		}

		for _, it := range items {
			// 明細が持つ内部IDで現在の商品を条件付き減算。
			// 商品が消えている場合もfalseになり、在庫不足と同じ扱い。
			ok, err := r.Inventory().DecrementIfEnough(ctx, it.ProductID, it.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return errInsufficientStock
			}
		}

		// 減算がすべて成功してからpending→paidを条件付きで確定。
		// ここで負けたら同時確定に先を越されたので、減算ごと巻き戻す。
		ok, err := r.Orders().UpdateStatusIf(ctx, orderID, model.OrderStatusPending, model.OrderStatusPaid)
		if err != nil {
			return err
		}
		if !ok {
			return errLostStatusRace
		}
		return nil
	})

	switch {
	case err == nil:
		// 在庫が変わったのでカタログキャッシュを破棄
		u.cache.DeletePattern(ctx, "products", "*")
		u.metrics.PaymentResults.WithLabelValues(string(model.OrderStatusPaid)).Inc()
		out, lerr := u.load(ctx, orderID)
		if lerr == nil {
			u.events.Publish(ctx, events.EventPaymentCaptured, orderID, out.UserID, nil)
		}
		return out, lerr

	case errors.Is(err, errInsufficientStock):
		// 減算はロールバック済み。業務上の失敗としてfailedを記録して返す（エラーにはしない）。
		return u.transition(ctx, orderID, model.OrderStatusFailed, events.EventPaymentFailed)

	case errors.Is(err, errLostStatusRace):
		// 先に終端へ遷移済み。現状をそのまま返す。
		return u.load(ctx, orderID)

	default:
		return OrderOutput{}, err
	}
}

// pendingからの条件付き遷移。負けたら（すでに終端なら）現状を返すだけ。
func (u *PaymentUsecase) transition(ctx context.Context, orderID int64, next model.OrderStatus, eventType string) (OrderOutput, error) {
	ok, err := u.orderRepo.UpdateStatusIf(ctx, orderID, model.OrderStatusPending, next)
	if err != nil {
		return OrderOutput{}, err
	}

	out, err := u.load(ctx, orderID)
	if err != nil {
		return OrderOutput{}, err
	}

	if ok {
		u.metrics.PaymentResults.WithLabelValues(string(next)).Inc()
		u.events.Publish(ctx, eventType, orderID, out.UserID, nil)
	}
	return out, nil
}

func (u *PaymentUsecase) load(ctx context.Context, orderID int64) (OrderOutput, error) {
	o, err := u.orderRepo.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderOutput{}, domain.ErrOrderNotFound
	}
	if err != nil {
		return OrderOutput{}, err
	}
	items, err := u.orderItemRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, err
	}
	return toOrderOutput(o, items), nil
}
