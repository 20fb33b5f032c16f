package usecase

import (
	"context"

	"shopapi/internal/domain"
	repo "shopapi/internal/repository"
)

// /cart の業務ロジック。
type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

// DI
func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

type CartItemOutput struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"qty"`
}

type CartOutput struct {
	Items []CartItemOutput `json:"items"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

// カート取得（無ければ空で作る）
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, domain.ErrForbidden
	}

	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, err
	}
	return u.buildCartOutput(ctx, cart.ID)
}

// カートに追加（同一商品は数量加算）。
// 公開中の商品しか入れられない。在庫の確認はチェックアウト時に行う。
func (u *CartUsecase) AddItem(ctx context.Context, userID int64, in AddCartInput) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, domain.ErrForbidden
	}
	if in.ProductID <= 0 {
		return CartOutput{}, domain.NewValidationError("invalid product_id")
	}
	if in.Quantity < 1 {
		return CartOutput{}, domain.NewValidationError("quantity must be greater than 0")
	}

	p, err := u.productRepo.FindByProductID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return CartOutput{}, domain.ErrProductNotFound
	}
	if err != nil {
		return CartOutput{}, err
	}
	if !p.IsActive {
		return CartOutput{}, domain.ErrProductNotFound
	}

	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, err
	}

	if err := u.cartItemRepo.UpsertByCartAndProduct(ctx, cart.ID, in.ProductID, in.Quantity); err != nil {
		return CartOutput{}, err
	}
	return u.buildCartOutput(ctx, cart.ID)
}

// 商品単位でカートから削除（数量は見ない）
func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, productID int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, domain.ErrForbidden
	}
	if productID <= 0 {
		return CartOutput{}, domain.NewValidationError("invalid product_id")
	}

	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, err
	}

	if err := u.cartItemRepo.DeleteByCartAndProduct(ctx, cart.ID, productID); err != nil {
		return CartOutput{}, err
	}
	return u.buildCartOutput(ctx, cart.ID)
}

func (u *CartUsecase) buildCartOutput(ctx context.Context, cartID int64) (CartOutput, error) {
	items, err := u.cartItemRepo.ListByCartID(ctx, cartID)
	if err != nil {
		return CartOutput{}, err
	}

	outItems := make([]CartItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, CartItemOutput{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
		})
	}
	return CartOutput{Items: outItems}, nil
}
