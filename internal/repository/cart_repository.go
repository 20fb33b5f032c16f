package repository

import (
	"context"

	"shopapi/internal/domain/model"
)

type CartRepository interface {
	// ユーザーのカートを取得し、無ければ作成
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error)
	// 明細を全削除（カート自体は残す）
	Clear(ctx context.Context, cartID int64) error
}

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	// 同一商品（業務ID）は数量加算
	UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, addQty int64) error
	// 商品（業務ID）単位でまるごと削除
	DeleteByCartAndProduct(ctx context.Context, cartID int64, productID int64) error
}
