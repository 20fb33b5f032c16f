package repository

import (
	"context"
	"errors"

	"shopapi/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一意制約違反（slug / product_id の重複）
var ErrDuplicateKey = errors.New("duplicate key")

// 公開一覧の検索条件
type ProductListQuery struct {
	Q     string
	Skip  int
	Limit int
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	ListPublic(ctx context.Context, q ProductListQuery) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	FindByProductID(ctx context.Context, productID int64) (model.Product, error)
	FindBySlug(ctx context.Context, slug string) (model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, id int64) error
}

// 在庫の条件付き更新を約束。
type InventoryRepository interface {
	// 在庫が足りるときだけ減算（内部IDで指定）。行が無い・不足なら false。
	DecrementIfEnough(ctx context.Context, id int64, qty int64) (bool, error)
}
