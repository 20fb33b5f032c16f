package repository

import (
	"context"

	"shopapi/internal/domain/model"

	"gorm.io/gorm"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

// DI
func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

// 在庫が足りるときだけ減らす。
// 読み取り→書き込みではなく1文の条件付きUPDATEにして、同時確定の売り越しを防ぐ。
func (r *InventoryGormRepository) DecrementIfEnough(ctx context.Context, id int64, qty int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND inventory >= ?", id, qty).
		Update("inventory", gorm.Expr("inventory - ?", qty))

	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		// 商品が無い場合も不足の場合もfalse
		return false, nil
	}
	return true, nil
}
