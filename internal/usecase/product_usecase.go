package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"shopapi/internal/domain"
	"shopapi/internal/domain/model"
	"shopapi/internal/infra/cache"
	"shopapi/internal/metrics"
	repo "shopapi/internal/repository"

	"github.com/shopspring/decimal"
)

const productCacheNS = "products"

// カタログの公開読み取りと管理者CRUD。
// 読み取りはキャッシュを先に見て、無ければDBから取って書き戻す。
// 変更系は該当キーを明示的に破棄する。
type ProductUsecase struct {
	productRepo repo.ProductRepository
	cache       cache.Cache
	metrics     *metrics.Metrics
}

// DI
func NewProductUsecase(productRepo repo.ProductRepository, c cache.Cache, m *metrics.Metrics) *ProductUsecase {
	return &ProductUsecase{productRepo: productRepo, cache: c, metrics: m}
}

type ProductInput struct {
	ProductID   int64
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	Image       string
	Inventory   int64
	Category    string
	IsActive    bool
}

// 公開一覧（検索＋skip/limit）。activeのみ。
func (u *ProductUsecase) List(ctx context.Context, q string, skip int, limit int) ([]model.Product, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	key := listCacheKey(q, skip, limit)
	if raw, ok := u.cache.Get(ctx, productCacheNS, key); ok {
		var cached []model.Product
		if err := json.Unmarshal(raw, &cached); err == nil {
			u.metrics.CacheLookups.WithLabelValues(productCacheNS, "hit").Inc()
			return cached, nil
		}
		// 壊れたエントリは捨てて取り直す
		u.cache.Delete(ctx, productCacheNS, key)
	}
	u.metrics.CacheLookups.WithLabelValues(productCacheNS, "miss").Inc()

	items, err := u.productRepo.ListPublic(ctx, repo.ProductListQuery{Q: q, Skip: skip, Limit: limit})
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(items); err == nil {
		u.cache.Set(ctx, productCacheNS, key, raw, 0)
	}
	return items, nil
}

// slugで1件取得。非公開・存在しないものはErrProductNotFound。
func (u *ProductUsecase) GetBySlug(ctx context.Context, slug string) (model.Product, error) {
	if slug == "" {
		return model.Product{}, domain.ErrProductNotFound
	}

	key := "slug:" + slug
	if raw, ok := u.cache.Get(ctx, productCacheNS, key); ok {
		var cached model.Product
		if err := json.Unmarshal(raw, &cached); err == nil {
			u.metrics.CacheLookups.WithLabelValues(productCacheNS, "hit").Inc()
			return cached, nil
		}
		u.cache.Delete(ctx, productCacheNS, key)
	}
	u.metrics.CacheLookups.WithLabelValues(productCacheNS, "miss").Inc()

	p, err := u.productRepo.FindBySlug(ctx, slug)
	if err == repo.ErrNotFound {
		return model.Product{}, domain.ErrProductNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	if !p.IsActive {
		return model.Product{}, domain.ErrProductNotFound
	}

	if raw, err := json.Marshal(p); err == nil {
		u.cache.Set(ctx, productCacheNS, key, raw, 0)
	}
	return p, nil
}

// 管理者用の新規作成。slug / product_id の重複はErrProductConflict。
func (u *ProductUsecase) Create(ctx context.Context, in ProductInput) (model.Product, error) {
	if err := validateProductInput(in); err != nil {
		return model.Product{}, err
	}

	p, err := u.productRepo.Create(ctx, model.Product{
		ProductID:   in.ProductID,
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
		Inventory:   in.Inventory,
		Category:    in.Category,
		IsActive:    in.IsActive,
	})
	if err == repo.ErrDuplicateKey {
		return model.Product{}, domain.ErrProductConflict
	}
	if err != nil {
		return model.Product{}, err
	}

	// 一覧キャッシュだけ破棄（新商品はまだslugキャッシュを持たない）
	u.cache.DeletePattern(ctx, productCacheNS, "list:*")
	return p, nil
}

// 管理者用の更新（内部IDで指定、全項目上書き）。
func (u *ProductUsecase) Update(ctx context.Context, id int64, in ProductInput) (model.Product, error) {
	if id <= 0 {
		return model.Product{}, domain.ErrProductNotFound
	}
	if err := validateProductInput(in); err != nil {
		return model.Product{}, err
	}

	current, err := u.productRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return model.Product{}, domain.ErrProductNotFound
	}
	if err != nil {
		return model.Product{}, err
	}

	updated := model.Product{
		ID:          id,
		ProductID:   in.ProductID,
		Name:        in.Name,
		Slug:        in.Slug,
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
		Inventory:   in.Inventory,
		Category:    in.Category,
		IsActive:    in.IsActive,
	}

	err = u.productRepo.Update(ctx, updated)
	if err == repo.ErrDuplicateKey {
		return model.Product{}, domain.ErrProductConflict
	}
	if err == repo.ErrNotFound {
		return model.Product{}, domain.ErrProductNotFound
	}
	if err != nil {
		return model.Product{}, err
	}

	// 旧slug・新slug両方のキャッシュと一覧を破棄
	u.cache.Delete(ctx, productCacheNS, "slug:"+current.Slug)
	if current.Slug != in.Slug {
		u.cache.Delete(ctx, productCacheNS, "slug:"+in.Slug)
	}
	u.cache.DeletePattern(ctx, productCacheNS, "list:*")

	return u.productRepo.FindByID(ctx, id)
}

// 管理者用の削除。
func (u *ProductUsecase) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return domain.ErrProductNotFound
	}

	current, err := u.productRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return domain.ErrProductNotFound
	}
	if err != nil {
		return err
	}

	if err := u.productRepo.Delete(ctx, id); err != nil {
		if err == repo.ErrNotFound {
			return domain.ErrProductNotFound
		}
		return err
	}

	u.cache.Delete(ctx, productCacheNS, "slug:"+current.Slug)
	u.cache.DeletePattern(ctx, productCacheNS, "list:*")
	return nil
}

func validateProductInput(in ProductInput) error {
	if in.ProductID <= 0 {
		return domain.NewValidationError("invalid product_id")
	}
	if in.Name == "" {
		return domain.NewValidationError("name is required")
	}
	if in.Slug == "" {
		return domain.NewValidationError("slug is required")
	}
	if !in.Price.IsPositive() {
		return domain.NewValidationError("price must be greater than 0")
	}
	if in.Inventory < 0 {
		return domain.NewValidationError("inventory must not be negative")
	}
	return nil
}

func listCacheKey(q string, skip int, limit int) string {
	if q == "" {
		q = "all"
	}
	return fmt.Sprintf("list:q=%s:skip=%d:limit=%d", q, skip, limit)
}
