package usecase_test

import (
	"context"
	"encoding/json"
	"testing"

	"shopapi/internal/domain"
	"shopapi/internal/domain/model"
	repo "shopapi/internal/repository"
	"shopapi/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newProductFixture() (*ProductRepoMock, *fakeCache, *usecase.ProductUsecase) {
	products := new(ProductRepoMock)
	c := newFakeCache()
	return products, c, usecase.NewProductUsecase(products, c, newTestMetrics())
}

func validProductInput() usecase.ProductInput {
	return usecase.ProductInput{
		ProductID: 100,
		Name:      "Laptop",
		Slug:      "laptop",
		Price:     price("999.99"),
		Inventory: 10,
		IsActive:  true,
	}
}

func TestProductUsecase_List_CacheMissThenHit(t *testing.T) {
	ctx := context.Background()
	products, c, uc := newProductFixture()

	listed := []model.Product{
		{ID: 1, ProductID: 100, Slug: "laptop", Name: "Laptop", Price: price("999.99"), IsActive: true},
	}
	products.On("ListPublic", mock.Anything, repo.ProductListQuery{Q: "", Skip: 0, Limit: 20}).Return(listed, nil).Once()

	// 1回目：DBから取得してキャッシュに書き戻す
	first, err := uc.List(ctx, "", 0, 20)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(first))

	// 2回目：キャッシュヒット、リポジトリは呼ばれない
	second, err := uc.List(ctx, "", 0, 20)
	assert.NoError(t, err)
	assert.Equal(t, first[0].Slug, second[0].Slug)

	products.AssertNumberOfCalls(t, "ListPublic", 1)

	// 壊れたキャッシュエントリは捨てて取り直す
	c.Set(ctx, "products", "list:q=all:skip=0:limit=20", []byte("{broken"), 0)
	products.On("ListPublic", mock.Anything, repo.ProductListQuery{Q: "", Skip: 0, Limit: 20}).Return(listed, nil).Once()

	third, err := uc.List(ctx, "", 0, 20)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(third))
	products.AssertNumberOfCalls(t, "ListPublic", 2)
}

func TestProductUsecase_GetBySlug_CachesResult(t *testing.T) {
	ctx := context.Background()
	products, c, uc := newProductFixture()

	p := model.Product{ID: 1, ProductID: 100, Slug: "laptop", Name: "Laptop", Price: price("999.99"), IsActive: true}
	products.On("FindBySlug", mock.Anything, "laptop").Return(p, nil).Once()

	got, err := uc.GetBySlug(ctx, "laptop")
	assert.NoError(t, err)
	assert.Equal(t, "laptop", got.Slug)

	raw, ok := c.Get(ctx, "products", "slug:laptop")
	assert.True(t, ok)
	var cached model.Product
	assert.NoError(t, json.Unmarshal(raw, &cached))
	assert.Equal(t, p.Slug, cached.Slug)

	// 2回目はキャッシュから
	_, err = uc.GetBySlug(ctx, "laptop")
	assert.NoError(t, err)
	products.AssertNumberOfCalls(t, "FindBySlug", 1)
}

// 非公開商品はslugを知っていても見えない
func TestProductUsecase_GetBySlug_InactiveHidden(t *testing.T) {
	ctx := context.Background()
	products, _, uc := newProductFixture()

	products.On("FindBySlug", mock.Anything, "retired").Return(model.Product{
		ID: 1, Slug: "retired", IsActive: false,
	}, nil)

	_, err := uc.GetBySlug(ctx, "retired")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductUsecase_GetBySlug_NotFound(t *testing.T) {
	ctx := context.Background()
	products, _, uc := newProductFixture()

	products.On("FindBySlug", mock.Anything, "missing").Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.GetBySlug(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductUsecase_Create_InvalidatesListCache(t *testing.T) {
	ctx := context.Background()
	products, c, uc := newProductFixture()

	in := validProductInput()
	products.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.ProductID == 100 && p.Slug == "laptop" && p.Price.Equal(price("999.99"))
	})).Return(model.Product{ID: 1, ProductID: 100, Slug: "laptop"}, nil)

	c.Set(ctx, "products", "list:q=all:skip=0:limit=20", []byte("[]"), 0)

	created, err := uc.Create(ctx, in)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	assert.Contains(t, c.deleted(), "products:list:*")
	_, ok := c.Get(ctx, "products", "list:q=all:skip=0:limit=20")
	assert.False(t, ok)
}

func TestProductUsecase_Create_DuplicateSlug(t *testing.T) {
	ctx := context.Background()
	products, _, uc := newProductFixture()

	products.On("Create", mock.Anything, mock.Anything).Return(model.Product{}, repo.ErrDuplicateKey)

	_, err := uc.Create(ctx, validProductInput())
	assert.ErrorIs(t, err, domain.ErrProductConflict)
}

func TestProductUsecase_Create_Validation(t *testing.T) {
	_, _, uc := newProductFixture()

	cases := []struct {
		name   string
		mutate func(*usecase.ProductInput)
	}{
		{"missing product_id", func(in *usecase.ProductInput) { in.ProductID = 0 }},
		{"missing name", func(in *usecase.ProductInput) { in.Name = "" }},
		{"missing slug", func(in *usecase.ProductInput) { in.Slug = "" }},
		{"zero price", func(in *usecase.ProductInput) { in.Price = price("0") }},
		{"negative inventory", func(in *usecase.ProductInput) { in.Inventory = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validProductInput()
			tc.mutate(&in)

			_, err := uc.Create(context.Background(), in)

			var verr *domain.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestProductUsecase_Update_InvalidatesSlugCaches(t *testing.T) {
	ctx := context.Background()
	products, c, uc := newProductFixture()

	in := validProductInput()
	in.Slug = "laptop-v2"

	products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{
		ID: 1, ProductID: 100, Slug: "laptop", IsActive: true,
	}, nil).Once()
	products.On("Update", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.ID == 1 && p.Slug == "laptop-v2"
	})).Return(nil)
	products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{
		ID: 1, ProductID: 100, Slug: "laptop-v2", IsActive: true,
	}, nil).Once()

	c.Set(ctx, "products", "slug:laptop", []byte("{}"), 0)

	updated, err := uc.Update(ctx, 1, in)
	assert.NoError(t, err)
	assert.Equal(t, "laptop-v2", updated.Slug)

	// 旧slugのキャッシュが消えている
	_, ok := c.Get(ctx, "products", "slug:laptop")
	assert.False(t, ok)
	assert.Contains(t, c.deleted(), "products:list:*")
}

func TestProductUsecase_Update_NotFound(t *testing.T) {
	ctx := context.Background()
	products, _, uc := newProductFixture()

	products.On("FindByID", mock.Anything, int64(99)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.Update(ctx, 99, validProductInput())
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestProductUsecase_Delete_InvalidatesCaches(t *testing.T) {
	ctx := context.Background()
	products, c, uc := newProductFixture()

	products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{
		ID: 1, Slug: "laptop",
	}, nil)
	products.On("Delete", mock.Anything, int64(1)).Return(nil)

	c.Set(ctx, "products", "slug:laptop", []byte("{}"), 0)

	assert.NoError(t, uc.Delete(ctx, 1))

	_, ok := c.Get(ctx, "products", "slug:laptop")
	assert.False(t, ok)
	assert.Contains(t, c.deleted(), "products:list:*")
}
