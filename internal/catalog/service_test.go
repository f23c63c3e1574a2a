package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storelinehq/storeline-backend/pkg/db/models"
	pkgerrors "github.com/storelinehq/storeline-backend/pkg/errors"
	"github.com/storelinehq/storeline-backend/pkg/pagination"
)

type stubRepo struct {
	createCategory    func(ctx context.Context, category *models.Category) (*models.Category, error)
	findCategoryByID  func(ctx context.Context, id uuid.UUID) (*models.Category, error)
	listCategories    func(ctx context.Context) ([]models.Category, error)
	updateCategory    func(ctx context.Context, category *models.Category) error
	deleteCategory    func(ctx context.Context, id uuid.UUID) error
	countInCategory   func(ctx context.Context, categoryID uuid.UUID) (int64, error)
	createProduct     func(ctx context.Context, product *models.Product) (*models.Product, error)
	findProductByID   func(ctx context.Context, id uuid.UUID) (*models.Product, error)
	findProductBySlug func(ctx context.Context, slug string) (*models.Product, error)
	updateProduct     func(ctx context.Context, product *models.Product) error
	deleteProduct     func(ctx context.Context, id uuid.UUID) error
	countOrderRefs    func(ctx context.Context, productID uuid.UUID) (int64, error)
	listProducts      func(ctx context.Context, filters ProductFilters, cursor *pagination.Cursor, limit int) ([]models.Product, error)
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	return s.createCategory(ctx, category)
}

func (s *stubRepo) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return s.findCategoryByID(ctx, id)
}

func (s *stubRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.listCategories(ctx)
}

func (s *stubRepo) UpdateCategory(ctx context.Context, category *models.Category) error {
	return s.updateCategory(ctx, category)
}

func (s *stubRepo) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.deleteCategory(ctx, id)
}

func (s *stubRepo) CountProductsInCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	return s.countInCategory(ctx, categoryID)
}

func (s *stubRepo) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	return s.createProduct(ctx, product)
}

func (s *stubRepo) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.findProductByID(ctx, id)
}

func (s *stubRepo) FindProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return s.findProductBySlug(ctx, slug)
}

func (s *stubRepo) UpdateProduct(ctx context.Context, product *models.Product) error {
	return s.updateProduct(ctx, product)
}

func (s *stubRepo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return s.deleteProduct(ctx, id)
}

func (s *stubRepo) CountOrderReferences(ctx context.Context, productID uuid.UUID) (int64, error) {
	return s.countOrderRefs(ctx, productID)
}

func (s *stubRepo) ListProducts(ctx context.Context, filters ProductFilters, cursor *pagination.Cursor, limit int) ([]models.Product, error) {
	return s.listProducts(ctx, filters, cursor, limit)
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo, stubTx{})
	require.NoError(t, err)
	return svc
}

func TestCreateProductRejectsShortName(t *testing.T) {
	svc := newTestService(t, &stubRepo{})

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:       "short",
		UnitPrice:  decimal.NewFromInt(5),
		CategoryID: uuid.New(),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateProductRejectsNonPositivePrice(t *testing.T) {
	svc := newTestService(t, &stubRepo{})

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:       "Organic Apples",
		UnitPrice:  decimal.Zero,
		CategoryID: uuid.New(),
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateProductRetriesSlugOnCollision(t *testing.T) {
	categoryID := uuid.New()
	var attemptedSlugs []string

	repo := &stubRepo{
		findCategoryByID: func(ctx context.Context, id uuid.UUID) (*models.Category, error) {
			return &models.Category{ID: categoryID, Title: "Produce"}, nil
		},
		createProduct: func(ctx context.Context, product *models.Product) (*models.Product, error) {
			attemptedSlugs = append(attemptedSlugs, product.Slug)
			if len(attemptedSlugs) < 3 {
				return nil, errors.New(`duplicate key value violates unique constraint "idx_products_slug"`)
			}
			product.ID = uuid.New()
			return product, nil
		},
		findProductByID: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
			return &models.Product{
				ID:         id,
				Name:       "Organic Apples",
				Slug:       "organic-apples-2",
				UnitPrice:  decimal.NewFromInt(4),
				CategoryID: categoryID,
			}, nil
		},
	}
	svc := newTestService(t, repo)

	dto, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Name:       "Organic Apples",
		UnitPrice:  decimal.NewFromInt(4),
		Inventory:  10,
		CategoryID: categoryID,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"organic-apples", "organic-apples-1", "organic-apples-2"}, attemptedSlugs)
	assert.Equal(t, "organic-apples-2", dto.Slug)
}

func TestPriceAfterTax(t *testing.T) {
	price := decimal.RequireFromString("10.00")
	assert.True(t, decimal.RequireFromString("10.90").Equal(PriceAfterTax(price)))

	odd := decimal.RequireFromString("9.99")
	assert.True(t, decimal.RequireFromString("10.89").Equal(PriceAfterTax(odd)))
}

func TestDeleteProductBlockedByOrders(t *testing.T) {
	productID := uuid.New()
	repo := &stubRepo{
		findProductByID: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
			return &models.Product{ID: productID, Name: "Organic Apples", UnitPrice: decimal.NewFromInt(4)}, nil
		},
		countOrderRefs: func(ctx context.Context, id uuid.UUID) (int64, error) {
			return 3, nil
		},
	}
	svc := newTestService(t, repo)

	err := svc.DeleteProduct(context.Background(), productID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestDeleteCategoryBlockedByProducts(t *testing.T) {
	categoryID := uuid.New()
	repo := &stubRepo{
		findCategoryByID: func(ctx context.Context, id uuid.UUID) (*models.Category, error) {
			return &models.Category{ID: categoryID, Title: "Produce"}, nil
		},
		countInCategory: func(ctx context.Context, id uuid.UUID) (int64, error) {
			return 7, nil
		},
	}
	svc := newTestService(t, repo)

	err := svc.DeleteCategory(context.Background(), categoryID)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestGetProductNotFound(t *testing.T) {
	repo := &stubRepo{
		findProductByID: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newTestService(t, repo)

	_, err := svc.GetProduct(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestListProductsPaginates(t *testing.T) {
	now := time.Now().UTC()
	rows := make([]models.Product, 0, 3)
	for i := 0; i < 3; i++ {
		rows = append(rows, models.Product{
			ID:        uuid.New(),
			Name:      "Organic Apples",
			Slug:      "organic-apples",
			UnitPrice: decimal.NewFromInt(4),
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		})
	}

	repo := &stubRepo{
		listProducts: func(ctx context.Context, filters ProductFilters, cursor *pagination.Cursor, limit int) ([]models.Product, error) {
			assert.Equal(t, 3, limit)
			return rows, nil
		},
	}
	svc := newTestService(t, repo)

	list, err := svc.ListProducts(context.Background(), ListProductsInput{
		Pagination: pagination.Params{Limit: 2},
	})
	require.NoError(t, err)
	assert.Len(t, list.Products, 2)
	assert.NotEmpty(t, list.NextCursor)

	parsed, err := pagination.ParseCursor(list.NextCursor)
	require.NoError(t, err)
	assert.Equal(t, rows[1].ID, parsed.ID)
}

func TestListProductsRejectsUnknownOrderBy(t *testing.T) {
	svc := newTestService(t, &stubRepo{})

	_, err := svc.ListProducts(context.Background(), ListProductsInput{
		Filters: ProductFilters{OrderBy: "-created_by"},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestListProductsOrderedSkipsCursor(t *testing.T) {
	repo := &stubRepo{
		listProducts: func(ctx context.Context, filters ProductFilters, cursor *pagination.Cursor, limit int) ([]models.Product, error) {
			assert.Nil(t, cursor)
			assert.Equal(t, pagination.DefaultLimit, limit)
			return nil, nil
		},
	}
	svc := newTestService(t, repo)

	list, err := svc.ListProducts(context.Background(), ListProductsInput{
		Filters: ProductFilters{OrderBy: "-unit_price"},
	})
	require.NoError(t, err)
	assert.Empty(t, list.Products)
	assert.Empty(t, list.NextCursor)
}
