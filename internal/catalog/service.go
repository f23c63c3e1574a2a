package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storelinehq/storeline-backend/pkg/db"
	"github.com/storelinehq/storeline-backend/pkg/db/models"
	pkgerrors "github.com/storelinehq/storeline-backend/pkg/errors"
	"github.com/storelinehq/storeline-backend/pkg/pagination"
)

const (
	minProductNameLen = 6
	maxSlugAttempts   = 5
	slugUniqueIndex   = "idx_products_slug"
)

// taxMultiplier converts a stored unit price into its after-tax display price.
var taxMultiplier = decimal.RequireFromString("1.09")

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes catalog operations over categories and products.
type Service interface {
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error)
	ListCategories(ctx context.Context) ([]CategoryDTO, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	GetProductBySlug(ctx context.Context, slug string) (*ProductDTO, error)
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductList, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a catalog service backed by the provided stack.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*CategoryDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category title is required")
	}

	category := &models.Category{
		Title:             title,
		FeaturedProductID: input.FeaturedProductID,
	}
	created, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return s.buildCategoryDTO(ctx, created)
}

func (s *service) GetCategory(ctx context.Context, id uuid.UUID) (*CategoryDTO, error) {
	category, err := s.findCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.buildCategoryDTO(ctx, category)
}

func (s *service) ListCategories(ctx context.Context) ([]CategoryDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}

	result := make([]CategoryDTO, 0, len(categories))
	for i := range categories {
		dto, err := s.buildCategoryDTO(ctx, &categories[i])
		if err != nil {
			return nil, err
		}
		result = append(result, *dto)
	}
	return result, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*CategoryDTO, error) {
	category, err := s.findCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category title is required")
		}
		category.Title = title
	}
	if input.FeaturedProductID != nil {
		if _, err := s.repo.FindProductByID(ctx, *input.FeaturedProductID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "featured product not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load featured product")
		}
		category.FeaturedProductID = input.FeaturedProductID
	}

	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	return s.buildCategoryDTO(ctx, category)
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findCategory(ctx, id); err != nil {
		return err
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		count, err := repo.CountProductsInCategory(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count category products")
		}
		if count > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "category has products and cannot be deleted").
				WithDetails(map[string]any{"product_count": count})
		}

		if err := repo.DeleteCategory(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
		}
		return nil
	})
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateProductFields(input.Name, input.UnitPrice, input.Inventory); err != nil {
		return nil, err
	}
	if _, err := s.findCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	base := Slugify(input.Name)
	if base == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name must contain letters or digits")
	}

	var created *models.Product
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		product := &models.Product{
			Name:        strings.TrimSpace(input.Name),
			Slug:        SlugWithSuffix(base, attempt),
			Description: input.Description,
			UnitPrice:   input.UnitPrice,
			Inventory:   input.Inventory,
			CategoryID:  input.CategoryID,
		}
		result, err := s.repo.CreateProduct(ctx, product)
		if err == nil {
			created = result
			break
		}
		if db.IsUniqueViolation(err, slugUniqueIndex) && attempt < maxSlugAttempts {
			continue
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	if created == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "could not assign a unique slug")
	}

	return s.loadProductDTO(ctx, created.ID)
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	return s.loadProductDTO(ctx, id)
}

func (s *service) GetProductBySlug(ctx context.Context, slug string) (*ProductDTO, error) {
	product, err := s.repo.FindProductBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	dto := buildProductDTO(product)
	return &dto, nil
}

func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductList, error) {
	if err := validateFilters(input.Filters); err != nil {
		return nil, err
	}

	keyset := strings.TrimSpace(input.Filters.OrderBy) == ""

	var cursor *pagination.Cursor
	if keyset {
		parsed, err := pagination.ParseCursor(input.Pagination.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		cursor = parsed
	}

	limit := pagination.NormalizeLimit(input.Pagination.Limit)
	fetch := limit
	if keyset {
		fetch = pagination.LimitWithBuffer(input.Pagination.Limit)
	}

	rows, err := s.repo.ListProducts(ctx, input.Filters, cursor, fetch)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	list := &ProductList{Products: make([]ProductDTO, 0, len(rows))}

	hasMore := keyset && len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		list.Products = append(list.Products, buildProductDTO(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return list, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.UnitPrice != nil {
		product.UnitPrice = *input.UnitPrice
	}
	if input.Inventory != nil {
		product.Inventory = *input.Inventory
	}
	if input.CategoryID != nil {
		if _, err := s.findCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *input.CategoryID
	}

	if err := validateProductFields(product.Name, product.UnitPrice, product.Inventory); err != nil {
		return nil, err
	}

	// Slugs stay stable after creation so stored links keep working.
	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return s.loadProductDTO(ctx, id)
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findProduct(ctx, id); err != nil {
		return err
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		count, err := repo.CountOrderReferences(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count order references")
		}
		if count > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "product is referenced by existing orders and cannot be deleted").
				WithDetails(map[string]any{"order_item_count": count})
		}

		if err := repo.DeleteProduct(ctx, id); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
		}
		return nil
	})
}

func (s *service) findCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	return category, nil
}

func (s *service) findProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) loadProductDTO(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	product, err := s.findProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := buildProductDTO(product)
	return &dto, nil
}

func (s *service) buildCategoryDTO(ctx context.Context, category *models.Category) (*CategoryDTO, error) {
	count, err := s.repo.CountProductsInCategory(ctx, category.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count category products")
	}
	return &CategoryDTO{
		ID:                category.ID,
		Title:             category.Title,
		FeaturedProductID: category.FeaturedProductID,
		ProductCount:      count,
		CreatedAt:         category.CreatedAt,
	}, nil
}

func buildProductDTO(product *models.Product) ProductDTO {
	dto := ProductDTO{
		ID:                product.ID,
		Name:              product.Name,
		Slug:              product.Slug,
		Description:       product.Description,
		UnitPrice:         product.UnitPrice,
		UnitPriceAfterTax: PriceAfterTax(product.UnitPrice),
		Inventory:         product.Inventory,
		CategoryID:        product.CategoryID,
		CreatedAt:         product.CreatedAt,
	}
	if product.Category != nil {
		dto.CategoryTitle = product.Category.Title
	}
	return dto
}

// PriceAfterTax applies the flat sales tax rate and rounds to cents.
func PriceAfterTax(price decimal.Decimal) decimal.Decimal {
	return price.Mul(taxMultiplier).Round(2)
}

func validateProductFields(name string, unitPrice decimal.Decimal, inventory int) error {
	if len(strings.TrimSpace(name)) < minProductNameLen {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name must be at least 6 characters")
	}
	if unitPrice.LessThanOrEqual(decimal.Zero) {
		return pkgerrors.New(pkgerrors.CodeValidation, "unit price must be positive")
	}
	if inventory < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "inventory cannot be negative")
	}
	return nil
}

func validateFilters(filters ProductFilters) error {
	if filters.PriceMin != nil && filters.PriceMax != nil && filters.PriceMin.GreaterThan(*filters.PriceMax) {
		return pkgerrors.New(pkgerrors.CodeValidation, "price_min cannot exceed price_max")
	}
	if key := strings.TrimPrefix(strings.TrimSpace(filters.OrderBy), "-"); key != "" {
		if _, ok := orderableColumns[key]; !ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "unsupported order_by field").
				WithDetails(map[string]any{"field": key})
		}
	}
	return nil
}
