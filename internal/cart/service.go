package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storelinehq/storeline-backend/pkg/db"
	"github.com/storelinehq/storeline-backend/pkg/db/models"
	pkgerrors "github.com/storelinehq/storeline-backend/pkg/errors"
)

const cartItemUniqueIndex = "idx_cart_items_cart_product"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productLoader interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes anonymous cart operations.
type Service interface {
	CreateCart(ctx context.Context) (*CartDTO, error)
	GetCart(ctx context.Context, id uuid.UUID) (*CartDTO, error)
	DeleteCart(ctx context.Context, id uuid.UUID) error

	AddItem(ctx context.Context, cartID uuid.UUID, input AddItemInput) (*CartDTO, error)
	UpdateItem(ctx context.Context, cartID, itemID uuid.UUID, input UpdateItemInput) (*CartDTO, error)
	RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*CartDTO, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	products productLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, tx txRunner, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, tx: tx, products: products}, nil
}

func (s *service) CreateCart(ctx context.Context) (*CartDTO, error) {
	cart, err := s.repo.CreateCart(ctx, &models.Cart{})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return buildCartDTO(cart), nil
}

func (s *service) GetCart(ctx context.Context, id uuid.UUID) (*CartDTO, error) {
	cart, err := s.findCart(ctx, id)
	if err != nil {
		return nil, err
	}
	return buildCartDTO(cart), nil
}

func (s *service) DeleteCart(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findCart(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteCart(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart")
	}
	return nil
}

// AddItem merges quantity into an existing line for the same product, or
// creates a new line. The cart row is locked for the duration so concurrent
// adds serialize instead of tripping the unique index.
func (s *service) AddItem(ctx context.Context, cartID uuid.UUID, input AddItemInput) (*CartDTO, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.FindProductByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindCartForUpdate(ctx, cartID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock cart")
		}

		existing, err := repo.FindItem(ctx, cartID, product.ID)
		switch {
		case err == nil:
			existing.Quantity += input.Quantity
			if err := repo.UpdateItem(ctx, existing); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
			}
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			item := &models.CartItem{
				CartID:    cartID,
				ProductID: product.ID,
				Quantity:  input.Quantity,
			}
			if _, err := repo.CreateItem(ctx, item); err != nil {
				if db.IsUniqueViolation(err, cartItemUniqueIndex) {
					return pkgerrors.New(pkgerrors.CodeConflict, "cart item already exists")
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart item")
			}
			return nil
		default:
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
		}
	})
	if err != nil {
		return nil, err
	}

	return s.GetCart(ctx, cartID)
}

func (s *service) UpdateItem(ctx context.Context, cartID, itemID uuid.UUID, input UpdateItemInput) (*CartDTO, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		if _, err := repo.FindCartForUpdate(ctx, cartID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock cart")
		}

		item, err := repo.FindItemByID(ctx, cartID, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
		}

		item.Quantity = input.Quantity
		if err := repo.UpdateItem(ctx, item); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetCart(ctx, cartID)
}

func (s *service) RemoveItem(ctx context.Context, cartID, itemID uuid.UUID) (*CartDTO, error) {
	if _, err := s.findCart(ctx, cartID); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindItemByID(ctx, cartID, itemID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}

	if err := s.repo.DeleteItem(ctx, cartID, itemID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
	}
	return s.GetCart(ctx, cartID)
}

func (s *service) findCart(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	cart, err := s.repo.FindCartByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

func buildCartDTO(cart *models.Cart) *CartDTO {
	dto := &CartDTO{
		ID:         cart.ID,
		Items:      make([]CartItemDTO, 0, len(cart.Items)),
		TotalPrice: decimal.Zero,
		CreatedAt:  cart.CreatedAt,
	}
	for i := range cart.Items {
		item := buildCartItemDTO(&cart.Items[i])
		dto.Items = append(dto.Items, item)
		dto.TotalPrice = dto.TotalPrice.Add(item.LineTotal)
	}
	return dto
}

func buildCartItemDTO(item *models.CartItem) CartItemDTO {
	dto := CartItemDTO{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	}
	if item.Product != nil {
		dto.ProductName = item.Product.Name
		dto.UnitPrice = item.Product.UnitPrice
		dto.LineTotal = item.Product.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
	}
	return dto
}
