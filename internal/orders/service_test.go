package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storelinehq/storeline-backend/internal/cart"
	"github.com/storelinehq/storeline-backend/pkg/db/models"
	"github.com/storelinehq/storeline-backend/pkg/enums"
	pkgerrors "github.com/storelinehq/storeline-backend/pkg/errors"
	"github.com/storelinehq/storeline-backend/pkg/pagination"
)

type stubRepo struct {
	createOrder      func(ctx context.Context, order *models.Order) (*models.Order, error)
	createOrderItems func(ctx context.Context, items []models.OrderItem) error
	findByID         func(ctx context.Context, id uuid.UUID) (*models.Order, error)
	listByCustomer   func(ctx context.Context, customerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Order, error)
	listAll          func(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Order, error)
	updateOrder      func(ctx context.Context, order *models.Order) error
	deleteOrder      func(ctx context.Context, id uuid.UUID) error
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	return s.createOrder(ctx, order)
}

func (s *stubRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	return s.createOrderItems(ctx, items)
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return s.findByID(ctx, id)
}

func (s *stubRepo) ListByCustomer(ctx context.Context, customerID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
	return s.listByCustomer(ctx, customerID, cursor, limit)
}

func (s *stubRepo) ListAll(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
	return s.listAll(ctx, cursor, limit)
}

func (s *stubRepo) UpdateOrder(ctx context.Context, order *models.Order) error {
	return s.updateOrder(ctx, order)
}

func (s *stubRepo) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return s.deleteOrder(ctx, id)
}

type stubCartRepo struct {
	findCartForUpdate func(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	listItems         func(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error)
	deleteCart        func(ctx context.Context, id uuid.UUID) error
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) cart.Repository { return s }

func (s *stubCartRepo) CreateCart(ctx context.Context, c *models.Cart) (*models.Cart, error) {
	return nil, nil
}

func (s *stubCartRepo) FindCartByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) FindCartForUpdate(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	return s.findCartForUpdate(ctx, id)
}

func (s *stubCartRepo) DeleteCart(ctx context.Context, id uuid.UUID) error {
	return s.deleteCart(ctx, id)
}

func (s *stubCartRepo) FindItem(ctx context.Context, cartID, productID uuid.UUID) (*models.CartItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) FindItemByID(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) CreateItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	return nil, nil
}

func (s *stubCartRepo) UpdateItem(ctx context.Context, item *models.CartItem) error { return nil }

func (s *stubCartRepo) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error { return nil }

func (s *stubCartRepo) ListItems(ctx context.Context, cartID uuid.UUID) ([]models.CartItem, error) {
	return s.listItems(ctx, cartID)
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func customerActor(customerID uuid.UUID) Actor {
	return Actor{
		UserID:     uuid.New(),
		CustomerID: &customerID,
		Role:       enums.UserRoleCustomer,
	}
}

func adminActor() Actor {
	return Actor{UserID: uuid.New(), Role: enums.UserRoleAdmin}
}

func price(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestCheckoutCapturesPricesAndDeletesCart(t *testing.T) {
	customerID := uuid.New()
	cartID := uuid.New()
	productA := &models.Product{ID: uuid.New(), Name: "Organic Apples", UnitPrice: price("3.50")}
	productB := &models.Product{ID: uuid.New(), Name: "Raw Honey", UnitPrice: price("10.00")}

	var createdItems []models.OrderItem
	var deletedCart uuid.UUID
	var createdOrder *models.Order

	repo := &stubRepo{
		createOrder: func(ctx context.Context, order *models.Order) (*models.Order, error) {
			order.ID = uuid.New()
			order.PlacedAt = time.Now().UTC()
			createdOrder = order
			return order, nil
		},
		createOrderItems: func(ctx context.Context, items []models.OrderItem) error {
			createdItems = items
			return nil
		},
		findByID: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			createdOrder.Items = createdItems
			return createdOrder, nil
		},
	}
	carts := &stubCartRepo{
		findCartForUpdate: func(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
			return &models.Cart{ID: id}, nil
		},
		listItems: func(ctx context.Context, id uuid.UUID) ([]models.CartItem, error) {
			return []models.CartItem{
				{ID: uuid.New(), CartID: cartID, ProductID: productA.ID, Product: productA, Quantity: 2},
				{ID: uuid.New(), CartID: cartID, ProductID: productB.ID, Product: productB, Quantity: 1},
			}, nil
		},
		deleteCart: func(ctx context.Context, id uuid.UUID) error {
			deletedCart = id
			return nil
		},
	}

	svc, err := NewService(repo, carts, stubTx{})
	require.NoError(t, err)

	dto, err := svc.Checkout(context.Background(), customerActor(customerID), CheckoutInput{CartID: cartID})
	require.NoError(t, err)

	assert.Equal(t, cartID, deletedCart)
	assert.Equal(t, customerID, dto.CustomerID)
	assert.Equal(t, enums.OrderStatusUnfulfilled, dto.Status)
	require.Len(t, dto.Items, 2)
	assert.True(t, dto.Items[0].UnitPrice.Equal(price("3.50")))
	assert.True(t, dto.TotalPrice.Equal(price("17.00")))

	require.Len(t, createdItems, 2)
	assert.Equal(t, createdOrder.ID, createdItems[0].OrderID)
}

func TestCheckoutEmptyCart(t *testing.T) {
	carts := &stubCartRepo{
		findCartForUpdate: func(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
			return &models.Cart{ID: id}, nil
		},
		listItems: func(ctx context.Context, id uuid.UUID) ([]models.CartItem, error) {
			return nil, nil
		},
	}
	svc, err := NewService(&stubRepo{}, carts, stubTx{})
	require.NoError(t, err)

	_, err = svc.Checkout(context.Background(), customerActor(uuid.New()), CheckoutInput{CartID: uuid.New()})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCheckoutUnknownCart(t *testing.T) {
	carts := &stubCartRepo{
		findCartForUpdate: func(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc, err := NewService(&stubRepo{}, carts, stubTx{})
	require.NoError(t, err)

	_, err = svc.Checkout(context.Background(), customerActor(uuid.New()), CheckoutInput{CartID: uuid.New()})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestCheckoutRequiresCustomerProfile(t *testing.T) {
	svc, err := NewService(&stubRepo{}, &stubCartRepo{}, stubTx{})
	require.NoError(t, err)

	_, err = svc.Checkout(context.Background(), adminActor(), CheckoutInput{CartID: uuid.New()})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestGetOrderHidesOtherCustomers(t *testing.T) {
	owner := uuid.New()
	repo := &stubRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			return &models.Order{ID: id, CustomerID: owner, Status: enums.OrderStatusUnfulfilled}, nil
		},
	}
	svc, err := NewService(repo, &stubCartRepo{}, stubTx{})
	require.NoError(t, err)

	_, err = svc.GetOrder(context.Background(), customerActor(uuid.New()), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	dto, err := svc.GetOrder(context.Background(), customerActor(owner), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, owner, dto.CustomerID)

	dto, err = svc.GetOrder(context.Background(), adminActor(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, owner, dto.CustomerID)
}

func TestGetOrderEmbedsCustomerForAdmins(t *testing.T) {
	customerID := uuid.New()
	repo := &stubRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			return &models.Order{
				ID:         id,
				CustomerID: customerID,
				Customer: &models.Customer{
					ID:         customerID,
					Membership: enums.MembershipTierGold,
					User: &models.User{
						Email:     "ada@example.com",
						FirstName: "Ada",
						LastName:  "Lovelace",
					},
				},
				Status: enums.OrderStatusUnfulfilled,
			}, nil
		},
	}
	svc, err := NewService(repo, &stubCartRepo{}, stubTx{})
	require.NoError(t, err)

	dto, err := svc.GetOrder(context.Background(), adminActor(), uuid.New())
	require.NoError(t, err)
	require.NotNil(t, dto.Customer)
	assert.Equal(t, customerID, dto.Customer.ID)
	assert.Equal(t, "ada@example.com", dto.Customer.Email)
	assert.Equal(t, enums.MembershipTierGold, dto.Customer.Membership)

	dto, err = svc.GetOrder(context.Background(), customerActor(customerID), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, dto.Customer)
}

func TestListOrdersScopesByRole(t *testing.T) {
	customerID := uuid.New()
	repo := &stubRepo{
		listByCustomer: func(ctx context.Context, id uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
			assert.Equal(t, customerID, id)
			return []models.Order{{ID: uuid.New(), CustomerID: id}}, nil
		},
		listAll: func(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
			return []models.Order{
				{ID: uuid.New(), CustomerID: uuid.New()},
				{ID: uuid.New(), CustomerID: uuid.New()},
			}, nil
		},
	}
	svc, err := NewService(repo, &stubCartRepo{}, stubTx{})
	require.NoError(t, err)

	list, err := svc.ListOrders(context.Background(), customerActor(customerID), ListOrdersInput{})
	require.NoError(t, err)
	assert.Len(t, list.Orders, 1)

	list, err = svc.ListOrders(context.Background(), adminActor(), ListOrdersInput{})
	require.NoError(t, err)
	assert.Len(t, list.Orders, 2)
}

func TestListOrdersPaginates(t *testing.T) {
	now := time.Now().UTC()
	rows := make([]models.Order, 0, 3)
	for i := 0; i < 3; i++ {
		rows = append(rows, models.Order{
			ID:         uuid.New(),
			CustomerID: uuid.New(),
			PlacedAt:   now.Add(-time.Duration(i) * time.Hour),
		})
	}
	repo := &stubRepo{
		listAll: func(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Order, error) {
			assert.Equal(t, 3, limit)
			return rows, nil
		},
	}
	svc, err := NewService(repo, &stubCartRepo{}, stubTx{})
	require.NoError(t, err)

	list, err := svc.ListOrders(context.Background(), adminActor(), ListOrdersInput{
		Pagination: pagination.Params{Limit: 2},
	})
	require.NoError(t, err)
	assert.Len(t, list.Orders, 2)
	require.NotEmpty(t, list.NextCursor)

	cursor, err := pagination.ParseCursor(list.NextCursor)
	require.NoError(t, err)
	assert.Equal(t, rows[1].ID, cursor.ID)
}

func TestUpdateOrderStatusTransitions(t *testing.T) {
	order := &models.Order{ID: uuid.New(), CustomerID: uuid.New(), Status: enums.OrderStatusCompleted}
	repo := &stubRepo{
		findByID: func(ctx context.Context, id uuid.UUID) (*models.Order, error) {
			return order, nil
		},
		updateOrder: func(ctx context.Context, o *models.Order) error {
			return nil
		},
	}
	svc, err := NewService(repo, &stubCartRepo{}, stubTx{})
	require.NoError(t, err)

	_, err = svc.UpdateOrderStatus(context.Background(), adminActor(), order.ID, UpdateOrderInput{
		Status: enums.OrderStatusProcessing,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	order.Status = enums.OrderStatusUnfulfilled
	dto, err := svc.UpdateOrderStatus(context.Background(), adminActor(), order.ID, UpdateOrderInput{
		Status: enums.OrderStatusProcessing,
	})
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusProcessing, dto.Status)
}

func TestUpdateOrderStatusForbiddenForCustomers(t *testing.T) {
	svc, err := NewService(&stubRepo{}, &stubCartRepo{}, stubTx{})
	require.NoError(t, err)

	_, err = svc.UpdateOrderStatus(context.Background(), customerActor(uuid.New()), uuid.New(), UpdateOrderInput{
		Status: enums.OrderStatusCompleted,
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}

func TestDeleteOrderForbiddenForCustomers(t *testing.T) {
	svc, err := NewService(&stubRepo{}, &stubCartRepo{}, stubTx{})
	require.NoError(t, err)

	err = svc.DeleteOrder(context.Background(), customerActor(uuid.New()), uuid.New())
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}
