package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/storelinehq/storeline-backend/internal/cart"
	"github.com/storelinehq/storeline-backend/internal/policy"
	"github.com/storelinehq/storeline-backend/pkg/db/models"
	"github.com/storelinehq/storeline-backend/pkg/enums"
	pkgerrors "github.com/storelinehq/storeline-backend/pkg/errors"
	"github.com/storelinehq/storeline-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes checkout and order lifecycle operations.
type Service interface {
	Checkout(ctx context.Context, actor Actor, input CheckoutInput) (*OrderDTO, error)
	GetOrder(ctx context.Context, actor Actor, id uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, actor Actor, input ListOrdersInput) (*OrderList, error)
	UpdateOrderStatus(ctx context.Context, actor Actor, id uuid.UUID, input UpdateOrderInput) (*OrderDTO, error)
	DeleteOrder(ctx context.Context, actor Actor, id uuid.UUID) error
}

type service struct {
	repo  Repository
	carts cart.Repository
	tx    txRunner
}

// NewService builds an order service backed by the provided stack.
func NewService(repo Repository, carts cart.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, carts: carts, tx: tx}, nil
}

// Checkout converts a cart into an order inside one transaction. The cart row
// is locked so a double-submitted checkout cannot place two orders from the
// same cart, line prices are captured from the product at checkout time, and
// the cart is deleted once its items are copied over.
func (s *service) Checkout(ctx context.Context, actor Actor, input CheckoutInput) (*OrderDTO, error) {
	if actor.CustomerID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "a customer profile is required to place orders")
	}

	var orderID uuid.UUID
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		cartRepo := s.carts.WithTx(tx)

		if _, err := cartRepo.FindCartForUpdate(ctx, input.CartID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock cart")
		}

		items, err := cartRepo.ListItems(ctx, input.CartID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart items")
		}
		if len(items) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
		}

		order, err := repo.CreateOrder(ctx, &models.Order{
			CustomerID: *actor.CustomerID,
			Status:     enums.OrderStatusUnfulfilled,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		orderItems := make([]models.OrderItem, 0, len(items))
		for i := range items {
			item := &items[i]
			if item.Product == nil {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "cart references a product that no longer exists")
			}
			orderItems = append(orderItems, models.OrderItem{
				OrderID:   order.ID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				UnitPrice: item.Product.UnitPrice,
			})
		}
		if err := repo.CreateOrderItems(ctx, orderItems); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order items")
		}

		if err := cartRepo.DeleteCart(ctx, input.CartID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart")
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := s.findOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return buildOrderDTO(order), nil
}

func (s *service) GetOrder(ctx context.Context, actor Actor, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canViewOrder(actor, order) {
		// Hide the order's existence from non-owners.
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return orderViewFor(actor, order), nil
}

// ListOrders returns the full order book for admins and the actor's own
// history for everyone else.
func (s *service) ListOrders(ctx context.Context, actor Actor, input ListOrdersInput) (*OrderList, error) {
	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(input.Pagination.Limit)
	buffered := pagination.LimitWithBuffer(input.Pagination.Limit)

	var rows []models.Order
	if policy.CanPerform(actor.Role, policy.ActionListAllOrders) {
		rows, err = s.repo.ListAll(ctx, cursor, buffered)
	} else {
		if actor.CustomerID == nil {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "a customer profile is required to list orders")
		}
		rows, err = s.repo.ListByCustomer(ctx, *actor.CustomerID, cursor, buffered)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	list := &OrderList{Orders: make([]OrderDTO, 0, len(rows))}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.PlacedAt,
			ID:        last.ID,
		})
	}
	for i := range rows {
		list.Orders = append(list.Orders, *orderViewFor(actor, &rows[i]))
	}
	return list, nil
}

// UpdateOrderStatus moves an order along its lifecycle. Transitions only run
// forward and terminal orders are frozen.
func (s *service) UpdateOrderStatus(ctx context.Context, actor Actor, id uuid.UUID, input UpdateOrderInput) (*OrderDTO, error) {
	if !policy.CanPerform(actor.Role, policy.ActionUpdateOrder) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to update orders")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.findOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.Status == input.Status {
		return buildAdminOrderDTO(order), nil
	}
	if !order.Status.CanTransition(input.Status) {
		return nil, pkgerrors.New(
			pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot transition order from %s to %s", order.Status, input.Status),
		)
	}

	order.Status = input.Status
	if err := s.repo.UpdateOrder(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order")
	}
	return buildAdminOrderDTO(order), nil
}

func (s *service) DeleteOrder(ctx context.Context, actor Actor, id uuid.UUID) error {
	if !policy.CanPerform(actor.Role, policy.ActionDeleteOrder) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to delete orders")
	}
	if _, err := s.findOrder(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}

func (s *service) findOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func canViewOrder(actor Actor, order *models.Order) bool {
	if policy.CanPerform(actor.Role, policy.ActionListAllOrders) {
		return true
	}
	return actor.CustomerID != nil && *actor.CustomerID == order.CustomerID
}

// orderViewFor picks the response shape for the actor. Back office roles see
// the purchasing customer embedded, owners see their order without it.
func orderViewFor(actor Actor, order *models.Order) *OrderDTO {
	if policy.CanPerform(actor.Role, policy.ActionListAllOrders) {
		return buildAdminOrderDTO(order)
	}
	return buildOrderDTO(order)
}

func buildAdminOrderDTO(order *models.Order) *OrderDTO {
	dto := buildOrderDTO(order)
	if order.Customer != nil {
		dto.Customer = buildOrderCustomerDTO(order.Customer)
	}
	return dto
}

func buildOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:         order.ID,
		CustomerID: order.CustomerID,
		Status:     order.Status,
		Items:      make([]OrderItemDTO, 0, len(order.Items)),
		TotalPrice: decimal.Zero,
		PlacedAt:   order.PlacedAt,
		UpdatedAt:  order.UpdatedAt,
	}
	for i := range order.Items {
		item := buildOrderItemDTO(&order.Items[i])
		dto.Items = append(dto.Items, item)
		dto.TotalPrice = dto.TotalPrice.Add(item.LineTotal)
	}
	return dto
}

func buildOrderItemDTO(item *models.OrderItem) OrderItemDTO {
	dto := OrderItemDTO{
		ID:        item.ID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
		LineTotal: item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))),
	}
	if item.Product != nil {
		dto.ProductName = item.Product.Name
	}
	return dto
}

func buildOrderCustomerDTO(customer *models.Customer) *OrderCustomerDTO {
	dto := &OrderCustomerDTO{
		ID:         customer.ID,
		Membership: customer.Membership,
	}
	if customer.User != nil {
		dto.Email = customer.User.Email
		dto.FirstName = customer.User.FirstName
		dto.LastName = customer.User.LastName
	}
	return dto
}
