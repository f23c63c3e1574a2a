package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storelinehq/storeline-backend/pkg/db/models"
	pkgerrors "github.com/storelinehq/storeline-backend/pkg/errors"
	"github.com/storelinehq/storeline-backend/pkg/pagination"
)

// Service exposes customer profile operations.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*CustomerDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*CustomerDTO, error)

	GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerDTO, error)
	ListCustomers(ctx context.Context, input ListCustomersInput) (*CustomerList, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*CustomerDTO, error)
}

type service struct {
	repo Repository
}

// NewService builds a customers service backed by the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*CustomerDTO, error) {
	customer, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	dto := buildCustomerDTO(customer)
	return &dto, nil
}

func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*CustomerDTO, error) {
	customer, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}

	applyProfileChanges(customer, input.Phone, input.BirthDate)

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
	}
	dto := buildCustomerDTO(customer)
	return &dto, nil
}

func (s *service) GetCustomer(ctx context.Context, id uuid.UUID) (*CustomerDTO, error) {
	customer, err := s.findCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := buildCustomerDTO(customer)
	return &dto, nil
}

func (s *service) ListCustomers(ctx context.Context, input ListCustomersInput) (*CustomerList, error) {
	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(input.Pagination.Limit)
	rows, err := s.repo.List(ctx, cursor, pagination.LimitWithBuffer(input.Pagination.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}

	list := &CustomerList{Customers: make([]CustomerDTO, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		list.Customers = append(list.Customers, buildCustomerDTO(&rows[i]))
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

func (s *service) UpdateCustomer(ctx context.Context, id uuid.UUID, input UpdateCustomerInput) (*CustomerDTO, error) {
	customer, err := s.findCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	applyProfileChanges(customer, input.Phone, input.BirthDate)
	if input.Membership != nil {
		if !input.Membership.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid membership tier")
		}
		customer.Membership = *input.Membership
	}

	if err := s.repo.Update(ctx, customer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update customer")
	}
	dto := buildCustomerDTO(customer)
	return &dto, nil
}

func (s *service) findCustomer(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}

func applyProfileChanges(customer *models.Customer, phone *string, birthDate *time.Time) {
	if phone != nil {
		trimmed := strings.TrimSpace(*phone)
		if trimmed == "" {
			customer.Phone = nil
		} else {
			customer.Phone = &trimmed
		}
	}
	if birthDate != nil {
		customer.BirthDate = birthDate
	}
}

func buildCustomerDTO(customer *models.Customer) CustomerDTO {
	dto := CustomerDTO{
		ID:         customer.ID,
		UserID:     customer.UserID,
		Phone:      customer.Phone,
		BirthDate:  customer.BirthDate,
		Membership: customer.Membership,
		CreatedAt:  customer.CreatedAt,
	}
	if customer.User != nil {
		dto.Email = customer.User.Email
		dto.FirstName = customer.User.FirstName
		dto.LastName = customer.User.LastName
	}
	return dto
}
