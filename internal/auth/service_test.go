package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storelinehq/storeline-backend/internal/customers"
	pkgauth "github.com/storelinehq/storeline-backend/pkg/auth"
	"github.com/storelinehq/storeline-backend/pkg/config"
	"github.com/storelinehq/storeline-backend/pkg/db/models"
	"github.com/storelinehq/storeline-backend/pkg/enums"
	pkgerrors "github.com/storelinehq/storeline-backend/pkg/errors"
	"github.com/storelinehq/storeline-backend/pkg/pagination"
	"github.com/storelinehq/storeline-backend/pkg/security"
)

type stubRepo struct {
	createUser      func(ctx context.Context, user *models.User) (*models.User, error)
	findUserByEmail func(ctx context.Context, email string) (*models.User, error)
	findUserByID    func(ctx context.Context, id uuid.UUID) (*models.User, error)
	updateLastLogin func(ctx context.Context, id uuid.UUID, at time.Time) error
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	return s.createUser(ctx, user)
}

func (s *stubRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUserByEmail(ctx, email)
}

func (s *stubRepo) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.findUserByID(ctx, id)
}

func (s *stubRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return s.updateLastLogin(ctx, id, at)
}

type stubCustomers struct {
	create       func(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	findByUserID func(ctx context.Context, userID uuid.UUID) (*models.Customer, error)
}

func (s *stubCustomers) WithTx(tx *gorm.DB) customers.Repository { return s }

func (s *stubCustomers) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	return s.create(ctx, customer)
}

func (s *stubCustomers) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCustomers) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Customer, error) {
	return s.findByUserID(ctx, userID)
}

func (s *stubCustomers) List(ctx context.Context, cursor *pagination.Cursor, limit int) ([]models.Customer, error) {
	return nil, nil
}

func (s *stubCustomers) Update(ctx context.Context, customer *models.Customer) error {
	return nil
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "storeline-test",
		ExpirationMinutes: 15,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T, repo Repository, custRepo customers.Repository) Service {
	t.Helper()
	svc, err := NewService(repo, custRepo, stubTx{}, testJWTConfig(), testPasswordConfig())
	require.NoError(t, err)
	return svc
}

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	var createdUser *models.User
	var createdCustomer *models.Customer

	repo := &stubRepo{
		createUser: func(ctx context.Context, user *models.User) (*models.User, error) {
			user.ID = uuid.New()
			createdUser = user
			return user, nil
		},
	}
	custRepo := &stubCustomers{
		create: func(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
			customer.ID = uuid.New()
			createdCustomer = customer
			return customer, nil
		},
	}
	svc := newTestService(t, repo, custRepo)

	result, err := svc.Register(context.Background(), RegisterInput{
		Email:     " Ada@Example.com ",
		Password:  "correct horse",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	require.NoError(t, err)
	require.NotNil(t, createdUser)
	require.NotNil(t, createdCustomer)

	assert.Equal(t, "ada@example.com", createdUser.Email)
	assert.Equal(t, enums.UserRoleCustomer, createdUser.Role)
	assert.Equal(t, createdUser.ID, createdCustomer.UserID)
	assert.Equal(t, enums.MembershipTierBronze, createdCustomer.Membership)

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, createdUser.ID, claims.UserID)
	require.NotNil(t, claims.CustomerID)
	assert.Equal(t, createdCustomer.ID, *claims.CustomerID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := &stubRepo{
		createUser: func(ctx context.Context, user *models.User) (*models.User, error) {
			return nil, errors.New(`duplicate key value violates unique constraint "idx_users_email"`)
		},
	}
	svc := newTestService(t, repo, &stubCustomers{})

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:     "ada@example.com",
		Password:  "correct horse",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())
}

func TestRegisterShortPassword(t *testing.T) {
	svc := newTestService(t, &stubRepo{}, &stubCustomers{})

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:     "ada@example.com",
		Password:  "short",
		FirstName: "Ada",
		LastName:  "Lovelace",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestLogin(t *testing.T) {
	hash, err := security.HashPassword("correct horse", testPasswordConfig())
	require.NoError(t, err)

	userID := uuid.New()
	customerID := uuid.New()
	repo := &stubRepo{
		findUserByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{
				ID:           userID,
				Email:        email,
				PasswordHash: hash,
				Role:         enums.UserRoleCustomer,
				IsActive:     true,
			}, nil
		},
		updateLastLogin: func(ctx context.Context, id uuid.UUID, at time.Time) error {
			return nil
		},
	}
	custRepo := &stubCustomers{
		findByUserID: func(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
			return &models.Customer{ID: customerID, UserID: userID}, nil
		},
	}
	svc := newTestService(t, repo, custRepo)

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	require.NotNil(t, result.User.CustomerID)
	assert.Equal(t, customerID, *result.User.CustomerID)
}

func TestLoginWrongPassword(t *testing.T) {
	hash, err := security.HashPassword("correct horse", testPasswordConfig())
	require.NoError(t, err)

	repo := &stubRepo{
		findUserByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{
				ID:           uuid.New(),
				Email:        email,
				PasswordHash: hash,
				Role:         enums.UserRoleCustomer,
				IsActive:     true,
			}, nil
		},
	}
	svc := newTestService(t, repo, &stubCustomers{})

	_, err = svc.Login(context.Background(), LoginInput{
		Email:    "ada@example.com",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLoginUnknownEmail(t *testing.T) {
	repo := &stubRepo{
		findUserByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc := newTestService(t, repo, &stubCustomers{})

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLoginDisabledAccount(t *testing.T) {
	hash, err := security.HashPassword("correct horse", testPasswordConfig())
	require.NoError(t, err)

	repo := &stubRepo{
		findUserByEmail: func(ctx context.Context, email string) (*models.User, error) {
			return &models.User{
				ID:           uuid.New(),
				Email:        email,
				PasswordHash: hash,
				Role:         enums.UserRoleCustomer,
				IsActive:     false,
			}, nil
		},
	}
	svc := newTestService(t, repo, &stubCustomers{})

	_, err = svc.Login(context.Background(), LoginInput{
		Email:    "ada@example.com",
		Password: "correct horse",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeForbidden, pkgerrors.As(err).Code())
}
