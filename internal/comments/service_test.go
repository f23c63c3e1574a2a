package comments

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storelinehq/storeline-backend/pkg/db/models"
	pkgerrors "github.com/storelinehq/storeline-backend/pkg/errors"
	"github.com/storelinehq/storeline-backend/pkg/pagination"
)

type stubRepo struct {
	create        func(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	findByID      func(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	listByProduct func(ctx context.Context, productID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Comment, error)
	update        func(ctx context.Context, comment *models.Comment) error
	deleteFn      func(ctx context.Context, id uuid.UUID) error
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	return s.create(ctx, comment)
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	return s.findByID(ctx, id)
}

func (s *stubRepo) ListByProduct(ctx context.Context, productID uuid.UUID, cursor *pagination.Cursor, limit int) ([]models.Comment, error) {
	return s.listByProduct(ctx, productID, cursor, limit)
}

func (s *stubRepo) Update(ctx context.Context, comment *models.Comment) error {
	return s.update(ctx, comment)
}

func (s *stubRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}

type stubProducts struct {
	find func(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

func (s *stubProducts) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	return s.find(ctx, id)
}

func TestCreateCommentRequiresFields(t *testing.T) {
	svc, err := NewService(&stubRepo{}, &stubProducts{})
	require.NoError(t, err)

	_, err = svc.CreateComment(context.Background(), CreateCommentInput{
		ProductID: uuid.New(),
		Name:      "  ",
		Body:      "tasty",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.CreateComment(context.Background(), CreateCommentInput{
		ProductID: uuid.New(),
		Name:      "Ada",
		Body:      "",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestCreateCommentUnknownProduct(t *testing.T) {
	products := &stubProducts{
		find: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
			return nil, gorm.ErrRecordNotFound
		},
	}
	svc, err := NewService(&stubRepo{}, products)
	require.NoError(t, err)

	_, err = svc.CreateComment(context.Background(), CreateCommentInput{
		ProductID: uuid.New(),
		Name:      "Ada",
		Body:      "tasty",
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestCreateComment(t *testing.T) {
	productID := uuid.New()
	products := &stubProducts{
		find: func(ctx context.Context, id uuid.UUID) (*models.Product, error) {
			return &models.Product{ID: productID}, nil
		},
	}
	repo := &stubRepo{
		create: func(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
			comment.ID = uuid.New()
			return comment, nil
		},
	}
	svc, err := NewService(repo, products)
	require.NoError(t, err)

	dto, err := svc.CreateComment(context.Background(), CreateCommentInput{
		ProductID: productID,
		Name:      "  Ada ",
		Body:      " really tasty ",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada", dto.Name)
	assert.Equal(t, "really tasty", dto.Body)
	assert.Equal(t, productID, dto.ProductID)
}
