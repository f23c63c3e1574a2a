package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storelinehq/storeline-backend/pkg/db/models"
	pkgerrors "github.com/storelinehq/storeline-backend/pkg/errors"
	"github.com/storelinehq/storeline-backend/pkg/pagination"
)

type productChecker interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes product comment operations.
type Service interface {
	CreateComment(ctx context.Context, input CreateCommentInput) (*CommentDTO, error)
	GetComment(ctx context.Context, id uuid.UUID) (*CommentDTO, error)
	ListComments(ctx context.Context, input ListCommentsInput) (*CommentList, error)
	UpdateComment(ctx context.Context, id uuid.UUID, input UpdateCommentInput) (*CommentDTO, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo     Repository
	products productChecker
}

// NewService builds a comments service backed by the provided stack.
func NewService(repo Repository, products productChecker) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("comments repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) CreateComment(ctx context.Context, input CreateCommentInput) (*CommentDTO, error) {
	name := strings.TrimSpace(input.Name)
	body := strings.TrimSpace(input.Body)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment name is required")
	}
	if body == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment body is required")
	}

	if _, err := s.products.FindProductByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	comment := &models.Comment{
		ProductID: input.ProductID,
		Name:      name,
		Body:      body,
	}
	created, err := s.repo.Create(ctx, comment)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create comment")
	}
	dto := buildCommentDTO(created)
	return &dto, nil
}

func (s *service) GetComment(ctx context.Context, id uuid.UUID) (*CommentDTO, error) {
	comment, err := s.findComment(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := buildCommentDTO(comment)
	return &dto, nil
}

func (s *service) ListComments(ctx context.Context, input ListCommentsInput) (*CommentList, error) {
	if _, err := s.products.FindProductByID(ctx, input.ProductID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	cursor, err := pagination.ParseCursor(input.Pagination.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(input.Pagination.Limit)
	rows, err := s.repo.ListByProduct(ctx, input.ProductID, cursor, pagination.LimitWithBuffer(input.Pagination.Limit))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list comments")
	}

	list := &CommentList{Comments: make([]CommentDTO, 0, len(rows))}
	hasMore := len(rows) > limit
	if hasMore {
		rows = rows[:limit]
	}
	for i := range rows {
		list.Comments = append(list.Comments, buildCommentDTO(&rows[i]))
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

func (s *service) UpdateComment(ctx context.Context, id uuid.UUID, input UpdateCommentInput) (*CommentDTO, error) {
	comment, err := s.findComment(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment name is required")
		}
		comment.Name = name
	}
	if input.Body != nil {
		body := strings.TrimSpace(*input.Body)
		if body == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "comment body is required")
		}
		comment.Body = body
	}

	if err := s.repo.Update(ctx, comment); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update comment")
	}
	dto := buildCommentDTO(comment)
	return &dto, nil
}

func (s *service) DeleteComment(ctx context.Context, id uuid.UUID) error {
	if _, err := s.findComment(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete comment")
	}
	return nil
}

func (s *service) findComment(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	comment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "comment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load comment")
	}
	return comment, nil
}

func buildCommentDTO(comment *models.Comment) CommentDTO {
	return CommentDTO{
		ID:        comment.ID,
		ProductID: comment.ProductID,
		Name:      comment.Name,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
	}
}
