package comments

import (
	"time"

	"github.com/google/uuid"

	"github.com/storelinehq/storeline-backend/pkg/pagination"
)

// CreateCommentInput captures the payload for a new product comment.
type CreateCommentInput struct {
	ProductID uuid.UUID
	Name      string
	Body      string
}

// UpdateCommentInput captures the mutable comment fields.
type UpdateCommentInput struct {
	Name *string
	Body *string
}

// ListCommentsInput paginates comments under a single product.
type ListCommentsInput struct {
	ProductID  uuid.UUID
	Pagination pagination.Params
}

// CommentDTO is the comment shape returned to clients.
type CommentDTO struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// CommentList wraps the paginated comments plus the next page cursor.
type CommentList struct {
	Comments   []CommentDTO `json:"comments"`
	NextCursor string       `json:"next_cursor,omitempty"`
}
