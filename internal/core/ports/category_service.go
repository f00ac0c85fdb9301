package ports

import (
	"context"

	"github.com/essentialtimes/newsroom/internal/core/domain"
)

// CategoryInput carries the mutable fields of a category.
type CategoryInput struct {
	Name         string
	Slug         string
	DisplayOrder int
}

type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	Create(ctx context.Context, in CategoryInput) (*domain.Category, error)
	Update(ctx context.Context, id int64, in CategoryInput) (*domain.Category, error)
	Delete(ctx context.Context, id int64) error
}
