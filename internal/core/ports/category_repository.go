package ports

import (
	"context"

	"github.com/essentialtimes/newsroom/internal/core/domain"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	// List returns all categories ordered by display order, then insertion order.
	List(ctx context.Context) ([]domain.Category, error)
	FindByID(ctx context.Context, id int64) (*domain.Category, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Category, error)
	// Create assigns the ID. A duplicate name or slug yields domain.ErrCategoryExists.
	Create(ctx context.Context, c *domain.Category) error
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

// CategoryCache holds the ordered category list between admin mutations.
// Get reports the generation it observed and Set stores the list under that
// generation only, so a list read before an Invalidate is never served after it.
type CategoryCache interface {
	Get(ctx context.Context) (categories []domain.Category, generation int64, hit bool, err error)
	Set(ctx context.Context, generation int64, categories []domain.Category) error
	// Invalidate starts a new generation.
	Invalidate(ctx context.Context) error
}
