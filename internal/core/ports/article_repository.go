package ports

import (
	"context"

	"github.com/essentialtimes/newsroom/internal/core/domain"
)

// ArticleFilter carries the query for listing articles. Zero values mean
// "no filter"; Limit == 0 returns every match.
type ArticleFilter struct {
	Status     domain.ArticleStatus
	AuthorID   int64
	CategoryID int64
	Page       int // 1-based
	Limit      int
}

// ArticleRepository defines persistence operations for articles.
type ArticleRepository interface {
	// Create assigns the ID.
	Create(ctx context.Context, a *domain.Article) error
	FindByID(ctx context.Context, id int64) (*domain.Article, error)
	// Update replaces the stored record; last writer wins.
	Update(ctx context.Context, a *domain.Article) error
	Delete(ctx context.Context, id int64) error
	// List returns a page of articles, newest first, and the total match count.
	List(ctx context.Context, filter ArticleFilter) ([]*domain.Article, int64, error)
}
