package ports

import (
	"context"

	"github.com/essentialtimes/newsroom/internal/core/domain"
)

// ArticleView is an article enriched with its category display name.
// CategoryName is empty when the article is uncategorized or its category was deleted.
type ArticleView struct {
	*domain.Article
	CategoryName string `json:"category_name,omitempty"`
}

// ArticlePage is one page of a public listing.
type ArticlePage struct {
	Articles   []ArticleView     `json:"articles"`
	Pagination domain.Pagination `json:"pagination"`
}

// CreateArticleInput carries a new article. Image is optional.
type CreateArticleInput struct {
	Title      string
	Content    string
	CategoryID *int64
	Image      *ImageUpload
}

// UpdateArticleInput carries a partial update; nil fields keep their value.
// ClearCategory detaches the category when CategoryID is nil.
type UpdateArticleInput struct {
	Title         *string
	Content       *string
	CategoryID    *int64
	ClearCategory bool
	Image         *ImageUpload
}

type ArticleService interface {
	ListPublished(ctx context.Context, page, limit int) (*ArticlePage, error)
	ListByCategory(ctx context.Context, slug string, page, limit int) (*ArticlePage, error)
	GetPublished(ctx context.Context, id int64) (*ArticleView, error)
	Create(ctx context.Context, caller domain.Identity, in CreateArticleInput) (*domain.Article, error)
	Update(ctx context.Context, caller domain.Identity, id int64, in UpdateArticleInput) (*domain.Article, error)
	Delete(ctx context.Context, caller domain.Identity, id int64) error
	ListMine(ctx context.Context, caller domain.Identity, page, limit int) (*ArticlePage, error)
	ListAll(ctx context.Context, caller domain.Identity, page, limit int) (*ArticlePage, error)
}
