package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/essentialtimes/newsroom/internal/core/domain"
	"github.com/essentialtimes/newsroom/internal/core/ports"
)

// DefaultMaxImageBytes is the largest accepted image attachment.
const DefaultMaxImageBytes int64 = 5 << 20

// ArticleDeps groups the collaborators of ArticleService.
type ArticleDeps struct {
	Articles   ports.ArticleRepository
	Categories ports.CategoryRepository
	Users      ports.UserRepository
	Images     ports.ImageStore
	// Janitor removes replaced images in the background. When nil, images are
	// removed inline.
	Janitor       ports.ImageJanitor
	MaxImageBytes int64
}

type ArticleService struct {
	articles      ports.ArticleRepository
	categories    ports.CategoryRepository
	users         ports.UserRepository
	images        ports.ImageStore
	janitor       ports.ImageJanitor
	maxImageBytes int64
	log           zerolog.Logger
	now           func() time.Time
}

func NewArticleService(deps ArticleDeps, log zerolog.Logger) *ArticleService {
	maxBytes := deps.MaxImageBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &ArticleService{
		articles:      deps.Articles,
		categories:    deps.Categories,
		users:         deps.Users,
		images:        deps.Images,
		janitor:       deps.Janitor,
		maxImageBytes: maxBytes,
		log:           log,
		now:           time.Now,
	}
}

// ListPublished returns one page of published articles, newest first.
func (s *ArticleService) ListPublished(ctx context.Context, page, limit int) (*ports.ArticlePage, error) {
	page, limit = domain.NormalizePage(page, limit)
	return s.list(ctx, ports.ArticleFilter{Status: domain.StatusPublished, Page: page, Limit: limit})
}

// ListByCategory is ListPublished restricted to the category with the given slug.
func (s *ArticleService) ListByCategory(ctx context.Context, slug string, page, limit int) (*ports.ArticlePage, error) {
	category, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	page, limit = domain.NormalizePage(page, limit)
	return s.list(ctx, ports.ArticleFilter{
		Status:     domain.StatusPublished,
		CategoryID: category.ID,
		Page:       page,
		Limit:      limit,
	})
}

// GetPublished returns a published article. Any other status reads as not found,
// including for the article's own author.
func (s *ArticleService) GetPublished(ctx context.Context, id int64) (*ports.ArticleView, error) {
	a, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !a.IsPublished() {
		return nil, domain.ErrArticleNotFound
	}

	names, err := s.categoryNames(ctx)
	if err != nil {
		return nil, err
	}
	view := toView(a, names)
	return &view, nil
}

func (s *ArticleService) Create(ctx context.Context, caller domain.Identity, in ports.CreateArticleInput) (*domain.Article, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" {
		return nil, domain.NewValidationError("title", "is required")
	}
	if content == "" {
		return nil, domain.NewValidationError("content", "is required")
	}

	author, err := s.users.FindByID(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve author: %w", err)
	}

	if in.CategoryID != nil {
		if err := s.checkCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
	}

	var imageURL string
	if in.Image != nil {
		if imageURL, err = s.saveImage(ctx, in.Image); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	article := &domain.Article{
		Title:      title,
		Content:    content,
		AuthorID:   author.ID,
		AuthorName: author.Name,
		CategoryID: in.CategoryID,
		ImageURL:   imageURL,
		Status:     domain.StatusPublished,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.articles.Create(ctx, article); err != nil {
		s.log.Error().Err(err).Int64("author_id", author.ID).Msg("failed to create article")
		s.discardImage(ctx, imageURL)
		return nil, err
	}

	s.log.Info().Int64("article_id", article.ID).Int64("author_id", author.ID).Msg("article created")
	return article, nil
}

// Update applies a partial update. Only the author or an admin may update.
func (s *ArticleService) Update(ctx context.Context, caller domain.Identity, id int64, in ports.UpdateArticleInput) (*domain.Article, error) {
	article, err := s.loadEditable(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		if t := strings.TrimSpace(*in.Title); t != "" {
			article.Title = t
		}
	}
	if in.Content != nil {
		if c := strings.TrimSpace(*in.Content); c != "" {
			article.Content = c
		}
	}
	switch {
	case in.CategoryID != nil:
		if err := s.checkCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		article.CategoryID = in.CategoryID
	case in.ClearCategory:
		article.CategoryID = nil
	}

	var replaced string
	if in.Image != nil {
		url, err := s.saveImage(ctx, in.Image)
		if err != nil {
			return nil, err
		}
		replaced = article.ImageURL
		article.ImageURL = url
	}

	article.UpdatedAt = s.now().UTC()

	if err := s.articles.Update(ctx, article); err != nil {
		s.log.Error().Err(err).Int64("article_id", id).Msg("failed to update article")
		if in.Image != nil {
			s.discardImage(ctx, article.ImageURL)
		}
		return nil, err
	}

	s.discardImage(ctx, replaced)
	s.log.Info().Int64("article_id", id).Int64("editor_id", caller.ID).Msg("article updated")
	return article, nil
}

// Delete permanently removes the article. Only the author or an admin may delete.
func (s *ArticleService) Delete(ctx context.Context, caller domain.Identity, id int64) error {
	article, err := s.loadEditable(ctx, caller, id)
	if err != nil {
		return err
	}

	if err := s.articles.Delete(ctx, id); err != nil {
		return err
	}

	s.discardImage(ctx, article.ImageURL)
	s.log.Info().Int64("article_id", id).Int64("editor_id", caller.ID).Msg("article deleted")
	return nil
}

// ListMine returns the caller's articles in any status. A non-positive limit
// returns them all on a single page.
func (s *ArticleService) ListMine(ctx context.Context, caller domain.Identity, page, limit int) (*ports.ArticlePage, error) {
	page, limit = unboundedPage(page, limit)
	return s.list(ctx, ports.ArticleFilter{AuthorID: caller.ID, Page: page, Limit: limit})
}

// ListAll returns every article in any status. Admin only.
func (s *ArticleService) ListAll(ctx context.Context, caller domain.Identity, page, limit int) (*ports.ArticlePage, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	page, limit = unboundedPage(page, limit)
	return s.list(ctx, ports.ArticleFilter{Page: page, Limit: limit})
}

func (s *ArticleService) list(ctx context.Context, filter ports.ArticleFilter) (*ports.ArticlePage, error) {
	articles, total, err := s.articles.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}

	names, err := s.categoryNames(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]ports.ArticleView, len(articles))
	for i, a := range articles {
		views[i] = toView(a, names)
	}

	limit := filter.Limit
	if limit == 0 {
		limit = int(total)
	}
	return &ports.ArticlePage{
		Articles:   views,
		Pagination: domain.NewPagination(filter.Page, limit, total),
	}, nil
}

func (s *ArticleService) loadEditable(ctx context.Context, caller domain.Identity, id int64) (*domain.Article, error) {
	article, err := s.articles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !article.CanBeEditedBy(caller) {
		return nil, domain.ErrForbidden
	}
	return article, nil
}

func (s *ArticleService) checkCategory(ctx context.Context, id int64) error {
	if _, err := s.categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return domain.NewValidationError("category_id", "category does not exist")
		}
		return err
	}
	return nil
}

func (s *ArticleService) categoryNames(ctx context.Context) (map[int64]string, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}
	return names, nil
}

func (s *ArticleService) saveImage(ctx context.Context, img *ports.ImageUpload) (string, error) {
	if img.Size > s.maxImageBytes {
		return "", domain.NewValidationError("image", fmt.Sprintf("must be at most %d bytes", s.maxImageBytes))
	}
	if !strings.HasPrefix(img.ContentType, "image/") {
		return "", domain.NewValidationError("image", "only image files are allowed")
	}
	url, err := s.images.Save(ctx, *img)
	if err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return url, nil
}

func (s *ArticleService) discardImage(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if s.janitor != nil {
		s.janitor.Enqueue(url)
		return
	}
	if err := s.images.Remove(ctx, url); err != nil {
		s.log.Warn().Err(err).Str("image", url).Msg("failed to remove image")
	}
}

// toView attaches the category name. A dangling category reference reads as uncategorized.
func toView(a *domain.Article, names map[int64]string) ports.ArticleView {
	view := ports.ArticleView{Article: a}
	if a.CategoryID == nil {
		return view
	}
	name, ok := names[*a.CategoryID]
	if !ok {
		clone := *a
		clone.CategoryID = nil
		view.Article = &clone
		return view
	}
	view.CategoryName = name
	return view
}

func unboundedPage(page, limit int) (int, int) {
	if limit <= 0 {
		return 1, 0
	}
	return domain.NormalizePage(page, limit)
}
