package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/essentialtimes/newsroom/internal/core/domain"
	"github.com/essentialtimes/newsroom/internal/core/ports"
)

var slugPattern = regexp.MustCompile(`^[\p{Ll}\p{Lo}\p{N}]+(?:-[\p{Ll}\p{Lo}\p{N}]+)*$`)

type CategoryService struct {
	repo  ports.CategoryRepository
	cache ports.CategoryCache
	log   zerolog.Logger
}

// NewCategoryService returns a CategoryService. cache may be nil.
func NewCategoryService(repo ports.CategoryRepository, cache ports.CategoryCache, log zerolog.Logger) *CategoryService {
	return &CategoryService{repo: repo, cache: cache, log: log}
}

// List returns every category ordered by display order. A cache failure is
// logged and the store is read instead.
func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	var (
		generation int64
		refill     bool
	)
	if s.cache != nil {
		cached, gen, ok, err := s.cache.Get(ctx)
		switch {
		case err != nil:
			s.log.Warn().Err(err).Msg("category cache read failed, reading store")
		case ok:
			return cached, nil
		default:
			generation, refill = gen, true
		}
	}

	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if categories == nil {
		categories = []domain.Category{}
	}

	if refill {
		if err := s.cache.Set(ctx, generation, categories); err != nil {
			s.log.Warn().Err(err).Msg("category cache write failed")
		}
	}
	return categories, nil
}

func (s *CategoryService) Create(ctx context.Context, in ports.CategoryInput) (*domain.Category, error) {
	in, err := normalizeCategory(in)
	if err != nil {
		return nil, err
	}

	c := &domain.Category{Name: in.Name, Slug: in.Slug, DisplayOrder: in.DisplayOrder}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.log.Info().Int64("category_id", c.ID).Str("slug", c.Slug).Msg("category created")
	return c, nil
}

// Update replaces name, slug and display order of an existing category.
func (s *CategoryService) Update(ctx context.Context, id int64, in ports.CategoryInput) (*domain.Category, error) {
	in, err := normalizeCategory(in)
	if err != nil {
		return nil, err
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name = in.Name
	c.Slug = in.Slug
	c.DisplayOrder = in.DisplayOrder

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.log.Info().Int64("category_id", c.ID).Str("slug", c.Slug).Msg("category updated")
	return c, nil
}

// Delete removes the category. Articles that reference it are left as they
// are and read back as uncategorized.
func (s *CategoryService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)
	s.log.Info().Int64("category_id", id).Msg("category deleted")
	return nil
}

func (s *CategoryService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn().Err(err).Msg("category cache invalidation failed")
	}
}

func normalizeCategory(in ports.CategoryInput) (ports.CategoryInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.ToLower(strings.TrimSpace(in.Slug))
	if in.Name == "" {
		return in, domain.NewValidationError("name", "is required")
	}
	if in.Slug == "" {
		return in, domain.NewValidationError("slug", "is required")
	}
	if !slugPattern.MatchString(in.Slug) {
		return in, domain.NewValidationError("slug", "must contain only letters, digits and single hyphens")
	}
	return in, nil
}
