package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/essentialtimes/newsroom/internal/core/domain"
	"github.com/essentialtimes/newsroom/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

type stubArticleRepo struct {
	byID      map[int64]*domain.Article
	nextID    int64
	createErr error
	updateErr error
}

func newStubArticleRepo() *stubArticleRepo {
	return &stubArticleRepo{byID: make(map[int64]*domain.Article)}
}

func (r *stubArticleRepo) Create(_ context.Context, a *domain.Article) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	a.ID = r.nextID
	clone := *a
	r.byID[a.ID] = &clone
	return nil
}

func (r *stubArticleRepo) FindByID(_ context.Context, id int64) (*domain.Article, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrArticleNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *stubArticleRepo) Update(_ context.Context, a *domain.Article) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.byID[a.ID]; !ok {
		return domain.ErrArticleNotFound
	}
	clone := *a
	r.byID[a.ID] = &clone
	return nil
}

func (r *stubArticleRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrArticleNotFound
	}
	delete(r.byID, id)
	return nil
}

// List applies the same filter and ordering the Mongo repository uses.
func (r *stubArticleRepo) List(_ context.Context, f ports.ArticleFilter) ([]*domain.Article, int64, error) {
	var matched []*domain.Article
	for _, a := range r.byID {
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.AuthorID != 0 && a.AuthorID != f.AuthorID {
			continue
		}
		if f.CategoryID != 0 && (a.CategoryID == nil || *a.CategoryID != f.CategoryID) {
			continue
		}
		clone := *a
		matched = append(matched, &clone)
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	if f.Limit <= 0 {
		return matched, total, nil
	}
	offset, ok := domain.PageOffset(f.Page, f.Limit)
	if !ok || offset > total {
		return []*domain.Article{}, total, nil
	}
	skip := int(offset)
	end := skip + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

type stubCategoryRepo struct {
	byID    map[int64]*domain.Category
	nextID  int64
	listErr error
	lists   int
	// onList runs after the store has been read, before List returns.
	onList func()
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{byID: make(map[int64]*domain.Category)}
}

func (r *stubCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	r.lists++
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]domain.Category, 0, len(r.byID))
	for _, c := range r.byID {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ID < out[j].ID
	})
	if r.onList != nil {
		r.onList()
	}
	return out, nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id int64) (*domain.Category, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCategoryRepo) FindBySlug(_ context.Context, slug string) (*domain.Category, error) {
	for _, c := range r.byID {
		if c.Slug == slug {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

func (r *stubCategoryRepo) conflicts(c *domain.Category) bool {
	for _, existing := range r.byID {
		if existing.ID != c.ID && (existing.Name == c.Name || existing.Slug == c.Slug) {
			return true
		}
	}
	return false
}

func (r *stubCategoryRepo) Create(_ context.Context, c *domain.Category) error {
	if r.conflicts(c) {
		return domain.ErrCategoryExists
	}
	r.nextID++
	c.ID = r.nextID
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *stubCategoryRepo) Update(_ context.Context, c *domain.Category) error {
	if _, ok := r.byID[c.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	if r.conflicts(c) {
		return domain.ErrCategoryExists
	}
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubCategoryRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.byID)), nil
}

// stubCategoryCache keys stored lists by generation like the Redis cache.
type stubCategoryCache struct {
	generation  int64
	stored      map[int64][]domain.Category
	getErr      error
	sets        int
	invalidated int
}

func (c *stubCategoryCache) Get(_ context.Context) ([]domain.Category, int64, bool, error) {
	if c.getErr != nil {
		return nil, 0, false, c.getErr
	}
	list, ok := c.stored[c.generation]
	return list, c.generation, ok, nil
}

func (c *stubCategoryCache) Set(_ context.Context, generation int64, categories []domain.Category) error {
	if c.stored == nil {
		c.stored = make(map[int64][]domain.Category)
	}
	c.sets++
	c.stored[generation] = categories
	return nil
}

func (c *stubCategoryCache) Invalidate(_ context.Context) error {
	c.invalidated++
	c.generation++
	return nil
}

type stubImageStore struct {
	saved   []string
	removed []string
	saveErr error
}

func (s *stubImageStore) Save(_ context.Context, upload ports.ImageUpload) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	url := fmt.Sprintf("/uploads/%d-%s", len(s.saved)+1, upload.Filename)
	s.saved = append(s.saved, url)
	return url, nil
}

func (s *stubImageStore) Remove(_ context.Context, url string) error {
	s.removed = append(s.removed, url)
	return nil
}

type stubJanitor struct {
	queued []string
}

func (j *stubJanitor) Enqueue(url string) { j.queued = append(j.queued, url) }

var errStore = errors.New("store unavailable")
