package api

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/essentialtimes/newsroom/internal/core/domain"
	"github.com/essentialtimes/newsroom/internal/core/ports"
)

// memStore backs every repository port with maps so the router can be
// exercised end to end without MongoDB.
type memStore struct {
	mu         sync.Mutex
	seq        int64
	users      map[int64]domain.User
	categories map[int64]domain.Category
	articles   map[int64]domain.Article
	images     []string
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[int64]domain.User{},
		categories: map[int64]domain.Category{},
		articles:   map[int64]domain.Article{},
	}
}

func (m *memStore) next() int64 { m.seq++; return m.seq }

type memUsers struct{ *memStore }

func (r memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r memUsers) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return &u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r memUsers) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return nil, domain.ErrUserExists
		}
	}
	created := *u
	created.ID = r.next()
	r.users[created.ID] = created
	return &created, nil
}

type memCategories struct{ *memStore }

func (r memCategories) List(_ context.Context) ([]domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Category, 0, len(r.categories))
	for _, c := range r.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r memCategories) FindByID(_ context.Context, id int64) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.categories[id]; ok {
		return &c, nil
	}
	return nil, domain.ErrCategoryNotFound
}

func (r memCategories) FindBySlug(_ context.Context, slug string) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

func (r memCategories) conflict(c *domain.Category) bool {
	for _, existing := range r.categories {
		if existing.ID != c.ID && (existing.Name == c.Name || existing.Slug == c.Slug) {
			return true
		}
	}
	return false
}

func (r memCategories) Create(_ context.Context, c *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.conflict(c) {
		return domain.ErrCategoryExists
	}
	c.ID = r.next()
	r.categories[c.ID] = *c
	return nil
}

func (r memCategories) Update(_ context.Context, c *domain.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[c.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	if r.conflict(c) {
		return domain.ErrCategoryExists
	}
	r.categories[c.ID] = *c
	return nil
}

func (r memCategories) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(r.categories, id)
	return nil
}

func (r memCategories) Count(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.categories)), nil
}

type memArticles struct{ *memStore }

func (r memArticles) Create(_ context.Context, a *domain.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = r.next()
	r.articles[a.ID] = *a
	return nil
}

func (r memArticles) FindByID(_ context.Context, id int64) (*domain.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a, ok := r.articles[id]; ok {
		return &a, nil
	}
	return nil, domain.ErrArticleNotFound
}

func (r memArticles) Update(_ context.Context, a *domain.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.articles[a.ID]; !ok {
		return domain.ErrArticleNotFound
	}
	r.articles[a.ID] = *a
	return nil
}

func (r memArticles) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.articles[id]; !ok {
		return domain.ErrArticleNotFound
	}
	delete(r.articles, id)
	return nil
}

func (r memArticles) List(_ context.Context, f ports.ArticleFilter) ([]*domain.Article, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Article
	for _, a := range r.articles {
		a := a
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		if f.AuthorID != 0 && a.AuthorID != f.AuthorID {
			continue
		}
		if f.CategoryID != 0 && (a.CategoryID == nil || *a.CategoryID != f.CategoryID) {
			continue
		}
		out = append(out, &a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	total := int64(len(out))
	if f.Limit > 0 {
		offset, ok := domain.PageOffset(f.Page, f.Limit)
		if !ok || offset > int64(len(out)) {
			offset = int64(len(out))
		}
		start := int(offset)
		end := start + f.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[start:end]
	}
	return out, total, nil
}

type memImages struct{ *memStore }

func (s memImages) Save(_ context.Context, upload ports.ImageUpload) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	url := fmt.Sprintf("/uploads/%d-%s", len(s.images)+1, upload.Filename)
	s.images = append(s.images, url)
	return url, nil
}

func (s memImages) Remove(context.Context, string) error { return nil }
