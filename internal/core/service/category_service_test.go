package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/essentialtimes/newsroom/internal/core/domain"
	"github.com/essentialtimes/newsroom/internal/core/ports"
)

func newCategorySvc(repo *stubCategoryRepo, cache *stubCategoryCache) *CategoryService {
	if cache == nil {
		return NewCategoryService(repo, nil, zerolog.Nop())
	}
	return NewCategoryService(repo, cache, zerolog.Nop())
}

func TestCategoryService_List_OrderedByDisplayOrder(t *testing.T) {
	repo := newStubCategoryRepo()
	svc := newCategorySvc(repo, nil)
	ctx := context.Background()

	for _, in := range []ports.CategoryInput{
		{Name: "스포츠", Slug: "sports", DisplayOrder: 6},
		{Name: "정치", Slug: "politics", DisplayOrder: 1},
		{Name: "경제", Slug: "economy", DisplayOrder: 2},
		{Name: "속보", Slug: "breaking", DisplayOrder: 1},
	} {
		if _, err := svc.Create(ctx, in); err != nil {
			t.Fatalf("create %s: %v", in.Slug, err)
		}
	}

	got, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"politics", "breaking", "economy", "sports"}
	if len(got) != len(want) {
		t.Fatalf("expected %d categories, got %d", len(want), len(got))
	}
	for i, slug := range want {
		if got[i].Slug != slug {
			t.Errorf("position %d: expected %s, got %s", i, slug, got[i].Slug)
		}
	}
}

func TestCategoryService_List_EmptyIsNotNil(t *testing.T) {
	svc := newCategorySvc(newStubCategoryRepo(), nil)

	got, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("expected empty slice, got nil")
	}
}

func TestCategoryService_List_ReadThroughCache(t *testing.T) {
	repo := newStubCategoryRepo()
	cache := &stubCategoryCache{}
	svc := newCategorySvc(repo, cache)
	ctx := context.Background()

	if _, err := svc.Create(ctx, ports.CategoryInput{Name: "정치", Slug: "politics", DisplayOrder: 1}); err != nil {
		t.Fatalf("create: %v", err)
	}

	for i := 0; i < 3; i++ {
		got, err := svc.List(ctx)
		if err != nil {
			t.Fatalf("list #%d: %v", i, err)
		}
		if len(got) != 1 {
			t.Fatalf("list #%d: expected 1 category, got %d", i, len(got))
		}
	}
	if repo.lists != 1 {
		t.Errorf("expected a single store read, got %d", repo.lists)
	}
}

func TestCategoryService_MutationsInvalidateCache(t *testing.T) {
	repo := newStubCategoryRepo()
	cache := &stubCategoryCache{}
	svc := newCategorySvc(repo, cache)
	ctx := context.Background()

	c, err := svc.Create(ctx, ports.CategoryInput{Name: "정치", Slug: "politics", DisplayOrder: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.List(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}

	if _, err := svc.Update(ctx, c.ID, ports.CategoryInput{Name: "국내정치", Slug: "politics", DisplayOrder: 1}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if got[0].Name != "국내정치" {
		t.Errorf("expected fresh name after update, got %q", got[0].Name)
	}

	if err := svc.Delete(ctx, c.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, _ = svc.List(ctx)
	if len(got) != 0 {
		t.Errorf("expected no categories after delete, got %d", len(got))
	}
	if cache.invalidated != 3 {
		t.Errorf("expected 3 invalidations, got %d", cache.invalidated)
	}
}

func TestCategoryService_CacheFailureFallsBackToStore(t *testing.T) {
	repo := newStubCategoryRepo()
	cache := &stubCategoryCache{getErr: errors.New("connection refused")}
	svc := newCategorySvc(repo, cache)
	ctx := context.Background()

	if _, err := svc.Create(ctx, ports.CategoryInput{Name: "경제", Slug: "economy", DisplayOrder: 2}); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("expected store fallback, got %v", err)
	}
	if len(got) != 1 || repo.lists != 1 {
		t.Errorf("expected store read, got %d categories / %d reads", len(got), repo.lists)
	}
	if cache.sets != 0 {
		t.Errorf("cache must not be filled without a known generation, got %d sets", cache.sets)
	}
}

func TestCategoryService_List_InvalidateDuringReadDiscardsStaleList(t *testing.T) {
	repo := newStubCategoryRepo()
	cache := &stubCategoryCache{}
	svc := newCategorySvc(repo, cache)
	ctx := context.Background()

	c, err := svc.Create(ctx, ports.CategoryInput{Name: "정치", Slug: "politics", DisplayOrder: 1})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// An admin rename lands after the store read but before the cache fill.
	repo.onList = func() {
		repo.onList = nil
		if _, err := svc.Update(ctx, c.ID, ports.CategoryInput{Name: "국내정치", Slug: "politics", DisplayOrder: 1}); err != nil {
			t.Fatalf("update: %v", err)
		}
	}
	if _, err := svc.List(ctx); err != nil {
		t.Fatalf("list: %v", err)
	}

	got, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].Name != "국내정치" {
		t.Fatalf("expected the renamed category, got %+v", got)
	}
	if repo.lists != 2 {
		t.Errorf("stale list must not be served from cache, got %d store reads", repo.lists)
	}
}

func TestCategoryService_List_StoreError(t *testing.T) {
	repo := newStubCategoryRepo()
	repo.listErr = errStore
	svc := newCategorySvc(repo, nil)

	if _, err := svc.List(context.Background()); !errors.Is(err, errStore) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestCategoryService_Create_Validation(t *testing.T) {
	tests := []struct {
		name  string
		in    ports.CategoryInput
		field string
	}{
		{"missing name", ports.CategoryInput{Slug: "x"}, "name"},
		{"blank name", ports.CategoryInput{Name: "  ", Slug: "x"}, "name"},
		{"missing slug", ports.CategoryInput{Name: "X"}, "slug"},
		{"slug with spaces", ports.CategoryInput{Name: "X", Slug: "two words"}, "slug"},
		{"slug with double hyphen", ports.CategoryInput{Name: "X", Slug: "a--b"}, "slug"},
		{"slug with trailing hyphen", ports.CategoryInput{Name: "X", Slug: "world-"}, "slug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newCategorySvc(newStubCategoryRepo(), nil)
			_, err := svc.Create(context.Background(), tt.in)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("expected field %q, got %q", tt.field, ve.Field)
			}
		})
	}
}

func TestCategoryService_Create_NormalizesSlug(t *testing.T) {
	svc := newCategorySvc(newStubCategoryRepo(), nil)

	c, err := svc.Create(context.Background(), ports.CategoryInput{Name: " 국제 ", Slug: " World-News "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "국제" || c.Slug != "world-news" {
		t.Errorf("unexpected normalization: %q / %q", c.Name, c.Slug)
	}
}

func TestCategoryService_Create_Duplicate(t *testing.T) {
	svc := newCategorySvc(newStubCategoryRepo(), nil)
	ctx := context.Background()

	if _, err := svc.Create(ctx, ports.CategoryInput{Name: "정치", Slug: "politics"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	if _, err := svc.Create(ctx, ports.CategoryInput{Name: "정치2", Slug: "politics"}); !errors.Is(err, domain.ErrCategoryExists) {
		t.Fatalf("expected ErrCategoryExists, got %v", err)
	}
}

func TestCategoryService_UpdateDelete_Unknown(t *testing.T) {
	cache := &stubCategoryCache{}
	svc := newCategorySvc(newStubCategoryRepo(), cache)
	ctx := context.Background()

	if _, err := svc.Update(ctx, 42, ports.CategoryInput{Name: "X", Slug: "x"}); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("update: expected ErrCategoryNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, 42); !errors.Is(err, domain.ErrCategoryNotFound) {
		t.Errorf("delete: expected ErrCategoryNotFound, got %v", err)
	}
	if cache.invalidated != 0 {
		t.Errorf("failed mutations must not invalidate, got %d", cache.invalidated)
	}
}
