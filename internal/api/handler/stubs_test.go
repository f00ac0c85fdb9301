package handler

import (
	"context"
	"io"
	"net/http/httptest"

	"github.com/labstack/echo/v4"

	"github.com/essentialtimes/newsroom/internal/api/middleware"
	"github.com/essentialtimes/newsroom/internal/core/domain"
	"github.com/essentialtimes/newsroom/internal/core/ports"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func newContext(e *echo.Echo, method, target string, body io.Reader, contentType string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func withIdentity(c echo.Context, identity domain.Identity) echo.Context {
	middleware.SetIdentity(c, identity)
	return c
}

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Verify(string) (domain.Identity, error) {
	return domain.Identity{}, nil
}

type stubCategoryService struct {
	listFn   func(ctx context.Context) ([]domain.Category, error)
	createFn func(ctx context.Context, in ports.CategoryInput) (*domain.Category, error)
	updateFn func(ctx context.Context, id int64, in ports.CategoryInput) (*domain.Category, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (s *stubCategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.listFn(ctx)
}

func (s *stubCategoryService) Create(ctx context.Context, in ports.CategoryInput) (*domain.Category, error) {
	return s.createFn(ctx, in)
}

func (s *stubCategoryService) Update(ctx context.Context, id int64, in ports.CategoryInput) (*domain.Category, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubCategoryService) Delete(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

// stubArticleService records the last call and returns canned results.
type stubArticleService struct {
	page    *ports.ArticlePage
	view    *ports.ArticleView
	article *domain.Article
	err     error

	gotPage, gotLimit int
	gotSlug           string
	gotID             int64
	gotCaller         domain.Identity
	gotCreate         ports.CreateArticleInput
	gotUpdate         ports.UpdateArticleInput
	gotImageBytes     []byte
}

func (s *stubArticleService) ListPublished(_ context.Context, page, limit int) (*ports.ArticlePage, error) {
	s.gotPage, s.gotLimit = page, limit
	return s.page, s.err
}

func (s *stubArticleService) ListByCategory(_ context.Context, slug string, page, limit int) (*ports.ArticlePage, error) {
	s.gotSlug, s.gotPage, s.gotLimit = slug, page, limit
	return s.page, s.err
}

func (s *stubArticleService) GetPublished(_ context.Context, id int64) (*ports.ArticleView, error) {
	s.gotID = id
	return s.view, s.err
}

func (s *stubArticleService) Create(_ context.Context, caller domain.Identity, in ports.CreateArticleInput) (*domain.Article, error) {
	s.gotCaller, s.gotCreate = caller, in
	if in.Image != nil {
		s.gotImageBytes, _ = io.ReadAll(in.Image.Body)
	}
	return s.article, s.err
}

func (s *stubArticleService) Update(_ context.Context, caller domain.Identity, id int64, in ports.UpdateArticleInput) (*domain.Article, error) {
	s.gotCaller, s.gotID, s.gotUpdate = caller, id, in
	if in.Image != nil {
		s.gotImageBytes, _ = io.ReadAll(in.Image.Body)
	}
	return s.article, s.err
}

func (s *stubArticleService) Delete(_ context.Context, caller domain.Identity, id int64) error {
	s.gotCaller, s.gotID = caller, id
	return s.err
}

func (s *stubArticleService) ListMine(_ context.Context, caller domain.Identity, page, limit int) (*ports.ArticlePage, error) {
	s.gotCaller, s.gotPage, s.gotLimit = caller, page, limit
	return s.page, s.err
}

func (s *stubArticleService) ListAll(_ context.Context, caller domain.Identity, page, limit int) (*ports.ArticlePage, error) {
	s.gotCaller, s.gotPage, s.gotLimit = caller, page, limit
	return s.page, s.err
}
