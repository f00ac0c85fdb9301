package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"

	"github.com/essentialtimes/newsroom/internal/api/metrics"
	"github.com/essentialtimes/newsroom/internal/core/domain"
	"github.com/essentialtimes/newsroom/internal/core/ports"
)

const imageField = "image"

// ArticleHandler handles HTTP requests for article operations.
type ArticleHandler struct {
	service ports.ArticleService
}

func NewArticleHandler(service ports.ArticleService) *ArticleHandler {
	return &ArticleHandler{service: service}
}

// List handles GET /api/articles.
//
// @Summary      List published articles, newest first
// @Tags         articles
// @Produce      json
// @Param        page   query     int  false  "Page (default 1)"
// @Param        limit  query     int  false  "Page size (default 10)"
// @Success      200    {object}  articleListResponse
// @Failure      400    {object}  errorResponse
// @Router       /articles [get]
func (h *ArticleHandler) List(c echo.Context) error {
	page, limit, err := pageQuery(c)
	if err != nil {
		return err
	}
	result, err := h.service.ListPublished(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// ListByCategory handles GET /api/categories/:slug/articles.
//
// @Summary      List published articles in a category
// @Tags         articles
// @Produce      json
// @Param        slug   path      string  true   "Category slug"
// @Param        page   query     int     false  "Page (default 1)"
// @Param        limit  query     int     false  "Page size (default 10)"
// @Success      200    {object}  articleListResponse
// @Failure      404    {object}  errorResponse
// @Router       /categories/{slug}/articles [get]
func (h *ArticleHandler) ListByCategory(c echo.Context) error {
	page, limit, err := pageQuery(c)
	if err != nil {
		return err
	}
	result, err := h.service.ListByCategory(c.Request().Context(), c.Param("slug"), page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// Get handles GET /api/articles/:id. Only published articles are visible.
//
// @Summary      Get a published article
// @Tags         articles
// @Produce      json
// @Param        id   path      int  true  "Article ID"
// @Success      200  {object}  ports.ArticleView
// @Failure      404  {object}  errorResponse
// @Router       /articles/{id} [get]
func (h *ArticleHandler) Get(c echo.Context) error {
	id, err := pathID(c, domain.ErrArticleNotFound)
	if err != nil {
		return err
	}
	view, err := h.service.GetPublished(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Create handles POST /api/articles (multipart form). The route admits the
// reporter and admin roles only, so an authenticated plain user gets 403.
//
// @Summary      Publish a new article
// @Tags         articles
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title        formData  string  true   "Title"
// @Param        content      formData  string  true   "Body, paragraphs separated by newlines"
// @Param        category_id  formData  int     false  "Category ID"
// @Param        image        formData  file    false  "Image (max 5MB)"
// @Success      201          {object}  domain.Article
// @Failure      400          {object}  errorResponse
// @Failure      401          {object}  errorResponse
// @Failure      403          {object}  errorResponse
// @Router       /articles [post]
func (h *ArticleHandler) Create(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	categoryID, _, err := formCategory(c)
	if err != nil {
		return err
	}
	image, closeImage, err := formImage(c)
	if err != nil {
		return err
	}
	defer closeImage()

	article, err := h.service.Create(c.Request().Context(), caller, ports.CreateArticleInput{
		Title:      c.FormValue("title"),
		Content:    c.FormValue("content"),
		CategoryID: categoryID,
		Image:      image,
	})
	if err != nil {
		return err
	}

	metrics.ArticlesCreatedTotal.WithLabelValues(caller.Role).Inc()
	return c.JSON(http.StatusCreated, article)
}

// Update handles PUT /api/articles/:id (multipart form). Omitted fields keep
// their value; an empty category_id detaches the category.
//
// @Summary      Update an article
// @Tags         articles
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      int     true   "Article ID"
// @Param        title        formData  string  false  "Title"
// @Param        content      formData  string  false  "Body"
// @Param        category_id  formData  string  false  "Category ID, empty to clear"
// @Param        image        formData  file    false  "Replacement image (max 5MB)"
// @Success      200          {object}  domain.Article
// @Failure      400          {object}  errorResponse
// @Failure      403          {object}  errorResponse
// @Failure      404          {object}  errorResponse
// @Router       /articles/{id} [put]
func (h *ArticleHandler) Update(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, domain.ErrArticleNotFound)
	if err != nil {
		return err
	}

	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	in := ports.UpdateArticleInput{
		Title:   optionalField(form, "title"),
		Content: optionalField(form, "content"),
	}

	categoryID, present, err := formCategory(c)
	if err != nil {
		return err
	}
	in.CategoryID = categoryID
	in.ClearCategory = present && categoryID == nil

	image, closeImage, err := formImage(c)
	if err != nil {
		return err
	}
	defer closeImage()
	in.Image = image

	article, err := h.service.Update(c.Request().Context(), caller, id, in)
	metrics.ArticleMutationsTotal.WithLabelValues("update", mutationResult(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, article)
}

// Delete handles DELETE /api/articles/:id.
//
// @Summary      Delete an article
// @Tags         articles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Article ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /articles/{id} [delete]
func (h *ArticleHandler) Delete(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, domain.ErrArticleNotFound)
	if err != nil {
		return err
	}

	err = h.service.Delete(c.Request().Context(), caller, id)
	metrics.ArticleMutationsTotal.WithLabelValues("delete", mutationResult(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "article deleted"})
}

// ListMine handles GET /api/my-articles.
//
// @Summary      List the caller's articles in any status
// @Tags         articles
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page"
// @Param        limit  query     int  false  "Page size; omitted returns everything"
// @Success      200    {object}  articleListResponse
// @Failure      401    {object}  errorResponse
// @Router       /my-articles [get]
func (h *ArticleHandler) ListMine(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	page, limit, err := pageQuery(c)
	if err != nil {
		return err
	}
	result, err := h.service.ListMine(c.Request().Context(), caller, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// ListAll handles GET /api/admin/articles.
//
// @Summary      List every article in any status
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page"
// @Param        limit  query     int  false  "Page size; omitted returns everything"
// @Success      200    {object}  articleListResponse
// @Failure      403    {object}  errorResponse
// @Router       /admin/articles [get]
func (h *ArticleHandler) ListAll(c echo.Context) error {
	caller, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	page, limit, err := pageQuery(c)
	if err != nil {
		return err
	}
	result, err := h.service.ListAll(c.Request().Context(), caller, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// formCategory reads category_id. present reports whether the field was sent
// at all, so an empty value can be told apart from an omitted one.
func formCategory(c echo.Context) (id *int64, present bool, err error) {
	form, err := c.FormParams()
	if err != nil {
		return nil, false, echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	values, present := form["category_id"]
	if !present {
		return nil, false, nil
	}
	raw := ""
	if len(values) > 0 {
		raw = strings.TrimSpace(values[0])
	}
	if raw == "" || raw == "null" {
		return nil, true, nil
	}
	parsed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || parsed <= 0 {
		return nil, true, domain.NewValidationError("category_id", "must be a positive integer")
	}
	return &parsed, true, nil
}

func optionalField(form map[string][]string, key string) *string {
	values, ok := form[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

// formImage opens the optional image part and sniffs its content type from
// the bytes rather than trusting the client header.
func formImage(c echo.Context) (*ports.ImageUpload, func(), error) {
	noop := func() {}

	fh, err := c.FormFile(imageField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, noop, nil
		}
		return nil, noop, echo.NewHTTPError(http.StatusBadRequest, "invalid image upload")
	}

	file, err := fh.Open()
	if err != nil {
		return nil, noop, echo.NewHTTPError(http.StatusBadRequest, "invalid image upload")
	}
	closeFile := func() { _ = file.Close() }

	contentType, err := sniff(file)
	if err != nil {
		closeFile()
		return nil, noop, echo.NewHTTPError(http.StatusBadRequest, "invalid image upload")
	}

	return &ports.ImageUpload{
		Filename:    fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
		Body:        file,
	}, closeFile, nil
}

func sniff(file multipart.File) (string, error) {
	mtype, err := mimetype.DetectReader(file)
	if err != nil {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return mtype.String(), nil
}

func mutationResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrArticleNotFound):
		return "not_found"
	default:
		return "error"
	}
}
