package handler

import (
	"github.com/essentialtimes/newsroom/internal/core/domain"
	"github.com/essentialtimes/newsroom/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
	Name     string `json:"name"     validate:"required"`
	Role     string `json:"role"     validate:"omitempty,oneof=user reporter"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string       `json:"token,omitempty"`
	User  *domain.User `json:"user"`
}

// --- Categories ---

type categoryRequest struct {
	Name         string `json:"name"          validate:"required"`
	Slug         string `json:"slug"          validate:"required"`
	DisplayOrder int    `json:"display_order" validate:"gte=0"`
}

func (r categoryRequest) toInput() ports.CategoryInput {
	return ports.CategoryInput{Name: r.Name, Slug: r.Slug, DisplayOrder: r.DisplayOrder}
}

// --- Articles ---

// articleListResponse mirrors ports.ArticlePage for the docs.
type articleListResponse struct {
	Articles   []ports.ArticleView `json:"articles"`
	Pagination domain.Pagination   `json:"pagination"`
}

type healthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}
