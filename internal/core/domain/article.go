package domain

import (
	"errors"
	"time"
)

// ArticleStatus is stored on every article. Only StatusPublished is reachable
// through the API; the field exists for future draft support.
type ArticleStatus string

const (
	StatusDraft     ArticleStatus = "draft"
	StatusPublished ArticleStatus = "published"
)

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrForbidden       = errors.New("access forbidden")
)

// Article is the core aggregate. AuthorName is captured at creation and is not
// kept in sync with later profile changes.
type Article struct {
	ID         int64         `json:"id" bson:"_id"`
	Title      string        `json:"title" bson:"title"`
	Content    string        `json:"content" bson:"content"`
	AuthorID   int64         `json:"author_id" bson:"author_id"`
	AuthorName string        `json:"author_name" bson:"author_name"`
	CategoryID *int64        `json:"category_id" bson:"category_id,omitempty"`
	ImageURL   string        `json:"image_url,omitempty" bson:"image_url,omitempty"`
	Status     ArticleStatus `json:"status" bson:"status"`
	CreatedAt  time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at" bson:"updated_at"`
}

// CanBeEditedBy reports whether the identity may update or delete the article.
func (a *Article) CanBeEditedBy(id Identity) bool {
	return id.IsAdmin() || a.AuthorID == id.ID
}

func (a *Article) IsPublished() bool { return a.Status == StatusPublished }
