package domain

import (
	"errors"
	"time"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryExists   = errors.New("category already exists")
)

// Category groups articles. Slug is the only key used by public routes.
type Category struct {
	ID           int64     `json:"id" bson:"_id"`
	Name         string    `json:"name" bson:"name"`
	Slug         string    `json:"slug" bson:"slug"`
	DisplayOrder int       `json:"display_order" bson:"display_order"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// DefaultCategories is the set inserted on first boot when the store has none.
func DefaultCategories() []Category {
	return []Category{
		{Name: "정치", Slug: "politics", DisplayOrder: 1},
		{Name: "경제", Slug: "economy", DisplayOrder: 2},
		{Name: "사회", Slug: "society", DisplayOrder: 3},
		{Name: "기술", Slug: "technology", DisplayOrder: 4},
		{Name: "연예", Slug: "entertainment", DisplayOrder: 5},
		{Name: "스포츠", Slug: "sports", DisplayOrder: 6},
	}
}
