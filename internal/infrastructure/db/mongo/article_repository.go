package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/essentialtimes/newsroom/internal/core/domain"
	"github.com/essentialtimes/newsroom/internal/core/ports"
)

type ArticleRepository struct {
	col *mongo.Collection
	ids *counters
}

func NewArticleRepository(db *mongo.Database) *ArticleRepository {
	return &ArticleRepository{col: db.Collection(collectionArticles), ids: newCounters(db)}
}

func (r *ArticleRepository) Create(ctx context.Context, a *domain.Article) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id, err := r.ids.next(ctx, collectionArticles)
	if err != nil {
		return err
	}

	a.ID = id
	if _, err := r.col.InsertOne(ctx, a); err != nil {
		a.ID = 0
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

func (r *ArticleRepository) FindByID(ctx context.Context, id int64) (*domain.Article, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var a domain.Article
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrArticleNotFound
		}
		return nil, fmt.Errorf("find article: %w", err)
	}
	return &a, nil
}

// Update replaces the stored document. Author and creation time are never
// rewritten.
func (r *ArticleRepository) Update(ctx context.Context, a *domain.Article) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{
		"title":      a.Title,
		"content":    a.Content,
		"status":     a.Status,
		"updated_at": a.UpdatedAt,
	}
	unset := bson.M{}
	if a.CategoryID != nil {
		set["category_id"] = *a.CategoryID
	} else {
		unset["category_id"] = ""
	}
	if a.ImageURL != "" {
		set["image_url"] = a.ImageURL
	} else {
		unset["image_url"] = ""
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": a.ID}, update)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

func (r *ArticleRepository) Delete(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

// List returns the matching page newest first together with the total match
// count. A zero Limit returns every match.
func (r *ArticleRepository) List(ctx context.Context, f ports.ArticleFilter) ([]*domain.Article, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := listFilter(f)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if f.Limit > 0 {
		skip, inRange := pageSkip(f, total)
		if !inRange {
			return []*domain.Article{}, total, nil
		}
		opts.SetSkip(skip).SetLimit(int64(f.Limit))
	}

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find articles: %w", err)
	}

	articles := []*domain.Article{}
	if err := cur.All(ctx, &articles); err != nil {
		return nil, 0, fmt.Errorf("decode articles: %w", err)
	}
	return articles, total, nil
}

// pageSkip reports the skip for f and whether the page can hold any of the
// total matches.
func pageSkip(f ports.ArticleFilter, total int64) (int64, bool) {
	skip, ok := domain.PageOffset(f.Page, f.Limit)
	if !ok || skip >= total {
		return 0, false
	}
	return skip, true
}

func listFilter(f ports.ArticleFilter) bson.M {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.AuthorID != 0 {
		filter["author_id"] = f.AuthorID
	}
	if f.CategoryID != 0 {
		filter["category_id"] = f.CategoryID
	}
	return filter
}
