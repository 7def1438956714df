package article

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// CollectionName is the MongoDB collection and SQL table holding articles.
const CollectionName = "articles"

// Keys assigned by a Store on create.
const (
	FieldID        = "id"
	FieldCreatedAt = "created_at"
)

// Article is a free-form JSON document. Apart from FieldID and FieldCreatedAt
// it has no schema.
type Article map[string]any

// ID returns the store-assigned identifier.
func (a Article) ID() string {
	id, _ := a[FieldID].(string)
	return id
}

// Store persists articles.
type Store interface {
	// List returns every article, oldest first.
	List(ctx context.Context) ([]Article, error)

	// Create stores doc and returns it with its id and creation time.
	Create(ctx context.Context, doc map[string]any) (Article, error)
}

// newArticle copies doc and stamps the store-assigned keys over any
// client-supplied values.
func newArticle(doc map[string]any, now time.Time) Article {
	a := make(Article, len(doc)+2)
	for k, v := range doc {
		a[k] = v
	}
	delete(a, "_id")
	a[FieldID] = uuid.NewString()
	a[FieldCreatedAt] = now.UTC().Truncate(time.Millisecond)
	return a
}
