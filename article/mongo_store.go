package article

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/kbukum/articles/errors"
)

// CollectionSource hands out MongoDB collections once connected;
// *mongodb.Service implements it. A nil collection means not connected.
type CollectionSource interface {
	Collection(name string) *mongo.Collection
}

// MongoStore keeps articles in a MongoDB collection. The article id is stored
// as the document's _id.
type MongoStore struct {
	src CollectionSource
	now func() time.Time
}

var _ Store = (*MongoStore)(nil)

// NewMongoStore creates a store over src. The collection is looked up per
// call, so the store may be built before the service is installed.
func NewMongoStore(src CollectionSource) *MongoStore {
	return &MongoStore{src: src, now: time.Now}
}

func (s *MongoStore) collection() (*mongo.Collection, error) {
	coll := s.src.Collection(CollectionName)
	if coll == nil {
		return nil, errors.ServiceUnavailable("mongo")
	}
	return coll, nil
}

func (s *MongoStore) List(ctx context.Context) ([]Article, error) {
	coll, err := s.collection()
	if err != nil {
		return nil, err
	}

	cur, err := coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: FieldCreatedAt, Value: 1}}))
	if err != nil {
		return nil, errors.DatabaseError(err)
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.DatabaseError(err)
	}

	out := make([]Article, 0, len(docs))
	for _, doc := range docs {
		out = append(out, fromBSON(doc))
	}
	return out, nil
}

func (s *MongoStore) Create(ctx context.Context, doc map[string]any) (Article, error) {
	coll, err := s.collection()
	if err != nil {
		return nil, err
	}

	a := newArticle(doc, s.now())
	if _, err := coll.InsertOne(ctx, toBSON(a)); err != nil {
		return nil, errors.DatabaseError(err)
	}
	return a, nil
}

func toBSON(a Article) bson.M {
	m := make(bson.M, len(a))
	for k, v := range a {
		if k == FieldID {
			m["_id"] = v
			continue
		}
		m[k] = v
	}
	return m
}

func fromBSON(doc bson.M) Article {
	a := make(Article, len(doc))
	for k, v := range doc {
		switch val := v.(type) {
		case primitive.ObjectID:
			v = val.Hex()
		case primitive.DateTime:
			v = val.Time().UTC()
		}
		if k == "_id" {
			k = FieldID
		}
		a[k] = v
	}
	return a
}
