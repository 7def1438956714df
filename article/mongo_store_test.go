package article

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	apperrors "github.com/kbukum/articles/errors"
)

type dbCollections struct {
	db *mongo.Database
}

func (s dbCollections) Collection(name string) *mongo.Collection {
	if s.db == nil {
		return nil
	}
	return s.db.Collection(name)
}

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("list decodes documents", func(mt *mtest.T) {
		created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		ns := mt.DB.Name() + "." + CollectionName
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: "a1"},
				{Key: "title", Value: "Hello"},
				{Key: FieldCreatedAt, Value: primitive.NewDateTimeFromTime(created)},
			},
			bson.D{
				{Key: "_id", Value: "a2"},
				{Key: "title", Value: "World"},
			},
		))

		store := NewMongoStore(dbCollections{db: mt.DB})
		items, err := store.List(context.Background())
		require.NoError(mt, err)
		require.Len(mt, items, 2)

		assert.Equal(mt, "a1", items[0].ID())
		assert.Equal(mt, "Hello", items[0]["title"])
		assert.Equal(mt, created, items[0][FieldCreatedAt])
		assert.NotContains(mt, items[0], "_id")
		assert.Equal(mt, "a2", items[1].ID())

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "find", started.CommandName)
	})

	mt.Run("list empty collection", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+"."+CollectionName, mtest.FirstBatch))

		items, err := NewMongoStore(dbCollections{db: mt.DB}).List(context.Background())
		require.NoError(mt, err)
		assert.Empty(mt, items)
	})

	mt.Run("list command error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 13, Name: "Unauthorized", Message: "not authorized",
		}))

		_, err := NewMongoStore(dbCollections{db: mt.DB}).List(context.Background())
		require.Error(mt, err)
		appErr, ok := apperrors.AsAppError(err)
		require.True(mt, ok)
		assert.Equal(mt, apperrors.ErrCodeDatabaseError, appErr.Code)
	})

	mt.Run("create assigns id and time", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		store := NewMongoStore(dbCollections{db: mt.DB})
		now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
		store.now = func() time.Time { return now }

		a, err := store.Create(context.Background(), map[string]any{"title": "Hello", "id": "client"})
		require.NoError(mt, err)
		assert.NotEmpty(mt, a.ID())
		assert.NotEqual(mt, "client", a.ID())
		assert.Equal(mt, now, a[FieldCreatedAt])
		assert.Equal(mt, "Hello", a["title"])

		started := mt.GetStartedEvent()
		require.NotNil(mt, started)
		assert.Equal(mt, "insert", started.CommandName)
		assert.Equal(mt, a.ID(), started.Command.Lookup("documents", "0", "_id").StringValue())
		assert.Equal(mt, "Hello", started.Command.Lookup("documents", "0", "title").StringValue())
	})

	mt.Run("create write error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key error",
		}))

		_, err := NewMongoStore(dbCollections{db: mt.DB}).Create(context.Background(), map[string]any{"title": "x"})
		require.Error(mt, err)
		assert.True(mt, mongo.IsDuplicateKeyError(err))
	})
}

func TestMongoStoreNotConnected(t *testing.T) {
	store := NewMongoStore(dbCollections{})

	_, err := store.List(context.Background())
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeServiceUnavailable, appErr.Code)

	_, err = store.Create(context.Background(), map[string]any{})
	assert.Error(t, err)
}
