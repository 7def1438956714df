package article

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/kbukum/articles/database"
	"github.com/kbukum/articles/errors"
)

// Record is the SQL row of an article. The free-form fields live in a JSON
// text column.
type Record struct {
	ID        string         `gorm:"primaryKey;size:36"`
	Document  map[string]any `gorm:"serializer:json;type:text"`
	CreatedAt time.Time      `gorm:"index"`
}

func (Record) TableName() string { return CollectionName }

// DBSource hands out the GORM handle once connected; *database.Service
// implements it. A nil handle means not connected.
type DBSource interface {
	DB() *gorm.DB
}

// SQLStore keeps articles in a SQL table through GORM.
type SQLStore struct {
	src DBSource
	now func() time.Time
}

var _ Store = (*SQLStore)(nil)

// NewSQLStore creates a store over src. The handle is looked up per call.
func NewSQLStore(src DBSource) *SQLStore {
	return &SQLStore{src: src, now: time.Now}
}

func (s *SQLStore) db(ctx context.Context) (*gorm.DB, error) {
	db := s.src.DB()
	if db == nil {
		return nil, errors.ServiceUnavailable("sql")
	}
	return db.WithContext(ctx), nil
}

func (s *SQLStore) List(ctx context.Context) ([]Article, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}

	var rows []Record
	if err := db.Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, database.FromDatabase(err, "article")
	}

	out := make([]Article, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.article())
	}
	return out, nil
}

func (s *SQLStore) Create(ctx context.Context, doc map[string]any) (Article, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, err
	}

	a := newArticle(doc, s.now())
	row := newRecord(a)
	if err := db.Create(&row).Error; err != nil {
		return nil, database.FromDatabase(err, "article")
	}
	return a, nil
}

func newRecord(a Article) Record {
	row := Record{Document: make(map[string]any, len(a))}
	for k, v := range a {
		switch k {
		case FieldID:
			row.ID, _ = v.(string)
		case FieldCreatedAt:
			row.CreatedAt, _ = v.(time.Time)
		default:
			row.Document[k] = v
		}
	}
	return row
}

func (r Record) article() Article {
	a := make(Article, len(r.Document)+2)
	for k, v := range r.Document {
		a[k] = v
	}
	a[FieldID] = r.ID
	a[FieldCreatedAt] = r.CreatedAt.UTC()
	return a
}
