package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// documentRow is the relational shape of a document: one row per
// document, domain fields JSON-encoded, timestamps as columns.
type documentRow struct {
	ID         uint   `gorm:"primaryKey"`
	Collection string `gorm:"uniqueIndex:idx_documents_collection_doc_id"`
	DocID      string `gorm:"uniqueIndex:idx_documents_collection_doc_id"`
	Fields     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (documentRow) TableName() string { return "documents" }

// GormStore implements DocumentStore on PostgreSQL via GORM. It has no
// native change feed, so subscriptions are driven by an in-process
// notifier: only writes issued through this store instance are observed,
// which is sufficient for the single-writer demo deployment.
type GormStore struct {
	db       *gorm.DB
	notifier *notifier
}

// NewGormStore migrates the documents table and returns a new GormStore.
func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate documents table: %w", err)
	}
	return &GormStore{db: db, notifier: newNotifier()}, nil
}

// GetDocument performs a point read. An absent document returns (nil, nil).
func (s *GormStore) GetDocument(ctx context.Context, collection, id string) (*Document, error) {
	var row documentRow
	err := s.db.WithContext(ctx).Where("collection = ? AND doc_id = ?", collection, id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return documentFromRow(row)
}

// SetDocument creates or fully replaces a document, stamping createdAt
// and updatedAt.
func (s *GormStore) SetDocument(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	encoded, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode document fields: %w", err)
	}

	now := time.Now().UTC()
	var row documentRow
	err = s.db.WithContext(ctx).Where("collection = ? AND doc_id = ?", collection, id).First(&row).Error
	switch err {
	case nil:
		row.Fields = string(encoded)
		row.CreatedAt = now
		row.UpdatedAt = now
		err = s.db.WithContext(ctx).Save(&row).Error
	case gorm.ErrRecordNotFound:
		row = documentRow{Collection: collection, DocID: id, Fields: string(encoded), CreatedAt: now, UpdatedAt: now}
		err = s.db.WithContext(ctx).Create(&row).Error
	}
	if err != nil {
		return err
	}

	s.notifier.broadcast(collection)
	return nil
}

// UpdateDocument merges fields into an existing document, refreshing
// updatedAt only. A missing document fails with ErrNotFound.
func (s *GormStore) UpdateDocument(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	var row documentRow
	err := s.db.WithContext(ctx).Where("collection = ? AND doc_id = ?", collection, id).First(&row).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return ErrNotFound
		}
		return err
	}

	existing := make(map[string]interface{})
	if row.Fields != "" {
		if err := json.Unmarshal([]byte(row.Fields), &existing); err != nil {
			return fmt.Errorf("failed to decode document fields: %w", err)
		}
	}
	for k, v := range fields {
		existing[k] = v
	}
	encoded, err := json.Marshal(existing)
	if err != nil {
		return fmt.Errorf("failed to encode document fields: %w", err)
	}

	row.Fields = string(encoded)
	row.UpdatedAt = time.Now().UTC()
	if err := s.db.WithContext(ctx).Save(&row).Error; err != nil {
		return err
	}

	s.notifier.broadcast(collection)
	return nil
}

// AddDocument creates a document with a generated id and a stamped createdAt.
func (s *GormStore) AddDocument(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	encoded, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode document fields: %w", err)
	}

	now := time.Now().UTC()
	row := documentRow{
		Collection: collection,
		DocID:      uuid.NewString(),
		Fields:     string(encoded),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", err
	}

	s.notifier.broadcast(collection)
	return row.DocID, nil
}

// QueryOrdered returns a one-shot snapshot sorted by a timestamp column.
// Row id breaks ties in insertion order.
func (s *GormStore) QueryOrdered(ctx context.Context, collection, orderBy string, dir Direction) ([]Document, error) {
	column, err := sortColumn(orderBy)
	if err != nil {
		return nil, err
	}
	order := fmt.Sprintf("%s ASC, id ASC", column)
	if dir == Desc {
		order = fmt.Sprintf("%s DESC, id DESC", column)
	}

	var rows []documentRow
	err = s.db.WithContext(ctx).Where("collection = ?", collection).Order(order).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(rows))
	for _, row := range rows {
		doc, err := documentFromRow(row)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, nil
}

// Subscribe registers an in-process watch. The first notification is
// delivered immediately with the current snapshot; every subsequent
// write through this store re-resolves the query and notifies.
func (s *GormStore) Subscribe(ctx context.Context, collection, orderBy string, dir Direction, fn SnapshotFunc) (CancelFunc, error) {
	initial, err := s.QueryOrdered(ctx, collection, orderBy, dir)
	if err != nil {
		return nil, err
	}

	var detached atomic.Bool
	unregister := s.notifier.subscribe(collection, func() {
		docs, err := s.QueryOrdered(ctx, collection, orderBy, dir)
		if err != nil {
			log.Errorf("Error re-resolving snapshot after write: %v", err)
			return
		}
		if detached.Load() {
			return
		}
		fn(docs)
	})

	fn(initial)

	var once sync.Once
	return func() {
		once.Do(func() {
			detached.Store(true)
			unregister()
		})
	}, nil
}

func documentFromRow(row documentRow) (*Document, error) {
	fields := make(map[string]interface{})
	if row.Fields != "" {
		if err := json.Unmarshal([]byte(row.Fields), &fields); err != nil {
			return nil, fmt.Errorf("failed to decode document fields: %w", err)
		}
	}
	fields[FieldCreatedAt] = row.CreatedAt
	fields[FieldUpdatedAt] = row.UpdatedAt
	return &Document{ID: row.DocID, Fields: fields}, nil
}

func sortColumn(orderBy string) (string, error) {
	switch orderBy {
	case FieldCreatedAt:
		return "created_at", nil
	case FieldUpdatedAt:
		return "updated_at", nil
	default:
		return "", fmt.Errorf("unsupported sort field %q", orderBy)
	}
}
