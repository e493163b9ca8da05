package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by UpdateDocument when the target document
// does not exist. Point reads report absence as (nil, nil) instead.
var ErrNotFound = errors.New("document not found")

// Timestamp fields stamped by the store at commit time.
const (
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// Direction controls the sort order of ordered queries and subscriptions.
type Direction int

const (
	Asc Direction = iota
	Desc
)

// Document is one record of a collection: its store-assigned id plus a
// flat map of fields.
type Document struct {
	ID     string
	Fields map[string]interface{}
}

// SnapshotFunc receives the full, ordered result set of a subscribed
// query. It is invoked once with the current snapshot when the
// subscription is opened and again after every insert, update or delete
// affecting the query result.
type SnapshotFunc func(docs []Document)

// CancelFunc permanently detaches a subscription. Calling it more than
// once is a no-op.
type CancelFunc func()

// DocumentStore is the persistence contract the application is built
// against. Implementations stamp createdAt/updatedAt server-side:
// SetDocument stamps both, UpdateDocument refreshes updatedAt only and
// AddDocument stamps createdAt. Every operation propagates the
// underlying store error to its caller; no operation retries.
type DocumentStore interface {
	// GetDocument performs a point read. An absent document is not an
	// error: it returns (nil, nil).
	GetDocument(ctx context.Context, collection, id string) (*Document, error)

	// SetDocument creates or fully replaces a document.
	SetDocument(ctx context.Context, collection, id string, fields map[string]interface{}) error

	// UpdateDocument merges fields into an existing document. It fails
	// with ErrNotFound if the document does not exist.
	UpdateDocument(ctx context.Context, collection, id string, fields map[string]interface{}) error

	// AddDocument creates a document with a store-generated id.
	AddDocument(ctx context.Context, collection string, fields map[string]interface{}) (string, error)

	// QueryOrdered returns a one-shot snapshot of the collection,
	// sorted by the given field.
	QueryOrdered(ctx context.Context, collection, orderBy string, dir Direction) ([]Document, error)

	// Subscribe registers a standing watch over the ordered query.
	Subscribe(ctx context.Context, collection, orderBy string, dir Direction, fn SnapshotFunc) (CancelFunc, error)
}

func cloneFields(fields map[string]interface{}) map[string]interface{} {
	clone := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		clone[k] = v
	}
	return clone
}
