package store

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// MemoryStore implements DocumentStore entirely in memory. It serves as
// the local development backend and as the test double for the real
// stores, so it honors the same contract: server-stamped timestamps that
// never decrease in assignment order, insertion-order tiebreaks and
// full-snapshot subscription delivery.
type MemoryStore struct {
	mu       sync.Mutex
	colls    map[string]map[string]*memoryDocument
	lastTS   time.Time
	seq      int64
	notifier *notifier
}

type memoryDocument struct {
	seq    int64
	fields map[string]interface{}
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		colls:    make(map[string]map[string]*memoryDocument),
		notifier: newNotifier(),
	}
}

// GetDocument performs a point read. An absent document returns (nil, nil).
func (s *MemoryStore) GetDocument(ctx context.Context, collection, id string) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.colls[collection][id]
	if !ok {
		return nil, nil
	}
	return &Document{ID: id, Fields: cloneFields(doc.fields)}, nil
}

// SetDocument creates or fully replaces a document, stamping createdAt
// and updatedAt.
func (s *MemoryStore) SetDocument(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	now := s.timestamp()
	doc := cloneFields(fields)
	doc[FieldCreatedAt] = now
	doc[FieldUpdatedAt] = now
	s.put(collection, id, doc)
	s.mu.Unlock()

	s.notifier.broadcast(collection)
	return nil
}

// UpdateDocument merges fields into an existing document, refreshing
// updatedAt only. A missing document fails with ErrNotFound.
func (s *MemoryStore) UpdateDocument(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	s.mu.Lock()
	doc, ok := s.colls[collection][id]
	if !ok {
		s.mu.Unlock()
		return ErrNotFound
	}
	for k, v := range fields {
		doc.fields[k] = v
	}
	doc.fields[FieldUpdatedAt] = s.timestamp()
	s.mu.Unlock()

	s.notifier.broadcast(collection)
	return nil
}

// AddDocument creates a document with a generated id and a stamped createdAt.
func (s *MemoryStore) AddDocument(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	id := uuid.NewString()

	s.mu.Lock()
	doc := cloneFields(fields)
	doc[FieldCreatedAt] = s.timestamp()
	s.put(collection, id, doc)
	s.mu.Unlock()

	s.notifier.broadcast(collection)
	return id, nil
}

// QueryOrdered returns a snapshot of the collection sorted by the given
// field. Equal sort keys fall back to insertion order.
func (s *MemoryStore) QueryOrdered(ctx context.Context, collection, orderBy string, dir Direction) ([]Document, error) {
	s.mu.Lock()
	type entry struct {
		id  string
		seq int64
		doc Document
	}
	entries := make([]entry, 0, len(s.colls[collection]))
	for id, doc := range s.colls[collection] {
		entries = append(entries, entry{
			id:  id,
			seq: doc.seq,
			doc: Document{ID: id, Fields: cloneFields(doc.fields)},
		})
	}
	s.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		cmp := compareFieldValues(a.doc.Fields[orderBy], b.doc.Fields[orderBy])
		if cmp == 0 {
			if dir == Desc {
				return a.seq > b.seq
			}
			return a.seq < b.seq
		}
		if dir == Desc {
			return cmp > 0
		}
		return cmp < 0
	})

	docs := make([]Document, 0, len(entries))
	for _, e := range entries {
		docs = append(docs, e.doc)
	}
	return docs, nil
}

// Subscribe registers an in-process watch. The first notification is
// delivered immediately with the current snapshot; every subsequent
// write to the collection re-resolves the query and notifies.
func (s *MemoryStore) Subscribe(ctx context.Context, collection, orderBy string, dir Direction, fn SnapshotFunc) (CancelFunc, error) {
	initial, err := s.QueryOrdered(ctx, collection, orderBy, dir)
	if err != nil {
		return nil, err
	}

	var detached atomic.Bool
	unregister := s.notifier.subscribe(collection, func() {
		docs, _ := s.QueryOrdered(ctx, collection, orderBy, dir)
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

// put stores a document under the next insertion sequence number.
// Callers must hold s.mu.
func (s *MemoryStore) put(collection, id string, fields map[string]interface{}) {
	if s.colls[collection] == nil {
		s.colls[collection] = make(map[string]*memoryDocument)
	}
	s.seq++
	s.colls[collection][id] = &memoryDocument{seq: s.seq, fields: fields}
}

// timestamp returns a commit timestamp that is strictly greater than any
// previously assigned one. Callers must hold s.mu.
func (s *MemoryStore) timestamp() time.Time {
	now := time.Now().UTC()
	if !now.After(s.lastTS) {
		now = s.lastTS.Add(time.Microsecond)
	}
	s.lastTS = now
	return now
}

func compareFieldValues(a, b interface{}) int {
	switch av := a.(type) {
	case time.Time:
		bv, ok := b.(time.Time)
		if !ok {
			return 0
		}
		switch {
		case av.Before(bv):
			return -1
		case av.After(bv):
			return 1
		}
		return 0
	case string:
		bv, ok := b.(string)
		if !ok {
			return 0
		}
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	default:
		return 0
	}
}
