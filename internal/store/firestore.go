package store

import (
	"context"
	"sync"

	"cloud.google.com/go/firestore"
	log "github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore implements DocumentStore on Cloud Firestore. Timestamps
// are assigned by the Firestore server via firestore.ServerTimestamp.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new FirestoreStore.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// GetDocument performs a point read. An absent document returns (nil, nil).
func (s *FirestoreStore) GetDocument(ctx context.Context, collection, id string) (*Document, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}
	return &Document{ID: snap.Ref.ID, Fields: snap.Data()}, nil
}

// SetDocument creates or fully replaces a document, stamping createdAt
// and updatedAt server-side.
func (s *FirestoreStore) SetDocument(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	data := cloneFields(fields)
	data[FieldCreatedAt] = firestore.ServerTimestamp
	data[FieldUpdatedAt] = firestore.ServerTimestamp
	_, err := s.client.Collection(collection).Doc(id).Set(ctx, data)
	return err
}

// UpdateDocument merges fields into an existing document, refreshing
// updatedAt only. A missing document fails with ErrNotFound.
func (s *FirestoreStore) UpdateDocument(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	updates := make([]firestore.Update, 0, len(fields)+1)
	for k, v := range fields {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	updates = append(updates, firestore.Update{Path: FieldUpdatedAt, Value: firestore.ServerTimestamp})

	_, err := s.client.Collection(collection).Doc(id).Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

// AddDocument creates a document with a Firestore-generated id and a
// server-stamped createdAt.
func (s *FirestoreStore) AddDocument(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	data := cloneFields(fields)
	data[FieldCreatedAt] = firestore.ServerTimestamp
	ref, _, err := s.client.Collection(collection).Add(ctx, data)
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

// QueryOrdered returns a one-shot, server-sorted snapshot of the collection.
func (s *FirestoreStore) QueryOrdered(ctx context.Context, collection, orderBy string, dir Direction) ([]Document, error) {
	iter := s.orderedQuery(collection, orderBy, dir).Documents(ctx)
	defer iter.Stop()
	return collectDocuments(iter)
}

// Subscribe opens a snapshot listener over the ordered query. The first
// notification carries the current snapshot; subsequent ones the full
// re-resolved result set. Listener errors are logged and end the watch;
// the caller keeps its last-known state.
func (s *FirestoreStore) Subscribe(ctx context.Context, collection, orderBy string, dir Direction, fn SnapshotFunc) (CancelFunc, error) {
	watchCtx, cancel := context.WithCancel(ctx)
	snaps := s.orderedQuery(collection, orderBy, dir).Snapshots(watchCtx)

	go func() {
		defer snaps.Stop()
		for {
			snap, err := snaps.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Errorf("Firestore snapshot listener error: %v", err)
				}
				return
			}
			docs, err := collectDocuments(snap.Documents)
			if err != nil {
				log.Errorf("Error reading Firestore snapshot documents: %v", err)
				continue
			}
			fn(docs)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(cancel)
	}, nil
}

func (s *FirestoreStore) orderedQuery(collection, orderBy string, dir Direction) firestore.Query {
	return s.client.Collection(collection).OrderBy(orderBy, firestoreDirection(dir))
}

func firestoreDirection(dir Direction) firestore.Direction {
	if dir == Desc {
		return firestore.Desc
	}
	return firestore.Asc
}

func collectDocuments(iter *firestore.DocumentIterator) ([]Document, error) {
	docs := make([]Document, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Fields: snap.Data()})
	}
	return docs, nil
}
