package store

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements DocumentStore on MongoDB. Document ids are kept
// as strings in _id; generated ids are ObjectID hex strings. Change
// streams drive subscriptions, so the deployment must be a replica set.
type MongoStore struct {
	db *mongo.Database
}

// NewMongoStore creates a new MongoStore.
func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

// GetDocument performs a point read. An absent document returns (nil, nil).
func (s *MongoStore) GetDocument(ctx context.Context, collection, id string) (*Document, error) {
	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return documentFromRaw(id, raw), nil
}

// SetDocument creates or fully replaces a document, stamping createdAt
// and updatedAt.
func (s *MongoStore) SetDocument(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	now := time.Now().UTC()
	doc := cloneFields(fields)
	doc[FieldCreatedAt] = now
	doc[FieldUpdatedAt] = now

	opts := options.Replace().SetUpsert(true)
	_, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, withID(id, doc), opts)
	return err
}

// UpdateDocument merges fields into an existing document, refreshing
// updatedAt only. A missing document fails with ErrNotFound.
func (s *MongoStore) UpdateDocument(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	set := cloneFields(fields)
	set[FieldUpdatedAt] = time.Now().UTC()

	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddDocument creates a document with a generated id and a stamped createdAt.
func (s *MongoStore) AddDocument(ctx context.Context, collection string, fields map[string]interface{}) (string, error) {
	id := primitive.NewObjectID().Hex()
	doc := cloneFields(fields)
	doc[FieldCreatedAt] = time.Now().UTC()

	if _, err := s.db.Collection(collection).InsertOne(ctx, withID(id, doc)); err != nil {
		return "", err
	}
	return id, nil
}

// QueryOrdered returns a one-shot snapshot sorted server-side.
func (s *MongoStore) QueryOrdered(ctx context.Context, collection, orderBy string, dir Direction) ([]Document, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: orderBy, Value: mongoDirection(dir)}})
	cursor, err := s.db.Collection(collection).Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var raws []bson.M
	if err = cursor.All(ctx, &raws); err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(raws))
	for _, raw := range raws {
		id, _ := raw["_id"].(string)
		docs = append(docs, *documentFromRaw(id, raw))
	}
	return docs, nil
}

// Subscribe opens a change stream on the collection and re-resolves the
// full ordered snapshot on every event. The first notification is
// delivered immediately with the current snapshot. Stream errors are
// logged and end the watch; the caller keeps its last-known state.
func (s *MongoStore) Subscribe(ctx context.Context, collection, orderBy string, dir Direction, fn SnapshotFunc) (CancelFunc, error) {
	watchCtx, cancel := context.WithCancel(ctx)

	stream, err := s.db.Collection(collection).Watch(watchCtx, mongo.Pipeline{})
	if err != nil {
		cancel()
		return nil, err
	}

	initial, err := s.QueryOrdered(ctx, collection, orderBy, dir)
	if err != nil {
		cancel()
		stream.Close(context.Background())
		return nil, err
	}

	var detached atomic.Bool
	fn(initial)

	go func() {
		defer stream.Close(context.Background())
		for stream.Next(watchCtx) {
			docs, err := s.QueryOrdered(watchCtx, collection, orderBy, dir)
			if err != nil {
				log.Errorf("Error re-resolving snapshot after change event: %v", err)
				continue
			}
			if detached.Load() {
				return
			}
			fn(docs)
		}
		if err := stream.Err(); err != nil && watchCtx.Err() == nil {
			log.Errorf("MongoDB change stream error: %v", err)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			detached.Store(true)
			cancel()
		})
	}, nil
}

func withID(id string, fields map[string]interface{}) bson.M {
	doc := bson.M{"_id": id}
	for k, v := range fields {
		doc[k] = v
	}
	return doc
}

func documentFromRaw(id string, raw bson.M) *Document {
	fields := make(map[string]interface{}, len(raw))
	for k, v := range raw {
		if k == "_id" {
			continue
		}
		if dt, ok := v.(primitive.DateTime); ok {
			fields[k] = dt.Time().UTC()
		} else {
			fields[k] = v
		}
	}
	return &Document{ID: id, Fields: fields}
}

func mongoDirection(dir Direction) int {
	if dir == Desc {
		return -1
	}
	return 1
}
