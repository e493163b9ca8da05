package feed

import (
	"context"
	"sync"

	"github.com/anonto42/social-feed/backend/internal/models"
	"github.com/anonto42/social-feed/backend/internal/repositories"
	"github.com/anonto42/social-feed/backend/internal/store"
)

// State is the synchronizer lifecycle state: Loading until the first
// snapshot arrives, Live from then on.
type State int

const (
	Loading State = iota
	Live
)

// Synchronizer maintains a live, ordered view of the posts collection by
// holding one standing subscription and replacing its local list with
// the full payload of every change notification. It never diffs or
// merges: the store delivers the complete resolved result set each time.
type Synchronizer struct {
	docs store.DocumentStore

	mu      sync.Mutex
	state   State
	posts   []models.Post
	active  bool
	cancel  store.CancelFunc
	updates chan []models.Post
}

// NewSynchronizer creates a Synchronizer in the Loading state.
func NewSynchronizer(docs store.DocumentStore) *Synchronizer {
	return &Synchronizer{
		docs:    docs,
		updates: make(chan []models.Post, 1),
	}
}

// Start opens the standing subscription on the posts collection, newest
// first. The first notification carries the current snapshot and moves
// the synchronizer to Live.
func (s *Synchronizer) Start(ctx context.Context) error {
	s.mu.Lock()
	s.active = true
	s.mu.Unlock()

	cancel, err := s.docs.Subscribe(ctx, repositories.PostsCollection, store.FieldCreatedAt, store.Desc, s.apply)
	if err != nil {
		s.mu.Lock()
		s.active = false
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()
	return nil
}

// Stop cancels the subscription. It is safe to call more than once and
// without a prior Start.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.active = false
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// State returns the current lifecycle state.
func (s *Synchronizer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Posts returns the latest snapshot.
func (s *Synchronizer) Posts() []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts := make([]models.Post, len(s.posts))
	copy(posts, s.posts)
	return posts
}

// Updates delivers each new full snapshot to a single consumer. A slow
// consumer only ever sees the latest snapshot; intermediate ones are
// dropped.
func (s *Synchronizer) Updates() <-chan []models.Post {
	return s.updates
}

// apply replaces the local list with the notification payload. A
// notification arriving after Stop is dropped.
func (s *Synchronizer) apply(docs []store.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return
	}

	posts := repositories.PostsFromDocuments(docs)
	s.posts = posts
	s.state = Live

	select {
	case s.updates <- posts:
	default:
		// drop the stale snapshot, then publish the new one
		select {
		case <-s.updates:
		default:
		}
		select {
		case s.updates <- posts:
		default:
		}
	}
}
