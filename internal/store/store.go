// Package store keeps the board's posts in process memory.
package store

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/hardiksrivastavaa/IG-CRUD/internal/model"
)

// ErrNotFound is returned when no post carries the requested id.
var ErrNotFound = errors.New("post not found")

// Store holds posts in insertion order. It is safe for concurrent use.
type Store struct {
	mu    sync.RWMutex
	posts []model.Post
}

// New returns a Store holding the given posts in order.
func New(seed ...model.Post) *Store {
	posts := make([]model.Post, len(seed))
	copy(posts, seed)
	return &Store{posts: posts}
}

// Seeded returns a Store with the two posts every fresh process starts with.
func Seeded() *Store {
	return New(
		model.Post{
			ID:       uuid.NewString(),
			Username: "hardikksrivastava",
			Content:  "I am a passionate developer",
		},
		model.Post{
			ID:       uuid.NewString(),
			Username: "shraddhakhapra",
			Content:  "She is a software engineer",
		},
	)
}

// Create appends a new post with a fresh id and returns it.
func (s *Store) Create(username, content string) model.Post {
	p := model.Post{
		ID:       uuid.NewString(),
		Username: username,
		Content:  content,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts = append(s.posts, p)

	return p
}

// FindByID returns the first post with the given id.
func (s *Store) FindByID(id string) (model.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.posts {
		if p.ID == id {
			return p, true
		}
	}

	return model.Post{}, false
}

// UpdateContent replaces the content of the post with the given id.
func (s *Store) UpdateContent(id, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		if s.posts[i].ID == id {
			s.posts[i].Content = content
			return nil
		}
	}

	return ErrNotFound
}

// Delete removes every post with the given id. Deleting an unknown id is a
// no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.posts[:0]
	for _, p := range s.posts {
		if p.ID != id {
			kept = append(kept, p)
		}
	}

	// Zero the tail so dropped posts don't linger in the backing array.
	for i := len(kept); i < len(s.posts); i++ {
		s.posts[i] = model.Post{}
	}
	s.posts = kept
}

// List returns a copy of all posts in insertion order.
func (s *Store) List() []model.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// Len reports how many posts are stored.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}
