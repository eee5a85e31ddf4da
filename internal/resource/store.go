package resource

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Resource is an encoded audio artifact with a stable handle. The owner
// must release it once superseded; nothing expires automatically.
type Resource struct {
	ID        string    `json:"id"`
	MimeType  string    `json:"mime_type"`
	Filename  string    `json:"filename"`
	SizeBytes int       `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`

	Data []byte `json:"-"`
}

// Store is an in-memory registry of resources keyed by ID.
type Store struct {
	mu        sync.RWMutex
	resources map[string]*Resource
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{resources: make(map[string]*Resource)}
}

// Create registers encoded bytes and returns the new resource.
func (s *Store) Create(data []byte, mimeType, filename string) *Resource {
	res := &Resource{
		ID:        uuid.NewString(),
		MimeType:  mimeType,
		Filename:  filename,
		SizeBytes: len(data),
		CreatedAt: time.Now().UTC(),
		Data:      data,
	}

	s.mu.Lock()
	s.resources[res.ID] = res
	s.mu.Unlock()
	return res
}

// Get returns the resource for the given ID.
func (s *Store) Get(id string) (*Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.resources[id]
	if !ok {
		return nil, fmt.Errorf("resource %s not found", id)
	}
	return res, nil
}

// Release drops the resource, freeing its bytes for reclamation.
// Returns false if the ID was unknown.
func (s *Store) Release(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.resources[id]; !ok {
		return false
	}
	delete(s.resources, id)
	return true
}

// ReleaseAll drops every resource and returns how many were held.
func (s *Store) ReleaseAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.resources)
	s.resources = make(map[string]*Resource)
	return n
}

// Count returns the number of resources currently held.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.resources)
}

// TotalBytes returns the summed size of all held resources.
func (s *Store) TotalBytes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, res := range s.resources {
		total += res.SizeBytes
	}
	return total
}

// List returns a snapshot of all held resources.
func (s *Store) List() []*Resource {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Resource, 0, len(s.resources))
	for _, res := range s.resources {
		out = append(out, res)
	}
	return out
}
