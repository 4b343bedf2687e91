package store

import (
	"sync"

	"github.com/efreitasn/minimarket/internal/domain"
)

// SellerStore is a thread-safe in-memory store for sellers,
// keyed by seller_id.
type SellerStore struct {
	mu      sync.RWMutex
	sellers map[string]*domain.Seller
}

// NewSellerStore creates an empty SellerStore.
func NewSellerStore() *SellerStore {
	return &SellerStore{
		sellers: make(map[string]*domain.Seller),
	}
}

// Create adds a seller to the store. It returns
// domain.ErrSellerAlreadyExists if a seller with the same ID
// already exists.
func (s *SellerStore) Create(sl *domain.Seller) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sellers[sl.SellerID]; exists {
		return domain.ErrSellerAlreadyExists
	}
	s.sellers[sl.SellerID] = sl
	return nil
}

// Get retrieves a seller by ID. It returns
// domain.ErrSellerNotFound if the seller does not exist.
func (s *SellerStore) Get(id string) (*domain.Seller, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sl, ok := s.sellers[id]
	if !ok {
		return nil, domain.ErrSellerNotFound
	}
	return sl, nil
}

// Exists returns true if a seller with the given ID exists.
func (s *SellerStore) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.sellers[id]
	return ok
}
