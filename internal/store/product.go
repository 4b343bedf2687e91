package store

import (
	"sync"

	"github.com/google/btree"

	"github.com/efreitasn/minimarket/internal/domain"
)

// productKey orders the listing index by name ascending, then product_id
// ascending as a tiebreaker for identical names.
type productKey struct {
	name      string
	productID string
	product   *domain.Product
}

func productLess(a, b productKey) bool {
	if a.name != b.name {
		return a.name < b.name
	}
	return a.productID < b.productID
}

// ProductStore is a thread-safe in-memory store for products, with a primary
// index by product_id, a uniqueness index by GTIN, and a B-tree index by
// (name, product_id) backing sorted paginated listing.
type ProductStore struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
	byGTIN   map[string]string // gtin → product_id
	byName   *btree.BTreeG[productKey]
}

// NewProductStore creates an empty ProductStore.
func NewProductStore() *ProductStore {
	return &ProductStore{
		products: make(map[string]*domain.Product),
		byGTIN:   make(map[string]string),
		byName:   btree.NewG(2, productLess),
	}
}

// Create adds a product to the store. It returns domain.ErrGTINAlreadyExists
// if the product carries a GTIN that another product already uses.
func (s *ProductStore) Create(p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.GTIN != "" {
		if _, exists := s.byGTIN[p.GTIN]; exists {
			return domain.ErrGTINAlreadyExists
		}
		s.byGTIN[p.GTIN] = p.ProductID
	}
	s.products[p.ProductID] = p
	s.byName.ReplaceOrInsert(productKey{name: p.Name, productID: p.ProductID, product: p})
	return nil
}

// Get retrieves a product by ID. It returns domain.ErrProductNotFound if
// the product does not exist.
func (s *ProductStore) Get(id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

// Exists returns true if a product with the given ID exists.
func (s *ProductStore) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.products[id]
	return ok
}

// List returns products sorted by (name, product_id) for the requested page.
// Pagination is 1-based. The second return value is the total product count
// before pagination.
func (s *ProductStore) List(page, limit int) ([]*domain.Product, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := s.byName.Len()

	start := (page - 1) * limit
	if start >= total {
		return []*domain.Product{}, total
	}

	out := make([]*domain.Product, 0, limit)
	i := 0
	s.byName.Ascend(func(k productKey) bool {
		if i >= start {
			out = append(out, k.product)
		}
		i++
		return len(out) < limit
	})
	return out, total
}
