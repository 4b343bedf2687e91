package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/efreitasn/minimarket/internal/domain"
)

// OrderStore is a thread-safe in-memory store for orders. Open carts are
// indexed by buyer_id, confirmed orders by order_id and by buyer_id
// (append-only history).
//
// Two design points live here rather than in the engines:
//
//   - Get-or-create of the open cart runs under the buyer's lock, so a buyer
//     can never end up with two open carts, even under concurrent requests.
//   - MutateOpen couples a line mutation with the totals recalculation in a
//     single critical section, so no caller can mutate lines and forget to
//     refresh the cached totals.
type OrderStore struct {
	mu          sync.RWMutex
	orders      map[string]*domain.Order   // order_id → order (confirmed only)
	openByBuyer map[string]*domain.Order   // buyer_id → open cart
	history     map[string][]*domain.Order // buyer_id → confirmed orders (append-only)

	lockMu     sync.Mutex
	buyerLocks map[string]*sync.Mutex

	recalc func(*domain.Order)
}

// NewOrderStore creates an empty OrderStore. recalc is the totals
// recalculation applied after every successful line mutation.
func NewOrderStore(recalc func(*domain.Order)) *OrderStore {
	return &OrderStore{
		orders:      make(map[string]*domain.Order),
		openByBuyer: make(map[string]*domain.Order),
		history:     make(map[string][]*domain.Order),
		buyerLocks:  make(map[string]*sync.Mutex),
		recalc:      recalc,
	}
}

func (s *OrderStore) buyerLock(buyerID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	mu, ok := s.buyerLocks[buyerID]
	if !ok {
		mu = &sync.Mutex{}
		s.buyerLocks[buyerID] = mu
	}
	return mu
}

// getOrCreateOpenLocked returns the buyer's open cart, creating it if
// absent. The caller must hold the buyer's lock. New carts start with
// all-zero totals; totals are first populated by the initial mutation.
func (s *OrderStore) getOrCreateOpenLocked(buyerID string) *domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o, ok := s.openByBuyer[buyerID]; ok {
		return o
	}
	o := &domain.Order{
		OrderID:   uuid.New().String(),
		BuyerID:   buyerID,
		Lines:     []*domain.OrderLine{},
		CreatedAt: time.Now(),
	}
	s.openByBuyer[buyerID] = o
	return o
}

// GetOrCreateOpen returns the buyer's open cart, creating an empty one if
// none exists.
func (s *OrderStore) GetOrCreateOpen(buyerID string) *domain.Order {
	mu := s.buyerLock(buyerID)
	mu.Lock()
	defer mu.Unlock()

	return s.getOrCreateOpenLocked(buyerID)
}

// MutateOpen runs fn against the buyer's open cart (created if absent) under
// the buyer's lock. If fn reports that it mutated the cart's lines, the
// totals recalculation runs before the lock is released, regardless of
// whether fn also returned an error (a stock conflict both mutates lines and
// fails). The possibly-updated cart is returned alongside fn's error.
func (s *OrderStore) MutateOpen(buyerID string, fn func(*domain.Order) (bool, error)) (*domain.Order, error) {
	mu := s.buyerLock(buyerID)
	mu.Lock()
	defer mu.Unlock()

	o := s.getOrCreateOpenLocked(buyerID)
	mutated, err := fn(o)
	if mutated {
		s.recalc(o)
	}
	return o, err
}

// Confirm moves an open cart into the buyer's confirmed history. The caller
// must hold the buyer's lock (i.e. call this from within MutateOpen).
func (s *OrderStore) Confirm(o *domain.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	o.IsConfirmed = true
	o.ConfirmedAt = &now

	delete(s.openByBuyer, o.BuyerID)
	s.orders[o.OrderID] = o
	s.history[o.BuyerID] = append(s.history[o.BuyerID], o)
}

// GetConfirmed retrieves a confirmed order by ID, scoped to the given buyer.
// Open carts are not reachable through this lookup.
func (s *OrderStore) GetConfirmed(buyerID, orderID string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[orderID]
	if !ok || o.BuyerID != buyerID {
		return nil, domain.ErrOrderNotFound
	}
	return o, nil
}

// ListConfirmed returns the buyer's confirmed orders in reverse chronological
// order (newest first). Pagination is 1-based. The second return value is the
// total count before pagination.
func (s *OrderStore) ListConfirmed(buyerID string, page, limit int) ([]*domain.Order, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.history[buyerID]
	total := len(all)

	start := (page - 1) * limit
	if start >= total {
		return []*domain.Order{}, total
	}
	end := start + limit
	if end > total {
		end = total
	}

	out := make([]*domain.Order, 0, end-start)
	for i := total - 1 - start; i > total-1-end; i-- {
		out = append(out, all[i])
	}
	return out, total
}
