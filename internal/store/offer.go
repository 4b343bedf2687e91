package store

import (
	"sort"
	"sync"
	"time"

	"github.com/efreitasn/minimarket/internal/domain"
)

// OfferStore is a thread-safe in-memory store for offers, keyed by
// product_id and then seller_id. The two-level key makes the at-most-one
// offer per (seller, product) invariant structural: Upsert replaces any
// previous offer from the same seller for the same product.
//
// The store also owns the per-product stock locks. Every mutation of a
// product's aggregate available quantity must run while holding that
// product's lock (see LockProducts); this is what serializes concurrent
// checkouts touching the same product.
type OfferStore struct {
	mu     sync.RWMutex
	offers map[string]map[string]*domain.Offer // product_id → seller_id → offer

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex // product_id → stock lock
}

// NewOfferStore creates an empty OfferStore.
func NewOfferStore() *OfferStore {
	return &OfferStore{
		offers: make(map[string]map[string]*domain.Offer),
		locks:  make(map[string]*sync.Mutex),
	}
}

// Upsert inserts the seller's offer for a product, replacing any existing
// offer from the same seller. The replaced offer's OfferID and CreatedAt
// are preserved.
//
// Replacing an offer changes the product's aggregate available quantity, so
// Upsert takes the product's stock lock first (before s.mu, the same order
// as checkout). A checkout that has verified availability under LockProducts
// therefore cannot have the verified quantity changed out from under it
// before its Reduce commits.
func (s *OfferStore) Upsert(o *domain.Offer) {
	stock := s.lockFor(o.ProductID)
	stock.Lock()
	defer stock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	bySeller, ok := s.offers[o.ProductID]
	if !ok {
		bySeller = make(map[string]*domain.Offer)
		s.offers[o.ProductID] = bySeller
	}
	if prev, ok := bySeller[o.SellerID]; ok {
		o.OfferID = prev.OfferID
		o.CreatedAt = prev.CreatedAt
	}
	o.UpdatedAt = time.Now()
	bySeller[o.SellerID] = o
}

// OffersFor returns a snapshot of all offers for a product, sorted by
// seller_id for deterministic iteration. The returned slice is owned by the
// caller; the offer pointers are shared.
func (s *OfferStore) OffersFor(productID string) []*domain.Offer {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bySeller := s.offers[productID]
	out := make([]*domain.Offer, 0, len(bySeller))
	for _, o := range bySeller {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SellerID < out[j].SellerID })
	return out
}

// Quantity returns the product's aggregate available quantity, the sum of
// its offers' quantities.
func (s *OfferStore) Quantity(productID string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, o := range s.offers[productID] {
		total += o.Quantity
	}
	return total
}

// LockProducts acquires the stock locks for the given products and returns
// the corresponding unlock function. IDs are deduplicated and acquired in
// sorted order so that two checkouts over overlapping product sets can
// never deadlock.
func (s *OfferStore) LockProducts(productIDs []string) func() {
	ids := append([]string(nil), productIDs...)
	sort.Strings(ids)

	acquired := make([]*sync.Mutex, 0, len(ids))
	var prev string
	for i, id := range ids {
		if i > 0 && id == prev {
			continue
		}
		prev = id
		mu := s.lockFor(id)
		mu.Lock()
		acquired = append(acquired, mu)
	}

	return func() {
		// Release in reverse acquisition order.
		for i := len(acquired) - 1; i >= 0; i-- {
			acquired[i].Unlock()
		}
	}
}

func (s *OfferStore) lockFor(productID string) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()

	mu, ok := s.locks[productID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[productID] = mu
	}
	return mu
}

// Deduction records how much stock was taken from a single offer, so a
// reservation can be restored exactly.
type Deduction struct {
	Offer  *domain.Offer
	Amount int64
}

// Reduce consumes qty units of the product's stock, draining offers with the
// largest remaining quantity first, and returns the per-offer deductions.
// The caller must hold the product's stock lock and must have verified that
// at least qty units are available.
func (s *OfferStore) Reduce(productID string, qty int64) []Deduction {
	s.mu.Lock()
	defer s.mu.Unlock()

	offers := make([]*domain.Offer, 0, len(s.offers[productID]))
	for _, o := range s.offers[productID] {
		offers = append(offers, o)
	}
	sort.Slice(offers, func(i, j int) bool {
		if offers[i].Quantity != offers[j].Quantity {
			return offers[i].Quantity > offers[j].Quantity
		}
		return offers[i].SellerID < offers[j].SellerID
	})

	var deductions []Deduction
	remaining := qty
	for _, o := range offers {
		if remaining == 0 {
			break
		}
		take := o.Quantity
		if take > remaining {
			take = remaining
		}
		if take == 0 {
			continue
		}
		o.Quantity -= take
		remaining -= take
		deductions = append(deductions, Deduction{Offer: o, Amount: take})
	}
	return deductions
}

// Restore reverses previously applied deductions. The caller must hold the
// affected products' stock locks.
func (s *OfferStore) Restore(deductions []Deduction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, d := range deductions {
		d.Offer.Quantity += d.Amount
	}
}
