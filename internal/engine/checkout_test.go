package engine

import (
	"errors"
	"sync"
	"testing"

	"github.com/efreitasn/minimarket/internal/domain"
)

func TestCheckout_Success(t *testing.T) {
	env := newTestEnv(false)
	env.seedProduct(t, "p1", "s1", 5, 1000)

	if _, err := env.cart.AddOrUpdateLine("buyer", "p1", 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	order, adjustments, err := env.checkout.Checkout("buyer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(adjustments) != 0 {
		t.Errorf("got %d adjustments, want 0", len(adjustments))
	}
	if !order.IsConfirmed || order.ConfirmedAt == nil {
		t.Error("order not confirmed")
	}

	// Stock consumed.
	if qty := env.offers.Quantity("p1"); qty != 2 {
		t.Errorf("remaining stock = %d, want 2", qty)
	}

	// Confirmed order went into history; the next cart is fresh.
	next := env.orders.GetOrCreateOpen("buyer")
	if next.OrderID == order.OrderID {
		t.Error("confirmed order still open")
	}
	if _, err := env.orders.GetConfirmed("buyer", order.OrderID); err != nil {
		t.Errorf("confirmed order not in history: %v", err)
	}
}

func TestCheckout_FreezesPurchasePrice(t *testing.T) {
	env := newTestEnv(false)
	env.seedProduct(t, "p1", "s1", 5, 1000)

	if _, err := env.cart.AddOrUpdateLine("buyer", "p1", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Seller raises the price between add and checkout: 20.00 → 22.40.
	env.offers.Upsert(&domain.Offer{SellerID: "s1", ProductID: "p1", Quantity: 5, SellerPriceCents: 2000})

	order, _, err := env.checkout.Checkout("buyer")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if order.Lines[0].PriceCents != 2240 {
		t.Errorf("frozen price = %d, want 2240", order.Lines[0].PriceCents)
	}
	// Totals recomputed from the frozen price: 44.80 + 15.00 = 59.80,
	// vat 12.56 (12.558 half-up), total 72.36.
	if order.SubtotalCents != 4480 {
		t.Errorf("subtotal = %d, want 4480", order.SubtotalCents)
	}
	if order.VATCents != 1256 {
		t.Errorf("vat = %d, want 1256", order.VATCents)
	}
	if order.TotalCents != 7236 {
		t.Errorf("total = %d, want 7236", order.TotalCents)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	env := newTestEnv(false)

	if _, _, err := env.checkout.Checkout("buyer"); !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("got %v, want ErrEmptyCart", err)
	}
}

func TestCheckout_EmptyAfterRemoval(t *testing.T) {
	env := newTestEnv(false)
	env.seedProduct(t, "p1", "s1", 5, 1000)

	if _, err := env.cart.AddOrUpdateLine("buyer", "p1", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.cart.AddOrUpdateLine("buyer", "p1", 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, err := env.checkout.Checkout("buyer"); !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("got %v, want ErrEmptyCart", err)
	}
}

func TestCheckout_ClampsLineOnPartialStock(t *testing.T) {
	env := newTestEnv(false)
	env.seedProduct(t, "p1", "s1", 5, 1000)

	if _, err := env.cart.AddOrUpdateLine("buyer", "p1", 5); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Another buyer took 3 units after our add.
	func() {
		unlock := env.offers.LockProducts([]string{"p1"})
		defer unlock()
		env.offers.Reduce("p1", 3)
	}()

	order, adjustments, err := env.checkout.Checkout("buyer")
	if !errors.Is(err, domain.ErrStockConflict) {
		t.Fatalf("got %v, want ErrStockConflict", err)
	}

	if order.IsConfirmed {
		t.Error("order confirmed despite conflict")
	}
	if len(adjustments) != 1 {
		t.Fatalf("got %d adjustments, want 1", len(adjustments))
	}
	adj := adjustments[0]
	if adj.ProductID != "p1" || adj.PreviousQuantity != 5 || adj.NewQuantity != 2 || adj.Removed {
		t.Errorf("unexpected adjustment: %+v", adj)
	}
	if order.Lines[0].Quantity != 2 {
		t.Errorf("line quantity = %d, want 2", order.Lines[0].Quantity)
	}

	// Clamping does not consume stock; the follow-up checkout reserves it.
	if qty := env.offers.Quantity("p1"); qty != 2 {
		t.Errorf("remaining stock = %d, want 2", qty)
	}
	// Totals recomputed over the clamped cart.
	if order.SubtotalCents != 2240 {
		t.Errorf("subtotal = %d, want 2240", order.SubtotalCents)
	}

	// Re-invoking checkout with the adjusted cart succeeds.
	confirmed, _, err := env.checkout.Checkout("buyer")
	if err != nil {
		t.Fatalf("unexpected error on retry: %v", err)
	}
	if !confirmed.IsConfirmed {
		t.Error("retry did not confirm")
	}
	if qty := env.offers.Quantity("p1"); qty != 0 {
		t.Errorf("remaining stock = %d, want 0", qty)
	}
}

func TestCheckout_DeletesLineOnZeroStock(t *testing.T) {
	env := newTestEnv(false)
	env.seedProduct(t, "p1", "s1", 2, 1000)
	env.seedProduct(t, "p2", "s2", 5, 500)

	if _, err := env.cart.AddOrUpdateLine("buyer", "p1", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.cart.AddOrUpdateLine("buyer", "p2", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// p1 sells out entirely.
	func() {
		unlock := env.offers.LockProducts([]string{"p1"})
		defer unlock()
		env.offers.Reduce("p1", 2)
	}()

	order, adjustments, err := env.checkout.Checkout("buyer")
	if !errors.Is(err, domain.ErrStockConflict) {
		t.Fatalf("got %v, want ErrStockConflict", err)
	}

	if len(adjustments) != 1 {
		t.Fatalf("got %d adjustments, want 1", len(adjustments))
	}
	if !adjustments[0].Removed || adjustments[0].ProductID != "p1" || adjustments[0].PreviousQuantity != 2 {
		t.Errorf("unexpected adjustment: %+v", adjustments[0])
	}

	// p1's line is gone, p2's survives; order stays open.
	if order.Line("p1") != nil {
		t.Error("sold-out line still present")
	}
	if order.Line("p2") == nil {
		t.Error("satisfiable line removed")
	}
	if order.IsConfirmed {
		t.Error("order confirmed despite conflict")
	}
	// Totals recomputed: only p2 remains (5.60).
	if order.SubtotalCents != 560 {
		t.Errorf("subtotal = %d, want 560", order.SubtotalCents)
	}

	// With the default configuration, p2's reservation was kept.
	if qty := env.offers.Quantity("p2"); qty != 4 {
		t.Errorf("p2 stock = %d, want 4 (reservation kept on conflict)", qty)
	}
}

func TestCheckout_ReleaseOnConflictRestoresReservations(t *testing.T) {
	env := newTestEnv(true)
	env.seedProduct(t, "p1", "s1", 2, 1000)
	env.seedProduct(t, "p2", "s2", 5, 500)

	if _, err := env.cart.AddOrUpdateLine("buyer", "p1", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.cart.AddOrUpdateLine("buyer", "p2", 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	func() {
		unlock := env.offers.LockProducts([]string{"p1"})
		defer unlock()
		env.offers.Reduce("p1", 2)
	}()

	if _, _, err := env.checkout.Checkout("buyer"); !errors.Is(err, domain.ErrStockConflict) {
		t.Fatalf("got %v, want ErrStockConflict", err)
	}

	// All-or-nothing: p2's reservation was rolled back.
	if qty := env.offers.Quantity("p2"); qty != 5 {
		t.Errorf("p2 stock = %d, want 5 (reservation released on conflict)", qty)
	}
}

func TestCheckout_LastUnitsRace(t *testing.T) {
	env := newTestEnv(false)
	env.seedProduct(t, "p1", "s1", 2, 1000)

	// Two buyers both reserve the last 2 units.
	if _, err := env.cart.AddOrUpdateLine("alice", "p1", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := env.cart.AddOrUpdateLine("bob", "p1", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	type result struct {
		order *domain.Order
		err   error
	}
	results := make(chan result, 2)
	var wg sync.WaitGroup
	for _, buyer := range []string{"alice", "bob"} {
		wg.Add(1)
		go func(buyer string) {
			defer wg.Done()
			o, _, err := env.checkout.Checkout(buyer)
			results <- result{o, err}
		}(buyer)
	}
	wg.Wait()
	close(results)

	var confirmed, conflicted int
	for r := range results {
		switch {
		case r.err == nil:
			confirmed++
		case errors.Is(r.err, domain.ErrStockConflict):
			conflicted++
			// The loser's line was truncated to 0 and deleted.
			if len(r.order.Lines) != 0 {
				t.Errorf("conflicted cart has %d lines, want 0", len(r.order.Lines))
			}
		default:
			t.Errorf("unexpected error: %v", r.err)
		}
	}

	if confirmed != 1 || conflicted != 1 {
		t.Errorf("confirmed=%d conflicted=%d, want exactly one of each", confirmed, conflicted)
	}
	if qty := env.offers.Quantity("p1"); qty != 0 {
		t.Errorf("remaining stock = %d, want 0", qty)
	}
}

func TestCheckout_ConcurrentCheckoutsNeverOversell(t *testing.T) {
	env := newTestEnv(false)
	env.seedProduct(t, "p1", "s1", 10, 1000)

	// 8 buyers each want 3 units of a 10-unit product.
	buyers := []string{"b1", "b2", "b3", "b4", "b5", "b6", "b7", "b8"}
	for _, b := range buyers {
		if _, err := env.cart.AddOrUpdateLine(b, "p1", 3); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	var wg sync.WaitGroup
	for _, b := range buyers {
		wg.Add(1)
		go func(buyer string) {
			defer wg.Done()
			_, _, _ = env.checkout.Checkout(buyer)
		}(b)
	}
	wg.Wait()

	// Sum of confirmed reservations plus remaining stock must equal the
	// initial 10 units: no unit sold twice, none lost.
	var reserved int64
	for _, b := range buyers {
		orders, _ := env.orders.ListConfirmed(b, 1, 10)
		for _, o := range orders {
			for _, l := range o.Lines {
				reserved += l.Quantity
			}
		}
	}
	remaining := env.offers.Quantity("p1")
	if reserved+remaining != 10 {
		t.Errorf("reserved %d + remaining %d != 10", reserved, remaining)
	}
	if reserved > 10 {
		t.Errorf("oversold: reserved %d of 10", reserved)
	}
}

func TestCheckout_UnpricedLineFailsOpen(t *testing.T) {
	env := newTestEnv(false)
	env.seedProduct(t, "p1", "s1", 5, 1000)
	if _, err := env.cart.AddOrUpdateLine("buyer", "p1", 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A line whose product has stock on offer but no catalog entry cannot be
	// priced at confirmation time. Inject one directly; the public cart path
	// cannot produce it.
	env.offers.Upsert(&domain.Offer{SellerID: "s1", ProductID: "ghost", Quantity: 5, SellerPriceCents: 1000})
	if _, err := env.orders.MutateOpen("buyer", func(o *domain.Order) (bool, error) {
		o.Lines = append(o.Lines, &domain.OrderLine{
			LineID: "l-ghost", SellerID: "s1", ProductID: "ghost", Quantity: 1, PriceCents: 1000,
		})
		return true, nil
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _, err := env.checkout.Checkout("buyer")
	if !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("got %v, want ErrProductNotFound", err)
	}

	// Reservations were rolled back and the cart is still open and intact.
	if qty := env.offers.Quantity("p1"); qty != 5 {
		t.Errorf("p1 stock = %d, want 5", qty)
	}
	if qty := env.offers.Quantity("ghost"); qty != 5 {
		t.Errorf("ghost stock = %d, want 5", qty)
	}
	cart := env.orders.GetOrCreateOpen("buyer")
	if cart.IsConfirmed {
		t.Error("expected cart to stay open")
	}
	if len(cart.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(cart.Lines))
	}
	if cart.Lines[0].PriceCents != 1120 {
		t.Errorf("p1 line price = %d, want add-time 1120", cart.Lines[0].PriceCents)
	}
}
