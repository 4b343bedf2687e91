package store

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/efreitasn/minimarket/internal/domain"
)

func newProduct(id, name, gtin string) *domain.Product {
	return &domain.Product{
		ProductID: id,
		Name:      name,
		GTIN:      gtin,
		CreatedAt: time.Now(),
	}
}

func TestProductStoreCreateAndGet(t *testing.T) {
	s := NewProductStore()

	p := newProduct("p1", "Desk Lamp", "")
	if err := s.Create(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.Get("p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != p {
		t.Error("Get returned a different product")
	}

	if _, err := s.Get("missing"); !errors.Is(err, domain.ErrProductNotFound) {
		t.Errorf("got %v, want ErrProductNotFound", err)
	}
	if s.Exists("missing") {
		t.Error("Exists(missing) = true, want false")
	}
}

func TestProductStoreGTINUniqueness(t *testing.T) {
	s := NewProductStore()

	if err := s.Create(newProduct("p1", "Desk Lamp", "4006381333931")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := s.Create(newProduct("p2", "Another Lamp", "4006381333931"))
	if !errors.Is(err, domain.ErrGTINAlreadyExists) {
		t.Errorf("got %v, want ErrGTINAlreadyExists", err)
	}

	// Products without a GTIN never collide.
	if err := s.Create(newProduct("p3", "Chair", "")); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := s.Create(newProduct("p4", "Table", "")); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestProductStoreListSortedByName(t *testing.T) {
	s := NewProductStore()
	for i, name := range []string{"Zebra Print", "Apple Slicer", "Mug", "Bookend"} {
		if err := s.Create(newProduct(fmt.Sprintf("p%d", i), name, "")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	products, total := s.List(1, 10)
	if total != 4 {
		t.Fatalf("total = %d, want 4", total)
	}
	wantOrder := []string{"Apple Slicer", "Bookend", "Mug", "Zebra Print"}
	for i, want := range wantOrder {
		if products[i].Name != want {
			t.Errorf("products[%d].Name = %q, want %q", i, products[i].Name, want)
		}
	}
}

func TestProductStoreListPagination(t *testing.T) {
	s := NewProductStore()
	for i := 0; i < 5; i++ {
		if err := s.Create(newProduct(fmt.Sprintf("p%d", i), fmt.Sprintf("Product %d", i), "")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	page1, total := s.List(1, 2)
	if total != 5 || len(page1) != 2 {
		t.Fatalf("page 1: got %d items, total %d; want 2 items, total 5", len(page1), total)
	}
	page3, _ := s.List(3, 2)
	if len(page3) != 1 {
		t.Errorf("page 3: got %d items, want 1", len(page3))
	}
	empty, total := s.List(4, 2)
	if len(empty) != 0 || total != 5 {
		t.Errorf("page 4: got %d items, total %d; want 0 items, total 5", len(empty), total)
	}
}
