package domain

import (
	"errors"
	"testing"
)

func TestCartAddMergesLines(t *testing.T) {
	var c Cart
	book := Product{ID: 42, Title: "Java Concurrency in Practice", Price: 59.9, Stock: 10}
	if err := c.Add(book, 1); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if err := c.Add(book, 2); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if len(c.Items) != 1 {
		t.Fatalf("len(Items) = %d, want 1", len(c.Items))
	}
	if c.Items[0].Quantity != 3 {
		t.Errorf("Quantity = %d, want 3", c.Items[0].Quantity)
	}
	if got := c.Total(); got != 179.7 {
		t.Errorf("Total() = %v, want 179.7", got)
	}
}

func TestCartAddRejectsNonPositive(t *testing.T) {
	var c Cart
	if err := c.Add(Product{ID: 1}, 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("Add(qty=0) error = %v, want ErrInvalidQuantity", err)
	}
}

func TestCartAddCapsAtStock(t *testing.T) {
	var c Cart
	book := Product{ID: 7, Title: "Dune", Price: 20, Stock: 2}
	for i := 0; i < 5; i++ {
		err := c.Add(book, 1)
		if i < 2 && err != nil {
			t.Fatalf("Add() #%d error: %v", i+1, err)
		}
		if i >= 2 && !errors.Is(err, ErrStockExceeded) {
			t.Fatalf("Add() #%d error = %v, want ErrStockExceeded", i+1, err)
		}
	}
	if got := c.Items[0].Quantity; got != 2 {
		t.Errorf("Quantity = %d, want 2 (the stock)", got)
	}

	if err := c.Add(Product{ID: 8, Stock: 0}, 1); !errors.Is(err, ErrStockExceeded) {
		t.Errorf("Add(out of stock) error = %v, want ErrStockExceeded", err)
	}
	if len(c.Items) != 1 {
		t.Errorf("len(Items) = %d, want 1", len(c.Items))
	}
}

func TestCartSetQuantity(t *testing.T) {
	var c Cart
	if err := c.Add(Product{ID: 1, Price: 10, Stock: 3}, 1); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	if err := c.SetQuantity(1, 3); err != nil {
		t.Fatalf("SetQuantity(3) error: %v", err)
	}
	if err := c.SetQuantity(1, 4); !errors.Is(err, ErrStockExceeded) {
		t.Errorf("SetQuantity(4) error = %v, want ErrStockExceeded", err)
	}
	if got := c.Items[0].Quantity; got != 3 {
		t.Errorf("Quantity = %d, want clamped to 3", got)
	}
	if err := c.SetQuantity(99, 1); err != nil {
		t.Errorf("SetQuantity(missing) error = %v, want nil", err)
	}
	if err := c.SetQuantity(1, 0); err != nil || len(c.Items) != 0 {
		t.Errorf("SetQuantity(0) = %v, items %d; want line removed", err, len(c.Items))
	}
}

func TestCartCheckout(t *testing.T) {
	tests := []struct {
		name    string
		items   []CartItem
		paid    float64
		wantErr error
	}{
		{"empty", nil, 10, ErrEmptyCart},
		{"short payment", []CartItem{{ProductID: 1, UnitPrice: 29.9, Quantity: 2}}, 59, ErrInsufficientPayment},
		{"exact payment", []CartItem{{ProductID: 1, UnitPrice: 29.9, Quantity: 2}}, 59.8, nil},
		{"overpayment", []CartItem{{ProductID: 1, UnitPrice: 29.9, Quantity: 2}}, 60, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Cart{Items: tt.items}
			req, err := c.Checkout(tt.paid)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Checkout(%v) error = %v, want %v", tt.paid, err, tt.wantErr)
			}
			if err == nil && len(req.Items) != len(tt.items) {
				t.Errorf("len(req.Items) = %d, want %d", len(req.Items), len(tt.items))
			}
		})
	}
}

func TestCartChange(t *testing.T) {
	c := Cart{Items: []CartItem{{ProductID: 1, UnitPrice: 129.8, Quantity: 1}}}
	if got := c.Change(130); got != 0.2 {
		t.Errorf("Change(130) = %v, want 0.2", got)
	}
}

func TestCartRemove(t *testing.T) {
	c := Cart{Items: []CartItem{{ProductID: 1}, {ProductID: 2}}}
	c.Remove(1)
	c.Remove(99)
	if len(c.Items) != 1 || c.Items[0].ProductID != 2 {
		t.Errorf("Items = %+v, want only product 2", c.Items)
	}
}
