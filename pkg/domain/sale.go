package domain

import (
	"errors"
	"math"
)

var (
	// ErrEmptyCart is returned when checking out a cart with no items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInsufficientPayment is returned when the amount paid is below the total.
	ErrInsufficientPayment = errors.New("amount paid is less than the total")
	// ErrInvalidQuantity is returned for non-positive quantities.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrStockExceeded is returned when a cart line would hold more units than are in stock.
	ErrStockExceeded = errors.New("maximum stock reached")
)

// SaleUser is the cashier who registered a sale.
type SaleUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
}

// SaleItem is one line of a registered sale.
type SaleItem struct {
	ID         int64       `json:"id"`
	Product    *ProductRef `json:"product,omitempty"`
	Quantity   int         `json:"quantity"`
	UnitPrice  float64     `json:"unitPrice"`
	TotalPrice float64     `json:"totalPrice"`
}

// Sale is a registered sale.
type Sale struct {
	ID          int64      `json:"id"`
	SaleDate    string     `json:"saleDate"`
	TotalAmount float64    `json:"totalAmount"`
	AmountPaid  float64    `json:"amountPaid"`
	Change      float64    `json:"change"`
	User        *SaleUser  `json:"user,omitempty"`
	Items       []SaleItem `json:"items"`
}

// SaleItemRequest is one line of a sale being registered.
type SaleItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// SaleRequest is the payload for POST /api/sales.
type SaleRequest struct {
	AmountPaid float64           `json:"amountPaid"`
	Items      []SaleItemRequest `json:"items"`
}

// CartItem is a product line held at the cashier before checkout.
type CartItem struct {
	ProductID int64
	Title     string
	UnitPrice float64
	Quantity  int
	Stock     int
}

// Subtotal is UnitPrice * Quantity.
func (i CartItem) Subtotal() float64 {
	return roundCents(i.UnitPrice * float64(i.Quantity))
}

// Cart accumulates products for a sale. The zero value is an empty cart.
type Cart struct {
	Items []CartItem
}

// Add puts qty units of p in the cart, merging with an existing line.
// A line never holds more than p.Stock units; such an Add changes nothing
// and returns ErrStockExceeded.
func (c *Cart) Add(p Product, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	for i := range c.Items {
		if c.Items[i].ProductID == p.ID {
			it := &c.Items[i]
			it.Stock = p.Stock
			if it.Quantity+qty > p.Stock {
				return ErrStockExceeded
			}
			it.Quantity += qty
			return nil
		}
	}
	if qty > p.Stock {
		return ErrStockExceeded
	}
	c.Items = append(c.Items, CartItem{
		ProductID: p.ID,
		Title:     p.Title,
		UnitPrice: p.Price,
		Quantity:  qty,
		Stock:     p.Stock,
	})
	return nil
}

// SetQuantity changes the quantity of productID's line. Zero or less removes
// the line; more than the line's stock is clamped to it and returns
// ErrStockExceeded. Missing lines are ignored.
func (c *Cart) SetQuantity(productID int64, qty int) error {
	for i := range c.Items {
		it := &c.Items[i]
		if it.ProductID != productID {
			continue
		}
		switch {
		case qty <= 0:
			c.Remove(productID)
		case qty > it.Stock:
			it.Quantity = it.Stock
			return ErrStockExceeded
		default:
			it.Quantity = qty
		}
		return nil
	}
	return nil
}

// Remove drops the line for productID. Missing lines are ignored.
func (c *Cart) Remove(productID int64) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}

// Total is the sum of all line subtotals.
func (c Cart) Total() float64 {
	var total float64
	for _, it := range c.Items {
		total += it.Subtotal()
	}
	return roundCents(total)
}

// Change returns amountPaid minus the total.
func (c Cart) Change(amountPaid float64) float64 {
	return roundCents(amountPaid - c.Total())
}

// Checkout validates the cart against amountPaid and builds the sale payload.
func (c Cart) Checkout(amountPaid float64) (SaleRequest, error) {
	if len(c.Items) == 0 {
		return SaleRequest{}, ErrEmptyCart
	}
	if amountPaid < c.Total() {
		return SaleRequest{}, ErrInsufficientPayment
	}
	req := SaleRequest{AmountPaid: amountPaid, Items: make([]SaleItemRequest, 0, len(c.Items))}
	for _, it := range c.Items {
		req.Items = append(req.Items, SaleItemRequest{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return req, nil
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
