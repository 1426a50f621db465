package client

import (
	"context"
	"fmt"

	"github.com/naveenspark/shelfdesk/pkg/domain"
)

// ListSales returns registered sales.
func (c *Client) ListSales(ctx context.Context) ([]domain.Sale, error) {
	var sales []domain.Sale
	if err := c.get(ctx, "/api/sales", &sales); err != nil {
		return nil, fmt.Errorf("client.ListSales: %w", err)
	}
	return sales, nil
}

// GetSale fetches a single sale.
func (c *Client) GetSale(ctx context.Context, id int64) (*domain.Sale, error) {
	var s domain.Sale
	if err := c.get(ctx, idPath("/api/sales", id), &s); err != nil {
		return nil, fmt.Errorf("client.GetSale: %w", err)
	}
	return &s, nil
}

// ListSalesByUser returns the sales registered by one cashier.
func (c *Client) ListSalesByUser(ctx context.Context, userID int64) ([]domain.Sale, error) {
	var sales []domain.Sale
	if err := c.get(ctx, idPath("/api/sales/user", userID), &sales); err != nil {
		return nil, fmt.Errorf("client.ListSalesByUser: %w", err)
	}
	return sales, nil
}

// CreateSale registers a sale.
func (c *Client) CreateSale(ctx context.Context, req domain.SaleRequest) (*domain.Sale, error) {
	if len(req.Items) == 0 {
		return nil, validationError("a sale needs at least one item")
	}
	var s domain.Sale
	if err := c.post(ctx, "/api/sales", req, &s); err != nil {
		return nil, fmt.Errorf("client.CreateSale: %w", err)
	}
	return &s, nil
}
