package client

import (
	"context"
	"fmt"

	"github.com/naveenspark/shelfdesk/pkg/domain"
)

// ListStockMovements returns every stock movement.
func (c *Client) ListStockMovements(ctx context.Context) ([]domain.StockMovement, error) {
	var movements []domain.StockMovement
	if err := c.get(ctx, "/api/stock-movements", &movements); err != nil {
		return nil, fmt.Errorf("client.ListStockMovements: %w", err)
	}
	return movements, nil
}

// GetStockMovement fetches a single movement.
func (c *Client) GetStockMovement(ctx context.Context, id int64) (*domain.StockMovement, error) {
	var m domain.StockMovement
	if err := c.get(ctx, idPath("/api/stock-movements", id), &m); err != nil {
		return nil, fmt.Errorf("client.GetStockMovement: %w", err)
	}
	return &m, nil
}

// ListProductMovements returns the movements of one product.
func (c *Client) ListProductMovements(ctx context.Context, productID int64) ([]domain.StockMovement, error) {
	var movements []domain.StockMovement
	if err := c.get(ctx, idPath("/api/stock-movements/product", productID), &movements); err != nil {
		return nil, fmt.Errorf("client.ListProductMovements: %w", err)
	}
	return movements, nil
}

// CreateStockMovement records a movement.
func (c *Client) CreateStockMovement(ctx context.Context, in domain.StockMovementInput) (*domain.StockMovement, error) {
	if !domain.ValidMovementType(in.Type) {
		return nil, validationError("movement type must be IN or OUT")
	}
	var m domain.StockMovement
	if err := c.post(ctx, "/api/stock-movements", in, &m); err != nil {
		return nil, fmt.Errorf("client.CreateStockMovement: %w", err)
	}
	return &m, nil
}

// UpdateStockMovement replaces a movement.
func (c *Client) UpdateStockMovement(ctx context.Context, id int64, in domain.StockMovementInput) (*domain.StockMovement, error) {
	var m domain.StockMovement
	if err := c.put(ctx, idPath("/api/stock-movements", id), in, &m); err != nil {
		return nil, fmt.Errorf("client.UpdateStockMovement: %w", err)
	}
	return &m, nil
}

// RechargeStock adds units to a product's inventory.
func (c *Client) RechargeStock(ctx context.Context, adj domain.StockAdjustment) error {
	if err := c.post(ctx, "/api/inventory/recharge", adj, nil); err != nil {
		return fmt.Errorf("client.RechargeStock: %w", err)
	}
	return nil
}

// DecreaseStock removes units from a product's inventory.
func (c *Client) DecreaseStock(ctx context.Context, adj domain.StockAdjustment) error {
	if err := c.post(ctx, "/api/inventory/decrease", adj, nil); err != nil {
		return fmt.Errorf("client.DecreaseStock: %w", err)
	}
	return nil
}

// ProductStock returns the current stock count of a product.
func (c *Client) ProductStock(ctx context.Context, productID int64) (int, error) {
	var stock int
	if err := c.get(ctx, idPath("/api/inventory/product", productID)+"/stock", &stock); err != nil {
		return 0, fmt.Errorf("client.ProductStock: %w", err)
	}
	return stock, nil
}
