package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/naveenspark/shelfdesk/pkg/domain"
)

// reportTimeLayout matches the backend's LocalDateTime parameters.
const reportTimeLayout = "2006-01-02T15:04:05"

// ReportRange bounds a report. Zero times are omitted.
type ReportRange struct {
	Start time.Time
	End   time.Time
}

func (r ReportRange) apply(params url.Values) {
	if !r.Start.IsZero() {
		params.Set("startDate", r.Start.Format(reportTimeLayout))
	}
	if !r.End.IsZero() {
		params.Set("endDate", r.End.Format(reportTimeLayout))
	}
}

// TopSoldProducts returns the limit best-selling products in the range.
func (c *Client) TopSoldProducts(ctx context.Context, limit int, r ReportRange) ([]domain.TopSoldProduct, error) {
	if limit <= 0 {
		return nil, validationError("limit must be positive")
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	r.apply(params)

	var rows []domain.TopSoldProduct
	if err := c.get(ctx, withQuery("/api/reports/products/top-sold", params), &rows); err != nil {
		return nil, fmt.Errorf("client.TopSoldProducts: %w", err)
	}
	return rows, nil
}

// SalesReportFilter narrows the sales report.
type SalesReportFilter struct {
	Limit     int
	Range     ReportRange
	ProductID int64
	UserID    int64
}

// SalesReport returns per-item sale rows.
func (c *Client) SalesReport(ctx context.Context, f SalesReportFilter) ([]domain.SalesReportRow, error) {
	if f.Limit <= 0 {
		return nil, validationError("limit must be positive")
	}
	params := url.Values{}
	params.Set("limit", strconv.Itoa(f.Limit))
	f.Range.apply(params)
	if f.ProductID > 0 {
		params.Set("productId", strconv.FormatInt(f.ProductID, 10))
	}
	if f.UserID > 0 {
		params.Set("userId", strconv.FormatInt(f.UserID, 10))
	}

	var rows []domain.SalesReportRow
	if err := c.get(ctx, withQuery("/api/reports/products/sales", params), &rows); err != nil {
		return nil, fmt.Errorf("client.SalesReport: %w", err)
	}
	return rows, nil
}

// LowStockProducts returns products at or below threshold. A threshold of 0
// lets the backend apply its default of 5.
func (c *Client) LowStockProducts(ctx context.Context, threshold int) ([]domain.LowStockProduct, error) {
	params := url.Values{}
	if threshold > 0 {
		params.Set("threshold", strconv.Itoa(threshold))
	}
	var rows []domain.LowStockProduct
	if err := c.get(ctx, withQuery("/api/reports/products/low-stock", params), &rows); err != nil {
		return nil, fmt.Errorf("client.LowStockProducts: %w", err)
	}
	return rows, nil
}
