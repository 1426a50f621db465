package domain

// TopSoldProduct is a row of the top-sold report.
type TopSoldProduct struct {
	ProductID int64  `json:"productId"`
	Title     string `json:"title"`
	TotalSold int    `json:"totalSold"`
}

// SalesReportRow is a row of the filtered sales report.
type SalesReportRow struct {
	SaleID       int64   `json:"saleId"`
	SaleDate     string  `json:"saleDate"`
	Username     string  `json:"username"`
	ProductID    int64   `json:"productId"`
	ProductTitle string  `json:"productTitle"`
	Quantity     int     `json:"quantity"`
	TotalPrice   float64 `json:"totalPrice"`
}

// LowStockProduct is a row of the low-stock report.
type LowStockProduct struct {
	ProductID int64  `json:"productId"`
	Title     string `json:"title"`
	Stock     int    `json:"stock"`
}
