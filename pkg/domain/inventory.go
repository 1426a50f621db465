package domain

// Stock movement directions.
const (
	MovementIn  = "IN"
	MovementOut = "OUT"
)

// ProductRef is the trimmed product embedded in movements and sale items.
type ProductRef struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// StockMovement records an inventory change for one product.
type StockMovement struct {
	ID           int64       `json:"id"`
	Product      *ProductRef `json:"product,omitempty"`
	Type         string      `json:"type"`
	Quantity     int         `json:"quantity"`
	MovementDate string      `json:"movementDate"`
	Reason       string      `json:"reason,omitempty"`
}

// StockMovementInput is the create/update payload for a movement.
type StockMovementInput struct {
	ProductID int64  `json:"productId"`
	Type      string `json:"type"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason,omitempty"`
}

// StockAdjustment is the payload for inventory recharge/decrease.
type StockAdjustment struct {
	ProductID int64  `json:"productId"`
	Quantity  int    `json:"quantity"`
	Reason    string `json:"reason,omitempty"`
}

// ValidMovementType returns true for IN and OUT.
func ValidMovementType(t string) bool {
	return t == MovementIn || t == MovementOut
}
