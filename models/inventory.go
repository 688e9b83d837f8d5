package models

// InventoryItem is one raw material in the ledger. Name is the unique
// business key; order ingredient snapshots reference items by name.
// Quantity is current stock in kilograms and never goes negative: any
// adjustment that would drive it below zero is rejected in full.
type InventoryItem struct {
	ID       string         `json:"item_id" db:"id"`
	Name     string         `json:"name" db:"name"`
	Category IngredientKind `json:"category" db:"category"`
	Rate     float64        `json:"rate" db:"rate"`         // currency per kg
	Quantity float64        `json:"quantity" db:"quantity"` // kg in stock
}

// QuantityAdjustment is one entry of a ledger batch. Delta is negative
// for consumption, positive for restock or corrections.
type QuantityAdjustment struct {
	Name  string  `json:"name"`
	Delta float64 `json:"delta"`
}

// StockValueLine is one row of the stock valuation report.
type StockValueLine struct {
	Name     string         `json:"name"`
	Category IngredientKind `json:"category"`
	Rate     float64        `json:"rate"`
	Quantity float64        `json:"quantity"`
	Value    string         `json:"value"` // decimal string, rate * quantity
}

type StockValueReport struct {
	Items      []StockValueLine `json:"items"`
	TotalValue string           `json:"total_value"`
}
