package models

import "time"

// OrderStatus values follow the production floor workflow. No transition
// graph is enforced: the floor sets any status at any time.
type OrderStatus string

const (
	StatusPending      OrderStatus = "pending"
	StatusManufactured OrderStatus = "manufactured"
	StatusDispatched   OrderStatus = "dispatched"
	StatusRejected     OrderStatus = "rejected"
	StatusUrgent       OrderStatus = "urgent"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusManufactured, StatusDispatched, StatusRejected, StatusUrgent:
		return true
	}
	return false
}

// Order is a customer production order. The ingredient lists are a
// snapshot copied by value at creation time: editing the source formula
// afterwards never changes an existing order. Manufactured and Rejected
// track production progress; the reconciliation engine converts changes
// in those counts into ledger deductions.
type Order struct {
	ID                  string            `json:"id" db:"id"`
	OrderID             string            `json:"order_id" db:"order_id"`
	CustomerName        string            `json:"customer_name" db:"customer_name"`
	ItemName            string            `json:"item_name" db:"item_name"`
	WeightPerProduct    float64           `json:"weight_per_product" db:"weight_per_product"`
	Quantity            int               `json:"quantity" db:"quantity"`
	Manufactured        int               `json:"manufactured" db:"manufactured"`
	Rejected            int               `json:"rejected" db:"rejected"`
	RubberIngredients   []OrderIngredient `json:"rubber_ingredients"`
	ChemicalIngredients []OrderIngredient `json:"chemical_ingredients"`
	DeliveryDate        string            `json:"delivery_date" db:"delivery_date"`
	Remarks             string            `json:"remarks" db:"remarks"`
	Status              OrderStatus       `json:"status" db:"status"`
	CreatedAt           time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at" db:"updated_at"`
}

// OrderIngredient is one allocated ingredient on an order: the ratio it
// was derived from and the absolute weight in kg for the whole order.
type OrderIngredient struct {
	Name   string  `json:"name" db:"name"`
	Ratio  float64 `json:"ratio" db:"ratio"`
	Weight float64 `json:"weight" db:"weight"`
}

// TotalProduced is the unit count that has consumed material: both good
// and rejected units use a full charge of compound.
func (o *Order) TotalProduced() int {
	return o.Manufactured + o.Rejected
}

// AllIngredients returns the rubber and chemical snapshots as one list,
// rubber first, preserving stored order.
func (o *Order) AllIngredients() []OrderIngredient {
	all := make([]OrderIngredient, 0, len(o.RubberIngredients)+len(o.ChemicalIngredients))
	all = append(all, o.RubberIngredients...)
	all = append(all, o.ChemicalIngredients...)
	return all
}

// OrderCostLine is one ingredient's material cost on the estimate.
type OrderCostLine struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Rate   float64 `json:"rate"`
	Cost   string  `json:"cost"` // decimal string, weight * rate
}

type OrderCostEstimate struct {
	OrderID   string          `json:"order_id"`
	Lines     []OrderCostLine `json:"lines"`
	TotalCost string          `json:"total_cost"`
}
