package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/manish-terminal/Elastomechwork/models"
	"github.com/manish-terminal/Elastomechwork/pkg/database"
	"github.com/manish-terminal/Elastomechwork/pkg/logger"
)

type OrderRepositoryInterface interface {
	GetAll() ([]*models.Order, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	ApplyProgress(id string, prevManufactured, prevRejected, newManufactured, newRejected int, adjustments []models.QuantityAdjustment) error
	UpdateStatus(id string, status models.OrderStatus) error
}

type OrderRepository struct {
	logger *logger.Logger
	db     *database.DB
	now    func() time.Time
}

func NewOrderRepository(logger *logger.Logger, db *database.DB) *OrderRepository {
	return &OrderRepository{
		logger: logger.WithComponent("order_repository"),
		db:     db,
		now:    time.Now,
	}
}

const orderSelect = `
        SELECT o.id, o.order_id, o.customer_name, o.item_name,
               o.weight_per_product, o.quantity, o.manufactured, o.rejected,
               o.delivery_date, o.remarks, o.status, o.created_at, o.updated_at,
               COALESCE(
                   json_agg(
                       json_build_object(
                           'kind', oi.kind,
                           'name', oi.name,
                           'ratio', oi.ratio,
                           'weight', oi.weight
                       ) ORDER BY oi.position
                   ) FILTER (WHERE oi.order_id IS NOT NULL), '[]'::json
               ) AS ingredients
        FROM orders o
        LEFT JOIN order_ingredients oi ON o.id = oi.order_id
`

const orderGroupBy = `
        GROUP BY o.id, o.order_id, o.customer_name, o.item_name,
                 o.weight_per_product, o.quantity, o.manufactured, o.rejected,
                 o.delivery_date, o.remarks, o.status, o.created_at, o.updated_at
`

// GetAll retrieves every order with its ingredient snapshots, newest first
func (r *OrderRepository) GetAll() ([]*models.Order, error) {
	r.logger.Debug("Retrieving all orders from database")

	rows, err := r.db.Query(orderSelect + orderGroupBy + ` ORDER BY o.created_at DESC`)
	if err != nil {
		r.logger.Error("Failed to query orders", "error", err)
		return nil, fmt.Errorf("failed to query orders: %v", err)
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order, err := r.scanOrder(rows)
		if err != nil {
			r.logger.Error("Failed to scan order", "error", err)
			return nil, err
		}
		orders = append(orders, order)
	}

	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating order rows", "error", err)
		return nil, fmt.Errorf("error iterating order rows: %v", err)
	}

	r.logger.Info("Retrieved all orders", "count", len(orders))
	return orders, nil
}

// GetByID retrieves a single order by its primary key
func (r *OrderRepository) GetByID(id string) (*models.Order, error) {
	r.logger.Debug("Retrieving order from database", "id", id)

	row := r.db.QueryRow(orderSelect+` WHERE o.id = $1`+orderGroupBy, id)

	order, err := r.scanOrder(row)
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("Order not found", "id", id)
			return nil, fmt.Errorf("order %s: %w", id, models.ErrNotFound)
		}
		r.logger.Error("Failed to retrieve order", "error", err, "id", id)
		return nil, err
	}

	return order, nil
}

// Create persists a new order together with its ingredient snapshot.
// The business order id is assigned here from the per-day counter, in
// the same transaction as the insert; the unique constraint on order_id
// plus a bounded retry covers any residual collision.
func (r *OrderRepository) Create(order *models.Order) error {
	r.logger.Debug("Adding new order", "customer", order.CustomerName)

	if err := r.validateOrder(order); err != nil {
		r.logger.Error("Failed to validate order", "error", err)
		return err
	}

	const maxAttempts = 3
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := r.tryCreate(order)
		if err == nil {
			r.logger.Info("Added new order",
				"id", order.ID,
				"order_id", order.OrderID,
				"customer", order.CustomerName)
			return nil
		}
		if !isUniqueViolation(err) {
			return err
		}
		lastErr = err
		r.logger.Warn("Order id collision, retrying", "attempt", attempt, "error", err)
	}

	r.logger.Error("Failed to create order after retries", "error", lastErr)
	return fmt.Errorf("order id generation kept colliding: %w", models.ErrConflict)
}

func (r *OrderRepository) tryCreate(order *models.Order) error {
	return r.db.ExecuteInTransaction(func(tx *sql.Tx) error {
		now := r.now()
		seq, err := nextOrderSequenceTx(tx, now)
		if err != nil {
			return err
		}

		order.ID = uuid.NewString()
		order.OrderID = FormatOrderID(now, seq)
		order.CreatedAt = now
		order.UpdatedAt = now
		if order.Status == "" {
			order.Status = models.StatusPending
		}

		_, err = tx.Exec(`
			INSERT INTO orders (id, order_id, customer_name, item_name,
			                    weight_per_product, quantity, manufactured, rejected,
			                    delivery_date, remarks, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`, order.ID, order.OrderID, order.CustomerName, order.ItemName,
			order.WeightPerProduct, order.Quantity, order.Manufactured, order.Rejected,
			order.DeliveryDate, order.Remarks, order.Status, order.CreatedAt, order.UpdatedAt)
		if err != nil {
			return err
		}

		position := 0
		for _, ingredient := range order.RubberIngredients {
			if err := insertOrderIngredient(tx, order.ID, position, models.KindRubber, ingredient); err != nil {
				return err
			}
			position++
		}
		for _, ingredient := range order.ChemicalIngredients {
			if err := insertOrderIngredient(tx, order.ID, position, models.KindChemical, ingredient); err != nil {
				return err
			}
			position++
		}

		return nil
	})
}

func insertOrderIngredient(tx *sql.Tx, orderID string, position int, kind models.IngredientKind, ingredient models.OrderIngredient) error {
	_, err := tx.Exec(`
		INSERT INTO order_ingredients (order_id, position, kind, name, ratio, weight)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, orderID, position, kind, ingredient.Name, ingredient.Ratio, ingredient.Weight)
	if err != nil {
		return fmt.Errorf("failed to insert order ingredient %s: %v", ingredient.Name, err)
	}
	return nil
}

// ApplyProgress commits a progress update and its ledger deductions as
// one transaction. The order row update is a compare-and-swap on the
// previous counters: if another request reconciled the order in the
// meantime the swap hits zero rows, everything rolls back, and the
// caller re-reads and retries. Stock and progress never diverge.
func (r *OrderRepository) ApplyProgress(id string, prevManufactured, prevRejected, newManufactured, newRejected int, adjustments []models.QuantityAdjustment) error {
	r.logger.Debug("Applying order progress",
		"id", id,
		"manufactured", newManufactured,
		"rejected", newRejected)

	err := r.db.ExecuteInTransaction(func(tx *sql.Tx) error {
		if err := adjustQuantitiesTx(tx, adjustments); err != nil {
			return err
		}

		result, err := tx.Exec(`
			UPDATE orders
			SET manufactured = $2, rejected = $3, updated_at = $4
			WHERE id = $1 AND manufactured = $5 AND rejected = $6
		`, id, newManufactured, newRejected, r.now(), prevManufactured, prevRejected)
		if err != nil {
			return fmt.Errorf("failed to update order progress: %v", err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %v", err)
		}
		if rowsAffected == 0 {
			var exists bool
			if err := tx.QueryRow(`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
				return fmt.Errorf("failed to check order existence: %v", err)
			}
			if !exists {
				return fmt.Errorf("order %s: %w", id, models.ErrNotFound)
			}
			return fmt.Errorf("order %s was reconciled concurrently: %w", id, models.ErrConflict)
		}

		return nil
	})
	if err != nil {
		r.logger.Warn("Order progress update rolled back", "id", id, "error", err)
		return err
	}

	r.logger.Info("Applied order progress",
		"id", id,
		"manufactured", newManufactured,
		"rejected", newRejected,
		"ledger_adjustments", len(adjustments))
	return nil
}

// UpdateStatus sets the order status field
func (r *OrderRepository) UpdateStatus(id string, status models.OrderStatus) error {
	r.logger.Debug("Updating order status", "id", id, "status", status)

	result, err := r.db.Exec(`
		UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1
	`, id, status, r.now())
	if err != nil {
		r.logger.Error("Failed to update order status", "error", err, "id", id)
		return fmt.Errorf("failed to update order status: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Failed to get rows affected", "error", err, "id", id)
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rowsAffected == 0 {
		r.logger.Warn("Attempted to update status of non-existent order", "id", id)
		return fmt.Errorf("order %s: %w", id, models.ErrNotFound)
	}

	r.logger.Info("Updated order status", "id", id, "status", status)
	return nil
}

// scanner lets scanOrder work for both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func (r *OrderRepository) scanOrder(row scanner) (*models.Order, error) {
	order := &models.Order{}
	ingredientsJSON := ""

	err := row.Scan(
		&order.ID,
		&order.OrderID,
		&order.CustomerName,
		&order.ItemName,
		&order.WeightPerProduct,
		&order.Quantity,
		&order.Manufactured,
		&order.Rejected,
		&order.DeliveryDate,
		&order.Remarks,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
		&ingredientsJSON,
	)
	if err != nil {
		return nil, err
	}

	type snapshotRow struct {
		Kind   models.IngredientKind `json:"kind"`
		Name   string                `json:"name"`
		Ratio  float64               `json:"ratio"`
		Weight float64               `json:"weight"`
	}

	var snapshot []snapshotRow
	if err := json.Unmarshal([]byte(ingredientsJSON), &snapshot); err != nil {
		return nil, fmt.Errorf("failed to parse order ingredients: %v", err)
	}

	order.RubberIngredients = []models.OrderIngredient{}
	order.ChemicalIngredients = []models.OrderIngredient{}
	for _, entry := range snapshot {
		ing := models.OrderIngredient{Name: entry.Name, Ratio: entry.Ratio, Weight: entry.Weight}
		if entry.Kind == models.KindChemical {
			order.ChemicalIngredients = append(order.ChemicalIngredients, ing)
		} else {
			order.RubberIngredients = append(order.RubberIngredients, ing)
		}
	}

	return order, nil
}

func (r *OrderRepository) validateOrder(order *models.Order) error {
	if order == nil {
		return fmt.Errorf("order cannot be nil: %w", models.ErrValidation)
	}
	if order.CustomerName == "" {
		return fmt.Errorf("customer name cannot be empty: %w", models.ErrValidation)
	}
	if order.ItemName == "" {
		return fmt.Errorf("item name cannot be empty: %w", models.ErrValidation)
	}
	if order.WeightPerProduct <= 0 {
		return fmt.Errorf("weight per product must be positive: %w", models.ErrValidation)
	}
	if order.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive: %w", models.ErrValidation)
	}
	if len(order.RubberIngredients)+len(order.ChemicalIngredients) == 0 {
		return fmt.Errorf("order must have at least one ingredient: %w", models.ErrValidation)
	}
	if order.DeliveryDate == "" {
		return fmt.Errorf("delivery date cannot be empty: %w", models.ErrValidation)
	}

	return nil
}
