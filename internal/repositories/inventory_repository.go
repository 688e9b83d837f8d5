package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/manish-terminal/Elastomechwork/models"
	"github.com/manish-terminal/Elastomechwork/pkg/database"
	"github.com/manish-terminal/Elastomechwork/pkg/logger"
)

type InventoryRepositoryInterface interface {
	GetAll() ([]*models.InventoryItem, error)
	GetByID(id string) (*models.InventoryItem, error)
	GetByName(name string) (*models.InventoryItem, error)
	Add(item *models.InventoryItem) error
	Update(id string, item *models.InventoryItem) error
	Delete(id string) error
	AdjustQuantity(name string, delta float64) (*models.InventoryItem, error)
	AdjustQuantities(adjustments []models.QuantityAdjustment) error
}

type InventoryRepository struct {
	logger *logger.Logger
	db     *database.DB
}

func NewInventoryRepository(logger *logger.Logger, db *database.DB) *InventoryRepository {
	return &InventoryRepository{
		logger: logger.WithComponent("inventory_repository"),
		db:     db,
	}
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (class 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

func (r *InventoryRepository) GetAll() ([]*models.InventoryItem, error) {
	r.logger.Debug("Retrieving all inventory items from database")

	query := `
		SELECT id, name, category, rate, quantity
		FROM inventory_items
		ORDER BY category, name
	`

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("Failed to query inventory items", "error", err)
		return nil, fmt.Errorf("failed to query inventory items: %v", err)
	}
	defer rows.Close()

	var items []*models.InventoryItem
	for rows.Next() {
		item := &models.InventoryItem{}
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Category,
			&item.Rate,
			&item.Quantity,
		)
		if err != nil {
			r.logger.Error("Failed to scan inventory item", "error", err)
			return nil, fmt.Errorf("failed to scan inventory item: %v", err)
		}
		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		r.logger.Error("Error iterating inventory rows", "error", err)
		return nil, fmt.Errorf("error iterating inventory rows: %v", err)
	}

	r.logger.Info("Retrieved all inventory items", "count", len(items))
	return items, nil
}

// GetByID retrieves a single inventory item by ID
func (r *InventoryRepository) GetByID(id string) (*models.InventoryItem, error) {
	return r.getOne(`SELECT id, name, category, rate, quantity FROM inventory_items WHERE id = $1`, id)
}

// GetByName retrieves a single inventory item by its unique name. Order
// ingredient snapshots reference inventory by name, so the ledger is
// addressed by name everywhere deduction happens.
func (r *InventoryRepository) GetByName(name string) (*models.InventoryItem, error) {
	return r.getOne(`SELECT id, name, category, rate, quantity FROM inventory_items WHERE name = $1`, name)
}

func (r *InventoryRepository) getOne(query, key string) (*models.InventoryItem, error) {
	r.logger.Debug("Retrieving inventory item from database", "key", key)

	item := &models.InventoryItem{}
	err := r.db.QueryRow(query, key).Scan(
		&item.ID,
		&item.Name,
		&item.Category,
		&item.Rate,
		&item.Quantity,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("Inventory item not found", "key", key)
			return nil, fmt.Errorf("inventory item %s: %w", key, models.ErrNotFound)
		}
		r.logger.Error("Failed to retrieve inventory item", "error", err, "key", key)
		return nil, fmt.Errorf("failed to retrieve inventory item: %v", err)
	}

	return item, nil
}

// Add adds a new inventory item
func (r *InventoryRepository) Add(item *models.InventoryItem) error {
	r.logger.Debug("Adding new inventory item to database", "item_name", item.Name)

	if err := r.validateInventoryItem(item); err != nil {
		r.logger.Error("Failed to validate inventory item", "error", err, "item_name", item.Name)
		return err
	}

	query := `
		INSERT INTO inventory_items (name, category, rate, quantity)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	var generatedID string
	err := r.db.QueryRow(query, item.Name, item.Category, item.Rate, item.Quantity).Scan(&generatedID)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Warn("Attempted to add duplicate inventory item", "item_name", item.Name)
			return fmt.Errorf("inventory item with name %s already exists: %w", item.Name, models.ErrConflict)
		}
		r.logger.Error("Failed to add inventory item", "error", err, "item_name", item.Name)
		return fmt.Errorf("failed to add inventory item: %v", err)
	}

	item.ID = generatedID

	r.logger.Info("Added new inventory item", "item_id", item.ID, "name", item.Name)
	return nil
}

func (r *InventoryRepository) Update(id string, item *models.InventoryItem) error {
	r.logger.Debug("Updating inventory item in database", "item_id", id)

	if err := r.validateInventoryItem(item); err != nil {
		r.logger.Error("Failed to validate inventory item", "error", err, "item_id", id)
		return err
	}

	item.ID = id

	query := `
		UPDATE inventory_items
		SET name = $1, category = $2, rate = $3, quantity = $4
		WHERE id = $5
	`

	result, err := r.db.Exec(query, item.Name, item.Category, item.Rate, item.Quantity, id)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("inventory item with name %s already exists: %w", item.Name, models.ErrConflict)
		}
		r.logger.Error("Failed to update inventory item", "error", err, "item_id", id)
		return fmt.Errorf("failed to update inventory item: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Failed to get rows affected", "error", err, "item_id", id)
		return fmt.Errorf("failed to get rows affected: %v", err)
	}

	if rowsAffected == 0 {
		r.logger.Warn("Attempted to update non-existent inventory item", "item_id", id)
		return fmt.Errorf("inventory item with id %s: %w", id, models.ErrNotFound)
	}

	r.logger.Info("Updated inventory item", "item_id", id, "name", item.Name)
	return nil
}

// Delete removes an inventory item by ID
func (r *InventoryRepository) Delete(id string) error {
	r.logger.Debug("Deleting inventory item from database", "item_id", id)

	query := `DELETE FROM inventory_items WHERE id = $1`

	result, err := r.db.Exec(query, id)
	if err != nil {
		r.logger.Error("Failed to delete inventory item", "error", err, "item_id", id)
		return fmt.Errorf("failed to delete inventory item: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Failed to get rows affected", "error", err, "item_id", id)
		return fmt.Errorf("failed to get rows affected: %v", err)
	}

	if rowsAffected == 0 {
		r.logger.Warn("Attempted to delete non-existent inventory item", "item_id", id)
		return fmt.Errorf("inventory item with id %s: %w", id, models.ErrNotFound)
	}

	r.logger.Info("Deleted inventory item", "item_id", id)
	return nil
}

// AdjustQuantity atomically applies quantity += delta to the named item.
// The WHERE guard keeps the row untouched when the result would go
// negative, so concurrent adjustments can never interleave into a
// negative balance.
func (r *InventoryRepository) AdjustQuantity(name string, delta float64) (*models.InventoryItem, error) {
	r.logger.Debug("Adjusting inventory quantity", "name", name, "delta", delta)

	item := &models.InventoryItem{}
	err := r.db.QueryRow(`
		UPDATE inventory_items
		SET quantity = quantity + $2
		WHERE name = $1 AND quantity + $2 >= 0
		RETURNING id, name, category, rate, quantity
	`, name, delta).Scan(&item.ID, &item.Name, &item.Category, &item.Rate, &item.Quantity)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, r.classifyAdjustFailure(name, delta)
		}
		r.logger.Error("Failed to adjust inventory quantity", "error", err, "name", name)
		return nil, fmt.Errorf("failed to adjust inventory quantity: %v", err)
	}

	r.logger.Info("Adjusted inventory quantity",
		"name", name,
		"delta", delta,
		"remaining", item.Quantity)
	return item, nil
}

// AdjustQuantities applies a batch of adjustments all-or-nothing. Any
// single failure rolls back the whole batch.
func (r *InventoryRepository) AdjustQuantities(adjustments []models.QuantityAdjustment) error {
	r.logger.Debug("Adjusting inventory quantities in batch", "count", len(adjustments))

	err := r.db.ExecuteInTransaction(func(tx *sql.Tx) error {
		return adjustQuantitiesTx(tx, adjustments)
	})
	if err != nil {
		r.logger.Warn("Inventory batch adjustment failed, rolled back", "error", err)
		return err
	}

	r.logger.Info("Adjusted inventory quantities", "count", len(adjustments))
	return nil
}

// adjustQuantitiesTx runs guarded quantity updates inside the caller's
// transaction. Shared with the order repository so progress updates and
// their ledger deductions commit as one unit.
func adjustQuantitiesTx(tx *sql.Tx, adjustments []models.QuantityAdjustment) error {
	for _, adj := range adjustments {
		result, err := tx.Exec(`
			UPDATE inventory_items
			SET quantity = quantity + $2
			WHERE name = $1 AND quantity + $2 >= 0
		`, adj.Name, adj.Delta)
		if err != nil {
			return fmt.Errorf("failed to adjust inventory for %s: %v", adj.Name, err)
		}

		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected for %s: %v", adj.Name, err)
		}

		if rowsAffected == 0 {
			var exists bool
			if err := tx.QueryRow(`SELECT EXISTS (SELECT 1 FROM inventory_items WHERE name = $1)`, adj.Name).Scan(&exists); err != nil {
				return fmt.Errorf("failed to check inventory item %s: %v", adj.Name, err)
			}
			if !exists {
				return fmt.Errorf("inventory item %s: %w", adj.Name, models.ErrNotFound)
			}
			return fmt.Errorf("inventory item %s would go negative by %.3f kg: %w", adj.Name, -adj.Delta, models.ErrInsufficientStock)
		}
	}
	return nil
}

// classifyAdjustFailure distinguishes a missing item from a guard
// rejection after a zero-row adjustment.
func (r *InventoryRepository) classifyAdjustFailure(name string, delta float64) error {
	var exists bool
	if err := r.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM inventory_items WHERE name = $1)`, name).Scan(&exists); err != nil {
		r.logger.Error("Failed to check inventory item existence", "error", err, "name", name)
		return fmt.Errorf("failed to check inventory item %s: %v", name, err)
	}
	if !exists {
		r.logger.Warn("Inventory item not found for adjustment", "name", name)
		return fmt.Errorf("inventory item %s: %w", name, models.ErrNotFound)
	}
	r.logger.Warn("Inventory adjustment rejected, would go negative", "name", name, "delta", delta)
	return fmt.Errorf("inventory item %s would go negative by %.3f kg: %w", name, -delta, models.ErrInsufficientStock)
}

func (r *InventoryRepository) validateInventoryItem(item *models.InventoryItem) error {
	if item == nil {
		return fmt.Errorf("inventory item cannot be nil: %w", models.ErrValidation)
	}
	if item.Name == "" {
		return fmt.Errorf("item name cannot be empty: %w", models.ErrValidation)
	}
	if !item.Category.Valid() {
		return fmt.Errorf("category must be rubber or chemical: %w", models.ErrValidation)
	}
	if item.Rate < 0 {
		return fmt.Errorf("rate cannot be negative: %w", models.ErrValidation)
	}
	if item.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative: %w", models.ErrValidation)
	}

	return nil
}
