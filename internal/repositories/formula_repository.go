package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/manish-terminal/Elastomechwork/models"
	"github.com/manish-terminal/Elastomechwork/pkg/database"
	"github.com/manish-terminal/Elastomechwork/pkg/logger"
)

type FormulaRepositoryInterface interface {
	GetAll() ([]*models.Formula, error)
	GetByID(id string) (*models.Formula, error)
	GetByName(name string) (*models.Formula, error)
	Create(formula *models.Formula) error
	Update(id string, formula *models.Formula) error
	Delete(id string) error
}

type FormulaRepository struct {
	logger *logger.Logger
	db     *database.DB
}

func NewFormulaRepository(logger *logger.Logger, db *database.DB) *FormulaRepository {
	return &FormulaRepository{
		logger: logger.WithComponent("formula_repository"),
		db:     db,
	}
}

// GetAll retrieves all formulas with their ingredient lists
func (r *FormulaRepository) GetAll() ([]*models.Formula, error) {
	r.logger.Debug("Retrieving all formulas from database")

	query := `
        SELECT f.id, f.name,
               COALESCE(
                   json_agg(
                       json_build_object(
                           'kind', fi.kind,
                           'name', fi.name,
                           'ratio', fi.ratio
                       ) ORDER BY fi.position
                   ) FILTER (WHERE fi.formula_id IS NOT NULL), '[]'::json
               ) AS ingredients
        FROM formulas f
        LEFT JOIN formula_ingredients fi ON f.id = fi.formula_id
        GROUP BY f.id, f.name
        ORDER BY f.name
    `

	rows, err := r.db.Query(query)
	if err != nil {
		r.logger.Error("Failed to query formulas", "error", err)
		return nil, fmt.Errorf("failed to query formulas: %v", err)
	}
	defer rows.Close()

	formulas := []*models.Formula{}
	for rows.Next() {
		formula := &models.Formula{}
		ingredientsJSON := ""

		err := rows.Scan(&formula.ID, &formula.Name, &ingredientsJSON)
		if err != nil {
			r.logger.Error("Failed to scan formula", "error", err)
			return nil, fmt.Errorf("failed to scan formula: %v", err)
		}

		err = r.parseIngredients(ingredientsJSON, &formula.Ingredients)
		if err != nil {
			r.logger.Error("Failed to parse ingredients", "error", err, "formula_id", formula.ID)
			return nil, fmt.Errorf("failed to parse ingredients for formula %s: %v", formula.ID, err)
		}

		formulas = append(formulas, formula)
	}

	err = rows.Err()
	if err != nil {
		r.logger.Error("Error iterating formula rows", "error", err)
		return nil, fmt.Errorf("error iterating formula rows: %v", err)
	}

	r.logger.Info("Retrieved all formulas", "count", len(formulas))
	return formulas, nil
}

// GetByID retrieves a single formula by ID
func (r *FormulaRepository) GetByID(id string) (*models.Formula, error) {
	return r.getOne(`WHERE f.id = $1`, id)
}

// GetByName retrieves a single formula by its unique name. Order
// creation resolves formulas by name.
func (r *FormulaRepository) GetByName(name string) (*models.Formula, error) {
	return r.getOne(`WHERE f.name = $1`, name)
}

func (r *FormulaRepository) getOne(where, key string) (*models.Formula, error) {
	query := `
        SELECT f.id, f.name,
               COALESCE(
                   json_agg(
                       json_build_object(
                           'kind', fi.kind,
                           'name', fi.name,
                           'ratio', fi.ratio
                       ) ORDER BY fi.position
                   ) FILTER (WHERE fi.formula_id IS NOT NULL), '[]'::json
               ) AS ingredients
        FROM formulas f
        LEFT JOIN formula_ingredients fi ON f.id = fi.formula_id
        ` + where + `
        GROUP BY f.id, f.name
    `

	formula := &models.Formula{}
	ingredientsJSON := ""

	err := r.db.QueryRow(query, key).Scan(&formula.ID, &formula.Name, &ingredientsJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("Formula not found", "key", key)
			return nil, fmt.Errorf("formula %s: %w", key, models.ErrNotFound)
		}
		r.logger.Error("Failed to retrieve formula", "error", err, "key", key)
		return nil, fmt.Errorf("failed to retrieve formula: %v", err)
	}

	if err := r.parseIngredients(ingredientsJSON, &formula.Ingredients); err != nil {
		r.logger.Error("Failed to parse ingredients", "error", err, "formula_id", formula.ID)
		return nil, fmt.Errorf("failed to parse ingredients for formula %s: %v", formula.ID, err)
	}

	return formula, nil
}

// Create inserts a new formula and its ingredient rows in one transaction
func (r *FormulaRepository) Create(formula *models.Formula) error {
	r.logger.Debug("Adding new formula", "formula_name", formula.Name)

	if err := r.validateFormula(formula); err != nil {
		r.logger.Error("Failed to validate formula", "error", err, "formula_name", formula.Name)
		return err
	}

	if formula.ID == "" {
		formula.ID = uuid.NewString()
	}

	tx, err := r.db.Begin()
	if err != nil {
		r.logger.Error("Failed to begin transaction", "error", err)
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO formulas (id, name) VALUES ($1, $2)`

	_, err = tx.Exec(query, formula.ID, formula.Name)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Warn("Attempted to add duplicate formula", "formula_name", formula.Name)
			return fmt.Errorf("formula with name %s already exists: %w", formula.Name, models.ErrConflict)
		}
		r.logger.Error("Failed to add formula", "error", err, "formula_id", formula.ID)
		return fmt.Errorf("failed to add formula: %v", err)
	}

	err = r.insertIngredients(tx, formula.ID, formula.Ingredients)
	if err != nil {
		r.logger.Error("Failed to add formula ingredients", "error", err, "formula_id", formula.ID)
		return fmt.Errorf("failed to add formula ingredients: %v", err)
	}

	err = tx.Commit()
	if err != nil {
		r.logger.Error("Failed to commit transaction", "error", err)
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	r.logger.Info("Added new formula", "formula_id", formula.ID, "name", formula.Name)
	return nil
}

// Update replaces a formula's fields and rewrites its ingredient rows in
// one transaction. Existing orders keep their snapshots; nothing here
// touches the orders tables.
func (r *FormulaRepository) Update(id string, formula *models.Formula) error {
	r.logger.Debug("Updating formula in database", "formula_id", id)

	if err := r.validateFormula(formula); err != nil {
		r.logger.Error("Failed to validate formula", "error", err, "formula_id", id)
		return err
	}

	tx, err := r.db.Begin()
	if err != nil {
		r.logger.Error("Failed to begin transaction", "error", err)
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(`UPDATE formulas SET name = $1 WHERE id = $2`, formula.Name, id)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("formula with name %s already exists: %w", formula.Name, models.ErrConflict)
		}
		r.logger.Error("Failed to update formula", "error", err, "formula_id", id)
		return fmt.Errorf("failed to update formula: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Failed to get rows affected", "error", err, "formula_id", id)
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rowsAffected == 0 {
		r.logger.Warn("Attempted to update non-existent formula", "formula_id", id)
		return fmt.Errorf("formula with id %s: %w", id, models.ErrNotFound)
	}

	err = r.deleteIngredients(tx, id)
	if err != nil {
		r.logger.Error("Failed to delete existing ingredients", "error", err, "formula_id", id)
		return fmt.Errorf("failed to delete existing ingredients: %v", err)
	}

	err = r.insertIngredients(tx, id, formula.Ingredients)
	if err != nil {
		r.logger.Error("Failed to update formula ingredients", "error", err, "formula_id", id)
		return fmt.Errorf("failed to update formula ingredients: %v", err)
	}

	err = tx.Commit()
	if err != nil {
		r.logger.Error("Failed to commit transaction", "error", err, "formula_id", id)
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	r.logger.Info("Updated formula", "formula_id", id, "name", formula.Name)
	return nil
}

// Delete removes a formula and its ingredient rows
func (r *FormulaRepository) Delete(id string) error {
	r.logger.Debug("Deleting formula from database", "formula_id", id)

	tx, err := r.db.Begin()
	if err != nil {
		r.logger.Error("Failed to begin transaction", "error", err)
		return fmt.Errorf("failed to begin transaction: %v", err)
	}
	defer tx.Rollback()

	err = r.deleteIngredients(tx, id)
	if err != nil {
		r.logger.Error("Failed to delete formula ingredients", "error", err, "formula_id", id)
		return fmt.Errorf("failed to delete formula ingredients: %v", err)
	}

	result, err := tx.Exec(`DELETE FROM formulas WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete formula", "error", err, "formula_id", id)
		return fmt.Errorf("failed to delete formula: %v", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Failed to get rows affected", "error", err, "formula_id", id)
		return fmt.Errorf("failed to get rows affected: %v", err)
	}
	if rowsAffected == 0 {
		r.logger.Warn("Attempted to delete non-existent formula", "formula_id", id)
		return fmt.Errorf("formula with id %s: %w", id, models.ErrNotFound)
	}

	err = tx.Commit()
	if err != nil {
		r.logger.Error("Failed to commit transaction", "error", err, "formula_id", id)
		return fmt.Errorf("failed to commit transaction: %v", err)
	}

	r.logger.Info("Deleted formula", "formula_id", id)
	return nil
}

func (r *FormulaRepository) insertIngredients(tx *sql.Tx, formulaID string, ingredients []models.FormulaIngredient) error {
	query := `
		INSERT INTO formula_ingredients (formula_id, position, kind, name, ratio)
		VALUES ($1, $2, $3, $4, $5)
	`

	for i, ingredient := range ingredients {
		_, err := tx.Exec(query, formulaID, i, ingredient.Kind, ingredient.Name, ingredient.Ratio)
		if err != nil {
			return fmt.Errorf("failed to insert ingredient %s: %v", ingredient.Name, err)
		}
	}
	return nil
}

func (r *FormulaRepository) deleteIngredients(tx *sql.Tx, formulaID string) error {
	_, err := tx.Exec(`DELETE FROM formula_ingredients WHERE formula_id = $1`, formulaID)
	return err
}

func (r *FormulaRepository) parseIngredients(ingredientsJSON string, target *[]models.FormulaIngredient) error {
	if ingredientsJSON == "" {
		*target = []models.FormulaIngredient{}
		return nil
	}
	return json.Unmarshal([]byte(ingredientsJSON), target)
}

func (r *FormulaRepository) validateFormula(formula *models.Formula) error {
	if formula == nil {
		return fmt.Errorf("formula cannot be nil: %w", models.ErrValidation)
	}
	if formula.Name == "" {
		return fmt.Errorf("formula name cannot be empty: %w", models.ErrValidation)
	}
	if len(formula.Ingredients) == 0 {
		return fmt.Errorf("formula must have at least one ingredient: %w", models.ErrValidation)
	}

	for i, ingredient := range formula.Ingredients {
		if ingredient.Name == "" {
			return fmt.Errorf("ingredient %d: name cannot be empty: %w", i+1, models.ErrValidation)
		}
		if !ingredient.Kind.Valid() {
			return fmt.Errorf("ingredient %d: kind must be rubber or chemical: %w", i+1, models.ErrValidation)
		}
		if ingredient.Ratio <= 0 {
			return fmt.Errorf("ingredient %d: ratio must be positive: %w", i+1, models.ErrValidation)
		}
	}

	return nil
}
