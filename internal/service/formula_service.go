package service

import (
	"fmt"

	"github.com/manish-terminal/Elastomechwork/internal/repositories"
	"github.com/manish-terminal/Elastomechwork/models"
	"github.com/manish-terminal/Elastomechwork/pkg/logger"
)

type CreateFormulaRequest struct {
	Name        string                     `json:"name"`
	Ingredients []models.FormulaIngredient `json:"ingredients"`
}

type FormulaServiceInterface interface {
	GetAllFormulas() ([]*models.Formula, error)
	GetFormulaByID(id string) (*models.Formula, error)
	CreateFormula(req CreateFormulaRequest) (*models.Formula, error)
	UpdateFormula(id string, req CreateFormulaRequest) (*models.Formula, error)
	DeleteFormula(id string) error
}

type FormulaService struct {
	formulaRepo repositories.FormulaRepositoryInterface
	logger      *logger.Logger
}

func NewFormulaService(formulaRepo repositories.FormulaRepositoryInterface, logger *logger.Logger) *FormulaService {
	return &FormulaService{
		formulaRepo: formulaRepo,
		logger:      logger.WithComponent("formula_service"),
	}
}

// GetAllFormulas retrieves all formulas
func (s *FormulaService) GetAllFormulas() ([]*models.Formula, error) {
	s.logger.Info("Fetching all formulas from repository")

	formulas, err := s.formulaRepo.GetAll()
	if err != nil {
		s.logger.Error("Failed to get formulas from repository", "error", err)
		return nil, err
	}

	s.logger.Info("Fetched formulas", "count", len(formulas))
	return formulas, nil
}

// GetFormulaByID retrieves a specific formula
func (s *FormulaService) GetFormulaByID(id string) (*models.Formula, error) {
	s.logger.Info("Fetching formula by ID", "formula_id", id)

	if id == "" {
		return nil, fmt.Errorf("formula ID is required: %w", models.ErrValidation)
	}

	formula, err := s.formulaRepo.GetByID(id)
	if err != nil {
		s.logger.Warn("Formula not found", "formula_id", id, "error", err)
		return nil, err
	}

	return formula, nil
}

// CreateFormula creates a new formula. The total ratio must be positive
// so the recipe can later be allocated into weights.
func (s *FormulaService) CreateFormula(req CreateFormulaRequest) (*models.Formula, error) {
	s.logger.Info("Creating formula", "name", req.Name, "ingredients", len(req.Ingredients))

	if err := validateFormulaRatios(req.Ingredients); err != nil {
		s.logger.Warn("Create failed: invalid formula", "error", err)
		return nil, err
	}

	formula := &models.Formula{
		Name:        req.Name,
		Ingredients: req.Ingredients,
	}

	if err := s.formulaRepo.Create(formula); err != nil {
		s.logger.Error("Failed to create formula", "error", err, "name", req.Name)
		return nil, err
	}

	s.logger.Info("Formula created", "formula_id", formula.ID, "name", formula.Name)
	return formula, nil
}

// UpdateFormula replaces a formula's name and ingredient list. Orders
// created from the previous version keep their snapshots.
func (s *FormulaService) UpdateFormula(id string, req CreateFormulaRequest) (*models.Formula, error) {
	s.logger.Info("Updating formula", "formula_id", id, "name", req.Name)

	if id == "" {
		return nil, fmt.Errorf("formula ID is required: %w", models.ErrValidation)
	}
	if err := validateFormulaRatios(req.Ingredients); err != nil {
		s.logger.Warn("Update failed: invalid formula", "formula_id", id, "error", err)
		return nil, err
	}

	formula := &models.Formula{
		ID:          id,
		Name:        req.Name,
		Ingredients: req.Ingredients,
	}

	if err := s.formulaRepo.Update(id, formula); err != nil {
		s.logger.Warn("Failed to update formula", "formula_id", id, "error", err)
		return nil, err
	}

	s.logger.Info("Formula updated", "formula_id", id)
	return formula, nil
}

// DeleteFormula removes a formula from the catalog
func (s *FormulaService) DeleteFormula(id string) error {
	s.logger.Info("Deleting formula", "formula_id", id)

	if id == "" {
		return fmt.Errorf("formula ID is required: %w", models.ErrValidation)
	}

	if err := s.formulaRepo.Delete(id); err != nil {
		s.logger.Warn("Failed to delete formula", "formula_id", id, "error", err)
		return err
	}

	s.logger.Info("Formula deleted", "formula_id", id)
	return nil
}

// validateFormulaRatios rejects recipes the allocator could not use.
// Field-level checks live in the repository; this guards the ratio sum.
func validateFormulaRatios(ingredients []models.FormulaIngredient) error {
	if len(ingredients) == 0 {
		return fmt.Errorf("formula must have at least one ingredient: %w", models.ErrInvalidFormula)
	}

	var totalRatio float64
	for _, ingredient := range ingredients {
		totalRatio += ingredient.Ratio
	}
	if totalRatio <= 0 {
		return fmt.Errorf("total ratio must be positive, got %g: %w", totalRatio, models.ErrInvalidFormula)
	}

	return nil
}
