package service

import (
	"fmt"

	"github.com/manish-terminal/Elastomechwork/models"
)

// AllocateWeights converts a formula's relative ratios into absolute
// ingredient weights for a given total compound weight. Ratios are
// normalized against the sum across the whole list, so rubber and
// chemical ingredients share one normalization base. Input ordering is
// preserved and a fresh slice is returned on every call: re-allocating
// replaces a previous allocation, never accumulates onto it.
func AllocateWeights(ingredients []models.FormulaIngredient, totalWeight float64) ([]models.OrderIngredient, error) {
	if len(ingredients) == 0 {
		return nil, fmt.Errorf("ingredient list is empty: %w", models.ErrInvalidFormula)
	}
	if totalWeight < 0 {
		return nil, fmt.Errorf("total weight cannot be negative: %w", models.ErrValidation)
	}

	var totalRatio float64
	for _, ingredient := range ingredients {
		totalRatio += ingredient.Ratio
	}
	if totalRatio <= 0 {
		return nil, fmt.Errorf("total ratio must be positive, got %g: %w", totalRatio, models.ErrInvalidFormula)
	}

	allocated := make([]models.OrderIngredient, len(ingredients))
	for i, ingredient := range ingredients {
		allocated[i] = models.OrderIngredient{
			Name:   ingredient.Name,
			Ratio:  ingredient.Ratio,
			Weight: ingredient.Ratio / totalRatio * totalWeight,
		}
	}

	return allocated, nil
}

// splitByKind partitions an allocation back into rubber and chemical
// lists, preserving order. kinds must parallel the allocated slice.
func splitByKind(ingredients []models.FormulaIngredient, allocated []models.OrderIngredient) (rubber, chemical []models.OrderIngredient) {
	rubber = []models.OrderIngredient{}
	chemical = []models.OrderIngredient{}
	for i, ingredient := range ingredients {
		if ingredient.Kind == models.KindChemical {
			chemical = append(chemical, allocated[i])
		} else {
			rubber = append(rubber, allocated[i])
		}
	}
	return rubber, chemical
}
