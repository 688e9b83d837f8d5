package service

import (
	"errors"
	"math"
	"testing"

	"github.com/manish-terminal/Elastomechwork/models"
)

const weightTolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < weightTolerance
}

func TestAllocateWeights_ProportionalSplit(t *testing.T) {
	ingredients := []models.FormulaIngredient{
		{Kind: models.KindRubber, Name: "Natural Rubber", Ratio: 3},
		{Kind: models.KindChemical, Name: "Sulfur", Ratio: 1},
	}

	allocated, err := AllocateWeights(ingredients, 20)
	if err != nil {
		t.Fatalf("AllocateWeights failed: %v", err)
	}

	if len(allocated) != 2 {
		t.Fatalf("expected 2 allocations, got %d", len(allocated))
	}
	if !almostEqual(allocated[0].Weight, 15) {
		t.Errorf("expected Natural Rubber weight 15, got %g", allocated[0].Weight)
	}
	if !almostEqual(allocated[1].Weight, 5) {
		t.Errorf("expected Sulfur weight 5, got %g", allocated[1].Weight)
	}
}

func TestAllocateWeights_SumsToTotal(t *testing.T) {
	ingredients := []models.FormulaIngredient{
		{Kind: models.KindRubber, Name: "SBR", Ratio: 7.3},
		{Kind: models.KindRubber, Name: "EPDM", Ratio: 2.1},
		{Kind: models.KindChemical, Name: "Carbon Black", Ratio: 4.4},
		{Kind: models.KindChemical, Name: "Zinc Oxide", Ratio: 0.9},
	}

	total := 137.5
	allocated, err := AllocateWeights(ingredients, total)
	if err != nil {
		t.Fatalf("AllocateWeights failed: %v", err)
	}

	var sum float64
	for _, a := range allocated {
		sum += a.Weight
	}
	if math.Abs(sum-total) > 1e-6 {
		t.Errorf("allocated weights sum to %g, want %g", sum, total)
	}
}

func TestAllocateWeights_PreservesOrder(t *testing.T) {
	ingredients := []models.FormulaIngredient{
		{Kind: models.KindChemical, Name: "C", Ratio: 1},
		{Kind: models.KindRubber, Name: "A", Ratio: 1},
		{Kind: models.KindRubber, Name: "B", Ratio: 1},
	}

	allocated, err := AllocateWeights(ingredients, 9)
	if err != nil {
		t.Fatalf("AllocateWeights failed: %v", err)
	}

	for i, ingredient := range ingredients {
		if allocated[i].Name != ingredient.Name {
			t.Errorf("position %d: expected %s, got %s", i, ingredient.Name, allocated[i].Name)
		}
		if allocated[i].Ratio != ingredient.Ratio {
			t.Errorf("position %d: ratio not carried over", i)
		}
	}
}

func TestAllocateWeights_ZeroTotalWeight(t *testing.T) {
	ingredients := []models.FormulaIngredient{
		{Kind: models.KindRubber, Name: "A", Ratio: 2},
		{Kind: models.KindChemical, Name: "B", Ratio: 1},
	}

	allocated, err := AllocateWeights(ingredients, 0)
	if err != nil {
		t.Fatalf("AllocateWeights failed: %v", err)
	}
	for _, a := range allocated {
		if a.Weight != 0 {
			t.Errorf("expected zero weight for %s, got %g", a.Name, a.Weight)
		}
	}
}

func TestAllocateWeights_EmptyList(t *testing.T) {
	_, err := AllocateWeights(nil, 10)
	if !errors.Is(err, models.ErrInvalidFormula) {
		t.Errorf("expected ErrInvalidFormula, got %v", err)
	}
}

func TestAllocateWeights_ZeroTotalRatio(t *testing.T) {
	ingredients := []models.FormulaIngredient{
		{Kind: models.KindRubber, Name: "A", Ratio: 0},
	}
	_, err := AllocateWeights(ingredients, 10)
	if !errors.Is(err, models.ErrInvalidFormula) {
		t.Errorf("expected ErrInvalidFormula, got %v", err)
	}
}

func TestAllocateWeights_NegativeTotalWeight(t *testing.T) {
	ingredients := []models.FormulaIngredient{
		{Kind: models.KindRubber, Name: "A", Ratio: 1},
	}
	_, err := AllocateWeights(ingredients, -1)
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestAllocateWeights_ReturnsFreshSlice(t *testing.T) {
	ingredients := []models.FormulaIngredient{
		{Kind: models.KindRubber, Name: "A", Ratio: 1},
		{Kind: models.KindChemical, Name: "B", Ratio: 1},
	}

	first, err := AllocateWeights(ingredients, 10)
	if err != nil {
		t.Fatalf("AllocateWeights failed: %v", err)
	}
	second, err := AllocateWeights(ingredients, 10)
	if err != nil {
		t.Fatalf("AllocateWeights failed: %v", err)
	}

	first[0].Weight = -999
	if second[0].Weight != 5 {
		t.Errorf("second allocation shares memory with the first")
	}
}

func TestSplitByKind(t *testing.T) {
	ingredients := []models.FormulaIngredient{
		{Kind: models.KindRubber, Name: "A", Ratio: 2},
		{Kind: models.KindChemical, Name: "B", Ratio: 1},
		{Kind: models.KindRubber, Name: "C", Ratio: 1},
	}
	allocated, err := AllocateWeights(ingredients, 8)
	if err != nil {
		t.Fatalf("AllocateWeights failed: %v", err)
	}

	rubber, chemical := splitByKind(ingredients, allocated)
	if len(rubber) != 2 || len(chemical) != 1 {
		t.Fatalf("expected 2 rubber and 1 chemical, got %d and %d", len(rubber), len(chemical))
	}
	if rubber[0].Name != "A" || rubber[1].Name != "C" {
		t.Errorf("rubber order not preserved: %v", rubber)
	}
	if chemical[0].Name != "B" {
		t.Errorf("unexpected chemical partition: %v", chemical)
	}
	if !almostEqual(rubber[0].Weight, 4) || !almostEqual(chemical[0].Weight, 2) || !almostEqual(rubber[1].Weight, 2) {
		t.Errorf("weights lost in partition: rubber=%v chemical=%v", rubber, chemical)
	}
}
