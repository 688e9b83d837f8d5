package service

import (
	"errors"
	"testing"

	"github.com/manish-terminal/Elastomechwork/models"
)

func newFormulaService(repo *fakeFormulaRepo) *FormulaService {
	return NewFormulaService(repo, testLogger())
}

func gasketIngredients() []models.FormulaIngredient {
	return []models.FormulaIngredient{
		{Kind: models.KindRubber, Name: "Natural Rubber", Ratio: 3},
		{Kind: models.KindChemical, Name: "Sulfur", Ratio: 1},
	}
}

func TestFormulaService_CreateAndGet(t *testing.T) {
	repo := newFakeFormulaRepo()
	svc := newFormulaService(repo)

	formula, err := svc.CreateFormula(CreateFormulaRequest{
		Name:        "GASKET-MIX",
		Ingredients: gasketIngredients(),
	})
	if err != nil {
		t.Fatalf("CreateFormula failed: %v", err)
	}
	if formula.ID == "" {
		t.Error("expected formula id to be assigned")
	}

	fetched, err := svc.GetFormulaByID(formula.ID)
	if err != nil {
		t.Fatalf("GetFormulaByID failed: %v", err)
	}
	if fetched.Name != "GASKET-MIX" || len(fetched.Ingredients) != 2 {
		t.Errorf("unexpected formula: %+v", fetched)
	}
}

func TestFormulaService_Create_RejectsEmptyIngredients(t *testing.T) {
	svc := newFormulaService(newFakeFormulaRepo())

	_, err := svc.CreateFormula(CreateFormulaRequest{Name: "EMPTY"})
	if !errors.Is(err, models.ErrInvalidFormula) {
		t.Errorf("expected ErrInvalidFormula, got %v", err)
	}
}

func TestFormulaService_Create_RejectsZeroTotalRatio(t *testing.T) {
	svc := newFormulaService(newFakeFormulaRepo())

	_, err := svc.CreateFormula(CreateFormulaRequest{
		Name: "FLAT",
		Ingredients: []models.FormulaIngredient{
			{Kind: models.KindRubber, Name: "A", Ratio: 0},
		},
	})
	if !errors.Is(err, models.ErrInvalidFormula) {
		t.Errorf("expected ErrInvalidFormula, got %v", err)
	}
}

func TestFormulaService_Update(t *testing.T) {
	repo := newFakeFormulaRepo()
	svc := newFormulaService(repo)

	formula, err := svc.CreateFormula(CreateFormulaRequest{
		Name:        "GASKET-MIX",
		Ingredients: gasketIngredients(),
	})
	if err != nil {
		t.Fatalf("CreateFormula failed: %v", err)
	}

	updated, err := svc.UpdateFormula(formula.ID, CreateFormulaRequest{
		Name: "GASKET-MIX-V2",
		Ingredients: []models.FormulaIngredient{
			{Kind: models.KindRubber, Name: "EPDM", Ratio: 1},
		},
	})
	if err != nil {
		t.Fatalf("UpdateFormula failed: %v", err)
	}
	if updated.Name != "GASKET-MIX-V2" || len(updated.Ingredients) != 1 {
		t.Errorf("unexpected updated formula: %+v", updated)
	}
}

func TestFormulaService_Update_EmptyID(t *testing.T) {
	svc := newFormulaService(newFakeFormulaRepo())

	_, err := svc.UpdateFormula("", CreateFormulaRequest{
		Name:        "X",
		Ingredients: gasketIngredients(),
	})
	if !errors.Is(err, models.ErrValidation) {
		t.Errorf("expected ErrValidation, got %v", err)
	}
}

func TestFormulaService_Delete(t *testing.T) {
	repo := newFakeFormulaRepo()
	svc := newFormulaService(repo)

	formula, err := svc.CreateFormula(CreateFormulaRequest{
		Name:        "GASKET-MIX",
		Ingredients: gasketIngredients(),
	})
	if err != nil {
		t.Fatalf("CreateFormula failed: %v", err)
	}

	if err := svc.DeleteFormula(formula.ID); err != nil {
		t.Fatalf("DeleteFormula failed: %v", err)
	}
	if _, err := svc.GetFormulaByID(formula.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}
