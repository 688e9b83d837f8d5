package models

// IngredientKind distinguishes the two halves of a compound recipe.
type IngredientKind string

const (
	KindRubber   IngredientKind = "rubber"
	KindChemical IngredientKind = "chemical"
)

// Valid reports whether k is a known ingredient kind.
func (k IngredientKind) Valid() bool {
	return k == KindRubber || k == KindChemical
}

// Formula is a named recipe of relative ingredient ratios. Ratios are
// weights within one formula, not absolute amounts; they only become
// concrete weights when allocated against an order's total weight.
type Formula struct {
	ID          string              `json:"formula_id" db:"id"`
	Name        string              `json:"name" db:"name"`
	Ingredients []FormulaIngredient `json:"ingredients"`
}

type FormulaIngredient struct {
	Kind  IngredientKind `json:"kind" db:"kind"`
	Name  string         `json:"name" db:"name"`
	Ratio float64        `json:"ratio" db:"ratio"`
}
