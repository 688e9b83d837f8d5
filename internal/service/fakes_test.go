package service

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/manish-terminal/Elastomechwork/internal/repositories"
	"github.com/manish-terminal/Elastomechwork/models"
	"github.com/manish-terminal/Elastomechwork/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:  logger.LevelError,
		Format: "text",
		Output: os.DevNull,
	})
}

// fakeInventoryRepo is an in-memory ledger keyed by item name. Batch
// adjustments are all-or-nothing, matching the transactional guarantee
// of the real repository.
type fakeInventoryRepo struct {
	mu    sync.Mutex
	items map[string]*models.InventoryItem
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{items: map[string]*models.InventoryItem{}}
}

func (f *fakeInventoryRepo) stock(name string, category models.IngredientKind, rate, quantity float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[name] = &models.InventoryItem{
		ID:       fmt.Sprintf("item-%d", len(f.items)+1),
		Name:     name,
		Category: category,
		Rate:     rate,
		Quantity: quantity,
	}
}

func (f *fakeInventoryRepo) quantity(name string) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if item, ok := f.items[name]; ok {
		return item.Quantity
	}
	return 0
}

func (f *fakeInventoryRepo) GetAll() ([]*models.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]*models.InventoryItem, 0, len(f.items))
	for _, item := range f.items {
		copied := *item
		items = append(items, &copied)
	}
	return items, nil
}

func (f *fakeInventoryRepo) GetByID(id string) (*models.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.items {
		if item.ID == id {
			copied := *item
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("inventory item %s: %w", id, models.ErrNotFound)
}

func (f *fakeInventoryRepo) GetByName(name string) (*models.InventoryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if item, ok := f.items[name]; ok {
		copied := *item
		return &copied, nil
	}
	return nil, fmt.Errorf("inventory item %s: %w", name, models.ErrNotFound)
}

func (f *fakeInventoryRepo) Add(item *models.InventoryItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.items[item.Name]; exists {
		return fmt.Errorf("inventory item %s already exists: %w", item.Name, models.ErrValidation)
	}
	if item.ID == "" {
		item.ID = fmt.Sprintf("item-%d", len(f.items)+1)
	}
	copied := *item
	f.items[item.Name] = &copied
	return nil
}

func (f *fakeInventoryRepo) Update(id string, item *models.InventoryItem) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for name, existing := range f.items {
		if existing.ID == id {
			delete(f.items, name)
			copied := *item
			copied.ID = id
			f.items[item.Name] = &copied
			return nil
		}
	}
	return fmt.Errorf("inventory item %s: %w", id, models.ErrNotFound)
}

func (f *fakeInventoryRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for name, existing := range f.items {
		if existing.ID == id {
			delete(f.items, name)
			return nil
		}
	}
	return fmt.Errorf("inventory item %s: %w", id, models.ErrNotFound)
}

func (f *fakeInventoryRepo) AdjustQuantity(name string, delta float64) (*models.InventoryItem, error) {
	if err := f.AdjustQuantities([]models.QuantityAdjustment{{Name: name, Delta: delta}}); err != nil {
		return nil, err
	}
	return f.GetByName(name)
}

func (f *fakeInventoryRepo) AdjustQuantities(adjustments []models.QuantityAdjustment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.applyBatchLocked(adjustments)
}

// applyBatchLocked validates the whole batch before touching any
// balance, so one short ingredient leaves every other untouched.
func (f *fakeInventoryRepo) applyBatchLocked(adjustments []models.QuantityAdjustment) error {
	for _, adj := range adjustments {
		item, ok := f.items[adj.Name]
		if !ok {
			return fmt.Errorf("inventory item %s: %w", adj.Name, models.ErrNotFound)
		}
		if item.Quantity+adj.Delta < 0 {
			return fmt.Errorf("insufficient stock of %s: %w", adj.Name, models.ErrInsufficientStock)
		}
	}
	for _, adj := range adjustments {
		f.items[adj.Name].Quantity += adj.Delta
	}
	return nil
}

// fakeOrderRepo stores orders in memory and applies progress updates
// against a shared fakeInventoryRepo, mirroring the single-transaction
// behavior of the real repository. conflictsLeft forces the next N
// ApplyProgress calls to fail with a concurrency conflict.
type fakeOrderRepo struct {
	mu            sync.Mutex
	orders        map[string]*models.Order
	seq           int
	ledger        *fakeInventoryRepo
	conflictsLeft int
}

func newFakeOrderRepo(ledger *fakeInventoryRepo) *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*models.Order{}, ledger: ledger}
}

func copyOrder(order *models.Order) *models.Order {
	copied := *order
	copied.RubberIngredients = append([]models.OrderIngredient{}, order.RubberIngredients...)
	copied.ChemicalIngredients = append([]models.OrderIngredient{}, order.ChemicalIngredients...)
	return &copied
}

func (f *fakeOrderRepo) GetAll() ([]*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	orders := make([]*models.Order, 0, len(f.orders))
	for _, order := range f.orders {
		orders = append(orders, copyOrder(order))
	}
	return orders, nil
}

func (f *fakeOrderRepo) GetByID(id string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, models.ErrNotFound)
	}
	return copyOrder(order), nil
}

func (f *fakeOrderRepo) Create(order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	now := time.Now()
	order.ID = fmt.Sprintf("order-%d", f.seq)
	order.OrderID = repositories.FormatOrderID(now, f.seq)
	order.CreatedAt = now
	order.UpdatedAt = now
	if order.Status == "" {
		order.Status = models.StatusPending
	}
	f.orders[order.ID] = copyOrder(order)
	return nil
}

func (f *fakeOrderRepo) ApplyProgress(id string, prevManufactured, prevRejected, newManufactured, newRejected int, adjustments []models.QuantityAdjustment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		return fmt.Errorf("order %s was reconciled concurrently: %w", id, models.ErrConflict)
	}

	order, ok := f.orders[id]
	if !ok {
		return fmt.Errorf("order %s: %w", id, models.ErrNotFound)
	}
	if order.Manufactured != prevManufactured || order.Rejected != prevRejected {
		return fmt.Errorf("order %s was reconciled concurrently: %w", id, models.ErrConflict)
	}

	f.ledger.mu.Lock()
	err := f.ledger.applyBatchLocked(adjustments)
	f.ledger.mu.Unlock()
	if err != nil {
		return err
	}

	order.Manufactured = newManufactured
	order.Rejected = newRejected
	order.UpdatedAt = time.Now()
	return nil
}

func (f *fakeOrderRepo) UpdateStatus(id string, status models.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return fmt.Errorf("order %s: %w", id, models.ErrNotFound)
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	return nil
}

// fakeFormulaRepo keeps formulas in memory, keyed by id and name.
type fakeFormulaRepo struct {
	mu       sync.Mutex
	formulas map[string]*models.Formula
	seq      int
}

func newFakeFormulaRepo() *fakeFormulaRepo {
	return &fakeFormulaRepo{formulas: map[string]*models.Formula{}}
}

func copyFormula(formula *models.Formula) *models.Formula {
	copied := *formula
	copied.Ingredients = append([]models.FormulaIngredient{}, formula.Ingredients...)
	return &copied
}

func (f *fakeFormulaRepo) GetAll() ([]*models.Formula, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	formulas := make([]*models.Formula, 0, len(f.formulas))
	for _, formula := range f.formulas {
		formulas = append(formulas, copyFormula(formula))
	}
	return formulas, nil
}

func (f *fakeFormulaRepo) GetByID(id string) (*models.Formula, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	formula, ok := f.formulas[id]
	if !ok {
		return nil, fmt.Errorf("formula %s: %w", id, models.ErrNotFound)
	}
	return copyFormula(formula), nil
}

func (f *fakeFormulaRepo) GetByName(name string) (*models.Formula, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, formula := range f.formulas {
		if formula.Name == name {
			return copyFormula(formula), nil
		}
	}
	return nil, fmt.Errorf("formula %s: %w", name, models.ErrNotFound)
}

func (f *fakeFormulaRepo) Create(formula *models.Formula) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	formula.ID = fmt.Sprintf("formula-%d", f.seq)
	f.formulas[formula.ID] = copyFormula(formula)
	return nil
}

func (f *fakeFormulaRepo) Update(id string, formula *models.Formula) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.formulas[id]; !ok {
		return fmt.Errorf("formula %s: %w", id, models.ErrNotFound)
	}
	formula.ID = id
	f.formulas[id] = copyFormula(formula)
	return nil
}

func (f *fakeFormulaRepo) Delete(id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.formulas[id]; !ok {
		return fmt.Errorf("formula %s: %w", id, models.ErrNotFound)
	}
	delete(f.formulas, id)
	return nil
}
