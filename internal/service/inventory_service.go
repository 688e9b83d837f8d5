package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/manish-terminal/Elastomechwork/internal/repositories"
	"github.com/manish-terminal/Elastomechwork/models"
	"github.com/manish-terminal/Elastomechwork/pkg/logger"
)

type CreateInventoryItemRequest struct {
	Name     string                `json:"name"`
	Category models.IngredientKind `json:"category"`
	Rate     float64               `json:"rate"`
	Quantity float64               `json:"quantity"`
}

type AdjustStockRequest struct {
	Delta float64 `json:"delta"`
}

type InventoryServiceInterface interface {
	GetAllItems() ([]*models.InventoryItem, error)
	GetItemByID(id string) (*models.InventoryItem, error)
	CreateItem(req CreateInventoryItemRequest) (*models.InventoryItem, error)
	UpdateItem(id string, req CreateInventoryItemRequest) (*models.InventoryItem, error)
	DeleteItem(id string) error
	AdjustStock(name string, req AdjustStockRequest) (*models.InventoryItem, error)
	StockValuation() (*models.StockValueReport, error)
}

type InventoryService struct {
	inventoryRepo repositories.InventoryRepositoryInterface
	logger        *logger.Logger
}

func NewInventoryService(inventoryRepo repositories.InventoryRepositoryInterface, logger *logger.Logger) *InventoryService {
	return &InventoryService{
		inventoryRepo: inventoryRepo,
		logger:        logger.WithComponent("inventory_service"),
	}
}

// GetAllItems retrieves all inventory items
func (s *InventoryService) GetAllItems() ([]*models.InventoryItem, error) {
	s.logger.Info("Fetching all inventory items from repository")

	items, err := s.inventoryRepo.GetAll()
	if err != nil {
		s.logger.Error("Failed to fetch inventory items", "error", err)
		return nil, err
	}

	s.logger.Info("Fetched inventory items", "count", len(items))
	return items, nil
}

// GetItemByID retrieves a specific inventory item
func (s *InventoryService) GetItemByID(id string) (*models.InventoryItem, error) {
	s.logger.Info("Fetching inventory item by ID", "item_id", id)

	if id == "" {
		return nil, fmt.Errorf("item ID is required: %w", models.ErrValidation)
	}

	item, err := s.inventoryRepo.GetByID(id)
	if err != nil {
		s.logger.Warn("Inventory item not found", "item_id", id, "error", err)
		return nil, err
	}

	return item, nil
}

// CreateItem registers a new raw material in the ledger
func (s *InventoryService) CreateItem(req CreateInventoryItemRequest) (*models.InventoryItem, error) {
	s.logger.Info("Creating inventory item", "name", req.Name, "category", req.Category)

	item := &models.InventoryItem{
		Name:     req.Name,
		Category: req.Category,
		Rate:     req.Rate,
		Quantity: req.Quantity,
	}

	if err := s.inventoryRepo.Add(item); err != nil {
		s.logger.Warn("Failed to create inventory item", "error", err, "name", req.Name)
		return nil, err
	}

	s.logger.Info("Inventory item created", "item_id", item.ID, "name", item.Name)
	return item, nil
}

// UpdateItem replaces an item's admin-controlled fields. Quantity is
// included here as an absolute admin correction; manufacturing-driven
// changes go through AdjustStock and reconciliation instead.
func (s *InventoryService) UpdateItem(id string, req CreateInventoryItemRequest) (*models.InventoryItem, error) {
	s.logger.Info("Updating inventory item", "item_id", id, "name", req.Name)

	if id == "" {
		return nil, fmt.Errorf("item ID is required: %w", models.ErrValidation)
	}

	item := &models.InventoryItem{
		ID:       id,
		Name:     req.Name,
		Category: req.Category,
		Rate:     req.Rate,
		Quantity: req.Quantity,
	}

	if err := s.inventoryRepo.Update(id, item); err != nil {
		s.logger.Warn("Failed to update inventory item", "item_id", id, "error", err)
		return nil, err
	}

	s.logger.Info("Inventory item updated", "item_id", id)
	return item, nil
}

// DeleteItem removes an item from the ledger
func (s *InventoryService) DeleteItem(id string) error {
	s.logger.Info("Deleting inventory item", "item_id", id)

	if id == "" {
		return fmt.Errorf("item ID is required: %w", models.ErrValidation)
	}

	if err := s.inventoryRepo.Delete(id); err != nil {
		s.logger.Warn("Failed to delete inventory item", "item_id", id, "error", err)
		return err
	}

	s.logger.Info("Inventory item deleted", "item_id", id)
	return nil
}

// AdjustStock applies a manual stock correction: positive deltas for
// goods received, negative for write-offs. The ledger guard rejects any
// delta that would drive the balance negative.
func (s *InventoryService) AdjustStock(name string, req AdjustStockRequest) (*models.InventoryItem, error) {
	s.logger.Info("Adjusting stock", "name", name, "delta", req.Delta)

	if name == "" {
		return nil, fmt.Errorf("item name is required: %w", models.ErrValidation)
	}
	if req.Delta == 0 {
		return nil, fmt.Errorf("delta cannot be zero: %w", models.ErrValidation)
	}

	item, err := s.inventoryRepo.AdjustQuantity(name, req.Delta)
	if err != nil {
		s.logger.Warn("Stock adjustment rejected", "name", name, "delta", req.Delta, "error", err)
		return nil, err
	}

	s.logger.Info("Stock adjusted", "name", name, "delta", req.Delta, "remaining", item.Quantity)
	return item, nil
}

// StockValuation prices current stock at ledger rates. Decimal math
// keeps the currency totals exact across many small balances.
func (s *InventoryService) StockValuation() (*models.StockValueReport, error) {
	s.logger.Info("Computing stock valuation report")

	items, err := s.inventoryRepo.GetAll()
	if err != nil {
		s.logger.Error("Failed to fetch inventory for valuation", "error", err)
		return nil, err
	}

	lines := make([]models.StockValueLine, 0, len(items))
	total := decimal.Zero
	for _, item := range items {
		value := decimal.NewFromFloat(item.Rate).Mul(decimal.NewFromFloat(item.Quantity))
		total = total.Add(value)
		lines = append(lines, models.StockValueLine{
			Name:     item.Name,
			Category: item.Category,
			Rate:     item.Rate,
			Quantity: item.Quantity,
			Value:    value.StringFixed(2),
		})
	}

	s.logger.Info("Stock valuation computed", "items", len(lines), "total_value", total.StringFixed(2))
	return &models.StockValueReport{
		Items:      lines,
		TotalValue: total.StringFixed(2),
	}, nil
}
