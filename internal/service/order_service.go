package service

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/manish-terminal/Elastomechwork/internal/repositories"
	"github.com/manish-terminal/Elastomechwork/models"
	"github.com/manish-terminal/Elastomechwork/pkg/logger"
)

// CreateOrderRequest carries everything needed to open a production
// order. Ingredients come either from a named formula or from explicit
// custom ratio lists; weights are always computed server-side.
type CreateOrderRequest struct {
	CustomerName        string                    `json:"customer_name"`
	ItemName            string                    `json:"item_name"`
	WeightPerProduct    float64                   `json:"weight_per_product"`
	Quantity            int                       `json:"quantity"`
	FormulaName         string                    `json:"formula_name,omitempty"`
	RubberIngredients   []IngredientRatioRequest  `json:"rubber_ingredients,omitempty"`
	ChemicalIngredients []IngredientRatioRequest  `json:"chemical_ingredients,omitempty"`
	DeliveryDate        string                    `json:"delivery_date"`
	Remarks             string                    `json:"remarks"`
}

type IngredientRatioRequest struct {
	Name  string  `json:"name"`
	Ratio float64 `json:"ratio"`
}

type UpdateProgressRequest struct {
	Manufactured int `json:"manufactured"`
	Rejected     int `json:"rejected"`
}

type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

type OrderServiceInterface interface {
	CreateOrder(req CreateOrderRequest) (*models.Order, error)
	GetAllOrders() ([]*models.Order, error)
	GetOrderByID(id string) (*models.Order, error)
	UpdateOrderProgress(id string, req UpdateProgressRequest) (*models.Order, error)
	UpdateOrderStatus(id string, req UpdateStatusRequest) (*models.Order, error)
	EstimateOrderCost(id string) (*models.OrderCostEstimate, error)
}

type OrderService struct {
	orderRepo     repositories.OrderRepositoryInterface
	formulaRepo   repositories.FormulaRepositoryInterface
	inventoryRepo repositories.InventoryRepositoryInterface
	logger        *logger.Logger
}

func NewOrderService(orderRepo repositories.OrderRepositoryInterface, formulaRepo repositories.FormulaRepositoryInterface, inventoryRepo repositories.InventoryRepositoryInterface, logger *logger.Logger) *OrderService {
	return &OrderService{
		orderRepo:     orderRepo,
		formulaRepo:   formulaRepo,
		inventoryRepo: inventoryRepo,
		logger:        logger.WithComponent("order_service"),
	}
}

// CreateOrder allocates ingredient weights and persists a new order
// carrying the allocation as a value snapshot. Later formula edits do
// not reach back into orders created before them.
func (s *OrderService) CreateOrder(req CreateOrderRequest) (*models.Order, error) {
	s.logger.Info("Creating new order", "customer", req.CustomerName, "item", req.ItemName)

	if err := s.validateCreateOrderData(req); err != nil {
		s.logger.Warn("Create failed: invalid data", "error", err)
		return nil, err
	}

	ingredients, err := s.resolveIngredients(req)
	if err != nil {
		s.logger.Warn("Create failed: could not resolve ingredients", "error", err)
		return nil, err
	}

	totalWeight := req.WeightPerProduct * float64(req.Quantity)
	allocated, err := AllocateWeights(ingredients, totalWeight)
	if err != nil {
		s.logger.Warn("Create failed: allocation error", "error", err)
		return nil, err
	}
	rubber, chemical := splitByKind(ingredients, allocated)

	order := &models.Order{
		CustomerName:        req.CustomerName,
		ItemName:            req.ItemName,
		WeightPerProduct:    req.WeightPerProduct,
		Quantity:            req.Quantity,
		RubberIngredients:   rubber,
		ChemicalIngredients: chemical,
		DeliveryDate:        req.DeliveryDate,
		Remarks:             req.Remarks,
		Status:              models.StatusPending,
	}

	if err := s.orderRepo.Create(order); err != nil {
		s.logger.Error("Failed to add order", "error", err)
		return nil, err
	}

	s.logger.Info("Order created",
		"order_id", order.OrderID,
		"total_weight", totalWeight,
		"ingredients", len(allocated))
	return order, nil
}

// GetAllOrders retrieves all orders
func (s *OrderService) GetAllOrders() ([]*models.Order, error) {
	s.logger.Info("Fetching all orders from repository")

	orders, err := s.orderRepo.GetAll()
	if err != nil {
		s.logger.Error("Failed to fetch orders from repository", "error", err)
		return nil, err
	}

	s.logger.Info("Fetched orders", "count", len(orders))
	return orders, nil
}

// GetOrderByID retrieves a specific order by ID
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	s.logger.Info("Fetching order by ID", "order_id", id)

	if id == "" {
		s.logger.Warn("Order ID cannot be empty")
		return nil, fmt.Errorf("order ID is required: %w", models.ErrValidation)
	}

	order, err := s.orderRepo.GetByID(id)
	if err != nil {
		s.logger.Warn("Order not found", "order_id", id, "error", err)
		return nil, err
	}

	return order, nil
}

// progressRetries bounds how often a progress update is replayed after
// losing a compare-and-swap race to a concurrent update.
const progressRetries = 3

// UpdateOrderProgress reconciles a change in manufactured/rejected
// counts against the inventory ledger. Only the incremental units since
// the last recorded state are charged: re-submitting the same counts is
// a no-op, and a correction downwards restores stock through the same
// path. The ledger batch and the counter update commit atomically; on
// any failure both keep their prior state.
func (s *OrderService) UpdateOrderProgress(id string, req UpdateProgressRequest) (*models.Order, error) {
	s.logger.Info("Updating order progress",
		"order_id", id,
		"manufactured", req.Manufactured,
		"rejected", req.Rejected)

	if id == "" {
		return nil, fmt.Errorf("order ID is required: %w", models.ErrValidation)
	}
	if req.Manufactured < 0 || req.Rejected < 0 {
		return nil, fmt.Errorf("manufactured and rejected must be non-negative: %w", models.ErrInvalidProgress)
	}

	var lastErr error
	for attempt := 0; attempt < progressRetries; attempt++ {
		order, err := s.orderRepo.GetByID(id)
		if err != nil {
			s.logger.Warn("Order not found for progress update", "order_id", id, "error", err)
			return nil, err
		}

		if req.Manufactured+req.Rejected > order.Quantity {
			return nil, fmt.Errorf("progress %d+%d exceeds ordered quantity %d: %w",
				req.Manufactured, req.Rejected, order.Quantity, models.ErrInvalidProgress)
		}

		if req.Manufactured == order.Manufactured && req.Rejected == order.Rejected {
			s.logger.Info("Progress unchanged, nothing to reconcile", "order_id", id)
			return order, nil
		}

		deltaUnits := (req.Manufactured + req.Rejected) - order.TotalProduced()
		adjustments := progressAdjustments(order, deltaUnits)

		err = s.orderRepo.ApplyProgress(order.ID,
			order.Manufactured, order.Rejected,
			req.Manufactured, req.Rejected,
			adjustments)
		if err == nil {
			s.logger.Info("Order progress reconciled",
				"order_id", id,
				"delta_units", deltaUnits,
				"ledger_adjustments", len(adjustments))
			return s.orderRepo.GetByID(id)
		}
		if !errors.Is(err, models.ErrConflict) {
			s.logger.Warn("Progress reconciliation failed", "order_id", id, "error", err)
			return nil, err
		}

		lastErr = err
		s.logger.Warn("Concurrent progress update detected, retrying", "order_id", id, "attempt", attempt+1)
	}

	return nil, lastErr
}

// progressAdjustments converts an incremental unit count into one ledger
// delta per ingredient snapshot. Per-unit weight is the snapshot weight
// over the full ordered quantity; deltas are negative for consumption.
func progressAdjustments(order *models.Order, deltaUnits int) []models.QuantityAdjustment {
	if deltaUnits == 0 {
		return nil
	}

	ingredients := order.AllIngredients()
	adjustments := make([]models.QuantityAdjustment, 0, len(ingredients))
	for _, ingredient := range ingredients {
		perUnit := ingredient.Weight / float64(order.Quantity)
		adjustments = append(adjustments, models.QuantityAdjustment{
			Name:  ingredient.Name,
			Delta: -perUnit * float64(deltaUnits),
		})
	}
	return adjustments
}

// UpdateOrderStatus sets the order's workflow status. Any status may
// follow any other; the floor uses this as a plain flag.
func (s *OrderService) UpdateOrderStatus(id string, req UpdateStatusRequest) (*models.Order, error) {
	s.logger.Info("Updating order status", "order_id", id, "status", req.Status)

	if id == "" {
		return nil, fmt.Errorf("order ID is required: %w", models.ErrValidation)
	}
	if !req.Status.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", req.Status, models.ErrValidation)
	}

	if err := s.orderRepo.UpdateStatus(id, req.Status); err != nil {
		s.logger.Warn("Failed to update order status", "order_id", id, "error", err)
		return nil, err
	}

	return s.orderRepo.GetByID(id)
}

// EstimateOrderCost prices the order's ingredient snapshot at current
// ledger rates. Decimal arithmetic keeps currency totals exact.
func (s *OrderService) EstimateOrderCost(id string) (*models.OrderCostEstimate, error) {
	s.logger.Info("Estimating order material cost", "order_id", id)

	order, err := s.GetOrderByID(id)
	if err != nil {
		return nil, err
	}

	ingredients := order.AllIngredients()
	lines := make([]models.OrderCostLine, 0, len(ingredients))
	total := decimal.Zero
	for _, ingredient := range ingredients {
		item, err := s.inventoryRepo.GetByName(ingredient.Name)
		if err != nil {
			s.logger.Warn("Ingredient missing from ledger during costing",
				"order_id", id, "ingredient", ingredient.Name, "error", err)
			return nil, err
		}

		cost := decimal.NewFromFloat(ingredient.Weight).Mul(decimal.NewFromFloat(item.Rate))
		total = total.Add(cost)
		lines = append(lines, models.OrderCostLine{
			Name:   ingredient.Name,
			Weight: ingredient.Weight,
			Rate:   item.Rate,
			Cost:   cost.StringFixed(2),
		})
	}

	return &models.OrderCostEstimate{
		OrderID:   order.OrderID,
		Lines:     lines,
		TotalCost: total.StringFixed(2),
	}, nil
}

// Private business logic methods

func (s *OrderService) validateCreateOrderData(req CreateOrderRequest) error {
	if req.CustomerName == "" {
		return fmt.Errorf("customer name is required: %w", models.ErrValidation)
	}
	if req.ItemName == "" {
		return fmt.Errorf("item name is required: %w", models.ErrValidation)
	}
	if req.WeightPerProduct <= 0 {
		return fmt.Errorf("weight per product must be positive: %w", models.ErrValidation)
	}
	if req.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive: %w", models.ErrValidation)
	}
	if req.DeliveryDate == "" {
		return fmt.Errorf("delivery date is required: %w", models.ErrValidation)
	}

	hasCustom := len(req.RubberIngredients)+len(req.ChemicalIngredients) > 0
	if req.FormulaName == "" && !hasCustom {
		return fmt.Errorf("either formula_name or custom ingredients are required: %w", models.ErrValidation)
	}
	if req.FormulaName != "" && hasCustom {
		return fmt.Errorf("formula_name and custom ingredients are mutually exclusive: %w", models.ErrValidation)
	}

	return nil
}

// resolveIngredients turns the request's ingredient source into one
// ordered ratio list, rubber before chemicals for custom input.
func (s *OrderService) resolveIngredients(req CreateOrderRequest) ([]models.FormulaIngredient, error) {
	if req.FormulaName != "" {
		formula, err := s.formulaRepo.GetByName(req.FormulaName)
		if err != nil {
			return nil, err
		}
		return formula.Ingredients, nil
	}

	ingredients := make([]models.FormulaIngredient, 0, len(req.RubberIngredients)+len(req.ChemicalIngredients))
	for _, ingredient := range req.RubberIngredients {
		ingredients = append(ingredients, models.FormulaIngredient{
			Kind:  models.KindRubber,
			Name:  ingredient.Name,
			Ratio: ingredient.Ratio,
		})
	}
	for _, ingredient := range req.ChemicalIngredients {
		ingredients = append(ingredients, models.FormulaIngredient{
			Kind:  models.KindChemical,
			Name:  ingredient.Name,
			Ratio: ingredient.Ratio,
		})
	}

	for i, ingredient := range ingredients {
		if ingredient.Name == "" {
			return nil, fmt.Errorf("ingredient %d: name is required: %w", i+1, models.ErrValidation)
		}
		if ingredient.Ratio <= 0 {
			return nil, fmt.Errorf("ingredient %d: ratio must be positive: %w", i+1, models.ErrValidation)
		}
	}

	return ingredients, nil
}
