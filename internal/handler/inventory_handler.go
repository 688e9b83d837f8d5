package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/manish-terminal/Elastomechwork/internal/service"
	"github.com/manish-terminal/Elastomechwork/pkg/logger"
)

type InventoryHandler struct {
	inventoryService service.InventoryServiceInterface
	logger           *logger.Logger
}

func NewInventoryHandler(inventoryService service.InventoryServiceInterface, logger *logger.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		logger:           logger.WithComponent("inventory_handler"),
	}
}

// GetAllItems handles GET /api/v1/inventory
func (h *InventoryHandler) GetAllItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.inventoryService.GetAllItems()
	if err != nil {
		h.logger.Error("Failed to get all inventory items", "error", err)
		writeErrorResponse(h.logger, w, http.StatusInternalServerError, "Failed to fetch inventory")
		return
	}

	writeJSONResponse(h.logger, w, http.StatusOK, items)
}

// GetItemByID handles GET /api/v1/inventory/{id}
func (h *InventoryHandler) GetItemByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.inventoryService.GetItemByID(id)
	if err != nil {
		h.logger.Warn("Inventory item not found", "id", id, "error", err)
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSONResponse(h.logger, w, http.StatusOK, item)
}

// CreateItem handles POST /api/v1/inventory
func (h *InventoryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var createReq service.CreateInventoryItemRequest
	if err := parseRequestBody(r, &createReq); err != nil {
		h.logger.Warn("Invalid request body for create inventory item", "error", err)
		writeErrorResponse(h.logger, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.inventoryService.CreateItem(createReq)
	if err != nil {
		h.logger.Warn("Failed to create inventory item", "error", err)
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSONResponse(h.logger, w, http.StatusCreated, item)
}

// UpdateItem handles PUT /api/v1/inventory/{id}
func (h *InventoryHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var updateReq service.CreateInventoryItemRequest
	if err := parseRequestBody(r, &updateReq); err != nil {
		h.logger.Warn("Invalid request body for update inventory item", "error", err)
		writeErrorResponse(h.logger, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.inventoryService.UpdateItem(id, updateReq)
	if err != nil {
		h.logger.Warn("Failed to update inventory item", "id", id, "error", err)
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSONResponse(h.logger, w, http.StatusOK, item)
}

// DeleteItem handles DELETE /api/v1/inventory/{id}
func (h *InventoryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.inventoryService.DeleteItem(id); err != nil {
		h.logger.Warn("Failed to delete inventory item", "id", id, "error", err)
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSONResponse(h.logger, w, http.StatusOK, map[string]interface{}{"item_id": id, "message": "Inventory item deleted"})
}

// AdjustStock handles PATCH /api/v1/inventory/{name}/adjust
func (h *InventoryHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var adjustReq service.AdjustStockRequest
	if err := parseRequestBody(r, &adjustReq); err != nil {
		h.logger.Warn("Invalid request body for stock adjustment", "error", err)
		writeErrorResponse(h.logger, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	item, err := h.inventoryService.AdjustStock(name, adjustReq)
	if err != nil {
		h.logger.Warn("Failed to adjust stock", "name", name, "error", err)
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSONResponse(h.logger, w, http.StatusOK, item)
}

// GetStockValuation handles GET /api/v1/reports/stock-value
func (h *InventoryHandler) GetStockValuation(w http.ResponseWriter, r *http.Request) {
	report, err := h.inventoryService.StockValuation()
	if err != nil {
		h.logger.Error("Failed to compute stock valuation", "error", err)
		writeErrorResponse(h.logger, w, http.StatusInternalServerError, "Failed to compute stock valuation")
		return
	}

	writeJSONResponse(h.logger, w, http.StatusOK, report)
}
