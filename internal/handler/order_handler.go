package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/manish-terminal/Elastomechwork/internal/service"
	"github.com/manish-terminal/Elastomechwork/pkg/logger"
)

type OrderHandler struct {
	orderService service.OrderServiceInterface
	logger       *logger.Logger
}

func NewOrderHandler(orderService service.OrderServiceInterface, logger *logger.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger.WithComponent("order_handler"),
	}
}

// CreateOrder handles POST /api/v1/orders
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var createReq service.CreateOrderRequest
	if err := parseRequestBody(r, &createReq); err != nil {
		h.logger.Warn("Invalid request body for create order", "error", err)
		writeErrorResponse(h.logger, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := h.orderService.CreateOrder(createReq)
	if err != nil {
		h.logger.Warn("Failed to create order", "error", err)
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSONResponse(h.logger, w, http.StatusCreated, order)
}

// GetAllOrders handles GET /api/v1/orders
func (h *OrderHandler) GetAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderService.GetAllOrders()
	if err != nil {
		h.logger.Error("Failed to get all orders", "error", err)
		writeErrorResponse(h.logger, w, http.StatusInternalServerError, "Failed to fetch orders")
		return
	}

	writeJSONResponse(h.logger, w, http.StatusOK, orders)
}

// GetOrderByID handles GET /api/v1/orders/{id}
func (h *OrderHandler) GetOrderByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	order, err := h.orderService.GetOrderByID(id)
	if err != nil {
		h.logger.Warn("Order not found", "id", id, "error", err)
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSONResponse(h.logger, w, http.StatusOK, order)
}

// UpdateProgress handles PUT /api/v1/orders/{id}/progress
func (h *OrderHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var progressReq service.UpdateProgressRequest
	if err := parseRequestBody(r, &progressReq); err != nil {
		h.logger.Warn("Invalid request body for progress update", "error", err)
		writeErrorResponse(h.logger, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := h.orderService.UpdateOrderProgress(id, progressReq)
	if err != nil {
		h.logger.Warn("Failed to update order progress", "id", id, "error", err)
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSONResponse(h.logger, w, http.StatusOK, order)
}

// UpdateStatus handles PUT /api/v1/orders/{id}/status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var statusReq service.UpdateStatusRequest
	if err := parseRequestBody(r, &statusReq); err != nil {
		h.logger.Warn("Invalid request body for status update", "error", err)
		writeErrorResponse(h.logger, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	order, err := h.orderService.UpdateOrderStatus(id, statusReq)
	if err != nil {
		h.logger.Warn("Failed to update order status", "id", id, "error", err)
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSONResponse(h.logger, w, http.StatusOK, order)
}

// GetOrderCost handles GET /api/v1/orders/{id}/cost
func (h *OrderHandler) GetOrderCost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	estimate, err := h.orderService.EstimateOrderCost(id)
	if err != nil {
		h.logger.Warn("Failed to estimate order cost", "id", id, "error", err)
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSONResponse(h.logger, w, http.StatusOK, estimate)
}
