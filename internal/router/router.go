package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/manish-terminal/Elastomechwork/internal/handler"
	"github.com/manish-terminal/Elastomechwork/pkg/database"
	"github.com/manish-terminal/Elastomechwork/pkg/logger"
)

// NewRouter wires all API routes onto a chi router.
func NewRouter(orderHandler *handler.OrderHandler, formulaHandler *handler.FormulaHandler, inventoryHandler *handler.InventoryHandler, db *database.DB, log *logger.Logger) http.Handler {
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", orderHandler.GetAllOrders)
			r.Post("/", orderHandler.CreateOrder)
			r.Get("/{id}", orderHandler.GetOrderByID)
			r.Put("/{id}/progress", orderHandler.UpdateProgress)
			r.Put("/{id}/status", orderHandler.UpdateStatus)
			r.Get("/{id}/cost", orderHandler.GetOrderCost)
		})

		r.Route("/formulas", func(r chi.Router) {
			r.Get("/", formulaHandler.GetAllFormulas)
			r.Post("/", formulaHandler.CreateFormula)
			r.Get("/{id}", formulaHandler.GetFormulaByID)
			r.Put("/{id}", formulaHandler.UpdateFormula)
			r.Delete("/{id}", formulaHandler.DeleteFormula)
		})

		r.Route("/inventory", func(r chi.Router) {
			r.Get("/", inventoryHandler.GetAllItems)
			r.Post("/", inventoryHandler.CreateItem)
			r.Get("/{id}", inventoryHandler.GetItemByID)
			r.Put("/{id}", inventoryHandler.UpdateItem)
			r.Delete("/{id}", inventoryHandler.DeleteItem)
			r.Patch("/{name}/adjust", inventoryHandler.AdjustStock)
		})

		r.Get("/reports/stock-value", inventoryHandler.GetStockValuation)

		r.Get("/health", healthHandler(db, log))
	})

	return r
}

// healthHandler reports database reachability.
func healthHandler(db *database.DB, log *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if db == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"degraded","database":"not connected"}`))
			return
		}

		if err := db.HealthCheck(); err != nil {
			log.Warn("Health check failed", "error", err)
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"degraded","database":"unreachable"}`))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}
}
