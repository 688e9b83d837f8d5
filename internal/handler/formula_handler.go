package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/manish-terminal/Elastomechwork/internal/service"
	"github.com/manish-terminal/Elastomechwork/pkg/logger"
)

type FormulaHandler struct {
	formulaService service.FormulaServiceInterface
	logger         *logger.Logger
}

func NewFormulaHandler(formulaService service.FormulaServiceInterface, logger *logger.Logger) *FormulaHandler {
	return &FormulaHandler{
		formulaService: formulaService,
		logger:         logger.WithComponent("formula_handler"),
	}
}

// GetAllFormulas handles GET /api/v1/formulas
func (h *FormulaHandler) GetAllFormulas(w http.ResponseWriter, r *http.Request) {
	formulas, err := h.formulaService.GetAllFormulas()
	if err != nil {
		h.logger.Error("Failed to get all formulas", "error", err)
		writeErrorResponse(h.logger, w, http.StatusInternalServerError, "Failed to fetch formulas")
		return
	}

	writeJSONResponse(h.logger, w, http.StatusOK, formulas)
}

// GetFormulaByID handles GET /api/v1/formulas/{id}
func (h *FormulaHandler) GetFormulaByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	formula, err := h.formulaService.GetFormulaByID(id)
	if err != nil {
		h.logger.Warn("Formula not found", "id", id, "error", err)
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSONResponse(h.logger, w, http.StatusOK, formula)
}

// CreateFormula handles POST /api/v1/formulas
func (h *FormulaHandler) CreateFormula(w http.ResponseWriter, r *http.Request) {
	var createReq service.CreateFormulaRequest
	if err := parseRequestBody(r, &createReq); err != nil {
		h.logger.Warn("Invalid request body for create formula", "error", err)
		writeErrorResponse(h.logger, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	formula, err := h.formulaService.CreateFormula(createReq)
	if err != nil {
		h.logger.Warn("Failed to create formula", "error", err)
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSONResponse(h.logger, w, http.StatusCreated, formula)
}

// UpdateFormula handles PUT /api/v1/formulas/{id}
func (h *FormulaHandler) UpdateFormula(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var updateReq service.CreateFormulaRequest
	if err := parseRequestBody(r, &updateReq); err != nil {
		h.logger.Warn("Invalid request body for update formula", "error", err)
		writeErrorResponse(h.logger, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	formula, err := h.formulaService.UpdateFormula(id, updateReq)
	if err != nil {
		h.logger.Warn("Failed to update formula", "id", id, "error", err)
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSONResponse(h.logger, w, http.StatusOK, formula)
}

// DeleteFormula handles DELETE /api/v1/formulas/{id}
func (h *FormulaHandler) DeleteFormula(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.formulaService.DeleteFormula(id); err != nil {
		h.logger.Warn("Failed to delete formula", "id", id, "error", err)
		writeDomainError(h.logger, w, err)
		return
	}

	writeJSONResponse(h.logger, w, http.StatusOK, map[string]interface{}{"formula_id": id, "message": "Formula deleted"})
}
