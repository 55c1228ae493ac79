package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jchenq/portfolio-desk/internal/api/request"
	"github.com/jchenq/portfolio-desk/internal/api/response"
	"github.com/jchenq/portfolio-desk/internal/apperrors"
	"github.com/jchenq/portfolio-desk/internal/model"
	"github.com/jchenq/portfolio-desk/internal/repository"
	"github.com/jchenq/portfolio-desk/internal/service"
	"github.com/jchenq/portfolio-desk/internal/validation"
)

// CashFlowHandler handles HTTP requests for cash flow endpoints.
type CashFlowHandler struct {
	cashFlowService *service.CashFlowService
}

// NewCashFlowHandler creates a new CashFlowHandler with the provided service dependency.
func NewCashFlowHandler(cashFlowService *service.CashFlowService) *CashFlowHandler {
	return &CashFlowHandler{
		cashFlowService: cashFlowService,
	}
}

// ListCashFlows handles GET requests to retrieve cash flows, optionally
// filtered by account, type, symbol, and date range via query parameters.
//
// Endpoint: GET /api/cashflow?account=&type=&symbol=&start=&end=
// Response: 200 OK with array of CashFlow
// Error: 500 Internal Server Error if retrieval fails
func (h *CashFlowHandler) ListCashFlows(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	flows, err := h.cashFlowService.ListCashFlows(repository.CashFlowFilter{
		AccountName: q.Get("account"),
		FlowType:    q.Get("type"),
		Symbol:      q.Get("symbol"),
		StartDate:   q.Get("start"),
		EndDate:     q.Get("end"),
	})
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveCashFlows.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, flows)
}

// GetCashFlow handles GET requests to retrieve a single cash flow by ID.
//
// Endpoint: GET /api/cashflow/{uuid}
// Response: 200 OK with CashFlow
// Error: 404 Not Found if the cash flow does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *CashFlowHandler) GetCashFlow(w http.ResponseWriter, r *http.Request) {
	flowID := chi.URLParam(r, "uuid")

	flow, err := h.cashFlowService.GetCashFlow(flowID)
	if err != nil {
		if errors.Is(err, apperrors.ErrCashFlowNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrCashFlowNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveCashFlows.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, flow)
}

// CreateCashFlow handles POST requests to record a manual cash movement
// such as a deposit, withdrawal, or interest payment.
//
// Endpoint: POST /api/cashflow
// Request Body: CreateCashFlowRequest
// Response: 201 Created with CashFlow
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *CashFlowHandler) CreateCashFlow(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateCashFlowRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateCashFlow(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	date, _ := parseDate(req.Date)
	flow, err := h.cashFlowService.RecordCashFlow(model.CashFlow{
		Date:        date,
		AccountName: req.AccountName,
		FlowType:    req.FlowType,
		Amount:      req.Amount,
		Symbol:      req.Symbol,
		Description: req.Description,
		Notes:       req.Notes,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrAccountNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to create cash flow", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, flow)
}

// UpdateCashFlow handles PUT requests to correct a manual cash flow.
//
// Endpoint: PUT /api/cashflow/{uuid}
// Request Body: UpdateCashFlowRequest (all fields optional)
// Response: 200 OK with updated CashFlow
// Error: 400 Bad Request if the flow ID is invalid or validation fails
// Error: 404 Not Found if the cash flow does not exist
// Error: 500 Internal Server Error if update fails
func (h *CashFlowHandler) UpdateCashFlow(w http.ResponseWriter, r *http.Request) {
	flowID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateCashFlowRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateCashFlow(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	flow, err := h.cashFlowService.GetCashFlow(flowID)
	if err != nil {
		if errors.Is(err, apperrors.ErrCashFlowNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrCashFlowNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveCashFlows.Error(), err.Error())
		return
	}

	if req.Date != nil {
		flow.Date, _ = parseDate(*req.Date)
	}
	if req.AccountName != nil {
		flow.AccountName = *req.AccountName
	}
	if req.FlowType != nil {
		flow.FlowType = *req.FlowType
	}
	if req.Amount != nil {
		flow.Amount = *req.Amount
	}
	if req.Symbol != nil {
		flow.Symbol = *req.Symbol
	}
	if req.Description != nil {
		flow.Description = *req.Description
	}
	if req.Notes != nil {
		flow.Notes = *req.Notes
	}

	if err := h.cashFlowService.UpdateCashFlow(flow); err != nil {
		if errors.Is(err, apperrors.ErrCashFlowNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrCashFlowNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to update cash flow", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, flow)
}

// DeleteCashFlow handles DELETE requests to remove a cash flow entry.
//
// Endpoint: DELETE /api/cashflow/{uuid}
// Response: 204 No Content on successful deletion
// Error: 404 Not Found if the cash flow does not exist
// Error: 500 Internal Server Error if deletion fails
func (h *CashFlowHandler) DeleteCashFlow(w http.ResponseWriter, r *http.Request) {
	flowID := chi.URLParam(r, "uuid")

	if err := h.cashFlowService.DeleteCashFlow(flowID); err != nil {
		if errors.Is(err, apperrors.ErrCashFlowNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrCashFlowNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to delete cash flow", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Statement handles GET requests for a classified cash flow statement over
// a date range. Flows are grouped into investing, income, financing, and
// fee buckets whose totals sum to the net change.
//
// Endpoint: GET /api/cashflow/statement?account=&start=&end=
// Response: 200 OK with CashFlowStatement
// Error: 400 Bad Request if the date range is invalid
// Error: 500 Internal Server Error if computation fails
func (h *CashFlowHandler) Statement(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	statement, err := h.cashFlowService.Statement(q.Get("account"), q.Get("start"), q.Get("end"))
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidDateRange) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDateRange.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeStatement.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, statement)
}

// MonthlySummaries handles GET requests for per-month aggregated cash
// flows of an account.
//
// Endpoint: GET /api/cashflow/monthly?account=
// Response: 200 OK with array of MonthlyFlowSummary
// Error: 500 Internal Server Error if computation fails
func (h *CashFlowHandler) MonthlySummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.cashFlowService.MonthlySummaries(r.URL.Query().Get("account"))
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeStatement.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summaries)
}
