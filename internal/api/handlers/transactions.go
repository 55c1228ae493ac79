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

// TransactionHandler handles HTTP requests for stock trade endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the transactionService.
type TransactionHandler struct {
	transactionService *service.TransactionService
	summaryService     *service.SummaryService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependencies.
func NewTransactionHandler(transactionService *service.TransactionService, summaryService *service.SummaryService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		summaryService:     summaryService,
	}
}

// ListTransactions handles GET requests to retrieve trades, optionally
// filtered by account, symbol, and date range via query parameters.
//
// Endpoint: GET /api/transaction?account=&symbol=&start=&end=
// Response: 200 OK with array of Transaction
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	transactions, err := h.transactionService.ListTransactions(repository.TransactionFilter{
		AccountName: q.Get("account"),
		Symbol:      q.Get("symbol"),
		StartDate:   q.Get("start"),
		EndDate:     q.Get("end"),
	})
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// GetTransaction handles GET requests to retrieve a single trade by ID.
//
// Endpoint: GET /api/transaction/{uuid}
// Response: 200 OK with Transaction
// Error: 400 Bad Request if the trade ID is invalid (validated by middleware)
// Error: 404 Not Found if the trade does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "uuid")

	transaction, err := h.transactionService.GetTransaction(transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}

// CreateTransaction handles POST requests to record a new trade. The ledger
// row and its derived cash flows are written in one database transaction.
//
// Endpoint: POST /api/transaction
// Request Body: CreateTransactionRequest
// Response: 201 Created with Transaction
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	date, _ := parseDate(req.Date)
	transaction, err := h.transactionService.CreateTransaction(model.Transaction{
		Date:        date,
		AccountName: req.AccountName,
		Symbol:      req.Symbol,
		Side:        req.Side,
		Price:       req.Price,
		Shares:      req.Shares,
		Commission:  req.Commission,
		Notes:       req.Notes,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrAccountNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to create transaction", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, transaction)
}

// PreviewImpact handles POST requests to preview the cash flows a trade
// would generate, without persisting anything.
//
// Endpoint: POST /api/transaction/preview
// Request Body: CreateTransactionRequest
// Response: 200 OK with TransactionImpact
// Error: 400 Bad Request if validation fails or request body is invalid
func (h *TransactionHandler) PreviewImpact(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	date, _ := parseDate(req.Date)
	impact, err := h.transactionService.PreviewImpact(model.Transaction{
		Date:        date,
		AccountName: req.AccountName,
		Symbol:      req.Symbol,
		Side:        req.Side,
		Price:       req.Price,
		Shares:      req.Shares,
		Commission:  req.Commission,
	})
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to preview transaction", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, impact)
}

// Simulate handles POST requests to evaluate a hypothetical trade against
// the current position and available cash.
//
// Endpoint: POST /api/transaction/simulate
// Request Body: SimulateTransactionRequest
// Response: 200 OK with SimulationResult
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if simulation fails
func (h *TransactionHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SimulateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSimulateTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	result, err := h.summaryService.Simulate(r.Context(), req.AccountName, req.Symbol, req.Side, req.Shares, req.Price)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrAccountNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to simulate transaction", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// UpdateTransaction handles PUT requests to correct an existing trade.
// Cash flows generated at creation time are not rewritten; delete and
// re-create the trade to regenerate them.
//
// Endpoint: PUT /api/transaction/{uuid}
// Request Body: UpdateTransactionRequest (all fields optional)
// Response: 200 OK with updated Transaction
// Error: 400 Bad Request if the trade ID is invalid or validation fails
// Error: 404 Not Found if the trade does not exist
// Error: 500 Internal Server Error if update fails
func (h *TransactionHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	transaction, err := h.transactionService.GetTransaction(transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	if req.Date != nil {
		transaction.Date, _ = parseDate(*req.Date)
	}
	if req.AccountName != nil {
		transaction.AccountName = *req.AccountName
	}
	if req.Symbol != nil {
		transaction.Symbol = *req.Symbol
	}
	if req.Side != nil {
		transaction.Side = *req.Side
	}
	if req.Price != nil {
		transaction.Price = *req.Price
	}
	if req.Shares != nil {
		transaction.Shares = *req.Shares
	}
	if req.Commission != nil {
		transaction.Commission = *req.Commission
	}
	if req.Notes != nil {
		transaction.Notes = *req.Notes
	}

	if err := h.transactionService.UpdateTransaction(transaction); err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to update transaction", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}

// DeleteTransaction handles DELETE requests to remove a trade. Cash flows
// derived from the trade are reported in the response but intentionally
// kept, so the account's cash history stays auditable.
//
// Endpoint: DELETE /api/transaction/{uuid}
// Response: 200 OK with the orphaned cash flows
// Error: 400 Bad Request if the trade ID is invalid (validated by middleware)
// Error: 404 Not Found if the trade does not exist
// Error: 500 Internal Server Error if deletion fails
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "uuid")

	orphanedFlows, err := h.transactionService.DeleteTransaction(transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrTransactionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTransactionNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to delete transaction", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"deleted":       transactionID,
		"orphanedFlows": orphanedFlows,
	})
}

// ListSymbols handles GET requests for the distinct symbols traded in an
// account.
//
// Endpoint: GET /api/transaction/symbols?account=
// Response: 200 OK with array of symbol strings
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) ListSymbols(w http.ResponseWriter, r *http.Request) {
	symbols, err := h.transactionService.ListSymbols(r.URL.Query().Get("account"))
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTransactions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, symbols)
}
