package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jchenq/portfolio-desk/internal/api/request"
	"github.com/jchenq/portfolio-desk/internal/api/response"
	"github.com/jchenq/portfolio-desk/internal/apperrors"
	"github.com/jchenq/portfolio-desk/internal/model"
	"github.com/jchenq/portfolio-desk/internal/service"
)

// AccountHandler handles HTTP requests for account endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the account and overview services.
type AccountHandler struct {
	accountService  *service.AccountService
	overviewService *service.OverviewService
}

// NewAccountHandler creates a new AccountHandler with the provided service dependencies.
func NewAccountHandler(accountService *service.AccountService, overviewService *service.OverviewService) *AccountHandler {
	return &AccountHandler{
		accountService:  accountService,
		overviewService: overviewService,
	}
}

// ListAccounts handles GET requests to retrieve all accounts.
//
// Endpoint: GET /api/account
// Response: 200 OK with array of Account
// Error: 500 Internal Server Error if retrieval fails
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, _ *http.Request) {
	accounts, err := h.accountService.ListAccounts()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveAccounts.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, accounts)
}

// GetAccount handles GET requests to retrieve one account by name.
//
// Endpoint: GET /api/account/{name}
// Response: 200 OK with Account
// Error: 404 Not Found if the account does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	account, err := h.accountService.GetAccount(name)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrAccountNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveAccounts.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, account)
}

// CreateAccount handles POST requests to register a new trading account.
//
// Endpoint: POST /api/account
// Request Body: CreateAccountRequest
// Response: 201 Created with Account
// Error: 400 Bad Request if the request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateAccountRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if req.Name == "" {
		response.RespondError(w, http.StatusBadRequest, "validation failed", "name is required")
		return
	}

	account, err := h.accountService.CreateAccount(model.Account{
		Name:               req.Name,
		TotalCapital:       req.TotalCapital,
		CashReserve:        req.CashReserve,
		ConditionalReserve: req.ConditionalReserve,
		TargetPositionMin:  req.TargetPositionMin,
		TargetPositionMax:  req.TargetPositionMax,
	})
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to create account", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, account)
}

// UpdateAccount handles PUT requests to adjust an account's capital settings.
//
// Endpoint: PUT /api/account/{name}
// Request Body: UpdateAccountRequest (all fields optional)
// Response: 200 OK with updated Account
// Error: 404 Not Found if the account does not exist
// Error: 500 Internal Server Error if update fails
func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	req, err := parseJSON[request.UpdateAccountRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	account, err := h.accountService.UpdateAccount(name, service.AccountPatch{
		TotalCapital:       req.TotalCapital,
		CashReserve:        req.CashReserve,
		ConditionalReserve: req.ConditionalReserve,
		TargetPositionMin:  req.TargetPositionMin,
		TargetPositionMax:  req.TargetPositionMax,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrAccountNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to update account", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, account)
}

// Overview handles GET requests for the full valuation of one account.
// Returns position summaries, locked and available cash, and capital
// utilization.
//
// Endpoint: GET /api/account/{name}/overview
// Response: 200 OK with AccountOverview
// Error: 404 Not Found if the account does not exist
// Error: 500 Internal Server Error if computation fails
func (h *AccountHandler) Overview(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	overview, err := h.overviewService.AccountOverview(r.Context(), name)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrAccountNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeOverview.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, overview)
}

// AllOverviews handles GET requests for the valuation of every account.
//
// Endpoint: GET /api/account/overview
// Response: 200 OK with array of AccountOverview
// Error: 500 Internal Server Error if computation fails
func (h *AccountHandler) AllOverviews(w http.ResponseWriter, r *http.Request) {
	overviews, err := h.overviewService.AllOverviews(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeOverview.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, overviews)
}
