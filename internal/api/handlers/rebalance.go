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
	"github.com/jchenq/portfolio-desk/internal/validation"
)

// RebalanceHandler handles HTTP requests for position target and rebalance
// planning endpoints.
type RebalanceHandler struct {
	rebalanceService *service.RebalanceService
}

// NewRebalanceHandler creates a new RebalanceHandler with the provided service dependency.
func NewRebalanceHandler(rebalanceService *service.RebalanceService) *RebalanceHandler {
	return &RebalanceHandler{
		rebalanceService: rebalanceService,
	}
}

// ListTargets handles GET requests to retrieve position targets for an
// account, ordered by priority.
//
// Endpoint: GET /api/target?account=
// Response: 200 OK with array of PositionTarget
// Error: 500 Internal Server Error if retrieval fails
func (h *RebalanceHandler) ListTargets(w http.ResponseWriter, r *http.Request) {
	targets, err := h.rebalanceService.ListTargets(r.URL.Query().Get("account"))
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTargets.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, targets)
}

// SetTarget handles PUT requests to create or replace the position target
// for a symbol in an account.
//
// Endpoint: PUT /api/target
// Request Body: SetTargetRequest
// Response: 200 OK with PositionTarget
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if the upsert fails
func (h *RebalanceHandler) SetTarget(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SetTargetRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSetTarget(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	target := model.PositionTarget{
		Symbol:             req.Symbol,
		AccountName:        req.AccountName,
		TargetType:         req.TargetType,
		TargetPercentage:   req.TargetPercentage,
		TargetAmount:       req.TargetAmount,
		TargetShares:       req.TargetShares,
		MaxPercentage:      req.MaxPercentage,
		MaxAmount:          req.MaxAmount,
		MaxShares:          req.MaxShares,
		Priority:           req.Priority,
		RebalanceThreshold: req.RebalanceThreshold,
		Notes:              req.Notes,
	}
	if err := h.rebalanceService.SetTarget(target); err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to set position target", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, target)
}

// DeleteTarget handles DELETE requests to remove a position target.
//
// Endpoint: DELETE /api/target/{symbol}?account=
// Response: 204 No Content on successful deletion
// Error: 404 Not Found if no target exists for the symbol
// Error: 500 Internal Server Error if deletion fails
func (h *RebalanceHandler) DeleteTarget(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	account := r.URL.Query().Get("account")

	if err := h.rebalanceService.DeleteTarget(symbol, account); err != nil {
		if errors.Is(err, apperrors.ErrTargetNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTargetNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to delete position target", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// Plan handles GET requests to compute a rebalance plan: per-target gaps
// between current and target allocation, with buy/sell suggestions ordered
// by priority.
//
// Endpoint: GET /api/rebalance/plan?account=
// Response: 200 OK with RebalancePlan
// Error: 404 Not Found if the account does not exist
// Error: 500 Internal Server Error if computation fails
func (h *RebalanceHandler) Plan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.rebalanceService.Plan(r.Context(), r.URL.Query().Get("account"))
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrAccountNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeRebalance.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, plan)
}

// CheckLimits handles GET requests to evaluate configured position maxima
// against current holdings.
//
// Endpoint: GET /api/rebalance/limits?account=
// Response: 200 OK with array of PositionLimitCheck
// Error: 404 Not Found if the account does not exist
// Error: 500 Internal Server Error if computation fails
func (h *RebalanceHandler) CheckLimits(w http.ResponseWriter, r *http.Request) {
	checks, err := h.rebalanceService.CheckLimits(r.Context(), r.URL.Query().Get("account"))
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrAccountNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeRebalance.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, checks)
}
