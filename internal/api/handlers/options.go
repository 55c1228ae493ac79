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

// OptionHandler handles HTTP requests for option trade endpoints.
type OptionHandler struct {
	optionService *service.OptionService
}

// NewOptionHandler creates a new OptionHandler with the provided service dependency.
func NewOptionHandler(optionService *service.OptionService) *OptionHandler {
	return &OptionHandler{
		optionService: optionService,
	}
}

// ListOptions handles GET requests to retrieve option trades, optionally
// filtered by account, symbol, and status via query parameters.
//
// Endpoint: GET /api/option?account=&symbol=&status=
// Response: 200 OK with array of OptionTrade
// Error: 500 Internal Server Error if retrieval fails
func (h *OptionHandler) ListOptions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	options, err := h.optionService.ListOptions(repository.OptionFilter{
		AccountName: q.Get("account"),
		Symbol:      q.Get("symbol"),
		Status:      q.Get("status"),
	})
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveOptions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, options)
}

// GetOption handles GET requests to retrieve a single option trade by ID.
//
// Endpoint: GET /api/option/{uuid}
// Response: 200 OK with OptionTrade
// Error: 400 Bad Request if the trade ID is invalid (validated by middleware)
// Error: 404 Not Found if the trade does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *OptionHandler) GetOption(w http.ResponseWriter, r *http.Request) {
	optionID := chi.URLParam(r, "uuid")

	option, err := h.optionService.GetOption(optionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrOptionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrOptionNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveOptions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, option)
}

// OpenOption handles POST requests to record a newly opened option position.
// The premium and opening fee cash flows are written atomically with the
// trade.
//
// Endpoint: POST /api/option
// Request Body: OpenOptionRequest
// Response: 201 Created with OptionTrade
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *OptionHandler) OpenOption(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.OpenOptionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateOpenOption(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	expiration, _ := parseDate(req.ExpirationDate)
	openDate, _ := parseDate(req.OpenDate)
	option, err := h.optionService.OpenOption(model.OptionTrade{
		AccountName:     req.AccountName,
		Symbol:          req.Symbol,
		OptionType:      req.OptionType,
		StrikePrice:     req.StrikePrice,
		ExpirationDate:  expiration,
		PremiumPerShare: req.PremiumPerShare,
		Contracts:       req.Contracts,
		OpenDate:        openDate,
		OpeningFee:      req.OpeningFee,
		Notes:           req.Notes,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrAccountNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to open option trade", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, option)
}

// CloseOption handles POST requests to transition an open option position
// to a terminal status. The transition happens at most once; a repeat close
// returns 409.
//
// Endpoint: POST /api/option/{uuid}/close
// Request Body: CloseOptionRequest
// Response: 200 OK with closed OptionTrade
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if the trade does not exist
// Error: 409 Conflict if the trade is already closed
// Error: 500 Internal Server Error if the close fails
func (h *OptionHandler) CloseOption(w http.ResponseWriter, r *http.Request) {
	optionID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.CloseOptionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCloseOption(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	closeDate, _ := parseDate(req.CloseDate)
	option, err := h.optionService.CloseOption(optionID, service.CloseRequest{
		Status:     req.Status,
		CloseDate:  closeDate,
		ClosePrice: req.ClosePrice,
		ClosingFee: req.ClosingFee,
	})
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrOptionNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrOptionNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrOptionAlreadyClosed):
			response.RespondError(w, http.StatusConflict, apperrors.ErrOptionAlreadyClosed.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to close option trade", err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, option)
}

// UpdateOption handles PUT requests to correct descriptive fields of an
// option trade.
//
// Endpoint: PUT /api/option/{uuid}
// Request Body: UpdateOptionRequest (all fields optional)
// Response: 200 OK with updated OptionTrade
// Error: 400 Bad Request if the trade ID is invalid or validation fails
// Error: 404 Not Found if the trade does not exist
// Error: 500 Internal Server Error if update fails
func (h *OptionHandler) UpdateOption(w http.ResponseWriter, r *http.Request) {
	optionID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateOptionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateOption(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	option, err := h.optionService.GetOption(optionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrOptionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrOptionNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveOptions.Error(), err.Error())
		return
	}

	if req.AccountName != nil {
		option.AccountName = *req.AccountName
	}
	if req.Symbol != nil {
		option.Symbol = *req.Symbol
	}
	if req.OptionType != nil {
		option.OptionType = *req.OptionType
	}
	if req.StrikePrice != nil {
		option.StrikePrice = *req.StrikePrice
	}
	if req.ExpirationDate != nil {
		option.ExpirationDate, _ = parseDate(*req.ExpirationDate)
	}
	if req.PremiumPerShare != nil {
		option.PremiumPerShare = *req.PremiumPerShare
	}
	if req.Contracts != nil {
		option.Contracts = *req.Contracts
	}
	if req.OpenDate != nil {
		option.OpenDate, _ = parseDate(*req.OpenDate)
	}
	if req.OpeningFee != nil {
		option.OpeningFee = *req.OpeningFee
	}
	if req.Notes != nil {
		option.Notes = *req.Notes
	}

	if err := h.optionService.UpdateOption(option); err != nil {
		if errors.Is(err, apperrors.ErrOptionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrOptionNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to update option trade", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, option)
}

// DeleteOption handles DELETE requests to remove an option trade.
//
// Endpoint: DELETE /api/option/{uuid}
// Response: 204 No Content on successful deletion
// Error: 400 Bad Request if the trade ID is invalid (validated by middleware)
// Error: 404 Not Found if the trade does not exist
// Error: 500 Internal Server Error if deletion fails
func (h *OptionHandler) DeleteOption(w http.ResponseWriter, r *http.Request) {
	optionID := chi.URLParam(r, "uuid")

	if err := h.optionService.DeleteOption(optionID); err != nil {
		if errors.Is(err, apperrors.ErrOptionNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrOptionNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to delete option trade", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// ExpiringSoon handles GET requests for open positions that expire within
// the given number of days.
//
// Endpoint: GET /api/option/expiring?days=7
// Response: 200 OK with array of OptionTrade
// Error: 500 Internal Server Error if retrieval fails
func (h *OptionHandler) ExpiringSoon(w http.ResponseWriter, r *http.Request) {
	days := queryInt(r, "days", 7)

	options, err := h.optionService.ExpiringSoon(days)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveOptions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, options)
}
