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

// DividendHandler handles HTTP requests for dividend endpoints.
type DividendHandler struct {
	dividendService *service.DividendService
}

// NewDividendHandler creates a new DividendHandler with the provided service dependency.
func NewDividendHandler(dividendService *service.DividendService) *DividendHandler {
	return &DividendHandler{
		dividendService: dividendService,
	}
}

// ListDividends handles GET requests to retrieve dividend records,
// optionally filtered by account and symbol.
//
// Endpoint: GET /api/dividend?account=&symbol=
// Response: 200 OK with array of Dividend
// Error: 500 Internal Server Error if retrieval fails
func (h *DividendHandler) ListDividends(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dividends, err := h.dividendService.ListDividends(q.Get("account"), q.Get("symbol"))
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveDividends.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, dividends)
}

// GetDividend handles GET requests to retrieve a single dividend record.
//
// Endpoint: GET /api/dividend/{uuid}
// Response: 200 OK with Dividend
// Error: 404 Not Found if the dividend does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *DividendHandler) GetDividend(w http.ResponseWriter, r *http.Request) {
	dividendID := chi.URLParam(r, "uuid")

	dividend, err := h.dividendService.GetDividend(dividendID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDividendNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrDividendNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveDividends.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, dividend)
}

// CreateDividend handles POST requests to record a dividend payment. The
// net-of-tax income flow is written atomically with the record.
//
// Endpoint: POST /api/dividend
// Request Body: CreateDividendRequest
// Response: 201 Created with Dividend
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *DividendHandler) CreateDividend(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateDividendRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateDividend(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	exDate, _ := parseDate(req.ExDividendDate)
	dividend := model.Dividend{
		Symbol:           req.Symbol,
		AccountName:      req.AccountName,
		ExDividendDate:   exDate,
		DividendPerShare: req.DividendPerShare,
		SharesHeld:       req.SharesHeld,
		TaxWithheld:      req.TaxWithheld,
		Notes:            req.Notes,
	}
	if req.PaymentDate != "" {
		paymentDate, _ := parseDate(req.PaymentDate)
		dividend.PaymentDate = &paymentDate
	}

	created, err := h.dividendService.RecordDividend(dividend)
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrAccountNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to create dividend", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, created)
}

// DeleteDividend handles DELETE requests to remove a dividend record.
//
// Endpoint: DELETE /api/dividend/{uuid}
// Response: 204 No Content on successful deletion
// Error: 404 Not Found if the dividend does not exist
// Error: 500 Internal Server Error if deletion fails
func (h *DividendHandler) DeleteDividend(w http.ResponseWriter, r *http.Request) {
	dividendID := chi.URLParam(r, "uuid")

	if err := h.dividendService.DeleteDividend(dividendID); err != nil {
		if errors.Is(err, apperrors.ErrDividendNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrDividendNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to delete dividend", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
