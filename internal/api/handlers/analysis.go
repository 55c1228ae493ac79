package handlers

import (
	"errors"
	"net/http"

	"github.com/jchenq/portfolio-desk/internal/api/response"
	"github.com/jchenq/portfolio-desk/internal/apperrors"
	"github.com/jchenq/portfolio-desk/internal/service"
)

// AnalysisHandler handles HTTP requests for correlation and attribution
// analysis endpoints.
type AnalysisHandler struct {
	correlationService *service.CorrelationService
	attributionService *service.AttributionService
}

// NewAnalysisHandler creates a new AnalysisHandler with the provided service dependencies.
func NewAnalysisHandler(correlationService *service.CorrelationService, attributionService *service.AttributionService) *AnalysisHandler {
	return &AnalysisHandler{
		correlationService: correlationService,
		attributionService: attributionService,
	}
}

// Correlation handles GET requests to compute the pairwise correlation
// matrix, clusters, and diversification score for an account's holdings.
// The result is persisted as a snapshot.
//
// Endpoint: GET /api/analysis/correlation?account=&lookback=90
// Response: 200 OK with CorrelationAnalysis
// Error: 422 Unprocessable Entity if fewer than two holdings or too little
// price history is available
// Error: 500 Internal Server Error if computation fails
func (h *AnalysisHandler) Correlation(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")
	lookback := queryInt(r, "lookback", 90)

	analysis, err := h.correlationService.Analyze(r.Context(), account, lookback)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrAccountNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrAccountNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrInsufficientData):
			response.RespondError(w, http.StatusUnprocessableEntity, apperrors.ErrInsufficientData.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeCorrelation.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, analysis)
}

// CorrelationHistory handles GET requests for stored correlation snapshots.
//
// Endpoint: GET /api/analysis/correlation/history?account=&limit=10
// Response: 200 OK with array of CorrelationAnalysis
// Error: 500 Internal Server Error if retrieval fails
func (h *AnalysisHandler) CorrelationHistory(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")
	limit := queryInt(r, "limit", 10)

	snapshots, err := h.correlationService.History(account, limit)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeCorrelation.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, snapshots)
}

// Attribution handles GET requests to decompose an account's return over a
// period into beta contribution and alpha components against a benchmark.
//
// Endpoint: GET /api/analysis/attribution?account=&start=&end=&benchmark=
// Response: 200 OK with AttributionResult
// Error: 400 Bad Request if the date range is missing or invalid
// Error: 422 Unprocessable Entity if too little return history overlaps
// Error: 500 Internal Server Error if computation fails
func (h *AnalysisHandler) Attribution(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	result, err := h.attributionService.Analyze(r.Context(), q.Get("account"), q.Get("start"), q.Get("end"), q.Get("benchmark"))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrAccountNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrAccountNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrInvalidDate), errors.Is(err, apperrors.ErrInvalidDateRange):
			response.RespondError(w, http.StatusBadRequest, err.Error(), err.Error())
		case errors.Is(err, apperrors.ErrInsufficientData):
			response.RespondError(w, http.StatusUnprocessableEntity, apperrors.ErrInsufficientData.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeAttribution.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// AttributionHistory handles GET requests for stored attribution snapshots.
//
// Endpoint: GET /api/analysis/attribution/history?account=&limit=10
// Response: 200 OK with array of AttributionResult
// Error: 500 Internal Server Error if retrieval fails
func (h *AnalysisHandler) AttributionHistory(w http.ResponseWriter, r *http.Request) {
	account := r.URL.Query().Get("account")
	limit := queryInt(r, "limit", 10)

	snapshots, err := h.attributionService.History(account, limit)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeAttribution.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, snapshots)
}
