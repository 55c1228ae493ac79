package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jchenq/portfolio-desk/internal/api/response"
	"github.com/jchenq/portfolio-desk/internal/apperrors"
	"github.com/jchenq/portfolio-desk/internal/service"
)

// SummaryHandler handles HTTP requests for position summary endpoints.
type SummaryHandler struct {
	summaryService *service.SummaryService
}

// NewSummaryHandler creates a new SummaryHandler with the provided service dependency.
func NewSummaryHandler(summaryService *service.SummaryService) *SummaryHandler {
	return &SummaryHandler{
		summaryService: summaryService,
	}
}

// StockSummaries handles GET requests for per-symbol position summaries in
// an account. Each summary is derived by folding the full trade ledger.
//
// Endpoint: GET /api/summary/stocks?account=
// Response: 200 OK with array of StockSummary
// Error: 500 Internal Server Error if computation fails
func (h *SummaryHandler) StockSummaries(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.summaryService.StockSummaries(r.Context(), r.URL.Query().Get("account"))
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeSummary.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summaries)
}

// SymbolSummary handles GET requests for one symbol's position summary.
//
// Endpoint: GET /api/summary/stocks/{symbol}?account=
// Response: 200 OK with StockSummary
// Error: 500 Internal Server Error if computation fails
func (h *SummaryHandler) SymbolSummary(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	summary, err := h.summaryService.SymbolSummary(r.Context(), r.URL.Query().Get("account"), symbol)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeSummary.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

// OptionSummary handles GET requests for aggregate option statistics of an
// account: premium totals, realized PnL, win rate, and locked capital.
//
// Endpoint: GET /api/summary/options?account=
// Response: 200 OK with OptionSummary
// Error: 500 Internal Server Error if computation fails
func (h *SummaryHandler) OptionSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.summaryService.OptionSummary(r.URL.Query().Get("account"))
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeSummary.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}

// Weights handles GET requests for the market-value weight of each held
// position in an account. Weights sum to one.
//
// Endpoint: GET /api/summary/weights?account=
// Response: 200 OK with array of PortfolioWeight
// Error: 500 Internal Server Error if computation fails
func (h *SummaryHandler) Weights(w http.ResponseWriter, r *http.Request) {
	weights, err := h.summaryService.Weights(r.Context(), r.URL.Query().Get("account"))
	if err != nil {
		if errors.Is(err, apperrors.ErrAccountNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrAccountNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToComputeSummary.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, weights)
}
