package handlers

import (
	"errors"
	"net/http"

	"github.com/jchenq/portfolio-desk/internal/api/response"
	"github.com/jchenq/portfolio-desk/internal/apperrors"
	"github.com/jchenq/portfolio-desk/internal/service"
)

// ReportHandler handles HTTP requests for periodic report endpoints.
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler with the provided service dependency.
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// Monthly handles GET requests for an account's activity report over one
// calendar month: trade counts, option activity, realized PnL, and cash
// flow totals.
//
// Endpoint: GET /api/report/monthly?account=&month=YYYY-MM
// Response: 200 OK with MonthlyReport
// Error: 400 Bad Request if the month parameter is missing or malformed
// Error: 404 Not Found if the account does not exist
// Error: 500 Internal Server Error if computation fails
func (h *ReportHandler) Monthly(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	report, err := h.reportService.MonthlyReport(q.Get("account"), q.Get("month"))
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrAccountNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrAccountNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrInvalidDate):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDate.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, "failed to build monthly report", err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, report)
}
