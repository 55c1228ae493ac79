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

// AlertHandler handles HTTP requests for price alert and monitor control
// endpoints.
type AlertHandler struct {
	alertService *service.AlertService
	monitor      *service.Monitor
}

// NewAlertHandler creates a new AlertHandler with the provided dependencies.
func NewAlertHandler(alertService *service.AlertService, monitor *service.Monitor) *AlertHandler {
	return &AlertHandler{
		alertService: alertService,
		monitor:      monitor,
	}
}

// ListAlerts handles GET requests to retrieve price alerts, optionally
// filtered by status and symbol.
//
// Endpoint: GET /api/alert?status=&symbol=
// Response: 200 OK with array of PriceAlert
// Error: 500 Internal Server Error if retrieval fails
func (h *AlertHandler) ListAlerts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	alerts, err := h.alertService.ListAlerts(q.Get("status"), q.Get("symbol"))
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveAlerts.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, alerts)
}

// GetAlert handles GET requests to retrieve a single alert by ID.
//
// Endpoint: GET /api/alert/{uuid}
// Response: 200 OK with PriceAlert
// Error: 404 Not Found if the alert does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *AlertHandler) GetAlert(w http.ResponseWriter, r *http.Request) {
	alertID := chi.URLParam(r, "uuid")

	alert, err := h.alertService.GetAlert(alertID)
	if err != nil {
		if errors.Is(err, apperrors.ErrAlertNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrAlertNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveAlerts.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, alert)
}

// CreateAlert handles POST requests to arm a new price alert.
//
// Endpoint: POST /api/alert
// Request Body: CreateAlertRequest
// Response: 201 Created with PriceAlert
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *AlertHandler) CreateAlert(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateAlertRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateAlert(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	alert, err := h.alertService.CreateAlert(model.PriceAlert{
		Symbol:             req.Symbol,
		AlertType:          req.AlertType,
		TargetPrice:        req.TargetPrice,
		NotificationMethod: req.NotificationMethod,
		EmailAddress:       req.EmailAddress,
		PlannedAction:      req.PlannedAction,
		PlannedShares:      req.PlannedShares,
		PlannedNotes:       req.PlannedNotes,
	})
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to create price alert", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, alert)
}

// SetStatus handles PUT requests to activate or disable an alert. The
// triggered status is reserved for the monitor and cannot be set here.
//
// Endpoint: PUT /api/alert/{uuid}/status
// Request Body: SetAlertStatusRequest
// Response: 200 OK with the updated alert
// Error: 400 Bad Request if the status is invalid
// Error: 404 Not Found if the alert does not exist
// Error: 500 Internal Server Error if the update fails
func (h *AlertHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	alertID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.SetAlertStatusRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSetAlertStatus(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	if err := h.alertService.SetStatus(alertID, req.Status); err != nil {
		if errors.Is(err, apperrors.ErrAlertNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrAlertNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to update alert status", err.Error())
		return
	}

	alert, err := h.alertService.GetAlert(alertID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveAlerts.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, alert)
}

// DeleteAlert handles DELETE requests to remove an alert.
//
// Endpoint: DELETE /api/alert/{uuid}
// Response: 204 No Content on successful deletion
// Error: 404 Not Found if the alert does not exist
// Error: 500 Internal Server Error if deletion fails
func (h *AlertHandler) DeleteAlert(w http.ResponseWriter, r *http.Request) {
	alertID := chi.URLParam(r, "uuid")

	if err := h.alertService.DeleteAlert(alertID); err != nil {
		if errors.Is(err, apperrors.ErrAlertNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrAlertNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to delete price alert", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// StartMonitor handles POST requests to start the background price
// monitoring loop. Starting an already running monitor is a no-op.
//
// Endpoint: POST /api/monitor/start
// Response: 200 OK with MonitorInfo
func (h *AlertHandler) StartMonitor(w http.ResponseWriter, _ *http.Request) {
	h.monitor.Start()
	response.RespondJSON(w, http.StatusOK, h.monitor.Info())
}

// StopMonitor handles POST requests to stop the monitoring loop. Stopping
// an already stopped monitor is a no-op.
//
// Endpoint: POST /api/monitor/stop
// Response: 200 OK with MonitorInfo
func (h *AlertHandler) StopMonitor(w http.ResponseWriter, _ *http.Request) {
	h.monitor.Stop()
	response.RespondJSON(w, http.StatusOK, h.monitor.Info())
}

// MonitorStatus handles GET requests for the monitor's current state:
// whether it is running, the active alert count, and the derived check
// interval.
//
// Endpoint: GET /api/monitor/status
// Response: 200 OK with MonitorInfo
func (h *AlertHandler) MonitorStatus(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.monitor.Info())
}

// CheckNow handles POST requests to run one alert evaluation cycle
// immediately, regardless of whether the monitor loop is running.
//
// Endpoint: POST /api/monitor/check
// Response: 200 OK with the number of alerts triggered
// Error: 500 Internal Server Error if the check fails
func (h *AlertHandler) CheckNow(w http.ResponseWriter, r *http.Request) {
	triggered, err := h.monitor.CheckNow(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to check alerts", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]int{"triggered": triggered})
}
