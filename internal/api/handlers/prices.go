package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jchenq/portfolio-desk/internal/api/request"
	"github.com/jchenq/portfolio-desk/internal/api/response"
	"github.com/jchenq/portfolio-desk/internal/service"
)

// PriceHandler handles HTTP requests for price data, manual overrides,
// history refresh, and provider settings endpoints.
type PriceHandler struct {
	priceService    *service.PriceService
	refreshService  *service.RefreshService
	settingsService *service.SettingsService
}

// NewPriceHandler creates a new PriceHandler with the provided service dependencies.
func NewPriceHandler(
	priceService *service.PriceService,
	refreshService *service.RefreshService,
	settingsService *service.SettingsService,
) *PriceHandler {
	return &PriceHandler{
		priceService:    priceService,
		refreshService:  refreshService,
		settingsService: settingsService,
	}
}

// SetManualPrice handles PUT requests to pin a symbol to a fixed price.
// The override takes precedence over cached and live quotes until cleared.
//
// Endpoint: PUT /api/price/manual
// Request Body: SetManualPriceRequest
// Response: 200 OK
// Error: 400 Bad Request if the symbol or price is invalid
// Error: 500 Internal Server Error if the write fails
func (h *PriceHandler) SetManualPrice(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SetManualPriceRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if strings.TrimSpace(req.Symbol) == "" || req.Price <= 0 {
		response.RespondError(w, http.StatusBadRequest, "validation failed", "symbol and a positive price are required")
		return
	}

	if err := h.priceService.SetManualPrice(req.Symbol, req.Price); err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to set manual price", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": strings.ToUpper(strings.TrimSpace(req.Symbol)),
		"price":  req.Price,
	})
}

// ClearManualPrice handles DELETE requests to remove a manual price
// override.
//
// Endpoint: DELETE /api/price/manual/{symbol}
// Response: 204 No Content
// Error: 500 Internal Server Error if the delete fails
func (h *PriceHandler) ClearManualPrice(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	if err := h.priceService.ClearManualPrice(symbol); err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to clear manual price", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// RefreshSymbol handles POST requests to backfill daily close history for
// one symbol from the live provider.
//
// Endpoint: POST /api/price/refresh/{symbol}
// Response: 200 OK with the number of price points stored
// Error: 500 Internal Server Error if the fetch or store fails
func (h *PriceHandler) RefreshSymbol(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	stored, err := h.refreshService.RefreshSymbol(r.Context(), symbol)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to refresh price history", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"symbol": symbol,
		"stored": stored,
	})
}

// RefreshAll handles POST requests to backfill price history for every
// held symbol plus the benchmark. Per-symbol failures are logged and
// skipped.
//
// Endpoint: POST /api/price/refresh
// Response: 200 OK with the total number of price points stored
// Error: 500 Internal Server Error if the refresh run fails entirely
func (h *PriceHandler) RefreshAll(w http.ResponseWriter, r *http.Request) {
	stored, err := h.refreshService.RefreshAll(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to refresh price history", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]int{"stored": stored})
}

// ListSettings handles GET requests for price provider settings. API keys
// are reported only as a presence flag, never in plaintext.
//
// Endpoint: GET /api/price/settings
// Response: 200 OK with array of PriceSourceSetting
// Error: 500 Internal Server Error if retrieval fails
func (h *PriceHandler) ListSettings(w http.ResponseWriter, _ *http.Request) {
	settings, err := h.settingsService.ListSettings()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to retrieve provider settings", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, settings)
}

// StoreAPIKey handles PUT requests to store a provider API key. The key is
// encrypted at rest.
//
// Endpoint: PUT /api/price/settings/key
// Request Body: StoreAPIKeyRequest
// Response: 204 No Content
// Error: 400 Bad Request if the provider or key is missing
// Error: 500 Internal Server Error if the store fails
func (h *PriceHandler) StoreAPIKey(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.StoreAPIKeyRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if strings.TrimSpace(req.Provider) == "" || strings.TrimSpace(req.APIKey) == "" {
		response.RespondError(w, http.StatusBadRequest, "validation failed", "provider and apiKey are required")
		return
	}

	if err := h.settingsService.StoreAPIKey(req.Provider, req.APIKey); err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to store API key", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// SetProviderEnabled handles PUT requests to enable or disable a price
// provider.
//
// Endpoint: PUT /api/price/settings/{provider}/enabled
// Request Body: SetProviderEnabledRequest
// Response: 204 No Content
// Error: 500 Internal Server Error if the update fails
func (h *PriceHandler) SetProviderEnabled(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")

	req, err := parseJSON[request.SetProviderEnabledRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := h.settingsService.SetEnabled(provider, req.Enabled); err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to update provider settings", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
