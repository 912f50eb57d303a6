package handler

import (
	"errors"
	"net/http"

	"cbrates/internal/domain"
	"cbrates/internal/exchange"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type GetRateResponse struct {
	Currency    string               `json:"currency" example:"USD"`
	CurrentRate float64              `json:"current_rate" example:"93.25"`
	Timestamp   string               `json:"timestamp" example:"28.08.2026 12:00:00"`
	LastRates   []exchange.RateEntry `json:"last_rates"`
}

type ThrottledResponse struct {
	Status      string               `json:"status" example:"error"`
	Currency    string               `json:"currency" example:"USD"`
	Message     string               `json:"message" example:"wait 7 seconds"`
	CurrentRate *float64             `json:"current_rate"`
	LastRates   []exchange.RateEntry `json:"last_rates"`
}

type FallbackResponse struct {
	Status        string               `json:"status" example:"degraded"`
	Currency      string               `json:"currency" example:"USD"`
	Message       string               `json:"message" example:"serving stored data"`
	CurrentRate   *float64             `json:"current_rate"`
	DataSource    *string              `json:"data_source"`
	Timestamp     string               `json:"timestamp" example:"28.08.2026 12:00:00"`
	LastRates     []exchange.RateEntry `json:"last_rates"`
	FallbackError string               `json:"fallback_error,omitempty"`
}

type NotSupportedResponse struct {
	Error     string   `json:"error"`
	Available []string `json:"available" example:"USD,EUR"`
}

// GetRate godoc
// @Summary Get current exchange rate
// @Description Fetch a fresh rate from the upstream source if the cooldown allows it, otherwise serve stored data
// @Tags Rates
// @Produce json
// @Param code path string true "3-letter currency code"
// @Success 200 {object} GetRateResponse
// @Failure 400 {object} NotSupportedResponse
// @Failure 429 {object} ThrottledResponse
// @Failure 503 {object} FallbackResponse
// @Router /currency/{code} [get]
func (h *Handler) GetRate(w http.ResponseWriter, r *http.Request) {
	code := domain.NormalizeCode(chi.URLParam(r, "code"))

	view, err := h.pipeline.Execute(r.Context(), code)
	if err != nil {
		var notSupported *domain.NotSupportedError
		if errors.As(err, &notSupported) {
			writeJSON(w, http.StatusBadRequest, NotSupportedResponse{
				Error:     notSupported.Error(),
				Available: notSupported.Supported,
			})
			return
		}
		msg := "ups, couldn't get rate this time"
		logrus.WithError(err).WithFields(logrus.Fields{"handler": "GetRate", "currency": code}).Error(msg)
		writeError(w, http.StatusInternalServerError, msg)
		return
	}

	switch view.Outcome {
	case exchange.OutcomeFresh:
		writeJSON(w, http.StatusOK, GetRateResponse{
			Currency:    view.Currency,
			CurrentRate: *view.CurrentRate,
			Timestamp:   view.Timestamp,
			LastRates:   view.LastRates,
		})
	case exchange.OutcomeThrottled:
		writeJSON(w, http.StatusTooManyRequests, ThrottledResponse{
			Status:    "error",
			Currency:  view.Currency,
			Message:   view.Message,
			LastRates: view.LastRates,
		})
	case exchange.OutcomeDegraded:
		source := "database"
		writeJSON(w, http.StatusOK, FallbackResponse{
			Status:      "degraded",
			Currency:    view.Currency,
			Message:     view.Message,
			CurrentRate: view.CurrentRate,
			DataSource:  &source,
			Timestamp:   view.Timestamp,
			LastRates:   view.LastRates,
		})
	case exchange.OutcomeUnavailable:
		writeJSON(w, http.StatusServiceUnavailable, FallbackResponse{
			Status:    "error",
			Currency:  view.Currency,
			Message:   view.Message,
			Timestamp: view.Timestamp,
			LastRates: view.LastRates,
		})
	case exchange.OutcomeFailed:
		writeJSON(w, http.StatusServiceUnavailable, FallbackResponse{
			Status:        "error",
			Currency:      view.Currency,
			Message:       view.Message,
			FallbackError: view.FallbackMessage,
			Timestamp:     view.Timestamp,
			LastRates:     view.LastRates,
		})
	default:
		logrus.WithFields(logrus.Fields{"handler": "GetRate", "outcome": view.Outcome}).Error("unknown pipeline outcome")
		writeError(w, http.StatusInternalServerError, "unknown pipeline outcome")
	}
}
