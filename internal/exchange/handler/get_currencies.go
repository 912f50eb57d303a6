package handler

import (
	"net/http"
)

type GetCurrenciesResponse struct {
	Currencies []string `json:"currencies" example:"USD,EUR"`
}

// GetCurrencies godoc
// @Summary List supported currencies
// @Description Retrieve all currency codes registered with the service
// @Tags Rates
// @Produce json
// @Success 200 {object} GetCurrenciesResponse
// @Router /currencies [get]
func (h *Handler) GetCurrencies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, GetCurrenciesResponse{
		Currencies: h.registry.Supported(),
	})
}
