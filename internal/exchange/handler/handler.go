package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"cbrates/internal/exchange"
)

type RatePipeline interface {
	Execute(ctx context.Context, code string) (exchange.View, error)
}

type CurrencyLister interface {
	Supported() []string
}

type Handler struct {
	pipeline RatePipeline
	registry CurrencyLister
}

func NewRateHandler(pipeline RatePipeline, registry CurrencyLister) *Handler {
	return &Handler{pipeline: pipeline, registry: registry}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, statusCode int, errorMsg string) {
	writeJSON(w, statusCode, errorResponse{Error: errorMsg})
}
