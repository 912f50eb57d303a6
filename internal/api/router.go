package api

import (
	_ "cbrates/docs"
	"cbrates/internal/exchange/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swagger "github.com/swaggo/http-swagger"
)

func NewRouter(rateHandler *handler.Handler) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(middleware.Heartbeat("/healthz"))

	// Swagger UI
	router.Get("/swagger/*", swagger.WrapHandler)

	router.Handle("/metrics", promhttp.Handler())

	router.Get("/api/v1/currency/{code:[A-Za-z]{3}}", rateHandler.GetRate)
	router.Get("/api/v1/currencies", rateHandler.GetCurrencies)
	return router
}
