package handlers

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewMetricsHandler serves the Prometheus registry
func NewMetricsHandler() http.Handler {
	return promhttp.Handler()
}
