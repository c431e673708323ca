package handler

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Route はステータスAPIのルーティングです。リクエストごとにスパンを作ります。
func Route(status StatusSource, registry StrategyRegistry) http.Handler {
	strategies := NewStrategiesHandler(registry)

	mux := http.NewServeMux()
	mux.Handle("GET /healthz", NewHealthHandler())
	mux.Handle("GET /status", NewStatusHandler(status))
	mux.HandleFunc("GET /strategies", strategies.List)
	mux.HandleFunc("PUT /strategies/{name}/priority", strategies.SetPriority)
	return otelhttp.NewHandler(mux, "status")
}
