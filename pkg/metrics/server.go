package metrics

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Route is an extra handler served next to /metrics.
type Route struct {
	Pattern string
	Handler http.Handler
}

// StartServer serves /metrics and routes on port in the background. The
// returned function shuts the server down.
func (m *Metrics) StartServer(port int, routes ...Route) (shutdown func(context.Context) error) {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", m.Handler())
	for _, r := range routes {
		mux.Handle(r.Pattern, r.Handler)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("metrics server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server error", "error", err)
		}
	}()

	return server.Shutdown
}
