package http

import (
	"net/http"

	"github.com/m-mizutani/labpush/pkg/domain/model"
	"github.com/m-mizutani/labpush/pkg/domain/types"
)

// newHealthHandler handles health check requests
func newHealthHandler(transportStatus func() string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, &model.HealthStatus{
			Status:    "healthy",
			Service:   types.ServiceName,
			Version:   types.Version,
			Transport: transportStatus(),
		})
	}
}

func handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(types.ServiceName + " is running"))
}
