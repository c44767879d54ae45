// Package web holds the JSON response helpers shared by the gateway and the
// agent servers.
package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hyperjump/kyoshi/internal/models"
)

// RespondJSON writes data as a JSON body with the given status.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// RespondError writes a JSON error body with the given status.
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]string{"error": message})
}

// ErrorStatus maps a pipeline error to its HTTP status: caller mistakes are
// 400, missing source files 404, everything else 500.
func ErrorStatus(err error) int {
	var inputErr *models.InputError
	switch {
	case errors.As(err, &inputErr):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
