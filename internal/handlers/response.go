// Package handlers implements the panel's JSON HTTP API. Every handler reads
// the tenant, user and role placed in the context by middleware.Auth.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"coaching-backend/internal/repository"
)

// requestTimeout bounds a single handler's storage round trips.
const requestTimeout = 10 * time.Second

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// JSONError writes {"error": message}.
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

func validationFailed(w http.ResponseWriter, errs map[string]string) {
	JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
		"error":   "Validation failed",
		"details": errs,
	})
}

// decode reads a JSON body into dst, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

// storeError maps repository errors onto status codes. what names the
// resource in the 404 message.
func storeError(w http.ResponseWriter, err error, what, action string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		JSONError(w, http.StatusNotFound, what+" not found")
	case errors.Is(err, repository.ErrDuplicate):
		JSONError(w, http.StatusConflict, what+" already exists")
	case errors.Is(err, context.DeadlineExceeded):
		JSONError(w, http.StatusGatewayTimeout, "Request timed out")
	default:
		log.Printf("Failed to %s: %v", action, err)
		JSONError(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

func withTimeout(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), requestTimeout)
}
