// Package respond maps domain results and errors onto HTTP responses.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/kitty/internal/budget"
	"github.com/MrJamesThe3rd/kitty/internal/domain"
	"github.com/MrJamesThe3rd/kitty/internal/goal"
	"github.com/MrJamesThe3rd/kitty/internal/transaction"
	"github.com/MrJamesThe3rd/kitty/internal/user"
)

// JSON writes v as a JSON response body.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error translates the domain error taxonomy: validation errors are bad
// requests, not-found sentinels are 404, other state errors are conflicts,
// anything else is an internal error with the detail kept out of the body.
func Error(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case isNotFound(err):
		http.Error(w, err.Error(), http.StatusNotFound)
	case domain.IsState(err):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		slog.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, transaction.ErrNotFound) ||
		errors.Is(err, budget.ErrNotFound) ||
		errors.Is(err, goal.ErrNotFound) ||
		errors.Is(err, user.ErrNotFound)
}
