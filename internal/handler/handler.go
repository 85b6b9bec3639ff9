package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"shopfront/internal/model"

	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeDomainError maps service errors onto stable status codes and messages.
// Business errors carry specific, actionable text; anything unrecognised is a
// storage-layer fault and returns a generic message only.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var (
		validationErr   *model.ValidationError
		notInCartErr    *model.CartProductNotFoundError
		insufficientErr *model.InsufficientStockError
	)

	switch {
	case errors.Is(err, model.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, model.ErrCodeEmptyCart, model.ErrEmptyCart.Message, logger)

	case errors.Is(err, model.ErrProductNotFound):
		writeError(w, http.StatusNotFound, model.ErrCodeNotFound, model.ErrProductNotFound.Message, logger)

	case errors.Is(err, model.ErrOrderNotFound):
		writeError(w, http.StatusNotFound, model.ErrCodeNotFound, model.ErrOrderNotFound.Message, logger)

	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, validationErr.Error(), logger)

	case errors.As(err, &notInCartErr):
		message := fmt.Sprintf("Product %s not found", notInCartErr.ProductID)
		writeError(w, http.StatusBadRequest, model.ErrCodeProductNotFound, message, logger)

	case errors.As(err, &insufficientErr):
		message := fmt.Sprintf("Insufficient stock for %q: %d available",
			insufficientErr.ProductName, insufficientErr.Available)
		writeError(w, http.StatusConflict, model.ErrCodeInsufficientStock, message, logger)

	default:
		logger.Error().Err(err).Msg("internal error")
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
	}
}
