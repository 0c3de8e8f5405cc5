package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"github.com/stockroom/stockroom/internal/listing"
)

// Sentinel errors for domain layer.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrDuplicate  = errors.New("duplicate entry")
	ErrValidation = errors.New("validation failed")
	ErrBadRequest = errors.New("bad request")
)

// ValidationError carries per-field messages for a rejected payload.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var (
		validationErr *ValidationError
		filterErr     *listing.InvalidFilterError
		configErr     *listing.ConfigurationError
	)
	switch {
	case errors.As(err, &validationErr):
		JSON(w, http.StatusBadRequest, ProblemDetail{
			Title:  "Validation Failed",
			Status: http.StatusBadRequest,
			Detail: "one or more fields are invalid",
			Errors: validationErr.Fields,
		})
	case errors.As(err, &filterErr):
		JSON(w, http.StatusBadRequest, ProblemDetail{
			Title:  "Invalid Filter",
			Status: http.StatusBadRequest,
			Detail: filterErr.Error(),
			Errors: map[string]string{"filter[" + filterErr.Field + "]": "must be a valid " + filterErr.Expected},
		})
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrDuplicate):
		Problem(w, http.StatusConflict, "Duplicate", err.Error())
	case errors.Is(err, ErrValidation), errors.Is(err, ErrBadRequest):
		Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
	case errors.As(err, &configErr):
		logError(logger, "listing misconfigured", err)
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	default:
		logError(logger, "request failed", err)
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}

func logError(logger *slog.Logger, msg string, err error) {
	if logger != nil {
		logger.Error(msg, slog.Any("error", err))
	}
}
