// Package server provides the HTTP REST API for the grant application engine.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/jonathan/grant-assist/internal/autofill"
	"github.com/jonathan/grant-assist/internal/db"
	"github.com/jonathan/grant-assist/internal/engine"
	"github.com/jonathan/grant-assist/internal/schemas"
)

// ErrStoreUnavailable is returned by endpoints that need the database when none is configured.
var ErrStoreUnavailable = errors.New("storage is not configured")

// ErrNotFound indicates a stored resource does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
	Cause   error
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

func (e *ErrValidation) Unwrap() error {
	return e.Cause
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		notFoundErr   *ErrNotFound
		schemaErr     *schemas.ValidationError
		documentErr   *schemas.DocumentError
		idErr         *db.InvalidIDError
		fieldErrs     validator.ValidationErrors
		generationErr *autofill.GenerationError
	)

	switch {
	case errors.As(err, &validationErr),
		errors.As(err, &schemaErr),
		errors.As(err, &documentErr),
		errors.As(err, &idErr),
		errors.As(err, &fieldErrs),
		errors.Is(err, engine.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.Is(err, engine.ErrNoGenerator), errors.Is(err, ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &generationErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
