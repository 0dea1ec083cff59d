package errs

import (
	"errors"
	"net/http"
)

// Sentinel errors returned by the data layer. Services translate them into
// ApiErr values with the right status code and a user-facing message.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrForbidden        = errors.New("operation not allowed")
	ErrValidation       = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrConflict         = errors.New("resource conflict")
	ErrCommentsDisabled = errors.New("comments are disabled for this blog")
)

// ApiErr is an error carrying the HTTP status code it should surface as.
type ApiErr struct {
	StatusCode int
	err        error
}

func NewApiErr(statusCode int, message string) *ApiErr {
	return &ApiErr{StatusCode: statusCode, err: errors.New(message)}
}

func (e *ApiErr) Error() string {
	return e.err.Error()
}

// Unwrap lets errors.Is match an ApiErr against the sentinels above.
func (e *ApiErr) Unwrap() error {
	return e.err
}

func NewValidationError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusBadRequest, err: errors.New(message)}
}

func NewUnauthorizedError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusUnauthorized, err: errors.New(message)}
}

func NewForbiddenError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusForbidden, err: errors.New(message)}
}

func NewNotFoundError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusNotFound, err: errors.New(message)}
}

func NewConflictError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusConflict, err: errors.New(message)}
}

func NewInternalError(message string) *ApiErr {
	return &ApiErr{StatusCode: http.StatusInternalServerError, err: errors.New(message)}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}
