package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/banker/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest       = "INVALID_REQUEST"
	CodeInvalidName          = "INVALID_NAME"
	CodeDuplicateName        = "DUPLICATE_NAME"
	CodeInvalidAvatar        = "INVALID_AVATAR"
	CodeUnknownCurrency      = "UNKNOWN_CURRENCY"
	CodeInvalidAmount        = "INVALID_AMOUNT"
	CodeInvalidTarget        = "INVALID_TARGET"
	CodeUnknownOperation     = "UNKNOWN_OPERATION"
	CodeUnknownInsurance     = "UNKNOWN_INSURANCE"
	CodeValidation           = "VALIDATION_ERROR"
	CodeInsufficientFunds    = "INSUFFICIENT_FUNDS"
	CodeLoanNotActive        = "LOAN_NOT_ACTIVE"
	CodeInsuranceHeld        = "INSURANCE_ALREADY_HELD"
	CodeInsuranceNotHeld     = "INSURANCE_NOT_HELD"
	CodeAlreadyClaimed       = "ALREADY_CLAIMED"
	CodeAlreadyOwned         = "ALREADY_OWNED"
	CodeFurnitureNeedsHome   = "FURNITURE_WITHOUT_APARTMENT"
	CodePreconditionFailed   = "PRECONDITION_FAILED"
	CodePlayerNotFound       = "PLAYER_NOT_FOUND"
	CodeNotFound             = "NOT_FOUND"
	CodeConfirmationRequired = "CONFIRMATION_REQUIRED"
	CodeRateLimited          = "RATE_LIMITED"
	CodeInternalError        = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status an error is reported with
func Status(err error) int {
	return toHTTPError(err).status
}

// specific maps each known sentinel to its stable code
var specific = []struct {
	err  error
	code string
}{
	{model.ErrInvalidName, CodeInvalidName},
	{model.ErrDuplicateName, CodeDuplicateName},
	{model.ErrInvalidAvatar, CodeInvalidAvatar},
	{model.ErrUnknownCurrency, CodeUnknownCurrency},
	{model.ErrInvalidAmount, CodeInvalidAmount},
	{model.ErrInvalidTarget, CodeInvalidTarget},
	{model.ErrUnknownOperation, CodeUnknownOperation},
	{model.ErrUnknownInsurance, CodeUnknownInsurance},
	{model.ErrInsufficientFunds, CodeInsufficientFunds},
	{model.ErrLoanNotActive, CodeLoanNotActive},
	{model.ErrInsuranceAlreadyHeld, CodeInsuranceHeld},
	{model.ErrInsuranceNotHeld, CodeInsuranceNotHeld},
	{model.ErrAlreadyClaimed, CodeAlreadyClaimed},
	{model.ErrAlreadyOwned, CodeAlreadyOwned},
	{model.ErrFurnitureWithoutApartment, CodeFurnitureNeedsHome},
	{model.ErrPlayerNotFound, CodePlayerNotFound},
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	status, fallback := categoryOf(err)
	if status == http.StatusInternalServerError {
		return &httpError{status, APIError{CodeInternalError, "Internal server error"}}
	}

	code := fallback
	for _, s := range specific {
		if errors.Is(err, s.err) {
			code = s.code
			break
		}
	}
	return &httpError{status, APIError{code, err.Error()}}
}

// categoryOf maps an error category to its status and generic code
func categoryOf(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrValidation):
		return http.StatusBadRequest, CodeValidation
	case errors.Is(err, model.ErrPreconditionFailed):
		return http.StatusConflict, CodePreconditionFailed
	case errors.Is(err, model.ErrNotFound):
		return http.StatusNotFound, CodeNotFound
	default:
		return http.StatusInternalServerError, CodeInternalError
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewConfirmationRequiredError is returned when a destructive call lacks confirmation
func NewConfirmationRequiredError() error {
	return &httpError{http.StatusPreconditionRequired, APIError{CodeConfirmationRequired, "confirmation required"}}
}

// NewRateLimitedError creates a too many requests error
func NewRateLimitedError() error {
	return &httpError{http.StatusTooManyRequests, APIError{CodeRateLimited, "rate limit exceeded"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
