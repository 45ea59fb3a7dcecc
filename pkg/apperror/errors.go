package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Validation (VAL) ----

// Validation returns a 400 for missing or out-of-range input.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}

func ErrBelowMinimum(operation string, minimum string) *AppError {
	return New("VAL_002", fmt.Sprintf("Minimum %s amount is %s Taka.", operation, minimum), http.StatusBadRequest)
}

// ---- Accounts (ACC) ----

func ErrAccountNotFound(party string) *AppError {
	return New("ACC_001", fmt.Sprintf("%s not found.", party), http.StatusNotFound)
}

func ErrAgentNotFound() *AppError {
	return New("ACC_002", "Agent not found or incorrect role.", http.StatusNotFound)
}

func ErrAgentNotApproved() *AppError {
	return New("ACC_003", "Agent is not approved for transactions.", http.StatusForbidden)
}

func ErrIdentityInUse() *AppError {
	return New("ACC_004", "Email, Mobile, or NID already in use.", http.StatusConflict)
}

// ---- Authorization (AUTH) ----

func ErrIncorrectPin() *AppError {
	return New("AUTH_001", "Incorrect PIN.", http.StatusUnauthorized)
}

func ErrInvalidCredentials() *AppError {
	return New("AUTH_002", "Invalid email or password.", http.StatusUnauthorized)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token.", http.StatusUnauthorized)
}

func ErrAdminOnly() *AppError {
	return New("AUTH_004", "Admin privileges required.", http.StatusForbidden)
}

// ---- Transfers (TXN) ----

func ErrInsufficientFunds() *AppError {
	return New("TXN_001", "Insufficient balance.", http.StatusBadRequest)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded.", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

// InternalError wraps a store or infrastructure failure. The wrapped cause
// is logged server-side only; the client sees a generic message.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error.", http.StatusInternalServerError, err)
}
