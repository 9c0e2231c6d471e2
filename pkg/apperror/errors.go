package apperror

import (
	"fmt"
	"math/big"
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

// ---- Ledger State & Arguments (LED) ----

func ErrDepositExists(id string) *AppError {
	return New("LED_001", fmt.Sprintf("Deposit %s already exists", id), http.StatusConflict)
}

func ErrDepositNotFound(id string) *AppError {
	return New("LED_002", fmt.Sprintf("Deposit %s not found", id), http.StatusNotFound)
}

func ErrBatchLengthMismatch() *AppError {
	return New("LED_003", "Identifier and amount sequences must be non-empty and of equal length", http.StatusBadRequest)
}

func ErrZeroAmount() *AppError {
	return New("LED_004", "Deposit amounts must be non-zero", http.StatusBadRequest)
}

func ErrOversizedTotal(total *big.Int) *AppError {
	return New("LED_005", fmt.Sprintf("Batch total %s exceeds the maximum deposit amount", total), http.StatusBadRequest)
}

// ---- Collaborators: asset transfer (TRF) and yield reserve (RSV) ----

func ErrTransferFromFailed(from, to string, amount *big.Int) *AppError {
	return New("TRF_001",
		fmt.Sprintf("Asset transfer of %s from %s to %s failed", amount, from, to),
		http.StatusBadGateway)
}

func ErrTimestampBeforeLastRateChange() *AppError {
	return New("RSV_001", "Evaluation timestamp precedes the reserve's last rate change", http.StatusConflict)
}

func ErrUnexpectedWithdrawalAmount(requested, paid *big.Int) *AppError {
	return New("RSV_002",
		fmt.Sprintf("Reserve paid %s for a withdrawal of %s", paid, requested),
		http.StatusBadGateway)
}

func ErrReserveUnavailable(err error) *AppError {
	return Wrap("RSV_003", "Yield reserve unavailable", http.StatusBadGateway, err)
}

// ---- Security & Authentication (SEC) ----

func ErrInvalidAccessKey() *AppError {
	return New("SEC_001", "Invalid access key", http.StatusUnauthorized)
}

func ErrInvalidSignature() *AppError {
	return New("SEC_002", "Invalid signature", http.StatusUnauthorized)
}

func ErrTimestampExpired() *AppError {
	return New("SEC_003", "Request timestamp expired", http.StatusForbidden)
}

func ErrNonceUsed() *AppError {
	return New("SEC_004", "Nonce has already been used", http.StatusForbidden)
}

// ---- Authentication & Authorization (AUTH) ----

func ErrInvalidCredentials() *AppError {
	return New("AUTH_001", "Invalid credentials", http.StatusUnauthorized)
}

func ErrUsernameExists() *AppError {
	return New("AUTH_002", "Username already exists", http.StatusConflict)
}

func ErrInvalidToken() *AppError {
	return New("AUTH_003", "Invalid or expired token", http.StatusUnauthorized)
}

func ErrNotOperator(address string) *AppError {
	return New("AUTH_004", fmt.Sprintf("Address %s does not hold the operator capability", address), http.StatusForbidden)
}

func ErrInvalidReceiver(address string) *AppError {
	return New("AUTH_005", fmt.Sprintf("Address %s does not hold the receiver capability", address), http.StatusForbidden)
}

func ErrOperatorSuspended() *AppError {
	return New("AUTH_006", "Operator account is suspended", http.StatusForbidden)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

func ErrLockTimeout(err error) *AppError {
	return Wrap("SYS_002", "Lock acquisition timeout", http.StatusServiceUnavailable, err)
}

func ErrEncryptionFailure(err error) *AppError {
	return Wrap("SYS_003", "Encryption service failure", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a LED_003-style validation error.
func Validation(message string) *AppError {
	return New("LED_003", message, http.StatusBadRequest)
}
