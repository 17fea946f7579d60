package orderstore

import (
	"errors"
)

var (
	// ErrNilDatabaseConnection is returned when a store is constructed without a database handle.
	ErrNilDatabaseConnection = errors.New("database connection must not be nil")

	// ErrEmptyOrdersTableName is returned when an empty orders table name is configured.
	ErrEmptyOrdersTableName = errors.New("empty orders table name supplied")

	// ErrEmptyCustomersTableName is returned when an empty customers table name is configured.
	ErrEmptyCustomersTableName = errors.New("empty customers table name supplied")

	// ErrValidation marks any boundary validation failure: required field missing,
	// value outside an enumeration, or numeric constraint violated.
	// It is surfaced before any persistence attempt.
	ErrValidation = errors.New("validation failed")

	// ErrOrderNotFound is returned when a referenced serial number does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrCustomerNotFound is returned when a referenced customer does not exist.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrCustomerExists is returned on create/rename when another customer
	// already carries the same case-insensitive, whitespace-normalized name.
	ErrCustomerExists = errors.New("a customer with this name already exists (customer names are case-insensitive)")

	// ErrPersistence wraps any underlying transaction failure. The original
	// cause is logged, never propagated verbatim to the caller.
	ErrPersistence = errors.New("persistence operation failed")

	// ErrBuildingQueryFailed is returned when SQL generation fails.
	ErrBuildingQueryFailed = errors.New("building sql query failed")

	// ErrQueryingOrdersFailed is returned when a read query fails to execute.
	ErrQueryingOrdersFailed = errors.New("querying orders failed")

	// ErrScanningDBRowFailed is returned when a result row cannot be scanned.
	ErrScanningDBRowFailed = errors.New("scanning database row failed")

	// ErrCacheMiss is returned by Cache.Get when no entry exists for the key.
	ErrCacheMiss = errors.New("cache miss")
)

// ValidationError carries a caller-facing message for one rejected input.
// It unwraps to ErrValidation so callers can classify it with errors.Is.
type ValidationError struct {
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

func (e ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError builds a ValidationError with the given message.
func NewValidationError(message string) error {
	return ValidationError{Message: message}
}

// MutationResult is the caller-facing outcome of every mutating operation.
// Errors are plain string messages, not structured codes; Data is always nil
// and exists to keep the response shape stable for the UI layer.
type MutationResult struct {
	Data  any     `json:"data"`
	Error *string `json:"error"`
}

// OKResult builds a successful MutationResult.
func OKResult() MutationResult {
	return MutationResult{Data: nil, Error: nil}
}

// ErrorResult builds a failed MutationResult from err's message.
func ErrorResult(err error) MutationResult {
	msg := err.Error()
	return MutationResult{Data: nil, Error: &msg}
}
