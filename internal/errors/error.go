// Package errors provides the error taxonomy shared by the store-manager services.
package errors

import "errors"

// Wire-level error codes. Every business failure a service returns carries
// exactly one of these, and the REST layer maps them to HTTP statuses.
const (
	CodeInvalidData  = "invalid_data"
	CodeNotFound     = "not_found"
	CodeStockProblem = "stock_problem"
)

// Error is a typed business failure with the code/message pair that ends up
// on the wire. It is recovered locally by handlers, never propagated further.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// NewInvalidData reports malformed input: bad payloads, malformed IDs,
// duplicate names, failed referential checks.
func NewInvalidData(message string) *Error {
	return &Error{Code: CodeInvalidData, Message: message}
}

// NewNotFound reports a well-formed ID with no matching record.
func NewNotFound(message string) *Error {
	return &Error{Code: CodeNotFound, Message: message}
}

// NewStockProblem reports a sale whose quantities exceed available stock.
func NewStockProblem(message string) *Error {
	return &Error{Code: CodeStockProblem, Message: message}
}

// Store-level sentinels. Services translate these into typed Errors.
var ErrProductNotFound = errors.New("product not found")
var ErrSaleNotFound = errors.New("sale not found")
