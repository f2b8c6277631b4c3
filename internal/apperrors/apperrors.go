// Package apperrors defines the error taxonomy shared by the workflow
// engine and the HTTP layer. Handlers map these to status codes; the
// engine itself never touches gin.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Rule tags carried on Forbidden errors so clients can distinguish
// domain-specific denials from plain permission misses.
const (
	RuleShipperDemandFocus    = "SHIPPER_DEMAND_FOCUS"
	RuleCarrierFinalAuthority = "CARRIER_FINAL_AUTHORITY"
)

type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Rule    string `json:"rule,omitempty"`
	Message string `json:"error"`
}

func (e *Error) Error() string { return e.Message }

func Unauthorized(msg string) *Error {
	return &Error{Status: http.StatusUnauthorized, Code: "UNAUTHORIZED", Message: msg}
}

func Forbidden(msg string) *Error {
	return &Error{Status: http.StatusForbidden, Code: "FORBIDDEN", Message: msg}
}

// ForbiddenRule is Forbidden with a machine-readable rule tag.
func ForbiddenRule(rule, msg string) *Error {
	return &Error{Status: http.StatusForbidden, Code: "FORBIDDEN", Rule: rule, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Status: http.StatusNotFound, Code: "NOT_FOUND", Message: msg}
}

// InvalidTransition names both endpoints so callers can see exactly
// which edge was rejected.
func InvalidTransition(from, to string) *Error {
	return &Error{
		Status:  http.StatusBadRequest,
		Code:    "INVALID_TRANSITION",
		Message: fmt.Sprintf("Invalid status transition from %s to %s", from, to),
	}
}

func ValidationFailed(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "VALIDATION_FAILED", Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Status: http.StatusConflict, Code: "CONFLICT", Message: msg}
}

func PreconditionFailed(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "PRECONDITION_FAILED", Message: msg}
}

func SettlementFailed(msg string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "SETTLEMENT_FAILED", Message: msg}
}

// As unwraps err into *Error if it is one.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// HTTPStatus returns the status for err, defaulting to 500 for
// anything outside the taxonomy.
func HTTPStatus(err error) int {
	if e, ok := As(err); ok {
		return e.Status
	}
	return http.StatusInternalServerError
}
