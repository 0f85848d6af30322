package domain

import (
	"errors"
	"fmt"
)

// Stable error codes surfaced to API clients. Anything that is not one of
// these is an infrastructure failure and propagates as-is.
const (
	CodeNotFound          = "not_found"
	CodeInvalid           = "invalid"
	CodeInsufficientStock = "insufficient_stock"
	CodeUnauthorized      = "unauthorized"
	CodeCouponInvalid     = "coupon_invalid"
)

// Error is an expected business-rule violation.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NotFoundf(format string, args ...any) error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func Invalidf(format string, args ...any) error {
	return &Error{Code: CodeInvalid, Message: fmt.Sprintf(format, args...)}
}

func Unauthorizedf(format string, args ...any) error {
	return &Error{Code: CodeUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func CouponInvalidf(format string, args ...any) error {
	return &Error{Code: CodeCouponInvalid, Message: fmt.Sprintf(format, args...)}
}

func InsufficientStockf(format string, args ...any) error {
	return &Error{Code: CodeInsufficientStock, Message: fmt.Sprintf(format, args...)}
}

// ErrorCode returns the stable code of err, or "" for infrastructure errors.
func ErrorCode(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// ErrorMessage returns the client-facing message of err.
func ErrorMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code string) bool {
	return ErrorCode(err) == code
}
