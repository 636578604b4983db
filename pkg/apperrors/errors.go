package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for transport mapping. Handlers translate kinds to
// HTTP status codes; services never touch status codes directly.
type Kind string

const (
	KindValidation          Kind = "VALIDATION"
	KindBusinessRule        Kind = "BUSINESS_RULE"
	KindNotFound            Kind = "NOT_FOUND"
	KindIdempotencyConflict Kind = "IDEMPOTENCY_CONFLICT"
	KindExternalService     Kind = "EXTERNAL_SERVICE"
	KindInternal            Kind = "INTERNAL"
)

// Business rule codes. One constant per named rule so messages stay consistent
// and callers can match on the rule instead of the message text.
const (
	CodeInvalidTicketCount          = "INVALID_TICKET_COUNT"
	CodeMaxUnfinishedOrdersExceeded = "MAX_UNFINISHED_ORDERS_EXCEEDED"
	CodeBookingAlreadyExists        = "BOOKING_ALREADY_EXISTS"
	CodeInvalidVisitDate            = "INVALID_VISIT_DATE"
	CodeOneBookingPerUserPerDay     = "ONE_BOOKING_PER_USER_PER_DAY"
	CodeCannotUpdatePastBooking     = "CANNOT_UPDATE_PAST_BOOKING"
	CodeCannotCancelPastBooking     = "CANNOT_CANCEL_PAST_BOOKING"
	CodeInvalidBookingStatus        = "INVALID_BOOKING_STATUS"
	CodeTicketsAlreadySubmitted     = "TICKETS_ALREADY_SUBMITTED"
	CodeCannotSubmitPastTickets     = "CANNOT_SUBMIT_PAST_TICKETS"
	CodeUnsupportedProvider         = "UNSUPPORTED_PAYMENT_PROVIDER"
	CodePaymentAlreadyActive        = "PAYMENT_ALREADY_ACTIVE"
	CodeCannotCancelCompleted       = "CANNOT_CANCEL_COMPLETED_PAYMENT"
	CodeKeyReused                   = "IDEMPOTENCY_KEY_REUSED"
	CodeKeyExpired                  = "IDEMPOTENCY_KEY_EXPIRED"
	CodeRequestInProgress           = "REQUEST_IN_PROGRESS"
)

// Error is the single error type returned by services.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

func Wrap(kind Kind, code, message string, err error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Err: err}
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Code: "VALIDATION_ERROR", Message: message}
}

func BusinessRule(code, message string) *Error {
	return &Error{Kind: KindBusinessRule, Code: code, Message: message}
}

func NotFound(entity string, id any) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    "RECORD_NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %v", entity, id),
	}
}

func IdempotencyConflict(code, message string) *Error {
	return &Error{Kind: KindIdempotencyConflict, Code: code, Message: message}
}

func ExternalService(service string, err error) *Error {
	return &Error{
		Kind:    KindExternalService,
		Code:    "EXTERNAL_SERVICE_ERROR",
		Message: fmt.Sprintf("%s is temporarily unavailable", service),
		Err:     err,
	}
}

func Internal(err error) *Error {
	return &Error{
		Kind:    KindInternal,
		Code:    "INTERNAL_ERROR",
		Message: "an unexpected error occurred",
		Err:     err,
	}
}

// KindOf extracts the Kind from an error chain; unknown errors are internal.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// MessageOf extracts the client-safe message from an error chain. Unknown
// errors collapse to the generic internal message so no detail leaks into
// persisted records.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "an unexpected error occurred"
}

// CodeOf extracts the rule code from an error chain, or "" when absent.
func CodeOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
