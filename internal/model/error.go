package model

import (
	"fmt"
	"sort"
	"strings"
)

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON         = "INVALID_JSON"
	ErrCodeSchemaLoad          = "SCHEMA_LOAD_FAILED"
	ErrCodeUnknownField        = "UNKNOWN_FIELD"
	ErrCodeUnknownOption       = "UNKNOWN_OPTION"
	ErrCodeFieldTypeMismatch   = "FIELD_TYPE_MISMATCH"
	ErrCodeProductNotFound     = "PRODUCT_NOT_FOUND"
	ErrCodeFormInvalid         = "FORM_INVALID"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeCalculationFailed   = "CALCULATION_FAILED"
	ErrCodeCalculationInFlight = "CALCULATION_IN_FLIGHT"
	ErrCodeNoCalculation       = "NO_CALCULATION"
	ErrCodeSubmissionFailed    = "SUBMISSION_FAILED"
	ErrCodeSubmissionInFlight  = "SUBMISSION_IN_FLIGHT"
	ErrCodeSessionNotFound     = "SESSION_NOT_FOUND"
	ErrCodeStaleResponse       = "STALE_RESPONSE"
	ErrCodeBookingNotStarted   = "BOOKING_NOT_STARTED"
	ErrCodeStepGate            = "STEP_GATE_FAILED"
	ErrCodeInvalidPayment      = "INVALID_PAYMENT_METHOD"
	ErrCodeUploadFailed        = "UPLOAD_FAILED"
	ErrCodeUnauthorised        = "UNAUTHORIZED"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// DomainError is a business-logic error carrying a stable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrUnknownField        = NewDomainError(ErrCodeUnknownField, "Field is not declared by the active service schema")
	ErrUnknownOption       = NewDomainError(ErrCodeUnknownOption, "Option is not declared by the field")
	ErrFieldTypeMismatch   = NewDomainError(ErrCodeFieldTypeMismatch, "Operation does not match the field type")
	ErrProductNotFound     = NewDomainError(ErrCodeProductNotFound, "Product is not part of the service catalog")
	ErrFormInvalid         = NewDomainError(ErrCodeFormInvalid, "One or more required fields are empty")
	ErrCalculationInFlight = NewDomainError(ErrCodeCalculationInFlight, "A price calculation is already in flight")
	ErrNoCalculation       = NewDomainError(ErrCodeNoCalculation, "No price calculation exists for the current configuration")
	ErrSubmissionInFlight  = NewDomainError(ErrCodeSubmissionInFlight, "An order submission is already in flight")
	ErrSessionNotFound     = NewDomainError(ErrCodeSessionNotFound, "Configuration session not found or expired")
	ErrStaleResponse       = NewDomainError(ErrCodeStaleResponse, "Response discarded: the active service changed while the request was in flight")
	ErrBookingNotStarted   = NewDomainError(ErrCodeBookingNotStarted, "Checkout has not been started for this session")
	ErrInvalidPayment      = NewDomainError(ErrCodeInvalidPayment, "Unsupported payment method")
)

// ValidationError reports per-field validation failures, either produced
// client-side before a request is made or relayed from the backend on
// submission. Keys are field identifiers in this system's vocabulary.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(keys, ", "))
}

// NewValidationError creates a validation error with the given field messages.
func NewValidationError(message string, fields map[string]string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}
