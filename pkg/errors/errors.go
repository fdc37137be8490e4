package errors

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrSchemaLoad         = errors.New("schema definition could not be loaded")
	ErrRenderFailed       = errors.New("QR code rendering failed")
	ErrInvalidRequestBody = errors.New("invalid request body")
	ErrValidationFailed   = errors.New("payment record failed validation")
	ErrCache              = errors.New("render cache failure")
	ErrInvalidAmount      = errors.New("invalid amount")
)

// BusinessError represents a business logic error
type BusinessError struct {
	Code    string
	Message string
	Err     error
}

func (e *BusinessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *BusinessError) Unwrap() error {
	return e.Err
}

// NewBusinessError creates a new business error
func NewBusinessError(code, message string, err error) *BusinessError {
	return &BusinessError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Error codes
const (
	ErrCodeSchemaLoad         = "SCHEMA_LOAD_FAILED"
	ErrCodeRenderFailed       = "RENDER_FAILED"
	ErrCodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	ErrCodeValidationFailed   = "VALIDATION_FAILED"
	ErrCodeCacheError         = "CACHE_ERROR"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// Code returns the business error code carried by err, or ErrCodeInternal
func Code(err error) string {
	var be *BusinessError
	if errors.As(err, &be) {
		return be.Code
	}
	return ErrCodeInternal
}

func WrapSchemaLoad(source string, err error) *BusinessError {
	return NewBusinessError(
		ErrCodeSchemaLoad,
		fmt.Sprintf("Schema definition %s could not be loaded", source),
		errors.Join(ErrSchemaLoad, err),
	)
}

func WrapRenderFailed(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeRenderFailed,
		"QR code could not be rendered",
		errors.Join(ErrRenderFailed, err),
	)
}

func WrapInvalidRequestBody(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeInvalidRequestBody,
		"Request body must be a JSON object of payment order fields",
		errors.Join(ErrInvalidRequestBody, err),
	)
}

func WrapValidationFailed(count int) *BusinessError {
	return NewBusinessError(
		ErrCodeValidationFailed,
		fmt.Sprintf("Payment record has %d invalid field(s)", count),
		ErrValidationFailed,
	)
}

func WrapCacheError(err error) *BusinessError {
	return NewBusinessError(
		ErrCodeCacheError,
		"Cache operation failed",
		errors.Join(ErrCache, err),
	)
}

func WrapInvalidAmount(amount string) *BusinessError {
	return NewBusinessError(
		ErrCodeValidationFailed,
		fmt.Sprintf("Invalid amount: %q", amount),
		ErrInvalidAmount,
	)
}
