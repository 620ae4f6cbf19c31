package apperrors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeValidation             Code = "VALIDATION_ERROR"
	CodeNotFound               Code = "NOT_FOUND"
	CodeInsufficientStock      Code = "INSUFFICIENT_STOCK"
	CodeConcurrencyConflict    Code = "CONCURRENCY_CONFLICT"
	CodeOrderNotCancellable    Code = "ORDER_NOT_CANCELLABLE"
	CodeExternalServiceFailure Code = "EXTERNAL_SERVICE_FAILURE"
	CodeInternal               Code = "INTERNAL_ERROR"
)

// Metadata describes how a code surfaces over HTTP and to message consumers.
type Metadata struct {
	HTTPStatus    int
	Retryable     bool
	PublicMessage string
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		HTTPStatus:    http.StatusBadRequest,
		Retryable:     false,
		PublicMessage: "validation failed",
	},
	CodeNotFound: {
		HTTPStatus:    http.StatusNotFound,
		Retryable:     false,
		PublicMessage: "resource not found",
	},
	CodeInsufficientStock: {
		HTTPStatus:    http.StatusConflict,
		Retryable:     false,
		PublicMessage: "insufficient stock",
	},
	CodeConcurrencyConflict: {
		HTTPStatus:    http.StatusConflict,
		Retryable:     true,
		PublicMessage: "concurrent modification",
	},
	CodeOrderNotCancellable: {
		HTTPStatus:    http.StatusUnprocessableEntity,
		Retryable:     false,
		PublicMessage: "order cannot be cancelled",
	},
	CodeExternalServiceFailure: {
		HTTPStatus:    http.StatusBadGateway,
		Retryable:     false,
		PublicMessage: "external service reported a failure",
	},
	CodeInternal: {
		HTTPStatus:    http.StatusInternalServerError,
		Retryable:     true,
		PublicMessage: "internal server error",
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// Error is a coded application error.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Newf(code Code, format string, args ...any) *Error {
	return &Error{code: code, message: fmt.Sprintf(format, args...)}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As returns the outermost *Error in the chain, or nil.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stderrors.As(err, &typed) {
		return typed
	}
	return nil
}

// CodeOf returns the code of err; errors without one are internal.
func CodeOf(err error) Code {
	if typed := As(err); typed != nil {
		return typed.Code()
	}
	return CodeInternal
}

func IsCode(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// IsRetryable reports whether redelivering the message that produced err can succeed.
func IsRetryable(err error) bool {
	return MetadataFor(CodeOf(err)).Retryable
}

func HTTPStatus(err error) int {
	return MetadataFor(CodeOf(err)).HTTPStatus
}
