package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/draftea/order-system/shared/apperrors"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	return v
}

// DecodeJSONBody decodes the request body into dest and validates it.
func DecodeJSONBody(r *http.Request, dest any) error {
	defer io.Copy(io.Discard, r.Body)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return apperrors.Wrap(apperrors.CodeValidation, err, "invalid request body").
			WithDetails(map[string]any{"error": err.Error()})
	}
	return Validate(dest)
}

// Validate checks the `validate` struct tags of v.
func Validate(v any) error {
	if err := validate.Struct(v); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok {
			details := map[string]string{}
			for _, fieldErr := range errs {
				details[fieldErr.Field()] = validationMessage(fieldErr)
			}
			return apperrors.New(apperrors.CodeValidation, "validation failed").WithDetails(details)
		}
		return apperrors.Wrap(apperrors.CodeValidation, err, "validation failed")
	}
	return nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min", "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of %s", fe.Param())
	case "email":
		return "must be a valid email address"
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// WriteJSON encodes v with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Code    apperrors.Code `json:"code"`
	Message string         `json:"message"`
	Details any            `json:"details,omitempty"`
}

// ErrorLogger is the subset of the service logger used for 5xx responses.
type ErrorLogger interface {
	Error(ctx context.Context, msg string, err error)
}

// WriteError renders err using its application code; internal errors are
// logged and hidden from the client.
func WriteError(w http.ResponseWriter, r *http.Request, log ErrorLogger, err error) {
	code := apperrors.CodeOf(err)
	meta := apperrors.MetadataFor(code)

	body := errorBody{Code: code, Message: meta.PublicMessage}
	if typed := apperrors.As(err); typed != nil && code != apperrors.CodeInternal {
		body.Message = typed.Message()
		body.Details = typed.Details()
	}

	if meta.HTTPStatus >= http.StatusInternalServerError && log != nil {
		log.Error(r.Context(), "request failed", err)
	}

	WriteJSON(w, meta.HTTPStatus, map[string]errorBody{"error": body})
}
