package apperrors

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{name: "typed", err: New(CodeNotFound, "order not found"), want: CodeNotFound},
		{name: "wrapped with pkg/errors", err: errors.Wrap(New(CodeInsufficientStock, "short"), "allocate"), want: CodeInsufficientStock},
		{name: "plain error", err: errors.New("boom"), want: CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestMetadata(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(New(CodeOrderNotCancellable, "shipped")))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("db down")))

	assert.True(t, IsRetryable(errors.New("db down")))
	assert.True(t, IsRetryable(New(CodeConcurrencyConflict, "lost race")))
	assert.False(t, IsRetryable(New(CodeValidation, "bad status")))
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(CodeInternal, cause, "load order")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "INTERNAL_ERROR: load order: connection refused", err.Error())
	assert.True(t, IsCode(errors.WithStack(err), CodeInternal))
}
