package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/draftea/order-system/shared/apperrors"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type createRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

func TestDecodeJSONBody(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantCode    apperrors.Code
		wantDetails map[string]string
	}{
		{name: "valid", body: `{"product_id":"p-1","quantity":2}`},
		{name: "malformed", body: `{"product_id":`, wantCode: apperrors.CodeValidation},
		{name: "unknown field", body: `{"product_id":"p-1","quantity":1,"extra":true}`, wantCode: apperrors.CodeValidation},
		{
			name:        "zero quantity",
			body:        `{"product_id":"p-1","quantity":0}`,
			wantCode:    apperrors.CodeValidation,
			wantDetails: map[string]string{"quantity": "must be greater than 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))

			var dest createRequest
			err := DecodeJSONBody(req, &dest)
			if tt.wantCode == "" {
				require.NoError(t, err)
				assert.Equal(t, "p-1", dest.ProductID)
				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperrors.CodeOf(err))
			if tt.wantDetails != nil {
				assert.Equal(t, tt.wantDetails, apperrors.As(err).Details())
			}
		})
	}
}

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Error(_ context.Context, msg string, _ error) {
	l.messages = append(l.messages, msg)
}

func TestWriteError(t *testing.T) {
	t.Run("coded error is rendered", func(t *testing.T) {
		log := &recordingLogger{}
		rec := httptest.NewRecorder()
		WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), log,
			errors.Wrap(apperrors.New(apperrors.CodeOrderNotCancellable, "order is SHIPPED"), "cancel"))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.JSONEq(t, `{"error":{"code":"ORDER_NOT_CANCELLABLE","message":"order is SHIPPED"}}`, rec.Body.String())
		assert.Empty(t, log.messages)
	})

	t.Run("internal error is hidden and logged", func(t *testing.T) {
		log := &recordingLogger{}
		rec := httptest.NewRecorder()
		WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), log, errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":{"code":"INTERNAL_ERROR","message":"internal server error"}}`, rec.Body.String())
		assert.Len(t, log.messages, 1)
	})
}
