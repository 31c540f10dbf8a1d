package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/banker/internal/model"
)

func TestWriteErrorMapsCategories(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid name", model.ErrInvalidName, http.StatusBadRequest, CodeInvalidName},
		{"unknown operation", model.ErrUnknownOperation, http.StatusBadRequest, CodeUnknownOperation},
		{"insufficient funds", model.ErrInsufficientFunds, http.StatusConflict, CodeInsufficientFunds},
		{"furniture", model.ErrFurnitureWithoutApartment, http.StatusConflict, CodeFurnitureNeedsHome},
		{"player not found", model.ErrPlayerNotFound, http.StatusNotFound, CodePlayerNotFound},
		{"wrapped", fmt.Errorf("apply: %w", model.ErrLoanNotActive), http.StatusConflict, CodeLoanNotActive},
		{"bare category", model.ErrValidation, http.StatusBadRequest, CodeValidation},
		{"invalid request", NewInvalidRequestError("bad body"), http.StatusBadRequest, CodeInvalidRequest},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError, CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteError(rr, tt.err)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestInternalErrorsHideDetails(t *testing.T) {
	rr := httptest.NewRecorder()
	WriteError(rr, errors.New("redis: dial tcp 10.0.0.1:6379"))

	assert.NotContains(t, rr.Body.String(), "10.0.0.1")
}

func TestStatus(t *testing.T) {
	assert.Equal(t, http.StatusConflict, Status(model.ErrAlreadyClaimed))
	assert.Equal(t, http.StatusTooManyRequests, Status(NewRateLimitedError()))
}
