package response

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/watchlist/triage/internal/errors"
)

func TestJSON_Success(t *testing.T) {
	w := httptest.NewRecorder()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	Success(w, map[string]string{"message": "test"}, logger)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"test"}`, w.Body.String())
}

func TestJSON_NilLogger(t *testing.T) {
	w := httptest.NewRecorder()
	JSON(w, http.StatusCreated, []int{1, 2}, nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `[1,2]`, w.Body.String())
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()
	BadRequest(w, "bad value", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "bad value", body.Error)
}

func TestNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	NoContent(w)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", domainerrors.NotFound("item x"), http.StatusNotFound, "NOT_FOUND"},
		{"validation", domainerrors.Validation("value is required"), http.StatusBadRequest, "VALIDATION"},
		{"wrapped", domainerrors.Wrap(errors.New("slow"), domainerrors.CodeRateLimited, "slow down"), http.StatusTooManyRequests, "RATE_LIMITED"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleError(w, tt.err, nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			var body ErrorBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}
