package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reqline/reqline/internal/apperr"
)

func TestHealthz(t *testing.T) {
	h := NewHealthHandler(nil, nil)
	rec := httptest.NewRecorder()

	h.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestErrStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.NotFound("requisition missing"), http.StatusNotFound},
		{apperr.Validation("title is required"), http.StatusBadRequest},
		{apperr.ErrConstraint, http.StatusConflict},
		{apperr.Upstream("chat", errors.New("boom")), http.StatusBadGateway},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, errStatus(tc.err), "error %v", tc.err)
	}
}

func TestWriteErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("pq: secret table missing"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}

func TestWriteErrorExposesValidationDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, apperr.Validation("location_id is required"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "location_id is required")
}
