package common

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatusFromError(t *testing.T) {
	cases := map[error]int{
		nil:                                 http.StatusOK,
		ErrNotFound:                         http.StatusNotFound,
		fmt.Errorf("wrap: %w", ErrNotFound): http.StatusNotFound,
		ErrUnauthorized:                     http.StatusUnauthorized,
		ErrForbidden:                        http.StatusForbidden,
		Validationf("title is required"):    http.StatusBadRequest,
		ErrUnsupportedLanguage:              http.StatusBadRequest,
		ErrConflict:                         http.StatusConflict,
		ErrRateLimited:                      http.StatusTooManyRequests,
		ErrServiceUnavailable:               http.StatusServiceUnavailable,
		&pgconn.PgError{Code: "23505"}:      http.StatusConflict,
		errors.New("boom"):                  http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, HTTPStatusFromError(err), "%v", err)
	}
}

func TestRespondWithErrHidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondWithErr(rec, errors.New("dial tcp 10.0.0.1:5432: refused"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())

	rec = httptest.NewRecorder()
	RespondWithErr(rec, Validationf("code is required"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"code is required: validation failed"}`, rec.Body.String())
}
