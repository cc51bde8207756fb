// AngelaMos | 2026
// response_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestJSONError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, NewAppError(ErrDuplicateKey, "title taken", http.StatusConflict, "MOVIE_TITLE_EXISTS"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, ErrorBody{Code: "MOVIE_TITLE_EXISTS", Message: "title taken"}, decode[ErrorBody](t, rec))
}

func TestJSONError_HidesUnknownErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, errors.New("pq: relation \"users\" does not exist"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t,
		ErrorBody{Code: "INTERNAL_ERROR", Message: "internal server error"},
		decode[ErrorBody](t, rec),
	)
}

func TestJSONError_WrappedAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, fmt.Errorf("handler: %w", ForbiddenError("")))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decode[ErrorBody](t, rec).Code)
}

func TestGateError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/reviews/42", nil)

	GateError(rec, req, http.StatusUnauthorized, "authentication required")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, GateErrorBody{
		Status:  401,
		Error:   "Unauthorized",
		Message: "authentication required",
		Path:    "/reviews/42",
	}, decode[GateErrorBody](t, rec))
}

func TestPaginated(t *testing.T) {
	rec := httptest.NewRecorder()
	Paginated(rec, []string{"a", "b"}, 2, 2, 5)

	body := decode[struct {
		Items    []string `json:"items"`
		Page     int      `json:"page"`
		PageSize int      `json:"pageSize"`
		Total    int      `json:"total"`
	}](t, rec)

	assert.Equal(t, []string{"a", "b"}, body.Items)
	assert.Equal(t, 2, body.Page)
	assert.Equal(t, 5, body.Total)
}

func TestNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	NoContent(rec)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}
