package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{models.NewValidationError("bad"), http.StatusBadRequest},
		{models.NewNotFoundError("missing"), http.StatusNotFound},
		{models.NewUnauthorizedError("nope"), http.StatusForbidden},
		{models.NewUnauthenticatedError("who"), http.StatusUnauthorized},
		{models.NewConflictError("dup"), http.StatusConflict},
		{models.NewInternalError("oops", errors.New("boom")), http.StatusInternalServerError},
		{errors.New("untyped"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestRespondError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	run := func(err error) (*httptest.ResponseRecorder, models.APIResponse) {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		respondError(ctx, err)
		var resp models.APIResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return w, resp
	}

	w, resp := run(models.NewUnauthorizedError("Unauthorized: not yours").WithDetails(map[string]interface{}{"owner": "a"}))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, models.ErrForbidden, resp.Code)
	assert.Equal(t, "Unauthorized: not yours", resp.Message)
	assert.Equal(t, "a", resp.Details["owner"])

	// internal details never reach the client
	w, resp = run(models.NewInternalError("Something went wrong", errors.New("dial tcp: refused")))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Something went wrong", resp.Message)
	assert.NotContains(t, w.Body.String(), "refused")

	w, _ = run(errors.New("raw driver error"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "raw driver error")
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name    string
		raw     []string
		comma   bool
		want    []string
		wantErr bool
	}{
		{name: "absent", raw: nil, want: nil},
		{name: "json array", raw: []string{`["mix", " fry "]`}, want: []string{"mix", "fry"}},
		{name: "single step", raw: []string{"Mix, then fry"}, want: []string{"Mix, then fry"}},
		{name: "comma tags", raw: []string{"sweet, quick,,"}, comma: true, want: []string{"sweet", "quick"}},
		{name: "repeated fields", raw: []string{"a", " b"}, want: []string{"a", "b"}},
		{name: "empty value", raw: []string{""}, want: []string{}},
		{name: "broken json", raw: []string{"[mix, fry]"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseList(tt.raw, tt.comma)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, models.KindValidation, models.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestQueryInt(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for query, want := range map[string]int{"": 10, "?limit=3": 3, "?limit=-1": 10, "?limit=abc": 10} {
		ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
		ctx.Request = httptest.NewRequest(http.MethodGet, "/"+query, nil)
		assert.Equal(t, want, queryInt(ctx, "limit", 10), query)
	}
}
