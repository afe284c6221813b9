package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/franciscosanchezn/gin-recipe-api/internal/auth"
	"github.com/franciscosanchezn/gin-recipe-api/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccounts struct {
	accounts map[string]*models.Account
	err      error
}

func (f *fakeAccounts) GetAccount(ctx context.Context, role models.Role, id string) (*models.Account, error) {
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.accounts[string(role)+":"+id]
	if !ok {
		return nil, models.NewNotFoundError(role.Label() + " not found")
	}
	return a, nil
}

func newTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService("user-secret", "chef-secret", "admin-secret", time.Hour)
	require.NoError(t, err)
	return tokens
}

func issue(t *testing.T, tokens *auth.TokenService, role models.Role, id string) string {
	t.Helper()
	token, err := tokens.Issue(auth.Principal{ID: id, Role: role, Username: "name-" + id})
	require.NoError(t, err)
	return token
}

func perform(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func echoPrincipal(c *gin.Context) {
	p, _ := PrincipalFrom(c)
	c.JSON(http.StatusOK, gin.H{"id": p.ID, "role": p.Role, "number": p.Number})
}

func TestAuthenticate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := newTokens(t)

	router := gin.New()
	router.GET("/protected", Authenticate(tokens, models.RoleAdmin, models.RoleUser), echoPrincipal)

	tests := []struct {
		name     string
		token    string
		status   int
		message  string
		wantRole models.Role
	}{
		{"missing token", "", http.StatusUnauthorized, "Not authorized, token missing", ""},
		{"garbage token", "not-a-jwt", http.StatusUnauthorized, "Invalid token", ""},
		{"chef token rejected", issue(t, tokens, models.RoleChef, "c1"), http.StatusUnauthorized, "Invalid token", ""},
		{"admin accepted", issue(t, tokens, models.RoleAdmin, "a1"), http.StatusOK, "", models.RoleAdmin},
		{"user accepted", issue(t, tokens, models.RoleUser, "u1"), http.StatusOK, "", models.RoleUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(router, tt.token)
			assert.Equal(t, tt.status, w.Code)
			if tt.message != "" {
				resp := decode(t, w)
				assert.False(t, resp.Success)
				assert.Equal(t, tt.message, resp.Message)
				return
			}
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, string(tt.wantRole), body["role"])
		})
	}

	t.Run("non bearer scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Basic abc")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Not authorized, token missing", decode(t, w).Message)
	})
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := newTokens(t)

	// a route that accepts user tokens but still demands admin role
	router := gin.New()
	router.GET("/protected", Authenticate(tokens, models.RoleUser, models.RoleAdmin), RequireRole(models.RoleAdmin), echoPrincipal)

	w := perform(router, issue(t, tokens, models.RoleUser, "u1"))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied: Admins only", decode(t, w).Message)

	w = perform(router, issue(t, tokens, models.RoleAdmin, "a1"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAccount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := newTokens(t)
	accounts := &fakeAccounts{accounts: map[string]*models.Account{
		"chef:c1": {ID: "c1", Role: models.RoleChef, Username: "fresh", Number: "CHEF001"},
	}}

	router := gin.New()
	router.GET("/protected", Authenticate(tokens, models.RoleChef), RequireAccount(accounts), echoPrincipal)

	w := perform(router, issue(t, tokens, models.RoleChef, "c1"))
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "CHEF001", body["number"])

	w = perform(router, issue(t, tokens, models.RoleChef, "gone"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Chef not found", decode(t, w).Message)

	accounts.err = errors.New("connection reset")
	w = perform(router, issue(t, tokens, models.RoleChef, "c1"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("1.1.1.1"))
	assert.False(t, rl.Allow("1.1.1.1"))
	assert.True(t, rl.Allow("2.2.2.2"), "budgets are per client")

	now = now.Add(30 * time.Second)
	assert.True(t, rl.Allow("1.1.1.1"))

	// idle clients are forgotten
	now = now.Add(visitorTTL + time.Minute)
	rl.Allow("3.3.3.3")
	rl.mu.Lock()
	assert.Len(t, rl.visitors, 1)
	rl.mu.Unlock()
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", NewRateLimiter(1).Limit(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, perform(router, "").Code)
	w := perform(router, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), AccessLog())
	router.GET("/protected", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(requestIDKey)) })

	w := perform(router, "")
	generated := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}
