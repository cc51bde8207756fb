// AngelaMos | 2026
// policy_test.go

package middleware

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy_Evaluate(t *testing.T) {
	t.Parallel()

	p := DefaultPolicy()

	tests := []struct {
		method string
		path   string
		want   Requirement
	}{
		{http.MethodPost, "/auth/register", RequirePublic},
		{http.MethodPost, "/auth/login", RequirePublic},
		{http.MethodGet, "/auth/login", RequirePublic},
		{http.MethodGet, "/auth/me", RequireAuthenticated},
		{http.MethodGet, "/healthz", RequirePublic},
		{http.MethodGet, "/metrics", RequirePublic},
		{http.MethodPost, "/metrics", RequireAuthenticated},

		{http.MethodGet, "/movies", RequirePublic},
		{http.MethodGet, "/movies/7", RequirePublic},
		{http.MethodGet, "/movies/7/", RequirePublic},
		{http.MethodHead, "/movies/7", RequirePublic},
		{http.MethodPost, "/movies", RequireAdmin},
		{http.MethodPut, "/movies/7", RequireAdmin},
		{http.MethodDelete, "/movies/7", RequireAdmin},
		{http.MethodPost, "/movies/suggest", RequireAuthenticated},
		{http.MethodPost, "/movies/7/suggest", RequireAuthenticated},
		{http.MethodPost, "/movies/7/8/suggest", RequireAdmin},
		{http.MethodPatch, "/movies/7", RequireAuthenticated},

		{http.MethodGet, "/reviews/42", RequirePublic},
		{http.MethodGet, "/reviews/movie/7/average", RequirePublic},
		{http.MethodPost, "/reviews", RequireAuthenticated},
		{http.MethodPut, "/reviews/42", RequireAuthenticated},
		{http.MethodDelete, "/reviews/42", RequireAuthenticated},

		{http.MethodGet, "/admin/stats", RequireAdmin},
		{http.MethodPut, "/admin/users/abc/role", RequireAdmin},
		{http.MethodGet, "/admin", RequireAdmin},

		{http.MethodGet, "/users/me", RequireAuthenticated},
		{http.MethodGet, "/anything/else", RequireAuthenticated},
		{http.MethodGet, "/", RequireAuthenticated},

		{http.MethodOptions, "/movies", RequirePublic},
		{http.MethodOptions, "/admin/stats", RequirePublic},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, p.Evaluate(tt.method, tt.path))
		})
	}
}

func TestPolicy_FirstMatchWins(t *testing.T) {
	t.Parallel()

	p, err := NewPolicy(
		Rule{Patterns: []string{"/things/special"}, Require: RequirePublic},
		Rule{Patterns: []string{"/things/**"}, Require: RequireAdmin},
	)
	require.NoError(t, err)

	assert.Equal(t, RequirePublic, p.Evaluate(http.MethodGet, "/things/special"))
	assert.Equal(t, RequireAdmin, p.Evaluate(http.MethodGet, "/things/other"))
	assert.Equal(t, RequireAdmin, p.Evaluate(http.MethodGet, "/things"))
	assert.Equal(t, RequireAuthenticated, p.Evaluate(http.MethodGet, "/elsewhere"))
}

func TestPolicy_SingleSegmentWildcard(t *testing.T) {
	t.Parallel()

	p := MustPolicy(Rule{
		Methods:  []string{"get"},
		Patterns: []string{"/a/*/c"},
		Require:  RequirePublic,
	})

	assert.Equal(t, RequirePublic, p.Evaluate(http.MethodGet, "/a/b/c"))
	assert.Equal(t, RequireAuthenticated, p.Evaluate(http.MethodGet, "/a/c"))
	assert.Equal(t, RequireAuthenticated, p.Evaluate(http.MethodGet, "/a/b/x/c"))
	assert.Equal(t, RequireAuthenticated, p.Evaluate(http.MethodPost, "/a/b/c"))
}

func TestNewPolicy_RejectsBadRules(t *testing.T) {
	t.Parallel()

	_, err := NewPolicy(Rule{Require: RequirePublic})
	require.Error(t, err)

	_, err = NewPolicy(Rule{Patterns: []string{"/a/**/b"}})
	require.Error(t, err)
}

func TestAuthorize(t *testing.T) {
	t.Parallel()

	user := &Identity{UserID: "u1", Username: "ana", Role: "USER"}
	admin := &Identity{UserID: "u2", Username: "root", Role: RoleAdmin}

	tests := []struct {
		name string
		req  Requirement
		id   *Identity
		want Decision
	}{
		{"public anonymous", RequirePublic, nil, Allow},
		{"public user", RequirePublic, user, Allow},
		{"authenticated anonymous", RequireAuthenticated, nil, DenyUnauthenticated},
		{"authenticated user", RequireAuthenticated, user, Allow},
		{"admin anonymous", RequireAdmin, nil, DenyUnauthenticated},
		{"admin as user", RequireAdmin, user, DenyForbidden},
		{"admin as admin", RequireAdmin, admin, Allow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Authorize(tt.req, tt.id))
		})
	}
}
