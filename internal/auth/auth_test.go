package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testConfig = Config{Secret: "test-secret", Issuer: "trainingstats-test"}

func TestSignAndParse(t *testing.T) {
	token, err := Sign(testConfig, "user-1", "tenant-1", []string{ScopeStatsRead, ScopeWorkoutsRead}, time.Hour)
	require.NoError(t, err)

	claims, err := Parse(token, testConfig)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.Subject)
	require.Equal(t, "tenant-1", claims.TenantID)
	require.True(t, claims.HasScope(ScopeStatsRead))
	require.False(t, claims.HasScope(ScopeWorkoutsWrite))
	require.Equal(t, []string{ScopeStatsRead, ScopeWorkoutsRead}, claims.ScopeList())
}

func TestParseRejectsInvalidTokens(t *testing.T) {
	_, err := Parse(" ", testConfig)
	require.ErrorIs(t, err, ErrMissingToken)

	expired, err := Sign(testConfig, "user-1", "tenant-1", nil, -time.Minute)
	require.NoError(t, err)
	_, err = Parse(expired, testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer, err := Sign(Config{Secret: testConfig.Secret, Issuer: "other"}, "user-1", "tenant-1", nil, time.Hour)
	require.NoError(t, err)
	_, err = Parse(wrongIssuer, testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)

	noTenant, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"iss": testConfig.Issuer,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testConfig.Secret))
	require.NoError(t, err)
	_, err = Parse(noTenant, testConfig)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestNormalizeScopes(t *testing.T) {
	require.Len(t, normalizeScopes([]any{"a", "", 3, "b"}), 2)
	require.Len(t, normalizeScopes("a  b c"), 3)
	require.Empty(t, normalizeScopes(nil))
}

func TestMiddleware(t *testing.T) {
	var seen *Claims
	handler := NewMiddleware(testConfig).Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Nil(t, seen)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/stats/volume", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"type":"unauthorized","detail":"missing bearer token"}`, rec.Body.String())

	token, err := Sign(testConfig, "user-1", "tenant-1", []string{ScopeStatsRead}, time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/v1/stats/volume", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	require.Equal(t, "tenant-1", seen.TenantID)
}
