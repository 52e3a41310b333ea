package auth

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndAuthorizeRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	tok, err := issuer.Issue("user-1", "tenant-1", "a@b.test")
	require.NoError(t, err)

	info, err := NewJWTAuthorizer("test-secret").Authorize(context.Background(), tok, "plan.read", "default")
	require.NoError(t, err)
	assert.Equal(t, "tenant-1", info.TenantID)
	assert.Equal(t, "user-1", info.UserID)
	assert.Equal(t, "a@b.test", info.Email)
}

func TestAuthorizeRejectsWrongSecretAndExpiry(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	tok, err := issuer.Issue("user-1", "tenant-1", "")
	require.NoError(t, err)

	_, err = NewJWTAuthorizer("other-secret").Authorize(context.Background(), tok, "plan.read", "default")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired := NewTokenIssuer("test-secret", -time.Minute)
	tok, err = expired.Issue("user-1", "tenant-1", "")
	require.NoError(t, err)
	_, err = NewJWTAuthorizer("test-secret").Authorize(context.Background(), tok, "plan.read", "default")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	_, err := ExtractBearerToken(r)
	assert.ErrorIs(t, err, ErrMissingToken)

	r.Header.Set("Authorization", "Basic abc")
	_, err = ExtractBearerToken(r)
	assert.ErrorIs(t, err, ErrMissingToken)

	r.Header.Set("Authorization", "Bearer tok123")
	tok, err := ExtractBearerToken(r)
	require.NoError(t, err)
	assert.Equal(t, "tok123", tok)
}

func TestMockAuthorizer(t *testing.T) {
	m := NewMockAuthorizer()
	_, err := m.Authorize(context.Background(), "nope", "plan.read", "default")
	assert.ErrorIs(t, err, ErrInvalidToken)

	info, err := m.Authorize(context.Background(), LocalDevToken, "plan.read", "default")
	require.NoError(t, err)
	assert.Equal(t, LocalDevTenantID, info.TenantID)
}
