package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/denerose/VeganMealAppApi-sub001/internal/auth"
	"github.com/denerose/VeganMealAppApi-sub001/internal/mail"
	"github.com/denerose/VeganMealAppApi-sub001/internal/model"
)

func newUserService(fs *fakeStore) *UserService {
	issuer := auth.NewTokenIssuer("test-secret", 15*time.Minute)
	return NewUserService(fs, issuer, mail.Noop{}, zerolog.Nop())
}

func TestUserService_Register(t *testing.T) {
	fs := newFakeStore()
	svc := newUserService(fs)
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice@example.com", "s3cret-pass", nil, model.WeekStartMonday)
	require.NoError(t, err)
	assert.NotEmpty(t, u.UserID)
	assert.NotEmpty(t, u.TenantID)
	assert.Equal(t, model.WeekStartMonday, u.WeekStartDay)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash, "password must be stored hashed")

	// Duplicate email surfaces the store conflict.
	_, err = svc.Register(ctx, "alice@example.com", "another-pass", nil, model.WeekStartMonday)
	assert.ErrorIs(t, err, model.ErrConflict)

	// Each registration gets its own tenant.
	b, err := svc.Register(ctx, "bob@example.com", "s3cret-pass", nil, model.WeekStartSunday)
	require.NoError(t, err)
	assert.NotEqual(t, u.TenantID, b.TenantID)
}

func TestUserService_Register_InvalidWeekStartDay(t *testing.T) {
	svc := newUserService(newFakeStore())

	_, err := svc.Register(context.Background(), "alice@example.com", "s3cret-pass", nil, model.WeekStartDay("FRIDAY"))
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestUserService_Login(t *testing.T) {
	fs := newFakeStore()
	svc := newUserService(fs)
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice@example.com", "s3cret-pass", nil, model.WeekStartMonday)
	require.NoError(t, err)

	tok, got, err := svc.Login(ctx, "alice@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, tok)
	assert.Equal(t, u.UserID, got.UserID)

	// The issued token authorizes requests against the user's tenant.
	authz := auth.NewJWTAuthorizer("test-secret")
	info, err := authz.Authorize(ctx, tok, "GET", "plans")
	require.NoError(t, err)
	assert.Equal(t, u.TenantID, info.TenantID)

	// Wrong password and unknown email fail identically.
	_, _, err = svc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
	_, _, err = svc.Login(ctx, "nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
