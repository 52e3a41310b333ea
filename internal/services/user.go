package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/denerose/VeganMealAppApi-sub001/internal/auth"
	"github.com/denerose/VeganMealAppApi-sub001/internal/mail"
	"github.com/denerose/VeganMealAppApi-sub001/internal/model"
	"github.com/denerose/VeganMealAppApi-sub001/internal/store"
)

// UserService handles account registration and login. Registration creates a
// fresh tenant; the tenant id is embedded into issued tokens and is the only
// source of tenant identity downstream.
type UserService struct {
	store  store.Store
	issuer *auth.TokenIssuer
	mailer mail.Mailer
	log    zerolog.Logger
}

func NewUserService(s store.Store, issuer *auth.TokenIssuer, mailer mail.Mailer, log zerolog.Logger) *UserService {
	return &UserService{store: s, issuer: issuer, mailer: mailer, log: log}
}

// Register creates a user under a new tenant and sends a welcome mail
// best-effort (delivery failure never fails registration).
func (s *UserService) Register(ctx context.Context, email, password string, displayName *string, weekStartDay model.WeekStartDay) (*model.User, error) {
	if _, ok := weekStartDay.WeekdayIndex(); !ok {
		return nil, fmt.Errorf("%w: unrecognized week start day %q", model.ErrValidation, weekStartDay)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		TenantID:     uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: string(hash),
		WeekStartDay: weekStartDay,
	}
	out, err := s.store.Users().Create(ctx, u)
	if err != nil {
		return nil, err
	}

	if err := s.mailer.Send(ctx, mail.Message{
		To:      out.Email,
		Subject: "Welcome to your meal planner",
		Body:    "Your account is ready. Create a weekly plan to get started.",
	}); err != nil {
		s.log.Warn().Err(err).Str("email", out.Email).Msg("welcome mail failed")
	}
	return out, nil
}

// Login verifies credentials and issues an access token.
func (s *UserService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	u, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		return "", nil, fmt.Errorf("%w: unknown credentials", auth.ErrInvalidToken)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, fmt.Errorf("%w: unknown credentials", auth.ErrInvalidToken)
	}
	tok, err := s.issuer.Issue(u.UserID, u.TenantID, u.Email)
	if err != nil {
		return "", nil, err
	}
	return tok, u, nil
}
