// Package session implements the demo signup and login flow. Credentials are
// stored and compared in plain text on purpose: this mirrors a throwaway
// storefront account system, not a real one.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ikart/storefront/internal/domain"
	"github.com/ikart/storefront/internal/event"
	"github.com/ikart/storefront/internal/store"
	apperrors "github.com/ikart/storefront/pkg/errors"
)

// SignUpInput holds the parameters for registering a user.
type SignUpInput struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=4"`
}

// LogInInput holds the parameters for logging in. Identifier matches either
// the email or the username.
type LogInInput struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// Service implements the user registry and session lifecycle.
type Service struct {
	store    store.Store
	producer *event.Producer
	logger   *slog.Logger
}

// NewService creates a new session service.
func NewService(st store.Store, producer *event.Producer, logger *slog.Logger) *Service {
	return &Service{
		store:    st,
		producer: producer,
		logger:   logger,
	}
}

// SignUp registers a new user. Email and username must each be unique; the
// two collisions report distinct errors so the form can highlight the right
// field.
func (s *Service) SignUp(ctx context.Context, input SignUpInput) (domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)

	users, err := s.store.Users(ctx)
	if err != nil {
		return domain.User{}, fmt.Errorf("load users: %w", err)
	}

	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return domain.User{}, apperrors.AlreadyExists("user", "email", email)
		}
		if u.Username == username {
			return domain.User{}, apperrors.AlreadyExists("user", "username", username)
		}
	}

	user := domain.User{
		Email:    email,
		Username: username,
		Password: input.Password,
	}
	users = append(users, user)

	if err := s.store.SaveUsers(ctx, users); err != nil {
		return domain.User{}, fmt.Errorf("save users: %w", err)
	}

	if err := s.producer.PublishUserRegistered(ctx, user); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.registered event",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "user registered", slog.String("username", username))
	return user, nil
}

// LogIn matches the identifier against email or username and the password
// against the stored one, then opens a session. A failed match reports a
// single generic unauthorized error.
func (s *Service) LogIn(ctx context.Context, input LogInInput) (domain.Session, error) {
	identifier := strings.TrimSpace(input.Identifier)

	users, err := s.store.Users(ctx)
	if err != nil {
		return domain.Session{}, fmt.Errorf("load users: %w", err)
	}

	var matched *domain.User
	for i := range users {
		if strings.EqualFold(users[i].Email, identifier) || users[i].Username == identifier {
			matched = &users[i]
			break
		}
	}

	if matched == nil || matched.Password != input.Password {
		return domain.Session{}, apperrors.Unauthorized("invalid credentials")
	}

	session := domain.Session{
		ID:        uuid.NewString(),
		Email:     matched.Email,
		Username:  matched.Username,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.SaveSession(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("save session: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in", slog.String("username", matched.Username))
	return session, nil
}

// LogOut closes the session. Logging out an unknown or already-closed
// session succeeds.
func (s *Service) LogOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.store.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.logger.InfoContext(ctx, "user logged out", slog.String("session_id", sessionID))
	return nil
}

// Current resolves the session id to its session record.
func (s *Service) Current(ctx context.Context, sessionID string) (domain.Session, error) {
	if sessionID == "" {
		return domain.Session{}, apperrors.Unauthorized("session id is required")
	}

	session, err := s.store.Session(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return domain.Session{}, apperrors.Unauthorized("session not found")
		}
		return domain.Session{}, fmt.Errorf("load session: %w", err)
	}
	return session, nil
}
