package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/optimum-study/optimum-backend/internal/model"
	"github.com/optimum-study/optimum-backend/internal/repository"
	"github.com/rs/zerolog"
)

// ErrUserNotFound is returned when a lookup finds no matching account.
var ErrUserNotFound = errors.New("user not found")

// UserService handles account lifecycle: registration, lookup and email
// verification.
type UserService struct {
	userRepo    *repository.UserRepository
	authService *AuthService
	log         zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userRepo *repository.UserRepository, authService *AuthService, log zerolog.Logger) *UserService {
	return &UserService{
		userRepo:    userRepo,
		authService: authService,
		log:         log.With().Str("component", "user_service").Logger(),
	}
}

// Register creates an unverified account and issues a verification token.
// Email delivery is handled outside this service; the token is returned so
// the caller can hand it to the mailer (or surface it in dev setups).
func (s *UserService) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, string, error) {
	hash, err := s.authService.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.authService.IssueVerificationToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.log.Info().Str("user_id", user.ID.String()).Msg("User registered")
	return user, token, nil
}

// Verify redeems a verification token and marks the account verified.
func (s *UserService) Verify(ctx context.Context, token string) error {
	userID, err := s.authService.ConsumeVerificationToken(ctx, token)
	if err != nil {
		return err
	}
	if err := s.userRepo.MarkVerified(ctx, userID); err != nil {
		return err
	}
	s.log.Info().Str("user_id", userID.String()).Msg("Email verified")
	return nil
}

// Authenticate checks credentials and returns the account. The same error is
// returned for an unknown email and a wrong password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.authService.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetByID retrieves a user account by primary key.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
