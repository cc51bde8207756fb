// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/carterperez-dev/cinecatalog/internal/core"
	"github.com/carterperez-dev/cinecatalog/internal/middleware"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountExists      = errors.New("account already exists")
	ErrUsernameTaken      = fmt.Errorf("username already exists: %w", ErrAccountExists)
	ErrEmailTaken         = fmt.Errorf("email already exists: %w", ErrAccountExists)
	ErrPasswordMismatch   = fmt.Errorf("passwords do not match: %w", core.ErrInvalidInput)
)

type UserInfo struct {
	ID            string
	Username      string
	Email         string
	FullName      string
	PasswordHash  string
	Role          string
	Active        bool
	EmailVerified bool
	CreatedAt     time.Time
	LastAccessAt  *time.Time
}

// CanAuthenticate reports whether the account may log in or be resolved
// from a token.
func (u *UserInfo) CanAuthenticate() bool {
	return u.Active && u.EmailVerified
}

type NewAccount struct {
	Username     string
	Email        string
	FullName     string
	PasswordHash string
}

// UserProvider is the credential store. Create must report a violated
// username or email uniqueness constraint as ErrUsernameTaken or
// ErrEmailTaken so that concurrent registrations cannot both succeed.
type UserProvider interface {
	FindByUsernameOrEmail(ctx context.Context, value string) (*UserInfo, error)
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, account NewAccount) (*UserInfo, error)
	TouchLastAccess(ctx context.Context, id string, at time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
}

type Service struct {
	users  UserProvider
	hasher *core.PasswordHasher
	tokens *TokenManager
	logger *slog.Logger
	now    func() time.Time
}

type ServiceOption func(*Service)

func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

func NewService(
	users UserProvider,
	hasher *core.PasswordHasher,
	tokens *TokenManager,
	opts ...ServiceOption,
) *Service {
	s := &Service{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Register(
	ctx context.Context,
	req RegisterRequest,
) (*AuthResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	taken, err := s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if taken {
		return nil, ErrUsernameTaken
	}

	taken, err = s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, NewAccount{
		Username:     req.Username,
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, ErrAccountExists) {
			return nil, err
		}
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.authenticated(ctx, user)
}

func (s *Service) Login(
	ctx context.Context,
	req LoginRequest,
) (*AuthResponse, error) {
	user, err := s.users.FindByUsernameOrEmail(ctx, req.UsernameOrEmail)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			//nolint:errcheck // timing attack prevention - always verify to prevent enumeration
			_, _, _ = s.hasher.VerifyTimingSafe(req.Password, nil)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	valid, newHash, err := s.hasher.VerifyTimingSafe(
		req.Password,
		&user.PasswordHash,
	)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}

	if !valid || !user.CanAuthenticate() {
		return nil, ErrInvalidCredentials
	}

	if newHash != "" {
		if err := s.users.UpdatePassword(ctx, user.ID, newHash); err != nil {
			s.logger.WarnContext(ctx, "password rehash failed",
				"user_id", user.ID,
				"error", err,
			)
		}
	}

	return s.authenticated(ctx, user)
}

func (s *Service) GetCurrentUser(
	ctx context.Context,
	userID string,
) (*UserResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("current user: %w", core.ErrUnauthorized)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

// ResolveIdentity maps a token subject to the account as currently stored.
// Unknown, inactive and unverified accounts resolve to core.ErrUnauthorized.
func (s *Service) ResolveIdentity(
	ctx context.Context,
	subject string,
) (*middleware.Identity, error) {
	user, err := s.users.FindByUsernameOrEmail(ctx, subject)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, fmt.Errorf("resolve %q: %w", subject, core.ErrUnauthorized)
		}
		return nil, fmt.Errorf("resolve %q: %w", subject, err)
	}

	if !user.CanAuthenticate() {
		return nil, fmt.Errorf(
			"resolve %q: account disabled: %w",
			subject,
			core.ErrUnauthorized,
		)
	}

	return &middleware.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

func (s *Service) authenticated(
	ctx context.Context,
	user *UserInfo,
) (*AuthResponse, error) {
	now := s.now().UTC()
	if err := s.users.TouchLastAccess(ctx, user.ID, now); err != nil {
		return nil, fmt.Errorf("touch last access: %w", err)
	}
	user.LastAccessAt = &now

	issued, err := s.tokens.Issue(user.Username)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &AuthResponse{
		Token:     issued.Token,
		TokenType: "Bearer",
		ExpiresIn: int(issued.ExpiresAt.Sub(issued.IssuedAt) / time.Second),
		ExpiresAt: issued.ExpiresAt,
		User:      toUserResponse(user),
	}, nil
}

var _ middleware.IdentityResolver = (*Service)(nil)
