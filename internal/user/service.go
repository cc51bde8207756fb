// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/cinecatalog/internal/auth"
	"github.com/carterperez-dev/cinecatalog/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) FindByUsernameOrEmail(
	ctx context.Context,
	value string,
) (*auth.UserInfo, error) {
	user, err := s.repo.FindByUsernameOrEmail(ctx, strings.TrimSpace(value))
	if err != nil {
		return nil, err
	}

	return toUserInfo(user), nil
}

func (s *Service) ExistsByUsername(
	ctx context.Context,
	username string,
) (bool, error) {
	return s.repo.ExistsByUsername(ctx, username)
}

func (s *Service) ExistsByEmail(
	ctx context.Context,
	email string,
) (bool, error) {
	return s.repo.ExistsByEmail(ctx, normalizeEmail(email))
}

// Create persists a new USER account. New accounts are active and treated
// as verified, since no verification flow exists.
func (s *Service) Create(
	ctx context.Context,
	account auth.NewAccount,
) (*auth.UserInfo, error) {
	user := &User{
		ID:            uuid.New().String(),
		Username:      account.Username,
		Email:         normalizeEmail(account.Email),
		PasswordHash:  account.PasswordHash,
		FullName:      account.FullName,
		Role:          RoleUser,
		Active:        true,
		EmailVerified: true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, toAuthError(err)
	}

	return toUserInfo(user), nil
}

func (s *Service) TouchLastAccess(
	ctx context.Context,
	id string,
	at time.Time,
) error {
	return s.repo.TouchLastAccess(ctx, id, at)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, id, passwordHash)
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", ErrInvalidUserID)
	}
	return s.repo.GetByID(ctx, parsed.String())
}

func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, userID)
}

// UpdateMe changes the caller's full name and email. A new email is
// pre-checked, but the unique index decides races.
func (s *Service) UpdateMe(
	ctx context.Context,
	userID string,
	req UpdateMeRequest,
) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("update me: %w", core.ErrUnauthorized)
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != user.Email {
			taken, err := s.repo.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, auth.ErrEmailTaken
			}
			user.Email = email
		}
	}

	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}

	if err := s.repo.UpdateProfile(ctx, user); err != nil {
		return nil, toAuthError(err)
	}

	return user, nil
}

// UpdateUserRole sets the role of another account. Changing one's own role
// is refused so an account never escalates or demotes itself.
func (s *Service) UpdateUserRole(
	ctx context.Context,
	requesterID, targetID, role string,
) (*User, error) {
	if !ValidRole(role) {
		return nil, fmt.Errorf(
			"update role: invalid role %q: %w",
			role,
			core.ErrInvalidInput,
		)
	}

	target, err := uuid.Parse(targetID)
	if err != nil {
		return nil, fmt.Errorf("update role: %w", ErrInvalidUserID)
	}
	targetID = target.String()

	if requester, err := uuid.Parse(requesterID); err == nil && requester == target {
		return nil, fmt.Errorf("update own role: %w", core.ErrForbidden)
	}

	user, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateRole(ctx, targetID, role); err != nil {
		return nil, err
	}
	user.Role = role

	return user, nil
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toAuthError(err error) error {
	switch {
	case errors.Is(err, ErrUsernameTaken):
		return auth.ErrUsernameTaken
	case errors.Is(err, ErrEmailTaken):
		return auth.ErrEmailTaken
	case errors.Is(err, core.ErrDuplicateKey):
		return auth.ErrAccountExists
	default:
		return err
	}
}

func toUserInfo(u *User) *auth.UserInfo {
	return &auth.UserInfo{
		ID:            u.ID,
		Username:      u.Username,
		Email:         u.Email,
		FullName:      u.FullName,
		PasswordHash:  u.PasswordHash,
		Role:          u.Role,
		Active:        u.Active,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
		LastAccessAt:  u.LastAccessAt,
	}
}

var _ auth.UserProvider = (*Service)(nil)
