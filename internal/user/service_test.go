// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/cinecatalog/internal/auth"
	"github.com/carterperez-dev/cinecatalog/internal/core"
)

// memoryRepo enforces the same unique indexes as the schema.
type memoryRepo struct {
	mu    sync.Mutex
	users map[string]*User
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{users: make(map[string]*User)}
}

func (m *memoryRepo) conflict(u *User) error {
	for _, other := range m.users {
		if other.ID == u.ID {
			continue
		}
		if strings.EqualFold(other.Username, u.Username) {
			return ErrUsernameTaken
		}
		if other.Email == u.Email {
			return ErrEmailTaken
		}
	}
	return nil
}

func (m *memoryRepo) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.conflict(u); err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	u.CreatedAt = time.Now()
	stored := *u
	m.users[u.ID] = &stored
	return nil
}

func (m *memoryRepo) GetByID(_ context.Context, id string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	copied := *u
	return &copied, nil
}

func (m *memoryRepo) FindByUsernameOrEmail(_ context.Context, value string) (*User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Username, value) || u.Email == strings.ToLower(value) {
			copied := *u
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("find user: %w", core.ErrNotFound)
}

func (m *memoryRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == strings.ToLower(email) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRepo) UpdateProfile(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.users[u.ID]
	if !ok {
		return core.ErrNotFound
	}
	if err := m.conflict(u); err != nil {
		return err
	}
	stored.FullName = u.FullName
	stored.Email = u.Email
	return nil
}

func (m *memoryRepo) UpdateRole(_ context.Context, id, role string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.Role = role
	return nil
}

func (m *memoryRepo) UpdatePassword(_ context.Context, id, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *memoryRepo) TouchLastAccess(_ context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return core.ErrNotFound
	}
	u.LastAccessAt = &at
	return nil
}

func (m *memoryRepo) List(_ context.Context, _ ListUsersParams) ([]User, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (m *memoryRepo) Count(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users), nil
}

func createAccount(t *testing.T, s *Service, username, email string) *auth.UserInfo {
	t.Helper()

	info, err := s.Create(context.Background(), auth.NewAccount{
		Username:     username,
		Email:        email,
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	return info
}

func TestService_CreateDefaults(t *testing.T) {
	t.Parallel()

	s := NewService(newMemoryRepo())

	info := createAccount(t, s, "ana", "  Ana@X.com ")
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, "ana@x.com", info.Email)
	assert.Equal(t, RoleUser, info.Role)
	assert.True(t, info.Active)
	assert.True(t, info.EmailVerified)
	assert.True(t, info.CanAuthenticate())
}

func TestService_CreateMapsConstraintErrors(t *testing.T) {
	t.Parallel()

	s := NewService(newMemoryRepo())
	createAccount(t, s, "ana", "ana@x.com")

	_, err := s.Create(context.Background(), auth.NewAccount{Username: "ANA", Email: "other@x.com"})
	require.ErrorIs(t, err, auth.ErrUsernameTaken)
	require.ErrorIs(t, err, auth.ErrAccountExists)

	_, err = s.Create(context.Background(), auth.NewAccount{Username: "ben", Email: "ANA@x.com"})
	require.ErrorIs(t, err, auth.ErrEmailTaken)
}

func TestService_ConcurrentCreateSameUsername(t *testing.T) {
	t.Parallel()

	s := NewService(newMemoryRepo())

	const workers = 16
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		success  int
		conflict int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Create(context.Background(), auth.NewAccount{
				Username: "ana",
				Email:    fmt.Sprintf("ana%d@x.com", i),
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				success++
			} else if assert.ErrorIs(t, err, auth.ErrAccountExists) {
				conflict++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, success)
	assert.Equal(t, workers-1, conflict)
}

func TestService_FindByUsernameOrEmail(t *testing.T) {
	t.Parallel()

	s := NewService(newMemoryRepo())
	created := createAccount(t, s, "Ana", "ana@x.com")

	for _, value := range []string{"Ana", "ana", "ana@x.com", "ANA@X.COM"} {
		found, err := s.FindByUsernameOrEmail(context.Background(), value)
		require.NoError(t, err, value)
		assert.Equal(t, created.ID, found.ID)
	}

	_, err := s.FindByUsernameOrEmail(context.Background(), "ben")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestService_UpdateMe(t *testing.T) {
	t.Parallel()

	s := NewService(newMemoryRepo())
	ana := createAccount(t, s, "ana", "ana@x.com")
	createAccount(t, s, "ben", "ben@x.com")

	name := "Ana Lima"
	same := "ANA@x.com"
	u, err := s.UpdateMe(context.Background(), ana.ID, UpdateMeRequest{
		FullName: &name,
		Email:    &same,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", u.FullName)
	assert.Equal(t, "ana@x.com", u.Email)

	taken := "ben@x.com"
	_, err = s.UpdateMe(context.Background(), ana.ID, UpdateMeRequest{Email: &taken})
	require.ErrorIs(t, err, auth.ErrEmailTaken)

	stored, err := s.GetUser(context.Background(), ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@x.com", stored.Email)

	fresh := "ana.lima@x.com"
	u, err = s.UpdateMe(context.Background(), ana.ID, UpdateMeRequest{Email: &fresh})
	require.NoError(t, err)
	assert.Equal(t, "ana.lima@x.com", u.Email)

	_, err = s.UpdateMe(context.Background(), "", UpdateMeRequest{})
	require.ErrorIs(t, err, core.ErrUnauthorized)
}

func TestService_UpdateUserRole(t *testing.T) {
	t.Parallel()

	s := NewService(newMemoryRepo())
	admin := createAccount(t, s, "root", "root@x.com")
	ana := createAccount(t, s, "ana", "ana@x.com")

	u, err := s.UpdateUserRole(context.Background(), admin.ID, ana.ID, RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, u.Role)

	_, err = s.UpdateUserRole(context.Background(), ana.ID, ana.ID, RoleUser)
	require.ErrorIs(t, err, core.ErrForbidden)

	_, err = s.UpdateUserRole(context.Background(), admin.ID, ana.ID, "ROOT")
	require.ErrorIs(t, err, core.ErrInvalidInput)

	_, err = s.UpdateUserRole(context.Background(), admin.ID, uuid.NewString(), RoleUser)
	require.ErrorIs(t, err, core.ErrNotFound)

	_, err = s.UpdateUserRole(context.Background(), admin.ID, "missing", RoleUser)
	require.ErrorIs(t, err, ErrInvalidUserID)

	_, err = s.UpdateUserRole(context.Background(), admin.ID, strings.ToUpper(admin.ID), RoleUser)
	require.ErrorIs(t, err, core.ErrForbidden, "an upper-cased own id is still the caller")

	stored, err := s.GetUser(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.Equal(t, RoleUser, stored.Role)
}

func TestService_GetUserCanonicalizesID(t *testing.T) {
	t.Parallel()

	s := NewService(newMemoryRepo())
	ana := createAccount(t, s, "ana", "ana@x.com")

	u, err := s.GetUser(context.Background(), strings.ToUpper(ana.ID))
	require.NoError(t, err)
	assert.Equal(t, ana.ID, u.ID)

	_, err = s.GetUser(context.Background(), "abc")
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestService_TouchLastAccess(t *testing.T) {
	t.Parallel()

	s := NewService(newMemoryRepo())
	ana := createAccount(t, s, "ana", "ana@x.com")
	at := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.TouchLastAccess(context.Background(), ana.ID, at))

	info, err := s.GetByID(context.Background(), ana.ID)
	require.NoError(t, err)
	require.NotNil(t, info.LastAccessAt)
	assert.True(t, info.LastAccessAt.Equal(at))
}
