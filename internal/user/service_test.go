package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Create(ctx context.Context, u *User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *mockRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(User), args.Error(1)
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(User), args.Error(1)
}

func (m *mockRepo) List(ctx context.Context) ([]User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]User), args.Error(1)
}

func (m *mockRepo) UpdateRole(ctx context.Context, id, role string) error {
	args := m.Called(ctx, id, role)
	return args.Error(0)
}

func (m *mockRepo) SetLocked(ctx context.Context, id string, locked bool) error {
	args := m.Called(ctx, id, locked)
	return args.Error(0)
}

func (m *mockRepo) CountByRole(ctx context.Context, role string) (int, error) {
	args := m.Called(ctx, role)
	return args.Int(0), args.Error(1)
}

type mockPurger struct {
	mock.Mock
}

func (m *mockPurger) DeleteAccount(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("new accounts get the member role", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewService(repo, new(mockPurger))

		repo.On("GetByEmail", ctx, "jane@example.com").Return(User{}, ErrNotFound)
		repo.On("Create", ctx, mock.MatchedBy(func(u *User) bool {
			return u.Role == RoleMember && u.Email == "jane@example.com"
		})).Return(nil)

		u, err := svc.Register(ctx, "jane@example.com", "Jane Doe", "hashed")
		require.NoError(t, err)
		assert.Equal(t, RoleMember, u.Role)
		repo.AssertExpectations(t)
	})

	t.Run("taken email", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewService(repo, new(mockPurger))

		repo.On("GetByEmail", ctx, "jane@example.com").Return(User{ID: "user-1"}, nil)

		_, err := svc.Register(ctx, "jane@example.com", "Jane Doe", "hashed")
		assert.ErrorIs(t, err, ErrAlreadyExists)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestService_ChangeRole(t *testing.T) {
	ctx := context.Background()

	t.Run("valid role", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewService(repo, new(mockPurger))

		repo.On("UpdateRole", ctx, "user-1", RoleLibrarian).Return(nil)

		require.NoError(t, svc.ChangeRole(ctx, "user-1", RoleLibrarian))
	})

	t.Run("unknown role", func(t *testing.T) {
		svc := NewService(new(mockRepo), new(mockPurger))

		err := svc.ChangeRole(ctx, "user-1", "SUPERUSER")
		assert.ErrorIs(t, err, ErrInvalidRole)
	})
}

func TestService_Lock(t *testing.T) {
	ctx := context.Background()

	t.Run("cannot lock own account", func(t *testing.T) {
		svc := NewService(new(mockRepo), new(mockPurger))

		err := svc.Lock(ctx, "admin-1", "admin-1")
		assert.ErrorIs(t, err, ErrSelf)
	})

	t.Run("locks another account", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewService(repo, new(mockPurger))

		repo.On("SetLocked", ctx, "user-1", true).Return(nil)

		require.NoError(t, svc.Lock(ctx, "admin-1", "user-1"))
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("cannot delete own account", func(t *testing.T) {
		svc := NewService(new(mockRepo), new(mockPurger))

		err := svc.Delete(ctx, "admin-1", "admin-1")
		assert.ErrorIs(t, err, ErrSelf)
	})

	t.Run("last librarian survives", func(t *testing.T) {
		repo := new(mockRepo)
		purger := new(mockPurger)
		svc := NewService(repo, purger)

		repo.On("GetByID", ctx, "lib-1").Return(User{ID: "lib-1", Role: RoleLibrarian}, nil)
		repo.On("CountByRole", ctx, RoleLibrarian).Return(1, nil)

		err := svc.Delete(ctx, "admin-1", "lib-1")
		assert.ErrorIs(t, err, ErrLastLibrarian)
		purger.AssertNotCalled(t, "DeleteAccount", mock.Anything, mock.Anything)
	})

	t.Run("librarian deletable when another remains", func(t *testing.T) {
		repo := new(mockRepo)
		purger := new(mockPurger)
		svc := NewService(repo, purger)

		repo.On("GetByID", ctx, "lib-2").Return(User{ID: "lib-2", Role: RoleLibrarian}, nil)
		repo.On("CountByRole", ctx, RoleLibrarian).Return(2, nil)
		purger.On("DeleteAccount", ctx, "lib-2").Return(nil)

		require.NoError(t, svc.Delete(ctx, "admin-1", "lib-2"))
		purger.AssertExpectations(t)
	})

	t.Run("member delete delegates to the purger", func(t *testing.T) {
		repo := new(mockRepo)
		purger := new(mockPurger)
		svc := NewService(repo, purger)

		repo.On("GetByID", ctx, "user-1").Return(User{ID: "user-1", Role: RoleMember}, nil)
		purger.On("DeleteAccount", ctx, "user-1").Return(nil)

		require.NoError(t, svc.Delete(ctx, "admin-1", "user-1"))
		repo.AssertNotCalled(t, "CountByRole", mock.Anything, mock.Anything)
	})
}
