package member

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) GetByUserID(ctx context.Context, userID string) (Member, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(Member), args.Error(1)
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (Member, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Member), args.Error(1)
}

func (m *mockRepo) CreateForUser(ctx context.Context, userID, fullName, email string) (Member, error) {
	args := m.Called(ctx, userID, fullName, email)
	return args.Get(0).(Member), args.Error(1)
}

func (m *mockRepo) PurgeAccount(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func TestService_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the existing member", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewService(repo)

		repo.On("GetByUserID", ctx, "user-1").Return(Member{ID: "member-1"}, nil)

		m, err := svc.Resolve(ctx, "user-1", "Jane Doe", "jane@example.com")
		require.NoError(t, err)
		assert.Equal(t, "member-1", m.ID)
		repo.AssertNotCalled(t, "CreateForUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("provisions on first need", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewService(repo)

		repo.On("GetByUserID", ctx, "user-1").Return(Member{}, ErrNotFound)
		repo.On("CreateForUser", ctx, "user-1", "Jane Doe", "jane@example.com").
			Return(Member{ID: "member-1", FullName: "Jane Doe"}, nil)

		m, err := svc.Resolve(ctx, "user-1", "Jane Doe", "jane@example.com")
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", m.FullName)
		repo.AssertExpectations(t)
	})

	t.Run("propagates storage errors", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewService(repo)

		dbErr := errors.New("connection reset")
		repo.On("GetByUserID", ctx, "user-1").Return(Member{}, dbErr)

		_, err := svc.Resolve(ctx, "user-1", "Jane Doe", "jane@example.com")
		assert.ErrorIs(t, err, dbErr)
		repo.AssertNotCalled(t, "CreateForUser", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_DeleteAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("refused while a loan is active", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewService(repo)

		repo.On("PurgeAccount", ctx, "user-1").Return(ErrActiveLoan)

		err := svc.DeleteAccount(ctx, "user-1")
		assert.ErrorIs(t, err, ErrActiveLoan)
	})

	t.Run("purges when no loan is active", func(t *testing.T) {
		repo := new(mockRepo)
		svc := NewService(repo)

		repo.On("PurgeAccount", ctx, "user-1").Return(nil)

		require.NoError(t, svc.DeleteAccount(ctx, "user-1"))
	})
}
