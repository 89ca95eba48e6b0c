package loan

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) Checkout(ctx context.Context, bookID, memberID string, loanDate, dueDate time.Time) (Loan, error) {
	args := m.Called(ctx, bookID, memberID, loanDate, dueDate)
	return args.Get(0).(Loan), args.Error(1)
}

func (m *mockRepo) Return(ctx context.Context, id string, returnDate time.Time) (Loan, error) {
	args := m.Called(ctx, id, returnDate)
	return args.Get(0).(Loan), args.Error(1)
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRepo) GetByID(ctx context.Context, id string) (Loan, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(Loan), args.Error(1)
}

func (m *mockRepo) HasActive(ctx context.Context, memberID, bookID string) (bool, error) {
	args := m.Called(ctx, memberID, bookID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) List(ctx context.Context, limit, offset int) ([]Loan, int, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]Loan), args.Int(1), args.Error(2)
}

func (m *mockRepo) ListByMember(ctx context.Context, memberID string) ([]Loan, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).([]Loan), args.Error(1)
}

var frozenNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newTestService(repo Repository) *Service {
	s := NewService(repo)
	s.now = func() time.Time { return frozenNow }
	return s
}

func TestService_Checkout(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepo)
	svc := newTestService(repo)

	wantDue := frozenNow.Add(DefaultTerm)
	repo.On("Checkout", ctx, "book-1", "member-1", frozenNow, wantDue).
		Return(Loan{ID: "loan-1", LoanDate: frozenNow, DueDate: wantDue}, nil)

	l, err := svc.Checkout(ctx, "book-1", "member-1")
	require.NoError(t, err)
	assert.Equal(t, wantDue, l.DueDate)
	assert.True(t, l.Active())
	repo.AssertExpectations(t)
}

func TestService_Return(t *testing.T) {
	ctx := context.Background()

	t.Run("closes the loan at now", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newTestService(repo)

		returned := frozenNow
		repo.On("Return", ctx, "loan-1", frozenNow).
			Return(Loan{ID: "loan-1", ReturnDate: &returned}, nil)

		l, err := svc.Return(ctx, "loan-1")
		require.NoError(t, err)
		assert.False(t, l.Active())
	})

	t.Run("second return surfaces already returned", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newTestService(repo)

		repo.On("Return", ctx, "loan-1", frozenNow).Return(Loan{}, ErrAlreadyReturned)

		_, err := svc.Return(ctx, "loan-1")
		assert.ErrorIs(t, err, ErrAlreadyReturned)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("active loan is refused", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newTestService(repo)

		repo.On("Delete", ctx, "loan-1").Return(ErrActive)

		err := svc.Delete(ctx, "loan-1")
		assert.ErrorIs(t, err, ErrActive)
	})

	t.Run("returned loan is purged", func(t *testing.T) {
		repo := new(mockRepo)
		svc := newTestService(repo)

		repo.On("Delete", ctx, "loan-1").Return(nil)

		require.NoError(t, svc.Delete(ctx, "loan-1"))
	})
}
