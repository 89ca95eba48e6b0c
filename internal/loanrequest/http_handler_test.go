package loanrequest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"libraryapi/internal/httpx"
	"libraryapi/internal/inventory"
	"libraryapi/internal/loan"
	"libraryapi/internal/member"
	"libraryapi/internal/testutil"
	"libraryapi/internal/user"
)

// Canned stores so the handler can resolve the caller to a member without a
// database.
type stubUserRepo struct{}

func (stubUserRepo) Create(ctx context.Context, u *user.User) error { return nil }
func (stubUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return user.User{}, user.ErrNotFound
}
func (stubUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	return user.User{ID: id, Email: "jane@example.com", FullName: "Jane Doe", Role: user.RoleMember}, nil
}
func (stubUserRepo) List(ctx context.Context) ([]user.User, error)        { return nil, nil }
func (stubUserRepo) UpdateRole(ctx context.Context, id, role string) error { return nil }
func (stubUserRepo) SetLocked(ctx context.Context, id string, locked bool) error {
	return nil
}
func (stubUserRepo) CountByRole(ctx context.Context, role string) (int, error) { return 0, nil }

type stubMemberRepo struct{}

func (stubMemberRepo) GetByUserID(ctx context.Context, userID string) (member.Member, error) {
	return member.Member{ID: "member-1", FullName: "Jane Doe"}, nil
}
func (stubMemberRepo) GetByID(ctx context.Context, id string) (member.Member, error) {
	return member.Member{ID: id}, nil
}
func (stubMemberRepo) CreateForUser(ctx context.Context, userID, fullName, email string) (member.Member, error) {
	return member.Member{ID: "member-1", FullName: fullName}, nil
}
func (stubMemberRepo) PurgeAccount(ctx context.Context, userID string) error { return nil }

func newTestHandler(repo Repository, loans Loans) *HTTPHandler {
	svc := newTestService(repo, loans)
	members := member.NewService(stubMemberRepo{})
	users := user.NewService(stubUserRepo{}, nil)
	return NewHTTPHandler(svc, members, users)
}

func authedRequest(method, path string, body interface{}) *http.Request {
	r := testutil.NewRequest(method, path, body)
	ctx := httpx.ContextWithUser(r.Context(), "user-1", user.RoleMember)
	return r.WithContext(ctx)
}

const testBookID = "5f6d1c2e-0000-4000-8000-000000000001"

func TestHTTPHandler_Submit(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		repo := new(mockRepo)
		loans := new(mockLoans)
		handler := newTestHandler(repo, loans)

		repo.On("HasPending", mock.Anything, "member-1", testBookID).Return(false, nil)
		loans.On("HasActive", mock.Anything, "member-1", testBookID).Return(false, nil)
		repo.On("Create", mock.Anything, mock.Anything).Return(nil)

		w := httptest.NewRecorder()
		r := authedRequest(http.MethodPost, "/requests", map[string]string{"book_id": testBookID})

		handler.Submit(w, r)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("malformed date", func(t *testing.T) {
		handler := newTestHandler(new(mockRepo), new(mockLoans))

		w := httptest.NewRecorder()
		r := authedRequest(http.MethodPost, "/requests", map[string]string{
			"book_id":             testBookID,
			"desired_return_date": "20-05-2024",
		})

		handler.Submit(w, r)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("duplicate pending", func(t *testing.T) {
		repo := new(mockRepo)
		handler := newTestHandler(repo, new(mockLoans))

		repo.On("HasPending", mock.Anything, "member-1", testBookID).Return(true, nil)

		w := httptest.NewRecorder()
		r := authedRequest(http.MethodPost, "/requests", map[string]string{"book_id": testBookID})

		handler.Submit(w, r)

		assert.Equal(t, http.StatusConflict, w.Code)
		resp := testutil.RecordHTTPResponse(w)
		errBody, _ := resp.Body["error"].(map[string]interface{})
		assert.Equal(t, "DUPLICATE_PENDING", errBody["code"])
	})

	t.Run("active loan", func(t *testing.T) {
		repo := new(mockRepo)
		loans := new(mockLoans)
		handler := newTestHandler(repo, loans)

		repo.On("HasPending", mock.Anything, "member-1", testBookID).Return(false, nil)
		loans.On("HasActive", mock.Anything, "member-1", testBookID).Return(true, nil)

		w := httptest.NewRecorder()
		r := authedRequest(http.MethodPost, "/requests", map[string]string{"book_id": testBookID})

		handler.Submit(w, r)

		assert.Equal(t, http.StatusConflict, w.Code)
		resp := testutil.RecordHTTPResponse(w)
		errBody, _ := resp.Body["error"].(map[string]interface{})
		assert.Equal(t, "ACTIVE_LOAN_EXISTS", errBody["code"])
	})
}

func TestHTTPHandler_Approve(t *testing.T) {
	approveReq := func() *http.Request {
		r := testutil.NewRequest(http.MethodPost, "/requests/req-1/approve", nil)
		r.SetPathValue("id", "req-1")
		ctx := httpx.ContextWithUser(r.Context(), "librarian-1", user.RoleLibrarian)
		return r.WithContext(ctx)
	}

	t.Run("success", func(t *testing.T) {
		repo := new(mockRepo)
		handler := newTestHandler(repo, new(mockLoans))

		repo.On("GetByID", mock.Anything, "req-1").Return(LoanRequest{ID: "req-1", Status: StatusPending}, nil)
		repo.On("Approve", mock.Anything, "req-1", "librarian-1", mock.Anything, mock.Anything).
			Return(loan.Loan{ID: "loan-1", DueDate: frozenNow.Add(loan.DefaultTerm)}, nil)

		w := httptest.NewRecorder()
		handler.Approve(w, approveReq())

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("out of stock keeps the request pending", func(t *testing.T) {
		repo := new(mockRepo)
		handler := newTestHandler(repo, new(mockLoans))

		repo.On("GetByID", mock.Anything, "req-1").Return(LoanRequest{ID: "req-1", Status: StatusPending}, nil)
		repo.On("Approve", mock.Anything, "req-1", "librarian-1", mock.Anything, mock.Anything).
			Return(loan.Loan{}, inventory.ErrOutOfStock)

		w := httptest.NewRecorder()
		handler.Approve(w, approveReq())

		assert.Equal(t, http.StatusConflict, w.Code)
		resp := testutil.RecordHTTPResponse(w)
		errBody, _ := resp.Body["error"].(map[string]interface{})
		assert.Equal(t, "OUT_OF_STOCK", errBody["code"])
	})

	t.Run("already decided", func(t *testing.T) {
		repo := new(mockRepo)
		handler := newTestHandler(repo, new(mockLoans))

		repo.On("GetByID", mock.Anything, "req-1").Return(LoanRequest{ID: "req-1", Status: StatusDenied}, nil)

		w := httptest.NewRecorder()
		handler.Approve(w, approveReq())

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("not found", func(t *testing.T) {
		repo := new(mockRepo)
		handler := newTestHandler(repo, new(mockLoans))

		repo.On("GetByID", mock.Anything, "req-1").Return(LoanRequest{}, ErrNotFound)

		w := httptest.NewRecorder()
		handler.Approve(w, approveReq())

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHTTPHandler_Deny(t *testing.T) {
	repo := new(mockRepo)
	handler := newTestHandler(repo, new(mockLoans))

	repo.On("Deny", mock.Anything, "req-1", "librarian-1", mock.Anything, "no copies this season").Return(nil)

	w := httptest.NewRecorder()
	r := testutil.NewRequest(http.MethodPost, "/requests/req-1/deny", map[string]string{"notes": "no copies this season"})
	r.SetPathValue("id", "req-1")
	ctx := httpx.ContextWithUser(r.Context(), "librarian-1", user.RoleLibrarian)

	handler.Deny(w, r.WithContext(ctx))

	assert.Equal(t, http.StatusNoContent, w.Code)
	repo.AssertExpectations(t)
}

func TestHTTPHandler_ListMine(t *testing.T) {
	repo := new(mockRepo)
	handler := newTestHandler(repo, new(mockLoans))

	desired := time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC)
	repo.On("ListByMember", mock.Anything, "member-1").Return([]LoanRequest{
		{ID: "req-1", Status: StatusPending, DesiredReturnDate: &desired},
	}, nil)

	w := httptest.NewRecorder()
	handler.ListMine(w, authedRequest(http.MethodGet, "/requests/mine", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
