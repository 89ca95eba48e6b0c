package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"libraryapi/internal/testutil"
)

func TestAuthMiddleware(t *testing.T) {
	secret := testutil.TestSecret
	protected := AuthMiddleware(secret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-User-ID", UserIDFrom(r))
		w.Header().Set("X-Role", RoleFrom(r))
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("valid token", func(t *testing.T) {
		token := testutil.GenerateTestToken(secret, "user-1", "MEMBER")
		r := testutil.NewRequestWithAuth(http.MethodGet, "/test", nil, token)
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		if w.Header().Get("X-User-ID") != "user-1" {
			t.Errorf("Expected user-1 in context, got %s", w.Header().Get("X-User-ID"))
		}
		if w.Header().Get("X-Role") != "MEMBER" {
			t.Errorf("Expected MEMBER role in context, got %s", w.Header().Get("X-Role"))
		}
	})

	t.Run("missing header", func(t *testing.T) {
		r := testutil.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, r)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("Expected 401, got %d", w.Code)
		}
	})

	t.Run("expired token", func(t *testing.T) {
		token := testutil.GenerateExpiredToken(secret, "user-1", "MEMBER")
		r := testutil.NewRequestWithAuth(http.MethodGet, "/test", nil, token)
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, r)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("Expected 401, got %d", w.Code)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		token := testutil.GenerateTestToken("another-secret", "user-1", "MEMBER")
		r := testutil.NewRequestWithAuth(http.MethodGet, "/test", nil, token)
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, r)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("Expected 401, got %d", w.Code)
		}
	})
}

func TestRequireRole(t *testing.T) {
	secret := testutil.TestSecret
	librarianOnly := AuthMiddleware(secret)(RequireRole("LIBRARIAN")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})))

	t.Run("matching role", func(t *testing.T) {
		token := testutil.GenerateTestToken(secret, "lib-1", "LIBRARIAN")
		r := testutil.NewRequestWithAuth(http.MethodGet, "/test", nil, token)
		w := httptest.NewRecorder()

		librarianOnly.ServeHTTP(w, r)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
	})

	t.Run("wrong role", func(t *testing.T) {
		token := testutil.GenerateTestToken(secret, "user-1", "MEMBER")
		r := testutil.NewRequestWithAuth(http.MethodGet, "/test", nil, token)
		w := httptest.NewRecorder()

		librarianOnly.ServeHTTP(w, r)

		if w.Code != http.StatusForbidden {
			t.Fatalf("Expected 403, got %d", w.Code)
		}
	})
}
