package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/heartmarshall/docxtranslate/pkg/ctxutil"
)

var errUnauthorized = errors.New("invalid token")

type tokenVerifierMock struct {
	subject string
	err     error
}

func (m *tokenVerifierMock) Verify(token string) (string, error) {
	return m.subject, m.err
}

func TestAuth_ValidToken_SetsCallerID(t *testing.T) {
	t.Parallel()

	var gotCallerID string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCallerID, _ = ctxutil.CallerIDFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	wrapped := Auth(&tokenVerifierMock{subject: "caller-1"})(handler)

	req := httptest.NewRequest(http.MethodPost, "/translate", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotCallerID != "caller-1" {
		t.Errorf("expected caller_id 'caller-1', got %q", gotCallerID)
	}
}

func TestAuth_MissingToken_Rejected(t *testing.T) {
	t.Parallel()

	called := false
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	wrapped := Auth(&tokenVerifierMock{})(handler)

	req := httptest.NewRequest(http.MethodPost, "/translate", nil)
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if called {
		t.Error("expected downstream handler not to be called")
	}
}

func TestAuth_InvalidToken_Rejected(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("downstream handler should not be called")
	})

	wrapped := Auth(&tokenVerifierMock{err: errUnauthorized})(handler)

	req := httptest.NewRequest(http.MethodPost, "/translate", nil)
	req.Header.Set("Authorization", "Bearer bad-token")
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuth_NonBearerScheme_Rejected(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("downstream handler should not be called")
	})

	wrapped := Auth(&tokenVerifierMock{subject: "caller-1"})(handler)

	req := httptest.NewRequest(http.MethodPost, "/translate", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec := httptest.NewRecorder()

	wrapped.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
