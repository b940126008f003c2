package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hitoshi/kicho/internal/auth"
	"github.com/hitoshi/kicho/internal/model"
)

// --- モック定義 ---

type mockUserFinder struct {
	findByIDFn func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserFinder) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}

var _ UserFinder = (*mockUserFinder)(nil)

// --- テストヘルパー ---

// newTestTokenService はテスト用のトークンサービスを生成する。
func newTestTokenService(t *testing.T, ttl time.Duration) *auth.TokenService {
	t.Helper()
	return auth.NewTokenService("test-secret", ttl)
}

// issueToken は指定ユーザーIDのトークンを発行する。
func issueToken(t *testing.T, tokens *auth.TokenService, userID string) string {
	t.Helper()
	token, err := tokens.Issue(userID)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

// --- テスト ---

func TestAuthMiddleware_ValidToken_InjectsUser(t *testing.T) {
	tokens := newTestTokenService(t, 1*time.Hour)
	finder := &mockUserFinder{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			if id == "user-123" {
				return &model.User{ID: "user-123", Email: "taro@example.com"}, nil
			}
			return nil, nil
		},
	}

	mw := NewAuthMiddleware(tokens, finder)

	var capturedUserID string
	var capturedEmail string
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := UserIDFromContext(r.Context())
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		capturedUserID = userID

		user, err := UserFromContext(r.Context())
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if user != nil {
			capturedEmail = user.Email
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, "user-123"))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if capturedUserID != "user-123" {
		t.Errorf("userID = %q, want %q", capturedUserID, "user-123")
	}
	if capturedEmail != "taro@example.com" {
		t.Errorf("email = %q, want %q", capturedEmail, "taro@example.com")
	}
}

func TestAuthMiddleware_NoAuthorizationHeader_Returns401(t *testing.T) {
	tokens := newTestTokenService(t, 1*time.Hour)
	mw := NewAuthMiddleware(tokens, &mockUserFinder{})

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	if body.Success {
		t.Error("success = true, want false")
	}
	if body.Code != model.ErrCodeUnauthorized {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeUnauthorized)
	}
}

func TestAuthMiddleware_NonBearerScheme_Returns401(t *testing.T) {
	tokens := newTestTokenService(t, 1*time.Hour)
	mw := NewAuthMiddleware(tokens, &mockUserFinder{})

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_EmptyBearerToken_Returns401(t *testing.T) {
	tokens := newTestTokenService(t, 1*time.Hour)
	mw := NewAuthMiddleware(tokens, &mockUserFinder{})

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	req.Header.Set("Authorization", "Bearer ")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_InvalidToken_Returns401(t *testing.T) {
	tokens := newTestTokenService(t, 1*time.Hour)
	mw := NewAuthMiddleware(tokens, &mockUserFinder{})

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	req.Header.Set("Authorization", "Bearer not-a-valid-token")
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_ExpiredToken_Returns401(t *testing.T) {
	// 有効期限が過去のトークンを発行する
	expiredTokens := newTestTokenService(t, -1*time.Hour)
	token := issueToken(t, expiredTokens, "user-123")

	tokens := newTestTokenService(t, 1*time.Hour)
	mw := NewAuthMiddleware(tokens, &mockUserFinder{})

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_UnknownUser_Returns401(t *testing.T) {
	tokens := newTestTokenService(t, 1*time.Hour)
	finder := &mockUserFinder{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			// トークンは有効だがユーザーが削除済みの状態をシミュレート
			return nil, nil
		},
	}
	mw := NewAuthMiddleware(tokens, finder)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, "user-deleted"))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestAuthMiddleware_FinderError_Returns401(t *testing.T) {
	tokens := newTestTokenService(t, 1*time.Hour)
	finder := &mockUserFinder{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return nil, context.DeadlineExceeded
		},
	}
	mw := NewAuthMiddleware(tokens, finder)

	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not be called")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
	req.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, "user-123"))
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
}

func TestUserIDFromContext_NoValue_ReturnsError(t *testing.T) {
	ctx := context.Background()
	_, err := UserIDFromContext(ctx)
	if err == nil {
		t.Error("expected error for missing user ID in context")
	}
}

func TestUserIDFromContext_ValidValue_ReturnsUserID(t *testing.T) {
	ctx := ContextWithUserID(context.Background(), "user-456")
	userID, err := UserIDFromContext(ctx)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if userID != "user-456" {
		t.Errorf("userID = %q, want %q", userID, "user-456")
	}
}

func TestUserFromContext_NoValue_ReturnsError(t *testing.T) {
	ctx := context.Background()
	_, err := UserFromContext(ctx)
	if err == nil {
		t.Error("expected error for missing user in context")
	}
}

func TestContextWithUser_InjectsUserAndID(t *testing.T) {
	user := &model.User{ID: "user-789", Email: "hanako@example.com"}
	ctx := ContextWithUser(context.Background(), user)

	got, err := UserFromContext(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Email != "hanako@example.com" {
		t.Errorf("email = %q, want %q", got.Email, "hanako@example.com")
	}

	userID, err := UserIDFromContext(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if userID != "user-789" {
		t.Errorf("userID = %q, want %q", userID, "user-789")
	}
}
