package handler_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/kinneerd/Cordkeeper/internal/handler"
	"github.com/kinneerd/Cordkeeper/internal/repository/sqlite"
	"github.com/kinneerd/Cordkeeper/internal/service"
)

const testJWTSecret = "test-secret-for-handler-tests"

func newTestServices(t *testing.T) (*service.AuthService, *service.FireService, *service.StatsService, *service.SettingsService) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// Cost 4 keeps bcrypt cheap in tests.
	auth := service.NewAuthService(db.Accounts(), testJWTSecret, 4)
	settings := service.NewSettingsService(db.Settings())
	if _, err := settings.Load(context.Background()); err != nil {
		t.Fatalf("Load settings: %v", err)
	}
	fires := service.NewFireService(db.Fires())
	stats := service.NewStatsService(db.Fires(), settings)
	fires.OnChange(stats.Invalidate)
	settings.OnChange(stats.Invalidate)

	return auth, fires, stats, settings
}

// newTestServer wires the full route table the same way main does and
// starts a test server. The login limiter is generous so only the
// dedicated rate-limit test can trip it.
func newTestServer(t *testing.T, auth *service.AuthService, fires *service.FireService, stats *service.StatsService, settings *service.SettingsService) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, auth, fires, stats, settings, service.NewLoginLimiter(1, 100), false)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRequireAuth_ValidJWT(t *testing.T) {
	auth, _, _, _ := newTestServices(t)
	ctx := context.Background()

	_, err := auth.Setup(ctx, "Valid Owner", "password123", "password123")
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	token, err := auth.Login(ctx, "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	var gotName string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account := handler.AccountFromContext(r.Context())
		if account != nil {
			gotName = account.DisplayName
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	w := httptest.NewRecorder()

	handler.RequireAuth(auth, inner).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotName != "Valid Owner" {
		t.Fatalf("expected account 'Valid Owner', got %q", gotName)
	}
}

func TestRequireAuth_MissingCookie(t *testing.T) {
	auth, _, _, _ := newTestServices(t)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	w := httptest.NewRecorder()

	handler.RequireAuth(auth, inner).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	auth, _, _, _ := newTestServices(t)

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: "invalid.jwt.token"})
	w := httptest.NewRecorder()

	handler.RequireAuth(auth, inner).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestRequireAuth_TamperedToken(t *testing.T) {
	auth, _, _, _ := newTestServices(t)
	ctx := context.Background()

	_, err := auth.Setup(ctx, "Tamper", "password123", "password123")
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	token, err := auth.Login(ctx, "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	tampered := token[:len(token)-1] + "X"

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("inner handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: tampered})
	w := httptest.NewRecorder()

	handler.RequireAuth(auth, inner).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestOptionalAuth_WithToken(t *testing.T) {
	auth, _, _, _ := newTestServices(t)
	ctx := context.Background()

	_, err := auth.Setup(ctx, "Optional", "password123", "password123")
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	token, err := auth.Login(ctx, "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	var gotName string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account := handler.AccountFromContext(r.Context())
		if account != nil {
			gotName = account.DisplayName
		}
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "auth_token", Value: token})
	w := httptest.NewRecorder()

	handler.OptionalAuth(auth, inner).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotName != "Optional" {
		t.Fatalf("expected account 'Optional', got %q", gotName)
	}
}

func TestOptionalAuth_WithoutToken(t *testing.T) {
	auth, _, _, _ := newTestServices(t)

	var gotNil *bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account := handler.AccountFromContext(r.Context())
		isNil := account == nil
		gotNil = &isNil
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	handler.OptionalAuth(auth, inner).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if gotNil == nil || !*gotNil {
		t.Fatal("expected nil account in context for unauthenticated request")
	}
}

func TestRequireSetup_RedirectsUntilAccountExists(t *testing.T) {
	auth, _, _, _ := newTestServices(t)

	called := false
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	w := httptest.NewRecorder()

	handler.RequireSetup(auth, inner).ServeHTTP(w, req)

	if called {
		t.Fatal("inner handler should not be called before setup")
	}
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/setup" {
		t.Fatalf("expected redirect to /setup, got %s", loc)
	}

	_, err := auth.Setup(context.Background(), "Owner", "password123", "password123")
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	w = httptest.NewRecorder()
	handler.RequireSetup(auth, inner).ServeHTTP(w, req)

	if !called {
		t.Fatal("inner handler should be called after setup")
	}
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 after setup, got %d", w.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	handler.SecurityHeaders(inner).ServeHTTP(w, req)

	headers := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Referrer-Policy":        "same-origin",
	}
	for name, want := range headers {
		if got := w.Header().Get(name); got != want {
			t.Errorf("header %s: expected %q, got %q", name, want, got)
		}
	}
}
