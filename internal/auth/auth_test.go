package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// --- mock session lookup ---

type mockSessionLookup struct {
	sessions map[string]*User
}

func (m *mockSessionLookup) LookupSession(ctx context.Context, token string) (*User, error) {
	user, ok := m.sessions[token]
	if !ok {
		return nil, errors.New("not found")
	}
	return user, nil
}

// --- role helpers ---

func TestRoleHelpers(t *testing.T) {
	tests := []struct {
		role           string
		wantAdmin      bool
		wantSuperadmin bool
	}{
		{"user", false, false},
		{"admin", true, false},
		{"superadmin", false, true},
		{"", false, false},
		{"auditor", false, false},
	}

	for _, tt := range tests {
		u := &User{ID: "u1", Role: tt.role}
		if got := u.IsAdmin(); got != tt.wantAdmin {
			t.Errorf("role %q: IsAdmin() = %v, want %v", tt.role, got, tt.wantAdmin)
		}
		if got := u.IsSuperadmin(); got != tt.wantSuperadmin {
			t.Errorf("role %q: IsSuperadmin() = %v, want %v", tt.role, got, tt.wantSuperadmin)
		}
	}
}

// --- context helpers ---

func TestUserContext_RoundTrip(t *testing.T) {
	user := &User{ID: "u1", Name: "Alice", Email: "alice@example.com", Role: "admin"}
	ctx := ContextWithUser(context.Background(), user)
	got := UserFromContext(ctx)
	if got == nil {
		t.Fatal("expected user from context, got nil")
	}
	if got.ID != user.ID {
		t.Errorf("expected ID %q, got %q", user.ID, got.ID)
	}
}

func TestUserFromContext_Empty(t *testing.T) {
	got := UserFromContext(context.Background())
	if got != nil {
		t.Errorf("expected nil from empty context, got %+v", got)
	}
}

// --- SessionMiddleware tests ---

func TestSessionMiddleware(t *testing.T) {
	token := "f1e2d3c4b5a6978877665544332211000011223344556677889900aabbccddee"
	lookup := &mockSessionLookup{
		sessions: map[string]*User{
			token: {ID: "u1", Name: "Alice", Email: "alice@example.com", Role: "user"},
		},
	}

	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			t.Error("expected user in context inside handler")
		}
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantError  bool
	}{
		{
			name:       "valid token",
			authHeader: "Bearer " + token,
			wantStatus: http.StatusOK,
		},
		{
			name:       "unknown token",
			authHeader: "Bearer 0000000000000000000000000000000000000000000000000000000000000000",
			wantStatus: http.StatusUnauthorized,
			wantError:  true,
		},
		{
			name:       "missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
			wantError:  true,
		},
		{
			name:       "malformed header no bearer",
			authHeader: "Token " + token,
			wantStatus: http.StatusUnauthorized,
			wantError:  true,
		},
		{
			name:       "bearer only no token",
			authHeader: "Bearer",
			wantStatus: http.StatusUnauthorized,
			wantError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			handler := SessionMiddleware(lookup)(okHandler)
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}
			if tt.wantError {
				assertJSONError(t, rr, "unauthorized")
			}
		})
	}
}

// --- SuperadminMiddleware tests ---

func TestSuperadminMiddleware(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		user       *User
		wantStatus int
		wantCode   string
	}{
		{
			name:       "superadmin passes",
			user:       &User{ID: "u1", Role: "superadmin"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "admin forbidden",
			user:       &User{ID: "u2", Role: "admin"},
			wantStatus: http.StatusForbidden,
			wantCode:   "forbidden",
		},
		{
			name:       "user forbidden",
			user:       &User{ID: "u3", Role: "user"},
			wantStatus: http.StatusForbidden,
			wantCode:   "forbidden",
		},
		{
			name:       "no user unauthorized",
			user:       nil,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "unauthorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.user != nil {
				req = req.WithContext(ContextWithUser(req.Context(), tt.user))
			}
			rr := httptest.NewRecorder()

			handler := SuperadminMiddleware()(okHandler)
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}
			if tt.wantCode != "" {
				assertJSONError(t, rr, tt.wantCode)
			}
		})
	}
}

// assertJSONError checks that the response body carries the standard error envelope.
func assertJSONError(t *testing.T, rr *httptest.ResponseRecorder, wantCode string) {
	t.Helper()

	ct := rr.Header().Get("Content-Type")
	if !strings.Contains(ct, "application/json") {
		t.Errorf("expected Content-Type application/json, got %q", ct)
	}

	var resp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if resp.Error.Code != wantCode {
		t.Errorf("expected error code %q, got %q", wantCode, resp.Error.Code)
	}
	if resp.Error.Message == "" {
		t.Error("expected non-empty error message")
	}
}
