// PantryRank - Supermarket Product Catalog and Community Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pantryrank

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/tomtom215/pantryrank/internal/config"
)

func echoSubject() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := SubjectFromContext(r.Context())
		if s == nil {
			_, _ = w.Write([]byte("anonymous"))
			return
		}
		_, _ = w.Write([]byte(s.ID))
	})
}

func TestRequireAuthJWT(t *testing.T) {
	t.Parallel()

	manager := newTestManager(t)
	mw := NewMiddleware(NewJWTAuthenticator(manager), nil)
	handler := mw.RequireAuth(echoSubject())

	token, err := manager.GenerateToken(Subject{ID: "user-7"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	expiredManager, _ := NewJWTManager(&config.SecurityConfig{JWTSecret: testSecret, JWTIssuer: "pantryrank", SessionTimeout: -time.Minute})
	expired, err := expiredManager.GenerateToken(Subject{ID: "user-7"})
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	tests := []struct {
		name       string
		setup      func(r *http.Request)
		wantStatus int
		wantBody   string
	}{
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, http.StatusOK, "user-7"},
		{"lowercase scheme", func(r *http.Request) { r.Header.Set("Authorization", "bearer "+token) }, http.StatusOK, "user-7"},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "token", Value: token}) }, http.StatusOK, "user-7"},
		{"missing", func(*http.Request) {}, http.StatusUnauthorized, ""},
		{"tampered", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token+"x") }, http.StatusUnauthorized, ""},
		{"expired", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+expired) }, http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/products", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestRequireAuthMissingSetsChallenge(t *testing.T) {
	t.Parallel()

	mw := NewMiddleware(NewJWTAuthenticator(newTestManager(t)), nil)
	rec := httptest.NewRecorder()
	mw.RequireAuth(echoSubject()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Header().Get("WWW-Authenticate") == "" {
		t.Error("missing WWW-Authenticate header")
	}
}

func TestCustomErrorWriter(t *testing.T) {
	t.Parallel()

	var gotStatus int
	var gotMessage string
	mw := NewMiddleware(NewProxyAuthenticator(""), func(w http.ResponseWriter, _ *http.Request, status int, message string) {
		gotStatus, gotMessage = status, message
		w.WriteHeader(status)
	})
	rec := httptest.NewRecorder()
	mw.RequireAuth(echoSubject()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if gotStatus != http.StatusUnauthorized || gotMessage != "Authentication required" {
		t.Errorf("writer got (%d, %q)", gotStatus, gotMessage)
	}
}

func TestProxyAuthenticator(t *testing.T) {
	t.Parallel()

	mw := NewMiddleware(NewProxyAuthenticator("X-Remote-User"), nil)
	handler := mw.RequireAuth(echoSubject())

	tests := []struct {
		name       string
		value      string
		wantStatus int
	}{
		{"present", "zoe", http.StatusOK},
		{"blank", "   ", http.StatusUnauthorized},
		{"too long", string(make([]byte, 300)), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("X-Remote-User", tt.value)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	t.Parallel()

	mw := NewMiddleware(NewProxyAuthenticator(""), nil)
	handler := mw.OptionalAuth(echoSubject())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "anonymous" {
		t.Errorf("anonymous request: %d %q", rec.Code, rec.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-User", "luis")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Body.String() != "luis" {
		t.Errorf("body = %q, want luis", rec.Body.String())
	}
}

func TestNewAuthenticator(t *testing.T) {
	t.Parallel()

	jwtCfg := testSecurityConfig()
	a, err := NewAuthenticator(jwtCfg)
	if err != nil || a.Name() != "jwt" {
		t.Errorf("jwt mode: %v, %v", a, err)
	}

	proxyCfg := &config.SecurityConfig{AuthMode: config.AuthModeProxy}
	a, err = NewAuthenticator(proxyCfg)
	if err != nil || a.Name() != "proxy" {
		t.Errorf("proxy mode: %v, %v", a, err)
	}

	if _, err := NewAuthenticator(&config.SecurityConfig{AuthMode: "basic"}); err == nil {
		t.Error("unknown mode should fail")
	}
	if _, err := NewAuthenticator(&config.SecurityConfig{AuthMode: config.AuthModeJWT}); err == nil {
		t.Error("jwt mode without a secret should fail")
	}
}

func TestSubjectUser(t *testing.T) {
	t.Parallel()

	u := (&Subject{ID: "u1", FirstName: "Bea", Email: "b@example.com"}).User()
	if u.ID != "u1" || u.DisplayName() != "Bea" {
		t.Errorf("User() = %+v", u)
	}
}
